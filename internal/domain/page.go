package domain

// Page es la forma común de todas las respuestas paginadas.
// No asumir len(Items) == Limit.
type Page[T any] struct {
	Items []T `json:"items"`
	Total int `json:"total"`
	Skip  int `json:"skip"`
	Limit int `json:"limit"`
}
