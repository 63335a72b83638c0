package domain

import "time"

// Category es un evento (hackathon, convocatoria) al que se asocian propuestas.
type Category struct {
	ID          int64      `json:"id"`
	Name        string     `json:"name"`
	Description string     `json:"description"`
	Type        string     `json:"type,omitempty"`
	Status      string     `json:"status,omitempty"`
	StartDate   *time.Time `json:"start_date,omitempty"`
	EndDate     *time.Time `json:"end_date,omitempty"`
	CreatedBy   int64      `json:"created_by"`
}

type CategoryCreate struct {
	Name        string     `json:"name"`
	Description string     `json:"description"`
	Type        string     `json:"type,omitempty"`
	StartDate   *time.Time `json:"start_date,omitempty"`
	EndDate     *time.Time `json:"end_date,omitempty"`
}

type CategoryUpdate struct {
	Name        *string    `json:"name,omitempty"`
	Description *string    `json:"description,omitempty"`
	Status      *string    `json:"status,omitempty"`
	StartDate   *time.Time `json:"start_date,omitempty"`
	EndDate     *time.Time `json:"end_date,omitempty"`
}

type Follow struct {
	FollowerID int64     `json:"follower_id"`
	TargetID   int64     `json:"target_id"`
	CreatedAt  time.Time `json:"created_at,omitempty"`
}
