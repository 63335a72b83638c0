package domain

// Session es la identidad mínima del usuario actual guardada en el cliente.
type Session struct {
	UserID   int64  `json:"user_id"`
	Username string `json:"username"`
	Role     Role   `json:"role"`
}

// SessionFromUser proyecta un usuario remoto a la sesión local.
func SessionFromUser(u User) Session {
	return Session{UserID: u.ID, Username: u.Username, Role: u.Role}
}

// Complete indica si la sesión tiene los tres campos; nunca se acepta una
// sesión parcial.
func (s Session) Complete() bool {
	return s.UserID > 0 && s.Username != "" && s.Role.Valid()
}
