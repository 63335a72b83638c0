package apiclient

import (
	"context"
	"encoding/json"

	"hackhub-web/internal/domain"
)

type loginRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

// Login autentica contra la API y devuelve el usuario.
func (c *Client) Login(ctx context.Context, username, password string) (domain.User, error) {
	return post[domain.User](ctx, c, "/auth/login", loginRequest{Username: username, Password: password}, withoutIdentity())
}

// Logout notifica el cierre de sesión del usuario.
func (c *Client) Logout(ctx context.Context, userID int64) error {
	_, err := post[json.RawMessage](ctx, c, "/auth/logout", nil, AsUser(userID))
	return err
}
