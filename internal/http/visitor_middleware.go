package http

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"hackhub-web/internal/service"
	"hackhub-web/internal/session"
)

const (
	visitorCookie   = "hh_visitor"
	visitorIDKey    = "visitor_id"
	sessionStoreKey = "session_store"
)

// VisitorOptions configura la cookie del visitante.
type VisitorOptions struct {
	Secure bool
	// ReadyWait es cuánto se espera a que una sesión nueva termine de
	// rehidratarse antes de atender la request. 0 no espera.
	ReadyWait time.Duration
}

// VisitorMiddleware identifica al visitante por cookie firmada (emitiendo una
// nueva si falta o es inválida) y deja su Store de sesión en el contexto.
func VisitorMiddleware(tokens *service.VisitorTokenService, sessions *session.Manager, opts VisitorOptions) gin.HandlerFunc {
	return func(c *gin.Context) {
		visitorID := ""
		if raw, err := c.Cookie(visitorCookie); err == nil {
			if id, err := tokens.Parse(raw); err == nil {
				visitorID = id
			}
		}
		if visitorID == "" {
			token, id, err := tokens.Issue()
			if err != nil {
				c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{"error": "visitor token unavailable"})
				return
			}
			visitorID = id
			c.SetSameSite(http.SameSiteLaxMode)
			c.SetCookie(visitorCookie, token, int(tokens.TTL().Seconds()), "/", "", opts.Secure, true)
		}

		store := sessions.Get(visitorID)
		if opts.ReadyWait > 0 {
			ctx, cancel := context.WithTimeout(c.Request.Context(), opts.ReadyWait)
			_ = store.WaitReady(ctx)
			cancel()
		}

		c.Set(visitorIDKey, visitorID)
		c.Set(sessionStoreKey, store)
		c.Next()
	}
}

// GetSessionStore obtiene el Store del visitante desde el contexto.
func GetSessionStore(c *gin.Context) (*session.Store, bool) {
	val, ok := c.Get(sessionStoreKey)
	if !ok {
		return nil, false
	}
	store, ok := val.(*session.Store)
	return store, ok
}

// GetVisitorID obtiene el id del visitante desde el contexto.
func GetVisitorID(c *gin.Context) string {
	return c.GetString(visitorIDKey)
}
