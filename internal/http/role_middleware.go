package http

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"hackhub-web/internal/domain"
	"hackhub-web/internal/gate"
)

// RequireRole protege una ruta con el Role Gate. Si fallback no es nil y
// opts.HasFallback es true, se usa para roles no permitidos.
func RequireRole(allowed []domain.Role, opts gate.Options, fallback gin.HandlerFunc) gin.HandlerFunc {
	if fallback == nil {
		opts.HasFallback = false
	}
	return func(c *gin.Context) {
		store, ok := GetSessionStore(c)
		if !ok {
			c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{"error": "session unavailable"})
			return
		}

		d := gate.Guard(store.Snapshot(), allowed, opts)
		switch d.Kind {
		case gate.KindLoading:
			c.AbortWithStatusJSON(http.StatusAccepted, gin.H{"status": "loading"})
		case gate.KindRedirect:
			c.Redirect(http.StatusFound, d.RedirectTo)
			c.Abort()
		case gate.KindFallback:
			fallback(c)
			c.Abort()
		case gate.KindForbidden:
			c.AbortWithStatusJSON(http.StatusForbidden, gin.H{
				"error":         "forbidden",
				"allowed_roles": d.AllowedRoles,
				"home":          d.HomeURL,
			})
		default:
			c.Next()
		}
	}
}

// sessionOf devuelve la sesión activa; solo se usa detrás de RequireRole.
func sessionOf(c *gin.Context) (domain.Session, bool) {
	store, ok := GetSessionStore(c)
	if !ok {
		return domain.Session{}, false
	}
	snap := store.Snapshot()
	if !snap.LoggedIn() {
		return domain.Session{}, false
	}
	return *snap.Session, true
}
