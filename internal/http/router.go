package http

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"hackhub-web/internal/domain"
	"hackhub-web/internal/gate"
)

// NewRouter configura el router de Gin con middlewares y rutas.
func NewRouter(
	logger *zap.Logger,
	visitorMW gin.HandlerFunc,
	envH *EnvHandler,
	authH *AuthHandler,
	searchH *SearchHandler,
	pagesH *PagesHandler,
) *gin.Engine {
	r := gin.New()

	r.Use(zapLoggerMiddleware(logger), gin.Recovery())

	r.GET("/healthz", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	// La configuración inyectada no depende del visitante.
	r.GET("/env.js", envH.Script)
	r.GET("/env", envH.JSON)

	site := r.Group("/", visitorMW, jsonContentTypeMiddleware())

	auth := site.Group("/auth")
	auth.POST("/login", authH.Login)
	auth.POST("/logout", authH.Logout)
	auth.POST("/register", authH.Register)
	auth.GET("/me", authH.Me)

	site.GET("/search", searchH.Search)

	anyRole := []domain.Role{domain.RoleParticipant, domain.RoleOrganizer, domain.RoleAdmin}
	site.GET("/notifications", RequireRole(anyRole, gate.Options{}, nil), pagesH.Notifications)
	site.PATCH("/notifications/:id/read", RequireRole(anyRole, gate.Options{}, nil), pagesH.MarkNotificationRead)

	site.GET("/organizer/events",
		RequireRole([]domain.Role{domain.RoleOrganizer, domain.RoleAdmin}, gate.Options{RedirectTo: "/login?next=/organizer/events"}, nil),
		pagesH.OrganizerEvents,
	)
	site.GET("/admin/users", RequireRole([]domain.Role{domain.RoleAdmin}, gate.Options{}, nil), pagesH.AdminUsers)
	site.GET("/dashboard",
		RequireRole([]domain.Role{domain.RoleOrganizer, domain.RoleAdmin}, gate.Options{HasFallback: true}, pagesH.ParticipantDashboard),
		pagesH.OrganizerDashboard,
	)

	return r
}

// zapLoggerMiddleware crea un middleware simple de logging con zap.
func zapLoggerMiddleware(logger *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()
		latency := time.Since(start)
		logger.Info("request",
			zap.String("method", c.Request.Method),
			zap.String("path", c.Request.URL.Path),
			zap.Int("status", c.Writer.Status()),
			zap.Duration("latency", latency),
			zap.String("client_ip", c.ClientIP()),
		)
	}
}

// jsonContentTypeMiddleware fuerza Content-Type: application/json en responses.
func jsonContentTypeMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Writer.Header().Set("Content-Type", "application/json")
		c.Next()
	}
}
