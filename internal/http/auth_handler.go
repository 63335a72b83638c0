package http

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"hackhub-web/internal/apiclient"
	"hackhub-web/internal/domain"
	"hackhub-web/internal/gate"
	"hackhub-web/internal/service"
	"hackhub-web/internal/session"
)

// AuthHandler mantiene dependencias para login, logout y registro.
type AuthHandler struct {
	logger  *zap.Logger
	api     *apiclient.Client
	limiter service.LoginRateLimiter
}

func NewAuthHandler(logger *zap.Logger, api *apiclient.Client, limiter service.LoginRateLimiter) *AuthHandler {
	return &AuthHandler{logger: logger, api: api, limiter: limiter}
}

// Login maneja POST /auth/login.
func (h *AuthHandler) Login(c *gin.Context) {
	var req struct {
		Username string `json:"username" binding:"required"`
		Password string `json:"password" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		h.logger.Warn("invalid login request", zap.Error(err))
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request"})
		return
	}
	if h.limiter != nil && !h.limiter.Allow(GetVisitorID(c)) {
		c.JSON(http.StatusTooManyRequests, gin.H{"error": "too many requests"})
		return
	}

	store, ok := GetSessionStore(c)
	if !ok {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "session unavailable"})
		return
	}

	sess, err := store.Login(c.Request.Context(), req.Username, req.Password)
	if err != nil {
		writeUpstreamError(c, h.logger, "login failed", err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"session": sess})
}

// Logout maneja POST /auth/logout. Siempre responde 204.
func (h *AuthHandler) Logout(c *gin.Context) {
	if store, ok := GetSessionStore(c); ok {
		store.Logout(c.Request.Context())
	}
	c.Status(http.StatusNoContent)
}

// Me maneja GET /auth/me con el estado de sesión y sus proyecciones de rol.
func (h *AuthHandler) Me(c *gin.Context) {
	store, ok := GetSessionStore(c)
	if !ok {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "session unavailable"})
		return
	}
	snap := store.Snapshot()
	c.JSON(http.StatusOK, gin.H{
		"state":          snap.State.String(),
		"loading":        snap.Loading(),
		"session":        snap.Session,
		"is_organizer":   snap.IsOrganizer(),
		"is_participant": snap.IsParticipant(),
		"is_admin":       snap.IsAdmin(),
		"can_host":       gate.ShowForRole(snap, domain.RoleOrganizer, domain.RoleAdmin),
	})
}

// Register maneja POST /auth/register.
func (h *AuthHandler) Register(c *gin.Context) {
	var req struct {
		Username string      `json:"username" binding:"required"`
		Email    string      `json:"email" binding:"required,email"`
		Password string      `json:"password" binding:"required"`
		FullName string      `json:"full_name"`
		Role     domain.Role `json:"role"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		h.logger.Warn("invalid register request", zap.Error(err))
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request"})
		return
	}
	if req.Role == "" {
		req.Role = domain.RoleParticipant
	}
	if !req.Role.Valid() || req.Role == domain.RoleAdmin {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid role"})
		return
	}

	user, err := h.api.Register(c.Request.Context(), domain.UserCreate{
		Username: req.Username,
		Email:    req.Email,
		Password: req.Password,
		FullName: req.FullName,
		Role:     req.Role,
	})
	if err != nil {
		writeUpstreamError(c, h.logger, "register failed", err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{"user": user})
}

// writeUpstreamError traduce errores de la API conservando el status y el
// mensaje del backend.
func writeUpstreamError(c *gin.Context, logger *zap.Logger, msg string, err error) {
	var apiErr *apiclient.APIError
	switch {
	case errors.As(err, &apiErr):
		logger.Info(msg, zap.Int("status", apiErr.Status), zap.String("detail", apiErr.Message))
		c.JSON(apiErr.Status, gin.H{"error": apiErr.Message})
	case errors.Is(err, session.ErrIncompleteSession):
		logger.Warn(msg, zap.Error(err))
		c.JSON(http.StatusBadGateway, gin.H{"error": "incomplete user record"})
	case errors.Is(err, session.ErrStaleTransition):
		c.JSON(http.StatusConflict, gin.H{"error": "superseded"})
	default:
		logger.Error(msg, zap.Error(err))
		c.JSON(http.StatusBadGateway, gin.H{"error": "upstream unavailable"})
	}
}
