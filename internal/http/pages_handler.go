package http

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"hackhub-web/internal/apiclient"
	"hackhub-web/internal/domain"
	"hackhub-web/internal/notify"
)

const (
	defaultPageLimit = 20
	maxPageLimit     = 100
)

// PagesHandler atiende las vistas que requieren sesión.
type PagesHandler struct {
	logger *zap.Logger
	api    *apiclient.Client
}

func NewPagesHandler(logger *zap.Logger, api *apiclient.Client) *PagesHandler {
	return &PagesHandler{logger: logger, api: api}
}

// Notifications maneja GET /notifications.
func (h *PagesHandler) Notifications(c *gin.Context) {
	sess, ok := sessionOf(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
		return
	}
	unread := c.Query("unread") == "true"

	page, err := h.api.ListNotifications(c.Request.Context(), sess.UserID, pagination(c), unread)
	if err != nil {
		writeUpstreamError(c, h.logger, "list notifications failed", err)
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"items": notify.Annotate(page.Items),
		"total": page.Total,
	})
}

// MarkNotificationRead maneja PATCH /notifications/:id/read.
func (h *PagesHandler) MarkNotificationRead(c *gin.Context) {
	sess, ok := sessionOf(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
		return
	}
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil || id <= 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid notification id"})
		return
	}

	n, err := h.api.MarkNotificationRead(c.Request.Context(), sess.UserID, id)
	if err != nil {
		writeUpstreamError(c, h.logger, "mark notification failed", err)
		return
	}
	c.JSON(http.StatusOK, notify.Item{Notification: n, Action: notify.Resolve(n)})
}

// OrganizerEvents maneja GET /organizer/events: eventos creados por la sesión.
func (h *PagesHandler) OrganizerEvents(c *gin.Context) {
	sess, ok := sessionOf(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
		return
	}
	page, err := h.api.ListCategories(c.Request.Context(), apiclient.CategoryFilter{
		Pagination: pagination(c),
		CreatedBy:  apiclient.Int64(sess.UserID),
	})
	if err != nil {
		writeUpstreamError(c, h.logger, "list organizer events failed", err)
		return
	}
	c.JSON(http.StatusOK, page)
}

// AdminUsers maneja GET /admin/users.
func (h *PagesHandler) AdminUsers(c *gin.Context) {
	p := pagination(c)
	role := domain.Role(c.Query("role"))
	if role != "" && !role.Valid() {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid role"})
		return
	}
	page, err := h.api.ListUsers(c.Request.Context(), *p.Skip, *p.Limit, role)
	if err != nil {
		writeUpstreamError(c, h.logger, "list users failed", err)
		return
	}
	c.JSON(http.StatusOK, page)
}

// OrganizerDashboard maneja GET /dashboard para organizadores y admins.
func (h *PagesHandler) OrganizerDashboard(c *gin.Context) {
	sess, _ := sessionOf(c)
	c.JSON(http.StatusOK, gin.H{"view": "organizer", "session": sess})
}

// ParticipantDashboard es la vista alternativa de /dashboard: las propuestas
// propias de la sesión.
func (h *PagesHandler) ParticipantDashboard(c *gin.Context) {
	sess, ok := sessionOf(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
		return
	}
	page, err := h.api.ListPosts(c.Request.Context(), apiclient.PostFilter{
		Pagination: pagination(c),
		CreatedBy:  apiclient.Int64(sess.UserID),
	})
	if err != nil {
		writeUpstreamError(c, h.logger, "list own posts failed", err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"view": "participant", "session": sess, "posts": page})
}

// pagination lee skip/limit de la query con valores acotados.
func pagination(c *gin.Context) apiclient.Pagination {
	skip, err := strconv.Atoi(c.DefaultQuery("skip", "0"))
	if err != nil || skip < 0 {
		skip = 0
	}
	limit, err := strconv.Atoi(c.DefaultQuery("limit", strconv.Itoa(defaultPageLimit)))
	if err != nil || limit <= 0 {
		limit = defaultPageLimit
	}
	if limit > maxPageLimit {
		limit = maxPageLimit
	}
	return apiclient.Paginate(skip, limit)
}
