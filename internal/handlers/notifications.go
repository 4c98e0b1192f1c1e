package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

// ListNotifications - GET /api/notifications
// Уведомления пользователя, новые первыми
func (h *Handlers) ListNotifications(c *gin.Context) {
	page, pageSize, ok := pagination(c)
	if !ok {
		return
	}

	response, err := h.services.Notifications.List(c.Request.Context(), identity(c).UserID, page, pageSize)
	if err != nil {
		h.handleServiceError(c, err, "Failed to list notifications")
		return
	}

	c.JSON(http.StatusOK, response)
}

// MarkNotificationRead - PUT /api/notifications/:id/read
func (h *Handlers) MarkNotificationRead(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}

	if err := h.services.Notifications.MarkRead(c.Request.Context(), identity(c).UserID, id); err != nil {
		h.handleServiceError(c, err, "Failed to mark notification as read")
		return
	}

	c.Status(http.StatusOK)
}
