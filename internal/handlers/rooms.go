package handlers

import (
	"net/http"

	"elitestay/internal/models"
	"elitestay/internal/repository"

	"github.com/gin-gonic/gin"
)

// RecommendRooms - GET /api/rooms/recommendation?query=...
// Рекомендации номеров по описанию
func (h *Handlers) RecommendRooms(c *gin.Context) {
	page, pageSize, ok := pagination(c)
	if !ok {
		return
	}

	response, err := h.services.Recommendations.ByQuery(c.Request.Context(), c.Query("query"), page, pageSize)
	if err != nil {
		h.handleServiceError(c, err, "Failed to recommend rooms")
		return
	}

	c.JSON(http.StatusOK, response)
}

// RecommendByLikes - GET /api/rooms/recommendation/like
func (h *Handlers) RecommendByLikes(c *gin.Context) {
	h.recommendByPreference(c, repository.PreferenceLike)
}

// RecommendBySaves - GET /api/rooms/recommendation/save
func (h *Handlers) RecommendBySaves(c *gin.Context) {
	h.recommendByPreference(c, repository.PreferenceSave)
}

func (h *Handlers) recommendByPreference(c *gin.Context, kind repository.PreferenceKind) {
	page, pageSize, ok := pagination(c)
	if !ok {
		return
	}

	response, err := h.services.Recommendations.ByPreference(c.Request.Context(), kind, identity(c).UserID, page, pageSize)
	if err != nil {
		h.handleServiceError(c, err, "Failed to recommend rooms")
		return
	}

	c.JSON(http.StatusOK, response)
}

// RoomStatus - GET /api/rooms/:id/status
// Статус номера в реестре доступности
func (h *Handlers) RoomStatus(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}

	status, err := h.services.Bookings.RoomStatus(c.Request.Context(), id)
	if err != nil {
		h.handleServiceError(c, err, "Failed to get room status")
		return
	}

	c.JSON(http.StatusOK, models.RoomStatusResponse{RoomID: id, Status: status})
}

// LikeRoom - POST /api/rooms/:id/like
func (h *Handlers) LikeRoom(c *gin.Context) {
	h.changePreference(c, repository.PreferenceLike, true)
}

// UnlikeRoom - DELETE /api/rooms/:id/like
func (h *Handlers) UnlikeRoom(c *gin.Context) {
	h.changePreference(c, repository.PreferenceLike, false)
}

// SaveRoom - POST /api/rooms/:id/save
func (h *Handlers) SaveRoom(c *gin.Context) {
	h.changePreference(c, repository.PreferenceSave, true)
}

// UnsaveRoom - DELETE /api/rooms/:id/save
func (h *Handlers) UnsaveRoom(c *gin.Context) {
	h.changePreference(c, repository.PreferenceSave, false)
}

func (h *Handlers) changePreference(c *gin.Context, kind repository.PreferenceKind, add bool) {
	id, ok := pathID(c)
	if !ok {
		return
	}

	ctx := c.Request.Context()
	userID := identity(c).UserID

	var err error
	if add {
		err = h.services.Preferences.Add(ctx, kind, userID, id)
	} else {
		err = h.services.Preferences.Remove(ctx, kind, userID, id)
	}
	if err != nil {
		h.handleServiceError(c, err, "Failed to update room preference")
		return
	}

	// Согласно контракту - 200 без тела ответа
	c.Status(http.StatusOK)
}
