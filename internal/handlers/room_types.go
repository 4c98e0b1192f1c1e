package handlers

import (
	"net/http"

	"elitestay/internal/models"

	"github.com/gin-gonic/gin"
)

// GetRoomType - GET /api/room-types/:id
func (h *Handlers) GetRoomType(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}

	rt, err := h.services.RoomTypes.Get(c.Request.Context(), id)
	if err != nil {
		h.handleServiceError(c, err, "Failed to get room type")
		return
	}

	c.JSON(http.StatusOK, rt)
}

// SearchRoomTypes - GET /api/room-types/search?query=...
// Полнотекстовый поиск типов номеров
func (h *Handlers) SearchRoomTypes(c *gin.Context) {
	page, pageSize, ok := pagination(c)
	if !ok {
		return
	}

	response, err := h.services.RoomTypes.Search(c.Request.Context(), c.Query("query"), page, pageSize)
	if err != nil {
		h.handleServiceError(c, err, "Failed to search room types")
		return
	}

	c.JSON(http.StatusOK, response)
}

// CreateRoomType - POST /api/room-types
func (h *Handlers) CreateRoomType(c *gin.Context) {
	var req models.RoomTypeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	rt, err := h.services.RoomTypes.Create(c.Request.Context(), &req)
	if err != nil {
		h.handleServiceError(c, err, "Failed to create room type")
		return
	}

	c.JSON(http.StatusCreated, rt)
}

// UpdateRoomType - PUT /api/room-types/:id
func (h *Handlers) UpdateRoomType(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}

	var req models.RoomTypeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	rt, err := h.services.RoomTypes.Update(c.Request.Context(), id, &req)
	if err != nil {
		h.handleServiceError(c, err, "Failed to update room type")
		return
	}

	c.JSON(http.StatusOK, rt)
}

// DeleteRoomType - DELETE /api/room-types/:id
func (h *Handlers) DeleteRoomType(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}

	if err := h.services.RoomTypes.Delete(c.Request.Context(), id); err != nil {
		h.handleServiceError(c, err, "Failed to delete room type")
		return
	}

	c.Status(http.StatusNoContent)
}
