package handlers

import (
	"net/http"

	"elitestay/internal/models"

	"github.com/gin-gonic/gin"
)

// RecommendHotels - GET /api/hotels/recommendation?query=...
// Рекомендации отелей по тегам
func (h *Handlers) RecommendHotels(c *gin.Context) {
	page, pageSize, ok := pagination(c)
	if !ok {
		return
	}

	response, err := h.services.Recommendations.Hotels(c.Request.Context(), c.Query("query"), page, pageSize)
	if err != nil {
		h.handleServiceError(c, err, "Failed to recommend hotels")
		return
	}

	c.JSON(http.StatusOK, response)
}

// AddRating - POST /api/ratings
// Оценка отеля от 1 до 5 с шагом 0.5
func (h *Handlers) AddRating(c *gin.Context) {
	var req models.AddRatingRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	response, err := h.services.Ratings.AddRating(c.Request.Context(), identity(c), &req)
	if err != nil {
		h.handleServiceError(c, err, "Failed to add rating")
		return
	}

	c.JSON(http.StatusCreated, gin.H{"message": "Rating added successfully.", "data": response})
}

// HotelRatings - GET /api/hotels/:id/ratings
func (h *Handlers) HotelRatings(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}
	page, pageSize, ok := pagination(c)
	if !ok {
		return
	}

	response, err := h.services.Ratings.HotelRatings(c.Request.Context(), id, page, pageSize)
	if err != nil {
		h.handleServiceError(c, err, "Failed to list ratings")
		return
	}

	c.JSON(http.StatusOK, response)
}

// TrendingHotels - GET /api/hotels/trending
func (h *Handlers) TrendingHotels(c *gin.Context) {
	trends, err := h.services.Ratings.Trends(c.Request.Context())
	if err != nil {
		h.handleServiceError(c, err, "Failed to load trending hotels")
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": trends})
}
