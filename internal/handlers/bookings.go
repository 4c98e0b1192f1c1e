package handlers

import (
	"net/http"
	"strconv"
	"time"

	"elitestay/internal/models"

	"github.com/gin-gonic/gin"
)

// Bookings handlers

// CreateBooking - POST /api/bookings
// Создать бронирование
func (h *Handlers) CreateBooking(c *gin.Context) {
	var req models.CreateBookingRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	response, err := h.services.Bookings.CreateBooking(c.Request.Context(), identity(c), &req)
	if err != nil {
		h.handleServiceError(c, err, "Failed to create booking")
		return
	}

	c.JSON(http.StatusCreated, gin.H{"message": "Add Booking Success", "data": response})
}

// UpdateBooking - PUT /api/bookings/:id
// Изменить даты бронирования
func (h *Handlers) UpdateBooking(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}

	var req models.UpdateBookingRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	response, err := h.services.Bookings.UpdateBooking(c.Request.Context(), identity(c), id, &req)
	if err != nil {
		h.handleServiceError(c, err, "Failed to update booking")
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Update Booking Success", "data": response})
}

// DeleteBooking - DELETE /api/bookings/:id
// Удалить бронирование
func (h *Handlers) DeleteBooking(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}

	if err := h.services.Bookings.DeleteBooking(c.Request.Context(), identity(c), id); err != nil {
		h.handleServiceError(c, err, "Failed to delete booking")
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Delete Booking Success"})
}

// ListBookings - GET /api/bookings
// Получить список бронирований пользователя
func (h *Handlers) ListBookings(c *gin.Context) {
	page, pageSize, ok := pagination(c)
	if !ok {
		return
	}

	response, err := h.services.Bookings.ListBookings(c.Request.Context(), identity(c), page, pageSize)
	if err != nil {
		h.handleServiceError(c, err, "Failed to list bookings")
		return
	}

	c.JSON(http.StatusOK, response)
}

// TotalPrice - GET /api/bookings/total-price
// Рассчитать стоимость проживания без бронирования
func (h *Handlers) TotalPrice(c *gin.Context) {
	roomID, err := strconv.ParseInt(c.Query("roomId"), 10, 64)
	if err != nil || roomID < 1 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "roomId is required"})
		return
	}

	response, err := h.services.Bookings.PreviewTotal(c.Request.Context(), roomID, c.Query("checkin"), c.Query("checkout"))
	if err != nil {
		h.handleServiceError(c, err, "Failed to calculate total price")
		return
	}

	c.JSON(http.StatusOK, response)
}

// CheckBookings - PUT /api/bookings/check
// Освободить номера с завершёнными бронированиями
func (h *Handlers) CheckBookings(c *gin.Context) {
	ctx := c.Request.Context()
	caller := identity(c)

	hotelID, err := h.services.Bookings.SweepScope(ctx, caller)
	if err != nil {
		h.handleServiceError(c, err, "Failed to resolve reconciliation scope")
		return
	}

	report, err := h.services.Bookings.ReconcileExpiredBookings(ctx, time.Now(), hotelID, caller.UserID)
	if err != nil {
		h.handleServiceError(c, err, "Failed to reconcile bookings")
		return
	}

	c.JSON(http.StatusOK, report)
}
