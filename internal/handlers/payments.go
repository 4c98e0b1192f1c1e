package handlers

import (
	"net/http"

	"elitestay/internal/models"

	"github.com/gin-gonic/gin"
)

// UpdatePayment - PUT /api/payments/:id
// Изменить платёж отдельно от бронирования
func (h *Handlers) UpdatePayment(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}

	var req models.UpdatePaymentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	response, err := h.services.Payments.UpdatePayment(c.Request.Context(), identity(c), id, &req)
	if err != nil {
		h.handleServiceError(c, err, "Failed to update payment")
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Update Payment Success", "data": response})
}
