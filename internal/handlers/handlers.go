package handlers

import (
	"errors"
	"fmt"
	"net/http"
	"strconv"

	apperrors "elitestay/internal/errors"
	"elitestay/internal/logger"
	"elitestay/internal/middleware"
	"elitestay/internal/models"
	"elitestay/internal/service"

	"github.com/gin-gonic/gin"
)

const emptyQueryMessage = "Search string must not be empty."

type Handlers struct {
	services *service.Services
}

func NewHandlers(services *service.Services) *Handlers {
	return &Handlers{services: services}
}

// handleServiceError переводит ошибку сервиса в HTTP ответ
func (h *Handlers) handleServiceError(c *gin.Context, err error, msg string) {
	status := http.StatusInternalServerError
	message := msg

	switch {
	case errors.Is(err, apperrors.ErrEmptyQuery):
		status, message = http.StatusBadRequest, emptyQueryMessage
	case errors.Is(err, apperrors.ErrInvalidDateRange),
		errors.Is(err, apperrors.ErrValidation):
		status, message = http.StatusBadRequest, err.Error()
	case errors.Is(err, apperrors.ErrRoomNotFound),
		errors.Is(err, apperrors.ErrBookingNotFound),
		errors.Is(err, apperrors.ErrRoomTypeNotFound),
		errors.Is(err, apperrors.ErrHotelNotFound),
		errors.Is(err, apperrors.ErrNotificationNotFound),
		errors.Is(err, apperrors.ErrPaymentNotFound):
		status, message = http.StatusNotFound, err.Error()
	case errors.Is(err, apperrors.ErrRoomUnavailable),
		errors.Is(err, apperrors.ErrAlreadyExists),
		errors.Is(err, apperrors.ErrRoomTypeInUse):
		status, message = http.StatusConflict, err.Error()
	case errors.Is(err, apperrors.ErrUnauthorized):
		status, message = http.StatusUnauthorized, "Unauthorized"
	case errors.Is(err, apperrors.ErrForbidden):
		status, message = http.StatusForbidden, "Forbidden"
	}

	if status >= http.StatusInternalServerError {
		logger.WithContext(c.Request.Context()).Error(msg, "error", err)
	}
	_ = c.Error(err)
	c.JSON(status, gin.H{"error": message})
}

func identity(c *gin.Context) models.Identity {
	return middleware.IdentityFrom(c)
}

// pagination читает page и pageSize; нули заменяются значениями по умолчанию в сервисах
func pagination(c *gin.Context) (int, int, bool) {
	page, err := strconv.Atoi(c.DefaultQuery("page", "1"))
	if err != nil || page < 1 || page > models.MaxPage {
		c.JSON(http.StatusBadRequest, gin.H{"error": fmt.Sprintf("page must be between 1 and %d", models.MaxPage)})
		return 0, 0, false
	}

	pageSize, err := strconv.Atoi(c.DefaultQuery("pageSize", "0"))
	if err != nil || pageSize < 0 || pageSize > models.MaxPageSize {
		c.JSON(http.StatusBadRequest, gin.H{"error": fmt.Sprintf("pageSize must be between 1 and %d", models.MaxPageSize)})
		return 0, 0, false
	}
	return page, pageSize, true
}

func pathID(c *gin.Context) (int64, bool) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil || id < 1 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid id"})
		return 0, false
	}
	return id, true
}
