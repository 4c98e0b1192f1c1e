package service

import (
	"fmt"
	"strings"

	apperrors "elitestay/internal/errors"
	"elitestay/internal/models"
)

// PaymentPolicy maps the requested payment method to the method stored and
// whether the payment counts as completed. Card is charged at booking time,
// cash is settled at the desk.
func PaymentPolicy(method string) (models.PaymentMethod, models.PaymentStatus, error) {
	switch strings.ToLower(strings.TrimSpace(method)) {
	case "", "card":
		return models.PaymentCard, models.PaymentDone, nil
	case "cash":
		return models.PaymentCash, models.PaymentPending, nil
	}
	return "", "", fmt.Errorf("%w: unknown payment method %q", apperrors.ErrValidation, method)
}
