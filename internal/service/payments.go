package service

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	apperrors "elitestay/internal/errors"
	"elitestay/internal/logger"
	"elitestay/internal/models"
	"elitestay/internal/pricing"

	"github.com/shopspring/decimal"
)

type PaymentStore interface {
	GetByID(ctx context.Context, id int64) (*models.Payment, error)
	Update(ctx context.Context, p *models.Payment) error
}

// PaymentService edits payments apart from their bookings, e.g. when a cash
// payment is settled at the desk.
type PaymentService struct {
	payments PaymentStore
	scopes   HotelScopeStore
}

func NewPaymentService(payments PaymentStore, scopes HotelScopeStore) *PaymentService {
	return &PaymentService{payments: payments, scopes: scopes}
}

// UpdatePayment sets amount, date and method. Completion follows
// PaymentPolicy for the method unless the request marks it settled.
func (s *PaymentService) UpdatePayment(ctx context.Context, identity models.Identity, id int64, req *models.UpdatePaymentRequest) (*models.PaymentResponse, error) {
	if identity.UserID == "" {
		return nil, apperrors.ErrUnauthorized
	}
	if !identity.IsStaff() {
		return nil, apperrors.ErrForbidden
	}

	amount, err := decimal.NewFromString(req.Amount)
	if err != nil || amount.IsNegative() || !amount.Equal(amount.Round(2)) {
		return nil, fmt.Errorf("%w: amount must be a non-negative value with at most 2 decimals", apperrors.ErrValidation)
	}
	paidOn, err := pricing.ParseDate("payment date", req.PaymentDate)
	if err != nil {
		return nil, err
	}

	payment, err := s.payments.GetByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("failed to get payment: %w", err)
	}
	if payment == nil {
		return nil, fmt.Errorf("%w: %d", apperrors.ErrPaymentNotFound, id)
	}
	if err := s.checkScope(ctx, identity, payment); err != nil {
		return nil, err
	}

	requested := req.Method
	if requested == "" {
		requested = string(payment.Method)
	}
	method, status, err := PaymentPolicy(requested)
	if err != nil {
		return nil, err
	}
	if req.Settled {
		status = models.PaymentDone
	}

	payment.Amount = amount
	payment.PaymentDate = paidOn
	payment.Method = method
	payment.StatusDone = status
	if err := s.payments.Update(ctx, payment); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("%w: %d", apperrors.ErrPaymentNotFound, id)
		}
		return nil, fmt.Errorf("failed to update payment: %w", err)
	}

	logger.WithContext(ctx).Info("Payment updated",
		"payment_id", id, "booking_id", payment.BookingID, "status", status)

	return &models.PaymentResponse{
		ID:          payment.ID,
		BookingID:   payment.BookingID,
		Amount:      payment.Amount.StringFixed(2),
		PaymentDate: payment.PaymentDate.Format(models.DateLayout),
		Method:      string(payment.Method),
		StatusDone:  string(payment.StatusDone),
	}, nil
}

// checkScope keeps hotel operators to payments of their own hotel.
func (s *PaymentService) checkScope(ctx context.Context, identity models.Identity, p *models.Payment) error {
	if identity.Role == models.RoleAdmin {
		return nil
	}
	hotelID, ok, err := s.scopes.HotelIDForAccount(ctx, identity.UserID)
	if err != nil {
		return fmt.Errorf("failed to resolve operator hotel: %w", err)
	}
	if !ok || hotelID != p.HotelID {
		return apperrors.ErrForbidden
	}
	return nil
}
