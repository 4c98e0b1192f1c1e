package service

import (
	"context"
	"errors"
	"testing"
	"time"

	apperrors "elitestay/internal/errors"
	"elitestay/internal/models"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakePayments map[int64]models.Payment

func (f fakePayments) GetByID(_ context.Context, id int64) (*models.Payment, error) {
	p, ok := f[id]
	if !ok {
		return nil, nil
	}
	return &p, nil
}

func (f fakePayments) Update(_ context.Context, p *models.Payment) error {
	f[p.ID] = *p
	return nil
}

func cashPayment() fakePayments {
	return fakePayments{7: {
		ID:          7,
		BookingID:   3,
		Amount:      decimal.RequireFromString("160.00"),
		PaymentDate: time.Date(2025, 1, 12, 0, 0, 0, 0, time.UTC),
		Method:      models.PaymentCash,
		StatusDone:  models.PaymentPending,
		HotelID:     2,
	}}
}

func TestUpdatePaymentSettlesCash(t *testing.T) {
	store := cashPayment()
	svc := NewPaymentService(store, fakeScopes{"acc-op-2": 2})
	ctx := context.Background()

	resp, err := svc.UpdatePayment(ctx, admin, 7, &models.UpdatePaymentRequest{Amount: "150.5", PaymentDate: "2025-01-12", Settled: true})
	require.NoError(t, err)
	assert.Equal(t, "150.50", resp.Amount)
	assert.Equal(t, "Cash", resp.Method)
	assert.Equal(t, "YES", resp.StatusDone)
	assert.Equal(t, "2025-01-12", resp.PaymentDate)

	// switching to card completes the payment through the policy
	operator := models.Identity{UserID: "acc-op-2", Role: models.RoleAdminHotel}
	resp, err = svc.UpdatePayment(ctx, operator, 7, &models.UpdatePaymentRequest{Amount: "160", PaymentDate: "2025-01-13", Method: "card"})
	require.NoError(t, err)
	assert.Equal(t, "Card", resp.Method)
	assert.Equal(t, "YES", resp.StatusDone)
	assert.Equal(t, "160.00", store[7].Amount.StringFixed(2))
}

func TestUpdatePaymentRejects(t *testing.T) {
	svc := NewPaymentService(cashPayment(), fakeScopes{"acc-op-2": 2, "acc-op-9": 9})
	ctx := context.Background()
	valid := &models.UpdatePaymentRequest{Amount: "10", PaymentDate: "2025-01-12"}

	tests := []struct {
		name     string
		identity models.Identity
		id       int64
		req      *models.UpdatePaymentRequest
		want     error
	}{
		{"anonymous", models.Identity{}, 7, valid, apperrors.ErrUnauthorized},
		{"guest", alice, 7, valid, apperrors.ErrForbidden},
		{"other hotel operator", models.Identity{UserID: "acc-op-9", Role: models.RoleAdminHotel}, 7, valid, apperrors.ErrForbidden},
		{"negative amount", admin, 7, &models.UpdatePaymentRequest{Amount: "-1", PaymentDate: "2025-01-12"}, apperrors.ErrValidation},
		{"three decimals", admin, 7, &models.UpdatePaymentRequest{Amount: "1.005", PaymentDate: "2025-01-12"}, apperrors.ErrValidation},
		{"bad date", admin, 7, &models.UpdatePaymentRequest{Amount: "10", PaymentDate: "12/01/2025"}, apperrors.ErrValidation},
		{"bad method", admin, 7, &models.UpdatePaymentRequest{Amount: "10", PaymentDate: "2025-01-12", Method: "crypto"}, apperrors.ErrValidation},
		{"missing", admin, 8, valid, apperrors.ErrPaymentNotFound},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := svc.UpdatePayment(ctx, tt.identity, tt.id, tt.req)
			assert.True(t, errors.Is(err, tt.want), "got %v", err)
		})
	}
}
