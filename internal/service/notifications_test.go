package service

import (
	"context"
	"errors"
	"testing"

	apperrors "elitestay/internal/errors"
	"elitestay/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeNotificationStore struct {
	items []models.UserNotification
	err   error
}

func (s *fakeNotificationStore) Create(_ context.Context, userID, message string) (*models.UserNotification, error) {
	if s.err != nil {
		return nil, s.err
	}
	n := models.UserNotification{ID: int64(len(s.items) + 1), NotificationID: int64(len(s.items) + 1), UserID: userID, Message: message}
	s.items = append(s.items, n)
	return &n, nil
}

func (s *fakeNotificationStore) ListForUser(_ context.Context, userID string, _, _ int) ([]models.UserNotification, int, error) {
	var out []models.UserNotification
	for _, n := range s.items {
		if n.UserID == userID {
			out = append(out, n)
		}
	}
	return out, len(out), nil
}

func (s *fakeNotificationStore) MarkRead(_ context.Context, userID string, id int64) error {
	for i := range s.items {
		if s.items[i].ID == id && s.items[i].UserID == userID {
			s.items[i].IsRead = true
			return nil
		}
	}
	return apperrors.ErrNotificationNotFound
}

func TestNotificationService(t *testing.T) {
	store := &fakeNotificationStore{}
	publisher := &fakePublisher{}
	svc := NewNotificationService(store, publisher)
	ctx := context.Background()

	require.NoError(t, svc.Notify(ctx, "acc-alice", "Room 101 is now available."))
	require.NoError(t, svc.Notify(ctx, "acc-bob", "hello"))
	assert.Equal(t, []string{models.EventNotificationCreated, models.EventNotificationCreated}, publisher.subjects)

	page, err := svc.List(ctx, "acc-alice", 0, 0)
	require.NoError(t, err)
	require.Len(t, page.Data, 1)
	assert.Equal(t, defaultNotificationPageSize, page.PageSize)

	require.NoError(t, svc.MarkRead(ctx, "acc-alice", page.Data[0].ID))
	assert.True(t, errors.Is(svc.MarkRead(ctx, "acc-alice", 2), apperrors.ErrNotificationNotFound))

	assert.True(t, errors.Is(svc.Notify(ctx, " ", "x"), apperrors.ErrValidation))
}

func TestNotificationPublishFailureIsNotFatal(t *testing.T) {
	svc := NewNotificationService(&fakeNotificationStore{}, &fakePublisher{err: errors.New("closed")})
	assert.NoError(t, svc.Notify(context.Background(), "acc-alice", "hi"))

	failing := NewNotificationService(&fakeNotificationStore{err: errors.New("db down")}, nil)
	assert.Error(t, failing.Notify(context.Background(), "acc-alice", "hi"))
}

func TestPaymentPolicy(t *testing.T) {
	tests := []struct {
		in     string
		method models.PaymentMethod
		status models.PaymentStatus
	}{
		{"", models.PaymentCard, models.PaymentDone},
		{"Card", models.PaymentCard, models.PaymentDone},
		{" cash ", models.PaymentCash, models.PaymentPending},
	}
	for _, tt := range tests {
		method, status, err := PaymentPolicy(tt.in)
		require.NoError(t, err, tt.in)
		assert.Equal(t, tt.method, method)
		assert.Equal(t, tt.status, status)
	}

	_, _, err := PaymentPolicy("crypto")
	assert.True(t, errors.Is(err, apperrors.ErrValidation))
}
