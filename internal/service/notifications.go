package service

import (
	"context"
	"fmt"
	"strings"
	"time"

	apperrors "elitestay/internal/errors"
	"elitestay/internal/logger"
	"elitestay/internal/models"
)

const defaultNotificationPageSize = 20

type NotificationStore interface {
	Create(ctx context.Context, userID, message string) (*models.UserNotification, error)
	ListForUser(ctx context.Context, userID string, page, pageSize int) ([]models.UserNotification, int, error)
	MarkRead(ctx context.Context, userID string, id int64) error
}

// NotificationService is the notification sink: it stores the message for
// the account and fans it out on the event bus.
type NotificationService struct {
	store     NotificationStore
	publisher EventPublisher
}

func NewNotificationService(store NotificationStore, publisher EventPublisher) *NotificationService {
	return &NotificationService{store: store, publisher: publisher}
}

func (s *NotificationService) Notify(ctx context.Context, userID, message string) error {
	if strings.TrimSpace(userID) == "" {
		return fmt.Errorf("%w: notification without recipient", apperrors.ErrValidation)
	}

	n, err := s.store.Create(ctx, userID, message)
	if err != nil {
		return fmt.Errorf("failed to store notification: %w", err)
	}

	if s.publisher != nil {
		err := s.publisher.Publish(models.EventNotificationCreated, models.NotificationCreatedEvent{
			NotificationID: n.ID,
			UserID:         userID,
			Message:        message,
			Timestamp:      time.Now(),
		})
		if err != nil {
			logger.WithContext(ctx).Error("Failed to publish notification event",
				"error", err, "notification_id", n.ID)
		}
	}
	return nil
}

func (s *NotificationService) List(ctx context.Context, userID string, page, pageSize int) (models.Page[models.UserNotification], error) {
	if userID == "" {
		return models.Page[models.UserNotification]{}, apperrors.ErrUnauthorized
	}
	page, pageSize = normalizePage(page, pageSize, defaultNotificationPageSize)
	items, total, err := s.store.ListForUser(ctx, userID, page, pageSize)
	if err != nil {
		return models.Page[models.UserNotification]{}, fmt.Errorf("failed to list notifications: %w", err)
	}
	return models.NewPage(items, total, page, pageSize), nil
}

func (s *NotificationService) MarkRead(ctx context.Context, userID string, id int64) error {
	if userID == "" {
		return apperrors.ErrUnauthorized
	}
	return s.store.MarkRead(ctx, userID, id)
}
