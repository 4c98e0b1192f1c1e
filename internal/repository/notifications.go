package repository

import (
	"context"
	"fmt"

	"elitestay/internal/database"
	apperrors "elitestay/internal/errors"
	"elitestay/internal/models"
)

type NotificationRepository struct {
	db *database.DB
}

func NewNotificationRepository(db *database.DB) *NotificationRepository {
	return &NotificationRepository{db: db}
}

// Create stores the message and delivers it to userID.
func (r *NotificationRepository) Create(ctx context.Context, userID, message string) (*models.UserNotification, error) {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, err
	}
	defer tx.Rollback()

	n := &models.UserNotification{UserID: userID, Message: message}
	err = tx.QueryRowContext(ctx,
		`INSERT INTO notifications (message) VALUES ($1) RETURNING id`,
		message).Scan(&n.NotificationID)
	if err != nil {
		return nil, fmt.Errorf("insert notification: %w", err)
	}

	err = tx.QueryRowContext(ctx, `
		INSERT INTO user_notifications (notification_id, user_id)
		VALUES ($1, $2)
		RETURNING id, is_read, created_at`,
		n.NotificationID, userID).Scan(&n.ID, &n.IsRead, &n.CreatedAt)
	if err != nil {
		return nil, fmt.Errorf("insert user notification: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return nil, err
	}
	return n, nil
}

// ListForUser returns the user's notifications, newest first.
func (r *NotificationRepository) ListForUser(ctx context.Context, userID string, page, pageSize int) ([]models.UserNotification, int, error) {
	var total int
	err := r.db.QueryRowContext(ctx,
		`SELECT COUNT(*) FROM user_notifications WHERE user_id = $1`, userID).Scan(&total)
	if err != nil {
		return nil, 0, err
	}

	rows, err := r.db.QueryContext(ctx, `
		SELECT un.id, un.notification_id, un.user_id, n.message, un.is_read, un.created_at
		FROM user_notifications un
		JOIN notifications n ON n.id = un.notification_id
		WHERE un.user_id = $1
		ORDER BY un.created_at DESC, un.id DESC
		LIMIT $2 OFFSET $3`,
		userID, pageSize, (page-1)*pageSize)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	items := []models.UserNotification{}
	for rows.Next() {
		var n models.UserNotification
		if err := rows.Scan(&n.ID, &n.NotificationID, &n.UserID, &n.Message, &n.IsRead, &n.CreatedAt); err != nil {
			return nil, 0, err
		}
		items = append(items, n)
	}
	return items, total, rows.Err()
}

func (r *NotificationRepository) MarkRead(ctx context.Context, userID string, id int64) error {
	res, err := r.db.ExecContext(ctx,
		`UPDATE user_notifications SET is_read = TRUE WHERE id = $1 AND user_id = $2`, id, userID)
	if err != nil {
		return err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return fmt.Errorf("%w: %d", apperrors.ErrNotificationNotFound, id)
	}
	return nil
}
