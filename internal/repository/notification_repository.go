package repository

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"github.com/craftlink/craftlink-backend/internal/models"
	"github.com/craftlink/craftlink-backend/internal/pkg/apperror"
)

type NotificationRepository struct {
	db *sqlx.DB
}

func NewNotificationRepository(db *sqlx.DB) *NotificationRepository {
	return &NotificationRepository{db: db}
}

// Create stores a notification payload for later delivery.
func (r *NotificationRepository) Create(ctx context.Context, userID uuid.UUID, payload json.RawMessage) (*models.Notification, error) {
	var notification models.Notification
	err := r.db.GetContext(ctx, &notification, `
		INSERT INTO notifications (user_id, payload)
		VALUES ($1, $2)
		RETURNING id, user_id, payload, is_read, created_at
	`, userID, payload)
	if err != nil {
		return nil, fmt.Errorf("notification repository: create: %w", err)
	}
	return &notification, nil
}

// ListByUser returns a user's notifications, newest first.
func (r *NotificationRepository) ListByUser(ctx context.Context, userID uuid.UUID, limit, offset int) ([]models.Notification, error) {
	var notifications []models.Notification
	err := r.db.SelectContext(ctx, &notifications, `
		SELECT id, user_id, payload, is_read, created_at
		FROM notifications WHERE user_id = $1
		ORDER BY created_at DESC LIMIT $2 OFFSET $3
	`, userID, limit, offset)
	return notifications, err
}

// MarkRead marks one notification as read, scoped to its owner. A miss
// (unknown id or someone else's notification) reports not found.
func (r *NotificationRepository) MarkRead(ctx context.Context, userID, notificationID uuid.UUID) error {
	res, err := r.db.ExecContext(ctx, `
		UPDATE notifications SET is_read = TRUE WHERE id = $1 AND user_id = $2
	`, notificationID, userID)
	if err != nil {
		return fmt.Errorf("notification repository: mark read: %w", err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("notification repository: mark read: %w", err)
	}
	if affected == 0 {
		return apperror.New(apperror.ErrCodeNotFound, "notification not found")
	}
	return nil
}

// MarkAllRead marks every notification of a user as read.
func (r *NotificationRepository) MarkAllRead(ctx context.Context, userID uuid.UUID) error {
	_, err := r.db.ExecContext(ctx, `
		UPDATE notifications SET is_read = TRUE WHERE user_id = $1 AND is_read = FALSE
	`, userID)
	return err
}

// CountUnread returns the number of unread notifications for a user.
func (r *NotificationRepository) CountUnread(ctx context.Context, userID uuid.UUID) (int, error) {
	var count int
	err := r.db.GetContext(ctx, &count, `
		SELECT COUNT(*) FROM notifications WHERE user_id = $1 AND is_read = FALSE
	`, userID)
	return count, err
}
