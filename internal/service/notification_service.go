package service

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"github.com/craftlink/craftlink-backend/internal/models"
	"github.com/craftlink/craftlink-backend/internal/pkg/apperror"
)

// NotificationRepository describes what NotificationService needs from the
// storage layer.
type NotificationRepository interface {
	Create(ctx context.Context, userID uuid.UUID, payload json.RawMessage) (*models.Notification, error)
	ListByUser(ctx context.Context, userID uuid.UUID, limit, offset int) ([]models.Notification, error)
	MarkRead(ctx context.Context, userID, notificationID uuid.UUID) error
	MarkAllRead(ctx context.Context, userID uuid.UUID) error
	CountUnread(ctx context.Context, userID uuid.UUID) (int, error)
}

// Broadcaster pushes a stored notification to connected clients.
type Broadcaster interface {
	BroadcastToUser(userID uuid.UUID, event string, data any) error
}

// NotificationService stores notifications and pushes them over WebSocket.
type NotificationService struct {
	repo        NotificationRepository
	broadcaster Broadcaster
	log         *logrus.Logger
}

func NewNotificationService(repo NotificationRepository, log *logrus.Logger) *NotificationService {
	return &NotificationService{repo: repo, log: log}
}

// SetBroadcaster wires the WebSocket hub. Optional: without it
// notifications are stored but not pushed.
func (s *NotificationService) SetBroadcaster(b Broadcaster) {
	s.broadcaster = b
}

// Notify stores a notification and pushes it to the user's live connections.
func (s *NotificationService) Notify(ctx context.Context, userID uuid.UUID, event string, data any) (*models.Notification, error) {
	payload, err := json.Marshal(map[string]any{
		"event": event,
		"data":  data,
	})
	if err != nil {
		return nil, fmt.Errorf("notification service: marshal payload: %w", err)
	}

	notification, err := s.repo.Create(ctx, userID, payload)
	if err != nil {
		return nil, err
	}

	if s.broadcaster != nil {
		if err := s.broadcaster.BroadcastToUser(userID, event, data); err != nil {
			s.log.WithError(err).WithField("user_id", userID).Warn("failed to push notification")
		}
	}

	return notification, nil
}

// JobEvent records a job lifecycle event for a user. Failures are logged,
// never propagated: the lifecycle operation already succeeded.
func (s *NotificationService) JobEvent(ctx context.Context, userID uuid.UUID, event string, job *models.Job) {
	if _, err := s.Notify(ctx, userID, event, job); err != nil {
		s.log.WithError(err).WithFields(logrus.Fields{
			"user_id": userID,
			"event":   event,
		}).Error("failed to store job notification")
	}
}

// ListNotifications returns a user's notifications, newest first.
func (s *NotificationService) ListNotifications(ctx context.Context, userID uuid.UUID, limit, offset int) ([]models.Notification, error) {
	if limit <= 0 || limit > 100 {
		limit = 20
	}
	if offset < 0 {
		offset = 0
	}
	return s.repo.ListByUser(ctx, userID, limit, offset)
}

// MarkAsRead marks one notification as read.
func (s *NotificationService) MarkAsRead(ctx context.Context, userID, notificationID uuid.UUID) error {
	if notificationID == uuid.Nil {
		return apperror.New(apperror.ErrCodeValidation, "notification id is required")
	}
	return s.repo.MarkRead(ctx, userID, notificationID)
}

// MarkAllAsRead marks every notification of a user as read.
func (s *NotificationService) MarkAllAsRead(ctx context.Context, userID uuid.UUID) error {
	return s.repo.MarkAllRead(ctx, userID)
}

// CountUnread returns the unread notification count.
func (s *NotificationService) CountUnread(ctx context.Context, userID uuid.UUID) (int, error) {
	return s.repo.CountUnread(ctx, userID)
}
