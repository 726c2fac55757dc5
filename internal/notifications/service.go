package notification

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	pkgerrors "github.com/davidquintana/archivio-backend/pkg/errors"
	"github.com/davidquintana/archivio-backend/pkg/pagination"
)

// Service exposes the per-user notification inbox.
type Service interface {
	ListNotifications(ctx context.Context, userID uuid.UUID, unreadOnly bool, params pagination.Params) (*NotificationListResult, error)
	UnreadCount(ctx context.Context, userID uuid.UUID) (int64, error)
	MarkRead(ctx context.Context, userID, notificationID uuid.UUID) error
	MarkAllRead(ctx context.Context, userID uuid.UUID) (int64, error)
}

type service struct {
	repo *Repository
	now  func() time.Time
}

// NewService constructs a notification service instance.
func NewService(repo *Repository) (Service, error) {
	if repo == nil {
		return nil, fmt.Errorf("notification repository required")
	}
	return &service{repo: repo, now: time.Now}, nil
}

// ListNotifications returns a page of the user's inbox.
func (s *service) ListNotifications(ctx context.Context, userID uuid.UUID, unreadOnly bool, params pagination.Params) (*NotificationListResult, error) {
	rows, nextCursor, err := s.repo.List(ctx, userID, unreadOnly, params)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "db: list notifications")
	}
	dtos := make([]NotificationDTO, 0, len(rows))
	for i := range rows {
		dtos = append(dtos, *NewNotificationDTO(&rows[i]))
	}
	return &NotificationListResult{Notifications: dtos, NextCursor: nextCursor}, nil
}

// UnreadCount reports the user's unread notifications.
func (s *service) UnreadCount(ctx context.Context, userID uuid.UUID) (int64, error) {
	count, err := s.repo.CountUnread(ctx, userID)
	if err != nil {
		return 0, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "db: count unread notifications")
	}
	return count, nil
}

// MarkRead stamps a single notification. Marking an already-read notification
// again is not an error.
func (s *service) MarkRead(ctx context.Context, userID, notificationID uuid.UUID) error {
	updated, err := s.repo.MarkRead(ctx, userID, notificationID, s.now())
	if err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "db: mark notification read")
	}
	if updated {
		return nil
	}

	exists, err := s.repo.Exists(ctx, userID, notificationID)
	if err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "db: load notification")
	}
	if !exists {
		return pkgerrors.New(pkgerrors.CodeNotFound, "notification not found")
	}
	return nil
}

// MarkAllRead stamps every unread notification of the user.
func (s *service) MarkAllRead(ctx context.Context, userID uuid.UUID) (int64, error) {
	updated, err := s.repo.MarkAllRead(ctx, userID, s.now())
	if err != nil {
		return 0, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "db: mark notifications read")
	}
	return updated, nil
}
