package notification

import (
	"time"

	"github.com/google/uuid"

	"github.com/davidquintana/archivio-backend/pkg/db/models"
)

// NotificationDTO represents the inbox entry returned to clients.
type NotificationDTO struct {
	ID        uuid.UUID  `json:"id"`
	Kind      string     `json:"kind"`
	Title     string     `json:"title"`
	Body      string     `json:"body,omitempty"`
	ReadAt    *time.Time `json:"read_at,omitempty"`
	CreatedAt time.Time  `json:"created_at"`
}

// NotificationListResult wraps a page of notifications.
type NotificationListResult struct {
	Notifications []NotificationDTO `json:"notifications"`
	NextCursor    string            `json:"next_cursor,omitempty"`
}

// NewNotificationDTO builds a DTO from the persisted model.
func NewNotificationDTO(row *models.Notification) *NotificationDTO {
	return &NotificationDTO{
		ID:        row.ID,
		Kind:      string(row.Kind),
		Title:     row.Title,
		Body:      row.Body,
		ReadAt:    row.ReadAt,
		CreatedAt: row.CreatedAt,
	}
}
