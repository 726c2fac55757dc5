package pubsub

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	pubsub "cloud.google.com/go/pubsub/v2"
	"github.com/google/uuid"
)

const publishTimeout = 10 * time.Second

// Document event types carried on the document events topic.
const (
	EventDocumentStored    = "document.stored"
	EventDocumentArchived  = "document.archived"
	EventDocumentDestroyed = "document.destroyed"
	EventCapacityWarning   = "rack.capacity_warning"
)

// ActorRef identifies who produced the event.
type ActorRef struct {
	UserID uuid.UUID `json:"userId"`
	Role   string    `json:"role,omitempty"`
}

// DocumentEvent is the stable envelope published after document state changes.
type DocumentEvent struct {
	Version    int             `json:"version"`
	EventID    string          `json:"eventId"`
	EventType  string          `json:"eventType"`
	OccurredAt time.Time       `json:"occurredAt"`
	DocumentID uuid.UUID       `json:"documentId"`
	CustomerID uuid.UUID       `json:"customerId"`
	Actor      *ActorRef       `json:"actor,omitempty"`
	Data       json.RawMessage `json:"data,omitempty"`
}

// EventPublisher is the narrow surface services depend on.
type EventPublisher interface {
	PublishDocumentEvent(ctx context.Context, event DocumentEvent) error
}

// PublishDocumentEvent serializes the event and publishes it to the document
// events topic, blocking until the server acks.
func (c *Client) PublishDocumentEvent(ctx context.Context, event DocumentEvent) error {
	if c == nil {
		return errors.New("pubsub client not initialized")
	}
	if event.EventType == "" {
		return errors.New("event type is required")
	}
	if event.EventID == "" {
		event.EventID = uuid.NewString()
	}
	if event.Version == 0 {
		event.Version = 1
	}
	if event.OccurredAt.IsZero() {
		event.OccurredAt = time.Now().UTC()
	}

	payload, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("marshaling document event: %w", err)
	}

	pub := c.DocumentEventsPublisher()
	if pub == nil {
		return errors.New("document events publisher not configured")
	}

	msg := &pubsub.Message{
		Data: payload,
		Attributes: map[string]string{
			"event_type":  event.EventType,
			"event_id":    event.EventID,
			"document_id": event.DocumentID.String(),
			"occurred_at": event.OccurredAt.Format(time.RFC3339Nano),
		},
	}

	publishCtx, cancel := context.WithTimeout(ctx, publishTimeout)
	defer cancel()

	result := pub.Publish(publishCtx, msg)
	if result == nil {
		return errors.New("publisher returned nil result")
	}
	if _, err := result.Get(publishCtx); err != nil {
		return fmt.Errorf("publishing document event: %w", err)
	}
	return nil
}
