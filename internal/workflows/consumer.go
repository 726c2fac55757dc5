package workflow

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	gcppubsub "cloud.google.com/go/pubsub/v2"

	"github.com/davidquintana/archivio-backend/pkg/db/models"
	"github.com/davidquintana/archivio-backend/pkg/enums"
	"github.com/davidquintana/archivio-backend/pkg/logger"
	"github.com/davidquintana/archivio-backend/pkg/metrics"
	"github.com/davidquintana/archivio-backend/pkg/pubsub"
)

const (
	consumerScope  = "worker:document-events"
	idempotencyTTL = 24 * time.Hour
)

type notificationWriter interface {
	CreateBatch(ctx context.Context, rows []models.Notification) error
}

type idempotencyStore interface {
	SetNX(ctx context.Context, key string, value any, ttl time.Duration) (bool, error)
	Del(ctx context.Context, keys ...string) error
	IdempotencyKey(scope, id string) string
}

// Consumer turns document lifecycle events into notifications: each event is
// matched against the active workflow rules and fanned out to every user
// holding the rule's notify role. Capacity warnings always go to admins.
type Consumer struct {
	repo          *Repository
	notifications notificationWriter
	idempotency   idempotencyStore
	subscription  *gcppubsub.Subscriber
	logg          *logger.Logger
}

// NewConsumer builds the document events consumer.
func NewConsumer(repo *Repository, notifications notificationWriter, idempotency idempotencyStore, subscription *gcppubsub.Subscriber, logg *logger.Logger) (*Consumer, error) {
	if repo == nil {
		return nil, fmt.Errorf("workflow repository required")
	}
	if notifications == nil {
		return nil, fmt.Errorf("notification repository required")
	}
	if idempotency == nil {
		return nil, fmt.Errorf("idempotency store required")
	}
	if subscription == nil {
		return nil, fmt.Errorf("document events subscription required")
	}
	if logg == nil {
		return nil, fmt.Errorf("logger required")
	}
	return &Consumer{
		repo:          repo,
		notifications: notifications,
		idempotency:   idempotency,
		subscription:  subscription,
		logg:          logg,
	}, nil
}

// Run starts the consumer loop until the context is canceled.
func (c *Consumer) Run(ctx context.Context) error {
	return c.subscription.Receive(ctx, func(ctx context.Context, msg *gcppubsub.Message) {
		if c.process(ctx, msg) {
			msg.Ack()
			return
		}
		msg.Nack()
	})
}

// process handles one message and reports whether it should be acked.
// Malformed messages are acked: redelivery cannot fix them.
func (c *Consumer) process(ctx context.Context, msg *gcppubsub.Message) bool {
	eventType := msg.Attributes["event_type"]
	logCtx := c.logg.WithFields(ctx, map[string]any{
		"message_id": msg.ID,
		"event_type": eventType,
	})

	var event pubsub.DocumentEvent
	if err := json.Unmarshal(msg.Data, &event); err != nil {
		c.logg.Error(logCtx, "failed to decode document event", err)
		metrics.RecordWorkerEvent(eventType, "malformed")
		return true
	}
	if event.EventID == "" {
		c.logg.Warn(logCtx, "document event without id, skipping")
		metrics.RecordWorkerEvent(event.EventType, "malformed")
		return true
	}
	logCtx = c.logg.WithDocumentID(logCtx, event.DocumentID.String())

	key := c.idempotency.IdempotencyKey(consumerScope, event.EventID)
	fresh, err := c.idempotency.SetNX(ctx, key, 1, idempotencyTTL)
	if err != nil {
		c.logg.Error(logCtx, "idempotency check failed", err)
		metrics.RecordWorkerEvent(event.EventType, "retried")
		return false
	}
	if !fresh {
		c.logg.Info(logCtx, "event already processed")
		metrics.RecordWorkerEvent(event.EventType, "duplicate")
		return true
	}

	if err := c.handleEvent(ctx, event); err != nil {
		c.logg.Error(logCtx, "event handling failed", err)
		// Clear the idempotency mark so redelivery gets another attempt.
		_ = c.idempotency.Del(ctx, key)
		metrics.RecordWorkerEvent(event.EventType, "failed")
		return false
	}

	metrics.RecordWorkerEvent(event.EventType, "processed")
	return true
}

func (c *Consumer) handleEvent(ctx context.Context, event pubsub.DocumentEvent) error {
	if event.EventType == pubsub.EventCapacityWarning {
		return c.handleCapacityWarning(ctx, event)
	}
	return c.handleStatusChange(ctx, event)
}

// statusChangeData mirrors the Data payload the documents service publishes.
type statusChangeData struct {
	FromStatus string  `json:"fromStatus"`
	ToStatus   string  `json:"toStatus"`
	RackID     *string `json:"rackId,omitempty"`
}

func (c *Consumer) handleStatusChange(ctx context.Context, event pubsub.DocumentEvent) error {
	var data statusChangeData
	if len(event.Data) > 0 {
		if err := json.Unmarshal(event.Data, &data); err != nil {
			return fmt.Errorf("parsing status change payload: %w", err)
		}
	}
	from, err := enums.ParseDocumentStatus(data.FromStatus)
	if err != nil {
		return fmt.Errorf("status change event: %w", err)
	}
	to, err := enums.ParseDocumentStatus(data.ToStatus)
	if err != nil {
		return fmt.Errorf("status change event: %w", err)
	}

	rules, err := c.repo.ListActiveByTransition(ctx, from, to)
	if err != nil {
		return fmt.Errorf("loading workflow rules: %w", err)
	}

	var rows []models.Notification
	for _, rule := range rules {
		users, err := c.repo.ListActiveUsersByRole(ctx, rule.NotifyRole)
		if err != nil {
			return fmt.Errorf("loading users for role %s: %w", rule.NotifyRole, err)
		}
		rows = append(rows, buildRuleNotifications(rule, users, event, to)...)
	}
	return c.notifications.CreateBatch(ctx, rows)
}

func (c *Consumer) handleCapacityWarning(ctx context.Context, event pubsub.DocumentEvent) error {
	var data capacityWarningData
	if len(event.Data) > 0 {
		if err := json.Unmarshal(event.Data, &data); err != nil {
			return fmt.Errorf("parsing capacity warning payload: %w", err)
		}
	}

	admins, err := c.repo.ListActiveUsersByRole(ctx, enums.MemberRoleAdmin)
	if err != nil {
		return fmt.Errorf("loading admins: %w", err)
	}

	rows := make([]models.Notification, 0, len(admins))
	for _, user := range admins {
		rows = append(rows, models.Notification{
			UserID: user.ID,
			Kind:   enums.NotificationKindCapacityWarning,
			Title:  "Rack nearing capacity",
			Body:   capacityWarningBody(data),
		})
	}
	return c.notifications.CreateBatch(ctx, rows)
}

type capacityWarningData struct {
	RackID         string  `json:"rackId"`
	RackPath       string  `json:"rackPath"`
	UtilizationPct float64 `json:"utilizationPct"`
}

func buildRuleNotifications(rule models.WorkflowRule, users []models.User, event pubsub.DocumentEvent, to enums.DocumentStatus) []models.Notification {
	rows := make([]models.Notification, 0, len(users))
	body := fmt.Sprintf("Document %s moved to %s (rule %q).", event.DocumentID, to, rule.Name)
	for _, user := range users {
		rows = append(rows, models.Notification{
			UserID: user.ID,
			Kind:   notificationKindFor(to),
			Title:  fmt.Sprintf("Document %s", to),
			Body:   body,
		})
	}
	return rows
}

func notificationKindFor(status enums.DocumentStatus) enums.NotificationKind {
	switch status {
	case enums.DocumentStatusStored:
		return enums.NotificationKindDocumentStored
	case enums.DocumentStatusArchived:
		return enums.NotificationKindDocumentArchived
	case enums.DocumentStatusDestroyed:
		return enums.NotificationKindDocumentDestroyed
	default:
		return enums.NotificationKindWorkflow
	}
}

func capacityWarningBody(data capacityWarningData) string {
	if data.RackPath != "" {
		return fmt.Sprintf("Rack %s reached %.1f%% utilization.", data.RackPath, data.UtilizationPct)
	}
	return fmt.Sprintf("Rack %s reached %.1f%% utilization.", data.RackID, data.UtilizationPct)
}
