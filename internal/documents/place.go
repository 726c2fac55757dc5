package document

import (
	"context"
	"encoding/json"

	"github.com/google/uuid"

	assignment "github.com/davidquintana/archivio-backend/internal/assignments"
	"github.com/davidquintana/archivio-backend/pkg/db/models"
	"github.com/davidquintana/archivio-backend/pkg/enums"
	pkgerrors "github.com/davidquintana/archivio-backend/pkg/errors"
	"github.com/davidquintana/archivio-backend/pkg/metrics"
	"github.com/davidquintana/archivio-backend/pkg/pubsub"
)

// Racks crossing this utilization after a placement trigger a capacity
// warning event.
const capacityWarningPct = 85

// Place assigns a pending document to a rack: evaluate the customer's
// assignments, reserve a slot on the chosen rack, persist the placement, and
// publish the stored event. Failure decisions (no racks, all at capacity) are
// returned as the decision, not as an error.
//
// Reservation can lose a race against a concurrent placement; when it does,
// the losing candidate is dropped and the evaluation reruns against the
// remaining ones.
func (s *service) Place(ctx context.Context, id uuid.UUID, actor *pubsub.ActorRef) (*assignment.Decision, error) {
	row, err := s.loadDocument(ctx, id)
	if err != nil {
		return nil, err
	}
	if row.Status != enums.DocumentStatusPending {
		return nil, pkgerrors.New(pkgerrors.CodeStateConflict, "document is already placed")
	}

	rows, err := s.assignmentRepo.ListActiveByCustomer(ctx, row.CustomerID)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "db: list assignments")
	}

	req := assignment.PlacementRequest{DocumentType: row.DocumentType, FileSize: row.FileSize}
	for {
		decision := assignment.Evaluate(rows, req)
		if !decision.Success {
			metrics.RecordDecision(decisionOutcome(decision))
			return &decision, nil
		}

		rackID, err := uuid.Parse(decision.Chosen.RackID)
		if err != nil {
			return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "parse chosen rack id")
		}
		reserved, err := s.assignmentRepo.ReserveSlot(ctx, rackID, decision.Chosen.ThresholdPct)
		if err != nil {
			return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "db: reserve slot")
		}
		if !reserved {
			metrics.RecordReservationConflict()
			rows = dropAssignment(rows, decision.Chosen.AssignmentID)
			continue
		}

		metrics.RecordDecision(metrics.OutcomeAssigned)
		return s.commitPlacement(ctx, row, &decision, rackID, actor)
	}
}

func (s *service) commitPlacement(ctx context.Context, row *models.Document, decision *assignment.Decision, rackID uuid.UUID, actor *pubsub.ActorRef) (*assignment.Decision, error) {
	fromStatus := row.Status
	row.RackID = &rackID
	row.Status = enums.DocumentStatusStored
	if _, err := s.repo.Update(ctx, row); err != nil {
		// Give the slot back so the rack count stays honest.
		if _, releaseErr := s.assignmentRepo.ReleaseSlot(ctx, rackID); releaseErr != nil {
			return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, releaseErr, "db: release slot after failed placement")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "db: persist placement")
	}

	s.publishStatusEvent(ctx, row, fromStatus, actor)
	if decision.UtilizationAfter >= capacityWarningPct {
		s.publishCapacityWarning(ctx, row, decision)
	}
	return decision, nil
}

// Transition moves a document between lifecycle statuses. Destroying a
// document releases its rack slot and deletes the stored binary.
func (s *service) Transition(ctx context.Context, id uuid.UUID, next enums.DocumentStatus, actor *pubsub.ActorRef) (*DocumentDTO, error) {
	if !next.IsValid() {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "invalid document status")
	}

	row, err := s.loadDocument(ctx, id)
	if err != nil {
		return nil, err
	}
	if next == enums.DocumentStatusStored && row.Status == enums.DocumentStatusPending {
		return nil, pkgerrors.New(pkgerrors.CodeStateConflict, "pending documents move to stored through placement")
	}
	if !row.Status.CanTransitionTo(next) {
		return nil, pkgerrors.New(pkgerrors.CodeStateConflict, "invalid status transition")
	}

	fromStatus := row.Status
	if next == enums.DocumentStatusDestroyed {
		if row.RackID != nil {
			if _, err := s.assignmentRepo.ReleaseSlot(ctx, *row.RackID); err != nil {
				return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "db: release slot")
			}
			row.RackID = nil
		}
		if s.signer != nil && row.GCSKey != "" {
			if err := s.signer.DeleteObject(ctx, "", row.GCSKey); err != nil {
				return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "gcs: delete object")
			}
		}
	}

	row.Status = next
	updated, err := s.repo.Update(ctx, row)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "db: update document status")
	}

	s.publishStatusEvent(ctx, updated, fromStatus, actor)
	return NewDocumentDTO(updated), nil
}

// statusEventData is the Data payload on document status events.
type statusEventData struct {
	FromStatus string  `json:"fromStatus"`
	ToStatus   string  `json:"toStatus"`
	RackID     *string `json:"rackId,omitempty"`
}

type capacityWarningData struct {
	RackID         string  `json:"rackId"`
	RackPath       string  `json:"rackPath"`
	UtilizationPct float64 `json:"utilizationPct"`
}

func (s *service) publishStatusEvent(ctx context.Context, row *models.Document, fromStatus enums.DocumentStatus, actor *pubsub.ActorRef) {
	if s.publisher == nil {
		return
	}
	eventType := eventTypeFor(row.Status)
	if eventType == "" {
		return
	}

	data := statusEventData{FromStatus: string(fromStatus), ToStatus: string(row.Status)}
	if row.RackID != nil {
		rackID := row.RackID.String()
		data.RackID = &rackID
	}
	payload, err := json.Marshal(data)
	if err != nil {
		return
	}

	// Best effort: placements and transitions are already committed, a
	// publish failure must not roll them back.
	_ = s.publisher.PublishDocumentEvent(ctx, pubsub.DocumentEvent{
		EventType:  eventType,
		DocumentID: row.ID,
		CustomerID: row.CustomerID,
		Actor:      actor,
		Data:       payload,
	})
}

func (s *service) publishCapacityWarning(ctx context.Context, row *models.Document, decision *assignment.Decision) {
	if s.publisher == nil || decision.Chosen == nil {
		return
	}
	payload, err := json.Marshal(capacityWarningData{
		RackID:         decision.Chosen.RackID,
		RackPath:       decision.Chosen.RackPath,
		UtilizationPct: decision.UtilizationAfter,
	})
	if err != nil {
		return
	}
	_ = s.publisher.PublishDocumentEvent(ctx, pubsub.DocumentEvent{
		EventType:  pubsub.EventCapacityWarning,
		DocumentID: row.ID,
		CustomerID: row.CustomerID,
		Data:       payload,
	})
}

func eventTypeFor(status enums.DocumentStatus) string {
	switch status {
	case enums.DocumentStatusStored:
		return pubsub.EventDocumentStored
	case enums.DocumentStatusArchived:
		return pubsub.EventDocumentArchived
	case enums.DocumentStatusDestroyed:
		return pubsub.EventDocumentDestroyed
	default:
		return ""
	}
}

func decisionOutcome(decision assignment.Decision) string {
	if decision.Message == assignment.MsgNoSuitableRacks {
		return metrics.OutcomeNoRacks
	}
	return metrics.OutcomeAllAtCapacity
}

func dropAssignment(rows []models.Assignment, assignmentID string) []models.Assignment {
	out := rows[:0]
	for _, row := range rows {
		if row.ID.String() == assignmentID {
			continue
		}
		out = append(out, row)
	}
	return out
}
