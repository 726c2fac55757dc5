package enums

import "fmt"

// DocumentStatus tracks a document through its archival lifecycle.
type DocumentStatus string

const (
	DocumentStatusPending   DocumentStatus = "pending"
	DocumentStatusStored    DocumentStatus = "stored"
	DocumentStatusArchived  DocumentStatus = "archived"
	DocumentStatusDestroyed DocumentStatus = "destroyed"
)

var validDocumentStatuses = []DocumentStatus{
	DocumentStatusPending,
	DocumentStatusStored,
	DocumentStatusArchived,
	DocumentStatusDestroyed,
}

func (d DocumentStatus) String() string {
	return string(d)
}

func (d DocumentStatus) IsValid() bool {
	for _, candidate := range validDocumentStatuses {
		if candidate == d {
			return true
		}
	}
	return false
}

// ParseDocumentStatus converts raw input into a DocumentStatus.
func ParseDocumentStatus(value string) (DocumentStatus, error) {
	for _, candidate := range validDocumentStatuses {
		if string(candidate) == value {
			return candidate, nil
		}
	}
	return "", fmt.Errorf("invalid document status %q", value)
}

// documentStatusTransitions lists the allowed next statuses per current status.
var documentStatusTransitions = map[DocumentStatus][]DocumentStatus{
	DocumentStatusPending:   {DocumentStatusStored, DocumentStatusDestroyed},
	DocumentStatusStored:    {DocumentStatusArchived, DocumentStatusDestroyed},
	DocumentStatusArchived:  {DocumentStatusStored, DocumentStatusDestroyed},
	DocumentStatusDestroyed: {},
}

// CanTransitionTo reports whether the status may move to next.
func (d DocumentStatus) CanTransitionTo(next DocumentStatus) bool {
	for _, candidate := range documentStatusTransitions[d] {
		if candidate == next {
			return true
		}
	}
	return false
}
