package enums

import "fmt"

// NotificationKind labels the event class a notification was produced for.
type NotificationKind string

const (
	NotificationKindDocumentStored    NotificationKind = "document_stored"
	NotificationKindDocumentArchived  NotificationKind = "document_archived"
	NotificationKindDocumentDestroyed NotificationKind = "document_destroyed"
	NotificationKindCapacityWarning   NotificationKind = "capacity_warning"
	NotificationKindWorkflow          NotificationKind = "workflow"
)

var validNotificationKinds = []NotificationKind{
	NotificationKindDocumentStored,
	NotificationKindDocumentArchived,
	NotificationKindDocumentDestroyed,
	NotificationKindCapacityWarning,
	NotificationKindWorkflow,
}

func (n NotificationKind) String() string {
	return string(n)
}

func (n NotificationKind) IsValid() bool {
	for _, candidate := range validNotificationKinds {
		if candidate == n {
			return true
		}
	}
	return false
}

// ParseNotificationKind converts raw input into a NotificationKind.
func ParseNotificationKind(value string) (NotificationKind, error) {
	for _, candidate := range validNotificationKinds {
		if string(candidate) == value {
			return candidate, nil
		}
	}
	return "", fmt.Errorf("invalid notification kind %q", value)
}
