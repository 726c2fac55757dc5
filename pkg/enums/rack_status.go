package enums

import "fmt"

// RackStatus captures whether a rack can accept new placements.
type RackStatus string

const (
	RackStatusAvailable   RackStatus = "available"
	RackStatusMaintenance RackStatus = "maintenance"
	RackStatusRetired     RackStatus = "retired"
)

var validRackStatuses = []RackStatus{
	RackStatusAvailable,
	RackStatusMaintenance,
	RackStatusRetired,
}

func (r RackStatus) String() string {
	return string(r)
}

func (r RackStatus) IsValid() bool {
	for _, candidate := range validRackStatuses {
		if candidate == r {
			return true
		}
	}
	return false
}

// ParseRackStatus converts raw input into a RackStatus.
func ParseRackStatus(value string) (RackStatus, error) {
	for _, candidate := range validRackStatuses {
		if string(candidate) == value {
			return candidate, nil
		}
	}
	return "", fmt.Errorf("invalid rack status %q", value)
}
