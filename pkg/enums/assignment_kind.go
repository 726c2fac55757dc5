package enums

import "fmt"

// AssignmentKind distinguishes how a customer may occupy a rack.
type AssignmentKind string

const (
	AssignmentKindDedicated AssignmentKind = "dedicated"
	AssignmentKindShared    AssignmentKind = "shared"
	AssignmentKindOverflow  AssignmentKind = "overflow"
)

var validAssignmentKinds = []AssignmentKind{
	AssignmentKindDedicated,
	AssignmentKindShared,
	AssignmentKindOverflow,
}

func (a AssignmentKind) String() string {
	return string(a)
}

func (a AssignmentKind) IsValid() bool {
	for _, candidate := range validAssignmentKinds {
		if candidate == a {
			return true
		}
	}
	return false
}

// ParseAssignmentKind converts raw input into an AssignmentKind.
func ParseAssignmentKind(value string) (AssignmentKind, error) {
	for _, candidate := range validAssignmentKinds {
		if string(candidate) == value {
			return candidate, nil
		}
	}
	return "", fmt.Errorf("invalid assignment kind %q", value)
}
