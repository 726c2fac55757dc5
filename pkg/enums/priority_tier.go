package enums

import "fmt"

// PriorityTier ranks customers for operator dashboards and rule ordering.
type PriorityTier string

const (
	PriorityTierHigh   PriorityTier = "high"
	PriorityTierMedium PriorityTier = "medium"
	PriorityTierLow    PriorityTier = "low"
)

var validPriorityTiers = []PriorityTier{
	PriorityTierHigh,
	PriorityTierMedium,
	PriorityTierLow,
}

// String returns the literal string for the tier.
func (p PriorityTier) String() string {
	return string(p)
}

// IsValid reports whether the tier is known.
func (p PriorityTier) IsValid() bool {
	for _, candidate := range validPriorityTiers {
		if candidate == p {
			return true
		}
	}
	return false
}

// ParsePriorityTier converts raw input into a PriorityTier.
func ParsePriorityTier(value string) (PriorityTier, error) {
	for _, candidate := range validPriorityTiers {
		if string(candidate) == value {
			return candidate, nil
		}
	}
	return "", fmt.Errorf("invalid priority tier %q", value)
}
