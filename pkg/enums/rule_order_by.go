package enums

import "fmt"

// RuleOrderBy selects how racks matched by an assignment rule are ordered
// before priority numbers are handed out.
type RuleOrderBy string

const (
	RuleOrderByChronological RuleOrderBy = "chronological"
	RuleOrderByCapacity      RuleOrderBy = "capacity"
	RuleOrderByPriority      RuleOrderBy = "priority"
)

var validRuleOrderBys = []RuleOrderBy{
	RuleOrderByChronological,
	RuleOrderByCapacity,
	RuleOrderByPriority,
}

func (r RuleOrderBy) String() string {
	return string(r)
}

func (r RuleOrderBy) IsValid() bool {
	for _, candidate := range validRuleOrderBys {
		if candidate == r {
			return true
		}
	}
	return false
}

// ParseRuleOrderBy converts raw input into a RuleOrderBy.
func ParseRuleOrderBy(value string) (RuleOrderBy, error) {
	for _, candidate := range validRuleOrderBys {
		if string(candidate) == value {
			return candidate, nil
		}
	}
	return "", fmt.Errorf("invalid rule ordering %q", value)
}
