package enums

import "fmt"

// MemberRole defines what a user may do across the platform.
type MemberRole string

const (
	MemberRoleAdmin    MemberRole = "admin"
	MemberRoleOperator MemberRole = "operator"
	MemberRoleViewer   MemberRole = "viewer"
)

var validMemberRoles = []MemberRole{
	MemberRoleAdmin,
	MemberRoleOperator,
	MemberRoleViewer,
}

func (m MemberRole) String() string {
	return string(m)
}

func (m MemberRole) IsValid() bool {
	for _, candidate := range validMemberRoles {
		if candidate == m {
			return true
		}
	}
	return false
}

// CanMutate reports whether the role may change reference data.
func (m MemberRole) CanMutate() bool {
	return m == MemberRoleAdmin || m == MemberRoleOperator
}

var memberRoleRank = map[MemberRole]int{
	MemberRoleViewer:   1,
	MemberRoleOperator: 2,
	MemberRoleAdmin:    3,
}

// AtLeast reports whether the role grants everything min grants.
func (m MemberRole) AtLeast(min MemberRole) bool {
	return memberRoleRank[m] >= memberRoleRank[min]
}

// ParseMemberRole converts raw input into a MemberRole.
func ParseMemberRole(value string) (MemberRole, error) {
	for _, candidate := range validMemberRoles {
		if string(candidate) == value {
			return candidate, nil
		}
	}
	return "", fmt.Errorf("invalid member role %q", value)
}
