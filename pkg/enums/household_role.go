package enums

import "strings"

// HouseholdRole represents a household-level permissions role.
type HouseholdRole string

const (
	HouseholdRoleOwner   HouseholdRole = "owner"
	HouseholdRoleManager HouseholdRole = "manager"
	HouseholdRoleMember  HouseholdRole = "member"
)

var validHouseholdRoles = []HouseholdRole{
	HouseholdRoleOwner,
	HouseholdRoleManager,
	HouseholdRoleMember,
}

// String implements fmt.Stringer.
func (r HouseholdRole) String() string {
	return string(r)
}

// IsValid reports whether the value is a known HouseholdRole.
func (r HouseholdRole) IsValid() bool {
	for _, candidate := range validHouseholdRoles {
		if candidate == r {
			return true
		}
	}
	return false
}

// ParseHouseholdRole normalizes raw input into a HouseholdRole. Matching is
// case-insensitive; empty or unknown input falls back to the member role so
// stored role strings can never grant more than baseline access.
func ParseHouseholdRole(value string) HouseholdRole {
	normalized := strings.ToLower(strings.TrimSpace(value))
	for _, candidate := range validHouseholdRoles {
		if string(candidate) == normalized {
			return candidate
		}
	}
	return HouseholdRoleMember
}

var householdRoleRank = map[HouseholdRole]int{
	HouseholdRoleMember:  0,
	HouseholdRoleManager: 1,
	HouseholdRoleOwner:   2,
}

// AtLeast reports whether the role carries at least the privileges of other.
func (r HouseholdRole) AtLeast(other HouseholdRole) bool {
	return householdRoleRank[r] >= householdRoleRank[other]
}
