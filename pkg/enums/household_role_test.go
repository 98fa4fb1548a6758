package enums

import "testing"

func TestParseHouseholdRoleCaseInsensitive(t *testing.T) {
	cases := []struct {
		input string
		want  HouseholdRole
	}{
		{"owner", HouseholdRoleOwner},
		{"OWNER", HouseholdRoleOwner},
		{"Owner", HouseholdRoleOwner},
		{"manager", HouseholdRoleManager},
		{"MANAGER", HouseholdRoleManager},
		{"member", HouseholdRoleMember},
		{" member ", HouseholdRoleMember},
	}
	for _, tc := range cases {
		if got := ParseHouseholdRole(tc.input); got != tc.want {
			t.Fatalf("ParseHouseholdRole(%q) = %s, want %s", tc.input, got, tc.want)
		}
	}
}

func TestParseHouseholdRoleDefaultsToMember(t *testing.T) {
	for _, input := range []string{"", "admin", "root", "ownerr", "  "} {
		if got := ParseHouseholdRole(input); got != HouseholdRoleMember {
			t.Fatalf("ParseHouseholdRole(%q) = %s, want member fallback", input, got)
		}
	}
}

func TestHouseholdRoleAtLeast(t *testing.T) {
	if !HouseholdRoleOwner.AtLeast(HouseholdRoleManager) {
		t.Fatal("owner should outrank manager")
	}
	if !HouseholdRoleManager.AtLeast(HouseholdRoleMember) {
		t.Fatal("manager should outrank member")
	}
	if HouseholdRoleMember.AtLeast(HouseholdRoleManager) {
		t.Fatal("member should not outrank manager")
	}
	if !HouseholdRoleMember.AtLeast(HouseholdRoleMember) {
		t.Fatal("role should rank at least itself")
	}
}

func TestHouseholdRoleIsValid(t *testing.T) {
	for _, role := range []HouseholdRole{HouseholdRoleOwner, HouseholdRoleManager, HouseholdRoleMember} {
		if !role.IsValid() {
			t.Fatalf("expected %s to be valid", role)
		}
	}
	if HouseholdRole("admin").IsValid() {
		t.Fatal("expected admin to be invalid")
	}
}
