package households

import (
	"github.com/fridgyapp/fridgy-backend/pkg/db/models"
	"github.com/fridgyapp/fridgy-backend/pkg/enums"
	"github.com/google/uuid"
)

// CanEditRoles reports whether the role may change other members' roles.
func CanEditRoles(r enums.HouseholdRole) bool {
	return r == enums.HouseholdRoleOwner
}

// CanManageFridges reports whether the role may create, rename, or delete fridges.
func CanManageFridges(r enums.HouseholdRole) bool {
	return r == enums.HouseholdRoleOwner || r == enums.HouseholdRoleManager
}

// CanManageInviteCodes reports whether the role may create or revoke invite codes.
func CanManageInviteCodes(r enums.HouseholdRole) bool {
	return r == enums.HouseholdRoleOwner || r == enums.HouseholdRoleManager
}

// CanRemoveMembers reports whether the role may remove household members.
func CanRemoveMembers(r enums.HouseholdRole) bool {
	return r == enums.HouseholdRoleOwner || r == enums.HouseholdRoleManager
}

// CanDeleteHousehold reports whether the role may delete the household itself.
func CanDeleteHousehold(r enums.HouseholdRole) bool {
	return r == enums.HouseholdRoleOwner
}

// CanViewAndEditItems is true for every member; item access is not role-gated.
func CanViewAndEditItems(enums.HouseholdRole) bool {
	return true
}

// CanModifyUser reports whether a member holding acting may change or remove a
// member holding target. Owners may modify anyone, managers only plain
// members, members no one.
func CanModifyUser(acting, target enums.HouseholdRole) bool {
	switch acting {
	case enums.HouseholdRoleOwner:
		return true
	case enums.HouseholdRoleManager:
		return target == enums.HouseholdRoleMember
	default:
		return false
	}
}

// FindMember returns the member row for the user, or nil when absent.
func FindMember(household *models.Household, userID uuid.UUID) *models.HouseholdMember {
	if household == nil {
		return nil
	}
	for i := range household.Members {
		if household.Members[i].UserID == userID {
			return &household.Members[i]
		}
	}
	return nil
}

// EffectiveRole resolves a user's role in the household. The creator is
// always OWNER no matter what the member rows say; everyone else gets their
// stored role normalized through ParseHouseholdRole.
func EffectiveRole(household *models.Household, userID uuid.UUID, member *models.HouseholdMember) enums.HouseholdRole {
	if household != nil && household.CreatedBy == userID {
		return enums.HouseholdRoleOwner
	}
	if member == nil {
		return enums.HouseholdRoleMember
	}
	return enums.ParseHouseholdRole(string(member.Role))
}
