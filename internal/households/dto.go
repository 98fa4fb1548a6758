package households

import (
	"time"

	"github.com/google/uuid"

	"github.com/fridgyapp/fridgy-backend/pkg/db/models"
	"github.com/fridgyapp/fridgy-backend/pkg/enums"
)

// HouseholdDTO is the transport shape for a household, preserving the
// original document field names.
type HouseholdDTO struct {
	ID          uuid.UUID           `json:"id"`
	Name        string              `json:"name"`
	CreatedBy   uuid.UUID           `json:"createdBy"`
	MemberRoles map[string]string   `json:"memberRoles"`
	MyRole      enums.HouseholdRole `json:"myRole,omitempty"`
	CreatedAt   time.Time           `json:"createdAt"`
	UpdatedAt   time.Time           `json:"updatedAt"`
}

// MemberDTO mixes membership metadata with the member's profile.
type MemberDTO struct {
	UserID      uuid.UUID           `json:"userId"`
	DisplayName string              `json:"displayName"`
	Email       string              `json:"email"`
	Role        enums.HouseholdRole `json:"role"`
	InvitedBy   *uuid.UUID          `json:"invitedBy,omitempty"`
	CreatedAt   time.Time           `json:"createdAt"`
}

// CreateHouseholdInput captures the payload for creating a household.
type CreateHouseholdInput struct {
	Name string
}

// RenameHouseholdInput captures the payload for renaming a household.
type RenameHouseholdInput struct {
	Name string
}

// SetRoleInput captures a role assignment for one member.
type SetRoleInput struct {
	UserID uuid.UUID
	Role   enums.HouseholdRole
}

// ToDTO converts a household model plus its member rows into the external shape.
// The creator's entry in memberRoles is forced to owner.
func ToDTO(h *models.Household, viewer uuid.UUID, viewerRole enums.HouseholdRole) *HouseholdDTO {
	if h == nil {
		return nil
	}

	roles := make(map[string]string, len(h.Members)+1)
	for _, m := range h.Members {
		roles[m.UserID.String()] = enums.ParseHouseholdRole(string(m.Role)).String()
	}
	roles[h.CreatedBy.String()] = enums.HouseholdRoleOwner.String()

	return &HouseholdDTO{
		ID:          h.ID,
		Name:        h.Name,
		CreatedBy:   h.CreatedBy,
		MemberRoles: roles,
		MyRole:      viewerRole,
		CreatedAt:   h.CreatedAt,
		UpdatedAt:   h.UpdatedAt,
	}
}
