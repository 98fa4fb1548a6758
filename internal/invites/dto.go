package invites

import (
	"time"

	"github.com/google/uuid"

	"github.com/fridgyapp/fridgy-backend/pkg/db/models"
	"github.com/fridgyapp/fridgy-backend/pkg/enums"
)

// InviteCodeDTO is the transport shape for an invite code.
type InviteCodeDTO struct {
	ID          uuid.UUID  `json:"id"`
	Code        string     `json:"code"`
	HouseholdID uuid.UUID  `json:"householdId"`
	CreatedBy   uuid.UUID  `json:"createdBy"`
	ExpiresAt   time.Time  `json:"expiresAt"`
	MaxUses     int        `json:"maxUses"`
	UseCount    int        `json:"useCount"`
	RevokedAt   *time.Time `json:"revokedAt,omitempty"`
	CreatedAt   time.Time  `json:"createdAt"`
}

// CreateInviteInput carries optional overrides for the configured defaults.
type CreateInviteInput struct {
	TTL     time.Duration
	MaxUses int
}

// RedeemResult reports the household joined and the role granted.
type RedeemResult struct {
	HouseholdID uuid.UUID           `json:"householdId"`
	Role        enums.HouseholdRole `json:"role"`
}

// FromModel maps an invite code row into its DTO.
func FromModel(invite *models.InviteCode) *InviteCodeDTO {
	if invite == nil {
		return nil
	}
	return &InviteCodeDTO{
		ID:          invite.ID,
		Code:        invite.Code,
		HouseholdID: invite.HouseholdID,
		CreatedBy:   invite.CreatedBy,
		ExpiresAt:   invite.ExpiresAt,
		MaxUses:     invite.MaxUses,
		UseCount:    invite.UseCount,
		RevokedAt:   invite.RevokedAt,
		CreatedAt:   invite.CreatedAt,
	}
}
