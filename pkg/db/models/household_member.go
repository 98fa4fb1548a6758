package models

import (
	"time"

	"github.com/google/uuid"

	"github.com/fridgyapp/fridgy-backend/pkg/enums"
)

// HouseholdMember links a user with a household and captures their role.
type HouseholdMember struct {
	ID          uuid.UUID           `gorm:"column:id;type:uuid;default:gen_random_uuid();primaryKey"`
	HouseholdID uuid.UUID           `gorm:"column:household_id;type:uuid;not null;uniqueIndex:idx_household_members_household_user"`
	UserID      uuid.UUID           `gorm:"column:user_id;type:uuid;not null;uniqueIndex:idx_household_members_household_user"`
	Role        enums.HouseholdRole `gorm:"column:role;type:household_role;not null"`
	InvitedBy   *uuid.UUID          `gorm:"column:invited_by;type:uuid"`
	CreatedAt   time.Time           `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt   time.Time           `gorm:"column:updated_at;autoUpdateTime"`
}
