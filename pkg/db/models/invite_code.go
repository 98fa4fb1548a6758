package models

import (
	"time"

	"github.com/google/uuid"
)

// InviteCode grants MEMBER access to a household until it expires, runs out
// of uses, or is revoked.
type InviteCode struct {
	ID          uuid.UUID  `gorm:"type:uuid;default:gen_random_uuid();primaryKey"`
	Code        string     `gorm:"type:text;not null;uniqueIndex"`
	HouseholdID uuid.UUID  `gorm:"column:household_id;type:uuid;not null;index"`
	CreatedBy   uuid.UUID  `gorm:"column:created_by;type:uuid;not null"`
	ExpiresAt   time.Time  `gorm:"column:expires_at;type:timestamptz;not null"`
	MaxUses     int        `gorm:"column:max_uses;not null"`
	UseCount    int        `gorm:"column:use_count;not null;default:0"`
	RevokedAt   *time.Time `gorm:"column:revoked_at;type:timestamptz"`
	CreatedAt   time.Time  `gorm:"column:created_at;autoCreateTime"`
}
