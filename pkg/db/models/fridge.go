package models

import (
	"time"

	"github.com/google/uuid"
)

// Fridge is a named storage location inside a household.
type Fridge struct {
	ID          uuid.UUID `gorm:"type:uuid;default:gen_random_uuid();primaryKey"`
	HouseholdID uuid.UUID `gorm:"column:household_id;type:uuid;not null;index"`
	Name        string    `gorm:"type:text;not null"`
	CreatedBy   uuid.UUID `gorm:"column:created_by;type:uuid;not null"`
	CreatedAt   time.Time `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt   time.Time `gorm:"column:updated_at;autoUpdateTime"`
}
