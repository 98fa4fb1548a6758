package models

import (
	"time"

	"github.com/google/uuid"
)

// Household is the top-level sharing unit. Ownership derives from CreatedBy,
// not from the member rows.
type Household struct {
	ID        uuid.UUID `gorm:"type:uuid;default:gen_random_uuid();primaryKey"`
	Name      string    `gorm:"type:text;not null"`
	CreatedBy uuid.UUID `gorm:"column:created_by;type:uuid;not null"`
	CreatedAt time.Time `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt time.Time `gorm:"column:updated_at;autoUpdateTime"`

	Members []HouseholdMember `gorm:"foreignKey:HouseholdID"`
}
