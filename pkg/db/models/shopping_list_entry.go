package models

import (
	"time"

	"github.com/google/uuid"
)

// ShoppingListEntry is one line on a household's shared shopping list.
type ShoppingListEntry struct {
	ID          uuid.UUID  `gorm:"type:uuid;default:gen_random_uuid();primaryKey"`
	HouseholdID uuid.UUID  `gorm:"column:household_id;type:uuid;not null;index"`
	Name        string     `gorm:"type:text;not null"`
	Quantity    int        `gorm:"not null;default:1"`
	Checked     bool       `gorm:"not null;default:false"`
	CheckedBy   *uuid.UUID `gorm:"column:checked_by;type:uuid"`
	CheckedAt   *time.Time `gorm:"column:checked_at;type:timestamptz"`
	AddedBy     uuid.UUID  `gorm:"column:added_by;type:uuid;not null"`
	CreatedAt   time.Time  `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt   time.Time  `gorm:"column:updated_at;autoUpdateTime"`
}

// TableName keeps the original collection name.
func (ShoppingListEntry) TableName() string {
	return "shopping_list"
}
