package models

import (
	"time"

	"github.com/google/uuid"
)

// Item is a single stocked entry inside a fridge. UPC is optional so manual
// entries without a barcode still work.
type Item struct {
	ID         uuid.UUID  `gorm:"type:uuid;default:gen_random_uuid();primaryKey"`
	FridgeID   uuid.UUID  `gorm:"column:fridge_id;type:uuid;not null;index"`
	UPC        *string    `gorm:"column:upc;type:text"`
	Name       string     `gorm:"type:text;not null"`
	Quantity   int        `gorm:"not null;default:1"`
	CategoryID *uuid.UUID `gorm:"column:category_id;type:uuid"`
	ExpiresAt  *time.Time `gorm:"column:expires_at;type:timestamptz;index"`
	AddedBy    uuid.UUID  `gorm:"column:added_by;type:uuid;not null"`
	CreatedAt  time.Time  `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt  time.Time  `gorm:"column:updated_at;autoUpdateTime"`
}
