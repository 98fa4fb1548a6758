package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/lib/pq"
	"github.com/shopspring/decimal"

	"github.com/fridgyapp/fridgy-backend/pkg/enums"
)

// Product is the UPC-keyed catalog entry shared across households.
// SearchTokens are regenerated from name+brand on every write and never
// edited independently.
type Product struct {
	UPC          string           `gorm:"column:upc;type:text;primaryKey"`
	Name         string           `gorm:"type:text;not null"`
	Brand        string           `gorm:"type:text;not null;default:''"`
	ImagePath    *string          `gorm:"column:image_path;type:text"`
	CategoryID   *uuid.UUID       `gorm:"column:category_id;type:uuid"`
	SizeAmount   *decimal.Decimal `gorm:"column:size_amount;type:numeric"`
	SizeUnit     *enums.SizeUnit  `gorm:"column:size_unit;type:size_unit"`
	SearchTokens pq.StringArray   `gorm:"column:search_tokens;type:text[];not null;default:ARRAY[]::text[]"`
	CreatedAt    time.Time        `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt    time.Time        `gorm:"column:updated_at;autoUpdateTime"`
}
