package products

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/fridgyapp/fridgy-backend/pkg/db/models"
	"github.com/fridgyapp/fridgy-backend/pkg/enums"
)

// ProductDTO is the transport shape for a catalog product.
type ProductDTO struct {
	UPC          string           `json:"upc"`
	Name         string           `json:"name"`
	Brand        string           `json:"brand,omitempty"`
	ImageURL     string           `json:"imageUrl,omitempty"`
	CategoryID   *uuid.UUID       `json:"categoryId,omitempty"`
	SizeAmount   *decimal.Decimal `json:"sizeAmount,omitempty"`
	SizeUnit     *enums.SizeUnit  `json:"sizeUnit,omitempty"`
	SearchTokens []string         `json:"searchTokens"`
	CreatedAt    time.Time        `json:"createdAt"`
	UpdatedAt    time.Time        `json:"updatedAt"`
}

// UpsertProductInput captures the payload for creating or updating a product.
type UpsertProductInput struct {
	Name       string
	Brand      string
	CategoryID *uuid.UUID
	SizeAmount *decimal.Decimal
	SizeUnit   *enums.SizeUnit
}

// PresignImageOutput carries the signed PUT URL for a product image upload.
type PresignImageOutput struct {
	UPC          string    `json:"upc"`
	ObjectPath   string    `json:"objectPath"`
	SignedPUTURL string    `json:"signedPutUrl"`
	ContentType  string    `json:"contentType"`
	ExpiresAt    time.Time `json:"expiresAt"`
}

// FromModel maps a product row into its DTO. The image URL, when present, is
// resolved by the service from the stored object path.
func FromModel(product *models.Product, imageURL string) *ProductDTO {
	if product == nil {
		return nil
	}
	return &ProductDTO{
		UPC:          product.UPC,
		Name:         product.Name,
		Brand:        product.Brand,
		ImageURL:     imageURL,
		CategoryID:   product.CategoryID,
		SizeAmount:   product.SizeAmount,
		SizeUnit:     product.SizeUnit,
		SearchTokens: append([]string(nil), product.SearchTokens...),
		CreatedAt:    product.CreatedAt,
		UpdatedAt:    product.UpdatedAt,
	}
}
