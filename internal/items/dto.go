package items

import (
	"time"

	"github.com/google/uuid"

	"github.com/fridgyapp/fridgy-backend/pkg/db/models"
)

// ItemDTO is the transport shape for a stocked item.
type ItemDTO struct {
	ID         uuid.UUID  `json:"id"`
	FridgeID   uuid.UUID  `json:"fridgeId"`
	UPC        *string    `json:"upc,omitempty"`
	Name       string     `json:"name"`
	Quantity   int        `json:"quantity"`
	CategoryID *uuid.UUID `json:"categoryId,omitempty"`
	ExpiresAt  *time.Time `json:"expiresAt,omitempty"`
	AddedBy    uuid.UUID  `json:"addedBy"`
	CreatedAt  time.Time  `json:"createdAt"`
	UpdatedAt  time.Time  `json:"updatedAt"`
}

// AddItemInput captures the payload for stocking an item.
type AddItemInput struct {
	UPC        *string
	Name       string
	Quantity   int
	CategoryID *uuid.UUID
	ExpiresAt  *time.Time
}

// UpdateItemInput carries optional field updates. Double pointers distinguish
// "leave alone" from "clear".
type UpdateItemInput struct {
	Name       *string
	Quantity   *int
	CategoryID **uuid.UUID
	ExpiresAt  **time.Time
}

// ListResult wraps a page of items plus the cursor for the next page.
type ListResult struct {
	Items  []ItemDTO `json:"items"`
	Cursor string    `json:"cursor"`
}

// FromModel maps an item row into its DTO.
func FromModel(item *models.Item) *ItemDTO {
	if item == nil {
		return nil
	}
	return &ItemDTO{
		ID:         item.ID,
		FridgeID:   item.FridgeID,
		UPC:        item.UPC,
		Name:       item.Name,
		Quantity:   item.Quantity,
		CategoryID: item.CategoryID,
		ExpiresAt:  item.ExpiresAt,
		AddedBy:    item.AddedBy,
		CreatedAt:  item.CreatedAt,
		UpdatedAt:  item.UpdatedAt,
	}
}
