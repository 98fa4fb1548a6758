package shoppinglist

import (
	"time"

	"github.com/google/uuid"

	"github.com/fridgyapp/fridgy-backend/pkg/db/models"
)

// EntryDTO is the transport shape for one shopping list line.
type EntryDTO struct {
	ID          uuid.UUID  `json:"id"`
	HouseholdID uuid.UUID  `json:"householdId"`
	Name        string     `json:"name"`
	Quantity    int        `json:"quantity"`
	Checked     bool       `json:"checked"`
	CheckedBy   *uuid.UUID `json:"checkedBy,omitempty"`
	CheckedAt   *time.Time `json:"checkedAt,omitempty"`
	AddedBy     uuid.UUID  `json:"addedBy"`
	CreatedAt   time.Time  `json:"createdAt"`
	UpdatedAt   time.Time  `json:"updatedAt"`
}

// AddEntryInput captures the payload for adding a line to the list.
type AddEntryInput struct {
	Name     string
	Quantity int
}

// FromModel maps a shopping list row into its DTO.
func FromModel(entry *models.ShoppingListEntry) *EntryDTO {
	if entry == nil {
		return nil
	}
	return &EntryDTO{
		ID:          entry.ID,
		HouseholdID: entry.HouseholdID,
		Name:        entry.Name,
		Quantity:    entry.Quantity,
		Checked:     entry.Checked,
		CheckedBy:   entry.CheckedBy,
		CheckedAt:   entry.CheckedAt,
		AddedBy:     entry.AddedBy,
		CreatedAt:   entry.CreatedAt,
		UpdatedAt:   entry.UpdatedAt,
	}
}
