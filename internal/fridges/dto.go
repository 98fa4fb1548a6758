package fridges

import (
	"time"

	"github.com/google/uuid"

	"github.com/fridgyapp/fridgy-backend/pkg/db/models"
)

// FridgeDTO is the transport shape for a fridge.
type FridgeDTO struct {
	ID          uuid.UUID `json:"id"`
	HouseholdID uuid.UUID `json:"householdId"`
	Name        string    `json:"name"`
	CreatedBy   uuid.UUID `json:"createdBy"`
	CreatedAt   time.Time `json:"createdAt"`
	UpdatedAt   time.Time `json:"updatedAt"`
}

// CreateFridgeInput captures the payload for creating a fridge.
type CreateFridgeInput struct {
	Name string
}

// RenameFridgeInput captures the payload for renaming a fridge.
type RenameFridgeInput struct {
	Name string
}

// FromModel maps a fridge row into its DTO.
func FromModel(fridge *models.Fridge) *FridgeDTO {
	if fridge == nil {
		return nil
	}
	return &FridgeDTO{
		ID:          fridge.ID,
		HouseholdID: fridge.HouseholdID,
		Name:        fridge.Name,
		CreatedBy:   fridge.CreatedBy,
		CreatedAt:   fridge.CreatedAt,
		UpdatedAt:   fridge.UpdatedAt,
	}
}
