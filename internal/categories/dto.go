package categories

import (
	"time"

	"github.com/google/uuid"

	"github.com/fridgyapp/fridgy-backend/pkg/db/models"
)

// CategoryDTO is the transport shape for a lookup category.
type CategoryDTO struct {
	ID        uuid.UUID `json:"id"`
	Name      string    `json:"name"`
	SortOrder int       `json:"sortOrder"`
	CreatedAt time.Time `json:"createdAt"`
}

// CreateCategoryInput captures the payload for adding a category.
type CreateCategoryInput struct {
	Name      string
	SortOrder int
}

// FromModel maps a category row into its DTO.
func FromModel(category *models.Category) *CategoryDTO {
	if category == nil {
		return nil
	}
	return &CategoryDTO{
		ID:        category.ID,
		Name:      category.Name,
		SortOrder: category.SortOrder,
		CreatedAt: category.CreatedAt,
	}
}
