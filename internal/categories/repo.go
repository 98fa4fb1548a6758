package categories

import (
	"context"

	"gorm.io/gorm"

	"github.com/fridgyapp/fridgy-backend/pkg/db/models"
)

// Repository handles category persistence.
type Repository struct {
	db *gorm.DB
}

// NewRepository binds a GORM DB to category operations.
func NewRepository(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

// Create inserts a category.
func (r *Repository) Create(ctx context.Context, category *models.Category) error {
	return r.db.WithContext(ctx).Create(category).Error
}

// List returns all categories in display order.
func (r *Repository) List(ctx context.Context) ([]models.Category, error) {
	var rows []models.Category
	if err := r.db.WithContext(ctx).Order("sort_order, name").Find(&rows).Error; err != nil {
		return nil, err
	}
	return rows, nil
}
