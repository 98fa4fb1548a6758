package fridges

import (
	"context"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/fridgyapp/fridgy-backend/pkg/db/models"
)

// Repository handles fridge persistence.
type Repository struct {
	db *gorm.DB
}

// NewRepository binds a GORM DB to fridge operations.
func NewRepository(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

// Create persists a new fridge.
func (r *Repository) Create(ctx context.Context, fridge *models.Fridge) error {
	return r.db.WithContext(ctx).Create(fridge).Error
}

// FindByID loads a fridge.
func (r *Repository) FindByID(ctx context.Context, id uuid.UUID) (*models.Fridge, error) {
	var fridge models.Fridge
	if err := r.db.WithContext(ctx).Where("id = ?", id).First(&fridge).Error; err != nil {
		return nil, err
	}
	return &fridge, nil
}

// ListByHousehold returns the household's fridges in creation order.
func (r *Repository) ListByHousehold(ctx context.Context, householdID uuid.UUID) ([]models.Fridge, error) {
	var fridges []models.Fridge
	err := r.db.WithContext(ctx).
		Where("household_id = ?", householdID).
		Order("created_at").
		Find(&fridges).Error
	if err != nil {
		return nil, err
	}
	return fridges, nil
}

// UpdateName renames the fridge.
func (r *Repository) UpdateName(ctx context.Context, id uuid.UUID, name string) error {
	result := r.db.WithContext(ctx).
		Model(&models.Fridge{}).
		Where("id = ?", id).
		Updates(map[string]any{"name": name, "updated_at": time.Now().UTC()})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

// Delete removes a fridge; its items cascade at the schema level.
func (r *Repository) Delete(ctx context.Context, id uuid.UUID) error {
	result := r.db.WithContext(ctx).Delete(&models.Fridge{}, "id = ?", id)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}
