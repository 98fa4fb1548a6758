package shoppinglist

import (
	"context"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/fridgyapp/fridgy-backend/pkg/db/models"
)

// Repository handles shopping list persistence.
type Repository struct {
	db *gorm.DB
}

// NewRepository binds a GORM DB to shopping list operations.
func NewRepository(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

// Create inserts a new entry.
func (r *Repository) Create(ctx context.Context, entry *models.ShoppingListEntry) error {
	return r.db.WithContext(ctx).Create(entry).Error
}

// FindByID loads one entry.
func (r *Repository) FindByID(ctx context.Context, id uuid.UUID) (*models.ShoppingListEntry, error) {
	var entry models.ShoppingListEntry
	if err := r.db.WithContext(ctx).Where("id = ?", id).First(&entry).Error; err != nil {
		return nil, err
	}
	return &entry, nil
}

// ListByHousehold returns the household's list, unchecked lines first.
func (r *Repository) ListByHousehold(ctx context.Context, householdID uuid.UUID) ([]models.ShoppingListEntry, error) {
	var rows []models.ShoppingListEntry
	err := r.db.WithContext(ctx).
		Where("household_id = ?", householdID).
		Order("checked, created_at").
		Find(&rows).Error
	if err != nil {
		return nil, err
	}
	return rows, nil
}

// SetChecked flips the checked flag, recording who checked and when. Unchecking
// clears both.
func (r *Repository) SetChecked(ctx context.Context, id uuid.UUID, checked bool, by *uuid.UUID, at *time.Time) error {
	result := r.db.WithContext(ctx).
		Model(&models.ShoppingListEntry{}).
		Where("id = ?", id).
		Updates(map[string]any{
			"checked":    checked,
			"checked_by": by,
			"checked_at": at,
			"updated_at": time.Now().UTC(),
		})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

// Delete removes one entry.
func (r *Repository) Delete(ctx context.Context, id uuid.UUID) error {
	result := r.db.WithContext(ctx).Where("id = ?", id).Delete(&models.ShoppingListEntry{})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

// ClearChecked deletes every checked line for the household and reports how
// many were removed.
func (r *Repository) ClearChecked(ctx context.Context, householdID uuid.UUID) (int64, error) {
	result := r.db.WithContext(ctx).
		Where("household_id = ? AND checked", householdID).
		Delete(&models.ShoppingListEntry{})
	return result.RowsAffected, result.Error
}
