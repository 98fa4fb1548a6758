package items

import (
	"context"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/fridgyapp/fridgy-backend/pkg/db/models"
	"github.com/fridgyapp/fridgy-backend/pkg/pagination"
)

// Repository handles item persistence.
type Repository struct {
	db *gorm.DB
}

// NewRepository binds a GORM DB to item operations.
func NewRepository(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

type listItemsParams struct {
	FridgeID uuid.UUID
	Limit    int
	Cursor   *pagination.Cursor
}

// Create persists a new item.
func (r *Repository) Create(ctx context.Context, item *models.Item) error {
	return r.db.WithContext(ctx).Create(item).Error
}

// FindByID loads an item.
func (r *Repository) FindByID(ctx context.Context, id uuid.UUID) (*models.Item, error) {
	var item models.Item
	if err := r.db.WithContext(ctx).Where("id = ?", id).First(&item).Error; err != nil {
		return nil, err
	}
	return &item, nil
}

// List pages through a fridge's items, newest first.
func (r *Repository) List(ctx context.Context, params listItemsParams) ([]models.Item, *pagination.Cursor, error) {
	limit := pagination.LimitWithBuffer(params.Limit)
	normalized := pagination.NormalizeLimit(params.Limit)
	query := r.db.WithContext(ctx).Model(&models.Item{}).Where("fridge_id = ?", params.FridgeID)
	if params.Cursor != nil {
		query = query.Where("(created_at, id) < (?, ?)", params.Cursor.CreatedAt, params.Cursor.ID)
	}

	var items []models.Item
	if err := query.Order("created_at DESC, id DESC").Limit(limit).Find(&items).Error; err != nil {
		return nil, nil, err
	}

	if len(items) > normalized {
		items = items[:normalized]
		last := items[len(items)-1]
		return items, &pagination.Cursor{CreatedAt: last.CreatedAt, ID: last.ID}, nil
	}
	return items, nil, nil
}

// Update persists the full item row.
func (r *Repository) Update(ctx context.Context, item *models.Item) error {
	return r.db.WithContext(ctx).Save(item).Error
}

// Delete removes an item.
func (r *Repository) Delete(ctx context.Context, id uuid.UUID) error {
	result := r.db.WithContext(ctx).Delete(&models.Item{}, "id = ?", id)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

// ExpiringItemRow carries the household context the expiry scanner needs to
// address notifications.
type ExpiringItemRow struct {
	models.Item
	HouseholdID uuid.UUID
}

// ListExpiringWindow returns items whose expiry falls inside [from, to),
// joined with their household.
func (r *Repository) ListExpiringWindow(ctx context.Context, from, to time.Time) ([]ExpiringItemRow, error) {
	var rows []ExpiringItemRow
	err := r.db.WithContext(ctx).
		Model(&models.Item{}).
		Select("items.*, fridges.household_id").
		Joins("JOIN fridges ON fridges.id = items.fridge_id").
		Where("items.expires_at >= ? AND items.expires_at < ?", from, to).
		Order("items.expires_at").
		Scan(&rows).Error
	if err != nil {
		return nil, err
	}
	return rows, nil
}
