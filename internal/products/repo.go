package products

import (
	"context"

	"github.com/lib/pq"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/fridgyapp/fridgy-backend/pkg/db/models"
)

// Repository handles catalog product persistence.
type Repository struct {
	db *gorm.DB
}

// NewRepository binds a GORM DB to product operations.
func NewRepository(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

// Upsert writes the product keyed by UPC, replacing all mutable columns.
func (r *Repository) Upsert(ctx context.Context, product *models.Product) error {
	return r.db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns: []clause.Column{{Name: "upc"}},
			DoUpdates: clause.AssignmentColumns([]string{
				"name", "brand", "category_id", "size_amount", "size_unit", "search_tokens", "updated_at",
			}),
		}).
		Create(product).Error
}

// FindByUPC loads a product by its barcode.
func (r *Repository) FindByUPC(ctx context.Context, upc string) (*models.Product, error) {
	var product models.Product
	if err := r.db.WithContext(ctx).Where("upc = ?", upc).First(&product).Error; err != nil {
		return nil, err
	}
	return &product, nil
}

// SetImagePath records the uploaded image object for a product.
func (r *Repository) SetImagePath(ctx context.Context, upc, objectPath string) error {
	result := r.db.WithContext(ctx).
		Model(&models.Product{}).
		Where("upc = ?", upc).
		Update("image_path", objectPath)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

// Search returns products whose token array contains every query word. The
// GIN index on search_tokens backs the containment operator.
func (r *Repository) Search(ctx context.Context, words []string, limit int) ([]models.Product, error) {
	if len(words) == 0 {
		return nil, nil
	}
	var rows []models.Product
	err := r.db.WithContext(ctx).
		Where("search_tokens @> ?", pq.Array(words)).
		Order("name").
		Limit(limit).
		Find(&rows).Error
	if err != nil {
		return nil, err
	}
	return rows, nil
}
