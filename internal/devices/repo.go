package devices

import (
	"context"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/fridgyapp/fridgy-backend/pkg/db/models"
)

// Repository handles push subscription persistence.
type Repository struct {
	db *gorm.DB
}

// NewRepository binds a GORM DB to subscription operations.
func NewRepository(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

// Upsert writes the subscription keyed by endpoint. Re-registering an endpoint
// reassigns it to the current user and refreshes the keys.
func (r *Repository) Upsert(ctx context.Context, token *models.FCMToken) error {
	return r.db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns: []clause.Column{{Name: "endpoint"}},
			DoUpdates: clause.AssignmentColumns([]string{
				"user_id", "p256dh", "auth", "last_seen_at",
			}),
		}).
		Create(token).Error
}

// ListByUser returns every subscription registered by the user.
func (r *Repository) ListByUser(ctx context.Context, userID uuid.UUID) ([]models.FCMToken, error) {
	var rows []models.FCMToken
	err := r.db.WithContext(ctx).
		Where("user_id = ?", userID).
		Order("created_at").
		Find(&rows).Error
	if err != nil {
		return nil, err
	}
	return rows, nil
}

// Delete removes the user's subscription for one endpoint.
func (r *Repository) Delete(ctx context.Context, userID uuid.UUID, endpoint string) error {
	result := r.db.WithContext(ctx).
		Where("user_id = ? AND endpoint = ?", userID, endpoint).
		Delete(&models.FCMToken{})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

// DeleteByEndpoint prunes a subscription regardless of owner. The notification
// worker uses it when the push service reports the endpoint gone.
func (r *Repository) DeleteByEndpoint(ctx context.Context, endpoint string) error {
	return r.db.WithContext(ctx).
		Where("endpoint = ?", endpoint).
		Delete(&models.FCMToken{}).Error
}

// TouchLastSeen refreshes the endpoint's last_seen_at timestamp.
func (r *Repository) TouchLastSeen(ctx context.Context, endpoint string, at time.Time) error {
	return r.db.WithContext(ctx).
		Model(&models.FCMToken{}).
		Where("endpoint = ?", endpoint).
		UpdateColumn("last_seen_at", at).Error
}
