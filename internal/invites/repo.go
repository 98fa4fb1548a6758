package invites

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/fridgyapp/fridgy-backend/pkg/db"
	"github.com/fridgyapp/fridgy-backend/pkg/db/models"
	"github.com/fridgyapp/fridgy-backend/pkg/enums"
)

var (
	// ErrInviteUnusable covers revoked, expired, and exhausted codes at redeem time.
	ErrInviteUnusable = errors.New("invite code is no longer usable")
	// ErrAlreadyMember marks a redeem by someone already in the household.
	ErrAlreadyMember = errors.New("user is already a household member")
)

// Repository handles invite code persistence.
type Repository struct {
	db *gorm.DB
}

// NewRepository binds a GORM DB to invite operations.
func NewRepository(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

// Create persists a new invite code.
func (r *Repository) Create(ctx context.Context, invite *models.InviteCode) error {
	return r.db.WithContext(ctx).Create(invite).Error
}

// FindByCode loads an invite by its code string.
func (r *Repository) FindByCode(ctx context.Context, code string) (*models.InviteCode, error) {
	var invite models.InviteCode
	if err := r.db.WithContext(ctx).Where("code = ?", code).First(&invite).Error; err != nil {
		return nil, err
	}
	return &invite, nil
}

// ListByHousehold returns the household's invite codes, newest first.
func (r *Repository) ListByHousehold(ctx context.Context, householdID uuid.UUID) ([]models.InviteCode, error) {
	var invites []models.InviteCode
	err := r.db.WithContext(ctx).
		Where("household_id = ?", householdID).
		Order("created_at DESC").
		Find(&invites).Error
	if err != nil {
		return nil, err
	}
	return invites, nil
}

// Revoke stamps revoked_at on an active invite.
func (r *Repository) Revoke(ctx context.Context, householdID, inviteID uuid.UUID, now time.Time) error {
	result := r.db.WithContext(ctx).
		Model(&models.InviteCode{}).
		Where("id = ? AND household_id = ? AND revoked_at IS NULL", inviteID, householdID).
		UpdateColumn("revoked_at", now)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

// Redeem consumes one use of the invite and adds the user as MEMBER in a
// single transaction. The conditional update is the source of truth; stale
// reads by the caller cannot oversubscribe the code.
func (r *Repository) Redeem(ctx context.Context, invite *models.InviteCode, userID uuid.UUID, now time.Time) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		result := tx.Model(&models.InviteCode{}).
			Where("id = ? AND revoked_at IS NULL AND expires_at > ? AND use_count < max_uses", invite.ID, now).
			UpdateColumn("use_count", gorm.Expr("use_count + 1"))
		if result.Error != nil {
			return result.Error
		}
		if result.RowsAffected == 0 {
			return ErrInviteUnusable
		}

		member := &models.HouseholdMember{
			HouseholdID: invite.HouseholdID,
			UserID:      userID,
			Role:        enums.HouseholdRoleMember,
			InvitedBy:   &invite.CreatedBy,
		}
		if err := tx.Create(member).Error; err != nil {
			if db.IsUniqueViolation(err, "idx_household_members_household_user") {
				return ErrAlreadyMember
			}
			return err
		}
		return nil
	})
}

// DeleteDead removes invites that expired or were revoked before the cutoff.
// Used by the cron purge job.
func (r *Repository) DeleteDead(ctx context.Context, cutoff time.Time) (int64, error) {
	result := r.db.WithContext(ctx).
		Where("expires_at < ? OR revoked_at < ?", cutoff, cutoff).
		Delete(&models.InviteCode{})
	return result.RowsAffected, result.Error
}
