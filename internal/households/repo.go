package households

import (
	"context"
	"fmt"
	"time"

	"github.com/fridgyapp/fridgy-backend/pkg/db/models"
	"github.com/fridgyapp/fridgy-backend/pkg/enums"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Repository handles household and membership persistence.
type Repository struct {
	db *gorm.DB
}

// NewRepository binds a GORM DB to household operations.
func NewRepository(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

// Create persists the household and seeds the creator as OWNER in one transaction.
func (r *Repository) Create(ctx context.Context, name string, createdBy uuid.UUID) (*models.Household, error) {
	household := &models.Household{
		Name:      name,
		CreatedBy: createdBy,
	}

	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(household).Error; err != nil {
			return err
		}
		member := &models.HouseholdMember{
			HouseholdID: household.ID,
			UserID:      createdBy,
			Role:        enums.HouseholdRoleOwner,
		}
		return tx.Create(member).Error
	})
	if err != nil {
		return nil, err
	}
	return household, nil
}

// FindByID loads a household with its member rows.
func (r *Repository) FindByID(ctx context.Context, id uuid.UUID) (*models.Household, error) {
	var household models.Household
	if err := r.db.WithContext(ctx).
		Preload("Members").
		Where("id = ?", id).
		First(&household).Error; err != nil {
		return nil, err
	}
	return &household, nil
}

// ListByUser returns every household the user belongs to, members preloaded.
func (r *Repository) ListByUser(ctx context.Context, userID uuid.UUID) ([]models.Household, error) {
	var households []models.Household
	err := r.db.WithContext(ctx).
		Preload("Members").
		Joins("JOIN household_members ON household_members.household_id = households.id").
		Where("household_members.user_id = ?", userID).
		Order("households.created_at").
		Find(&households).Error
	if err != nil {
		return nil, err
	}
	return households, nil
}

// UpdateName renames the household.
func (r *Repository) UpdateName(ctx context.Context, id uuid.UUID, name string) error {
	return r.db.WithContext(ctx).
		Model(&models.Household{}).
		Where("id = ?", id).
		Updates(map[string]any{"name": name, "updated_at": time.Now().UTC()}).Error
}

// Delete removes the household; member rows cascade at the schema level.
func (r *Repository) Delete(ctx context.Context, id uuid.UUID) error {
	return r.db.WithContext(ctx).Delete(&models.Household{}, "id = ?", id).Error
}

// GetMember retrieves a member row by household and user.
func (r *Repository) GetMember(ctx context.Context, householdID, userID uuid.UUID) (*models.HouseholdMember, error) {
	var member models.HouseholdMember
	err := r.db.WithContext(ctx).
		Where("household_id = ? AND user_id = ?", householdID, userID).
		First(&member).Error
	if err != nil {
		return nil, err
	}
	return &member, nil
}

// ListMembers returns memberships for the household along with user metadata.
func (r *Repository) ListMembers(ctx context.Context, householdID uuid.UUID) ([]MemberDTO, error) {
	var rows []memberRow
	err := r.db.WithContext(ctx).
		Model(&models.HouseholdMember{}).
		Select("household_members.*, users.email, user_profiles.display_name").
		Joins("JOIN users ON users.id = household_members.user_id").
		Joins("LEFT JOIN user_profiles ON user_profiles.user_id = household_members.user_id").
		Where("household_members.household_id = ?", householdID).
		Order("household_members.created_at").
		Scan(&rows).Error
	if err != nil {
		return nil, err
	}

	members := make([]MemberDTO, 0, len(rows))
	for _, row := range rows {
		members = append(members, MemberDTO{
			UserID:      row.UserID,
			DisplayName: row.DisplayName,
			Email:       row.Email,
			Role:        enums.ParseHouseholdRole(string(row.Role)),
			InvitedBy:   row.InvitedBy,
			CreatedAt:   row.CreatedAt,
		})
	}
	return members, nil
}

type memberRow struct {
	models.HouseholdMember
	Email       string
	DisplayName string
}

// CreateMember persists a new member row.
func (r *Repository) CreateMember(ctx context.Context, householdID, userID uuid.UUID, role enums.HouseholdRole, invitedBy *uuid.UUID) (*models.HouseholdMember, error) {
	if !role.IsValid() {
		return nil, fmt.Errorf("invalid household role %q", role)
	}

	member := &models.HouseholdMember{
		HouseholdID: householdID,
		UserID:      userID,
		Role:        role,
		InvitedBy:   invitedBy,
	}
	if err := r.db.WithContext(ctx).Create(member).Error; err != nil {
		return nil, err
	}
	return member, nil
}

// UpdateMemberRole sets the role on an existing member row.
func (r *Repository) UpdateMemberRole(ctx context.Context, householdID, userID uuid.UUID, role enums.HouseholdRole) error {
	if !role.IsValid() {
		return fmt.Errorf("invalid household role %q", role)
	}
	result := r.db.WithContext(ctx).
		Model(&models.HouseholdMember{}).
		Where("household_id = ? AND user_id = ?", householdID, userID).
		Update("role", role)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

// RemoveMember deletes the member row.
func (r *Repository) RemoveMember(ctx context.Context, householdID, userID uuid.UUID) error {
	result := r.db.WithContext(ctx).
		Where("household_id = ? AND user_id = ?", householdID, userID).
		Delete(&models.HouseholdMember{})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}
