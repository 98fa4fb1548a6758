package households

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/fridgyapp/fridgy-backend/internal/notifications"
	"github.com/fridgyapp/fridgy-backend/pkg/db/models"
	"github.com/fridgyapp/fridgy-backend/pkg/enums"
	pkgerrors "github.com/fridgyapp/fridgy-backend/pkg/errors"
	"github.com/fridgyapp/fridgy-backend/pkg/logger"
)

type householdRepository interface {
	Create(ctx context.Context, name string, createdBy uuid.UUID) (*models.Household, error)
	FindByID(ctx context.Context, id uuid.UUID) (*models.Household, error)
	ListByUser(ctx context.Context, userID uuid.UUID) ([]models.Household, error)
	UpdateName(ctx context.Context, id uuid.UUID, name string) error
	Delete(ctx context.Context, id uuid.UUID) error
	ListMembers(ctx context.Context, householdID uuid.UUID) ([]MemberDTO, error)
	UpdateMemberRole(ctx context.Context, householdID, userID uuid.UUID, role enums.HouseholdRole) error
	RemoveMember(ctx context.Context, householdID, userID uuid.UUID) error
}

type eventPublisher interface {
	Publish(ctx context.Context, event notifications.Event) error
}

// Service exposes household and membership operations.
type Service interface {
	Create(ctx context.Context, userID uuid.UUID, input CreateHouseholdInput) (*HouseholdDTO, error)
	Get(ctx context.Context, userID, householdID uuid.UUID) (*HouseholdDTO, error)
	ListMine(ctx context.Context, userID uuid.UUID) ([]HouseholdDTO, error)
	Rename(ctx context.Context, actorID, householdID uuid.UUID, input RenameHouseholdInput) (*HouseholdDTO, error)
	Delete(ctx context.Context, actorID, householdID uuid.UUID) error
	ListMembers(ctx context.Context, actorID, householdID uuid.UUID) ([]MemberDTO, error)
	SetMemberRole(ctx context.Context, actorID, householdID uuid.UUID, input SetRoleInput) error
	RemoveMember(ctx context.Context, actorID, householdID, targetUserID uuid.UUID) error
	Leave(ctx context.Context, userID, householdID uuid.UUID) error
}

type service struct {
	repo   householdRepository
	events eventPublisher
	logg   *logger.Logger
}

// NewService builds a household service with the provided dependencies.
func NewService(repo householdRepository, events eventPublisher, logg *logger.Logger) (Service, error) {
	if repo == nil {
		return nil, fmt.Errorf("household repository required")
	}
	if events == nil {
		return nil, fmt.Errorf("event publisher required")
	}
	if logg == nil {
		return nil, fmt.Errorf("logger required")
	}
	return &service{repo: repo, events: events, logg: logg}, nil
}

func (s *service) Create(ctx context.Context, userID uuid.UUID, input CreateHouseholdInput) (*HouseholdDTO, error) {
	name := strings.TrimSpace(input.Name)
	if name == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "household name is required")
	}

	household, err := s.repo.Create(ctx, name, userID)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "create household")
	}

	loaded, err := s.repo.FindByID(ctx, household.ID)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load household")
	}
	return ToDTO(loaded, userID, enums.HouseholdRoleOwner), nil
}

func (s *service) Get(ctx context.Context, userID, householdID uuid.UUID) (*HouseholdDTO, error) {
	household, role, err := s.loadWithRole(ctx, householdID, userID)
	if err != nil {
		return nil, err
	}
	return ToDTO(household, userID, role), nil
}

func (s *service) ListMine(ctx context.Context, userID uuid.UUID) ([]HouseholdDTO, error) {
	households, err := s.repo.ListByUser(ctx, userID)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "list households")
	}

	dtos := make([]HouseholdDTO, 0, len(households))
	for i := range households {
		h := &households[i]
		role := EffectiveRole(h, userID, FindMember(h, userID))
		dtos = append(dtos, *ToDTO(h, userID, role))
	}
	return dtos, nil
}

func (s *service) Rename(ctx context.Context, actorID, householdID uuid.UUID, input RenameHouseholdInput) (*HouseholdDTO, error) {
	name := strings.TrimSpace(input.Name)
	if name == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "household name is required")
	}

	household, role, err := s.loadWithRole(ctx, householdID, actorID)
	if err != nil {
		return nil, err
	}
	if !CanManageFridges(role) {
		return nil, pkgerrors.New(pkgerrors.CodeForbidden, "insufficient household role")
	}

	if err := s.repo.UpdateName(ctx, householdID, name); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "rename household")
	}
	household.Name = name
	return ToDTO(household, actorID, role), nil
}

func (s *service) Delete(ctx context.Context, actorID, householdID uuid.UUID) error {
	_, role, err := s.loadWithRole(ctx, householdID, actorID)
	if err != nil {
		return err
	}
	if !CanDeleteHousehold(role) {
		return pkgerrors.New(pkgerrors.CodeForbidden, "only the owner may delete a household")
	}

	if err := s.repo.Delete(ctx, householdID); err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "delete household")
	}
	return nil
}

func (s *service) ListMembers(ctx context.Context, actorID, householdID uuid.UUID) ([]MemberDTO, error) {
	if _, _, err := s.loadWithRole(ctx, householdID, actorID); err != nil {
		return nil, err
	}

	members, err := s.repo.ListMembers(ctx, householdID)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "list household members")
	}
	return members, nil
}

func (s *service) SetMemberRole(ctx context.Context, actorID, householdID uuid.UUID, input SetRoleInput) error {
	if !input.Role.IsValid() {
		return pkgerrors.New(pkgerrors.CodeValidation, "invalid role")
	}

	household, actorRole, err := s.loadWithRole(ctx, householdID, actorID)
	if err != nil {
		return err
	}
	if !CanEditRoles(actorRole) {
		return pkgerrors.New(pkgerrors.CodeForbidden, "only the owner may change roles")
	}
	if household.CreatedBy == input.UserID {
		return pkgerrors.New(pkgerrors.CodeConflict, "the household creator is always the owner")
	}
	if FindMember(household, input.UserID) == nil {
		return pkgerrors.New(pkgerrors.CodeNotFound, "member not found")
	}

	if err := s.repo.UpdateMemberRole(ctx, householdID, input.UserID, input.Role); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return pkgerrors.New(pkgerrors.CodeNotFound, "member not found")
		}
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "update member role")
	}

	s.publish(ctx, notifications.Event{
		Type:        enums.NotificationTypeMemberRoleChanged,
		HouseholdID: householdID,
		Title:       "Role updated",
		Body:        fmt.Sprintf("A member of %s is now a %s.", household.Name, input.Role),
		ActorID:     actorID,
	})
	return nil
}

func (s *service) RemoveMember(ctx context.Context, actorID, householdID, targetUserID uuid.UUID) error {
	household, actorRole, err := s.loadWithRole(ctx, householdID, actorID)
	if err != nil {
		return err
	}
	if !CanRemoveMembers(actorRole) {
		return pkgerrors.New(pkgerrors.CodeForbidden, "insufficient household role")
	}
	if household.CreatedBy == targetUserID {
		return pkgerrors.New(pkgerrors.CodeConflict, "the household creator cannot be removed")
	}

	targetRole := EffectiveRole(household, targetUserID, FindMember(household, targetUserID))
	if !CanModifyUser(actorRole, targetRole) {
		return pkgerrors.New(pkgerrors.CodeForbidden, "cannot modify a member of equal or higher role")
	}

	if err := s.repo.RemoveMember(ctx, householdID, targetUserID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return pkgerrors.New(pkgerrors.CodeNotFound, "member not found")
		}
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "remove member")
	}

	s.publish(ctx, notifications.Event{
		Type:        enums.NotificationTypeMemberLeft,
		HouseholdID: householdID,
		Title:       "Member removed",
		Body:        fmt.Sprintf("A member was removed from %s.", household.Name),
		ActorID:     actorID,
	})
	return nil
}

func (s *service) Leave(ctx context.Context, userID, householdID uuid.UUID) error {
	household, _, err := s.loadWithRole(ctx, householdID, userID)
	if err != nil {
		return err
	}
	if household.CreatedBy == userID {
		return pkgerrors.New(pkgerrors.CodeConflict, "the household creator cannot leave; delete the household instead")
	}

	if err := s.repo.RemoveMember(ctx, householdID, userID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return pkgerrors.New(pkgerrors.CodeNotFound, "member not found")
		}
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "remove member")
	}

	s.publish(ctx, notifications.Event{
		Type:        enums.NotificationTypeMemberLeft,
		HouseholdID: householdID,
		Title:       "Member left",
		Body:        fmt.Sprintf("A member left %s.", household.Name),
		ActorID:     userID,
	})
	return nil
}

// loadWithRole fetches the household and resolves the user's effective role.
// Users with no membership (and who are not the creator) are rejected.
func (s *service) loadWithRole(ctx context.Context, householdID, userID uuid.UUID) (*models.Household, enums.HouseholdRole, error) {
	household, err := s.repo.FindByID(ctx, householdID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, "", pkgerrors.New(pkgerrors.CodeNotFound, "household not found")
		}
		return nil, "", pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load household")
	}

	member := FindMember(household, userID)
	if member == nil && household.CreatedBy != userID {
		return nil, "", pkgerrors.New(pkgerrors.CodeForbidden, "not a household member")
	}
	return household, EffectiveRole(household, userID, member), nil
}

func (s *service) publish(ctx context.Context, event notifications.Event) {
	if err := s.events.Publish(ctx, event); err != nil {
		s.logg.Error(ctx, "publish membership event", err)
	}
}

