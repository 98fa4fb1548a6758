package fridges

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/fridgyapp/fridgy-backend/internal/households"
	"github.com/fridgyapp/fridgy-backend/pkg/db/models"
	"github.com/fridgyapp/fridgy-backend/pkg/enums"
	pkgerrors "github.com/fridgyapp/fridgy-backend/pkg/errors"
)

type fridgeRepository interface {
	Create(ctx context.Context, fridge *models.Fridge) error
	FindByID(ctx context.Context, id uuid.UUID) (*models.Fridge, error)
	ListByHousehold(ctx context.Context, householdID uuid.UUID) ([]models.Fridge, error)
	UpdateName(ctx context.Context, id uuid.UUID, name string) error
	Delete(ctx context.Context, id uuid.UUID) error
}

type householdRepository interface {
	FindByID(ctx context.Context, id uuid.UUID) (*models.Household, error)
}

// Service exposes fridge operations.
type Service interface {
	Create(ctx context.Context, actorID, householdID uuid.UUID, input CreateFridgeInput) (*FridgeDTO, error)
	Get(ctx context.Context, actorID, householdID, fridgeID uuid.UUID) (*FridgeDTO, error)
	List(ctx context.Context, actorID, householdID uuid.UUID) ([]FridgeDTO, error)
	Rename(ctx context.Context, actorID, householdID, fridgeID uuid.UUID, input RenameFridgeInput) (*FridgeDTO, error)
	Delete(ctx context.Context, actorID, householdID, fridgeID uuid.UUID) error
}

type service struct {
	repo       fridgeRepository
	households householdRepository
}

// NewService builds a fridge service with the provided repositories.
func NewService(repo fridgeRepository, householdsRepo householdRepository) (Service, error) {
	if repo == nil {
		return nil, fmt.Errorf("fridge repository required")
	}
	if householdsRepo == nil {
		return nil, fmt.Errorf("household repository required")
	}
	return &service{repo: repo, households: householdsRepo}, nil
}

func (s *service) Create(ctx context.Context, actorID, householdID uuid.UUID, input CreateFridgeInput) (*FridgeDTO, error) {
	name := strings.TrimSpace(input.Name)
	if name == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "fridge name is required")
	}

	role, err := s.roleOf(ctx, householdID, actorID)
	if err != nil {
		return nil, err
	}
	if !households.CanManageFridges(role) {
		return nil, pkgerrors.New(pkgerrors.CodeForbidden, "insufficient household role")
	}

	fridge := &models.Fridge{
		HouseholdID: householdID,
		Name:        name,
		CreatedBy:   actorID,
	}
	if err := s.repo.Create(ctx, fridge); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "create fridge")
	}
	return FromModel(fridge), nil
}

func (s *service) Get(ctx context.Context, actorID, householdID, fridgeID uuid.UUID) (*FridgeDTO, error) {
	if _, err := s.roleOf(ctx, householdID, actorID); err != nil {
		return nil, err
	}
	fridge, err := s.loadInHousehold(ctx, householdID, fridgeID)
	if err != nil {
		return nil, err
	}
	return FromModel(fridge), nil
}

func (s *service) List(ctx context.Context, actorID, householdID uuid.UUID) ([]FridgeDTO, error) {
	if _, err := s.roleOf(ctx, householdID, actorID); err != nil {
		return nil, err
	}

	fridges, err := s.repo.ListByHousehold(ctx, householdID)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "list fridges")
	}

	dtos := make([]FridgeDTO, 0, len(fridges))
	for i := range fridges {
		dtos = append(dtos, *FromModel(&fridges[i]))
	}
	return dtos, nil
}

func (s *service) Rename(ctx context.Context, actorID, householdID, fridgeID uuid.UUID, input RenameFridgeInput) (*FridgeDTO, error) {
	name := strings.TrimSpace(input.Name)
	if name == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "fridge name is required")
	}

	role, err := s.roleOf(ctx, householdID, actorID)
	if err != nil {
		return nil, err
	}
	if !households.CanManageFridges(role) {
		return nil, pkgerrors.New(pkgerrors.CodeForbidden, "insufficient household role")
	}

	fridge, err := s.loadInHousehold(ctx, householdID, fridgeID)
	if err != nil {
		return nil, err
	}

	if err := s.repo.UpdateName(ctx, fridge.ID, name); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "fridge not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "rename fridge")
	}
	fridge.Name = name
	return FromModel(fridge), nil
}

func (s *service) Delete(ctx context.Context, actorID, householdID, fridgeID uuid.UUID) error {
	role, err := s.roleOf(ctx, householdID, actorID)
	if err != nil {
		return err
	}
	if !households.CanManageFridges(role) {
		return pkgerrors.New(pkgerrors.CodeForbidden, "insufficient household role")
	}

	fridge, err := s.loadInHousehold(ctx, householdID, fridgeID)
	if err != nil {
		return err
	}

	if err := s.repo.Delete(ctx, fridge.ID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return pkgerrors.New(pkgerrors.CodeNotFound, "fridge not found")
		}
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "delete fridge")
	}
	return nil
}

func (s *service) roleOf(ctx context.Context, householdID, userID uuid.UUID) (enums.HouseholdRole, error) {
	household, err := s.households.FindByID(ctx, householdID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return "", pkgerrors.New(pkgerrors.CodeNotFound, "household not found")
		}
		return "", pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load household")
	}

	member := households.FindMember(household, userID)
	if member == nil && household.CreatedBy != userID {
		return "", pkgerrors.New(pkgerrors.CodeForbidden, "not a household member")
	}
	return households.EffectiveRole(household, userID, member), nil
}

// loadInHousehold guards against cross-household fridge access.
func (s *service) loadInHousehold(ctx context.Context, householdID, fridgeID uuid.UUID) (*models.Fridge, error) {
	fridge, err := s.repo.FindByID(ctx, fridgeID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "fridge not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load fridge")
	}
	if fridge.HouseholdID != householdID {
		return nil, pkgerrors.New(pkgerrors.CodeNotFound, "fridge not found")
	}
	return fridge, nil
}
