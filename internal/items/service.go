package items

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/fridgyapp/fridgy-backend/internal/analytics"
	"github.com/fridgyapp/fridgy-backend/internal/households"
	"github.com/fridgyapp/fridgy-backend/pkg/db/models"
	"github.com/fridgyapp/fridgy-backend/pkg/enums"
	pkgerrors "github.com/fridgyapp/fridgy-backend/pkg/errors"
	"github.com/fridgyapp/fridgy-backend/pkg/logger"
	"github.com/fridgyapp/fridgy-backend/pkg/pagination"
)

type itemRepository interface {
	Create(ctx context.Context, item *models.Item) error
	FindByID(ctx context.Context, id uuid.UUID) (*models.Item, error)
	List(ctx context.Context, params listItemsParams) ([]models.Item, *pagination.Cursor, error)
	Update(ctx context.Context, item *models.Item) error
	Delete(ctx context.Context, id uuid.UUID) error
}

type fridgeRepository interface {
	FindByID(ctx context.Context, id uuid.UUID) (*models.Fridge, error)
}

type householdRepository interface {
	FindByID(ctx context.Context, id uuid.UUID) (*models.Household, error)
}

type analyticsPublisher interface {
	Publish(ctx context.Context, event analytics.Event) error
}

// Service exposes item operations.
type Service interface {
	Add(ctx context.Context, actorID, householdID, fridgeID uuid.UUID, input AddItemInput) (*ItemDTO, error)
	Get(ctx context.Context, actorID, householdID, itemID uuid.UUID) (*ItemDTO, error)
	List(ctx context.Context, actorID, householdID, fridgeID uuid.UUID, params pagination.Params) (*ListResult, error)
	Update(ctx context.Context, actorID, householdID, itemID uuid.UUID, input UpdateItemInput) (*ItemDTO, error)
	Remove(ctx context.Context, actorID, householdID, itemID uuid.UUID) error
}

type service struct {
	repo       itemRepository
	fridges    fridgeRepository
	households householdRepository
	analytics  analyticsPublisher
	logg       *logger.Logger
}

// NewService builds an item service with the provided dependencies.
func NewService(repo itemRepository, fridgesRepo fridgeRepository, householdsRepo householdRepository, analyticsPub analyticsPublisher, logg *logger.Logger) (Service, error) {
	if repo == nil {
		return nil, fmt.Errorf("item repository required")
	}
	if fridgesRepo == nil {
		return nil, fmt.Errorf("fridge repository required")
	}
	if householdsRepo == nil {
		return nil, fmt.Errorf("household repository required")
	}
	if analyticsPub == nil {
		return nil, fmt.Errorf("analytics publisher required")
	}
	if logg == nil {
		return nil, fmt.Errorf("logger required")
	}
	return &service{
		repo:       repo,
		fridges:    fridgesRepo,
		households: householdsRepo,
		analytics:  analyticsPub,
		logg:       logg,
	}, nil
}

func (s *service) Add(ctx context.Context, actorID, householdID, fridgeID uuid.UUID, input AddItemInput) (*ItemDTO, error) {
	name := strings.TrimSpace(input.Name)
	if name == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "item name is required")
	}
	quantity := input.Quantity
	if quantity == 0 {
		quantity = 1
	}
	if quantity < 1 {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "quantity must be at least 1")
	}

	if err := s.requireMembership(ctx, householdID, actorID); err != nil {
		return nil, err
	}
	if _, err := s.fridgeInHousehold(ctx, householdID, fridgeID); err != nil {
		return nil, err
	}

	item := &models.Item{
		FridgeID:   fridgeID,
		UPC:        input.UPC,
		Name:       name,
		Quantity:   quantity,
		CategoryID: input.CategoryID,
		ExpiresAt:  input.ExpiresAt,
		AddedBy:    actorID,
	}
	if err := s.repo.Create(ctx, item); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "create item")
	}

	s.record(ctx, analytics.Event{
		Type:        enums.AnalyticsEventItemAdded,
		HouseholdID: householdID,
		FridgeID:    &item.FridgeID,
		ItemID:      &item.ID,
		UPC:         item.UPC,
		Quantity:    &item.Quantity,
		ActorID:     actorID,
	})
	return FromModel(item), nil
}

func (s *service) Get(ctx context.Context, actorID, householdID, itemID uuid.UUID) (*ItemDTO, error) {
	if err := s.requireMembership(ctx, householdID, actorID); err != nil {
		return nil, err
	}
	item, err := s.itemInHousehold(ctx, householdID, itemID)
	if err != nil {
		return nil, err
	}
	return FromModel(item), nil
}

func (s *service) List(ctx context.Context, actorID, householdID, fridgeID uuid.UUID, params pagination.Params) (*ListResult, error) {
	if err := s.requireMembership(ctx, householdID, actorID); err != nil {
		return nil, err
	}
	if _, err := s.fridgeInHousehold(ctx, householdID, fridgeID); err != nil {
		return nil, err
	}

	query := listItemsParams{FridgeID: fridgeID, Limit: params.Limit}
	if params.Cursor != "" {
		cursor, err := pagination.ParseCursor(params.Cursor)
		if err != nil {
			return nil, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid cursor")
		}
		query.Cursor = cursor
	}

	rows, next, err := s.repo.List(ctx, query)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "list items")
	}

	result := &ListResult{Items: make([]ItemDTO, 0, len(rows))}
	for i := range rows {
		result.Items = append(result.Items, *FromModel(&rows[i]))
	}
	if next != nil {
		result.Cursor = pagination.EncodeCursor(*next)
	}
	return result, nil
}

func (s *service) Update(ctx context.Context, actorID, householdID, itemID uuid.UUID, input UpdateItemInput) (*ItemDTO, error) {
	if err := s.requireMembership(ctx, householdID, actorID); err != nil {
		return nil, err
	}
	item, err := s.itemInHousehold(ctx, householdID, itemID)
	if err != nil {
		return nil, err
	}

	if input.Name != nil {
		name := strings.TrimSpace(*input.Name)
		if name == "" {
			return nil, pkgerrors.New(pkgerrors.CodeValidation, "item name is required")
		}
		item.Name = name
	}
	if input.Quantity != nil {
		if *input.Quantity < 1 {
			return nil, pkgerrors.New(pkgerrors.CodeValidation, "quantity must be at least 1")
		}
		item.Quantity = *input.Quantity
	}
	if input.CategoryID != nil {
		item.CategoryID = *input.CategoryID
	}
	if input.ExpiresAt != nil {
		item.ExpiresAt = *input.ExpiresAt
	}

	if err := s.repo.Update(ctx, item); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "update item")
	}

	s.record(ctx, analytics.Event{
		Type:        enums.AnalyticsEventItemUpdated,
		HouseholdID: householdID,
		FridgeID:    &item.FridgeID,
		ItemID:      &item.ID,
		UPC:         item.UPC,
		Quantity:    &item.Quantity,
		ActorID:     actorID,
	})
	return FromModel(item), nil
}

func (s *service) Remove(ctx context.Context, actorID, householdID, itemID uuid.UUID) error {
	if err := s.requireMembership(ctx, householdID, actorID); err != nil {
		return err
	}
	item, err := s.itemInHousehold(ctx, householdID, itemID)
	if err != nil {
		return err
	}

	if err := s.repo.Delete(ctx, item.ID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return pkgerrors.New(pkgerrors.CodeNotFound, "item not found")
		}
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "delete item")
	}

	s.record(ctx, analytics.Event{
		Type:        enums.AnalyticsEventItemRemoved,
		HouseholdID: householdID,
		FridgeID:    &item.FridgeID,
		ItemID:      &item.ID,
		UPC:         item.UPC,
		ActorID:     actorID,
	})
	return nil
}

// requireMembership admits every household member; item access is not role-gated.
func (s *service) requireMembership(ctx context.Context, householdID, userID uuid.UUID) error {
	household, err := s.households.FindByID(ctx, householdID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return pkgerrors.New(pkgerrors.CodeNotFound, "household not found")
		}
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load household")
	}

	member := households.FindMember(household, userID)
	if member == nil && household.CreatedBy != userID {
		return pkgerrors.New(pkgerrors.CodeForbidden, "not a household member")
	}
	role := households.EffectiveRole(household, userID, member)
	if !households.CanViewAndEditItems(role) {
		return pkgerrors.New(pkgerrors.CodeForbidden, "insufficient household role")
	}
	return nil
}

func (s *service) fridgeInHousehold(ctx context.Context, householdID, fridgeID uuid.UUID) (*models.Fridge, error) {
	fridge, err := s.fridges.FindByID(ctx, fridgeID)
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

func (s *service) itemInHousehold(ctx context.Context, householdID, itemID uuid.UUID) (*models.Item, error) {
	item, err := s.repo.FindByID(ctx, itemID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "item not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load item")
	}
	if _, err := s.fridgeInHousehold(ctx, householdID, item.FridgeID); err != nil {
		return nil, pkgerrors.New(pkgerrors.CodeNotFound, "item not found")
	}
	return item, nil
}

// record ships an analytics event without blocking the write path on warehouse health.
func (s *service) record(ctx context.Context, event analytics.Event) {
	if err := s.analytics.Publish(ctx, event); err != nil {
		s.logg.Error(ctx, "publish inventory event", err)
	}
}
