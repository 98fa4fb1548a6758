package shoppinglist

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/fridgyapp/fridgy-backend/internal/households"
	"github.com/fridgyapp/fridgy-backend/internal/notifications"
	"github.com/fridgyapp/fridgy-backend/pkg/db/models"
	"github.com/fridgyapp/fridgy-backend/pkg/enums"
	pkgerrors "github.com/fridgyapp/fridgy-backend/pkg/errors"
	"github.com/fridgyapp/fridgy-backend/pkg/logger"
	redisclient "github.com/fridgyapp/fridgy-backend/pkg/redis"
)

// presenceTTL bounds how long a viewer counts as active after their last
// heartbeat.
const presenceTTL = 30 * time.Second

type listRepository interface {
	Create(ctx context.Context, entry *models.ShoppingListEntry) error
	FindByID(ctx context.Context, id uuid.UUID) (*models.ShoppingListEntry, error)
	ListByHousehold(ctx context.Context, householdID uuid.UUID) ([]models.ShoppingListEntry, error)
	SetChecked(ctx context.Context, id uuid.UUID, checked bool, by *uuid.UUID, at *time.Time) error
	Delete(ctx context.Context, id uuid.UUID) error
	ClearChecked(ctx context.Context, householdID uuid.UUID) (int64, error)
}

type householdRepository interface {
	FindByID(ctx context.Context, id uuid.UUID) (*models.Household, error)
}

type eventPublisher interface {
	Publish(ctx context.Context, event notifications.Event) error
}

type presenceStore interface {
	PresenceHeartbeat(ctx context.Context, householdID, userID string, ttl time.Duration) error
	PresenceClear(ctx context.Context, householdID, userID string) error
	ActiveViewers(ctx context.Context, householdID string) ([]string, error)
}

var _ presenceStore = (*redisclient.Client)(nil)

// Service exposes the shared shopping list operations.
type Service interface {
	List(ctx context.Context, userID, householdID uuid.UUID) ([]EntryDTO, error)
	Add(ctx context.Context, userID, householdID uuid.UUID, input AddEntryInput) (*EntryDTO, error)
	SetChecked(ctx context.Context, userID, householdID, entryID uuid.UUID, checked bool) (*EntryDTO, error)
	Remove(ctx context.Context, userID, householdID, entryID uuid.UUID) error
	ClearChecked(ctx context.Context, userID, householdID uuid.UUID) (int64, error)
	Heartbeat(ctx context.Context, userID, householdID uuid.UUID) error
	LeavePresence(ctx context.Context, userID, householdID uuid.UUID) error
	ActiveViewers(ctx context.Context, userID, householdID uuid.UUID) ([]uuid.UUID, error)
}

type service struct {
	repo       listRepository
	households householdRepository
	events     eventPublisher
	presence   presenceStore
	logg       *logger.Logger
}

// NewService builds a shopping list service with the provided dependencies.
func NewService(repo listRepository, householdRepo householdRepository, events eventPublisher, presence presenceStore, logg *logger.Logger) (Service, error) {
	if repo == nil {
		return nil, fmt.Errorf("shopping list repository required")
	}
	if householdRepo == nil {
		return nil, fmt.Errorf("household repository required")
	}
	if events == nil {
		return nil, fmt.Errorf("event publisher required")
	}
	if presence == nil {
		return nil, fmt.Errorf("presence store required")
	}
	if logg == nil {
		return nil, fmt.Errorf("logger required")
	}
	return &service{repo: repo, households: householdRepo, events: events, presence: presence, logg: logg}, nil
}

func (s *service) List(ctx context.Context, userID, householdID uuid.UUID) ([]EntryDTO, error) {
	if err := s.requireMembership(ctx, userID, householdID); err != nil {
		return nil, err
	}

	rows, err := s.repo.ListByHousehold(ctx, householdID)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "list shopping list")
	}
	dtos := make([]EntryDTO, 0, len(rows))
	for i := range rows {
		dtos = append(dtos, *FromModel(&rows[i]))
	}
	return dtos, nil
}

func (s *service) Add(ctx context.Context, userID, householdID uuid.UUID, input AddEntryInput) (*EntryDTO, error) {
	if err := s.requireMembership(ctx, userID, householdID); err != nil {
		return nil, err
	}

	name := strings.TrimSpace(input.Name)
	if name == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "entry name is required")
	}
	quantity := input.Quantity
	if quantity == 0 {
		quantity = 1
	}
	if quantity < 0 {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "quantity must be positive")
	}

	entry := &models.ShoppingListEntry{
		HouseholdID: householdID,
		Name:        name,
		Quantity:    quantity,
		AddedBy:     userID,
	}
	if err := s.repo.Create(ctx, entry); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "add shopping list entry")
	}

	s.publish(ctx, notifications.Event{
		Type:        enums.NotificationTypeShoppingListAdd,
		HouseholdID: householdID,
		Title:       "Shopping list updated",
		Body:        fmt.Sprintf("%s was added to the shopping list", name),
		ActorID:     userID,
	})
	return FromModel(entry), nil
}

func (s *service) SetChecked(ctx context.Context, userID, householdID, entryID uuid.UUID, checked bool) (*EntryDTO, error) {
	entry, err := s.loadInHousehold(ctx, userID, householdID, entryID)
	if err != nil {
		return nil, err
	}

	var (
		by *uuid.UUID
		at *time.Time
	)
	if checked {
		now := time.Now().UTC()
		by = &userID
		at = &now
	}
	if err := s.repo.SetChecked(ctx, entryID, checked, by, at); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "shopping list entry not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "update shopping list entry")
	}

	entry.Checked = checked
	entry.CheckedBy = by
	entry.CheckedAt = at
	return FromModel(entry), nil
}

func (s *service) Remove(ctx context.Context, userID, householdID, entryID uuid.UUID) error {
	if _, err := s.loadInHousehold(ctx, userID, householdID, entryID); err != nil {
		return err
	}
	if err := s.repo.Delete(ctx, entryID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return pkgerrors.New(pkgerrors.CodeNotFound, "shopping list entry not found")
		}
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "delete shopping list entry")
	}
	return nil
}

func (s *service) ClearChecked(ctx context.Context, userID, householdID uuid.UUID) (int64, error) {
	if err := s.requireMembership(ctx, userID, householdID); err != nil {
		return 0, err
	}
	removed, err := s.repo.ClearChecked(ctx, householdID)
	if err != nil {
		return 0, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "clear checked entries")
	}
	return removed, nil
}

func (s *service) Heartbeat(ctx context.Context, userID, householdID uuid.UUID) error {
	if err := s.requireMembership(ctx, userID, householdID); err != nil {
		return err
	}
	if err := s.presence.PresenceHeartbeat(ctx, householdID.String(), userID.String(), presenceTTL); err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "record presence heartbeat")
	}
	return nil
}

func (s *service) LeavePresence(ctx context.Context, userID, householdID uuid.UUID) error {
	if err := s.requireMembership(ctx, userID, householdID); err != nil {
		return err
	}
	if err := s.presence.PresenceClear(ctx, householdID.String(), userID.String()); err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "clear presence")
	}
	return nil
}

func (s *service) ActiveViewers(ctx context.Context, userID, householdID uuid.UUID) ([]uuid.UUID, error) {
	if err := s.requireMembership(ctx, userID, householdID); err != nil {
		return nil, err
	}

	raw, err := s.presence.ActiveViewers(ctx, householdID.String())
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "list active viewers")
	}
	viewers := make([]uuid.UUID, 0, len(raw))
	for _, value := range raw {
		id, parseErr := uuid.Parse(value)
		if parseErr != nil {
			s.logg.Warn(ctx, fmt.Sprintf("skipping malformed presence key %q", value))
			continue
		}
		viewers = append(viewers, id)
	}
	return viewers, nil
}

func (s *service) requireMembership(ctx context.Context, userID, householdID uuid.UUID) error {
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
		return pkgerrors.New(pkgerrors.CodeForbidden, "insufficient role")
	}
	return nil
}

func (s *service) loadInHousehold(ctx context.Context, userID, householdID, entryID uuid.UUID) (*models.ShoppingListEntry, error) {
	if err := s.requireMembership(ctx, userID, householdID); err != nil {
		return nil, err
	}

	entry, err := s.repo.FindByID(ctx, entryID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "shopping list entry not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load shopping list entry")
	}
	if entry.HouseholdID != householdID {
		return nil, pkgerrors.New(pkgerrors.CodeNotFound, "shopping list entry not found")
	}
	return entry, nil
}

func (s *service) publish(ctx context.Context, event notifications.Event) {
	if err := s.events.Publish(ctx, event); err != nil {
		s.logg.Error(ctx, "publish shopping list event", err)
	}
}
