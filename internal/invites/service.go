package invites

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
	"github.com/fridgyapp/fridgy-backend/pkg/config"
	"github.com/fridgyapp/fridgy-backend/pkg/db/models"
	"github.com/fridgyapp/fridgy-backend/pkg/enums"
	pkgerrors "github.com/fridgyapp/fridgy-backend/pkg/errors"
	"github.com/fridgyapp/fridgy-backend/pkg/logger"
	"github.com/fridgyapp/fridgy-backend/pkg/security"
)

const inviteCodeLength = 8

type inviteRepository interface {
	Create(ctx context.Context, invite *models.InviteCode) error
	FindByCode(ctx context.Context, code string) (*models.InviteCode, error)
	ListByHousehold(ctx context.Context, householdID uuid.UUID) ([]models.InviteCode, error)
	Revoke(ctx context.Context, householdID, inviteID uuid.UUID, now time.Time) error
	Redeem(ctx context.Context, invite *models.InviteCode, userID uuid.UUID, now time.Time) error
}

type householdRepository interface {
	FindByID(ctx context.Context, id uuid.UUID) (*models.Household, error)
}

type eventPublisher interface {
	Publish(ctx context.Context, event notifications.Event) error
}

// Service exposes invite code operations.
type Service interface {
	Create(ctx context.Context, actorID, householdID uuid.UUID, input CreateInviteInput) (*InviteCodeDTO, error)
	List(ctx context.Context, actorID, householdID uuid.UUID) ([]InviteCodeDTO, error)
	Revoke(ctx context.Context, actorID, householdID, inviteID uuid.UUID) error
	Redeem(ctx context.Context, userID uuid.UUID, code string) (*RedeemResult, error)
}

type service struct {
	repo       inviteRepository
	households householdRepository
	events     eventPublisher
	cfg        config.InviteConfig
	logg       *logger.Logger
	now        func() time.Time
}

// NewService builds an invite service with the provided dependencies.
func NewService(repo inviteRepository, householdsRepo householdRepository, events eventPublisher, cfg config.InviteConfig, logg *logger.Logger) (Service, error) {
	if repo == nil {
		return nil, fmt.Errorf("invite repository required")
	}
	if householdsRepo == nil {
		return nil, fmt.Errorf("household repository required")
	}
	if events == nil {
		return nil, fmt.Errorf("event publisher required")
	}
	if logg == nil {
		return nil, fmt.Errorf("logger required")
	}
	return &service{
		repo:       repo,
		households: householdsRepo,
		events:     events,
		cfg:        cfg,
		logg:       logg,
		now:        func() time.Time { return time.Now().UTC() },
	}, nil
}

func (s *service) Create(ctx context.Context, actorID, householdID uuid.UUID, input CreateInviteInput) (*InviteCodeDTO, error) {
	household, role, err := s.loadWithRole(ctx, householdID, actorID)
	if err != nil {
		return nil, err
	}
	if !households.CanManageInviteCodes(role) {
		return nil, pkgerrors.New(pkgerrors.CodeForbidden, "insufficient household role")
	}

	ttl := input.TTL
	if ttl <= 0 {
		ttl = s.cfg.CodeTTL
	}
	maxUses := input.MaxUses
	if maxUses <= 0 {
		maxUses = s.cfg.DefaultMax
	}

	code, err := security.GenerateInviteCode(inviteCodeLength)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "generate invite code")
	}

	invite := &models.InviteCode{
		Code:        code,
		HouseholdID: household.ID,
		CreatedBy:   actorID,
		ExpiresAt:   s.now().Add(ttl),
		MaxUses:     maxUses,
	}
	if err := s.repo.Create(ctx, invite); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "create invite code")
	}
	return FromModel(invite), nil
}

func (s *service) List(ctx context.Context, actorID, householdID uuid.UUID) ([]InviteCodeDTO, error) {
	_, role, err := s.loadWithRole(ctx, householdID, actorID)
	if err != nil {
		return nil, err
	}
	if !households.CanManageInviteCodes(role) {
		return nil, pkgerrors.New(pkgerrors.CodeForbidden, "insufficient household role")
	}

	invites, err := s.repo.ListByHousehold(ctx, householdID)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "list invite codes")
	}

	dtos := make([]InviteCodeDTO, 0, len(invites))
	for i := range invites {
		dtos = append(dtos, *FromModel(&invites[i]))
	}
	return dtos, nil
}

func (s *service) Revoke(ctx context.Context, actorID, householdID, inviteID uuid.UUID) error {
	_, role, err := s.loadWithRole(ctx, householdID, actorID)
	if err != nil {
		return err
	}
	if !households.CanManageInviteCodes(role) {
		return pkgerrors.New(pkgerrors.CodeForbidden, "insufficient household role")
	}

	if err := s.repo.Revoke(ctx, householdID, inviteID, s.now()); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return pkgerrors.New(pkgerrors.CodeNotFound, "invite code not found")
		}
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "revoke invite code")
	}
	return nil
}

func (s *service) Redeem(ctx context.Context, userID uuid.UUID, code string) (*RedeemResult, error) {
	code = strings.ToUpper(strings.TrimSpace(code))
	if code == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "invite code is required")
	}

	invite, err := s.repo.FindByCode(ctx, code)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "invite code not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "lookup invite code")
	}

	now := s.now()
	switch {
	case invite.RevokedAt != nil:
		return nil, pkgerrors.New(pkgerrors.CodeConflict, "invite code has been revoked")
	case !invite.ExpiresAt.After(now):
		return nil, pkgerrors.New(pkgerrors.CodeConflict, "invite code has expired")
	case invite.UseCount >= invite.MaxUses:
		return nil, pkgerrors.New(pkgerrors.CodeConflict, "invite code has no uses left")
	}

	if err := s.repo.Redeem(ctx, invite, userID, now); err != nil {
		switch {
		case errors.Is(err, ErrAlreadyMember):
			return nil, pkgerrors.New(pkgerrors.CodeConflict, "already a household member")
		case errors.Is(err, ErrInviteUnusable):
			return nil, pkgerrors.New(pkgerrors.CodeConflict, "invite code is no longer usable")
		default:
			return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "redeem invite code")
		}
	}

	household, err := s.households.FindByID(ctx, invite.HouseholdID)
	name := "the household"
	if err == nil && household != nil {
		name = household.Name
	}
	s.publish(ctx, notifications.Event{
		Type:        enums.NotificationTypeMemberJoined,
		HouseholdID: invite.HouseholdID,
		Title:       "New member",
		Body:        fmt.Sprintf("Someone joined %s with an invite code.", name),
		ActorID:     userID,
	})

	return &RedeemResult{
		HouseholdID: invite.HouseholdID,
		Role:        enums.HouseholdRoleMember,
	}, nil
}

func (s *service) loadWithRole(ctx context.Context, householdID, userID uuid.UUID) (*models.Household, enums.HouseholdRole, error) {
	household, err := s.households.FindByID(ctx, householdID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, "", pkgerrors.New(pkgerrors.CodeNotFound, "household not found")
		}
		return nil, "", pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load household")
	}

	member := households.FindMember(household, userID)
	if member == nil && household.CreatedBy != userID {
		return nil, "", pkgerrors.New(pkgerrors.CodeForbidden, "not a household member")
	}
	return household, households.EffectiveRole(household, userID, member), nil
}

func (s *service) publish(ctx context.Context, event notifications.Event) {
	if err := s.events.Publish(ctx, event); err != nil {
		s.logg.Error(ctx, "publish invite event", err)
	}
}
