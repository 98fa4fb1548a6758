package devices

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/fridgyapp/fridgy-backend/pkg/db/models"
	pkgerrors "github.com/fridgyapp/fridgy-backend/pkg/errors"
	"github.com/fridgyapp/fridgy-backend/pkg/logger"
)

type subscriptionRepository interface {
	Upsert(ctx context.Context, token *models.FCMToken) error
	ListByUser(ctx context.Context, userID uuid.UUID) ([]models.FCMToken, error)
	Delete(ctx context.Context, userID uuid.UUID, endpoint string) error
}

// Service exposes push subscription registration for the authenticated user.
type Service interface {
	Register(ctx context.Context, userID uuid.UUID, input RegisterInput) (*SubscriptionDTO, error)
	List(ctx context.Context, userID uuid.UUID) ([]SubscriptionDTO, error)
	Unregister(ctx context.Context, userID uuid.UUID, endpoint string) error
}

type service struct {
	repo subscriptionRepository
	logg *logger.Logger
}

// NewService builds a device service with the provided dependencies.
func NewService(repo subscriptionRepository, logg *logger.Logger) (Service, error) {
	if repo == nil {
		return nil, fmt.Errorf("subscription repository required")
	}
	if logg == nil {
		return nil, fmt.Errorf("logger required")
	}
	return &service{repo: repo, logg: logg}, nil
}

func (s *service) Register(ctx context.Context, userID uuid.UUID, input RegisterInput) (*SubscriptionDTO, error) {
	endpoint := strings.TrimSpace(input.Endpoint)
	if endpoint == "" || !strings.HasPrefix(endpoint, "https://") {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "a valid https endpoint is required")
	}
	if strings.TrimSpace(input.P256dh) == "" || strings.TrimSpace(input.Auth) == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "subscription keys are required")
	}

	token := &models.FCMToken{
		UserID:     userID,
		Endpoint:   endpoint,
		P256dh:     strings.TrimSpace(input.P256dh),
		Auth:       strings.TrimSpace(input.Auth),
		LastSeenAt: time.Now().UTC(),
	}
	if err := s.repo.Upsert(ctx, token); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "register subscription")
	}
	return FromModel(token), nil
}

func (s *service) List(ctx context.Context, userID uuid.UUID) ([]SubscriptionDTO, error) {
	rows, err := s.repo.ListByUser(ctx, userID)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "list subscriptions")
	}
	dtos := make([]SubscriptionDTO, 0, len(rows))
	for i := range rows {
		dtos = append(dtos, *FromModel(&rows[i]))
	}
	return dtos, nil
}

func (s *service) Unregister(ctx context.Context, userID uuid.UUID, endpoint string) error {
	endpoint = strings.TrimSpace(endpoint)
	if endpoint == "" {
		return pkgerrors.New(pkgerrors.CodeValidation, "endpoint is required")
	}
	if err := s.repo.Delete(ctx, userID, endpoint); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return pkgerrors.New(pkgerrors.CodeNotFound, "subscription not found")
		}
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "delete subscription")
	}
	return nil
}
