package devices

import (
	"time"

	"github.com/google/uuid"

	"github.com/fridgyapp/fridgy-backend/pkg/db/models"
)

// SubscriptionDTO is the transport shape for a registered push subscription.
type SubscriptionDTO struct {
	ID         uuid.UUID `json:"id"`
	Endpoint   string    `json:"endpoint"`
	CreatedAt  time.Time `json:"createdAt"`
	LastSeenAt time.Time `json:"lastSeenAt"`
}

// RegisterInput carries a browser push subscription.
type RegisterInput struct {
	Endpoint string `json:"endpoint" validate:"required"`
	P256dh   string `json:"p256dh" validate:"required"`
	Auth     string `json:"auth" validate:"required"`
}

// FromModel maps a subscription row into its DTO, omitting the client keys.
func FromModel(token *models.FCMToken) *SubscriptionDTO {
	if token == nil {
		return nil
	}
	return &SubscriptionDTO{
		ID:         token.ID,
		Endpoint:   token.Endpoint,
		CreatedAt:  token.CreatedAt,
		LastSeenAt: token.LastSeenAt,
	}
}
