package notifications

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	pubsub "cloud.google.com/go/pubsub/v2"
	"github.com/google/uuid"

	"github.com/fridgyapp/fridgy-backend/pkg/enums"
	"github.com/fridgyapp/fridgy-backend/pkg/logger"
)

// Event is the payload published for anything that should notify household
// members. The worker fans it out to everyone in the household except the actor.
type Event struct {
	EventID     uuid.UUID              `json:"eventId"`
	Type        enums.NotificationType `json:"type"`
	HouseholdID uuid.UUID              `json:"householdId"`
	FridgeID    *uuid.UUID             `json:"fridgeId,omitempty"`
	ItemID      *uuid.UUID             `json:"itemId,omitempty"`
	Title       string                 `json:"title"`
	Body        string                 `json:"body"`
	ActorID     uuid.UUID              `json:"actorId"`
	OccurredAt  time.Time              `json:"occurredAt"`
}

// EventPublisher pushes notification events onto the Pub/Sub topic.
type EventPublisher struct {
	publisher *pubsub.Publisher
	logg      *logger.Logger
}

// NewEventPublisher wires the topic publisher.
func NewEventPublisher(publisher *pubsub.Publisher, logg *logger.Logger) (*EventPublisher, error) {
	if publisher == nil {
		return nil, fmt.Errorf("notification topic publisher required")
	}
	if logg == nil {
		return nil, fmt.Errorf("logger required")
	}
	return &EventPublisher{publisher: publisher, logg: logg}, nil
}

// Publish marshals the event and blocks until the broker confirms it.
// Missing EventID and OccurredAt fields are filled in.
func (p *EventPublisher) Publish(ctx context.Context, event Event) error {
	if !event.Type.IsValid() {
		return fmt.Errorf("invalid notification type %q", event.Type)
	}
	if event.HouseholdID == uuid.Nil {
		return fmt.Errorf("household id required")
	}
	if event.EventID == uuid.Nil {
		event.EventID = uuid.New()
	}
	if event.OccurredAt.IsZero() {
		event.OccurredAt = time.Now().UTC()
	}

	data, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("marshal notification event: %w", err)
	}

	result := p.publisher.Publish(ctx, &pubsub.Message{
		Data: data,
		Attributes: map[string]string{
			"event_type": string(event.Type),
			"event_id":   event.EventID.String(),
		},
	})
	if _, err := result.Get(ctx); err != nil {
		return fmt.Errorf("publish notification event: %w", err)
	}

	logCtx := p.logg.WithFields(ctx, map[string]any{
		"event_id":   event.EventID.String(),
		"event_type": string(event.Type),
	})
	p.logg.Info(logCtx, "notification event published")
	return nil
}
