package analytics

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

// Event is the envelope published for every inventory change the analytics
// pipeline records.
type Event struct {
	EventID     uuid.UUID                `json:"eventId"`
	Type        enums.AnalyticsEventType `json:"type"`
	HouseholdID uuid.UUID                `json:"householdId"`
	FridgeID    *uuid.UUID               `json:"fridgeId,omitempty"`
	ItemID      *uuid.UUID               `json:"itemId,omitempty"`
	UPC         *string                  `json:"upc,omitempty"`
	Quantity    *int                     `json:"quantity,omitempty"`
	ActorID     uuid.UUID                `json:"actorId"`
	OccurredAt  time.Time                `json:"occurredAt"`
	Payload     json.RawMessage          `json:"payload,omitempty"`
}

// EventPublisher pushes inventory events onto the analytics topic.
type EventPublisher struct {
	publisher *pubsub.Publisher
	logg      *logger.Logger
}

// NewEventPublisher wires the analytics topic publisher.
func NewEventPublisher(publisher *pubsub.Publisher, logg *logger.Logger) (*EventPublisher, error) {
	if publisher == nil {
		return nil, fmt.Errorf("analytics topic publisher required")
	}
	if logg == nil {
		return nil, fmt.Errorf("logger required")
	}
	return &EventPublisher{publisher: publisher, logg: logg}, nil
}

// Publish marshals the event and blocks until the broker confirms it.
func (p *EventPublisher) Publish(ctx context.Context, event Event) error {
	if !event.Type.IsValid() {
		return fmt.Errorf("invalid analytics event type %q", event.Type)
	}
	if event.EventID == uuid.Nil {
		event.EventID = uuid.New()
	}
	if event.OccurredAt.IsZero() {
		event.OccurredAt = time.Now().UTC()
	}

	data, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("marshal analytics event: %w", err)
	}

	result := p.publisher.Publish(ctx, &pubsub.Message{
		Data: data,
		Attributes: map[string]string{
			"event_type": string(event.Type),
			"event_id":   event.EventID.String(),
		},
	})
	if _, err := result.Get(ctx); err != nil {
		return fmt.Errorf("publish analytics event: %w", err)
	}
	return nil
}
