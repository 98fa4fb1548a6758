package notifications

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	pubsub "cloud.google.com/go/pubsub/v2"
	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/fridgyapp/fridgy-backend/internal/analytics"
	"github.com/fridgyapp/fridgy-backend/internal/push"
	"github.com/fridgyapp/fridgy-backend/pkg/db"
	"github.com/fridgyapp/fridgy-backend/pkg/db/models"
	"github.com/fridgyapp/fridgy-backend/pkg/enums"
	"github.com/fridgyapp/fridgy-backend/pkg/logger"
)

const notificationEventUserIndex = "idx_notifications_event_user"

type consumerRepository interface {
	Create(ctx context.Context, notification *models.Notification) error
}

type householdReader interface {
	FindByID(ctx context.Context, id uuid.UUID) (*models.Household, error)
}

type subscriptionStore interface {
	ListByUser(ctx context.Context, userID uuid.UUID) ([]models.FCMToken, error)
	DeleteByEndpoint(ctx context.Context, endpoint string) error
}

type pushSender interface {
	Send(ctx context.Context, sub push.Subscription, payload push.Payload) error
}

type analyticsPublisher interface {
	Publish(ctx context.Context, event analytics.Event) error
}

// Consumer fans notification events out to every household member except the
// actor: one inbox row and one Web Push per member, plus an analytics record.
type Consumer struct {
	subscription *pubsub.Subscriber
	repo         consumerRepository
	households   householdReader
	devices      subscriptionStore
	sender       pushSender
	analytics    analyticsPublisher
	logg         *logger.Logger
}

// ConsumerParams bundles the dependencies required to build the consumer.
type ConsumerParams struct {
	Subscription *pubsub.Subscriber
	Repo         consumerRepository
	Households   householdReader
	Devices      subscriptionStore
	Sender       pushSender
	Analytics    analyticsPublisher
	Logger       *logger.Logger
}

// NewConsumer builds the notification worker.
func NewConsumer(params ConsumerParams) (*Consumer, error) {
	if params.Subscription == nil {
		return nil, fmt.Errorf("notification subscription required")
	}
	if params.Repo == nil {
		return nil, fmt.Errorf("notifications repository required")
	}
	if params.Households == nil {
		return nil, fmt.Errorf("household reader required")
	}
	if params.Devices == nil {
		return nil, fmt.Errorf("subscription store required")
	}
	if params.Sender == nil {
		return nil, fmt.Errorf("push sender required")
	}
	if params.Analytics == nil {
		return nil, fmt.Errorf("analytics publisher required")
	}
	if params.Logger == nil {
		return nil, fmt.Errorf("logger required")
	}
	return &Consumer{
		subscription: params.Subscription,
		repo:         params.Repo,
		households:   params.Households,
		devices:      params.Devices,
		sender:       params.Sender,
		analytics:    params.Analytics,
		logg:         params.Logger,
	}, nil
}

// Run starts the consumer loop until the context is canceled.
func (c *Consumer) Run(ctx context.Context) error {
	return c.subscription.Receive(ctx, func(ctx context.Context, msg *pubsub.Message) {
		if c.process(ctx, msg).nack {
			msg.Nack()
			return
		}
		msg.Ack()
	})
}

type processResult struct {
	ack  bool
	nack bool
}

func (c *Consumer) process(ctx context.Context, msg *pubsub.Message) processResult {
	logCtx := c.logg.WithFields(ctx, map[string]any{
		"message_id": msg.ID,
		"event_type": msg.Attributes["event_type"],
	})

	var event Event
	if err := json.Unmarshal(msg.Data, &event); err != nil {
		c.logg.Error(logCtx, "failed to decode notification event", err)
		return processResult{ack: true}
	}
	if event.EventID == uuid.Nil || event.HouseholdID == uuid.Nil || !event.Type.IsValid() {
		c.logg.Error(logCtx, "dropping malformed notification event", fmt.Errorf("event %s invalid", event.EventID))
		return processResult{ack: true}
	}
	logCtx = c.logg.WithFields(logCtx, map[string]any{
		"event_id":     event.EventID.String(),
		"household_id": event.HouseholdID.String(),
	})

	household, err := c.households.FindByID(ctx, event.HouseholdID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			c.logg.Info(logCtx, "household gone, dropping event")
			return processResult{ack: true}
		}
		c.logg.Error(logCtx, "failed to load household", err)
		return processResult{nack: true}
	}

	delivered := 0
	for i := range household.Members {
		member := &household.Members[i]
		if member.UserID == event.ActorID {
			continue
		}
		created, err := c.persist(ctx, event, member.UserID)
		if err != nil {
			c.logg.Error(logCtx, "failed to persist notification", err)
			return processResult{nack: true}
		}
		if !created {
			continue
		}
		delivered++
		c.pushToUser(logCtx, member.UserID, event)
	}

	if delivered > 0 {
		c.record(logCtx, event)
	}
	c.logg.Info(logCtx, fmt.Sprintf("notification event fanned out to %d members", delivered))
	return processResult{ack: true}
}

// persist writes the per-user inbox row. Redeliveries hit the unique index on
// (event_id, user_id) and report created=false.
func (c *Consumer) persist(ctx context.Context, event Event, userID uuid.UUID) (bool, error) {
	notification := &models.Notification{
		EventID:     event.EventID.String(),
		UserID:      userID,
		HouseholdID: event.HouseholdID,
		Type:        event.Type,
		Title:       event.Title,
		Body:        event.Body,
		FridgeID:    event.FridgeID,
		ItemID:      event.ItemID,
	}
	if err := c.repo.Create(ctx, notification); err != nil {
		if db.IsUniqueViolation(err, notificationEventUserIndex) {
			return false, nil
		}
		return false, err
	}
	return true, nil
}

func (c *Consumer) pushToUser(ctx context.Context, userID uuid.UUID, event Event) {
	subs, err := c.devices.ListByUser(ctx, userID)
	if err != nil {
		c.logg.Error(ctx, "failed to list push subscriptions", err)
		return
	}

	payload := push.Payload{
		Title: event.Title,
		Body:  event.Body,
		URL:   fmt.Sprintf("/households/%s", event.HouseholdID),
		Tag:   string(event.Type),
	}
	for i := range subs {
		sub := push.Subscription{Endpoint: subs[i].Endpoint, P256dh: subs[i].P256dh, Auth: subs[i].Auth}
		if err := c.sender.Send(ctx, sub, payload); err != nil {
			if errors.Is(err, push.ErrSubscriptionExpired) {
				if delErr := c.devices.DeleteByEndpoint(ctx, sub.Endpoint); delErr != nil {
					c.logg.Error(ctx, "failed to prune expired subscription", delErr)
				}
				continue
			}
			c.logg.Error(ctx, "failed to send web push", err)
		}
	}
}

func (c *Consumer) record(ctx context.Context, event Event) {
	if err := c.analytics.Publish(ctx, analytics.Event{
		Type:        enums.AnalyticsEventNotification,
		HouseholdID: event.HouseholdID,
		FridgeID:    event.FridgeID,
		ItemID:      event.ItemID,
		ActorID:     event.ActorID,
	}); err != nil {
		c.logg.Error(ctx, "publish notification analytics event", err)
	}
}
