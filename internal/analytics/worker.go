package analytics

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	gcppubsub "cloud.google.com/go/pubsub/v2"
	"github.com/google/uuid"

	"github.com/fridgyapp/fridgy-backend/pkg/logger"
	redisclient "github.com/fridgyapp/fridgy-backend/pkg/redis"
)

const (
	analyticsConsumerName = "analytics"
	idempotencyTTL        = 24 * time.Hour
)

type inventoryWriter interface {
	InsertInventory(ctx context.Context, row InventoryEventRow) error
}

type idempotencyStore interface {
	SetNX(ctx context.Context, key string, value any, ttl time.Duration) (bool, error)
	Del(ctx context.Context, keys ...string) error
	IdempotencyKey(scope, id string) string
}

// Worker consumes analytics events from Pub/Sub and streams them to BigQuery.
// Redis keys guard against double processing on redelivery.
type Worker struct {
	subscription *gcppubsub.Subscriber
	writer       inventoryWriter
	store        idempotencyStore
	logg         *logger.Logger
}

// NewWorker creates an analytics worker.
func NewWorker(subscription *gcppubsub.Subscriber, writer inventoryWriter, store idempotencyStore, logg *logger.Logger) (*Worker, error) {
	if subscription == nil {
		return nil, errors.New("analytics subscription is required")
	}
	if writer == nil {
		return nil, errors.New("inventory writer is required")
	}
	if store == nil {
		return nil, errors.New("idempotency store is required")
	}
	if logg == nil {
		return nil, errors.New("logger is required")
	}
	return &Worker{
		subscription: subscription,
		writer:       writer,
		store:        store,
		logg:         logg,
	}, nil
}

var _ idempotencyStore = (*redisclient.Client)(nil)

type processResult struct {
	nack bool
}

// Run starts consuming analytics messages until the context is canceled.
func (w *Worker) Run(ctx context.Context) error {
	if ctx == nil {
		ctx = context.Background()
	}
	return w.subscription.Receive(ctx, func(innerCtx context.Context, msg *gcppubsub.Message) {
		if w.process(innerCtx, msg).nack {
			msg.Nack()
			return
		}
		msg.Ack()
	})
}

func (w *Worker) process(ctx context.Context, msg *gcppubsub.Message) processResult {
	logCtx := w.logg.WithFields(ctx, map[string]any{
		"message_id": msg.ID,
		"event_type": msg.Attributes["event_type"],
	})

	var event Event
	if err := json.Unmarshal(msg.Data, &event); err != nil {
		w.logg.Error(logCtx, "invalid analytics event", err)
		return processResult{}
	}
	if event.EventID == uuid.Nil || !event.Type.IsValid() {
		w.logg.Warn(logCtx, "analytics event missing id or type")
		return processResult{}
	}

	key := w.store.IdempotencyKey(analyticsConsumerName, event.EventID.String())
	fresh, err := w.store.SetNX(ctx, key, "1", idempotencyTTL)
	if err != nil {
		w.logg.Error(logCtx, "idempotency check failed", err)
		return processResult{nack: true}
	}
	if !fresh {
		w.logg.Info(logCtx, "analytics event already processed")
		return processResult{}
	}

	if err := w.writer.InsertInventory(ctx, RowFromEvent(event)); err != nil {
		w.logg.Error(logCtx, "write inventory event", err)
		_ = w.store.Del(ctx, key)
		return processResult{nack: true}
	}

	w.logg.Info(logCtx, "inventory event recorded")
	return processResult{}
}
