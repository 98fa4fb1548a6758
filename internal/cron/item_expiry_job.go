package cron

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"go.uber.org/multierr"

	"github.com/fridgyapp/fridgy-backend/internal/analytics"
	"github.com/fridgyapp/fridgy-backend/internal/items"
	"github.com/fridgyapp/fridgy-backend/internal/notifications"
	"github.com/fridgyapp/fridgy-backend/pkg/enums"
	"github.com/fridgyapp/fridgy-backend/pkg/logger"
)

const defaultExpiryWarningDays = 3

type expiringItemsRepo interface {
	ListExpiringWindow(ctx context.Context, from, to time.Time) ([]items.ExpiringItemRow, error)
}

type notificationEventPublisher interface {
	Publish(ctx context.Context, event notifications.Event) error
}

type analyticsEventPublisher interface {
	Publish(ctx context.Context, event analytics.Event) error
}

// ItemExpiryJobParams configure the expiry scan.
type ItemExpiryJobParams struct {
	Logger      *logger.Logger
	Items       expiringItemsRepo
	Events      notificationEventPublisher
	Analytics   analyticsEventPublisher
	WarningDays int
}

// NewItemExpiryJob builds the job that warns households about items expiring
// soon and records items that expired since the last cycle.
func NewItemExpiryJob(params ItemExpiryJobParams) (Job, error) {
	if params.Logger == nil {
		return nil, fmt.Errorf("logger required")
	}
	if params.Items == nil {
		return nil, fmt.Errorf("items repository required")
	}
	if params.Events == nil {
		return nil, fmt.Errorf("event publisher required")
	}
	if params.Analytics == nil {
		return nil, fmt.Errorf("analytics publisher required")
	}
	warningDays := params.WarningDays
	if warningDays <= 0 {
		warningDays = defaultExpiryWarningDays
	}
	return &itemExpiryJob{
		logg:        params.Logger,
		items:       params.Items,
		events:      params.Events,
		analytics:   params.Analytics,
		warningDays: warningDays,
		now:         time.Now,
	}, nil
}

type itemExpiryJob struct {
	logg        *logger.Logger
	items       expiringItemsRepo
	events      notificationEventPublisher
	analytics   analyticsEventPublisher
	warningDays int
	now         func() time.Time
}

func (j *itemExpiryJob) Name() string { return "item-expiry" }

func (j *itemExpiryJob) Run(ctx context.Context) error {
	now := j.now().UTC()

	expiring, err := j.items.ListExpiringWindow(ctx, now, now.AddDate(0, 0, j.warningDays))
	if err != nil {
		return fmt.Errorf("scan expiring items: %w", err)
	}
	var errs []error
	warned, err := j.notifyPerFridge(ctx, expiring, enums.NotificationTypeItemExpiring, "Items expiring soon",
		func(count int) string {
			return fmt.Sprintf("%d item(s) expire within %d days", count, j.warningDays)
		})
	if err != nil {
		errs = append(errs, err)
	}

	expired, err := j.items.ListExpiringWindow(ctx, now.Add(-24*time.Hour), now)
	if err != nil {
		return fmt.Errorf("scan expired items: %w", err)
	}
	lapsed, err := j.notifyPerFridge(ctx, expired, enums.NotificationTypeItemExpired, "Items expired",
		func(count int) string {
			return fmt.Sprintf("%d item(s) in your fridge have expired", count)
		})
	if err != nil {
		errs = append(errs, err)
	}
	if err := j.recordExpired(ctx, expired); err != nil {
		errs = append(errs, err)
	}

	logCtx := j.logg.WithFields(ctx, map[string]any{
		"expiring_fridges": warned,
		"expired_fridges":  lapsed,
		"warning_days":     j.warningDays,
	})
	j.logg.Info(logCtx, "item expiry scan complete")
	return multierr.Combine(errs...)
}

type fridgeKey struct {
	householdID uuid.UUID
	fridgeID    uuid.UUID
}

// notifyPerFridge groups the rows by fridge and publishes one event per fridge.
func (j *itemExpiryJob) notifyPerFridge(ctx context.Context, rows []items.ExpiringItemRow, kind enums.NotificationType, title string, body func(count int) string) (int, error) {
	groups := map[fridgeKey]int{}
	for _, row := range rows {
		groups[fridgeKey{householdID: row.HouseholdID, fridgeID: row.FridgeID}]++
	}

	var errs []error
	for key, count := range groups {
		fridgeID := key.fridgeID
		err := j.events.Publish(ctx, notifications.Event{
			Type:        kind,
			HouseholdID: key.householdID,
			FridgeID:    &fridgeID,
			Title:       title,
			Body:        body(count),
		})
		if err != nil {
			j.logg.Error(ctx, "publish expiry notification event", err)
			errs = append(errs, err)
		}
	}
	return len(groups), multierr.Combine(errs...)
}

func (j *itemExpiryJob) recordExpired(ctx context.Context, rows []items.ExpiringItemRow) error {
	var errs []error
	for _, row := range rows {
		fridgeID := row.FridgeID
		itemID := row.Item.ID
		quantity := row.Quantity
		err := j.analytics.Publish(ctx, analytics.Event{
			Type:        enums.AnalyticsEventItemExpired,
			HouseholdID: row.HouseholdID,
			FridgeID:    &fridgeID,
			ItemID:      &itemID,
			UPC:         row.UPC,
			Quantity:    &quantity,
			ActorID:     row.AddedBy,
		})
		if err != nil {
			j.logg.Error(ctx, "publish item expired analytics event", err)
			errs = append(errs, err)
		}
	}
	return multierr.Combine(errs...)
}
