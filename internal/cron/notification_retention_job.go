package cron

import (
	"context"
	"fmt"
	"time"

	"github.com/fridgyapp/fridgy-backend/pkg/logger"
)

const defaultNotificationRetentionDays = 30

type notificationsRetentionRepo interface {
	DeleteReadBefore(ctx context.Context, cutoff time.Time) (int64, error)
}

// NotificationRetentionJobParams configure the retention sweep.
type NotificationRetentionJobParams struct {
	Logger        *logger.Logger
	Notifications notificationsRetentionRepo
	RetentionDays int
}

// NewNotificationRetentionJob builds the job that deletes read notifications
// older than the retention window.
func NewNotificationRetentionJob(params NotificationRetentionJobParams) (Job, error) {
	if params.Logger == nil {
		return nil, fmt.Errorf("logger required")
	}
	if params.Notifications == nil {
		return nil, fmt.Errorf("notifications repository required")
	}
	retention := params.RetentionDays
	if retention <= 0 {
		retention = defaultNotificationRetentionDays
	}
	return &notificationRetentionJob{
		logg:      params.Logger,
		repo:      params.Notifications,
		retention: retention,
		now:       time.Now,
	}, nil
}

type notificationRetentionJob struct {
	logg      *logger.Logger
	repo      notificationsRetentionRepo
	retention int
	now       func() time.Time
}

func (j *notificationRetentionJob) Name() string { return "notification-retention" }

func (j *notificationRetentionJob) Run(ctx context.Context) error {
	cutoff := j.now().UTC().Add(-time.Duration(j.retention) * 24 * time.Hour)
	deleted, err := j.repo.DeleteReadBefore(ctx, cutoff)
	if err != nil {
		return fmt.Errorf("notification retention: %w", err)
	}
	logCtx := j.logg.WithFields(ctx, map[string]any{
		"cutoff":         cutoff,
		"retention_days": j.retention,
		"rows_deleted":   deleted,
	})
	j.logg.Info(logCtx, "notification retention complete")
	return nil
}
