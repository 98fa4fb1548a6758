package cron

import (
	"context"
	"fmt"
	"time"

	"github.com/fridgyapp/fridgy-backend/pkg/logger"
)

type deadInvitesRepo interface {
	DeleteDead(ctx context.Context, cutoff time.Time) (int64, error)
}

// InvitePurgeJobParams configure the invite purge.
type InvitePurgeJobParams struct {
	Logger  *logger.Logger
	Invites deadInvitesRepo
}

// NewInvitePurgeJob builds the job that deletes expired and revoked invite codes.
func NewInvitePurgeJob(params InvitePurgeJobParams) (Job, error) {
	if params.Logger == nil {
		return nil, fmt.Errorf("logger required")
	}
	if params.Invites == nil {
		return nil, fmt.Errorf("invites repository required")
	}
	return &invitePurgeJob{
		logg:    params.Logger,
		invites: params.Invites,
		now:     time.Now,
	}, nil
}

type invitePurgeJob struct {
	logg    *logger.Logger
	invites deadInvitesRepo
	now     func() time.Time
}

func (j *invitePurgeJob) Name() string { return "invite-purge" }

func (j *invitePurgeJob) Run(ctx context.Context) error {
	cutoff := j.now().UTC()
	deleted, err := j.invites.DeleteDead(ctx, cutoff)
	if err != nil {
		return fmt.Errorf("invite purge: %w", err)
	}
	logCtx := j.logg.WithFields(ctx, map[string]any{
		"cutoff":       cutoff,
		"rows_deleted": deleted,
	})
	j.logg.Info(logCtx, "invite purge complete")
	return nil
}
