package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"

	"github.com/joho/godotenv"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/fridgyapp/fridgy-backend/internal/analytics"
	"github.com/fridgyapp/fridgy-backend/internal/cron"
	"github.com/fridgyapp/fridgy-backend/internal/invites"
	"github.com/fridgyapp/fridgy-backend/internal/items"
	"github.com/fridgyapp/fridgy-backend/internal/notifications"
	"github.com/fridgyapp/fridgy-backend/pkg/config"
	"github.com/fridgyapp/fridgy-backend/pkg/db"
	"github.com/fridgyapp/fridgy-backend/pkg/logger"
	"github.com/fridgyapp/fridgy-backend/pkg/metrics"
	"github.com/fridgyapp/fridgy-backend/pkg/migrate"
	"github.com/fridgyapp/fridgy-backend/pkg/pubsub"
	"github.com/fridgyapp/fridgy-backend/pkg/redis"
)

const lockKeyFormat = "fridgy:cron-worker:lock:%s"

func main() {
	logg := logger.New(logger.Options{ServiceName: "cron-worker"})

	if err := godotenv.Load(); err != nil {
		logg.Warn(context.Background(), ".env file not found, relying on environment")
	}

	cfg, err := config.Load()
	if err != nil {
		logg.Error(context.Background(), "failed to load config", err)
		os.Exit(1)
	}

	logg = logger.New(logger.Options{
		ServiceName: "cron-worker",
		Level:       logger.ParseLevel(cfg.App.LogLevel),
		WarnStack:   cfg.App.LogWarnStack,
	})

	dbClient, err := db.New(context.Background(), cfg.DB, logg)
	if err != nil {
		logg.Error(context.Background(), "failed to bootstrap database", err)
		os.Exit(1)
	}
	defer func() {
		if err := dbClient.Close(); err != nil {
			logg.Error(context.Background(), "error closing database", err)
		}
	}()

	if err := migrate.MaybeRunDev(context.Background(), cfg, logg, dbClient); err != nil {
		logg.Error(context.Background(), "failed to run dev migrations", err)
		os.Exit(1)
	}

	redisClient, err := redis.New(context.Background(), cfg.Redis, logg)
	if err != nil {
		logg.Error(context.Background(), "failed to bootstrap redis", err)
		os.Exit(1)
	}
	defer func() {
		if err := redisClient.Close(); err != nil {
			logg.Error(context.Background(), "error closing redis", err)
		}
	}()

	pubsubClient, err := pubsub.NewClient(context.Background(), cfg.GCP, cfg.PubSub, logg)
	if err != nil {
		logg.Error(context.Background(), "failed to bootstrap pubsub", err)
		os.Exit(1)
	}
	defer func() {
		if err := pubsubClient.Close(); err != nil {
			logg.Error(context.Background(), "error closing pubsub", err)
		}
	}()

	notificationEvents, err := notifications.NewEventPublisher(pubsubClient.NotificationPublisher(), logg)
	if err != nil {
		logg.Error(context.Background(), "failed to create notification publisher", err)
		os.Exit(1)
	}
	analyticsEvents, err := analytics.NewEventPublisher(pubsubClient.AnalyticsPublisher(), logg)
	if err != nil {
		logg.Error(context.Background(), "failed to create analytics publisher", err)
		os.Exit(1)
	}

	metricsCollector := metrics.NewCronJobMetrics(prometheus.DefaultRegisterer)
	lock, err := cron.NewRedisLock(redisClient, lockKey(cfg.App.Env), cfg.Cron.LockTTL)
	if err != nil {
		logg.Error(context.Background(), "failed to create cron lock", err)
		os.Exit(1)
	}

	itemExpiryJob, err := cron.NewItemExpiryJob(cron.ItemExpiryJobParams{
		Logger:      logg,
		Items:       items.NewRepository(dbClient.DB()),
		Events:      notificationEvents,
		Analytics:   analyticsEvents,
		WarningDays: cfg.Cron.ExpiryWarningDays,
	})
	if err != nil {
		logg.Error(context.Background(), "failed to create item expiry job", err)
		os.Exit(1)
	}

	invitePurgeJob, err := cron.NewInvitePurgeJob(cron.InvitePurgeJobParams{
		Logger:  logg,
		Invites: invites.NewRepository(dbClient.DB()),
	})
	if err != nil {
		logg.Error(context.Background(), "failed to create invite purge job", err)
		os.Exit(1)
	}

	retentionJob, err := cron.NewNotificationRetentionJob(cron.NotificationRetentionJobParams{
		Logger:        logg,
		Notifications: notifications.NewRepository(dbClient.DB()),
		RetentionDays: cfg.Notifications.RetentionDays,
	})
	if err != nil {
		logg.Error(context.Background(), "failed to create notification retention job", err)
		os.Exit(1)
	}

	registry := cron.NewRegistry(itemExpiryJob, invitePurgeJob, retentionJob)
	service, err := cron.NewService(cron.ServiceParams{
		Logger:   logg,
		Registry: registry,
		Lock:     lock,
		Metrics:  metricsCollector,
		Interval: cfg.Cron.Interval,
	})
	if err != nil {
		logg.Error(context.Background(), "failed to create cron service", err)
		os.Exit(1)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()
	ctx = logg.WithFields(ctx, map[string]any{
		"env":      cfg.App.Env,
		"interval": cfg.Cron.Interval.String(),
	})
	logg.Info(ctx, "starting cron worker")

	go serveMetrics(ctx, cfg.Cron.MetricsPort, logg)

	if err := service.Run(ctx); err != nil && !errors.Is(err, context.Canceled) {
		logg.Error(ctx, "cron worker stopped unexpectedly", err)
		os.Exit(1)
	}

	logg.Info(ctx, "cron worker shutting down gracefully")
}

func serveMetrics(ctx context.Context, port string, logg *logger.Logger) {
	if port == "" {
		return
	}
	mux := http.NewServeMux()
	mux.Handle("/metrics", promhttp.Handler())
	if err := http.ListenAndServe(":"+port, mux); err != nil && !errors.Is(err, http.ErrServerClosed) {
		logg.Error(ctx, "metrics server stopped unexpectedly", err)
	}
}

func lockKey(env string) string {
	if env == "" {
		env = "local"
	}
	return fmt.Sprintf(lockKeyFormat, env)
}
