package main

import (
	"context"
	"net/http"
	"os"

	"github.com/joho/godotenv"

	"github.com/fridgyapp/fridgy-backend/api/controllers"
	"github.com/fridgyapp/fridgy-backend/api/routes"
	"github.com/fridgyapp/fridgy-backend/internal/analytics"
	"github.com/fridgyapp/fridgy-backend/internal/auth"
	"github.com/fridgyapp/fridgy-backend/internal/categories"
	"github.com/fridgyapp/fridgy-backend/internal/devices"
	"github.com/fridgyapp/fridgy-backend/internal/fridges"
	"github.com/fridgyapp/fridgy-backend/internal/households"
	"github.com/fridgyapp/fridgy-backend/internal/invites"
	"github.com/fridgyapp/fridgy-backend/internal/items"
	"github.com/fridgyapp/fridgy-backend/internal/notifications"
	"github.com/fridgyapp/fridgy-backend/internal/products"
	"github.com/fridgyapp/fridgy-backend/internal/shoppinglist"
	"github.com/fridgyapp/fridgy-backend/internal/users"
	"github.com/fridgyapp/fridgy-backend/pkg/auth/session"
	"github.com/fridgyapp/fridgy-backend/pkg/config"
	"github.com/fridgyapp/fridgy-backend/pkg/db"
	"github.com/fridgyapp/fridgy-backend/pkg/logger"
	"github.com/fridgyapp/fridgy-backend/pkg/migrate"
	"github.com/fridgyapp/fridgy-backend/pkg/pubsub"
	"github.com/fridgyapp/fridgy-backend/pkg/redis"
	"github.com/fridgyapp/fridgy-backend/pkg/storage/gcs"
)

func main() {
	logg := logger.New(logger.Options{ServiceName: "api"})

	if err := godotenv.Load(); err != nil {
		logg.Warn(context.Background(), ".env file not found, relying on environment")
	}

	cfg, err := config.Load()
	if err != nil {
		logg.Error(context.Background(), "failed to load config", err)
		os.Exit(1)
	}

	logg = logger.New(logger.Options{
		ServiceName: "api",
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

	gcsClient, err := gcs.NewClient(context.Background(), cfg.GCS, cfg.GCP, logg)
	if err != nil {
		logg.Error(context.Background(), "failed to bootstrap gcs", err)
		os.Exit(1)
	}
	defer func() {
		if err := gcsClient.Close(); err != nil {
			logg.Error(context.Background(), "error closing gcs", err)
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

	sessionManager, err := session.NewManager(redisClient, cfg.JWT)
	if err != nil {
		logg.Error(context.Background(), "failed to create session manager", err)
		os.Exit(1)
	}

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

	usersRepo := users.NewRepository(dbClient.DB())
	householdsRepo := households.NewRepository(dbClient.DB())
	fridgesRepo := fridges.NewRepository(dbClient.DB())

	authService, err := auth.NewService(auth.ServiceParams{
		UserRepo:       usersRepo,
		HouseholdRepo:  householdsRepo,
		SessionManager: sessionManager,
		JWTConfig:      cfg.JWT,
		PasswordConfig: cfg.Password,
	})
	if err != nil {
		logg.Error(context.Background(), "failed to create auth service", err)
		os.Exit(1)
	}

	usersService, err := users.NewService(usersRepo, gcsClient, cfg.GCS, logg)
	if err != nil {
		logg.Error(context.Background(), "failed to create users service", err)
		os.Exit(1)
	}

	householdsService, err := households.NewService(householdsRepo, notificationEvents, logg)
	if err != nil {
		logg.Error(context.Background(), "failed to create households service", err)
		os.Exit(1)
	}

	invitesService, err := invites.NewService(invites.NewRepository(dbClient.DB()), householdsRepo, notificationEvents, cfg.Invites, logg)
	if err != nil {
		logg.Error(context.Background(), "failed to create invites service", err)
		os.Exit(1)
	}

	fridgesService, err := fridges.NewService(fridgesRepo, householdsRepo)
	if err != nil {
		logg.Error(context.Background(), "failed to create fridges service", err)
		os.Exit(1)
	}

	itemsService, err := items.NewService(items.NewRepository(dbClient.DB()), fridgesRepo, householdsRepo, analyticsEvents, logg)
	if err != nil {
		logg.Error(context.Background(), "failed to create items service", err)
		os.Exit(1)
	}

	productsService, err := products.NewService(products.NewRepository(dbClient.DB()), gcsClient, analyticsEvents, cfg.GCS, logg)
	if err != nil {
		logg.Error(context.Background(), "failed to create products service", err)
		os.Exit(1)
	}

	categoriesService, err := categories.NewService(categories.NewRepository(dbClient.DB()), logg)
	if err != nil {
		logg.Error(context.Background(), "failed to create categories service", err)
		os.Exit(1)
	}

	shoppingListService, err := shoppinglist.NewService(shoppinglist.NewRepository(dbClient.DB()), householdsRepo, notificationEvents, redisClient, logg)
	if err != nil {
		logg.Error(context.Background(), "failed to create shopping list service", err)
		os.Exit(1)
	}

	notificationsService, err := notifications.NewService(notifications.NewRepository(dbClient.DB()), logg)
	if err != nil {
		logg.Error(context.Background(), "failed to create notifications service", err)
		os.Exit(1)
	}

	devicesService, err := devices.NewService(devices.NewRepository(dbClient.DB()), logg)
	if err != nil {
		logg.Error(context.Background(), "failed to create devices service", err)
		os.Exit(1)
	}

	port := os.Getenv("PORT")
	if port == "" {
		port = cfg.App.Port
	}
	addr := ":" + port
	id := os.Getenv("DYNO")
	if id == "" {
		id = "local"
	}
	ctx := logg.WithFields(context.Background(), map[string]any{
		"env":      cfg.App.Env,
		"addr":     addr,
		"instance": id,
	})
	logg.Info(ctx, "starting api server")

	server := &http.Server{
		Addr: addr,
		Handler: routes.NewRouter(routes.Deps{
			Config:  cfg,
			Logger:  logg,
			Redis:   redisClient,
			Session: sessionManager,
			Pingers: map[string]controllers.Pinger{
				"database": dbClient,
				"redis":    redisClient,
				"gcs":      gcsClient,
				"pubsub":   pubsubClient,
			},
			Auth:          authService,
			Users:         usersService,
			Households:    householdsService,
			Invites:       invitesService,
			Fridges:       fridgesService,
			Items:         itemsService,
			Products:      productsService,
			Categories:    categoriesService,
			ShoppingList:  shoppingListService,
			Notifications: notificationsService,
			Devices:       devicesService,
		}),
	}

	if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		logg.Error(ctx, "api server stopped unexpectedly", err)
		os.Exit(1)
	}
}
