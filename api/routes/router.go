package routes

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/fridgyapp/fridgy-backend/api/controllers"
	"github.com/fridgyapp/fridgy-backend/api/middleware"
	authsvc "github.com/fridgyapp/fridgy-backend/internal/auth"
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
	"github.com/fridgyapp/fridgy-backend/pkg/logger"
	"github.com/fridgyapp/fridgy-backend/pkg/redis"
)

// Deps bundles everything the HTTP surface needs. Pingers may be nil when a
// deployment runs without that backing service.
type Deps struct {
	Config  *config.Config
	Logger  *logger.Logger
	Redis   *redis.Client
	Session session.AccessSessionChecker
	Pingers map[string]controllers.Pinger

	Auth          authsvc.Service
	Users         users.Service
	Households    households.Service
	Invites       invites.Service
	Fridges       fridges.Service
	Items         items.Service
	Products      products.Service
	Categories    categories.Service
	ShoppingList  shoppinglist.Service
	Notifications notifications.Service
	Devices       devices.Service
}

func NewRouter(deps Deps) http.Handler {
	cfg := deps.Config
	logg := deps.Logger

	r := chi.NewRouter()
	r.Use(
		middleware.Recoverer(logg),
		middleware.RequestID(logg),
		middleware.Logging(logg),
		middleware.CORS(),
	)

	loginPolicy := middleware.NewAuthRateLimitPolicy(
		"login",
		cfg.AuthRateLimit.LoginWindow,
		cfg.AuthRateLimit.LoginIPLimit,
		cfg.AuthRateLimit.LoginEmailLimit,
	)
	registerPolicy := middleware.NewAuthRateLimitPolicy(
		"register",
		cfg.AuthRateLimit.RegisterWindow,
		cfg.AuthRateLimit.RegisterIPLimit,
		cfg.AuthRateLimit.RegisterEmailLimit,
	)

	r.Route("/health", func(r chi.Router) {
		r.Get("/live", controllers.HealthLive(cfg))
		r.Get("/ready", controllers.HealthReady(cfg, logg, deps.Pingers))
	})

	r.Route("/api/v1/auth", func(r chi.Router) {
		r.With(middleware.AuthRateLimit(loginPolicy, deps.Redis, logg)).Post("/login", controllers.AuthLogin(deps.Auth, logg))
		r.With(middleware.AuthRateLimit(registerPolicy, deps.Redis, logg), middleware.Idempotency(deps.Redis, logg)).
			Post("/register", controllers.AuthRegister(deps.Auth, logg))
		r.Post("/refresh", controllers.AuthRefresh(deps.Auth, logg))
	})

	r.Route("/api/v1", func(r chi.Router) {
		r.Use(middleware.Auth(cfg.JWT, deps.Session, logg))
		r.Use(middleware.Idempotency(deps.Redis, logg))

		r.Post("/auth/logout", controllers.AuthLogout(deps.Auth, logg))
		r.Post("/auth/switch-household", controllers.AuthSwitchHousehold(deps.Auth, logg))

		r.Route("/users/me", func(r chi.Router) {
			r.Get("/", controllers.UserProfile(deps.Users, logg))
			r.Patch("/", controllers.UserUpdateProfile(deps.Users, logg))
			r.Post("/avatar/presign", controllers.UserAvatarPresign(deps.Users, logg))
		})

		r.Route("/households", func(r chi.Router) {
			r.Post("/", controllers.HouseholdCreate(deps.Households, logg))
			r.Get("/", controllers.HouseholdList(deps.Households, logg))

			r.Route("/{householdID}", func(r chi.Router) {
				r.Get("/", controllers.HouseholdGet(deps.Households, logg))
				r.Patch("/", controllers.HouseholdRename(deps.Households, logg))
				r.Delete("/", controllers.HouseholdDelete(deps.Households, logg))
				r.Post("/leave", controllers.HouseholdLeave(deps.Households, logg))

				r.Route("/members", func(r chi.Router) {
					r.Get("/", controllers.HouseholdMembers(deps.Households, logg))
					r.Patch("/{userID}", controllers.HouseholdSetMemberRole(deps.Households, logg))
					r.Delete("/{userID}", controllers.HouseholdRemoveMember(deps.Households, logg))
				})

				r.Route("/invites", func(r chi.Router) {
					r.Post("/", controllers.InviteCreate(deps.Invites, logg))
					r.Get("/", controllers.InviteList(deps.Invites, logg))
					r.Delete("/{inviteID}", controllers.InviteRevoke(deps.Invites, logg))
				})

				r.Route("/fridges", func(r chi.Router) {
					r.Post("/", controllers.FridgeCreate(deps.Fridges, logg))
					r.Get("/", controllers.FridgeList(deps.Fridges, logg))

					r.Route("/{fridgeID}", func(r chi.Router) {
						r.Get("/", controllers.FridgeGet(deps.Fridges, logg))
						r.Patch("/", controllers.FridgeRename(deps.Fridges, logg))
						r.Delete("/", controllers.FridgeDelete(deps.Fridges, logg))
						r.Post("/items", controllers.ItemAdd(deps.Items, logg))
						r.Get("/items", controllers.ItemList(deps.Items, logg))
					})
				})

				r.Route("/items/{itemID}", func(r chi.Router) {
					r.Get("/", controllers.ItemGet(deps.Items, logg))
					r.Patch("/", controllers.ItemUpdate(deps.Items, logg))
					r.Delete("/", controllers.ItemRemove(deps.Items, logg))
				})

				r.Post("/scan", controllers.ProductScan(deps.Products, logg))

				r.Route("/shopping-list", func(r chi.Router) {
					r.Get("/", controllers.ShoppingListEntries(deps.ShoppingList, logg))
					r.Post("/", controllers.ShoppingListAdd(deps.ShoppingList, logg))
					r.Delete("/checked", controllers.ShoppingListClearChecked(deps.ShoppingList, logg))
					r.Patch("/{entryID}", controllers.ShoppingListSetChecked(deps.ShoppingList, logg))
					r.Delete("/{entryID}", controllers.ShoppingListRemove(deps.ShoppingList, logg))

					r.Route("/presence", func(r chi.Router) {
						r.Put("/", controllers.ShoppingListHeartbeat(deps.ShoppingList, logg))
						r.Delete("/", controllers.ShoppingListLeavePresence(deps.ShoppingList, logg))
						r.Get("/", controllers.ShoppingListViewers(deps.ShoppingList, logg))
					})
				})
			})
		})

		r.Post("/invites/redeem", controllers.InviteRedeem(deps.Invites, logg))

		r.Route("/products", func(r chi.Router) {
			r.Get("/", controllers.ProductSearch(deps.Products, logg))
			r.Get("/{upc}", controllers.ProductGet(deps.Products, logg))
			r.Post("/{upc}", controllers.ProductUpsert(deps.Products, logg))
			r.Post("/{upc}/image/presign", controllers.ProductImagePresign(deps.Products, logg))
		})

		r.Route("/categories", func(r chi.Router) {
			r.Get("/", controllers.CategoryList(deps.Categories, logg))
			r.Post("/", controllers.CategoryCreate(deps.Categories, logg))
		})

		r.Route("/notifications", func(r chi.Router) {
			r.Get("/", controllers.NotificationList(deps.Notifications, logg))
			r.Post("/{notificationID}/read", controllers.NotificationMarkRead(deps.Notifications, logg))
			r.Post("/read-all", controllers.NotificationMarkAllRead(deps.Notifications, logg))
		})

		r.Route("/devices", func(r chi.Router) {
			r.Post("/", controllers.DeviceRegister(deps.Devices, logg))
			r.Get("/", controllers.DeviceList(deps.Devices, logg))
			r.Delete("/", controllers.DeviceUnregister(deps.Devices, logg))
		})
	})

	return r
}
