package controllers

import (
	"context"
	"net/http"
	"time"

	"github.com/fridgyapp/fridgy-backend/api/responses"
	"github.com/fridgyapp/fridgy-backend/pkg/config"
	pkgerrors "github.com/fridgyapp/fridgy-backend/pkg/errors"
	"github.com/fridgyapp/fridgy-backend/pkg/logger"
)

const readyCheckTimeout = 5 * time.Second

// Pinger is the health-check surface every backing client exposes.
type Pinger interface {
	Ping(ctx context.Context) error
}

func HealthLive(cfg *config.Config) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("X-Fridgy-Env", cfg.App.Env)
		responses.WriteSuccess(w, map[string]string{"status": "live"})
	}
}

// HealthReady pings every backing dependency and reports per-component status.
// Nil dependencies are skipped so partial deployments stay routable.
func HealthReady(cfg *config.Config, logg *logger.Logger, deps map[string]Pinger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("X-Fridgy-Env", cfg.App.Env)

		ctx, cancel := context.WithTimeout(r.Context(), readyCheckTimeout)
		defer cancel()

		checks := map[string]string{}
		healthy := true
		for name, dep := range deps {
			if dep == nil {
				checks[name] = "skipped"
				continue
			}
			if err := dep.Ping(ctx); err != nil {
				checks[name] = "unavailable"
				healthy = false
				if logg != nil {
					logg.Error(logg.WithField(ctx, "component", name), "readiness check failed", err)
				}
				continue
			}
			checks[name] = "ok"
		}

		if !healthy {
			responses.WriteError(r.Context(), logg, w,
				pkgerrors.New(pkgerrors.CodeDependency, "dependencies not ready").WithDetails(checks))
			return
		}
		responses.WriteSuccess(w, map[string]any{"status": "ready", "checks": checks})
	}
}
