package controllers

import (
	"net/http"

	"go.uber.org/multierr"

	"github.com/andresfontal/voltio-backend/api/responses"
	"github.com/andresfontal/voltio-backend/pkg/config"
	pkgerrors "github.com/andresfontal/voltio-backend/pkg/errors"
	"github.com/andresfontal/voltio-backend/pkg/logger"
	pkgredis "github.com/andresfontal/voltio-backend/pkg/redis"
)

func HealthLive(cfg *config.Config) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("X-Voltio-Env", cfg.App.Env)
		responses.WriteSuccess(w, map[string]string{"status": "live"})
	}
}

// HealthReady checks every registered datasource and aggregates failures.
func HealthReady(cfg *config.Config, logg *logger.Logger, pingers map[string]pkgredis.Pinger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("X-Voltio-Env", cfg.App.Env)

		var combined error
		status := map[string]string{}
		for name, pinger := range pingers {
			if pinger == nil {
				continue
			}
			if err := pinger.Ping(r.Context()); err != nil {
				status[name] = "down"
				combined = multierr.Append(combined, err)
				continue
			}
			status[name] = "up"
		}

		if combined != nil {
			err := pkgerrors.Wrap(pkgerrors.CodeDependency, combined, "readiness check failed").
				WithDetails(status)
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, map[string]any{
			"status":      "ready",
			"datasources": status,
		})
	}
}
