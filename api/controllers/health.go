package controllers

import (
	"net/http"

	"github.com/camilorueda/vitrina-backend/api/responses"
	"github.com/camilorueda/vitrina-backend/pkg/config"
	"github.com/camilorueda/vitrina-backend/pkg/db"
	pkgerrors "github.com/camilorueda/vitrina-backend/pkg/errors"
	"github.com/camilorueda/vitrina-backend/pkg/logger"
	"github.com/camilorueda/vitrina-backend/pkg/redis"
)

func HealthLive(cfg *config.Config) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("X-Vitrina-Env", cfg.App.Env)
		responses.WriteSuccess(w, map[string]string{"status": "live"})
	}
}

// HealthReady pings the backing stores so the probe fails before traffic
// is routed to an instance that cannot serve it.
func HealthReady(cfg *config.Config, logg *logger.Logger, dbP db.Pinger, redisP redis.Pinger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("X-Vitrina-Env", cfg.App.Env)

		if dbP != nil {
			if err := dbP.Ping(r.Context()); err != nil {
				responses.WriteError(r.Context(), logg, w, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "ping database"))
				return
			}
		}
		if redisP != nil {
			if err := redisP.Ping(r.Context()); err != nil {
				responses.WriteError(r.Context(), logg, w, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "ping redis"))
				return
			}
		}

		responses.WriteSuccess(w, map[string]string{"status": "ready"})
	}
}
