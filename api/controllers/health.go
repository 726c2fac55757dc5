package controllers

import (
	"context"
	"net/http"
	"time"

	"github.com/davidquintana/archivio-backend/api/responses"
	"github.com/davidquintana/archivio-backend/pkg/config"
	"github.com/davidquintana/archivio-backend/pkg/db"
	pkgerrors "github.com/davidquintana/archivio-backend/pkg/errors"
	"github.com/davidquintana/archivio-backend/pkg/logger"
	"github.com/davidquintana/archivio-backend/pkg/redis"
	"github.com/davidquintana/archivio-backend/pkg/storage/gcs"
)

const readinessTimeout = 5 * time.Second

func HealthLive(cfg *config.Config) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("X-Archivio-Env", cfg.App.Env)
		responses.WriteSuccess(w, map[string]string{"status": "live"})
	}
}

// HealthReady pings every hard dependency. Blob storage is optional wiring,
// so a nil client is simply skipped.
func HealthReady(cfg *config.Config, logg *logger.Logger, dbP db.Pinger, redisP redis.Pinger, gcsP gcs.Pinger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("X-Archivio-Env", cfg.App.Env)

		ctx, cancel := context.WithTimeout(r.Context(), readinessTimeout)
		defer cancel()

		checks := map[string]string{}
		healthy := true

		check := func(name string, p interface {
			Ping(context.Context) error
		}) {
			if p == nil {
				checks[name] = "skipped"
				return
			}
			if err := p.Ping(ctx); err != nil {
				checks[name] = "down"
				healthy = false
				if logg != nil {
					logg.Error(ctx, "readiness."+name, err)
				}
				return
			}
			checks[name] = "up"
		}

		check("postgres", dbP)
		check("redis", redisP)
		check("gcs", gcsP)

		if !healthy {
			err := pkgerrors.New(pkgerrors.CodeDependency, "dependency unavailable").WithDetails(checks)
			responses.WriteError(ctx, nil, w, err)
			return
		}
		responses.WriteSuccess(w, map[string]any{"status": "ready", "checks": checks})
	}
}
