package controllers

import (
	"context"
	"net/http"
	"time"

	"github.com/ecosmart2025/fiscal-audit-backend/api/responses"
	"github.com/ecosmart2025/fiscal-audit-backend/pkg/config"
	"github.com/ecosmart2025/fiscal-audit-backend/pkg/db"
	pkgerrors "github.com/ecosmart2025/fiscal-audit-backend/pkg/errors"
	"github.com/ecosmart2025/fiscal-audit-backend/pkg/logger"
)

const envHeader = "X-FiscalAudit-Env"

func HealthLive(cfg *config.Config) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set(envHeader, cfg.App.Env)
		responses.WriteSuccess(w, map[string]string{"status": "live"})
	}
}

func HealthReady(cfg *config.Config, logg *logger.Logger, dbP db.Pinger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set(envHeader, cfg.App.Env)

		ctx, cancel := context.WithTimeout(r.Context(), 2*time.Second)
		defer cancel()

		if dbP == nil {
			responses.WriteError(ctx, logg, w, pkgerrors.New(pkgerrors.CodeDependency, "database not configured"))
			return
		}
		if err := dbP.Ping(ctx); err != nil {
			responses.WriteError(ctx, logg, w, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "database unreachable"))
			return
		}

		responses.WriteSuccess(w, map[string]string{"status": "ready"})
	}
}
