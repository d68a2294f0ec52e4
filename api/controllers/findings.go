package controllers

import (
	"net/http"

	"github.com/ecosmart2025/fiscal-audit-backend/api/responses"
	"github.com/ecosmart2025/fiscal-audit-backend/api/validators"
	"github.com/ecosmart2025/fiscal-audit-backend/internal/audit"
	"github.com/ecosmart2025/fiscal-audit-backend/internal/ingest"
	"github.com/ecosmart2025/fiscal-audit-backend/pkg/logger"
)

// GetFindings recomputes the audit report over current stored state.
func GetFindings(svc audit.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()

		batchID, err := validators.ParseQueryBatchID(r, ingest.ValidBatchID)
		if err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}

		report, err := svc.Report(ctx, audit.Scope{BatchID: batchID})
		if err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}

		responses.WriteSuccess(w, report)
	}
}
