package controllers

import (
	"net/http"

	"github.com/ecosmart2025/fiscal-audit-backend/api/responses"
	"github.com/ecosmart2025/fiscal-audit-backend/api/validators"
	"github.com/ecosmart2025/fiscal-audit-backend/internal/ingest"
	"github.com/ecosmart2025/fiscal-audit-backend/internal/invoices"
	pkgerrors "github.com/ecosmart2025/fiscal-audit-backend/pkg/errors"
	"github.com/ecosmart2025/fiscal-audit-backend/pkg/logger"
)

type loadBatchRequest struct {
	BatchID        string `json:"batch_id" validate:"required,len=6,numeric"`
	Format         string `json:"format" validate:"required,oneof=csv xml"`
	HeadersContent string `json:"headers_content"`
	ItemsContent   string `json:"items_content"`
}

// LoadBatch accepts one raw batch and runs the full load pipeline.
func LoadBatch(svc ingest.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()

		var req loadBatchRequest
		if err := validators.DecodeJSONBody(r, &req); err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}

		format, ok := ingest.ParseFormat(req.Format)
		if !ok {
			responses.WriteError(ctx, logg, w, pkgerrors.New(pkgerrors.CodeValidation, "format must be csv or xml"))
			return
		}

		result, err := svc.LoadBatch(ctx, ingest.LoadBatchInput{
			BatchID: req.BatchID,
			Format:  format,
			Headers: []byte(req.HeadersContent),
			Items:   []byte(req.ItemsContent),
		})
		if err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}

		responses.WriteSuccess(w, result)
	}
}

type batchListResponse struct {
	Loads     any `json:"loads"`
	Summaries any `json:"summaries"`
}

// ListBatches returns every registered batch load with its monthly summary.
func ListBatches(repo invoices.Repository, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()

		loads, err := repo.ListBatchLoads(ctx)
		if err != nil {
			responses.WriteError(ctx, logg, w, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "list batch loads"))
			return
		}
		summaries, err := repo.BatchSummaries(ctx)
		if err != nil {
			responses.WriteError(ctx, logg, w, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "list batch summaries"))
			return
		}

		responses.WriteSuccess(w, batchListResponse{Loads: loads, Summaries: summaries})
	}
}
