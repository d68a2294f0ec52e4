package controllers

import (
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"

	"github.com/ecosmart2025/fiscal-audit-backend/api/responses"
	"github.com/ecosmart2025/fiscal-audit-backend/api/validators"
	"github.com/ecosmart2025/fiscal-audit-backend/internal/ingest"
	"github.com/ecosmart2025/fiscal-audit-backend/internal/invoices"
	pkgerrors "github.com/ecosmart2025/fiscal-audit-backend/pkg/errors"
	"github.com/ecosmart2025/fiscal-audit-backend/pkg/logger"
	"github.com/ecosmart2025/fiscal-audit-backend/pkg/pagination"
)

// ListInvoices returns stored invoice headers, optionally filtered by
// batch_id or access_key.
func ListInvoices(repo invoices.Repository, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()

		batchID, err := validators.ParseQueryBatchID(r, ingest.ValidBatchID)
		if err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}
		limit, err := validators.ParseQueryInt(r, "limit", pagination.DefaultLimit, 1, pagination.MaxLimit)
		if err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}
		offset, err := validators.ParseQueryInt(r, "offset", 0, 0, 1<<30)
		if err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}

		headers, err := repo.ListHeaders(ctx, invoices.HeaderFilter{
			BatchID:   batchID,
			AccessKey: strings.TrimSpace(r.URL.Query().Get("access_key")),
			Page:      pagination.Params{Limit: limit, Offset: offset},
		})
		if err != nil {
			responses.WriteError(ctx, logg, w, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "list invoices"))
			return
		}

		responses.WriteSuccess(w, headers)
	}
}

// ListInvoiceItems returns the item lines of one invoice across every batch
// that carries it.
func ListInvoiceItems(repo invoices.Repository, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()

		accessKey := strings.TrimSpace(chi.URLParam(r, "accessKey"))
		if accessKey == "" {
			responses.WriteError(ctx, logg, w, pkgerrors.New(pkgerrors.CodeValidation, "access key is required"))
			return
		}
		batchID, err := validators.ParseQueryBatchID(r, ingest.ValidBatchID)
		if err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}

		items, err := repo.ListItems(ctx, invoices.ItemFilter{
			BatchID:   batchID,
			AccessKey: accessKey,
		})
		if err != nil {
			responses.WriteError(ctx, logg, w, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "list invoice items"))
			return
		}
		if len(items) == 0 {
			responses.WriteError(ctx, logg, w, pkgerrors.New(pkgerrors.CodeNotFound, "invoice not found"))
			return
		}

		responses.WriteSuccess(w, items)
	}
}
