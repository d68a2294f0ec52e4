package routes

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/ecosmart2025/fiscal-audit-backend/internal/audit"
	"github.com/ecosmart2025/fiscal-audit-backend/internal/ingest"
	"github.com/ecosmart2025/fiscal-audit-backend/internal/invoices"
	"github.com/ecosmart2025/fiscal-audit-backend/pkg/config"
	"github.com/ecosmart2025/fiscal-audit-backend/pkg/db/models"
)

type stubPinger struct{ err error }

func (s stubPinger) Ping(context.Context) error { return s.err }

type stubIngestService struct{}

func (stubIngestService) LoadBatch(_ context.Context, input ingest.LoadBatchInput) (*ingest.LoadResult, error) {
	return &ingest.LoadResult{
		BatchID: input.BatchID,
		Format:  input.Format,
		Skipped: []ingest.RecordIssue{},
		Errors:  []ingest.RecordIssue{},
	}, nil
}

type stubAuditService struct{}

func (stubAuditService) ValueMismatches(context.Context, audit.Scope) ([]audit.ValueMismatchFinding, error) {
	return nil, nil
}

func (stubAuditService) DuplicateKeys(context.Context, audit.Scope) ([]audit.DuplicateKeyFinding, error) {
	return nil, nil
}

func (stubAuditService) Report(_ context.Context, scope audit.Scope) (*audit.Report, error) {
	return &audit.Report{
		Scope:           scope,
		GeneratedAt:     time.Now().UTC(),
		ValueMismatches: []audit.ValueMismatchFinding{},
		DuplicateKeys:   []audit.DuplicateKeyFinding{},
	}, nil
}

type stubRepo struct{}

func (s stubRepo) WithTx(*gorm.DB) invoices.Repository { return s }

func (stubRepo) ReplaceBatchHeaders(context.Context, string, []models.InvoiceHeader) error {
	return nil
}

func (stubRepo) ReplaceBatchItems(context.Context, string, []models.InvoiceItem) error { return nil }

func (stubRepo) RegisterBatchLoad(context.Context, *models.BatchLoad) error { return nil }

func (stubRepo) ListHeaders(context.Context, invoices.HeaderFilter) ([]models.InvoiceHeader, error) {
	return nil, nil
}

func (stubRepo) ListItems(context.Context, invoices.ItemFilter) ([]models.InvoiceItem, error) {
	return []models.InvoiceItem{{AccessKey: "key-1", BatchID: "202408", LineNumber: 1}}, nil
}

func (stubRepo) ListBatchLoads(context.Context) ([]models.BatchLoad, error) { return nil, nil }

func (stubRepo) BatchSummaries(context.Context) ([]invoices.BatchSummary, error) { return nil, nil }

func newTestRouter(t *testing.T, pingErr error) http.Handler {
	t.Helper()
	return NewRouter(RouterParams{
		Config:       &config.Config{App: config.AppConfig{Env: config.AppEnvDev}},
		DBPinger:     stubPinger{err: pingErr},
		InvoicesRepo: stubRepo{},
		IngestSvc:    stubIngestService{},
		AuditSvc:     stubAuditService{},
		Metrics:      prometheus.NewRegistry(),
	})
}

func TestRouter_Health(t *testing.T) {
	router := newTestRouter(t, nil)

	req := httptest.NewRequest(http.MethodGet, "/health/live", nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, config.AppEnvDev, w.Header().Get("X-FiscalAudit-Env"))

	req = httptest.NewRequest(http.MethodGet, "/health/ready", nil)
	w = httptest.NewRecorder()
	router.ServeHTTP(w, req)
	assert.Equal(t, http.StatusOK, w.Code)
}

func TestRouter_ReadyFailsWhenDBDown(t *testing.T) {
	router := newTestRouter(t, assert.AnError)

	req := httptest.NewRequest(http.MethodGet, "/health/ready", nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	assert.Equal(t, http.StatusServiceUnavailable, w.Code)
}

func TestRouter_Metrics(t *testing.T) {
	router := newTestRouter(t, nil)

	req := httptest.NewRequest(http.MethodGet, "/metrics", nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	assert.Equal(t, http.StatusOK, w.Code)
}

func TestRouter_APIRoutes(t *testing.T) {
	router := newTestRouter(t, nil)

	body := `{"batch_id":"202408","format":"csv"}`
	req := httptest.NewRequest(http.MethodPost, "/api/v1/batches", strings.NewReader(body))
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.NotEmpty(t, w.Header().Get("X-Request-Id"))

	for _, path := range []string{
		"/api/v1/batches",
		"/api/v1/invoices",
		"/api/v1/invoices/key-1/items",
		"/api/v1/findings",
	} {
		req := httptest.NewRequest(http.MethodGet, path, nil)
		w := httptest.NewRecorder()
		router.ServeHTTP(w, req)
		assert.Equal(t, http.StatusOK, w.Code, path)
	}
}
