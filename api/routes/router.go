package routes

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/ecosmart2025/fiscal-audit-backend/api/controllers"
	"github.com/ecosmart2025/fiscal-audit-backend/api/middleware"
	"github.com/ecosmart2025/fiscal-audit-backend/internal/audit"
	"github.com/ecosmart2025/fiscal-audit-backend/internal/ingest"
	"github.com/ecosmart2025/fiscal-audit-backend/internal/invoices"
	"github.com/ecosmart2025/fiscal-audit-backend/pkg/config"
	"github.com/ecosmart2025/fiscal-audit-backend/pkg/db"
	"github.com/ecosmart2025/fiscal-audit-backend/pkg/logger"
)

type RouterParams struct {
	Config       *config.Config
	Logger       *logger.Logger
	DBPinger     db.Pinger
	InvoicesRepo invoices.Repository
	IngestSvc    ingest.Service
	AuditSvc     audit.Service
	Metrics      prometheus.Gatherer
}

func NewRouter(p RouterParams) http.Handler {
	r := chi.NewRouter()

	r.Use(
		middleware.Recoverer(p.Logger),
		middleware.RequestID(p.Logger),
		middleware.Logging(p.Logger),
		middleware.CORS(),
	)

	r.Route("/health", func(r chi.Router) {
		r.Get("/live", controllers.HealthLive(p.Config))
		r.Get("/ready", controllers.HealthReady(p.Config, p.Logger, p.DBPinger))
	})

	if p.Metrics != nil {
		r.Method(http.MethodGet, "/metrics", promhttp.HandlerFor(p.Metrics, promhttp.HandlerOpts{}))
	}

	r.Route("/api/v1", func(r chi.Router) {
		r.Route("/batches", func(r chi.Router) {
			r.Post("/", controllers.LoadBatch(p.IngestSvc, p.Logger))
			r.Get("/", controllers.ListBatches(p.InvoicesRepo, p.Logger))
		})
		r.Route("/invoices", func(r chi.Router) {
			r.Get("/", controllers.ListInvoices(p.InvoicesRepo, p.Logger))
			r.Get("/{accessKey}/items", controllers.ListInvoiceItems(p.InvoicesRepo, p.Logger))
		})
		r.Get("/findings", controllers.GetFindings(p.AuditSvc, p.Logger))
	})

	return r
}
