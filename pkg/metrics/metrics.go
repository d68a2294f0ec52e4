package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// IngestMetrics records metadata for batch loads and audit runs.
type IngestMetrics struct {
	loadDuration *prometheus.HistogramVec
	accepted     *prometheus.CounterVec
	rejected     *prometheus.CounterVec
	findings     *prometheus.GaugeVec
}

// NewIngestMetrics registers the ingest metrics on the provided registerer.
func NewIngestMetrics(reg prometheus.Registerer) *IngestMetrics {
	if reg == nil {
		return &IngestMetrics{}
	}
	loadDuration := prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "batch_load_duration_seconds",
		Help:    "Duration of batch loads in seconds.",
		Buckets: prometheus.DefBuckets,
	}, []string{"format"})
	accepted := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "batch_records_accepted",
		Help: "Records accepted during batch loads.",
	}, []string{"table"})
	rejected := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "batch_records_rejected",
		Help: "Records skipped or rejected during batch loads.",
	}, []string{"stage"})
	findings := prometheus.NewGaugeVec(prometheus.GaugeOpts{
		Name: "audit_findings",
		Help: "Findings reported by the most recent audit run.",
	}, []string{"kind"})
	reg.MustRegister(loadDuration, accepted, rejected, findings)
	return &IngestMetrics{
		loadDuration: loadDuration,
		accepted:     accepted,
		rejected:     rejected,
		findings:     findings,
	}
}

// ObserveLoadDuration records the duration of one batch load.
func (m *IngestMetrics) ObserveLoadDuration(format string, duration time.Duration) {
	if m == nil || m.loadDuration == nil {
		return
	}
	m.loadDuration.WithLabelValues(normalizeLabel(format)).Observe(duration.Seconds())
}

// AddAccepted increments the accepted counter for the named table.
func (m *IngestMetrics) AddAccepted(table string, n int) {
	if m == nil || m.accepted == nil || n <= 0 {
		return
	}
	m.accepted.WithLabelValues(normalizeLabel(table)).Add(float64(n))
}

// AddRejected increments the rejected counter for the named pipeline stage.
func (m *IngestMetrics) AddRejected(stage string, n int) {
	if m == nil || m.rejected == nil || n <= 0 {
		return
	}
	m.rejected.WithLabelValues(normalizeLabel(stage)).Add(float64(n))
}

// SetFindings records the finding count of the latest audit run per kind.
func (m *IngestMetrics) SetFindings(kind string, n int) {
	if m == nil || m.findings == nil {
		return
	}
	m.findings.WithLabelValues(normalizeLabel(kind)).Set(float64(n))
}

func normalizeLabel(label string) string {
	if label == "" {
		return "unknown"
	}
	return label
}
