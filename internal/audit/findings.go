package audit

import (
	"time"

	"github.com/shopspring/decimal"
)

// Kind names an audit check.
type Kind string

const (
	KindValueMismatch Kind = "value_mismatch"
	KindDuplicateKey  Kind = "duplicate_key"
)

// Scope narrows an audit run. A zero scope audits the whole store.
type Scope struct {
	BatchID string
}

// ValueMismatchFinding reports an invoice whose declared total differs from
// the sum of its item line totals by more than the configured tolerance.
type ValueMismatchFinding struct {
	AccessKey     string          `json:"access_key"`
	BatchID       string          `json:"batch_id"`
	DeclaredTotal decimal.Decimal `json:"declared_total"`
	ComputedTotal decimal.Decimal `json:"computed_total"`
	Delta         decimal.Decimal `json:"delta"`
}

// Occurrence locates one load of a duplicated access key.
type Occurrence struct {
	BatchID  string    `json:"batch_id"`
	LoadedAt time.Time `json:"loaded_at"`
}

// DuplicateKeyFinding reports an access key present in more than one batch.
type DuplicateKeyFinding struct {
	AccessKey   string       `json:"access_key"`
	Occurrences []Occurrence `json:"occurrences"`
}

// Report bundles the outcome of one audit run.
type Report struct {
	Scope           Scope                  `json:"scope"`
	GeneratedAt     time.Time              `json:"generated_at"`
	ValueMismatches []ValueMismatchFinding `json:"value_mismatches"`
	DuplicateKeys   []DuplicateKeyFinding  `json:"duplicate_keys"`
}

// TotalFindings counts every finding in the report.
func (r *Report) TotalFindings() int {
	if r == nil {
		return 0
	}
	return len(r.ValueMismatches) + len(r.DuplicateKeys)
}
