package audit

import (
	"context"
	"fmt"
	"sort"
	"time"

	"github.com/shopspring/decimal"

	"github.com/ecosmart2025/fiscal-audit-backend/internal/invoices"
	pkgerrors "github.com/ecosmart2025/fiscal-audit-backend/pkg/errors"
	"github.com/ecosmart2025/fiscal-audit-backend/pkg/logger"
	"github.com/ecosmart2025/fiscal-audit-backend/pkg/metrics"
)

// Service runs audit checks over the normalized invoice store. Checks are
// pure reads; a run never mutates the store, so two runs over unchanged data
// return identical reports.
type Service interface {
	ValueMismatches(ctx context.Context, scope Scope) ([]ValueMismatchFinding, error)
	DuplicateKeys(ctx context.Context, scope Scope) ([]DuplicateKeyFinding, error)
	Report(ctx context.Context, scope Scope) (*Report, error)
}

type ServiceParams struct {
	Repo      invoices.Repository
	Tolerance decimal.Decimal
	Logger    *logger.Logger
	Metrics   *metrics.IngestMetrics
}

type service struct {
	repo      invoices.Repository
	tolerance decimal.Decimal
	logg      *logger.Logger
	metrics   *metrics.IngestMetrics
}

// NewService wires the audit service.
func NewService(params ServiceParams) (Service, error) {
	if params.Repo == nil {
		return nil, fmt.Errorf("invoices repository required")
	}
	if params.Tolerance.IsNegative() {
		return nil, fmt.Errorf("tolerance must not be negative")
	}
	return &service{
		repo:      params.Repo,
		tolerance: params.Tolerance,
		logg:      params.Logger,
		metrics:   params.Metrics,
	}, nil
}

// ValueMismatches flags every invoice whose declared total drifts from the
// sum of its item line totals by more than the tolerance. An invoice with no
// items sums to zero, so a non-trivial declared total is itself a mismatch.
func (s *service) ValueMismatches(ctx context.Context, scope Scope) ([]ValueMismatchFinding, error) {
	headers, err := s.repo.ListHeaders(ctx, invoices.HeaderFilter{BatchID: scope.BatchID})
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "list headers")
	}
	items, err := s.repo.ListItems(ctx, invoices.ItemFilter{BatchID: scope.BatchID})
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "list items")
	}

	type invoiceKey struct {
		accessKey string
		batchID   string
	}
	sums := make(map[invoiceKey]decimal.Decimal, len(headers))
	for _, item := range items {
		key := invoiceKey{accessKey: item.AccessKey, batchID: item.BatchID}
		sums[key] = sums[key].Add(item.LineTotal)
	}

	findings := []ValueMismatchFinding{}
	for _, header := range headers {
		computed := sums[invoiceKey{accessKey: header.AccessKey, batchID: header.BatchID}]
		delta := header.DeclaredTotal.Sub(computed)
		if delta.Abs().LessThanOrEqual(s.tolerance) {
			continue
		}
		findings = append(findings, ValueMismatchFinding{
			AccessKey:     header.AccessKey,
			BatchID:       header.BatchID,
			DeclaredTotal: header.DeclaredTotal,
			ComputedTotal: computed,
			Delta:         delta,
		})
	}
	return findings, nil
}

// DuplicateKeys flags access keys stored under more than one batch. A scoped
// run keeps only duplicates that touch the scoped batch, but each finding
// still lists every occurrence of the key.
func (s *service) DuplicateKeys(ctx context.Context, scope Scope) ([]DuplicateKeyFinding, error) {
	headers, err := s.repo.ListHeaders(ctx, invoices.HeaderFilter{})
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "list headers")
	}
	loads, err := s.repo.ListBatchLoads(ctx)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "list batch loads")
	}

	loadedAt := make(map[string]time.Time, len(loads))
	for _, load := range loads {
		loadedAt[load.BatchID] = load.LoadedAt
	}

	byKey := map[string][]Occurrence{}
	for _, header := range headers {
		byKey[header.AccessKey] = append(byKey[header.AccessKey], Occurrence{
			BatchID:  header.BatchID,
			LoadedAt: loadedAt[header.BatchID],
		})
	}

	keys := make([]string, 0, len(byKey))
	for key, occurrences := range byKey {
		if len(occurrences) < 2 {
			continue
		}
		keys = append(keys, key)
	}
	sort.Strings(keys)

	findings := []DuplicateKeyFinding{}
	for _, key := range keys {
		occurrences := byKey[key]
		sort.Slice(occurrences, func(i, j int) bool {
			return occurrences[i].BatchID < occurrences[j].BatchID
		})
		if scope.BatchID != "" && !touchesBatch(occurrences, scope.BatchID) {
			continue
		}
		findings = append(findings, DuplicateKeyFinding{
			AccessKey:   key,
			Occurrences: occurrences,
		})
	}
	return findings, nil
}

func touchesBatch(occurrences []Occurrence, batchID string) bool {
	for _, occ := range occurrences {
		if occ.BatchID == batchID {
			return true
		}
	}
	return false
}

// Report runs every check and bundles the findings.
func (s *service) Report(ctx context.Context, scope Scope) (*Report, error) {
	if s.logg != nil && scope.BatchID != "" {
		ctx = s.logg.WithBatchID(ctx, scope.BatchID)
	}

	mismatches, err := s.ValueMismatches(ctx, scope)
	if err != nil {
		return nil, err
	}
	duplicates, err := s.DuplicateKeys(ctx, scope)
	if err != nil {
		return nil, err
	}

	report := &Report{
		Scope:           scope,
		GeneratedAt:     time.Now().UTC(),
		ValueMismatches: mismatches,
		DuplicateKeys:   duplicates,
	}

	s.metrics.SetFindings(string(KindValueMismatch), len(mismatches))
	s.metrics.SetFindings(string(KindDuplicateKey), len(duplicates))

	if s.logg != nil {
		logCtx := s.logg.WithFields(ctx, map[string]any{
			"value_mismatches": len(mismatches),
			"duplicate_keys":   len(duplicates),
		})
		s.logg.Info(logCtx, "audit report generated")
	}
	return report, nil
}
