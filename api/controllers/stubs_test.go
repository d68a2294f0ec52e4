package controllers

import (
	"context"

	"gorm.io/gorm"

	"github.com/ecosmart2025/fiscal-audit-backend/internal/audit"
	"github.com/ecosmart2025/fiscal-audit-backend/internal/ingest"
	"github.com/ecosmart2025/fiscal-audit-backend/internal/invoices"
	"github.com/ecosmart2025/fiscal-audit-backend/pkg/db/models"
)

type stubIngestService struct {
	lastInput ingest.LoadBatchInput
	result    *ingest.LoadResult
	err       error
}

func (s *stubIngestService) LoadBatch(_ context.Context, input ingest.LoadBatchInput) (*ingest.LoadResult, error) {
	s.lastInput = input
	if s.err != nil {
		return nil, s.err
	}
	if s.result != nil {
		return s.result, nil
	}
	return &ingest.LoadResult{
		BatchID: input.BatchID,
		Format:  input.Format,
		Skipped: []ingest.RecordIssue{},
		Errors:  []ingest.RecordIssue{},
	}, nil
}

type stubAuditService struct {
	report *audit.Report
	err    error
}

func (s *stubAuditService) ValueMismatches(context.Context, audit.Scope) ([]audit.ValueMismatchFinding, error) {
	return s.report.ValueMismatches, s.err
}

func (s *stubAuditService) DuplicateKeys(context.Context, audit.Scope) ([]audit.DuplicateKeyFinding, error) {
	return s.report.DuplicateKeys, s.err
}

func (s *stubAuditService) Report(_ context.Context, scope audit.Scope) (*audit.Report, error) {
	if s.err != nil {
		return nil, s.err
	}
	report := *s.report
	report.Scope = scope
	return &report, nil
}

type stubInvoicesRepo struct {
	headers   []models.InvoiceHeader
	items     []models.InvoiceItem
	loads     []models.BatchLoad
	summaries []invoices.BatchSummary
	err       error

	lastHeaderFilter invoices.HeaderFilter
	lastItemFilter   invoices.ItemFilter
}

func (s *stubInvoicesRepo) WithTx(*gorm.DB) invoices.Repository { return s }

func (s *stubInvoicesRepo) ReplaceBatchHeaders(context.Context, string, []models.InvoiceHeader) error {
	return s.err
}

func (s *stubInvoicesRepo) ReplaceBatchItems(context.Context, string, []models.InvoiceItem) error {
	return s.err
}

func (s *stubInvoicesRepo) RegisterBatchLoad(context.Context, *models.BatchLoad) error {
	return s.err
}

func (s *stubInvoicesRepo) ListHeaders(_ context.Context, filter invoices.HeaderFilter) ([]models.InvoiceHeader, error) {
	s.lastHeaderFilter = filter
	return s.headers, s.err
}

func (s *stubInvoicesRepo) ListItems(_ context.Context, filter invoices.ItemFilter) ([]models.InvoiceItem, error) {
	s.lastItemFilter = filter
	return s.items, s.err
}

func (s *stubInvoicesRepo) ListBatchLoads(context.Context) ([]models.BatchLoad, error) {
	return s.loads, s.err
}

func (s *stubInvoicesRepo) BatchSummaries(context.Context) ([]invoices.BatchSummary, error) {
	return s.summaries, s.err
}
