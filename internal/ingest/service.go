package ingest

import (
	"context"
	"fmt"
	"regexp"
	"sync"
	"time"

	"gorm.io/gorm"

	"github.com/ecosmart2025/fiscal-audit-backend/internal/invoices"
	"github.com/ecosmart2025/fiscal-audit-backend/pkg/config"
	"github.com/ecosmart2025/fiscal-audit-backend/pkg/db"
	"github.com/ecosmart2025/fiscal-audit-backend/pkg/db/models"
	pkgerrors "github.com/ecosmart2025/fiscal-audit-backend/pkg/errors"
	"github.com/ecosmart2025/fiscal-audit-backend/pkg/logger"
	"github.com/ecosmart2025/fiscal-audit-backend/pkg/metrics"
)

var batchIDRe = regexp.MustCompile(`^\d{4}(0[1-9]|1[0-2])$`)

// ValidBatchID reports whether the value is a well-formed AAAAMM period tag.
func ValidBatchID(batchID string) bool {
	return batchIDRe.MatchString(batchID)
}

// LoadBatchInput carries one raw batch: the header table and the item table
// of a reference period, both in the declared format.
type LoadBatchInput struct {
	BatchID string
	Format  Format
	Headers []byte
	Items   []byte
}

// Service runs the load pipeline: parse, normalize, persist.
type Service interface {
	LoadBatch(ctx context.Context, input LoadBatchInput) (*LoadResult, error)
}

type ServiceParams struct {
	Client  *db.Client
	Repo    invoices.Repository
	Config  config.IngestConfig
	Logger  *logger.Logger
	Metrics *metrics.IngestMetrics
}

type service struct {
	client  *db.Client
	repo    invoices.Repository
	cfg     config.IngestConfig
	logg    *logger.Logger
	metrics *metrics.IngestMetrics

	mu    sync.Mutex
	locks map[string]*sync.Mutex
}

// NewService wires the ingest service.
func NewService(params ServiceParams) (Service, error) {
	if params.Client == nil {
		return nil, fmt.Errorf("db client required")
	}
	if params.Repo == nil {
		return nil, fmt.Errorf("invoices repository required")
	}
	return &service{
		client:  params.Client,
		repo:    params.Repo,
		cfg:     params.Config,
		logg:    params.Logger,
		metrics: params.Metrics,
		locks:   map[string]*sync.Mutex{},
	}, nil
}

// batchLock serializes loads of the same batch id. Loads of distinct batches
// may run concurrently; each commits or fails as one transaction.
func (s *service) batchLock(batchID string) *sync.Mutex {
	s.mu.Lock()
	defer s.mu.Unlock()
	if lock, ok := s.locks[batchID]; ok {
		return lock
	}
	lock := &sync.Mutex{}
	s.locks[batchID] = lock
	return lock
}

func (s *service) LoadBatch(ctx context.Context, input LoadBatchInput) (*LoadResult, error) {
	if !ValidBatchID(input.BatchID) {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "batch id must be a AAAAMM period").
			WithDetails(map[string]any{"batch_id": input.BatchID})
	}
	if input.Format != FormatCSV && input.Format != FormatXML {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, fmt.Sprintf("unsupported batch format %q", input.Format))
	}
	if max := s.cfg.MaxBatchBytes; max > 0 && (len(input.Headers) > max || len(input.Items) > max) {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "batch content exceeds size limit").
			WithDetails(map[string]any{"max_bytes": max})
	}

	lock := s.batchLock(input.BatchID)
	lock.Lock()
	defer lock.Unlock()

	start := time.Now()
	if s.logg != nil {
		ctx = s.logg.WithBatchID(ctx, input.BatchID)
	}

	result := &LoadResult{
		BatchID: input.BatchID,
		Format:  input.Format,
		Skipped: []RecordIssue{},
		Errors:  []RecordIssue{},
	}

	normalizer := Normalizer{DecimalComma: s.decimalComma(input.Format)}

	headers := s.collectHeaders(input, normalizer, result)
	items := s.collectItems(input, normalizer, result)

	load := &models.BatchLoad{
		BatchID:      input.BatchID,
		Format:       string(input.Format),
		HeaderCount:  len(headers),
		ItemCount:    len(items),
		SkippedCount: len(result.Skipped),
		ErrorCount:   len(result.Errors),
		LoadedAt:     time.Now().UTC(),
	}

	err := s.client.WithTx(ctx, func(tx *gorm.DB) error {
		txRepo := s.repo.WithTx(tx)
		if err := txRepo.ReplaceBatchHeaders(ctx, input.BatchID, headers); err != nil {
			return fmt.Errorf("replace headers: %w", err)
		}
		if err := txRepo.ReplaceBatchItems(ctx, input.BatchID, items); err != nil {
			return fmt.Errorf("replace items: %w", err)
		}
		if err := txRepo.RegisterBatchLoad(ctx, load); err != nil {
			return fmt.Errorf("register load: %w", err)
		}
		return nil
	})
	if err != nil {
		if db.IsUniqueViolation(err, "") {
			return nil, pkgerrors.Wrap(pkgerrors.CodeConflict, err, fmt.Sprintf("batch %s collided with a concurrent load", input.BatchID))
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, fmt.Sprintf("upsert batch %s", input.BatchID))
	}

	result.AcceptedHeaders = len(headers)
	result.AcceptedItems = len(items)

	s.metrics.ObserveLoadDuration(string(input.Format), time.Since(start))
	s.metrics.AddAccepted(string(TableHeaders), len(headers))
	s.metrics.AddAccepted(string(TableItems), len(items))
	s.metrics.AddRejected(string(StageParse), len(result.Skipped))
	s.metrics.AddRejected(string(StageNormalize), len(result.Errors))

	if s.logg != nil {
		logCtx := s.logg.WithFields(ctx, map[string]any{
			"headers": len(headers),
			"items":   len(items),
			"skipped": len(result.Skipped),
			"errors":  len(result.Errors),
		})
		s.logg.Info(logCtx, "batch load committed")
	}

	return result, nil
}

func (s *service) decimalComma(format Format) bool {
	if format == FormatXML {
		return s.cfg.XMLDecimalComma
	}
	return s.cfg.CSVDecimalComma
}

// collectHeaders parses and normalizes the header table. When the same access
// key repeats inside one batch the later record supersedes the earlier one.
func (s *service) collectHeaders(input LoadBatchInput, normalizer Normalizer, result *LoadResult) []models.InvoiceHeader {
	records, parseIssues := Parse(input.Format, TableHeaders, input.Headers)
	result.Skipped = append(result.Skipped, parseIssues...)

	byKey := map[string]int{}
	var headers []models.InvoiceHeader
	for _, rec := range records {
		header, err := normalizer.Header(rec, input.BatchID)
		if err != nil {
			result.Errors = append(result.Errors, RecordIssue{
				Table:     TableHeaders,
				Stage:     StageNormalize,
				Line:      rec.Line,
				AccessKey: rec.Get(fieldAccessKey),
				Reason:    err.Error(),
			})
			continue
		}
		if idx, ok := byKey[header.AccessKey]; ok {
			result.Skipped = append(result.Skipped, RecordIssue{
				Table:     TableHeaders,
				Stage:     StageNormalize,
				Line:      rec.Line,
				AccessKey: header.AccessKey,
				Reason:    "superseded an earlier record with the same access key",
			})
			headers[idx] = header
			continue
		}
		byKey[header.AccessKey] = len(headers)
		headers = append(headers, header)
	}
	return headers
}

func (s *service) collectItems(input LoadBatchInput, normalizer Normalizer, result *LoadResult) []models.InvoiceItem {
	records, parseIssues := Parse(input.Format, TableItems, input.Items)
	result.Skipped = append(result.Skipped, parseIssues...)

	type itemKey struct {
		accessKey string
		line      int
	}
	ordinals := map[string]int{}
	byKey := map[itemKey]int{}
	var items []models.InvoiceItem
	for _, rec := range records {
		accessKey := rec.Get(fieldAccessKey)
		ordinals[accessKey]++
		item, err := normalizer.Item(rec, input.BatchID, ordinals[accessKey])
		if err != nil {
			result.Errors = append(result.Errors, RecordIssue{
				Table:     TableItems,
				Stage:     StageNormalize,
				Line:      rec.Line,
				AccessKey: accessKey,
				Reason:    err.Error(),
			})
			continue
		}
		key := itemKey{accessKey: item.AccessKey, line: item.LineNumber}
		if idx, ok := byKey[key]; ok {
			result.Skipped = append(result.Skipped, RecordIssue{
				Table:     TableItems,
				Stage:     StageNormalize,
				Line:      rec.Line,
				AccessKey: item.AccessKey,
				Reason:    fmt.Sprintf("superseded an earlier record for line %d", item.LineNumber),
			})
			items[idx] = item
			continue
		}
		byKey[key] = len(items)
		items = append(items, item)
	}
	return items
}
