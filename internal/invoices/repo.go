package invoices

import (
	"context"
	"time"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/ecosmart2025/fiscal-audit-backend/pkg/db/models"
	"github.com/ecosmart2025/fiscal-audit-backend/pkg/pagination"
)

// HeaderFilter narrows header queries. Zero values mean "no constraint".
type HeaderFilter struct {
	BatchID   string
	AccessKey string
	Page      pagination.Params
}

// ItemFilter narrows item queries.
type ItemFilter struct {
	BatchID   string
	AccessKey string
	Page      pagination.Params
}

// BatchSummary aggregates one batch for the read-only reporting surface.
type BatchSummary struct {
	BatchID       string          `json:"batch_id"`
	InvoiceCount  int64           `json:"invoice_count"`
	DeclaredTotal decimal.Decimal `json:"declared_total"`
}

// Repository manages persistence for invoice headers, items and batch loads.
// All list methods order by natural key so repeated reads over unchanged
// state return identical sequences.
type Repository interface {
	WithTx(tx *gorm.DB) Repository

	ReplaceBatchHeaders(ctx context.Context, batchID string, headers []models.InvoiceHeader) error
	ReplaceBatchItems(ctx context.Context, batchID string, items []models.InvoiceItem) error
	RegisterBatchLoad(ctx context.Context, load *models.BatchLoad) error

	ListHeaders(ctx context.Context, filter HeaderFilter) ([]models.InvoiceHeader, error)
	ListItems(ctx context.Context, filter ItemFilter) ([]models.InvoiceItem, error)
	ListBatchLoads(ctx context.Context) ([]models.BatchLoad, error)
	BatchSummaries(ctx context.Context) ([]BatchSummary, error)
}

type repository struct {
	db *gorm.DB
}

// NewRepository returns an invoice repository bound to the provided database.
func NewRepository(db *gorm.DB) Repository {
	return &repository{db: db}
}

func (r *repository) WithTx(tx *gorm.DB) Repository {
	if tx == nil {
		return r
	}
	return &repository{db: tx}
}

// ReplaceBatchHeaders swaps every header of the batch for the provided set.
// Replace semantics keyed by batch keep a reload idempotent while leaving
// other batches untouched, including ones that reuse an access key.
func (r *repository) ReplaceBatchHeaders(ctx context.Context, batchID string, headers []models.InvoiceHeader) error {
	if err := r.db.WithContext(ctx).
		Where("batch_id = ?", batchID).
		Delete(&models.InvoiceHeader{}).Error; err != nil {
		return err
	}
	if len(headers) == 0 {
		return nil
	}
	return r.db.WithContext(ctx).Create(&headers).Error
}

func (r *repository) ReplaceBatchItems(ctx context.Context, batchID string, items []models.InvoiceItem) error {
	if err := r.db.WithContext(ctx).
		Where("batch_id = ?", batchID).
		Delete(&models.InvoiceItem{}).Error; err != nil {
		return err
	}
	if len(items) == 0 {
		return nil
	}
	return r.db.WithContext(ctx).Create(&items).Error
}

// RegisterBatchLoad records the load, replacing any earlier registration of
// the same batch so LoadedAt tracks the winning load.
func (r *repository) RegisterBatchLoad(ctx context.Context, load *models.BatchLoad) error {
	if load.LoadedAt.IsZero() {
		load.LoadedAt = time.Now().UTC()
	}
	if err := r.db.WithContext(ctx).
		Where("batch_id = ?", load.BatchID).
		Delete(&models.BatchLoad{}).Error; err != nil {
		return err
	}
	return r.db.WithContext(ctx).Create(load).Error
}

func (r *repository) ListHeaders(ctx context.Context, filter HeaderFilter) ([]models.InvoiceHeader, error) {
	query := r.db.WithContext(ctx).Model(&models.InvoiceHeader{})
	if filter.BatchID != "" {
		query = query.Where("batch_id = ?", filter.BatchID)
	}
	if filter.AccessKey != "" {
		query = query.Where("access_key = ?", filter.AccessKey)
	}
	if filter.Page.Limit > 0 || filter.Page.Offset > 0 {
		page := pagination.Normalize(filter.Page)
		query = query.Limit(page.Limit).Offset(page.Offset)
	}

	var headers []models.InvoiceHeader
	if err := query.
		Order("access_key ASC").
		Order("batch_id ASC").
		Find(&headers).Error; err != nil {
		return nil, err
	}
	return headers, nil
}

func (r *repository) ListItems(ctx context.Context, filter ItemFilter) ([]models.InvoiceItem, error) {
	query := r.db.WithContext(ctx).Model(&models.InvoiceItem{})
	if filter.BatchID != "" {
		query = query.Where("batch_id = ?", filter.BatchID)
	}
	if filter.AccessKey != "" {
		query = query.Where("access_key = ?", filter.AccessKey)
	}
	if filter.Page.Limit > 0 || filter.Page.Offset > 0 {
		page := pagination.Normalize(filter.Page)
		query = query.Limit(page.Limit).Offset(page.Offset)
	}

	var items []models.InvoiceItem
	if err := query.
		Order("access_key ASC").
		Order("batch_id ASC").
		Order("line_number ASC").
		Find(&items).Error; err != nil {
		return nil, err
	}
	return items, nil
}

func (r *repository) ListBatchLoads(ctx context.Context) ([]models.BatchLoad, error) {
	var loads []models.BatchLoad
	if err := r.db.WithContext(ctx).
		Order("batch_id ASC").
		Find(&loads).Error; err != nil {
		return nil, err
	}
	return loads, nil
}

func (r *repository) BatchSummaries(ctx context.Context) ([]BatchSummary, error) {
	var summaries []BatchSummary
	if err := r.db.WithContext(ctx).
		Model(&models.InvoiceHeader{}).
		Select("batch_id, COUNT(*) AS invoice_count, SUM(declared_total) AS declared_total").
		Group("batch_id").
		Order("batch_id ASC").
		Scan(&summaries).Error; err != nil {
		return nil, err
	}
	return summaries, nil
}
