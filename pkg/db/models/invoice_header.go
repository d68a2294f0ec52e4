package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// InvoiceHeader is the normalized summary record of one fiscal document
// occurrence. The same access key may legitimately appear in multiple batches;
// that condition is what the duplicate-key audit reports, so the natural key
// here is (access_key, batch_id), never access_key alone.
type InvoiceHeader struct {
	ID              uint64          `gorm:"column:id;primaryKey;autoIncrement" json:"-"`
	AccessKey       string          `gorm:"column:access_key;size:44;not null;uniqueIndex:ux_invoice_headers_key_batch,priority:1;index:ix_invoice_headers_key" json:"access_key"`
	BatchID         string          `gorm:"column:batch_id;size:6;not null;uniqueIndex:ux_invoice_headers_key_batch,priority:2;index:ix_invoice_headers_batch" json:"batch_id"`
	DocModel        string          `gorm:"column:doc_model;size:8" json:"doc_model"`
	Series          string          `gorm:"column:series;size:8" json:"series"`
	Number          string          `gorm:"column:number;size:16" json:"number"`
	OperationNature string          `gorm:"column:operation_nature" json:"operation_nature"`
	IssueDate       time.Time       `gorm:"column:issue_date;not null" json:"issue_date"`
	IssuerTaxID     string          `gorm:"column:issuer_tax_id;size:14;not null" json:"issuer_tax_id"`
	IssuerName      string          `gorm:"column:issuer_name" json:"issuer_name"`
	IssuerState     string          `gorm:"column:issuer_state;size:2" json:"issuer_state"`
	RecipientTaxID  string          `gorm:"column:recipient_tax_id;size:14" json:"recipient_tax_id"`
	RecipientName   string          `gorm:"column:recipient_name" json:"recipient_name"`
	RecipientState  string          `gorm:"column:recipient_state;size:2" json:"recipient_state"`
	DeclaredTotal   decimal.Decimal `gorm:"column:declared_total;type:numeric(14,2);not null" json:"declared_total"`
	CreatedAt       time.Time       `gorm:"column:created_at;autoCreateTime" json:"created_at"`
	UpdatedAt       time.Time       `gorm:"column:updated_at;autoUpdateTime" json:"-"`
}

func (InvoiceHeader) TableName() string {
	return "invoice_headers"
}
