package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// InvoiceItem is one line entry of an invoice, keyed by the invoice access key
// plus its line number within the batch occurrence.
type InvoiceItem struct {
	ID          uint64          `gorm:"column:id;primaryKey;autoIncrement" json:"-"`
	AccessKey   string          `gorm:"column:access_key;size:44;not null;uniqueIndex:ux_invoice_items_key_batch_line,priority:1;index:ix_invoice_items_key" json:"access_key"`
	BatchID     string          `gorm:"column:batch_id;size:6;not null;uniqueIndex:ux_invoice_items_key_batch_line,priority:2;index:ix_invoice_items_batch" json:"batch_id"`
	LineNumber  int             `gorm:"column:line_number;not null;uniqueIndex:ux_invoice_items_key_batch_line,priority:3" json:"line_number"`
	Description string          `gorm:"column:description" json:"description"`
	NCMCode     string          `gorm:"column:ncm_code;size:10" json:"ncm_code"`
	CFOP        string          `gorm:"column:cfop;size:6" json:"cfop"`
	Unit        string          `gorm:"column:unit;size:12" json:"unit"`
	Quantity    decimal.Decimal `gorm:"column:quantity;type:numeric(14,4);not null" json:"quantity"`
	UnitValue   decimal.Decimal `gorm:"column:unit_value;type:numeric(14,4);not null" json:"unit_value"`
	LineTotal   decimal.Decimal `gorm:"column:line_total;type:numeric(14,2);not null" json:"line_total"`
	CreatedAt   time.Time       `gorm:"column:created_at;autoCreateTime" json:"created_at"`
	UpdatedAt   time.Time       `gorm:"column:updated_at;autoUpdateTime" json:"-"`
}

func (InvoiceItem) TableName() string {
	return "invoice_items"
}
