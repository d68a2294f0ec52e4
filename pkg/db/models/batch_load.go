package models

import "time"

// BatchLoad registers one completed load of a reference period. Reloading the
// same batch replaces the row, so LoadedAt always reflects the load that
// produced the rows currently stored for that batch.
type BatchLoad struct {
	ID           uint64    `gorm:"column:id;primaryKey;autoIncrement" json:"-"`
	BatchID      string    `gorm:"column:batch_id;size:6;not null;uniqueIndex:ux_batch_loads_batch" json:"batch_id"`
	Format       string    `gorm:"column:format;size:8;not null" json:"format"`
	HeaderCount  int       `gorm:"column:header_count;not null" json:"header_count"`
	ItemCount    int       `gorm:"column:item_count;not null" json:"item_count"`
	SkippedCount int       `gorm:"column:skipped_count;not null" json:"skipped_count"`
	ErrorCount   int       `gorm:"column:error_count;not null" json:"error_count"`
	LoadedAt     time.Time `gorm:"column:loaded_at;not null" json:"loaded_at"`
}

func (BatchLoad) TableName() string {
	return "batch_loads"
}
