package ingest

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"github.com/ecosmart2025/fiscal-audit-backend/pkg/db/models"
)

// Normalizer coerces raw parsed fields into typed values. It performs no I/O;
// every record it returns is already stamped with its batch id.
type Normalizer struct {
	// DecimalComma declares the decimal separator convention of the batch
	// being normalized: true means "1.234,56", false means "1,234.56".
	DecimalComma bool
}

var issueDateLayouts = []string{
	"2006-01-02 15:04:05",
	"2006-01-02T15:04:05",
	"2006-01-02",
	"02/01/2006 15:04:05",
	"02/01/2006",
}

// Header builds a normalized invoice header from a raw record.
func (n Normalizer) Header(rec RawRecord, batchID string) (models.InvoiceHeader, error) {
	accessKey := rec.Get(fieldAccessKey)
	if accessKey == "" {
		return models.InvoiceHeader{}, fmt.Errorf("missing access key")
	}
	issuerTaxID := rec.Get(fieldIssuerTaxID)
	if issuerTaxID == "" {
		return models.InvoiceHeader{}, fmt.Errorf("missing issuer tax id")
	}

	issueDate, err := n.parseDate(rec.Get(fieldIssueDate))
	if err != nil {
		return models.InvoiceHeader{}, fmt.Errorf("issue date: %w", err)
	}

	declaredTotal, err := n.parseAmount(rec.Get(fieldDeclaredTotal))
	if err != nil {
		return models.InvoiceHeader{}, fmt.Errorf("declared total: %w", err)
	}

	return models.InvoiceHeader{
		AccessKey:       accessKey,
		BatchID:         batchID,
		DocModel:        rec.Get(fieldDocModel),
		Series:          rec.Get(fieldSeries),
		Number:          rec.Get(fieldNumber),
		OperationNature: rec.Get(fieldOperationNature),
		IssueDate:       issueDate,
		IssuerTaxID:     issuerTaxID,
		IssuerName:      rec.Get(fieldIssuerName),
		IssuerState:     rec.Get(fieldIssuerState),
		RecipientTaxID:  rec.Get(fieldRecipientTaxID),
		RecipientName:   rec.Get(fieldRecipientName),
		RecipientState:  rec.Get(fieldRecipientState),
		DeclaredTotal:   declaredTotal,
	}, nil
}

// Item builds a normalized invoice item. fallbackLine is the ordinal of the
// record within its invoice, used when the source carries no line number.
func (n Normalizer) Item(rec RawRecord, batchID string, fallbackLine int) (models.InvoiceItem, error) {
	accessKey := rec.Get(fieldAccessKey)
	if accessKey == "" {
		return models.InvoiceItem{}, fmt.Errorf("missing access key")
	}

	lineNumber := fallbackLine
	if raw := rec.Get(fieldLineNumber); raw != "" {
		parsed, err := strconv.Atoi(raw)
		if err != nil || parsed <= 0 {
			return models.InvoiceItem{}, fmt.Errorf("invalid line number %q", raw)
		}
		lineNumber = parsed
	}

	quantity, err := n.parseAmount(rec.Get(fieldQuantity))
	if err != nil {
		return models.InvoiceItem{}, fmt.Errorf("quantity: %w", err)
	}
	unitValue, err := n.parseAmount(rec.Get(fieldUnitValue))
	if err != nil {
		return models.InvoiceItem{}, fmt.Errorf("unit value: %w", err)
	}
	lineTotal, err := n.parseAmount(rec.Get(fieldLineTotal))
	if err != nil {
		return models.InvoiceItem{}, fmt.Errorf("line total: %w", err)
	}

	return models.InvoiceItem{
		AccessKey:   accessKey,
		BatchID:     batchID,
		LineNumber:  lineNumber,
		Description: rec.Get(fieldDescription),
		NCMCode:     rec.Get(fieldNCMCode),
		CFOP:        rec.Get(fieldCFOP),
		Unit:        rec.Get(fieldUnit),
		Quantity:    quantity,
		UnitValue:   unitValue,
		LineTotal:   lineTotal,
	}, nil
}

// parseAmount parses a monetary or quantity field into a fixed-precision
// decimal. Binary floats never enter the pipeline; the audit step depends on
// exact decimal comparison.
//
// Separator resolution is deterministic: when both separators appear the
// rightmost one is the decimal mark and the other is grouping; a lone comma
// follows the declared batch convention; a lone dot is the decimal mark
// unless it repeats, which can only be grouping. The simulated extracts mix
// dot-decimal monetary columns with comma-decimal quantities, so the
// convention alone is not enough.
func (n Normalizer) parseAmount(raw string) (decimal.Decimal, error) {
	cleaned := strings.TrimSpace(raw)
	if cleaned == "" {
		return decimal.Zero, fmt.Errorf("empty amount")
	}

	dots := strings.Count(cleaned, ".")
	commas := strings.Count(cleaned, ",")
	switch {
	case dots > 0 && commas > 0:
		if strings.LastIndex(cleaned, ",") > strings.LastIndex(cleaned, ".") {
			cleaned = strings.ReplaceAll(cleaned, ".", "")
			cleaned = strings.ReplaceAll(cleaned, ",", ".")
		} else {
			cleaned = strings.ReplaceAll(cleaned, ",", "")
		}
	case commas == 1:
		if n.DecimalComma {
			cleaned = strings.ReplaceAll(cleaned, ",", ".")
		} else {
			cleaned = strings.ReplaceAll(cleaned, ",", "")
		}
	case commas > 1:
		cleaned = strings.ReplaceAll(cleaned, ",", "")
	case dots > 1:
		cleaned = strings.ReplaceAll(cleaned, ".", "")
	}

	value, err := decimal.NewFromString(cleaned)
	if err != nil {
		return decimal.Zero, fmt.Errorf("invalid amount %q", raw)
	}
	if value.IsNegative() {
		return decimal.Zero, fmt.Errorf("negative amount %q", raw)
	}
	return value, nil
}

func (n Normalizer) parseDate(raw string) (time.Time, error) {
	cleaned := strings.TrimSpace(raw)
	if cleaned == "" {
		return time.Time{}, fmt.Errorf("empty date")
	}
	for _, layout := range issueDateLayouts {
		if t, err := time.Parse(layout, cleaned); err == nil {
			return t, nil
		}
	}
	return time.Time{}, fmt.Errorf("invalid date %q", raw)
}
