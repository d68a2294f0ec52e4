package controllers

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ecosmart2025/fiscal-audit-backend/internal/audit"
	"github.com/ecosmart2025/fiscal-audit-backend/pkg/types"
)

func TestGetFindings(t *testing.T) {
	svc := &stubAuditService{report: &audit.Report{
		GeneratedAt: time.Date(2025, 8, 28, 12, 0, 0, 0, time.UTC),
		ValueMismatches: []audit.ValueMismatchFinding{{
			AccessKey:     "key-1",
			BatchID:       "202408",
			DeclaredTotal: decimal.RequireFromString("100.00"),
			ComputedTotal: decimal.RequireFromString("90.00"),
			Delta:         decimal.RequireFromString("10.00"),
		}},
		DuplicateKeys: []audit.DuplicateKeyFinding{},
	}}

	req := httptest.NewRequest(http.MethodGet, "/api/v1/findings?batch_id=202408", nil)
	w := httptest.NewRecorder()
	GetFindings(svc, nil)(w, req)

	require.Equal(t, http.StatusOK, w.Code)

	var envelope types.SuccessEnvelope
	require.NoError(t, json.NewDecoder(w.Body).Decode(&envelope))
	data := envelope.Data.(map[string]any)

	mismatches := data["value_mismatches"].([]any)
	require.Len(t, mismatches, 1)
	first := mismatches[0].(map[string]any)
	assert.Equal(t, "key-1", first["access_key"])
	assert.Equal(t, "10", first["delta"])

	duplicates := data["duplicate_keys"].([]any)
	assert.Empty(t, duplicates)
}

func TestGetFindings_RejectsBadBatchID(t *testing.T) {
	svc := &stubAuditService{report: &audit.Report{}}

	req := httptest.NewRequest(http.MethodGet, "/api/v1/findings?batch_id=bogus", nil)
	w := httptest.NewRecorder()
	GetFindings(svc, nil)(w, req)

	assert.Equal(t, http.StatusBadRequest, w.Code)
}
