package validators

import (
	"net/http"
	"strconv"
	"strings"

	pkgerrors "github.com/ecosmart2025/fiscal-audit-backend/pkg/errors"
)

func ParseQueryInt(r *http.Request, key string, defaultVal, min, max int) (int, error) {
	raw := strings.TrimSpace(r.URL.Query().Get(key))
	if raw == "" {
		return defaultVal, nil
	}
	value, err := strconv.Atoi(raw)
	if err != nil {
		return 0, pkgerrors.New(pkgerrors.CodeValidation, "query parameter must be numeric").WithDetails(map[string]any{"field": key})
	}
	if value < min || value > max {
		return 0, pkgerrors.New(pkgerrors.CodeValidation, "query parameter out of range").WithDetails(map[string]any{"field": key, "min": min, "max": max})
	}
	return value, nil
}

// ParseQueryBatchID reads an optional batch_id query parameter and enforces
// the AAAAMM shape when present.
func ParseQueryBatchID(r *http.Request, valid func(string) bool) (string, error) {
	raw := strings.TrimSpace(r.URL.Query().Get("batch_id"))
	if raw == "" {
		return "", nil
	}
	if valid != nil && !valid(raw) {
		return "", pkgerrors.New(pkgerrors.CodeValidation, "batch_id must be a AAAAMM period").WithDetails(map[string]any{"field": "batch_id"})
	}
	return raw, nil
}
