package migrate

import (
	"os"
	"path/filepath"
	"testing"
)

func TestValidateDir_ShippedMigrations(t *testing.T) {
	if err := ValidateDir("migrations"); err != nil {
		t.Fatalf("shipped migrations failed validation: %v", err)
	}
}

func TestValidateDir_RejectsBadFilename(t *testing.T) {
	dir := t.TempDir()
	bad := filepath.Join(dir, "0001_short_version.sql")
	if err := os.WriteFile(bad, []byte("-- +goose Up\n-- +goose Down\n"), 0o644); err != nil {
		t.Fatalf("write fixture: %v", err)
	}

	if err := ValidateDir(dir); err == nil {
		t.Fatal("expected invalid filename to fail validation")
	}
}

func TestValidateDir_RequiresGooseMarkers(t *testing.T) {
	dir := t.TempDir()
	missing := filepath.Join(dir, "20250901120000_missing_down.sql")
	if err := os.WriteFile(missing, []byte("-- +goose Up\nSELECT 1;\n"), 0o644); err != nil {
		t.Fatalf("write fixture: %v", err)
	}

	if err := ValidateDir(dir); err == nil {
		t.Fatal("expected missing down marker to fail validation")
	}
}

func TestDialect(t *testing.T) {
	if got := Dialect("sqlite"); got != "sqlite3" {
		t.Fatalf("expected sqlite3, got %q", got)
	}
	if got := Dialect("postgres"); got != "postgres" {
		t.Fatalf("expected postgres, got %q", got)
	}
}
