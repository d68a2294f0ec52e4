package config

import (
	"fmt"
	"net/url"
	"strings"
	"time"

	"github.com/kelseyhightower/envconfig"
	"github.com/shopspring/decimal"
)

type Config struct {
	App          AppConfig
	DB           DBConfig
	Ingest       IngestConfig
	Audit        AuditConfig
	FeatureFlags FeatureFlagsConfig
}

func Load() (*Config, error) {
	var cfg Config
	if err := envconfig.Process(EnvPrefix, &cfg); err != nil {
		return nil, fmt.Errorf("parsing config: %w", err)
	}
	if err := cfg.DB.ensureDSN(); err != nil {
		return nil, err
	}
	if _, err := cfg.Audit.Tolerance(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

type AppConfig struct {
	Env          string `envconfig:"FISCALAUDIT_APP_ENV" required:"true"`
	Port         string `envconfig:"FISCALAUDIT_APP_PORT" default:"8080"`
	LogLevel     string `envconfig:"FISCALAUDIT_LOG_LEVEL" default:"info"`
	LogWarnStack bool   `envconfig:"FISCALAUDIT_LOG_WARN_STACK" default:"false"`
}

func (a AppConfig) IsDev() bool {
	return strings.EqualFold(a.Env, AppEnvDev)
}

func (a AppConfig) IsProd() bool {
	return strings.EqualFold(a.Env, AppEnvProd)
}

type DBConfig struct {
	DSN    string `envconfig:"FISCALAUDIT_DB_DSN"`
	Driver string `envconfig:"FISCALAUDIT_DB_DRIVER" default:"postgres"`

	LegacyHost     string `envconfig:"FISCALAUDIT_DB_HOST"`
	LegacyPort     int    `envconfig:"FISCALAUDIT_DB_PORT" default:"5432"`
	LegacyUser     string `envconfig:"FISCALAUDIT_DB_USER"`
	LegacyPassword string `envconfig:"FISCALAUDIT_DB_PASSWORD"`
	LegacyName     string `envconfig:"FISCALAUDIT_DB_NAME"`
	LegacySSLMode  string `envconfig:"FISCALAUDIT_DB_SSLMODE" default:"disable"`

	MaxOpenConns    int           `envconfig:"FISCALAUDIT_DB_MAX_OPEN_CONNS" default:"20"`
	MaxIdleConns    int           `envconfig:"FISCALAUDIT_DB_MAX_IDLE_CONNS" default:"10"`
	ConnMaxLifetime time.Duration `envconfig:"FISCALAUDIT_DB_CONN_MAX_LIFETIME" default:"1h"`
	ConnMaxIdleTime time.Duration `envconfig:"FISCALAUDIT_DB_CONN_MAX_IDLE_TIME" default:"10m"`
}

// IsSQLite reports whether the embedded SQLite driver is selected instead of Postgres.
func (db DBConfig) IsSQLite() bool {
	return strings.EqualFold(db.Driver, DriverSQLite)
}

// IngestConfig controls batch parsing and normalization.
type IngestConfig struct {
	// MaxBatchBytes caps the raw content size accepted per table per load.
	MaxBatchBytes int `envconfig:"FISCALAUDIT_INGEST_MAX_BATCH_BYTES" default:"33554432"`
	// CSVDecimalComma declares the decimal separator convention of delimited
	// batches. The simulated NF-e extracts use Brazilian formatting.
	CSVDecimalComma bool `envconfig:"FISCALAUDIT_INGEST_CSV_DECIMAL_COMMA" default:"true"`
	// XMLDecimalComma declares the decimal separator convention of markup batches.
	XMLDecimalComma bool `envconfig:"FISCALAUDIT_INGEST_XML_DECIMAL_COMMA" default:"false"`
}

// AuditConfig controls the consistency checks.
type AuditConfig struct {
	// ToleranceValue is the absolute currency difference above which a header
	// is reported as a value mismatch.
	ToleranceValue string `envconfig:"FISCALAUDIT_AUDIT_TOLERANCE" default:"0.01"`
}

// Tolerance parses the configured mismatch tolerance into a fixed-precision decimal.
func (a AuditConfig) Tolerance() (decimal.Decimal, error) {
	tol, err := decimal.NewFromString(strings.TrimSpace(a.ToleranceValue))
	if err != nil {
		return decimal.Zero, fmt.Errorf("invalid audit tolerance %q: %w", a.ToleranceValue, err)
	}
	if tol.IsNegative() {
		return decimal.Zero, fmt.Errorf("audit tolerance must not be negative, got %q", a.ToleranceValue)
	}
	return tol, nil
}

type FeatureFlagsConfig struct {
	AutoMigrate bool `envconfig:"FISCALAUDIT_AUTO_MIGRATE" default:"false"`
}

func (db *DBConfig) ensureDSN() error {
	if db.IsSQLite() {
		if db.DSN == "" {
			db.DSN = "file:fiscal_audit.db?_pragma=foreign_keys(1)"
		}
		return nil
	}
	if db.DSN != "" {
		return nil
	}

	missing := []string{}
	legacyValues := map[string]string{
		EnvDBHost: db.LegacyHost,
		EnvDBUser: db.LegacyUser,
		EnvDBName: db.LegacyName,
	}
	for _, env := range legacyDBEnvVars {
		if legacyValues[env] == "" {
			missing = append(missing, env)
		}
	}

	if len(missing) > 0 {
		return fmt.Errorf("either %s or %s are required", EnvDBDSN, strings.Join(missing, ", "))
	}

	userInfo := url.User(db.LegacyUser)
	if db.LegacyPassword != "" {
		userInfo = url.UserPassword(db.LegacyUser, db.LegacyPassword)
	}

	u := &url.URL{
		Scheme: "postgres",
		User:   userInfo,
		Host:   fmt.Sprintf("%s:%d", db.LegacyHost, db.LegacyPort),
		Path:   db.LegacyName,
	}

	if db.LegacySSLMode != "" {
		q := u.Query()
		q.Set("sslmode", db.LegacySSLMode)
		u.RawQuery = q.Encode()
	}

	db.DSN = u.String()
	return nil
}
