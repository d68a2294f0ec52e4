package config

const (
	EnvPrefix = "FISCALAUDIT"

	AppEnvDev  = "development"
	AppEnvProd = "production"

	DriverPostgres = "postgres"
	DriverSQLite   = "sqlite"

	EnvAppEnv = "FISCALAUDIT_APP_ENV"
	EnvDBDSN  = "FISCALAUDIT_DB_DSN"
	EnvDBHost = "FISCALAUDIT_DB_HOST"
	EnvDBUser = "FISCALAUDIT_DB_USER"
	EnvDBName = "FISCALAUDIT_DB_NAME"
)

var legacyDBEnvVars = []string{EnvDBHost, EnvDBUser, EnvDBName}
