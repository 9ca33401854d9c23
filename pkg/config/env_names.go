package config

// EnvPrefix is the envconfig prefix; individual fields carry explicit names.
const EnvPrefix = "voltio"

const (
	AppEnvDev  = "dev"
	AppEnvProd = "prod"
)

const (
	EnvDBDSN  = "VOLTIO_DB_DSN"
	EnvDBHost = "VOLTIO_DB_HOST"
	EnvDBUser = "VOLTIO_DB_USER"
	EnvDBName = "VOLTIO_DB_NAME"
)

var legacyDBEnvVars = []string{EnvDBHost, EnvDBUser, EnvDBName}
