package config

// EnvPrefix is the envconfig prefix shared by all settings.
const EnvPrefix = "EZZSHOP"

const (
	AppEnvDev  = "dev"
	AppEnvProd = "prod"
)

const (
	EnvAppEnv     = "EZZSHOP_APP_ENV"
	EnvPort       = "EZZSHOP_APP_PORT"
	EnvDBDSN      = "EZZSHOP_DB_DSN"
	EnvDBHost     = "EZZSHOP_DB_HOST"
	EnvDBUser     = "EZZSHOP_DB_USER"
	EnvDBName     = "EZZSHOP_DB_NAME"
	EnvRedisURL   = "EZZSHOP_REDIS_URL"
	EnvJWTSecret  = "EZZSHOP_JWT_SECRET"
	EnvJWTIssuer  = "EZZSHOP_JWT_ISSUER"
	EnvJWTExpMins = "EZZSHOP_JWT_EXPIRATION_MINUTES"
)

var requiredDBEnvVars = []string{EnvDBHost, EnvDBUser, EnvDBName}
