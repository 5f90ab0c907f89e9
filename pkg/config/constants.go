package config

// EnvPrefix namespaces every environment variable the service reads.
const EnvPrefix = "HOSTELDESK"

const (
	AppEnvDev  = "development"
	AppEnvProd = "production"
)

const (
	EnvAppEnv     = "HOSTELDESK_APP_ENV"
	EnvPort       = "HOSTELDESK_APP_PORT"
	EnvDBDSN      = "HOSTELDESK_DB_DSN"
	EnvDBHost     = "HOSTELDESK_DB_HOST"
	EnvDBUser     = "HOSTELDESK_DB_USER"
	EnvDBName     = "HOSTELDESK_DB_NAME"
	EnvRedisURL   = "HOSTELDESK_REDIS_URL"
	EnvJWTSecret  = "HOSTELDESK_JWT_SECRET"
	EnvJWTIssuer  = "HOSTELDESK_JWT_ISSUER"
	EnvJWTExpMins = "HOSTELDESK_JWT_EXPIRATION_MINUTES"
	EnvAdminCode  = "HOSTELDESK_REGISTRATION_ADMIN_CODE"
	EnvChiefCode  = "HOSTELDESK_REGISTRATION_CHIEF_ADMIN_CODE"
)

var legacyDBEnvVars = []string{EnvDBHost, EnvDBUser, EnvDBName}
