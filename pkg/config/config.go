package config

import (
	"fmt"
	"net/url"
	"strings"
	"time"

	"github.com/kelseyhightower/envconfig"
)

type Config struct {
	App           AppConfig
	Service       ServiceConfig
	DB            DBConfig
	Redis         RedisConfig
	JWT           JWTConfig
	Password      PasswordConfig
	AuthRateLimit AuthRateLimitConfig
	Registration  RegistrationConfig
	SLA           SLAConfig
	SMTP          SMTPConfig
	Media         MediaConfig
	Cron          CronConfig
	FeatureFlags  FeatureFlagsConfig
}

func Load() (*Config, error) {
	var cfg Config
	if err := envconfig.Process(EnvPrefix, &cfg); err != nil {
		return nil, fmt.Errorf("parsing config: %w", err)
	}
	if err := cfg.DB.ensureDSN(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

type AppConfig struct {
	Env          string `envconfig:"HOSTELDESK_APP_ENV" required:"true"`
	Port         string `envconfig:"HOSTELDESK_APP_PORT" required:"true"`
	LogLevel     string `envconfig:"HOSTELDESK_LOG_LEVEL" default:"info"`
	LogWarnStack bool   `envconfig:"HOSTELDESK_LOG_WARN_STACK" default:"false"`
}

func (a AppConfig) IsDev() bool {
	return strings.EqualFold(a.Env, AppEnvDev)
}

func (a AppConfig) IsProd() bool {
	return strings.EqualFold(a.Env, AppEnvProd)
}

type ServiceConfig struct {
	Kind string `envconfig:"HOSTELDESK_SERVICE_KIND" default:"api"`
}

type DBConfig struct {
	DSN    string `envconfig:"HOSTELDESK_DB_DSN"`
	Driver string `envconfig:"HOSTELDESK_DB_DRIVER" default:"postgres"`

	LegacyHost     string `envconfig:"HOSTELDESK_DB_HOST"`
	LegacyPort     int    `envconfig:"HOSTELDESK_DB_PORT" default:"5432"`
	LegacyUser     string `envconfig:"HOSTELDESK_DB_USER"`
	LegacyPassword string `envconfig:"HOSTELDESK_DB_PASSWORD"`
	LegacyName     string `envconfig:"HOSTELDESK_DB_NAME"`
	LegacySSLMode  string `envconfig:"HOSTELDESK_DB_SSLMODE" default:"disable"`

	MaxOpenConns    int           `envconfig:"HOSTELDESK_DB_MAX_OPEN_CONNS" default:"20"`
	MaxIdleConns    int           `envconfig:"HOSTELDESK_DB_MAX_IDLE_CONNS" default:"10"`
	ConnMaxLifetime time.Duration `envconfig:"HOSTELDESK_DB_CONN_MAX_LIFETIME" default:"1h"`
	ConnMaxIdleTime time.Duration `envconfig:"HOSTELDESK_DB_CONN_MAX_IDLE_TIME" default:"10m"`
}

type RedisConfig struct {
	URL          string        `envconfig:"HOSTELDESK_REDIS_URL" required:"true"`
	Address      string        `envconfig:"HOSTELDESK_REDIS_ADDR"`
	Password     string        `envconfig:"HOSTELDESK_REDIS_PASSWORD"`
	DB           int           `envconfig:"HOSTELDESK_REDIS_DB" default:"0"`
	PoolSize     int           `envconfig:"HOSTELDESK_REDIS_POOL_SIZE" default:"10"`
	MinIdleConns int           `envconfig:"HOSTELDESK_REDIS_MIN_IDLE_CONNS" default:"2"`
	DialTimeout  time.Duration `envconfig:"HOSTELDESK_REDIS_DIAL_TIMEOUT" default:"5s"`
	ReadTimeout  time.Duration `envconfig:"HOSTELDESK_REDIS_READ_TIMEOUT" default:"5s"`
	WriteTimeout time.Duration `envconfig:"HOSTELDESK_REDIS_WRITE_TIMEOUT" default:"5s"`
}

type JWTConfig struct {
	Secret            string `envconfig:"HOSTELDESK_JWT_SECRET" required:"true"`
	Issuer            string `envconfig:"HOSTELDESK_JWT_ISSUER" required:"true"`
	ExpirationMinutes int    `envconfig:"HOSTELDESK_JWT_EXPIRATION_MINUTES" required:"true"`
}

type PasswordConfig struct {
	ArgonMemoryKB    int `envconfig:"HOSTELDESK_ARGON_MEMORY_KB" default:"65536"`
	ArgonTime        int `envconfig:"HOSTELDESK_ARGON_TIME" default:"3"`
	ArgonParallelism int `envconfig:"HOSTELDESK_ARGON_PARALLELISM" default:"2"`
	ArgonSaltLen     int `envconfig:"HOSTELDESK_ARGON_SALT_LEN" default:"16"`
	ArgonKeyLen      int `envconfig:"HOSTELDESK_ARGON_KEY_LEN" default:"32"`
}

type AuthRateLimitConfig struct {
	LoginWindow        time.Duration `envconfig:"HOSTELDESK_AUTH_RATE_LIMIT_LOGIN_WINDOW" default:"1m"`
	LoginEmailLimit    int           `envconfig:"HOSTELDESK_AUTH_RATE_LIMIT_LOGIN_EMAIL_LIMIT" default:"5"`
	LoginIPLimit       int           `envconfig:"HOSTELDESK_AUTH_RATE_LIMIT_LOGIN_IP_LIMIT" default:"20"`
	RegisterWindow     time.Duration `envconfig:"HOSTELDESK_AUTH_RATE_LIMIT_REGISTER_WINDOW" default:"5m"`
	RegisterEmailLimit int           `envconfig:"HOSTELDESK_AUTH_RATE_LIMIT_REGISTER_EMAIL_LIMIT" default:"3"`
	RegisterIPLimit    int           `envconfig:"HOSTELDESK_AUTH_RATE_LIMIT_REGISTER_IP_LIMIT" default:"20"`
}

// RegistrationConfig carries the secrets and limits consulted when a new
// account resolves its role.
type RegistrationConfig struct {
	AllowedEmailDomain string `envconfig:"HOSTELDESK_REGISTRATION_EMAIL_DOMAIN" default:"mnnit.ac.in"`
	AdminCode          string `envconfig:"HOSTELDESK_REGISTRATION_ADMIN_CODE" required:"true"`
	ChiefAdminCode     string `envconfig:"HOSTELDESK_REGISTRATION_CHIEF_ADMIN_CODE" required:"true"`
	MaxAdminsPerHostel int    `envconfig:"HOSTELDESK_REGISTRATION_MAX_ADMINS_PER_HOSTEL" default:"3"`
}

type SLAConfig struct {
	DefaultHours int `envconfig:"HOSTELDESK_SLA_DEFAULT_HOURS" default:"24"`
}

type SMTPConfig struct {
	Host     string `envconfig:"HOSTELDESK_SMTP_HOST"`
	Port     int    `envconfig:"HOSTELDESK_SMTP_PORT" default:"587"`
	Username string `envconfig:"HOSTELDESK_SMTP_USERNAME"`
	Password string `envconfig:"HOSTELDESK_SMTP_PASSWORD"`
	From     string `envconfig:"HOSTELDESK_SMTP_FROM"`
}

// Enabled reports whether outbound email is configured at all.
func (s SMTPConfig) Enabled() bool {
	return s.Host != "" && s.From != ""
}

type MediaConfig struct {
	Endpoint        string `envconfig:"HOSTELDESK_MEDIA_ENDPOINT"`
	AccessKeyID     string `envconfig:"HOSTELDESK_MEDIA_ACCESS_KEY"`
	SecretAccessKey string `envconfig:"HOSTELDESK_MEDIA_SECRET_KEY"`
	Bucket          string `envconfig:"HOSTELDESK_MEDIA_BUCKET" default:"complaints"`
	UseSSL          bool   `envconfig:"HOSTELDESK_MEDIA_USE_SSL" default:"true"`
	PublicBaseURL   string `envconfig:"HOSTELDESK_MEDIA_PUBLIC_BASE_URL"`
	MaxUploadMB     int    `envconfig:"HOSTELDESK_MEDIA_MAX_UPLOAD_MB" default:"10"`
}

type CronConfig struct {
	Interval              time.Duration `envconfig:"HOSTELDESK_CRON_INTERVAL" default:"24h"`
	NotificationRetention time.Duration `envconfig:"HOSTELDESK_CRON_NOTIFICATION_RETENTION" default:"720h"`
}

type FeatureFlagsConfig struct {
	UseSQLite   bool `envconfig:"HOSTELDESK_USE_SQLITE" default:"false"`
	AutoMigrate bool `envconfig:"HOSTELDESK_AUTO_MIGRATE" default:"false"`
}

func (db *DBConfig) ensureDSN() error {
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
