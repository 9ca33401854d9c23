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
	DB            DBConfig
	Redis         RedisConfig
	JWT           JWTConfig
	Password      PasswordConfig
	AuthRateLimit AuthRateLimitConfig
	FeatureFlags  FeatureFlagsConfig
	Catalog       CatalogConfig
	GCP           GCPConfig
	PubSub        PubSubConfig
	Outbox        OutboxConfig
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
	Env          string `envconfig:"VOLTIO_APP_ENV" required:"true"`
	Port         string `envconfig:"VOLTIO_APP_PORT" required:"true"`
	LogLevel     string `envconfig:"VOLTIO_LOG_LEVEL" default:"info"`
	LogWarnStack bool   `envconfig:"VOLTIO_LOG_WARN_STACK" default:"false"`
}

func (a AppConfig) IsDev() bool {
	return strings.EqualFold(a.Env, AppEnvDev)
}

func (a AppConfig) IsProd() bool {
	return strings.EqualFold(a.Env, AppEnvProd)
}

type DBConfig struct {
	DSN    string `envconfig:"VOLTIO_DB_DSN"`
	Driver string `envconfig:"VOLTIO_DB_DRIVER" default:"postgres"`

	LegacyHost     string `envconfig:"VOLTIO_DB_HOST"`
	LegacyPort     int    `envconfig:"VOLTIO_DB_PORT" default:"5432"`
	LegacyUser     string `envconfig:"VOLTIO_DB_USER"`
	LegacyPassword string `envconfig:"VOLTIO_DB_PASSWORD"`
	LegacyName     string `envconfig:"VOLTIO_DB_NAME"`
	LegacySSLMode  string `envconfig:"VOLTIO_DB_SSLMODE" default:"disable"`

	MaxOpenConns    int           `envconfig:"VOLTIO_DB_MAX_OPEN_CONNS" default:"20"`
	MaxIdleConns    int           `envconfig:"VOLTIO_DB_MAX_IDLE_CONNS" default:"10"`
	ConnMaxLifetime time.Duration `envconfig:"VOLTIO_DB_CONN_MAX_LIFETIME" default:"1h"`
	ConnMaxIdleTime time.Duration `envconfig:"VOLTIO_DB_CONN_MAX_IDLE_TIME" default:"10m"`
}

type RedisConfig struct {
	URL          string        `envconfig:"VOLTIO_REDIS_URL" required:"true"`
	Address      string        `envconfig:"VOLTIO_REDIS_ADDR"`
	Password     string        `envconfig:"VOLTIO_REDIS_PASSWORD"`
	DB           int           `envconfig:"VOLTIO_REDIS_DB" default:"0"`
	PoolSize     int           `envconfig:"VOLTIO_REDIS_POOL_SIZE" default:"10"`
	MinIdleConns int           `envconfig:"VOLTIO_REDIS_MIN_IDLE_CONNS" default:"2"`
	DialTimeout  time.Duration `envconfig:"VOLTIO_REDIS_DIAL_TIMEOUT" default:"5s"`
	ReadTimeout  time.Duration `envconfig:"VOLTIO_REDIS_READ_TIMEOUT" default:"5s"`
	WriteTimeout time.Duration `envconfig:"VOLTIO_REDIS_WRITE_TIMEOUT" default:"5s"`
}

type JWTConfig struct {
	Secret                 string `envconfig:"VOLTIO_JWT_SECRET" required:"true"`
	Issuer                 string `envconfig:"VOLTIO_JWT_ISSUER" required:"true"`
	ExpirationMinutes      int    `envconfig:"VOLTIO_JWT_EXPIRATION_MINUTES" required:"true"`
	RefreshTokenTTLMinutes int    `envconfig:"VOLTIO_REFRESH_TOKEN_TTL_MINUTES" default:"43200"`
}

// RefreshTokenTTL returns the refresh token TTL configured in minutes.
func (j JWTConfig) RefreshTokenTTL() time.Duration {
	if j.RefreshTokenTTLMinutes <= 0 {
		return 0
	}
	return time.Duration(j.RefreshTokenTTLMinutes) * time.Minute
}

type PasswordConfig struct {
	ArgonMemoryKB    int `envconfig:"VOLTIO_ARGON_MEMORY_KB" default:"65536"`
	ArgonTime        int `envconfig:"VOLTIO_ARGON_TIME" default:"3"`
	ArgonParallelism int `envconfig:"VOLTIO_ARGON_PARALLELISM" default:"2"`
	ArgonSaltLen     int `envconfig:"VOLTIO_ARGON_SALT_LEN" default:"16"`
	ArgonKeyLen      int `envconfig:"VOLTIO_ARGON_KEY_LEN" default:"32"`
}

type AuthRateLimitConfig struct {
	LoginWindow        time.Duration `envconfig:"VOLTIO_AUTH_RATE_LIMIT_LOGIN_WINDOW" default:"1m"`
	LoginEmailLimit    int           `envconfig:"VOLTIO_AUTH_RATE_LIMIT_LOGIN_EMAIL_LIMIT" default:"5"`
	LoginIPLimit       int           `envconfig:"VOLTIO_AUTH_RATE_LIMIT_LOGIN_IP_LIMIT" default:"20"`
	RegisterWindow     time.Duration `envconfig:"VOLTIO_AUTH_RATE_LIMIT_REGISTER_WINDOW" default:"5m"`
	RegisterEmailLimit int           `envconfig:"VOLTIO_AUTH_RATE_LIMIT_REGISTER_EMAIL_LIMIT" default:"3"`
	RegisterIPLimit    int           `envconfig:"VOLTIO_AUTH_RATE_LIMIT_REGISTER_IP_LIMIT" default:"20"`
}

type FeatureFlagsConfig struct {
	AutoMigrate bool `envconfig:"VOLTIO_AUTO_MIGRATE" default:"false"`
}

type CatalogConfig struct {
	LowStockThreshold int `envconfig:"VOLTIO_CATALOG_LOW_STOCK_THRESHOLD" default:"5"`
}

type GCPConfig struct {
	ProjectID              string `envconfig:"VOLTIO_GCP_PROJECT_ID"`
	CredentialsJSON        string `envconfig:"VOLTIO_GCP_CREDENTIALS_JSON"`
	ApplicationCredentials string `envconfig:"VOLTIO_GOOGLE_APPLICATION_CREDENTIALS"`
}

type PubSubConfig struct {
	SalesTopic        string `envconfig:"VOLTIO_PUBSUB_SALES_TOPIC" default:"voltio-sale-events"`
	SalesSubscription string `envconfig:"VOLTIO_PUBSUB_SALES_SUBSCRIPTION"`
}

type OutboxConfig struct {
	BatchSize      int `envconfig:"VOLTIO_OUTBOX_PUBLISH_BATCH_SIZE" default:"50"`
	PollIntervalMS int `envconfig:"VOLTIO_OUTBOX_PUBLISH_POLL_MS" default:"500"`
	MaxAttempts    int `envconfig:"VOLTIO_OUTBOX_MAX_ATTEMPTS" default:"10"`
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
