package config

import (
	"fmt"
	"net/url"
	"strings"
	"time"

	"github.com/kelseyhightower/envconfig"
)

type Config struct {
	App          AppConfig
	DB           DBConfig
	Redis        RedisConfig
	JWT          JWTConfig
	Password     PasswordConfig
	FeatureFlags FeatureFlagsConfig
	Stripe       StripeConfig
	PayPal       PayPalConfig
	WhatsApp     WhatsAppConfig
	Checkout     CheckoutConfig
	Cart         CartConfig
	Chat         ChatConfig
	Tracking     TrackingConfig
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
	Env          string   `envconfig:"EZZSHOP_APP_ENV" required:"true"`
	Port         string   `envconfig:"EZZSHOP_APP_PORT" required:"true"`
	BaseURL      string   `envconfig:"EZZSHOP_APP_BASE_URL" default:"http://localhost:4200"`
	CORSOrigins  []string `envconfig:"EZZSHOP_CORS_ORIGINS" default:"http://localhost:4200"`
	LogLevel     string   `envconfig:"EZZSHOP_LOG_LEVEL" default:"info"`
	LogWarnStack bool     `envconfig:"EZZSHOP_LOG_WARN_STACK" default:"false"`
}

func (a AppConfig) IsDev() bool {
	return strings.EqualFold(a.Env, AppEnvDev)
}

func (a AppConfig) IsProd() bool {
	return strings.EqualFold(a.Env, AppEnvProd)
}

type DBConfig struct {
	DSN    string `envconfig:"EZZSHOP_DB_DSN"`
	Driver string `envconfig:"EZZSHOP_DB_DRIVER" default:"postgres"`

	Host     string `envconfig:"EZZSHOP_DB_HOST"`
	Port     int    `envconfig:"EZZSHOP_DB_PORT" default:"5432"`
	User     string `envconfig:"EZZSHOP_DB_USER"`
	Password string `envconfig:"EZZSHOP_DB_PASSWORD"`
	Name     string `envconfig:"EZZSHOP_DB_NAME"`
	SSLMode  string `envconfig:"EZZSHOP_DB_SSLMODE" default:"disable"`

	MaxOpenConns    int           `envconfig:"EZZSHOP_DB_MAX_OPEN_CONNS" default:"20"`
	MaxIdleConns    int           `envconfig:"EZZSHOP_DB_MAX_IDLE_CONNS" default:"10"`
	ConnMaxLifetime time.Duration `envconfig:"EZZSHOP_DB_CONN_MAX_LIFETIME" default:"1h"`
	ConnMaxIdleTime time.Duration `envconfig:"EZZSHOP_DB_CONN_MAX_IDLE_TIME" default:"10m"`
}

type RedisConfig struct {
	URL          string        `envconfig:"EZZSHOP_REDIS_URL" required:"true"`
	Address      string        `envconfig:"EZZSHOP_REDIS_ADDR"`
	Password     string        `envconfig:"EZZSHOP_REDIS_PASSWORD"`
	DB           int           `envconfig:"EZZSHOP_REDIS_DB" default:"0"`
	PoolSize     int           `envconfig:"EZZSHOP_REDIS_POOL_SIZE" default:"10"`
	MinIdleConns int           `envconfig:"EZZSHOP_REDIS_MIN_IDLE_CONNS" default:"2"`
	DialTimeout  time.Duration `envconfig:"EZZSHOP_REDIS_DIAL_TIMEOUT" default:"5s"`
	ReadTimeout  time.Duration `envconfig:"EZZSHOP_REDIS_READ_TIMEOUT" default:"5s"`
	WriteTimeout time.Duration `envconfig:"EZZSHOP_REDIS_WRITE_TIMEOUT" default:"5s"`
}

type JWTConfig struct {
	Secret            string `envconfig:"EZZSHOP_JWT_SECRET" required:"true"`
	Issuer            string `envconfig:"EZZSHOP_JWT_ISSUER" required:"true"`
	ExpirationMinutes int    `envconfig:"EZZSHOP_JWT_EXPIRATION_MINUTES" required:"true"`
	SessionTTLMinutes int    `envconfig:"EZZSHOP_SESSION_TTL_MINUTES" default:"43200"`
}

// SessionTTL returns the server-side session TTL configured in minutes.
func (j JWTConfig) SessionTTL() time.Duration {
	if j.SessionTTLMinutes <= 0 {
		return 0
	}
	return time.Duration(j.SessionTTLMinutes) * time.Minute
}

type PasswordConfig struct {
	ArgonMemoryKB    int `envconfig:"EZZSHOP_ARGON_MEMORY_KB" default:"65536"`
	ArgonTime        int `envconfig:"EZZSHOP_ARGON_TIME" default:"3"`
	ArgonParallelism int `envconfig:"EZZSHOP_ARGON_PARALLELISM" default:"2"`
	ArgonSaltLen     int `envconfig:"EZZSHOP_ARGON_SALT_LEN" default:"16"`
	ArgonKeyLen      int `envconfig:"EZZSHOP_ARGON_KEY_LEN" default:"32"`
}

type FeatureFlagsConfig struct {
	UseSQLite   bool `envconfig:"EZZSHOP_USE_SQLITE" default:"false"`
	AutoMigrate bool `envconfig:"EZZSHOP_AUTO_MIGRATE" default:"false"`
}

type StripeConfig struct {
	APIKey   string `envconfig:"EZZSHOP_STRIPE_API_KEY"`
	Env      string `envconfig:"EZZSHOP_STRIPE_ENV" default:"test"`
	Currency string `envconfig:"EZZSHOP_STRIPE_CURRENCY" default:"usd"`
}

// Environment returns the normalized Stripe environment (test/live).
func (s StripeConfig) Environment() string {
	env := strings.TrimSpace(strings.ToLower(s.Env))
	if env == "" {
		return "test"
	}
	return env
}

type PayPalConfig struct {
	ClientID string `envconfig:"EZZSHOP_PAYPAL_CLIENT_ID"`
	Secret   string `envconfig:"EZZSHOP_PAYPAL_SECRET"`
	Env      string `envconfig:"EZZSHOP_PAYPAL_ENV" default:"sandbox"`
	Currency string `envconfig:"EZZSHOP_PAYPAL_CURRENCY" default:"USD"`
}

// IsLive reports whether the live PayPal endpoint should be used.
func (p PayPalConfig) IsLive() bool {
	return strings.EqualFold(strings.TrimSpace(p.Env), "live")
}

type WhatsAppConfig struct {
	BusinessNumber string `envconfig:"EZZSHOP_WHATSAPP_NUMBER" default:"+201157895731"`
}

type CheckoutConfig struct {
	DraftTTL time.Duration `envconfig:"EZZSHOP_CHECKOUT_DRAFT_TTL" default:"1h"`
}

type CartConfig struct {
	TTL time.Duration `envconfig:"EZZSHOP_CART_TTL" default:"168h"`
}

type ChatConfig struct {
	HistoryLimit int           `envconfig:"EZZSHOP_CHAT_HISTORY_LIMIT" default:"50"`
	HistoryTTL   time.Duration `envconfig:"EZZSHOP_CHAT_HISTORY_TTL" default:"720h"`
}

type TrackingConfig struct {
	CarrierAPIURL string `envconfig:"EZZSHOP_TRACKING_CARRIER_API_URL"`
}

func (db *DBConfig) ensureDSN() error {
	if db.DSN != "" {
		return nil
	}

	missing := []string{}
	values := map[string]string{
		EnvDBHost: db.Host,
		EnvDBUser: db.User,
		EnvDBName: db.Name,
	}
	for _, env := range requiredDBEnvVars {
		if values[env] == "" {
			missing = append(missing, env)
		}
	}

	if len(missing) > 0 {
		return fmt.Errorf("either %s or %s are required", EnvDBDSN, strings.Join(missing, ", "))
	}

	userInfo := url.User(db.User)
	if db.Password != "" {
		userInfo = url.UserPassword(db.User, db.Password)
	}

	u := &url.URL{
		Scheme: "postgres",
		User:   userInfo,
		Host:   fmt.Sprintf("%s:%d", db.Host, db.Port),
		Path:   db.Name,
	}

	if db.SSLMode != "" {
		q := u.Query()
		q.Set("sslmode", db.SSLMode)
		u.RawQuery = q.Encode()
	}

	db.DSN = u.String()
	return nil
}
