package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// Config aggregates runtime configuration for the service.
type Config struct {
	App      AppConfig
	Postgres PostgresConfig
	Redis    RedisConfig
	Logger   LoggerConfig
	Auth     AuthConfig
	TryOn    TryOnConfig
	Models   ModelStoreConfig
	Email    EmailConfig
	OAuth    OAuthConfig
	Orders   OrdersConfig
	Download DownloadConfig
}

// AppConfig controls server level behavior.
type AppConfig struct {
	Name                  string
	Env                   string
	Host                  string
	Port                  string
	Version               string
	PublicBaseURL         string
	StaticDir             string
	RequestTimeoutSeconds int
}

// PostgresConfig holds DB connection values.
type PostgresConfig struct {
	DSN            string
	MaxConns       int32
	MinConns       int32
	RunMigrations  bool
	ConnMaxIdleSec int32
	ConnMaxLifeSec int32
}

// RedisConfig holds Redis connection values.
type RedisConfig struct {
	Addr     string
	Password string
	DB       int
}

// LoggerConfig configures logging behavior.
type LoggerConfig struct {
	Level string
}

// AuthConfig defines authentication parameters.
type AuthConfig struct {
	JWTSecret             string
	AccessTokenTTLDays    int
	RememberTokenTTLDays  int
	ConfirmTokenTTLHours  int
	BcryptCost            int
	CookieName            string
	CookieSecure          bool
}

// TryOnConfig holds remote try-on provider settings.
type TryOnConfig struct {
	BaseURL             string
	APIKey              string
	PollIntervalMS      int
	MaxAttempts         int
	HDMode              bool
	DefaultClothType    string
	FallbackPlaceholder bool
	SubmitTimeoutSec    int
	ProgressTTLMinutes  int
	ProgressBackend     string // memory | redis
}

// ModelStoreConfig selects the stock model catalog backend.
type ModelStoreConfig struct {
	Backend string // local | minio
	Dir     string
	MinIO   MinIOConfig
}

// MinIOConfig holds object storage connection values.
type MinIOConfig struct {
	Endpoint  string
	AccessKey string
	SecretKey string
	Bucket    string
	UseSSL    bool
}

// EmailConfig selects and configures the outbound email backend.
type EmailConfig struct {
	Backend     string // brevo | smtp | log
	FromName    string
	FromAddress string
	BrevoAPIKey string
	BrevoAPIURL string
	SMTPHost    string
	SMTPPort    int
	SMTPUser    string
	SMTPPass    string
}

// OAuthProviderConfig holds one social provider's credentials.
type OAuthProviderConfig struct {
	ClientID     string
	ClientSecret string
	RedirectURL  string
}

// OAuthConfig aggregates social login providers.
type OAuthConfig struct {
	Google   OAuthProviderConfig
	Facebook OAuthProviderConfig
	Apple    OAuthProviderConfig
	VK       OAuthProviderConfig
}

// OrdersConfig controls the order ledger.
type OrdersConfig struct {
	HistoryLimit int
}

// DownloadConfig restricts the download proxy targets.
type DownloadConfig struct {
	AllowedHosts []string
	TimeoutSec   int
}

// Load reads configuration from environment variables, applying defaults where possible.
func Load() (*Config, error) {
	_ = godotenv.Load()

	redisDB, err := strconv.Atoi(getEnv("REDIS_DB", "0"))
	if err != nil {
		return nil, fmt.Errorf("invalid REDIS_DB: %w", err)
	}

	cfg := &Config{
		App: AppConfig{
			Name:                  getEnv("APP_NAME", "tryon-service"),
			Env:                   getEnv("APP_ENV", "development"),
			Host:                  getEnv("APP_HOST", "0.0.0.0"),
			Port:                  getEnv("APP_PORT", "8080"),
			Version:               getEnv("APP_VERSION", "dev"),
			PublicBaseURL:         getEnv("APP_PUBLIC_BASE_URL", "http://localhost:8080"),
			StaticDir:             getEnv("APP_STATIC_DIR", "web"),
			RequestTimeoutSeconds: getEnvAsInt("HTTP_REQUEST_TIMEOUT_SECONDS", 30),
		},
		Postgres: PostgresConfig{
			DSN:            os.Getenv("POSTGRES_DSN"),
			MaxConns:       int32(getEnvAsInt("POSTGRES_MAX_CONNS", 10)),
			MinConns:       int32(getEnvAsInt("POSTGRES_MIN_CONNS", 2)),
			RunMigrations:  getEnvAsBool("POSTGRES_RUN_MIGRATIONS", true),
			ConnMaxIdleSec: int32(getEnvAsInt("POSTGRES_CONN_MAX_IDLE_SECONDS", 30)),
			ConnMaxLifeSec: int32(getEnvAsInt("POSTGRES_CONN_MAX_LIFE_SECONDS", 300)),
		},
		Redis: RedisConfig{
			Addr:     getEnv("REDIS_ADDR", "127.0.0.1:6379"),
			Password: os.Getenv("REDIS_PASSWORD"),
			DB:       redisDB,
		},
		Logger: LoggerConfig{
			Level: getEnv("LOG_LEVEL", "info"),
		},
		Auth: AuthConfig{
			JWTSecret:            getEnv("AUTH_JWT_SECRET", "dev-secret"),
			AccessTokenTTLDays:   getEnvAsInt("AUTH_ACCESS_TOKEN_TTL_DAYS", 7),
			RememberTokenTTLDays: getEnvAsInt("AUTH_REMEMBER_TOKEN_TTL_DAYS", 30),
			ConfirmTokenTTLHours: getEnvAsInt("AUTH_CONFIRM_TOKEN_TTL_HOURS", 24),
			BcryptCost:           getEnvAsInt("AUTH_BCRYPT_COST", 12),
			CookieName:           getEnv("AUTH_COOKIE_NAME", "token"),
			CookieSecure:         getEnvAsBool("AUTH_COOKIE_SECURE", false),
		},
		TryOn: TryOnConfig{
			BaseURL:             getEnv("TRYON_BASE_URL", "https://platform.fitroom.app/api"),
			APIKey:              os.Getenv("TRYON_API_KEY"),
			PollIntervalMS:      getEnvAsInt("TRYON_POLL_INTERVAL_MS", 2000),
			MaxAttempts:         getEnvAsInt("TRYON_MAX_ATTEMPTS", 60),
			HDMode:              getEnvAsBool("TRYON_HD_MODE", true),
			DefaultClothType:    getEnv("TRYON_DEFAULT_CLOTH_TYPE", "upper"),
			FallbackPlaceholder: getEnvAsBool("TRYON_FALLBACK_PLACEHOLDER", true),
			SubmitTimeoutSec:    getEnvAsInt("TRYON_SUBMIT_TIMEOUT_SECONDS", 30),
			ProgressTTLMinutes:  getEnvAsInt("TRYON_PROGRESS_TTL_MINUTES", 60),
			ProgressBackend:     getEnv("TRYON_PROGRESS_BACKEND", "memory"),
		},
		Models: ModelStoreConfig{
			Backend: getEnv("MODEL_STORE_BACKEND", "local"),
			Dir:     getEnv("MODEL_STORE_DIR", "web/modelsImages"),
			MinIO: MinIOConfig{
				Endpoint:  os.Getenv("MINIO_ENDPOINT"),
				AccessKey: os.Getenv("MINIO_ACCESS_KEY"),
				SecretKey: os.Getenv("MINIO_SECRET_KEY"),
				Bucket:    getEnv("MINIO_BUCKET", "stock-models"),
				UseSSL:    getEnvAsBool("MINIO_USE_SSL", false),
			},
		},
		Email: EmailConfig{
			Backend:     getEnv("EMAIL_BACKEND", "log"),
			FromName:    getEnv("EMAIL_FROM_NAME", "CloyAi"),
			FromAddress: getEnv("EMAIL_FROM_ADDRESS", "noreply@cloyai.com"),
			BrevoAPIKey: os.Getenv("BREVO_API_KEY"),
			BrevoAPIURL: getEnv("BREVO_API_URL", "https://api.brevo.com/v3/smtp/email"),
			SMTPHost:    os.Getenv("SMTP_HOST"),
			SMTPPort:    getEnvAsInt("SMTP_PORT", 587),
			SMTPUser:    os.Getenv("SMTP_USER"),
			SMTPPass:    os.Getenv("SMTP_PASSWORD"),
		},
		OAuth: OAuthConfig{
			Google: OAuthProviderConfig{
				ClientID:     os.Getenv("GOOGLE_CLIENT_ID"),
				ClientSecret: os.Getenv("GOOGLE_CLIENT_SECRET"),
				RedirectURL:  getEnv("GOOGLE_CALLBACK_URL", ""),
			},
			Facebook: OAuthProviderConfig{
				ClientID:     os.Getenv("FACEBOOK_APP_ID"),
				ClientSecret: os.Getenv("FACEBOOK_APP_SECRET"),
				RedirectURL:  getEnv("FACEBOOK_CALLBACK_URL", ""),
			},
			Apple: OAuthProviderConfig{
				ClientID:     os.Getenv("APPLE_CLIENT_ID"),
				ClientSecret: os.Getenv("APPLE_CLIENT_SECRET"),
				RedirectURL:  getEnv("APPLE_CALLBACK_URL", ""),
			},
			VK: OAuthProviderConfig{
				ClientID:     os.Getenv("VK_APP_ID"),
				ClientSecret: os.Getenv("VK_APP_SECRET"),
				RedirectURL:  getEnv("VK_CALLBACK_URL", ""),
			},
		},
		Orders: OrdersConfig{
			HistoryLimit: getEnvAsInt("ORDER_HISTORY_LIMIT", 20),
		},
		Download: DownloadConfig{
			AllowedHosts: splitList(getEnv("DOWNLOAD_ALLOWED_HOSTS", "")),
			TimeoutSec:   getEnvAsInt("DOWNLOAD_TIMEOUT_SECONDS", 30),
		},
	}

	return cfg, nil
}

// Addr returns the HTTP bind address.
func (a AppConfig) Addr() string {
	return fmt.Sprintf("%s:%s", a.Host, a.Port)
}

// RequestTimeout returns the configured request timeout duration.
func (a AppConfig) RequestTimeout() time.Duration {
	if a.RequestTimeoutSeconds <= 0 {
		return 0
	}
	return time.Duration(a.RequestTimeoutSeconds) * time.Second
}

// PollInterval returns the orchestrator poll cadence.
func (t TryOnConfig) PollInterval() time.Duration {
	if t.PollIntervalMS <= 0 {
		return 2 * time.Second
	}
	return time.Duration(t.PollIntervalMS) * time.Millisecond
}

// ProgressTTL returns the retention window for progress entries.
func (t TryOnConfig) ProgressTTL() time.Duration {
	if t.ProgressTTLMinutes <= 0 {
		return time.Hour
	}
	return time.Duration(t.ProgressTTLMinutes) * time.Minute
}

func getEnv(key, fallback string) string {
	if val := os.Getenv(key); val != "" {
		return val
	}
	return fallback
}

func getEnvAsInt(key string, fallback int) int {
	val := os.Getenv(key)
	if val == "" {
		return fallback
	}
	parsed, err := strconv.Atoi(val)
	if err != nil {
		return fallback
	}
	return parsed
}

func getEnvAsBool(key string, fallback bool) bool {
	val := os.Getenv(key)
	if val == "" {
		return fallback
	}
	parsed, err := strconv.ParseBool(val)
	if err != nil {
		return fallback
	}
	return parsed
}

func splitList(val string) []string {
	if strings.TrimSpace(val) == "" {
		return nil
	}
	parts := strings.Split(val, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if trimmed := strings.TrimSpace(p); trimmed != "" {
			out = append(out, trimmed)
		}
	}
	return out
}
