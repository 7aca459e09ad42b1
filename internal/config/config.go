package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// Config aggregates runtime configuration for the console.
type Config struct {
	App      AppConfig
	Backend  BackendConfig
	Storage  StorageConfig
	Postgres PostgresConfig
	Redis    RedisConfig
	Logger   LoggerConfig
	Realtime RealtimeConfig
	Notify   NotifyConfig
	Routes   RoutesConfig
}

// AppConfig controls server level behavior.
type AppConfig struct {
	Name                  string
	Env                   string
	Host                  string
	Port                  string
	Version               string
	RequestTimeoutSeconds int
}

// BackendConfig points at the CMS REST backend.
type BackendConfig struct {
	BaseURL        string
	SubURL         string
	TimeoutSeconds int
}

// StorageConfig selects the durable credential store.
type StorageConfig struct {
	Driver      string
	FilePath    string
	SealKey     string
	RedisPrefix string
}

// PostgresConfig holds DB connection values.
type PostgresConfig struct {
	DSN            string
	MaxConns       int
	MinConns       int
	ConnMaxIdleSec int
	ConnMaxLifeSec int
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

// RealtimeConfig configures the push notification connection.
type RealtimeConfig struct {
	Enabled      bool
	URL          string
	BackoffMinMS int
	BackoffMaxMS int
}

// NotifyConfig configures toasts and the sound cue.
type NotifyConfig struct {
	SoundCommand string
	SoundFile    string
	ToastHistory int
	ListLimit    int
}

// RoutesConfig points at an optional route table override.
type RoutesConfig struct {
	File string
}

// Storage drivers.
const (
	DriverFile     = "file"
	DriverRedis    = "redis"
	DriverPostgres = "postgres"
)

// Load reads configuration from environment variables, applying defaults where possible.
func Load() (*Config, error) {
	_ = godotenv.Load()

	redisDB, err := strconv.Atoi(getEnv("REDIS_DB", "0"))
	if err != nil {
		return nil, fmt.Errorf("invalid REDIS_DB: %w", err)
	}

	baseURL := strings.TrimRight(getEnv("API_BASE_URL", "http://localhost:8080"), "/")

	cfg := &Config{
		App: AppConfig{
			Name:                  getEnv("APP_NAME", "cms-console"),
			Env:                   getEnv("APP_ENV", "development"),
			Host:                  getEnv("APP_HOST", "127.0.0.1"),
			Port:                  getEnv("APP_PORT", "5173"),
			Version:               getEnv("APP_VERSION", "dev"),
			RequestTimeoutSeconds: getEnvAsInt("HTTP_REQUEST_TIMEOUT_SECONDS", 30),
		},
		Backend: BackendConfig{
			BaseURL:        baseURL,
			SubURL:         getEnv("API_SUB_URL", "/api/v1"),
			TimeoutSeconds: getEnvAsInt("API_TIMEOUT_SECONDS", 15),
		},
		Storage: StorageConfig{
			Driver:      strings.ToLower(getEnv("STORAGE_DRIVER", DriverFile)),
			FilePath:    getEnv("STORAGE_FILE_PATH", defaultStatePath()),
			SealKey:     os.Getenv("STORAGE_SEAL_KEY"),
			RedisPrefix: getEnv("STORAGE_REDIS_PREFIX", "cms-console:"),
		},
		Postgres: PostgresConfig{
			DSN:            os.Getenv("POSTGRES_DSN"),
			MaxConns:       getEnvAsInt("POSTGRES_MAX_CONNS", 4),
			MinConns:       getEnvAsInt("POSTGRES_MIN_CONNS", 1),
			ConnMaxIdleSec: getEnvAsInt("POSTGRES_CONN_MAX_IDLE_SECONDS", 30),
			ConnMaxLifeSec: getEnvAsInt("POSTGRES_CONN_MAX_LIFE_SECONDS", 300),
		},
		Redis: RedisConfig{
			Addr:     getEnv("REDIS_ADDR", "127.0.0.1:6379"),
			Password: os.Getenv("REDIS_PASSWORD"),
			DB:       redisDB,
		},
		Logger: LoggerConfig{
			Level: getEnv("LOG_LEVEL", "info"),
		},
		Realtime: RealtimeConfig{
			Enabled:      getEnvAsBool("REALTIME_ENABLED", true),
			URL:          strings.TrimRight(getEnv("REALTIME_URL", baseURL), "/"),
			BackoffMinMS: getEnvAsInt("REALTIME_BACKOFF_MIN_MS", 500),
			BackoffMaxMS: getEnvAsInt("REALTIME_BACKOFF_MAX_MS", 30000),
		},
		Notify: NotifyConfig{
			SoundCommand: os.Getenv("NOTIFY_SOUND_COMMAND"),
			SoundFile:    getEnv("NOTIFY_SOUND_FILE", "notification sound.mp3"),
			ToastHistory: getEnvAsInt("NOTIFY_TOAST_HISTORY", 50),
			ListLimit:    getEnvAsInt("NOTIFY_LIST_LIMIT", 15),
		},
		Routes: RoutesConfig{
			File: os.Getenv("ROUTES_FILE"),
		},
	}

	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) validate() error {
	switch c.Storage.Driver {
	case DriverFile:
		if strings.TrimSpace(c.Storage.FilePath) == "" {
			return fmt.Errorf("STORAGE_FILE_PATH is required for the file driver")
		}
	case DriverRedis:
	case DriverPostgres:
		if c.Postgres.DSN == "" {
			return fmt.Errorf("POSTGRES_DSN is required for the postgres driver")
		}
	default:
		return fmt.Errorf("invalid STORAGE_DRIVER %q", c.Storage.Driver)
	}
	if c.Backend.BaseURL == "" {
		return fmt.Errorf("API_BASE_URL is required")
	}
	return nil
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

// URL returns the base URL every API path is resolved against.
func (b BackendConfig) URL() string {
	return b.BaseURL + b.SubURL
}

// Timeout returns the outbound request timeout.
func (b BackendConfig) Timeout() time.Duration {
	if b.TimeoutSeconds <= 0 {
		return 0
	}
	return time.Duration(b.TimeoutSeconds) * time.Second
}

// Backoff returns the reconnect delay bounds.
func (r RealtimeConfig) Backoff() (time.Duration, time.Duration) {
	return time.Duration(r.BackoffMinMS) * time.Millisecond, time.Duration(r.BackoffMaxMS) * time.Millisecond
}

func defaultStatePath() string {
	dir, err := os.UserConfigDir()
	if err != nil || dir == "" {
		return "cms-console-state.json"
	}
	return dir + string(os.PathSeparator) + "cms-console" + string(os.PathSeparator) + "state.json"
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
