package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// Config captures runtime configuration for the admin API.
type Config struct {
	HTTP      HTTPConfig
	Upstream  UpstreamConfig
	Database  DatabaseConfig
	Cache     CacheConfig
	Events    EventsConfig
	Telemetry TelemetryConfig
	Service   ServiceConfig
}

type HTTPConfig struct {
	Port          int
	ShutdownGrace time.Duration
}

// UpstreamConfig points at the order service. An empty BaseURL runs against the in-memory demo book.
type UpstreamConfig struct {
	BaseURL  string
	Timeout  time.Duration
	PageSize int
}

type DatabaseConfig struct {
	Enabled        bool
	URL            string
	AutoMigrate    bool
	MigrationsPath string
	IdempotencyTTL time.Duration
}

// CacheConfig selects the query cache. Redis is used when Addr is set; TTL 0 disables caching.
type CacheConfig struct {
	Addr     string
	Password string
	DB       int
	TTL      time.Duration
	Prefix   string
}

type EventsConfig struct {
	NATSURL string
	Subject string
}

type TelemetryConfig struct {
	LogLevel      string
	OTelEndpoint  string
	OTelInsecure  bool
	EnableTracing bool
	EnableMetrics bool
	SampleRate    float64
}

type ServiceConfig struct {
	Name        string
	Version     string
	Environment string
}

const (
	defaultHTTPPort       = 8080
	defaultShutdownGrace  = 15 * time.Second
	defaultUpstreamTimeout = 15 * time.Second
	defaultPageSize       = 10
	defaultMigrationsPath = "migrations"
	defaultAutoMigrate    = true
	defaultIdempotencyTTL = 24 * time.Hour
	defaultCacheTTL       = 30 * time.Second
	defaultCachePrefix    = "gudworld-admin"
	defaultNATSSubject    = "admin.orders.changed"
	defaultServiceName    = "gudworld-admin"
	defaultServiceVersion = "0.1.0"
	defaultEnvironment    = "development"
	defaultLogLevel       = "info"
	defaultOTelSampleRate = 1.0
)

// Load reads a .env file when present, then configuration from environment variables,
// applying defaults when needed.
func Load() (*Config, error) {
	_ = godotenv.Load()
	return FromEnv()
}

// FromEnv reads configuration from the process environment only.
func FromEnv() (*Config, error) {
	httpCfg, err := loadHTTPConfig()
	if err != nil {
		return nil, fmt.Errorf("loading HTTP config: %w", err)
	}

	upstreamCfg, err := loadUpstreamConfig()
	if err != nil {
		return nil, fmt.Errorf("loading upstream config: %w", err)
	}

	dbCfg, err := loadDatabaseConfig()
	if err != nil {
		return nil, fmt.Errorf("loading database config: %w", err)
	}

	cacheCfg, err := loadCacheConfig()
	if err != nil {
		return nil, fmt.Errorf("loading cache config: %w", err)
	}

	telCfg, err := loadTelemetryConfig()
	if err != nil {
		return nil, fmt.Errorf("loading telemetry config: %w", err)
	}

	return &Config{
		HTTP:     httpCfg,
		Upstream: upstreamCfg,
		Database: dbCfg,
		Cache:    cacheCfg,
		Events: EventsConfig{
			NATSURL: os.Getenv("NATS_URL"),
			Subject: getEnvOrDefault("NATS_SUBJECT", defaultNATSSubject),
		},
		Telemetry: telCfg,
		Service:   loadServiceConfig(),
	}, nil
}

func loadHTTPConfig() (HTTPConfig, error) {
	port, err := getIntEnv("API_HTTP_PORT", defaultHTTPPort)
	if err != nil {
		return HTTPConfig{}, err
	}

	graceSeconds, err := getIntEnv("API_SHUTDOWN_GRACE_SECONDS", int(defaultShutdownGrace/time.Second))
	if err != nil {
		return HTTPConfig{}, err
	}

	return HTTPConfig{
		Port:          port,
		ShutdownGrace: time.Duration(graceSeconds) * time.Second,
	}, nil
}

func loadUpstreamConfig() (UpstreamConfig, error) {
	timeout, err := getDurationEnv("UPSTREAM_TIMEOUT", defaultUpstreamTimeout)
	if err != nil {
		return UpstreamConfig{}, err
	}

	pageSize, err := getIntEnv("ORDERS_PAGE_SIZE", defaultPageSize)
	if err != nil {
		return UpstreamConfig{}, err
	}
	if pageSize < 1 {
		return UpstreamConfig{}, fmt.Errorf("invalid ORDERS_PAGE_SIZE: must be positive, got %d", pageSize)
	}

	return UpstreamConfig{
		BaseURL:  strings.TrimSpace(os.Getenv("UPSTREAM_BASE_URL")),
		Timeout:  timeout,
		PageSize: pageSize,
	}, nil
}

func loadDatabaseConfig() (DatabaseConfig, error) {
	databaseURL := os.Getenv("DATABASE_URL")
	enabled := getBoolEnv("DB_ENABLED", databaseURL != "")
	if databaseURL == "" {
		databaseURL = buildDatabaseURL()
	}

	ttl, err := getDurationEnv("IDEMPOTENCY_TTL", defaultIdempotencyTTL)
	if err != nil {
		return DatabaseConfig{}, err
	}

	return DatabaseConfig{
		Enabled:        enabled,
		URL:            databaseURL,
		AutoMigrate:    getBoolEnv("AUTO_MIGRATE", defaultAutoMigrate),
		MigrationsPath: getEnvOrDefault("MIGRATIONS_PATH", defaultMigrationsPath),
		IdempotencyTTL: ttl,
	}, nil
}

func loadCacheConfig() (CacheConfig, error) {
	db, err := getIntEnv("REDIS_DB", 0)
	if err != nil {
		return CacheConfig{}, err
	}

	ttl, err := getDurationEnv("CACHE_TTL", defaultCacheTTL)
	if err != nil {
		return CacheConfig{}, err
	}

	return CacheConfig{
		Addr:     os.Getenv("REDIS_ADDR"),
		Password: os.Getenv("REDIS_PASSWORD"),
		DB:       db,
		TTL:      ttl,
		Prefix:   getEnvOrDefault("CACHE_PREFIX", defaultCachePrefix),
	}, nil
}

func loadTelemetryConfig() (TelemetryConfig, error) {
	sampleRate := defaultOTelSampleRate
	if value, ok := os.LookupEnv("OTEL_SAMPLE_RATE"); ok {
		parsed, err := strconv.ParseFloat(value, 64)
		if err != nil {
			return TelemetryConfig{}, fmt.Errorf("invalid OTEL_SAMPLE_RATE: %w", err)
		}
		sampleRate = parsed
	}

	return TelemetryConfig{
		LogLevel:      getEnvOrDefault("LOG_LEVEL", defaultLogLevel),
		OTelEndpoint:  getEnvOrDefault("OTEL_EXPORTER_OTLP_ENDPOINT", ""),
		OTelInsecure:  getBoolEnv("OTEL_EXPORTER_OTLP_INSECURE", false),
		EnableTracing: getBoolEnv("OTEL_ENABLE_TRACING", true),
		EnableMetrics: getBoolEnv("OTEL_ENABLE_METRICS", true),
		SampleRate:    sampleRate,
	}, nil
}

func loadServiceConfig() ServiceConfig {
	return ServiceConfig{
		Name:        getEnvOrDefault("API_SERVICE_NAME", defaultServiceName),
		Version:     getEnvOrDefault("SERVICE_VERSION", defaultServiceVersion),
		Environment: getEnvOrDefault("ENVIRONMENT", defaultEnvironment),
	}
}

func buildDatabaseURL() string {
	host := getEnvOrDefault("DB_HOST", "localhost")
	port := getEnvOrDefault("DB_PORT", "5432")
	user := getEnvOrDefault("DB_USER", "postgres")
	password := getEnvOrDefault("DB_PASSWORD", "postgres")
	dbName := getEnvOrDefault("DB_NAME", "gudworld_admin")
	sslMode := getEnvOrDefault("DB_SSLMODE", "disable")

	maxConns := getEnvOrDefault("DB_MAX_CONNS", "10")
	minConns := getEnvOrDefault("DB_MIN_CONNS", "2")

	return fmt.Sprintf(
		"postgres://%s:%s@%s:%s/%s?sslmode=%s&pool_max_conns=%s&pool_min_conns=%s",
		user, password, host, port, dbName, sslMode, maxConns, minConns,
	)
}

func getEnvOrDefault(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getBoolEnv(key string, defaultValue bool) bool {
	if value, ok := os.LookupEnv(key); ok {
		return value == "true"
	}
	return defaultValue
}

func getIntEnv(key string, defaultValue int) (int, error) {
	value, ok := os.LookupEnv(key)
	if !ok || value == "" {
		return defaultValue, nil
	}
	parsed, err := strconv.Atoi(value)
	if err != nil {
		return 0, fmt.Errorf("invalid %s: %w", key, err)
	}
	return parsed, nil
}

func getDurationEnv(key string, defaultValue time.Duration) (time.Duration, error) {
	value, ok := os.LookupEnv(key)
	if !ok || value == "" {
		return defaultValue, nil
	}
	parsed, err := time.ParseDuration(value)
	if err != nil {
		return 0, fmt.Errorf("invalid %s: %w", key, err)
	}
	return parsed, nil
}
