package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

const (
	CacheBackendMemory = "memory"
	CacheBackendRedis  = "redis"

	IDStrategySequence = "sequence"
	IDStrategyUUID     = "uuid"
)

// AppConfig general application configurations
type AppConfig struct {
	Environment    string
	Port           string
	ServiceName    string
	ServiceVersion string

	// Telemetry
	TelemetryEnabled bool
	MetricsPort      string
	OTLPEndpoint     string

	// Logging
	LokiURL string
	LogFile string

	// Rate Limiting
	RateLimitEnabled bool
	RateLimitConfigs map[string]RateLimitConfig

	// Response Cache
	CacheEnabled bool
	CacheBackend string
	RedisURL     string
	CacheConfigs map[string]ResponseCacheConfig

	// HTTPS Enforcement
	EnforceHTTPS bool

	// Store
	IDStrategy  string
	SeedEnabled bool
}

type RateLimitConfig struct {
	Requests int
	Window   time.Duration
}

type ResponseCacheConfig struct {
	TTL     time.Duration
	Enabled bool
}

// GetDefaultConfig returns default configuration
func GetDefaultConfig() *AppConfig {
	return &AppConfig{
		Environment:      "development",
		Port:             "8080",
		ServiceName:      "todoref",
		ServiceVersion:   "1.0.0",
		TelemetryEnabled: false,
		MetricsPort:      "9091",
		OTLPEndpoint:     "localhost:4317",
		RateLimitEnabled: true,
		RateLimitConfigs: map[string]RateLimitConfig{
			"GET /": {
				Requests: 120,
				Window:   time.Minute,
			},
			"GET /todos": {
				Requests: 120,
				Window:   time.Minute,
			},
			"POST /todos": {
				Requests: 30,
				Window:   time.Minute,
			},
			"PUT /todos/:id": {
				Requests: 30,
				Window:   time.Minute,
			},
			"PATCH /todos/:id": {
				Requests: 30,
				Window:   time.Minute,
			},
			"DELETE /todos/:id": {
				Requests: 30,
				Window:   time.Minute,
			},
		},
		CacheEnabled: true,
		CacheBackend: CacheBackendMemory,
		CacheConfigs: map[string]ResponseCacheConfig{
			"/": {
				TTL:     3 * time.Second,
				Enabled: true,
			},
			"/todos": {
				TTL:     3 * time.Second,
				Enabled: true,
			},
		},
		EnforceHTTPS: false,
		IDStrategy:   IDStrategySequence,
		SeedEnabled:  true,
	}
}

// LoadConfig starts from the defaults, reads a .env file when one exists and
// lets environment variables override individual settings. An empty
// environment variable counts as unset, so it never masks a file value.
func LoadConfig(envFiles ...string) (*AppConfig, error) {
	fileValues, err := godotenv.Read(envFiles...)

	if err != nil {
		if !errors.Is(err, fs.ErrNotExist) {
			return nil, err
		}

		fileValues = map[string]string{}
	}

	env := envSource(fileValues)
	config := GetDefaultConfig()

	config.Environment = env.get("APP_ENV", config.Environment)
	config.Port = env.get("PORT", config.Port)
	config.ServiceName = env.get("SERVICE_NAME", config.ServiceName)
	config.ServiceVersion = env.get("SERVICE_VERSION", config.ServiceVersion)
	config.MetricsPort = env.get("METRICS_PORT", config.MetricsPort)
	config.OTLPEndpoint = env.get("OTLP_ENDPOINT", config.OTLPEndpoint)
	config.LokiURL = env.get("LOKI_URL", config.LokiURL)
	config.LogFile = env.get("LOG_FILE", config.LogFile)
	config.CacheBackend = strings.ToLower(env.get("CACHE_BACKEND", config.CacheBackend))
	config.RedisURL = env.get("REDIS_URL", config.RedisURL)
	config.IDStrategy = strings.ToLower(env.get("ID_STRATEGY", config.IDStrategy))

	if config.TelemetryEnabled, err = env.getBool("TELEMETRY_ENABLED", config.TelemetryEnabled); err != nil {
		return nil, err
	}

	if config.RateLimitEnabled, err = env.getBool("RATE_LIMIT_ENABLED", config.RateLimitEnabled); err != nil {
		return nil, err
	}

	if config.CacheEnabled, err = env.getBool("CACHE_ENABLED", config.CacheEnabled); err != nil {
		return nil, err
	}

	if config.EnforceHTTPS, err = env.getBool("ENFORCE_HTTPS", config.EnforceHTTPS); err != nil {
		return nil, err
	}

	if config.SeedEnabled, err = env.getBool("SEED_ENABLED", config.SeedEnabled); err != nil {
		return nil, err
	}

	if env.get("GIN_MODE", "") == "release" {
		config.Environment = "production"
		config.EnforceHTTPS = true
	}

	if err := config.Validate(); err != nil {
		return nil, err
	}

	return config, nil
}

func (c *AppConfig) Validate() error {
	switch c.CacheBackend {
	case CacheBackendMemory:
	case CacheBackendRedis:
		if c.RedisURL == "" {
			return errors.New("REDIS_URL is required when CACHE_BACKEND is redis")
		}
	default:
		return errors.New("CACHE_BACKEND must be memory or redis")
	}

	switch c.IDStrategy {
	case IDStrategySequence, IDStrategyUUID:
	default:
		return errors.New("ID_STRATEGY must be sequence or uuid")
	}

	return nil
}

func (c *AppConfig) IsProduction() bool {
	return c.Environment == "production"
}

// envSource resolves a key from the process environment first and the .env
// file second.
type envSource map[string]string

func (e envSource) get(key, fallback string) string {
	if value, ok := os.LookupEnv(key); ok && value != "" {
		return value
	}

	if value := e[key]; value != "" {
		return value
	}

	return fallback
}

func (e envSource) getBool(key string, fallback bool) (bool, error) {
	value := e.get(key, "")

	if value == "" {
		return fallback, nil
	}

	parsed, err := strconv.ParseBool(value)

	if err != nil {
		return fallback, fmt.Errorf("%s: %w", key, err)
	}

	return parsed, nil
}
