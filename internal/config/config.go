package config

import (
	"fmt"
	"time"

	"github.com/caarlos0/env/v10"
)

// Storage and catalog backends.
const (
	BackendMemory   = "memory"
	BackendRedis    = "redis"
	BackendPostgres = "postgres"
)

// Config holds all configuration for the storefront service.
type Config struct {
	Environment string `env:"ENVIRONMENT" envDefault:"development"`
	LogLevel    string `env:"LOG_LEVEL" envDefault:"info"`

	// HTTP server
	HTTPPort int `env:"STOREFRONT_HTTP_PORT" envDefault:"8080"`

	// Session storage
	StorageBackend    string `env:"STORAGE_BACKEND" envDefault:"memory"`
	RedisURL          string `env:"REDIS_URL" envDefault:""`
	RedisAddr         string `env:"REDIS_ADDR" envDefault:"localhost:6379"`
	RedisPass         string `env:"REDIS_PASSWORD" envDefault:""`
	RedisDB           int    `env:"REDIS_DB" envDefault:"0"`
	SessionTTLMinutes int    `env:"SESSION_TTL_MINUTES" envDefault:"30"`

	// Catalog
	CatalogBackend    string `env:"CATALOG_BACKEND" envDefault:"memory"`
	PostgresHost      string `env:"POSTGRES_HOST" envDefault:"localhost"`
	PostgresPort      int    `env:"POSTGRES_PORT" envDefault:"5432"`
	PostgresUser      string `env:"POSTGRES_USER" envDefault:"storefront"`
	PostgresPassword  string `env:"POSTGRES_PASSWORD" envDefault:"storefront"`
	PostgresDB        string `env:"POSTGRES_DB" envDefault:"storefront"`
	PostgresSSLMode   string `env:"POSTGRES_SSLMODE" envDefault:"disable"`
	PostgresSlowQuery int    `env:"POSTGRES_SLOW_QUERY_MS" envDefault:"200"`

	// Kafka
	KafkaEnabled bool     `env:"KAFKA_ENABLED" envDefault:"false"`
	KafkaBrokers []string `env:"KAFKA_BROKERS" envDefault:"localhost:9092" envSeparator:","`

	// Tracing
	OTelEnabled    bool    `env:"OTEL_ENABLED" envDefault:"false"`
	OTelEndpoint   string  `env:"OTEL_EXPORTER_OTLP_ENDPOINT" envDefault:"localhost:4318"`
	OTelSampleRate float64 `env:"OTEL_SAMPLE_RATE" envDefault:"1.0"`

	CORSAllowedOrigins []string `env:"CORS_ALLOWED_ORIGINS" envDefault:"*" envSeparator:","`
}

// Load reads configuration from environment variables.
func Load() (*Config, error) {
	cfg := &Config{}
	if err := env.Parse(cfg); err != nil {
		return nil, fmt.Errorf("load storefront config: %w", err)
	}
	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// SessionTTL is how long session-scoped keys live after their last write.
func (c *Config) SessionTTL() time.Duration {
	return time.Duration(c.SessionTTLMinutes) * time.Minute
}

// SlowQueryThreshold is the duration above which catalog queries are logged.
func (c *Config) SlowQueryThreshold() time.Duration {
	return time.Duration(c.PostgresSlowQuery) * time.Millisecond
}

// validate checks configuration invariants.
func (c *Config) validate() error {
	if c.HTTPPort < 1 || c.HTTPPort > 65535 {
		return fmt.Errorf("invalid HTTP port: %d", c.HTTPPort)
	}
	switch c.StorageBackend {
	case BackendMemory, BackendRedis:
	default:
		return fmt.Errorf("invalid storage backend %q: want %s or %s", c.StorageBackend, BackendMemory, BackendRedis)
	}
	switch c.CatalogBackend {
	case BackendMemory, BackendPostgres:
	default:
		return fmt.Errorf("invalid catalog backend %q: want %s or %s", c.CatalogBackend, BackendMemory, BackendPostgres)
	}
	if c.SessionTTLMinutes < 1 {
		return fmt.Errorf("invalid session TTL: %d minutes", c.SessionTTLMinutes)
	}
	if c.OTelSampleRate < 0 || c.OTelSampleRate > 1 {
		return fmt.Errorf("invalid OTel sample rate: %v", c.OTelSampleRate)
	}
	if c.KafkaEnabled && len(c.KafkaBrokers) == 0 {
		return fmt.Errorf("kafka enabled without brokers")
	}
	return nil
}
