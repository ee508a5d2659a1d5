// Package config defines configuration parsing and helpers.
package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/caarlos0/env/v10"
)

// Config holds all application configuration parsed from environment variables.
type Config struct {
	AppEnv string `env:"APP_ENV" envDefault:"dev"`
	Port   int    `env:"PORT" envDefault:"8080"`

	// Candidate roster sources, tried in order: DatasetPath, DBURL, embedded default.
	DatasetPath     string `env:"DATASET_PATH"`
	DBURL           string `env:"DB_URL"`
	CandidatesTable string `env:"CANDIDATES_TABLE" envDefault:"candidates"`
	// StoreLoadMaxElapsed bounds the startup retries against the candidates table.
	StoreLoadMaxElapsed time.Duration `env:"STORE_LOAD_MAX_ELAPSED" envDefault:"30s"`

	RedisURL         string   `env:"REDIS_URL"`
	KafkaBrokers     []string `env:"KAFKA_BROKERS" envSeparator:","`
	MatchEventsTopic string   `env:"MATCH_EVENTS_TOPIC" envDefault:"match-completed"`

	OTLPEndpoint    string `env:"OTEL_EXPORTER_OTLP_ENDPOINT" envDefault:""`
	OTELServiceName string `env:"OTEL_SERVICE_NAME" envDefault:"candidate-matcher"`

	CORSAllowOrigins string `env:"CORS_ALLOW_ORIGINS" envDefault:"*"`
	RateLimitPerMin  int    `env:"RATE_LIMIT_PER_MIN" envDefault:"120"`
	// MatchRatePerMin is the per-client token bucket on match requests; only used with REDIS_URL.
	MatchRatePerMin        int   `env:"MATCH_RATE_PER_MIN" envDefault:"30"`
	MaxJobDescriptionBytes int64 `env:"MAX_JOB_DESCRIPTION_BYTES" envDefault:"65536"`
	// ResponseDelay simulates processing latency on analyze/match responses. Zero disables it.
	ResponseDelay time.Duration `env:"RESPONSE_DELAY" envDefault:"0s"`

	ServerShutdownTimeout time.Duration `env:"SERVER_SHUTDOWN_TIMEOUT" envDefault:"30s"`
	HTTPReadTimeout       time.Duration `env:"HTTP_READ_TIMEOUT" envDefault:"15s"`
	HTTPWriteTimeout      time.Duration `env:"HTTP_WRITE_TIMEOUT" envDefault:"30s"`
	HTTPIdleTimeout       time.Duration `env:"HTTP_IDLE_TIMEOUT" envDefault:"60s"`
}

// Load parses environment variables into a Config.
func Load() (Config, error) {
	var cfg Config
	if err := env.Parse(&cfg); err != nil {
		return Config{}, fmt.Errorf("op=config.Load: %w", err)
	}
	return cfg, nil
}

// IsDev reports whether the app is running in development mode.
func (c Config) IsDev() bool { return strings.ToLower(c.AppEnv) == "dev" }

// IsProd reports whether the app is running in production mode.
func (c Config) IsProd() bool { return strings.ToLower(c.AppEnv) == "prod" }

// IsTest reports whether the app is running in test mode.
func (c Config) IsTest() bool { return strings.ToLower(c.AppEnv) == "test" }

// EventsEnabled reports whether match events should be published.
func (c Config) EventsEnabled() bool { return len(c.KafkaBrokers) > 0 && c.MatchEventsTopic != "" }

// StoreBackoff returns retry timings for loading the candidates table.
// Test environments use short waits.
func (c Config) StoreBackoff() (maxElapsed, initialInterval time.Duration) {
	if c.IsTest() {
		return time.Second, 50 * time.Millisecond
	}
	return c.StoreLoadMaxElapsed, 500 * time.Millisecond
}
