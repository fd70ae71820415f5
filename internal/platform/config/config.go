// Package config loads process configuration from environment variables.
package config

import (
	"errors"
	"fmt"
	"time"

	"github.com/caarlos0/env/v11"

	"lifepath/internal/report"
)

// Config is the full runtime configuration of the server and CLI.
type Config struct {
	Server    Server
	Log       Log
	Gemini    Gemini
	Report    Report
	Share     Share
	Redis     RedisConfig
	Postgres  PostgresConfig
	Kafka     KafkaConfig
	RateLimit RateLimit
	Tracing   Tracing
}

// Server captures HTTP server level configuration.
type Server struct {
	Addr            string        `env:"LIFEPATH_ADDR"             envDefault:":8080"`
	Environment     string        `env:"LIFEPATH_ENV"              envDefault:"development"`
	RequestTimeout  time.Duration `env:"LIFEPATH_REQUEST_TIMEOUT"  envDefault:"240s"`
	ShutdownTimeout time.Duration `env:"LIFEPATH_SHUTDOWN_TIMEOUT" envDefault:"15s"`
	// AdminToken guards /admin routes; empty disables them.
	AdminToken      string        `env:"ADMIN_TOKEN"`
}

// IsProduction reports whether the server runs with production defaults.
func (s Server) IsProduction() bool {
	return s.Environment == "production"
}

type Log struct {
	Level  string `env:"LOG_LEVEL"  envDefault:"info"`
	Format string `env:"LOG_FORMAT"`
}

type Gemini struct {
	APIKey          string        `env:"GEMINI_API_KEY"`
	Model           string        `env:"GEMINI_MODEL"             envDefault:"gemini-2.5-pro"`
	Timeout         time.Duration `env:"GEMINI_TIMEOUT"           envDefault:"180s"`
	MaxOutputTokens int32         `env:"GEMINI_MAX_OUTPUT_TOKENS" envDefault:"40000"`
}

// Report controls calculation and generation defaults.
type Report struct {
	// ReferenceYear pins the year ages are computed against; 0 means the current year.
	ReferenceYear    int           `env:"REFERENCE_YEAR"          envDefault:"0"`
	Language         string        `env:"REPORT_LANGUAGE"         envDefault:"Mandarin"`
	CacheTTL         time.Duration `env:"REPORT_CACHE_TTL"        envDefault:"24h"`
	FingerprintKey   string        `env:"FINGERPRINT_KEY"`
	InputPerMillion  float64       `env:"PRICE_INPUT_PER_MILLION"  envDefault:"1.25"`
	OutputPerMillion float64       `env:"PRICE_OUTPUT_PER_MILLION" envDefault:"10.00"`
	ExchangeRate     float64       `env:"PRICE_EXCHANGE_RATE"      envDefault:"4.50"`
	Currency         string        `env:"PRICE_CURRENCY"           envDefault:"MYR"`
}

type Share struct {
	SigningKey string        `env:"SHARE_SIGNING_KEY"`
	TTL        time.Duration `env:"SHARE_TTL"      envDefault:"168h"`
	BaseURL    string        `env:"SHARE_BASE_URL" envDefault:"http://localhost:8080"`
}

type RedisConfig struct {
	URL          string        `env:"REDIS_URL"`
	PoolSize     int           `env:"REDIS_POOL_SIZE"      envDefault:"10"`
	MinIdleConns int           `env:"REDIS_MIN_IDLE_CONNS" envDefault:"2"`
	DialTimeout  time.Duration `env:"REDIS_DIAL_TIMEOUT"   envDefault:"5s"`
	ReadTimeout  time.Duration `env:"REDIS_READ_TIMEOUT"   envDefault:"3s"`
	WriteTimeout time.Duration `env:"REDIS_WRITE_TIMEOUT"  envDefault:"3s"`
}

type PostgresConfig struct {
	URL             string        `env:"DATABASE_URL"`
	MaxOpenConns    int           `env:"DATABASE_MAX_OPEN_CONNS"     envDefault:"10"`
	MaxIdleConns    int           `env:"DATABASE_MAX_IDLE_CONNS"     envDefault:"5"`
	ConnMaxLifetime time.Duration `env:"DATABASE_CONN_MAX_LIFETIME" envDefault:"30m"`
}

type KafkaConfig struct {
	Brokers     []string `env:"KAFKA_BROKERS"      envSeparator:","`
	Topic       string   `env:"KAFKA_TOPIC"        envDefault:"lifepath.events"`
	Partitions  int32    `env:"KAFKA_PARTITIONS"   envDefault:"3"`
	Replication int16    `env:"KAFKA_REPLICATION"  envDefault:"1"`
	AsyncBuffer int      `env:"EVENTS_ASYNC_BUFFER" envDefault:"1024"`
	SampleRate  float64  `env:"EVENTS_SAMPLE_RATE"  envDefault:"1"`
}

type RateLimit struct {
	Disabled         bool          `env:"RATELIMIT_DISABLED"`
	GenerateRequests int           `env:"RATELIMIT_GENERATE_REQUESTS" envDefault:"5"`
	ReadRequests     int           `env:"RATELIMIT_READ_REQUESTS"     envDefault:"60"`
	Window           time.Duration `env:"RATELIMIT_WINDOW"            envDefault:"1m"`
	Allowlist        []string      `env:"RATELIMIT_ALLOWLIST"         envSeparator:","`
}

type Tracing struct {
	Endpoint    string `env:"OTEL_EXPORTER_OTLP_ENDPOINT"`
	ServiceName string `env:"OTEL_SERVICE_NAME" envDefault:"lifepath"`
}

// Load reads Config from the environment and validates it.
func Load() (Config, error) {
	var cfg Config
	if err := ParseEnv(&cfg); err != nil {
		return Config{}, err
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// ParseEnv loads configuration from environment variables into target.
func ParseEnv(target any) error {
	if err := env.Parse(target); err != nil {
		return fmt.Errorf("parse env: %w", err)
	}
	return nil
}

// Validate checks cross-field constraints env tags cannot express.
func (c Config) Validate() error {
	var errs []error
	if c.Report.ReferenceYear < 0 {
		errs = append(errs, errors.New("REFERENCE_YEAR must be 0 or a positive year"))
	}
	if c.Gemini.Timeout <= 0 {
		errs = append(errs, errors.New("GEMINI_TIMEOUT must be positive"))
	}
	if c.Gemini.MaxOutputTokens <= 0 {
		errs = append(errs, errors.New("GEMINI_MAX_OUTPUT_TOKENS must be positive"))
	}
	if c.Share.TTL <= 0 {
		errs = append(errs, errors.New("SHARE_TTL must be positive"))
	}
	if c.RateLimit.Window <= 0 {
		errs = append(errs, errors.New("RATELIMIT_WINDOW must be positive"))
	}
	if c.Kafka.SampleRate < 0 || c.Kafka.SampleRate > 1 {
		errs = append(errs, errors.New("EVENTS_SAMPLE_RATE must be within [0, 1]"))
	}
	if c.Server.IsProduction() {
		if c.Share.SigningKey == "" {
			errs = append(errs, errors.New("SHARE_SIGNING_KEY is required in production"))
		}
		if c.Report.FingerprintKey == "" {
			errs = append(errs, errors.New("FINGERPRINT_KEY is required in production"))
		}
	}
	return errors.Join(errs...)
}

// ShareSigningKey returns the configured key or a development default.
func (c Config) ShareSigningKey() []byte {
	if c.Share.SigningKey == "" {
		return []byte("dev-share-key-change-in-production")
	}
	return []byte(c.Share.SigningKey)
}

// FingerprintKey returns the configured key or a development default.
func (c Config) FingerprintKey() []byte {
	if c.Report.FingerprintKey == "" {
		return []byte("dev-fingerprint-key")
	}
	return []byte(c.Report.FingerprintKey)
}

// Pricing returns the configured token pricing.
func (r Report) Pricing() report.Pricing {
	return report.Pricing{
		InputPerMillion:  r.InputPerMillion,
		OutputPerMillion: r.OutputPerMillion,
		ExchangeRate:     r.ExchangeRate,
		Currency:         r.Currency,
	}
}
