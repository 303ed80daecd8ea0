package config

import (
	"time"

	"github.com/tkovalenko/sentencely-backend/internal/domain"
	"github.com/tkovalenko/sentencely-backend/internal/service/scheduler/fsrs"
)

// Config is the root application configuration.
type Config struct {
	Server    ServerConfig    `yaml:"server"`
	Database  DatabaseConfig  `yaml:"database"`
	Auth      AuthConfig      `yaml:"auth"`
	Log       LogConfig       `yaml:"log"`
	Scheduler SchedulerConfig `yaml:"scheduler"`
	CORS      CORSConfig      `yaml:"cors"`
}

// CORSConfig holds CORS settings.
type CORSConfig struct {
	AllowedOrigins   string `yaml:"allowed_origins"   env:"CORS_ALLOWED_ORIGINS"   env-default:"*"`
	AllowedMethods   string `yaml:"allowed_methods"   env:"CORS_ALLOWED_METHODS"   env-default:"GET,POST,OPTIONS"`
	AllowedHeaders   string `yaml:"allowed_headers"   env:"CORS_ALLOWED_HEADERS"   env-default:"Authorization,Content-Type"`
	AllowCredentials bool   `yaml:"allow_credentials" env:"CORS_ALLOW_CREDENTIALS" env-default:"true"`
	MaxAge           int    `yaml:"max_age"           env:"CORS_MAX_AGE"           env-default:"86400"`
}

// ServerConfig holds HTTP server settings.
type ServerConfig struct {
	Host            string        `yaml:"host"             env:"SERVER_HOST"             env-default:"0.0.0.0"`
	Port            int           `yaml:"port"             env:"SERVER_PORT"             env-default:"8080"`
	ReadTimeout     time.Duration `yaml:"read_timeout"     env:"SERVER_READ_TIMEOUT"     env-default:"10s"`
	WriteTimeout    time.Duration `yaml:"write_timeout"    env:"SERVER_WRITE_TIMEOUT"    env-default:"30s"`
	IdleTimeout     time.Duration `yaml:"idle_timeout"     env:"SERVER_IDLE_TIMEOUT"     env-default:"60s"`
	ShutdownTimeout time.Duration `yaml:"shutdown_timeout" env:"SERVER_SHUTDOWN_TIMEOUT" env-default:"10s"`

	// Requests per client IP per minute. 0 disables rate limiting.
	RateLimitPerMinute int `yaml:"rate_limit_per_minute" env:"SERVER_RATE_LIMIT_PER_MINUTE" env-default:"120"`
}

// DatabaseConfig holds PostgreSQL connection settings.
type DatabaseConfig struct {
	DSN             string        `yaml:"dsn"                env:"DATABASE_DSN"                env-required:"true"`
	MaxConns        int32         `yaml:"max_conns"          env:"DATABASE_MAX_CONNS"          env-default:"25"`
	MinConns        int32         `yaml:"min_conns"          env:"DATABASE_MIN_CONNS"          env-default:"5"`
	MaxConnLifetime time.Duration `yaml:"max_conn_lifetime"  env:"DATABASE_MAX_CONN_LIFETIME"  env-default:"1h"`
	MaxConnIdleTime time.Duration `yaml:"max_conn_idle_time" env:"DATABASE_MAX_CONN_IDLE_TIME" env-default:"30m"`
}

// AuthConfig holds JWT validation settings. Tokens are issued by a separate
// identity service; this server only verifies them.
type AuthConfig struct {
	JWTSecret string        `yaml:"jwt_secret" env:"AUTH_JWT_SECRET" env-required:"true"`
	JWTIssuer string        `yaml:"jwt_issuer" env:"AUTH_JWT_ISSUER" env-default:"sentencely"`
	ClockSkew time.Duration `yaml:"clock_skew" env:"AUTH_CLOCK_SKEW" env-default:"30s"`
}

// LogConfig holds logging settings.
type LogConfig struct {
	Level  string `yaml:"level"  env:"LOG_LEVEL"  env-default:"info"`
	Format string `yaml:"format" env:"LOG_FORMAT" env-default:"json"`
}

// SchedulerConfig holds the global scheduling parameters. Per-user
// preferences stored in the database narrow these where both exist.
type SchedulerConfig struct {
	SelectLimit        int    `yaml:"select_limit"        env:"SCHEDULER_SELECT_LIMIT"        env-default:"20"`
	MaxIntervalDays    int    `yaml:"max_interval_days"   env:"SCHEDULER_MAX_INTERVAL"        env-default:"365"`
	EnableFuzz         bool   `yaml:"enable_fuzz"         env:"SCHEDULER_ENABLE_FUZZ"         env-default:"true"`
	LearningStepsRaw   string `yaml:"learning_steps"      env:"SCHEDULER_LEARNING_STEPS"      env-default:"1m,10m"`
	RelearningStepsRaw string `yaml:"relearning_steps"    env:"SCHEDULER_RELEARNING_STEPS"    env-default:"10m"`
	// WeightsRaw is a comma-separated list of the 19 FSRS model weights.
	// Empty means the published defaults.
	WeightsRaw string `yaml:"weights" env:"SCHEDULER_WEIGHTS"`

	// LearningSteps is parsed from LearningStepsRaw during validation.
	LearningSteps []time.Duration `yaml:"-" env:"-"`
	// RelearningSteps is parsed from RelearningStepsRaw during validation.
	RelearningSteps []time.Duration `yaml:"-" env:"-"`
	// Weights is parsed from WeightsRaw during validation.
	Weights fsrs.Weights `yaml:"-" env:"-"`
}

// ToDomain converts the validated scheduler section into the domain config
// consumed by the scheduling service.
func (s SchedulerConfig) ToDomain() domain.SchedulerConfig {
	return domain.SchedulerConfig{
		SelectLimit:     s.SelectLimit,
		MaxIntervalDays: s.MaxIntervalDays,
		EnableFuzz:      s.EnableFuzz,
		LearningSteps:   s.LearningSteps,
		RelearningSteps: s.RelearningSteps,
	}
}
