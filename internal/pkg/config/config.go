package config

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/sethvargo/go-envconfig"
)

const (
	BackendRedis  = "redis"
	BackendMemory = "memory"
)

type Config struct {
	Port      string `env:"PORT,      default=8080"`
	Env       string `env:"ENV,       default=development"`
	LogLevel  string `env:"LOG_LEVEL, default=info"`
	LogPretty bool   `env:"LOG_PRETTY, default=false"`
	// Backend selects where entities live: redis, or memory for ephemeral runs.
	Backend string `env:"BACKEND, default=redis"`

	Redis  RedisConfig
	Match  MatchConfig
	Worker WorkerConfig

	ShutdownTimeout time.Duration `env:"SHUTDOWN_TIMEOUT, default=10s"`
}

type RedisConfig struct {
	Addr     string        `env:"REDIS_ADDR,     default=localhost:6379"`
	DB       int           `env:"REDIS_DB,       default=0"`
	Password string        `env:"REDIS_PASSWORD"`
	Timeout  time.Duration `env:"REDIS_TIMEOUT,  default=2s"`
}

type MatchConfig struct {
	// CacheTTL bounds cached match scores; 0 keeps them until invalidated.
	CacheTTL           time.Duration `env:"MATCH_CACHE_TTL,      default=24h"`
	SearchDefaultLimit int           `env:"SEARCH_DEFAULT_LIMIT, default=20"`
}

type WorkerConfig struct {
	ReconcileWorkers int `env:"RECONCILE_WORKERS, default=8"`
}

// Load reads configuration from environment variables using go-envconfig and
// validates it.
func Load(ctx context.Context) (*Config, error) {
	return load(ctx, envconfig.OsLookuper())
}

func load(ctx context.Context, lookuper envconfig.Lookuper) (*Config, error) {
	var cfg Config
	if err := envconfig.ProcessWith(ctx, &envconfig.Config{Target: &cfg, Lookuper: lookuper}); err != nil {
		return nil, fmt.Errorf("config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Validate reports every invalid setting at once.
func (c *Config) Validate() error {
	var errs []error
	if c.Backend != BackendRedis && c.Backend != BackendMemory {
		errs = append(errs, fmt.Errorf("BACKEND must be %q or %q, got %q", BackendRedis, BackendMemory, c.Backend))
	}
	if c.Port == "" {
		errs = append(errs, errors.New("PORT must not be empty"))
	}
	if c.Redis.Timeout <= 0 {
		errs = append(errs, errors.New("REDIS_TIMEOUT must be positive"))
	}
	if c.Match.CacheTTL < 0 {
		errs = append(errs, errors.New("MATCH_CACHE_TTL must not be negative"))
	}
	if c.Match.SearchDefaultLimit <= 0 {
		errs = append(errs, errors.New("SEARCH_DEFAULT_LIMIT must be positive"))
	}
	if c.Worker.ReconcileWorkers <= 0 {
		errs = append(errs, errors.New("RECONCILE_WORKERS must be positive"))
	}
	if c.ShutdownTimeout <= 0 {
		errs = append(errs, errors.New("SHUTDOWN_TIMEOUT must be positive"))
	}
	if len(errs) > 0 {
		return fmt.Errorf("config: %w", errors.Join(errs...))
	}
	return nil
}

// Addr is the listen address for the HTTP server.
func (c *Config) Addr() string {
	return ":" + c.Port
}
