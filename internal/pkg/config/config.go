package config

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/sethvargo/go-envconfig"
)

const (
	BackendMemory = "memory"
	BackendMongo  = "mongo"
	BackendRedis  = "redis"

	devSessionSecret = "skillbridge-dev-secret"
)

type Config struct {
	Port      string `env:"PORT,       default=8080"`
	Env       string `env:"ENV,        default=development"`
	LogLevel  string `env:"LOG_LEVEL,  default=info"`
	PublicURL string `env:"PUBLIC_URL, default=http://localhost:8080"`

	Session SessionConfig
	Backend BackendConfig
	Mongo   MongoConfig
	Redis   RedisConfig
}

type SessionConfig struct {
	Secret           string        `env:"SESSION_SECRET"`
	TTL              time.Duration `env:"SESSION_TTL,          default=720h"`
	IdleTimeout      time.Duration `env:"SESSION_IDLE_TIMEOUT, default=30m"`
	SimulatedLatency time.Duration `env:"SIMULATED_LATENCY,    default=1s"`
	SecureCookies    bool          `env:"SECURE_COOKIES,       default=false"`
	ResetWorkers     int           `env:"RESET_WORKERS,        default=4"`
}

type BackendConfig struct {
	Directory string `env:"DIRECTORY_BACKEND, default=memory"`
	Storage   string `env:"STORAGE_BACKEND,   default=memory"`
}

type MongoConfig struct {
	URI      string `env:"MONGO_URI, default=mongodb://localhost:27017"`
	Database string `env:"MONGO_DB,  default=skillbridge"`
}

type RedisConfig struct {
	Addr     string `env:"REDIS_ADDR,     default=localhost:6379"`
	Password string `env:"REDIS_PASSWORD"`
	DB       int    `env:"REDIS_DB,       default=0"`
}

// IsDevelopment reports whether the service runs with development defaults.
func (c *Config) IsDevelopment() bool { return c.Env == "development" }

// Load reads configuration from environment variables using go-envconfig.
func Load(ctx context.Context) (*Config, error) {
	return load(ctx, envconfig.OsLookuper())
}

func load(ctx context.Context, lookuper envconfig.Lookuper) (*Config, error) {
	var cfg Config
	if err := envconfig.ProcessWith(ctx, &envconfig.Config{
		Target:   &cfg,
		Lookuper: lookuper,
	}); err != nil {
		return nil, fmt.Errorf("config: %w", err)
	}
	if err := cfg.validate(); err != nil {
		return nil, fmt.Errorf("config: %w", err)
	}
	return &cfg, nil
}

func (c *Config) validate() error {
	switch c.Backend.Directory {
	case BackendMemory, BackendMongo:
	default:
		return fmt.Errorf("unknown DIRECTORY_BACKEND %q", c.Backend.Directory)
	}
	switch c.Backend.Storage {
	case BackendMemory, BackendRedis:
	default:
		return fmt.Errorf("unknown STORAGE_BACKEND %q", c.Backend.Storage)
	}
	if c.Session.Secret == "" {
		if !c.IsDevelopment() {
			return errors.New("SESSION_SECRET is required outside development")
		}
		c.Session.Secret = devSessionSecret
	}
	if c.Session.SimulatedLatency < 0 {
		return errors.New("SIMULATED_LATENCY must not be negative")
	}
	return nil
}
