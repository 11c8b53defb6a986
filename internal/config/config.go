// Package config loads tracker settings from the environment
package config

import (
	"log/slog"
	"strings"
	"time"

	"github.com/caarlos0/env/v11"
	"github.com/joho/godotenv"

	"github.com/KirkDiggler/combat-tracker/internal/errors"
)

// Store backends
const (
	StoreMemory = "memory"
	StoreSQLite = "sqlite"
	StoreRedis  = "redis"
)

// ID styles for new encounters
const (
	IDStyleShort = "short"
	IDStyleUUID  = "uuid"
)

// Config holds tracker settings. Every field can be set from the
// environment or a .env file; command-line flags override both.
type Config struct {
	Store      string        `env:"TRACKER_STORE" envDefault:"sqlite"`
	SQLitePath string        `env:"TRACKER_SQLITE_PATH" envDefault:"tracker.db"`
	RedisAddr  string        `env:"TRACKER_REDIS_ADDR" envDefault:"localhost:6379"`
	RedisTTL   time.Duration `env:"TRACKER_REDIS_TTL" envDefault:"168h"`
	Encounter  string        `env:"TRACKER_ENCOUNTER"`
	IDStyle    string        `env:"TRACKER_ID_STYLE" envDefault:"short"`
	LogLevel   string        `env:"TRACKER_LOG_LEVEL" envDefault:"info"`
	Tracing    bool          `env:"TRACKER_TRACING" envDefault:"false"`
}

// Load reads an optional .env file then parses the environment
func Load(dotenvFiles ...string) (*Config, error) {
	if err := godotenv.Load(dotenvFiles...); err != nil {
		slog.Debug("No .env file loaded", "error", err)
	}

	cfg := &Config{}
	if err := env.Parse(cfg); err != nil {
		return nil, errors.WrapWithCode(err, errors.CodeInvalidArgument, "failed to parse environment")
	}
	return cfg, nil
}

// Validate checks the settings make sense together
func (c *Config) Validate() error {
	vb := errors.NewValidationBuilder()
	errors.ValidateEnum("store", c.Store, []string{StoreMemory, StoreSQLite, StoreRedis}, vb)
	errors.ValidateEnum("id_style", c.IDStyle, []string{IDStyleShort, IDStyleUUID}, vb)
	if _, err := ParseLevel(c.LogLevel); err != nil {
		vb.InvalidField("log_level", err.Error())
	}
	switch c.Store {
	case StoreSQLite:
		errors.ValidateRequired("sqlite_path", c.SQLitePath, vb)
	case StoreRedis:
		errors.ValidateRequired("redis_addr", c.RedisAddr, vb)
		if c.RedisTTL < 0 {
			vb.InvalidField("redis_ttl", "must not be negative")
		}
	}
	return vb.Build()
}

// ParseLevel maps debug, info, warn or error to a slog level
func ParseLevel(name string) (slog.Level, error) {
	switch strings.ToLower(name) {
	case "debug":
		return slog.LevelDebug, nil
	case "info", "":
		return slog.LevelInfo, nil
	case "warn", "warning":
		return slog.LevelWarn, nil
	case "error":
		return slog.LevelError, nil
	default:
		return slog.LevelInfo, errors.InvalidArgumentf("unknown log level %q", name)
	}
}
