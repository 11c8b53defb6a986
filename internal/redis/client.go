// Package redis opens the go-redis connection behind the redis encounter
// store.
package redis

import (
	"context"
	"crypto/tls"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/KirkDiggler/combat-tracker/internal/errors"
)

// DefaultDialTimeout applies when Config.DialTimeout is zero
const DefaultDialTimeout = 2 * time.Second

// Client is the part of go-redis the encounter store talks to
type Client interface {
	Get(ctx context.Context, key string) *redis.StringCmd
	MGet(ctx context.Context, keys ...string) *redis.SliceCmd
	SMembers(ctx context.Context, key string) *redis.StringSliceCmd
	SRem(ctx context.Context, key string, members ...any) *redis.IntCmd
	TxPipeline() redis.Pipeliner
	Ping(ctx context.Context) *redis.StatusCmd
	Close() error
}

// Config describes how to reach a single Redis node
type Config struct {
	Addr        string
	DB          int
	Password    string
	DialTimeout time.Duration
	MaxRetries  int
	UseTLS      bool
}

// Open connects and pings the server so a bad address fails at startup
// instead of on the first command.
func Open(ctx context.Context, cfg Config) (Client, error) {
	vb := errors.NewValidationBuilder()
	errors.ValidateRequired("addr", cfg.Addr, vb)
	errors.ValidateNonNegative("db", cfg.DB, vb)
	if err := vb.Build(); err != nil {
		return nil, err
	}

	timeout := cfg.DialTimeout
	if timeout == 0 {
		timeout = DefaultDialTimeout
	}

	opts := &redis.Options{
		Addr:        cfg.Addr,
		DB:          cfg.DB,
		Password:    cfg.Password,
		DialTimeout: timeout,
		MaxRetries:  cfg.MaxRetries,
	}
	if cfg.UseTLS {
		opts.TLSConfig = &tls.Config{MinVersion: tls.VersionTLS12}
	}

	client := redis.NewClient(opts)
	if err := client.Ping(ctx).Err(); err != nil {
		_ = client.Close()
		return nil, errors.WrapWithCodef(err, errors.CodeUnavailable, "redis at %s is not reachable", cfg.Addr)
	}
	return client, nil
}
