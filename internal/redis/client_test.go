package redis_test

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/KirkDiggler/combat-tracker/internal/errors"
	"github.com/KirkDiggler/combat-tracker/internal/redis"
)

func TestOpen(t *testing.T) {
	mr := miniredis.RunT(t)

	client, err := redis.Open(context.Background(), redis.Config{Addr: mr.Addr()})
	require.NoError(t, err)
	defer func() { _ = client.Close() }()

	assert.Equal(t, "PONG", client.Ping(context.Background()).Val())
}

func TestOpenRequiresAddr(t *testing.T) {
	_, err := redis.Open(context.Background(), redis.Config{DB: -1})
	require.Error(t, err)
	assert.True(t, errors.IsInvalidArgument(err))
	assert.Contains(t, err.Error(), "addr: is required")
	assert.Contains(t, err.Error(), "db: must not be negative")
}

func TestOpenUnreachable(t *testing.T) {
	mr := miniredis.RunT(t)
	addr := mr.Addr()
	mr.Close()

	_, err := redis.Open(context.Background(), redis.Config{
		Addr:        addr,
		DialTimeout: 100 * time.Millisecond,
		MaxRetries:  -1,
	})
	require.Error(t, err)
	assert.True(t, errors.IsUnavailable(err))
}
