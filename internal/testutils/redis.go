// Package testutils holds fixtures and miniredis helpers shared by tests
package testutils

import (
	"context"
	"testing"

	"github.com/alicebob/miniredis/v2"
	"github.com/stretchr/testify/require"

	"github.com/KirkDiggler/combat-tracker/internal/redis"
)

// CreateTestRedisClient connects to a fresh miniredis. The returned func
// stops the server early; it is also stopped when the test ends.
func CreateTestRedisClient(t *testing.T) (redis.Client, func()) {
	client, mr := CreateTestRedisServer(t)
	return client, mr.Close
}

// CreateTestRedisServer also hands back the server so a test can
// fast-forward TTLs or read keys directly.
func CreateTestRedisServer(t *testing.T) (redis.Client, *miniredis.Miniredis) {
	t.Helper()

	mr := miniredis.RunT(t)
	client, err := redis.Open(context.Background(), redis.Config{Addr: mr.Addr()})
	require.NoError(t, err, "failed to connect to miniredis")
	t.Cleanup(func() { _ = client.Close() })

	return client, mr
}

// CreateTestRedisClientWithContext seeds the server through setup before
// handing out the client.
func CreateTestRedisClientWithContext(t *testing.T, setup func(mr *miniredis.Miniredis)) (redis.Client, func()) {
	client, mr := CreateTestRedisServer(t)
	if setup != nil {
		setup(mr)
	}
	return client, mr.Close
}
