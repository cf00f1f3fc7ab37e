//go:build integration

package redis

import (
	"context"
	"testing"
	"time"

	goredis "github.com/go-redis/redis/v8"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/wait"
)

func startRedis(t *testing.T) *goredis.Client {
	t.Helper()
	ctx := context.Background()
	container, err := testcontainers.GenericContainer(ctx, testcontainers.GenericContainerRequest{
		ContainerRequest: testcontainers.ContainerRequest{
			Image:        "redis:7-alpine",
			ExposedPorts: []string{"6379/tcp"},
			WaitingFor:   wait.ForLog("Ready to accept connections"),
		},
		Started: true,
	})
	if err != nil {
		t.Skipf("redis container unavailable: %v", err)
	}
	t.Cleanup(func() { _ = container.Terminate(ctx) })

	endpoint, err := container.Endpoint(ctx, "")
	require.NoError(t, err)
	client := goredis.NewClient(&goredis.Options{Addr: endpoint})
	t.Cleanup(func() { _ = client.Close() })
	return client
}

func TestSessionStoreAgainstRedis(t *testing.T) {
	client := startRedis(t)
	store := NewSessionStore(client)
	ctx := context.Background()

	require.NoError(t, store.Save(ctx, "maria@gmail.com", "a", time.Now().Add(time.Hour)))
	require.NoError(t, store.Save(ctx, "maria@gmail.com", "b", time.Now().Add(time.Hour)))
	require.NoError(t, store.Save(ctx, "alex@gmail.com", "c", time.Now().Add(time.Hour)))

	ok, err := store.Exists(ctx, "a")
	require.NoError(t, err)
	assert.True(t, ok)

	ttl, err := client.TTL(ctx, sessionPrefix+"a").Result()
	require.NoError(t, err)
	assert.Greater(t, ttl, 50*time.Minute)

	require.NoError(t, store.Delete(ctx, "maria@gmail.com"))
	for id, want := range map[string]bool{"a": false, "b": false, "c": true} {
		ok, err := store.Exists(ctx, id)
		require.NoError(t, err)
		assert.Equal(t, want, ok, id)
	}
}

func TestSessionStoreIgnoresExpiredTokens(t *testing.T) {
	store := NewSessionStore(startRedis(t))
	ctx := context.Background()

	require.NoError(t, store.Save(ctx, "maria@gmail.com", "old", time.Now().Add(-time.Second)))

	ok, err := store.Exists(ctx, "old")
	require.NoError(t, err)
	assert.False(t, ok)
}
