package storage

import (
	"context"
	"os"
	"testing"

	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/wait"
)

// Requires Docker; enable with CARTSTORE_INTEGRATION=1.
func setupRealRedis(t *testing.T) *RedisStore {
	if os.Getenv("CARTSTORE_INTEGRATION") == "" {
		t.Skip("set CARTSTORE_INTEGRATION=1 to run container-backed tests")
	}

	ctx := context.Background()
	redisC, err := testcontainers.GenericContainer(ctx, testcontainers.GenericContainerRequest{
		ContainerRequest: testcontainers.ContainerRequest{
			Image:        "redis:latest",
			ExposedPorts: []string{"6379/tcp"},
			WaitingFor: wait.ForAll(
				wait.ForListeningPort("6379/tcp"),
				wait.ForLog("Ready to accept connections"),
			),
		},
		Started: true,
	})
	require.NoError(t, err)
	t.Cleanup(func() {
		if err := redisC.Terminate(ctx); err != nil {
			t.Logf("failed to terminate container: %s", err)
		}
	})

	endpoint, err := redisC.Endpoint(ctx, "")
	require.NoError(t, err)

	client := redis.NewClient(&redis.Options{Addr: endpoint})
	t.Cleanup(func() { client.Close() })

	return NewRedisStore(client)
}

func TestRedisIntegration_RoundTrip(t *testing.T) {
	store := setupRealRedis(t)
	ctx := context.Background()

	_, err := store.Read(ctx, "cart:default")
	assert.ErrorIs(t, err, ErrNotFound)

	require.NoError(t, store.Write(ctx, "cart:default", `[{"id":1,"amount":3}]`))

	got, err := store.Read(ctx, "cart:default")
	require.NoError(t, err)
	assert.Equal(t, `[{"id":1,"amount":3}]`, got)
}
