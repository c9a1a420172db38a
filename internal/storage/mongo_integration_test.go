package storage

import (
	"context"
	"os"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/testcontainers/testcontainers-go/modules/mongodb"
)

// Requires Docker; enable with CARTSTORE_INTEGRATION=1.
func setupRealMongo(t *testing.T) *MongoStore {
	if os.Getenv("CARTSTORE_INTEGRATION") == "" {
		t.Skip("set CARTSTORE_INTEGRATION=1 to run container-backed tests")
	}

	ctx := context.Background()
	mongoContainer, err := mongodb.Run(ctx, "mongo:7")
	require.NoError(t, err)
	t.Cleanup(func() {
		if err := mongoContainer.Terminate(ctx); err != nil {
			t.Logf("failed to terminate container: %s", err)
		}
	})

	uri, err := mongoContainer.ConnectionString(ctx)
	require.NoError(t, err)

	db, err := ConnectMongoDB(ctx, uri, "testdb")
	require.NoError(t, err)
	t.Cleanup(func() { db.Client().Disconnect(ctx) })

	return NewMongoStore(db)
}

func TestMongoIntegration_RoundTrip(t *testing.T) {
	store := setupRealMongo(t)
	ctx := context.Background()

	_, err := store.Read(ctx, "cart:default")
	assert.ErrorIs(t, err, ErrNotFound)

	require.NoError(t, store.Write(ctx, "cart:default", `[{"id":1,"amount":2}]`))
	require.NoError(t, store.Write(ctx, "cart:default", `[{"id":1,"amount":3}]`))

	got, err := store.Read(ctx, "cart:default")
	require.NoError(t, err)
	assert.Equal(t, `[{"id":1,"amount":3}]`, got)
}
