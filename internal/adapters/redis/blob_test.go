package redis_test

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	backend "github.com/redis/go-redis/v9"

	"github.com/stagelink/stagelink/internal/adapters/redis"
	"github.com/stagelink/stagelink/pkg/domain"
	"github.com/stagelink/stagelink/pkg/ports"
)

func setup(t *testing.T) *backend.Client {
	t.Helper()

	mr, err := miniredis.Run()
	if err != nil {
		t.Fatalf("Failed to start miniredis: %v", err)
	}
	t.Cleanup(mr.Close)

	return backend.NewClient(&backend.Options{
		Addr: mr.Addr(),
	})
}

func TestRedisStore_Contract(t *testing.T) {
	store := redis.NewFromClient(setup(t))
	ports.RunBlobStoreContract(t, store)
}

func TestRedisStore_Prefix(t *testing.T) {
	client := setup(t)
	store := redis.NewFromClient(client, redis.WithPrefix("custom:"))

	ctx := context.Background()
	require.NoError(t, store.Put(ctx, "abc.json", []byte(`[]`)))

	val, err := client.Get(ctx, "custom:abc.json").Bytes()
	require.NoError(t, err)
	assert.Equal(t, []byte(`[]`), val)
}

func TestRedisStore_Unavailable(t *testing.T) {
	mr, err := miniredis.Run()
	require.NoError(t, err)

	client := backend.NewClient(&backend.Options{Addr: mr.Addr()})
	store := redis.NewFromClient(client)

	// Kill the backend, then try to talk to it.
	mr.Close()

	ctx, cancel := context.WithTimeout(context.Background(), time.Second)
	defer cancel()

	_, err = store.Get(ctx, "abc.json")
	assert.ErrorIs(t, err, domain.ErrStoreUnavailable)

	err = store.Put(ctx, "abc.json", []byte(`[]`))
	assert.ErrorIs(t, err, domain.ErrStoreUnavailable)
}
