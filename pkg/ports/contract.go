package ports

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/stagelink/stagelink/pkg/domain"
)

// RunBlobStoreContract runs a suite of tests to verify that a BlobStore
// implementation adheres to the defined interface contract. Adapter tests
// call this after wiring their backend.
func RunBlobStoreContract(t *testing.T, store BlobStore) {
	ctx := context.Background()
	key := "contract-test-" + time.Now().Format("20060102150405") + ".json"

	t.Run("Put and Get", func(t *testing.T) {
		payload := []byte(`[{"id":"title","text":"Hello"}]`)

		err := store.Put(ctx, key, payload)
		require.NoError(t, err, "Put should not return error")

		got, err := store.Get(ctx, key)
		require.NoError(t, err, "Get should not return error")
		assert.Equal(t, payload, got)
	})

	t.Run("Get is repeatable", func(t *testing.T) {
		first, err := store.Get(ctx, key)
		require.NoError(t, err)

		second, err := store.Get(ctx, key)
		require.NoError(t, err)
		assert.Equal(t, first, second, "repeated Get must return identical bytes")
	})

	t.Run("Get non-existent", func(t *testing.T) {
		_, err := store.Get(ctx, "does-not-exist-"+key)
		assert.ErrorIs(t, err, domain.ErrNotFound)
	})

	t.Run("Caller cannot mutate stored data", func(t *testing.T) {
		mutKey := "mutation-" + key
		payload := []byte(`[{"id":"a","text":"original"}]`)
		require.NoError(t, store.Put(ctx, mutKey, payload))

		got, err := store.Get(ctx, mutKey)
		require.NoError(t, err)
		for i := range got {
			got[i] = 'x'
		}

		again, err := store.Get(ctx, mutKey)
		require.NoError(t, err)
		assert.Equal(t, payload, again, "mutating a returned blob must not affect the store")
	})
}
