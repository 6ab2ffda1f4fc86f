package file_test

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/stagelink/stagelink/internal/adapters/file"
	"github.com/stagelink/stagelink/pkg/ports"
)

func TestFileStore_Contract(t *testing.T) {
	store := file.New(t.TempDir())
	ports.RunBlobStoreContract(t, store)
}

func TestFileStore_DefaultBasePath(t *testing.T) {
	store := file.New("")
	assert.Equal(t, filepath.Join(".stagelink", "snapshots"), store.BasePath)
}

func TestFileStore_CreatesBaseDirOnPut(t *testing.T) {
	base := filepath.Join(t.TempDir(), "nested", "snapshots")
	store := file.New(base)

	err := store.Put(context.Background(), "abc.json", []byte(`[]`))
	require.NoError(t, err)

	got, err := store.Get(context.Background(), "abc.json")
	require.NoError(t, err)
	assert.Equal(t, []byte(`[]`), got)
}
