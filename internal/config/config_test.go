package config_test

import (
	"bytes"
	"encoding/base64"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/stagelink/stagelink/internal/config"
)

func TestLoad_MissingFileUsesDefaults(t *testing.T) {
	cfg, err := config.Load(filepath.Join(t.TempDir(), "absent.yaml"))
	require.NoError(t, err)
	assert.Equal(t, ":8080", cfg.Listen)
	assert.Equal(t, config.StoreMemory, cfg.Store)
}

func TestLoad_FileOverridesDefaults(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(`
listen: ":9000"
page_file: content/launch.yaml
session_secret: hunter2
session_max_age: 1h
store: redis
redis:
  address: localhost:6379
  db: 2
`), 0644))

	cfg, err := config.Load(path)
	require.NoError(t, err)
	assert.Equal(t, ":9000", cfg.Listen)
	assert.Equal(t, "content/launch.yaml", cfg.PageFile)
	assert.Equal(t, time.Hour, cfg.SessionMaxAge.Std())
	assert.Equal(t, config.StoreRedis, cfg.Store)
	assert.Equal(t, "localhost:6379", cfg.Redis.Address)
	assert.Equal(t, 2, cfg.Redis.DB)

	require.NoError(t, cfg.Validate())
}

func TestLoad_RejectsMalformedYAML(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte("listen: [unterminated"), 0644))

	_, err := config.Load(path)
	assert.Error(t, err)
}

func TestValidate(t *testing.T) {
	cfg := config.Default()
	assert.Error(t, cfg.Validate(), "missing session secret")

	cfg.SessionSecret = "hunter2"
	assert.NoError(t, cfg.Validate())

	cfg.Store = "cloud"
	assert.Error(t, cfg.Validate(), "unknown store")

	cfg.Store = config.StoreRedis
	assert.Error(t, cfg.Validate(), "redis without address")

	cfg.Redis.Address = "localhost:6379"
	assert.NoError(t, cfg.Validate())
}

func TestEncryptionKeys(t *testing.T) {
	cfg := config.Default()
	cfg.SessionSecret = "hunter2"

	active, fallbacks, err := cfg.EncryptionKeys()
	require.NoError(t, err)
	assert.Nil(t, active)
	assert.Nil(t, fallbacks)

	cfg.EncryptionKey = base64.StdEncoding.EncodeToString(bytes.Repeat([]byte{1}, 32))
	cfg.FallbackKeys = []string{base64.StdEncoding.EncodeToString(bytes.Repeat([]byte{2}, 32))}

	active, fallbacks, err = cfg.EncryptionKeys()
	require.NoError(t, err)
	assert.Len(t, active, 32)
	require.Len(t, fallbacks, 1)
	assert.Len(t, fallbacks[0], 32)
	assert.NoError(t, cfg.Validate())

	cfg.EncryptionKey = base64.StdEncoding.EncodeToString([]byte("short"))
	_, _, err = cfg.EncryptionKeys()
	assert.Error(t, err, "key of wrong length")
	assert.Error(t, cfg.Validate())

	cfg.EncryptionKey = "not base64!!"
	_, _, err = cfg.EncryptionKeys()
	assert.Error(t, err)

	cfg.EncryptionKey = ""
	cfg.FallbackKeys = []string{"anything"}
	_, _, err = cfg.EncryptionKeys()
	assert.Error(t, err, "fallbacks without an active key")
}
