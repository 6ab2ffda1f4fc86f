package main

import (
	"fmt"

	"github.com/stagelink/stagelink/internal/adapters/file"
	"github.com/stagelink/stagelink/internal/adapters/memory"
	"github.com/stagelink/stagelink/internal/adapters/redis"
	"github.com/stagelink/stagelink/internal/config"
	"github.com/stagelink/stagelink/pkg/persistence/middleware"
	"github.com/stagelink/stagelink/pkg/ports"
)

// newBlobStore builds the configured blob backend, with encryption at rest
// layered on top when a key is configured.
func newBlobStore(cfg config.Config) (ports.BlobStore, error) {
	var store ports.BlobStore
	switch cfg.Store {
	case config.StoreMemory:
		store = memory.NewStore()
	case config.StoreFile:
		store = file.New(cfg.StoreDir)
	case config.StoreRedis:
		store = redis.New(cfg.Redis.Address, cfg.Redis.Password, cfg.Redis.DB)
	default:
		return nil, fmt.Errorf("unknown store backend %q", cfg.Store)
	}

	active, fallbacks, err := cfg.EncryptionKeys()
	if err != nil {
		return nil, err
	}
	if active != nil {
		store = middleware.Chain(store, middleware.NewEncryptionMiddleware(middleware.EncryptionConfig{
			ActiveKey:    active,
			FallbackKeys: fallbacks,
		}))
	}
	return store, nil
}
