package redis

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	backend "github.com/redis/go-redis/v9"

	"github.com/stagelink/stagelink/pkg/domain"
)

// Store implements ports.BlobStore using Redis.
type Store struct {
	client *backend.Client
	prefix string
	ttl    time.Duration
}

type Option func(*Store)

// WithTTL sets an expiration for stored blobs. Zero means no expiration;
// snapshot retention is otherwise an external cleanup concern.
func WithTTL(ttl time.Duration) Option {
	return func(s *Store) {
		s.ttl = ttl
	}
}

// WithPrefix sets the key prefix for blobs.
func WithPrefix(prefix string) Option {
	return func(s *Store) {
		s.prefix = prefix
	}
}

// New creates a new Redis store with options.
func New(address, password string, db int, opts ...Option) *Store {
	rdb := backend.NewClient(&backend.Options{
		Addr:     address,
		Password: password,
		DB:       db,
	})
	return NewFromClient(rdb, opts...)
}

// NewFromClient creates a new Redis store from an existing client.
func NewFromClient(client *backend.Client, opts ...Option) *Store {
	store := &Store{
		client: client,
		prefix: "stagelink:snapshot:",
		ttl:    0,
	}

	for _, opt := range opts {
		opt(store)
	}

	return store
}

func (s *Store) key(blobKey string) string {
	return s.prefix + blobKey
}

// Put writes the blob to Redis.
func (s *Store) Put(ctx context.Context, key string, data []byte) error {
	if err := s.client.Set(ctx, s.key(key), data, s.ttl).Err(); err != nil {
		return classify("set blob", err)
	}
	return nil
}

// Get reads the blob from Redis.
func (s *Store) Get(ctx context.Context, key string) ([]byte, error) {
	val, err := s.client.Get(ctx, s.key(key)).Bytes()
	if err != nil {
		if errors.Is(err, backend.Nil) {
			return nil, domain.ErrNotFound
		}
		return nil, classify("get blob", err)
	}
	return val, nil
}

// Close closes the redis client.
func (s *Store) Close() error {
	return s.client.Close()
}

// classify maps redis errors onto the domain taxonomy. Redis reports ACL
// failures as NOPERM errors; everything else non-Nil is treated as transient.
func classify(op string, err error) error {
	if strings.HasPrefix(err.Error(), "NOPERM") {
		return fmt.Errorf("%w: %s: %v", domain.ErrAccessDenied, op, err)
	}
	return fmt.Errorf("%w: %s: %v", domain.ErrStoreUnavailable, op, err)
}
