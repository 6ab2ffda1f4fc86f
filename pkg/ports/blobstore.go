package ports

import "context"

// BlobStore is the driven port for the opaque key-value blob backend that
// snapshots are persisted to. The backend is external; this contract is the
// only thing the core depends on.
//
// Implementations map their native failure modes onto the domain sentinels:
//
//   - domain.ErrNotFound when the object is absent
//   - domain.ErrAccessDenied on permission/ACL failures distinct from absence
//   - domain.ErrStoreUnavailable on transient/network failures
//
// Blobs are immutable in practice: keys are derived from collision-resistant
// identifiers so Put never overwrites live data, and Get is a pure read that
// is safe to retry.
type BlobStore interface {
	// Get returns the blob stored under key.
	Get(ctx context.Context, key string) ([]byte, error)

	// Put writes data under key. Callers must not assume partial writes are
	// visible on failure.
	Put(ctx context.Context, key string, data []byte) error
}
