package file

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"github.com/stagelink/stagelink/pkg/domain"
)

// Store implements ports.BlobStore on the local filesystem.
// Each blob is one file under BasePath, named by its key.
type Store struct {
	BasePath string
}

// New creates a new Store with the given base path.
// If basePath is empty, it defaults to ".stagelink/snapshots".
func New(basePath string) *Store {
	if basePath == "" {
		basePath = filepath.Join(".stagelink", "snapshots")
	}
	return &Store{BasePath: basePath}
}

// Put writes the blob atomically: temp file, fsync, rename. A failed write
// never leaves a partial blob visible under the destination key.
func (s *Store) Put(ctx context.Context, key string, data []byte) error {
	if key == "" {
		return fmt.Errorf("%w: key cannot be empty", domain.ErrStoreUnavailable)
	}

	if err := os.MkdirAll(s.BasePath, 0755); err != nil {
		return classifyWrite(fmt.Errorf("ensure blob directory: %w", err), err)
	}

	destPath := filepath.Join(s.BasePath, key)

	// Same directory as the destination so the rename stays on one filesystem.
	tmpFile, err := os.CreateTemp(s.BasePath, "tmp-*.blob")
	if err != nil {
		return classifyWrite(fmt.Errorf("create temp file: %w", err), err)
	}
	tmpPath := tmpFile.Name()
	defer func() {
		_ = tmpFile.Close()
		_ = os.Remove(tmpPath) // no-op once renamed
	}()

	if _, err := tmpFile.Write(data); err != nil {
		return classifyWrite(fmt.Errorf("write temp file: %w", err), err)
	}
	if err := tmpFile.Sync(); err != nil {
		return classifyWrite(fmt.Errorf("fsync temp file: %w", err), err)
	}
	if err := tmpFile.Close(); err != nil {
		return classifyWrite(fmt.Errorf("close temp file: %w", err), err)
	}

	if err := os.Rename(tmpPath, destPath); err != nil {
		return classifyWrite(fmt.Errorf("rename temp file into place: %w", err), err)
	}
	return nil
}

// Get reads the blob stored under key.
func (s *Store) Get(ctx context.Context, key string) ([]byte, error) {
	if key == "" {
		return nil, domain.ErrNotFound
	}

	data, err := os.ReadFile(filepath.Join(s.BasePath, key))
	if err != nil {
		switch {
		case os.IsNotExist(err):
			return nil, domain.ErrNotFound
		case os.IsPermission(err):
			return nil, fmt.Errorf("%w: %v", domain.ErrAccessDenied, err)
		default:
			return nil, fmt.Errorf("%w: read blob: %v", domain.ErrStoreUnavailable, err)
		}
	}
	return data, nil
}

// classifyWrite maps filesystem write failures onto the domain taxonomy,
// keeping the wrapped detail for logs.
func classifyWrite(wrapped, cause error) error {
	if os.IsPermission(cause) {
		return fmt.Errorf("%w: %v", domain.ErrAccessDenied, wrapped)
	}
	return fmt.Errorf("%w: %v", domain.ErrStoreUnavailable, wrapped)
}
