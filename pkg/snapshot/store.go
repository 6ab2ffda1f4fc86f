package snapshot

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/microcosm-cc/bluemonday"

	"github.com/stagelink/stagelink/internal/logging"
	"github.com/stagelink/stagelink/pkg/domain"
	"github.com/stagelink/stagelink/pkg/observability"
	"github.com/stagelink/stagelink/pkg/ports"
)

// DefaultTimeout bounds a single blob operation. The wire contract has no
// cancellation of its own, so a slow backend is classified as unavailable.
const DefaultTimeout = 5 * time.Second

// Store persists and retrieves snapshots on top of the opaque blob backend.
// Identifiers are generated here, never client-supplied. Snapshots are
// append-only: there is no update or delete in the contract.
type Store struct {
	blobs     ports.BlobStore
	newID     func() string
	sanitizer *bluemonday.Policy
	timeout   time.Duration
	logger    *slog.Logger
	metrics   *observability.Metrics
}

// Option configures the Store.
type Option func(*Store)

// WithLogger configures a logger for store events.
func WithLogger(logger *slog.Logger) Option {
	return func(s *Store) {
		s.logger = logger
	}
}

// WithIDGenerator overrides snapshot ID generation. Tests use this for
// deterministic identifiers.
func WithIDGenerator(gen func() string) Option {
	return func(s *Store) {
		s.newID = gen
	}
}

// WithTimeout bounds each blob operation.
func WithTimeout(d time.Duration) Option {
	return func(s *Store) {
		s.timeout = d
	}
}

// WithMetrics enables save/load instrumentation.
func WithMetrics(m *observability.Metrics) Option {
	return func(s *Store) {
		s.metrics = m
	}
}

// NewStore creates a snapshot store backed by blobs.
func NewStore(blobs ports.BlobStore, opts ...Option) *Store {
	s := &Store{
		blobs:     blobs,
		newID:     uuid.NewString,
		sanitizer: bluemonday.StrictPolicy(),
		timeout:   DefaultTimeout,
		logger:    logging.NewNop(),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Save normalizes the captured edits, generates a fresh identifier, and
// writes the serialized snapshot to the blob backend. Each call creates a
// new snapshot even for an identical payload; snapshots are cheap,
// disposable links.
func (s *Store) Save(ctx context.Context, edits []domain.FieldEdit) (string, error) {
	normalized := s.normalize(edits)

	payload, err := json.Marshal(normalized)
	if err != nil {
		return "", fmt.Errorf("marshal snapshot payload: %w", err)
	}

	id := s.newID()

	ctx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()

	if err := s.blobs.Put(ctx, blobKey(id), payload); err != nil {
		err = classifyCtx(err)
		s.logger.Error("snapshot save failed", "snapshot_id", id, "err", err)
		s.countSave("failure")
		return "", err
	}

	s.logger.Info("snapshot saved", "snapshot_id", id, "edits", len(normalized))
	s.countSave("success")
	return id, nil
}

// Load reads and deserializes the snapshot stored under id. It is a pure
// read, safe to retry. A payload that fails to decode is reported as a
// backend failure, not as absence.
func (s *Store) Load(ctx context.Context, id string) (*domain.Snapshot, error) {
	ctx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()

	data, err := s.blobs.Get(ctx, blobKey(id))
	if err != nil {
		err = classifyCtx(err)
		switch {
		case errors.Is(err, domain.ErrNotFound):
			s.countLoad("not_found")
		case errors.Is(err, domain.ErrAccessDenied):
			// Operator signal: the blob exists but the backend refused us.
			s.logger.Warn("snapshot load denied by backend", "snapshot_id", id, "err", err)
			s.countLoad("access_denied")
		default:
			s.logger.Error("snapshot load failed", "snapshot_id", id, "err", err)
			s.countLoad("unavailable")
		}
		return nil, err
	}

	var edits []domain.FieldEdit
	if err := json.Unmarshal(data, &edits); err != nil {
		s.countLoad("corrupt")
		return nil, fmt.Errorf("%w: corrupt snapshot payload: %v", domain.ErrStoreUnavailable, err)
	}

	s.countLoad("success")
	return &domain.Snapshot{ID: id, Edits: edits}, nil
}

// normalize strips markup from edit text and drops entries without an id.
// Unknown region ids are kept: storage accepts them, the merge ignores them.
func (s *Store) normalize(edits []domain.FieldEdit) []domain.FieldEdit {
	out := make([]domain.FieldEdit, 0, len(edits))
	for _, e := range edits {
		id := strings.TrimSpace(e.ID)
		if id == "" {
			continue
		}
		out = append(out, domain.FieldEdit{
			ID:   id,
			Text: s.sanitizer.Sanitize(e.Text),
		})
	}
	return out
}

func (s *Store) countSave(outcome string) {
	if s.metrics != nil {
		s.metrics.SnapshotSaves.WithLabelValues(outcome).Inc()
	}
}

func (s *Store) countLoad(outcome string) {
	if s.metrics != nil {
		s.metrics.SnapshotLoads.WithLabelValues(outcome).Inc()
	}
}

// blobKey maps a snapshot identifier to its storage key. The suffix is an
// implementation detail, not part of the contract.
func blobKey(id string) string {
	return id + ".json"
}

// classifyCtx folds context timeouts into the store-unavailable class.
func classifyCtx(err error) error {
	if errors.Is(err, context.DeadlineExceeded) || errors.Is(err, context.Canceled) {
		return fmt.Errorf("%w: %v", domain.ErrStoreUnavailable, err)
	}
	return err
}
