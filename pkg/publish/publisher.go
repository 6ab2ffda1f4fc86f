package publish

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strings"
	"sync"

	"github.com/stagelink/stagelink/internal/logging"
	"github.com/stagelink/stagelink/pkg/domain"
)

// Result is what a settled, successful publish produces: the snapshot id and
// the shareable preview URL embedding it.
type Result struct {
	SnapshotID string `json:"id"`
	PreviewURL string `json:"preview_url"`
}

// Publisher sends captured edits to the save endpoint and tracks the dialog
// state of the edit surface: the share link after a success, the failure text
// after an error.
//
// At most one publish may be outstanding per Publisher. The guard is a
// boolean set synchronously before the request starts and cleared
// unconditionally when it settles; a publish attempted while one is in
// flight returns domain.ErrPublishInFlight with no observable effect.
type Publisher struct {
	endpoint string
	client   *http.Client
	logger   *slog.Logger

	mu        sync.Mutex
	inFlight  bool
	shareLink string
	lastError string
}

// Option configures the Publisher.
type Option func(*Publisher)

// WithHTTPClient overrides the HTTP client.
func WithHTTPClient(client *http.Client) Option {
	return func(p *Publisher) {
		p.client = client
	}
}

// WithLogger configures a logger for publish events.
func WithLogger(logger *slog.Logger) Option {
	return func(p *Publisher) {
		p.logger = logger
	}
}

// NewPublisher creates a Publisher posting to the given save endpoint URL.
func NewPublisher(endpoint string, opts ...Option) *Publisher {
	p := &Publisher{
		endpoint: endpoint,
		client:   http.DefaultClient,
		logger:   logging.NewNop(),
	}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// Publish sends the captured edits to the save endpoint. On success the
// share link becomes available via ShareLink; on failure the raw failure
// text via LastError. Either way the guard clears when the request settles.
func (p *Publisher) Publish(ctx context.Context, edits []domain.FieldEdit) (*Result, error) {
	p.mu.Lock()
	if p.inFlight {
		p.mu.Unlock()
		return nil, domain.ErrPublishInFlight
	}
	p.inFlight = true
	p.mu.Unlock()

	result, err := p.send(ctx, edits)

	p.mu.Lock()
	p.inFlight = false
	if err != nil {
		p.lastError = err.Error()
	} else {
		p.shareLink = result.PreviewURL
	}
	p.mu.Unlock()

	if err != nil {
		p.logger.Error("publish failed", "err", err)
		return nil, err
	}
	p.logger.Info("publish succeeded", "snapshot_id", result.SnapshotID)
	return result, nil
}

func (p *Publisher) send(ctx context.Context, edits []domain.FieldEdit) (*Result, error) {
	payload, err := json.Marshal(edits)
	if err != nil {
		return nil, fmt.Errorf("marshal edits: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, p.endpoint, bytes.NewReader(payload))
	if err != nil {
		return nil, fmt.Errorf("build save request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := p.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("save request: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("read save response: %w", err)
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		// The body is the server's textual error message; surface it raw
		// for diagnostics.
		return nil, fmt.Errorf("save rejected (%d): %s", resp.StatusCode, strings.TrimSpace(string(body)))
	}

	var result Result
	if err := json.Unmarshal(body, &result); err != nil {
		return nil, fmt.Errorf("decode save response: %w", err)
	}
	return &result, nil
}

// Busy reports whether a publish is currently in flight.
func (p *Publisher) Busy() bool {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.inFlight
}

// ShareLink returns the preview URL of the last successful publish, if it
// has not been dismissed.
func (p *Publisher) ShareLink() (string, bool) {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.shareLink, p.shareLink != ""
}

// LastError returns the failure text of the last failed publish, if it has
// not been dismissed.
func (p *Publisher) LastError() (string, bool) {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.lastError, p.lastError != ""
}

// DismissShare clears the displayed share link. The snapshot itself is
// unaffected; dismissal is display state only.
func (p *Publisher) DismissShare() {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.shareLink = ""
}

// DismissError clears the displayed failure without retrying.
func (p *Publisher) DismissError() {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.lastError = ""
}
