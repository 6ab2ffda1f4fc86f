package stagelink

import (
	"fmt"
	"log/slog"
	"net/http"
	"time"

	httpadapter "github.com/stagelink/stagelink/internal/adapters/http"
	"github.com/stagelink/stagelink/internal/adapters/memory"
	"github.com/stagelink/stagelink/internal/logging"
	"github.com/stagelink/stagelink/pkg/content"
	"github.com/stagelink/stagelink/pkg/observability"
	"github.com/stagelink/stagelink/pkg/ports"
	"github.com/stagelink/stagelink/pkg/session"
	"github.com/stagelink/stagelink/pkg/snapshot"
)

// Version is the release version of stagelink.
const Version = "0.1.0"

// App is the high-level entry point for the stagelink library. It wires the
// snapshot store, preview session controller and renderer behind a single
// HTTP handler.
type App struct {
	Page      *content.Page
	Renderer  *content.Renderer
	Snapshots *snapshot.Store
	Sessions  *session.Controller

	blobs         ports.BlobStore
	logger        *slog.Logger
	metrics       *observability.Metrics
	baseURL       string
	sessionMaxAge time.Duration
	storeTimeout  time.Duration
}

// Option defines a functional option for configuring the App.
type Option func(*App)

// WithBlobStore injects the blob backend. Defaults to an in-memory store,
// which only suits demos and tests.
func WithBlobStore(blobs ports.BlobStore) Option {
	return func(a *App) {
		a.blobs = blobs
	}
}

// WithLogger sets the application logger.
func WithLogger(logger *slog.Logger) Option {
	return func(a *App) {
		a.logger = logger
	}
}

// WithMetrics enables Prometheus instrumentation.
func WithMetrics(m *observability.Metrics) Option {
	return func(a *App) {
		a.metrics = m
	}
}

// WithBaseURL sets the external base URL embedded in share links.
func WithBaseURL(base string) Option {
	return func(a *App) {
		a.baseURL = base
	}
}

// WithSessionMaxAge overrides how long preview tokens stay valid.
func WithSessionMaxAge(d time.Duration) Option {
	return func(a *App) {
		a.sessionMaxAge = d
	}
}

// WithStoreTimeout bounds each blob operation.
func WithStoreTimeout(d time.Duration) Option {
	return func(a *App) {
		a.storeTimeout = d
	}
}

// New loads the page at pagePath and assembles the application. The secret
// signs preview session tokens and must not be empty.
func New(pagePath string, secret []byte, opts ...Option) (*App, error) {
	app := &App{
		logger:        logging.NewNop(),
		sessionMaxAge: session.DefaultMaxAge,
		storeTimeout:  snapshot.DefaultTimeout,
	}
	for _, opt := range opts {
		opt(app)
	}

	page, err := content.LoadPage(pagePath)
	if err != nil {
		return nil, fmt.Errorf("load page: %w", err)
	}
	app.Page = page
	app.Renderer = content.NewRenderer()

	if app.blobs == nil {
		app.blobs = memory.NewStore()
	}

	storeOpts := []snapshot.Option{
		snapshot.WithLogger(app.logger),
		snapshot.WithTimeout(app.storeTimeout),
	}
	if app.metrics != nil {
		storeOpts = append(storeOpts, snapshot.WithMetrics(app.metrics))
	}
	app.Snapshots = snapshot.NewStore(app.blobs, storeOpts...)

	signer, err := session.NewSigner(secret, session.WithMaxAge(app.sessionMaxAge))
	if err != nil {
		return nil, fmt.Errorf("session signer: %w", err)
	}
	app.Sessions = session.NewController(signer, session.WithLogger(app.logger))

	return app, nil
}

// Handler returns the HTTP handler serving the page, the save endpoint and
// the preview session endpoints.
func (a *App) Handler() http.Handler {
	serverOpts := []httpadapter.Option{
		httpadapter.WithLogger(a.logger),
		httpadapter.WithBaseURL(a.baseURL),
	}
	if a.metrics != nil {
		serverOpts = append(serverOpts, httpadapter.WithMetrics(a.metrics))
	}

	server := httpadapter.NewServer(a.Page, a.Renderer, a.Snapshots, a.Sessions, serverOpts...)
	return server.Handler()
}
