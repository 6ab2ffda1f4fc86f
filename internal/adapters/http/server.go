package http

import (
	"bytes"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/stagelink/stagelink/internal/logging"
	"github.com/stagelink/stagelink/pkg/content"
	"github.com/stagelink/stagelink/pkg/domain"
	"github.com/stagelink/stagelink/pkg/observability"
	"github.com/stagelink/stagelink/pkg/session"
	"github.com/stagelink/stagelink/pkg/snapshot"
)

// Server wires the snapshot pipeline behind HTTP routes:
//
//	GET  /               render the page (edit mode via ?edit=1)
//	POST /api/snapshots  save captured edits, returns the new snapshot id
//	GET  /preview/{id}   enter a preview session, redirect to /
//	GET  /preview/exit   leave the preview session, redirect to /
type Server struct {
	page      *content.Page
	renderer  *content.Renderer
	snapshots *snapshot.Store
	sessions  *session.Controller

	baseURL string
	logger  *slog.Logger
	metrics *observability.Metrics
}

// Option configures the Server.
type Option func(*Server)

// WithBaseURL sets the external base URL used to build share links.
// Without it, preview URLs are host-relative.
func WithBaseURL(base string) Option {
	return func(s *Server) {
		s.baseURL = base
	}
}

// WithLogger configures the request logger.
func WithLogger(logger *slog.Logger) Option {
	return func(s *Server) {
		s.logger = logger
	}
}

// WithMetrics enables HTTP and render instrumentation plus the /metrics
// endpoint.
func WithMetrics(m *observability.Metrics) Option {
	return func(s *Server) {
		s.metrics = m
	}
}

// NewServer creates a Server for the given page and collaborators.
func NewServer(page *content.Page, renderer *content.Renderer, snapshots *snapshot.Store, sessions *session.Controller, opts ...Option) *Server {
	s := &Server{
		page:      page,
		renderer:  renderer,
		snapshots: snapshots,
		sessions:  sessions,
		logger:    logging.NewNop(),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Handler builds the chi router.
func (s *Server) Handler() http.Handler {
	r := chi.NewRouter()
	r.Use(s.instrument)

	r.Get("/", s.renderPage)
	r.Post("/api/snapshots", s.saveSnapshot)
	r.Get("/preview/exit", s.exitPreview)
	r.Get("/preview/{id}", s.enterPreview)

	r.Get("/healthz", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"status":"ok"}`))
	})

	if s.metrics != nil {
		r.Handle("/metrics", s.metrics.Handler())
	}

	return r
}

// renderPage resolves the request's render context and emits the page.
// Rendering is stateless: preview status is re-resolved and at most one
// store read happens per request, so previews are always fresh.
func (s *Server) renderPage(w http.ResponseWriter, r *http.Request) {
	rctx := content.RenderContext{
		EditMode: r.URL.Query().Get("edit") == "1",
	}

	mode := "canonical"
	if rctx.EditMode {
		mode = "edit"
	}

	if preview, active := s.sessions.Resolve(r); active {
		rctx.IsPreview = true
		rctx.SnapshotID = preview.SnapshotID
		mode = "preview"

		snap, err := s.snapshots.Load(r.Context(), preview.SnapshotID)
		if err != nil {
			rctx.Err = content.PreviewError(err)
			mode = "preview_error"
		} else {
			rctx.Overlay = snap.Overlay()
		}
	}

	if s.metrics != nil {
		s.metrics.PreviewRenders.WithLabelValues(mode).Inc()
	}

	// Render to a buffer first so a template failure yields a clean 500
	// instead of a half-written page.
	var buf bytes.Buffer
	if err := s.renderer.Render(&buf, s.page, rctx); err != nil {
		s.logger.Error("page render failed", "err", err)
		http.Error(w, "Internal render error", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.Write(buf.Bytes())
}

// saveSnapshot accepts the captured field edits and persists them as a new
// snapshot. Failures return a non-success status with the error text as the
// body; the client surfaces that text in its error dialog.
func (s *Server) saveSnapshot(w http.ResponseWriter, r *http.Request) {
	var edits []domain.FieldEdit
	if err := json.NewDecoder(r.Body).Decode(&edits); err != nil {
		http.Error(w, fmt.Sprintf("Invalid request body: %v", err), http.StatusBadRequest)
		return
	}

	id, err := s.snapshots.Save(r.Context(), edits)
	if err != nil {
		http.Error(w, fmt.Sprintf("Save failed: %v", err), http.StatusBadGateway)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusCreated)
	json.NewEncoder(w).Encode(map[string]string{
		"id":          id,
		"preview_url": s.baseURL + "/preview/" + id,
	})
}

// enterPreview activates a preview session bound to the given snapshot id
// and redirects to the content path. Existence of the snapshot is not
// checked here; a dangling id surfaces as the error page on render.
func (s *Server) enterPreview(w http.ResponseWriter, r *http.Request) {
	s.sessions.Enter(w, chi.URLParam(r, "id"))
	http.Redirect(w, r, "/", http.StatusSeeOther)
}

// exitPreview clears the preview session and returns to normal mode.
func (s *Server) exitPreview(w http.ResponseWriter, r *http.Request) {
	s.sessions.Exit(w)
	http.Redirect(w, r, "/", http.StatusSeeOther)
}

// statusWriter captures the response code for logging and metrics.
type statusWriter struct {
	http.ResponseWriter
	status int
}

func (w *statusWriter) WriteHeader(code int) {
	w.status = code
	w.ResponseWriter.WriteHeader(code)
}

// instrument logs each request and records its latency.
func (s *Server) instrument(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		sw := &statusWriter{ResponseWriter: w, status: http.StatusOK}

		next.ServeHTTP(sw, r)

		elapsed := time.Since(start)
		route := chi.RouteContext(r.Context()).RoutePattern()
		if route == "" {
			route = r.URL.Path
		}

		s.logger.Info("request served",
			"method", r.Method,
			"route", route,
			"status", sw.status,
			"elapsed", elapsed,
		)
		if s.metrics != nil {
			s.metrics.ObserveRequest(route, fmt.Sprintf("%d", sw.status), elapsed)
		}
	})
}
