package session

import (
	"log/slog"
	"net/http"

	"github.com/stagelink/stagelink/internal/logging"
)

// CookieName carries the preview token in the viewer's browsing context.
const CookieName = "stagelink_preview"

// Controller manages the preview session state machine per viewer context:
// Normal (no cookie) <-> PreviewActive (signed cookie bound to a snapshot).
// Entering while already active replaces the binding; there is no nesting.
type Controller struct {
	signer *Signer
	logger *slog.Logger
}

// ControllerOption configures the Controller.
type ControllerOption func(*Controller)

// WithLogger configures a logger for session events.
func WithLogger(logger *slog.Logger) ControllerOption {
	return func(c *Controller) {
		c.logger = logger
	}
}

// NewController creates a Controller using signer for token issuance.
func NewController(signer *Signer, opts ...ControllerOption) *Controller {
	c := &Controller{
		signer: signer,
		logger: logging.NewNop(),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Enter activates a preview session bound to snapshotID. It never fails:
// an id that resolves to nothing surfaces as an error page at render time,
// not here.
func (c *Controller) Enter(w http.ResponseWriter, snapshotID string) {
	http.SetCookie(w, &http.Cookie{
		Name:     CookieName,
		Value:    c.signer.Mint(snapshotID),
		Path:     "/",
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	})
	c.logger.Info("preview session entered", "snapshot_id", snapshotID)
}

// Exit clears the preview session, returning the viewer to Normal.
func (c *Controller) Exit(w http.ResponseWriter) {
	http.SetCookie(w, &http.Cookie{
		Name:     CookieName,
		Value:    "",
		Path:     "/",
		MaxAge:   -1,
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	})
	c.logger.Info("preview session exited")
}

// Resolve reports the preview bound to the request, if any. A missing,
// tampered or expired token all mean Normal mode; tampering is logged since
// it should not occur in legitimate traffic.
func (c *Controller) Resolve(r *http.Request) (Preview, bool) {
	cookie, err := r.Cookie(CookieName)
	if err != nil || cookie.Value == "" {
		return Preview{}, false
	}

	preview, err := c.signer.Verify(cookie.Value)
	if err != nil {
		c.logger.Warn("discarding unverifiable preview token", "err", err)
		return Preview{}, false
	}

	return preview, true
}
