package content

import (
	"bytes"
	"errors"
	"fmt"
	"html/template"
	"io"

	"github.com/microcosm-cc/bluemonday"
	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/extension"

	"github.com/stagelink/stagelink/pkg/domain"
)

// RenderError is the render-time failure surfaced as a full error page.
type RenderError struct {
	Message     string
	Recoverable bool
}

// User-facing error copy. NotFound and AccessDenied share one message so the
// page never leaks backend ACL topology.
const (
	msgMissing   = "This preview does not exist or is no longer available."
	msgTransient = "The preview backend is temporarily unavailable. Please try again."
)

// PreviewError maps a snapshot load failure onto the error page variant.
func PreviewError(err error) *RenderError {
	if errors.Is(err, domain.ErrNotFound) || errors.Is(err, domain.ErrAccessDenied) {
		return &RenderError{Message: msgMissing, Recoverable: false}
	}
	return &RenderError{Message: msgTransient, Recoverable: true}
}

// RenderContext is the ephemeral, per-request rendering input. It is computed
// fresh on each request and never persisted.
type RenderContext struct {
	// EditMode switches editable regions to directly-editable presentation.
	// Only honored on the canonical (non-preview) path.
	EditMode bool

	// IsPreview marks the request as bound to a preview session.
	IsPreview  bool
	SnapshotID string

	// Overlay is the resolved id -> text mapping from the previewed
	// snapshot. Nil outside of preview or when resolution failed.
	Overlay map[string]string

	// Err, when set on a preview request, forces the error page variant.
	Err *RenderError
}

// Renderer merges base page content with an optional snapshot overlay and
// produces the viewable HTML. It only ever reads; it performs no writes.
type Renderer struct {
	md       goldmark.Markdown
	sanitize *bluemonday.Policy
	tmpl     *template.Template
}

// NewRenderer creates a Renderer with GFM markdown and UGC sanitization.
func NewRenderer() *Renderer {
	return &Renderer{
		md: goldmark.New(
			goldmark.WithExtensions(extension.GFM),
		),
		sanitize: bluemonday.UGCPolicy(),
		tmpl:     template.Must(template.New("page").Parse(pageTemplate)),
	}
}

type regionView struct {
	ID       string
	Editable bool
	EditMode bool
	HTML     template.HTML
}

type pageView struct {
	Title      string
	EditMode   bool
	IsPreview  bool
	SnapshotID string
	Err        *RenderError
	Regions    []regionView
}

// Render writes the viewable output for page under rctx.
//
// Canonical path: every region read-only, no overlay. Edit mode: editable
// regions become directly editable, content unchanged. Preview path: overlay
// text substituted into editable regions, persistent preview banner. A
// preview whose snapshot failed to resolve renders the error page variant,
// never the canonical content, so a broken link cannot masquerade as the
// live page.
func (r *Renderer) Render(w io.Writer, page *Page, rctx RenderContext) error {
	view := pageView{
		Title:      page.Title,
		EditMode:   rctx.EditMode && !rctx.IsPreview,
		IsPreview:  rctx.IsPreview,
		SnapshotID: rctx.SnapshotID,
	}

	if rctx.IsPreview && rctx.Err != nil {
		view.Err = rctx.Err
		return r.tmpl.Execute(w, view)
	}

	for _, region := range page.Regions {
		text := region.Text
		if rctx.IsPreview && region.Editable {
			if replacement, ok := rctx.Overlay[region.ID]; ok {
				text = replacement
			}
		}

		html, err := r.regionHTML(text)
		if err != nil {
			return fmt.Errorf("render region %q: %w", region.ID, err)
		}

		view.Regions = append(view.Regions, regionView{
			ID:       region.ID,
			Editable: region.Editable,
			EditMode: view.EditMode && region.Editable,
			HTML:     html,
		})
	}

	return r.tmpl.Execute(w, view)
}

// regionHTML converts region markdown to sanitized HTML.
func (r *Renderer) regionHTML(text string) (template.HTML, error) {
	var buf bytes.Buffer
	if err := r.md.Convert([]byte(text), &buf); err != nil {
		return "", err
	}
	return template.HTML(r.sanitize.SanitizeBytes(buf.Bytes())), nil
}

const pageTemplate = `<!DOCTYPE html>
<html lang="en">
<head>
<meta charset="utf-8">
<title>{{.Title}}</title>
<style>
body { font-family: system-ui, sans-serif; margin: 2rem auto; max-width: 42rem; padding: 0 1rem; }
.preview-banner { position: sticky; top: 0; background: #1d4ed8; color: #fff; padding: .5rem 1rem; }
.preview-banner a { color: #fff; }
.region.editing { outline: 2px dashed #94a3b8; outline-offset: 4px; }
.error-page { border: 1px solid #dc2626; padding: 1rem; }
dialog { border: 1px solid #94a3b8; }
</style>
</head>
<body>
{{- if .IsPreview}}
<div class="preview-banner" id="preview-banner">
Previewing snapshot {{.SnapshotID}} &middot; <a href="/preview/exit">Exit preview</a>
</div>
{{- end}}
{{- if .Err}}
<div class="error-page">
<h1>Preview unavailable</h1>
<p>{{.Err.Message}}</p>
{{- if .Err.Recoverable}}
<p>This looks temporary. Reloading the page may help.</p>
{{- end}}
<p><a href="/preview/exit">Exit preview</a></p>
</div>
{{- else}}
<main id="page-regions">
{{- range .Regions}}
<div class="region{{if .EditMode}} editing{{end}}" data-region-id="{{.ID}}"{{if .EditMode}} contenteditable="true"{{end}}>{{.HTML}}</div>
{{- end}}
</main>
{{- if .EditMode}}
<footer>
<button id="share-button">Share preview</button>
<dialog id="share-dialog"><p>Preview link: <a id="share-link" href=""></a></p><form method="dialog"><button>Close</button></form></dialog>
<dialog id="error-dialog"><p id="error-message"></p><form method="dialog"><button>Close</button></form></dialog>
<script>
(function () {
  var busy = false;
  var button = document.getElementById("share-button");
  button.addEventListener("click", function () {
    if (busy) { return; }
    busy = true;
    button.disabled = true;
    var edits = [];
    document.querySelectorAll("#page-regions .editing").forEach(function (el) {
      edits.push({ id: el.dataset.regionId, text: el.innerText });
    });
    fetch("/api/snapshots", {
      method: "POST",
      headers: { "Content-Type": "application/json" },
      body: JSON.stringify(edits)
    }).then(function (resp) {
      if (!resp.ok) { return resp.text().then(function (t) { throw new Error(t); }); }
      return resp.json();
    }).then(function (body) {
      var link = document.getElementById("share-link");
      link.href = body.preview_url;
      link.textContent = body.preview_url;
      document.getElementById("share-dialog").showModal();
    }).catch(function (err) {
      document.getElementById("error-message").textContent = err.message;
      document.getElementById("error-dialog").showModal();
    }).finally(function () {
      busy = false;
      button.disabled = false;
    });
  });
})();
</script>
</footer>
{{- end}}
{{- end}}
</body>
</html>
`
