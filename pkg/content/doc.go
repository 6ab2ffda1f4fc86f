/*
Package content models the base page template, the editable field registry,
edit capture, and the renderer that merges base content with a snapshot
overlay.

A page is an ordered list of Markdown regions declared in YAML. The registry
is an explicit id -> text mapping built once per render pass; capture reads
it back as a deterministic edit sequence. The renderer produces one of three
variants: canonical (read-only), edit mode (regions directly editable), or
preview (overlay applied, persistent banner). A preview whose snapshot cannot
be resolved degrades to a full error page instead.
*/
package content
