package domain

// FieldEdit is a single (region id, replacement text) pair captured from an
// editable region. Immutable once part of a persisted snapshot.
type FieldEdit struct {
	ID   string `json:"id"`
	Text string `json:"text"`
}

// Snapshot is an immutable, identifiable set of field edits representing one
// published preview state. The ID is server-generated and opaque; a new save
// always produces a new Snapshot rather than updating an existing one.
type Snapshot struct {
	ID    string      `json:"id"`
	Edits []FieldEdit `json:"edits"`
}

// Overlay resolves the edits into an id -> text mapping for merging atop base
// content. Each region id appears once per capture; if a duplicate slips
// through anyway, the last entry wins.
func (s *Snapshot) Overlay() map[string]string {
	overlay := make(map[string]string, len(s.Edits))
	for _, e := range s.Edits {
		overlay[e.ID] = e.Text
	}
	return overlay
}
