package content

import (
	"sort"

	"github.com/stagelink/stagelink/pkg/domain"
)

// Registry is the explicit mapping from editable region id to its current
// text. It is built fresh for each render pass rather than looked up
// ambiently, so capture and rendering share one source of truth.
type Registry map[string]string

// BuildRegistry collects the editable regions of a page. Non-editable
// regions are not registered; they can never appear in a capture.
func BuildRegistry(page *Page) Registry {
	reg := make(Registry)
	for _, region := range page.Regions {
		if region.Editable {
			reg[region.ID] = region.Text
		}
	}
	return reg
}

// Capture reads back every registered region as a FieldEdit. The capture is
// total: either all registered regions are read, or Capture is not invoked.
// Output is sorted by id for determinism; consumers treat it as a set keyed
// by id anyway.
func Capture(reg Registry) []domain.FieldEdit {
	edits := make([]domain.FieldEdit, 0, len(reg))
	for id, text := range reg {
		edits = append(edits, domain.FieldEdit{ID: id, Text: text})
	}
	sort.Slice(edits, func(i, j int) bool {
		return edits[i].ID < edits[j].ID
	})
	return edits
}
