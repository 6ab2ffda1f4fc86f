package content_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/stagelink/stagelink/pkg/content"
	"github.com/stagelink/stagelink/pkg/domain"
)

const samplePage = `
title: Launch notes
regions:
  - id: title
    editable: true
    text: "# Original title"
  - id: intro
    editable: true
    text: "The original introduction."
  - id: footer
    editable: false
    text: "All rights reserved."
`

func TestParsePage(t *testing.T) {
	page, err := content.ParsePage([]byte(samplePage))
	require.NoError(t, err)

	assert.Equal(t, "Launch notes", page.Title)
	require.Len(t, page.Regions, 3)
	assert.Equal(t, "title", page.Regions[0].ID)
	assert.True(t, page.Regions[0].Editable)
	assert.False(t, page.Regions[2].Editable)
}

func TestParsePage_RejectsDuplicateRegionIDs(t *testing.T) {
	_, err := content.ParsePage([]byte(`
title: Broken
regions:
  - id: a
    text: one
  - id: a
    text: two
`))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "duplicate region id")
}

func TestParsePage_RejectsMissingRegionID(t *testing.T) {
	_, err := content.ParsePage([]byte(`
title: Broken
regions:
  - text: anonymous
`))
	assert.Error(t, err)
}

func TestParsePage_RejectsEmptyPage(t *testing.T) {
	_, err := content.ParsePage([]byte(`title: Empty`))
	assert.Error(t, err)
}

func TestLoadPage(t *testing.T) {
	path := filepath.Join(t.TempDir(), "page.yaml")
	require.NoError(t, os.WriteFile(path, []byte(samplePage), 0644))

	page, err := content.LoadPage(path)
	require.NoError(t, err)
	assert.Equal(t, "Launch notes", page.Title)

	_, err = content.LoadPage(filepath.Join(t.TempDir(), "missing.yaml"))
	assert.Error(t, err)
}

func TestBuildRegistry_EditableRegionsOnly(t *testing.T) {
	page, err := content.ParsePage([]byte(samplePage))
	require.NoError(t, err)

	reg := content.BuildRegistry(page)
	assert.Equal(t, content.Registry{
		"title": "# Original title",
		"intro": "The original introduction.",
	}, reg)
}

func TestCapture_DeterministicAndTotal(t *testing.T) {
	reg := content.Registry{
		"intro": "b",
		"title": "a",
	}

	edits := content.Capture(reg)
	assert.Equal(t, []domain.FieldEdit{
		{ID: "intro", Text: "b"},
		{ID: "title", Text: "a"},
	}, edits)

	// Capture reads state; it must not consume it.
	assert.Equal(t, edits, content.Capture(reg))
}
