package stagelink_test

import (
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/stagelink/stagelink"
)

func writePage(t *testing.T) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "page.yaml")
	err := os.WriteFile(path, []byte(`
title: Demo
regions:
  - id: title
    editable: true
    text: Demo title
`), 0644)
	require.NoError(t, err)
	return path
}

func TestNew_ServesPage(t *testing.T) {
	app, err := stagelink.New(writePage(t), []byte("secret"))
	require.NoError(t, err)

	rec := httptest.NewRecorder()
	app.Handler().ServeHTTP(rec, httptest.NewRequest("GET", "/", nil))

	assert.Equal(t, 200, rec.Code)
	assert.Contains(t, rec.Body.String(), "Demo title")
}

func TestNew_RequiresSecret(t *testing.T) {
	_, err := stagelink.New(writePage(t), nil)
	assert.Error(t, err)
}

func TestNew_RequiresReadablePage(t *testing.T) {
	_, err := stagelink.New(filepath.Join(t.TempDir(), "missing.yaml"), []byte("secret"))
	assert.Error(t, err)
}
