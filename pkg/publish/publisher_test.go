package publish_test

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"sync"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/stagelink/stagelink/pkg/domain"
	"github.com/stagelink/stagelink/pkg/publish"
)

func saveServer(t *testing.T, handler http.HandlerFunc) *httptest.Server {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)
	return srv
}

func TestPublisher_Success(t *testing.T) {
	srv := saveServer(t, func(w http.ResponseWriter, r *http.Request) {
		var edits []domain.FieldEdit
		require.NoError(t, json.NewDecoder(r.Body).Decode(&edits))
		assert.Equal(t, []domain.FieldEdit{{ID: "title", Text: "Hello"}}, edits)

		w.WriteHeader(http.StatusCreated)
		json.NewEncoder(w).Encode(publish.Result{
			SnapshotID: "abc123",
			PreviewURL: "http://example.test/preview/abc123",
		})
	})

	p := publish.NewPublisher(srv.URL)
	result, err := p.Publish(context.Background(), []domain.FieldEdit{{ID: "title", Text: "Hello"}})
	require.NoError(t, err)
	assert.Equal(t, "abc123", result.SnapshotID)

	link, ok := p.ShareLink()
	assert.True(t, ok)
	assert.Contains(t, link, "abc123")

	p.DismissShare()
	_, ok = p.ShareLink()
	assert.False(t, ok, "dismissing clears the displayed link only")
}

func TestPublisher_FailureSurfacesRawText(t *testing.T) {
	srv := saveServer(t, func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "blob store unavailable: connection refused", http.StatusBadGateway)
	})

	p := publish.NewPublisher(srv.URL)
	_, err := p.Publish(context.Background(), nil)
	require.Error(t, err)

	msg, ok := p.LastError()
	assert.True(t, ok)
	assert.Contains(t, msg, "blob store unavailable")

	p.DismissError()
	_, ok = p.LastError()
	assert.False(t, ok)
}

func TestPublisher_GuardSuppressesConcurrentPublish(t *testing.T) {
	release := make(chan struct{})
	hit := make(chan struct{})
	var calls atomic.Int32

	srv := saveServer(t, func(w http.ResponseWriter, r *http.Request) {
		if calls.Add(1) == 1 {
			close(hit)
		}
		<-release
		json.NewEncoder(w).Encode(publish.Result{SnapshotID: "abc123", PreviewURL: "/preview/abc123"})
	})

	p := publish.NewPublisher(srv.URL)

	var wg sync.WaitGroup
	wg.Add(1)
	go func() {
		defer wg.Done()
		_, err := p.Publish(context.Background(), nil)
		assert.NoError(t, err)
	}()

	// Wait until the first request actually hits the server.
	<-hit

	assert.True(t, p.Busy())
	_, err := p.Publish(context.Background(), nil)
	assert.ErrorIs(t, err, domain.ErrPublishInFlight)

	close(release)
	wg.Wait()

	assert.Equal(t, int32(1), calls.Load(), "suppressed publish must not reach the network")
	assert.False(t, p.Busy())

	// After settling, the user may retry immediately.
	_, err = p.Publish(context.Background(), nil)
	assert.NoError(t, err)
}

func TestPublisher_GuardClearsOnFailure(t *testing.T) {
	srv := saveServer(t, func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "boom", http.StatusInternalServerError)
	})

	p := publish.NewPublisher(srv.URL)
	_, err := p.Publish(context.Background(), nil)
	require.Error(t, err)
	assert.False(t, p.Busy(), "guard must clear on the failure path too")
}
