package session_test

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/stagelink/stagelink/pkg/session"
)

var secret = []byte("test-secret-keep-out")

func newSigner(t *testing.T, opts ...session.SignerOption) *session.Signer {
	t.Helper()
	s, err := session.NewSigner(secret, opts...)
	require.NoError(t, err)
	return s
}

func TestSigner_MintVerifyRoundTrip(t *testing.T) {
	s := newSigner(t)

	token := s.Mint("abc123")
	preview, err := s.Verify(token)
	require.NoError(t, err)
	assert.Equal(t, "abc123", preview.SnapshotID)
	assert.WithinDuration(t, time.Now(), preview.IssuedAt, time.Minute)
}

func TestSigner_RejectsEmptySecret(t *testing.T) {
	_, err := session.NewSigner(nil)
	assert.Error(t, err)
}

func TestSigner_RejectsTampering(t *testing.T) {
	s := newSigner(t)
	token := s.Mint("abc123")

	// Flip a byte in the payload half.
	tampered := "x" + token[1:]
	_, err := s.Verify(tampered)
	assert.ErrorIs(t, err, session.ErrInvalidToken)

	_, err = s.Verify("not-a-token")
	assert.ErrorIs(t, err, session.ErrInvalidToken)
}

func TestSigner_RejectsForeignSignature(t *testing.T) {
	s := newSigner(t)

	other, err := session.NewSigner([]byte("a-different-secret"))
	require.NoError(t, err)

	_, err = s.Verify(other.Mint("abc123"))
	assert.ErrorIs(t, err, session.ErrInvalidToken)
}

func TestSigner_RejectsExpiredToken(t *testing.T) {
	current := time.Now()
	s := newSigner(t,
		session.WithMaxAge(time.Hour),
		session.WithClock(func() time.Time { return current }),
	)

	token := s.Mint("abc123")

	current = current.Add(2 * time.Hour)
	_, err := s.Verify(token)
	assert.ErrorIs(t, err, session.ErrInvalidToken)
}

func requestWithCookies(t *testing.T, rec *httptest.ResponseRecorder) *http.Request {
	t.Helper()
	req := httptest.NewRequest("GET", "/", nil)
	for _, c := range rec.Result().Cookies() {
		req.AddCookie(c)
	}
	return req
}

func TestController_EnterThenResolve(t *testing.T) {
	c := session.NewController(newSigner(t))

	rec := httptest.NewRecorder()
	c.Enter(rec, "abc123")

	preview, active := c.Resolve(requestWithCookies(t, rec))
	assert.True(t, active)
	assert.Equal(t, "abc123", preview.SnapshotID)
}

func TestController_ReentrantEnterReplacesBinding(t *testing.T) {
	c := session.NewController(newSigner(t))

	rec := httptest.NewRecorder()
	c.Enter(rec, "first")
	c.Enter(rec, "second")

	// The browser keeps only the latest cookie value for a name/path pair.
	cookies := rec.Result().Cookies()
	last := cookies[len(cookies)-1]

	req := httptest.NewRequest("GET", "/", nil)
	req.AddCookie(last)

	preview, active := c.Resolve(req)
	assert.True(t, active)
	assert.Equal(t, "second", preview.SnapshotID)
}

func TestController_ExitClearsSession(t *testing.T) {
	c := session.NewController(newSigner(t))

	rec := httptest.NewRecorder()
	c.Exit(rec)

	cookies := rec.Result().Cookies()
	require.Len(t, cookies, 1)
	assert.Equal(t, session.CookieName, cookies[0].Name)
	assert.Empty(t, cookies[0].Value)
	assert.Negative(t, cookies[0].MaxAge)
}

func TestController_ResolveWithoutCookie(t *testing.T) {
	c := session.NewController(newSigner(t))

	_, active := c.Resolve(httptest.NewRequest("GET", "/", nil))
	assert.False(t, active)
}

func TestController_ResolveIgnoresGarbageCookie(t *testing.T) {
	c := session.NewController(newSigner(t))

	req := httptest.NewRequest("GET", "/", nil)
	req.AddCookie(&http.Cookie{Name: session.CookieName, Value: "garbage"})

	_, active := c.Resolve(req)
	assert.False(t, active)
}
