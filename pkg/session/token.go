package session

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/base64"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"
)

// Preview is the viewer-scoped binding to one snapshot id. It is carried in a
// signed token; possession of a valid token is the only preview capability.
type Preview struct {
	SnapshotID string    `json:"snapshot_id"`
	IssuedAt   time.Time `json:"issued_at"`
}

// ErrInvalidToken covers malformed, tampered and expired tokens. Callers
// treat all three as "no active session".
var ErrInvalidToken = errors.New("invalid preview token")

// Signer mints and verifies tamper-evident preview tokens. The token is
// base64url(payload) + "." + base64url(HMAC-SHA256(payload)); render logic
// never trusts a client-supplied snapshot id without a verifying signature.
type Signer struct {
	secret []byte
	maxAge time.Duration
	now    func() time.Time
}

// DefaultMaxAge is how long a minted token verifies before it counts as
// expired.
const DefaultMaxAge = 24 * time.Hour

// SignerOption configures the Signer.
type SignerOption func(*Signer)

// WithMaxAge overrides the token expiry window.
func WithMaxAge(d time.Duration) SignerOption {
	return func(s *Signer) {
		s.maxAge = d
	}
}

// WithClock overrides the time source. Tests use this to exercise expiry.
func WithClock(now func() time.Time) SignerOption {
	return func(s *Signer) {
		s.now = now
	}
}

// NewSigner creates a Signer with the given HMAC secret.
func NewSigner(secret []byte, opts ...SignerOption) (*Signer, error) {
	if len(secret) == 0 {
		return nil, errors.New("session secret cannot be empty")
	}
	s := &Signer{
		secret: secret,
		maxAge: DefaultMaxAge,
		now:    time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s, nil
}

// Mint issues a token bound to snapshotID. Token issuance never fails;
// whether the snapshot actually exists is resolved at render time.
func (s *Signer) Mint(snapshotID string) string {
	payload, _ := json.Marshal(Preview{
		SnapshotID: snapshotID,
		IssuedAt:   s.now().UTC(),
	})
	return encode(payload) + "." + encode(s.sign(payload))
}

// Verify checks the token's signature and age and returns the bound preview.
func (s *Signer) Verify(token string) (Preview, error) {
	payloadPart, sigPart, ok := strings.Cut(token, ".")
	if !ok {
		return Preview{}, fmt.Errorf("%w: missing signature", ErrInvalidToken)
	}

	payload, err := decode(payloadPart)
	if err != nil {
		return Preview{}, fmt.Errorf("%w: %v", ErrInvalidToken, err)
	}
	sig, err := decode(sigPart)
	if err != nil {
		return Preview{}, fmt.Errorf("%w: %v", ErrInvalidToken, err)
	}

	if !hmac.Equal(sig, s.sign(payload)) {
		return Preview{}, fmt.Errorf("%w: signature mismatch", ErrInvalidToken)
	}

	var p Preview
	if err := json.Unmarshal(payload, &p); err != nil {
		return Preview{}, fmt.Errorf("%w: %v", ErrInvalidToken, err)
	}

	if s.now().Sub(p.IssuedAt) > s.maxAge {
		return Preview{}, fmt.Errorf("%w: expired", ErrInvalidToken)
	}

	return p, nil
}

func (s *Signer) sign(payload []byte) []byte {
	mac := hmac.New(sha256.New, s.secret)
	mac.Write(payload)
	return mac.Sum(nil)
}

func encode(b []byte) string {
	return base64.RawURLEncoding.EncodeToString(b)
}

func decode(s string) ([]byte, error) {
	return base64.RawURLEncoding.DecodeString(s)
}
