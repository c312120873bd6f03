// Package session implements the stateless admin session: a signed token
// carried in the admin-session cookie. The server keeps no session state, so
// a token stays valid until it expires even after logout.
package session

import (
	"errors"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/macapp/admin-console/internal/core/domain"
)

// TTL is the lifetime of a session token and of its cookie.
const TTL = 7 * 24 * time.Hour

// Payload is the session state encoded into a token.
type Payload struct {
	User       *domain.SafeUser `json:"user,omitempty"`
	IsLoggedIn bool             `json:"isLoggedIn"`
	jwt.RegisteredClaims
}

// Authenticated reports whether the payload describes a logged-in user. A
// login flag without a user does not count.
func (p *Payload) Authenticated() bool {
	return p != nil && p.IsLoggedIn && p.User != nil
}

// Codec signs and verifies session tokens with HMAC-SHA256.
type Codec struct {
	secret []byte
	now    func() time.Time
}

// NewCodec returns a Codec keyed with secret.
func NewCodec(secret string) *Codec {
	return &Codec{secret: []byte(secret), now: time.Now}
}

// Encode serialises p into a compact header.payload.signature token.
func (c *Codec) Encode(p Payload) (string, error) {
	if len(c.secret) == 0 {
		return "", errors.New("session: empty signing secret")
	}
	t := jwt.NewWithClaims(jwt.SigningMethodHS256, p)
	return t.SignedString(c.secret)
}

// Decode verifies token and returns its payload. It returns nil for any
// malformed input: wrong segment count, bad signature, unexpected algorithm,
// invalid JSON or an exp in the past.
func (c *Codec) Decode(token string) *Payload {
	if token == "" || len(c.secret) == 0 {
		return nil
	}

	var p Payload
	parsed, err := jwt.ParseWithClaims(token, &p, func(t *jwt.Token) (interface{}, error) {
		return c.secret, nil
	},
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithTimeFunc(c.now),
	)
	if err != nil || !parsed.Valid {
		return nil
	}
	return &p
}
