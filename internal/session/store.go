package session

import (
	"net/http"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/macapp/admin-console/internal/core/domain"
)

// CookieName is the cookie that carries the session token.
const CookieName = "admin-session"

// Store is the per-request view of the session cookie.
type Store struct {
	codec   *Codec
	payload Payload
}

// Load builds a Store from the request cookie. A missing or invalid token
// yields an empty, logged-out session.
func (c *Codec) Load(r *http.Request) *Store {
	s := &Store{codec: c}
	ck, err := r.Cookie(CookieName)
	if err != nil {
		return s
	}
	if p := c.Decode(ck.Value); p != nil {
		s.payload = *p
	}
	return s
}

// User returns the signed-in user, or nil.
func (s *Store) User() *domain.SafeUser {
	return s.payload.User
}

// SetUser stores u in the session.
func (s *Store) SetUser(u *domain.SafeUser) {
	s.payload.User = u
}

// IsLoggedIn reports the session flag.
func (s *Store) IsLoggedIn() bool {
	return s.payload.IsLoggedIn
}

// SetLoggedIn sets the session flag.
func (s *Store) SetLoggedIn(v bool) {
	s.payload.IsLoggedIn = v
}

// Authenticated is the Auth Gate predicate.
func (s *Store) Authenticated() bool {
	return s.payload.Authenticated()
}

// TokenForCookie pushes the expiry to now+TTL and re-encodes the session.
func (s *Store) TokenForCookie() (string, error) {
	s.payload.ExpiresAt = jwt.NewNumericDate(s.codec.now().Add(TTL))
	return s.codec.Encode(s.payload)
}

// ExpiresAt returns the current expiry, or the zero time when unset.
func (s *Store) ExpiresAt() time.Time {
	if s.payload.ExpiresAt == nil {
		return time.Time{}
	}
	return s.payload.ExpiresAt.Time
}

// ContextKey is the echo context key under which the request's Store is kept.
const ContextKey = "session"
