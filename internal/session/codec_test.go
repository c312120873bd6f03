package session

import (
	"encoding/base64"
	"strings"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/macapp/admin-console/internal/core/domain"
)

func fixedCodec(secret string, now time.Time) *Codec {
	c := NewCodec(secret)
	c.now = func() time.Time { return now }
	return c
}

func sampleUser() *domain.SafeUser {
	name := "admin"
	role := "admin"
	return &domain.SafeUser{
		ID:         "0123456789abcdefghijklmnopqrstuv",
		UserName:   &name,
		Role:       &role,
		Status:     domain.StatusNormal,
		CreateTime: time.Date(2024, 5, 1, 8, 30, 0, 0, time.UTC),
	}
}

func TestCodec_RoundTrip(t *testing.T) {
	now := time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)
	c := fixedCodec("a-long-enough-secret-for-testing-purposes", now)

	in := Payload{User: sampleUser(), IsLoggedIn: true}
	in.ExpiresAt = jwt.NewNumericDate(now.Add(time.Hour))

	token, err := c.Encode(in)
	if err != nil {
		t.Fatalf("encode: %v", err)
	}
	if n := strings.Count(token, "."); n != 2 {
		t.Fatalf("expected three segments, got %d dots", n)
	}

	out := c.Decode(token)
	if out == nil {
		t.Fatalf("expected payload, got nil")
	}
	if !out.IsLoggedIn || out.User == nil || out.User.ID != in.User.ID {
		t.Fatalf("unexpected payload: %+v", out)
	}
	if *out.User.UserName != "admin" || !out.User.CreateTime.Equal(in.User.CreateTime) {
		t.Fatalf("user fields lost: %+v", out.User)
	}
	if !out.ExpiresAt.Time.Equal(in.ExpiresAt.Time) {
		t.Fatalf("exp mismatch: %v vs %v", out.ExpiresAt.Time, in.ExpiresAt.Time)
	}
}

func TestCodec_Deterministic(t *testing.T) {
	now := time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)
	c := fixedCodec("secret", now)
	p := Payload{User: sampleUser(), IsLoggedIn: true}

	a, err := c.Encode(p)
	if err != nil {
		t.Fatalf("encode: %v", err)
	}
	b, _ := c.Encode(p)
	if a != b {
		t.Fatalf("same payload and secret must sign identically")
	}
}

func TestCodec_NoExpiryIsAccepted(t *testing.T) {
	c := NewCodec("secret")
	token, err := c.Encode(Payload{IsLoggedIn: false})
	if err != nil {
		t.Fatalf("encode: %v", err)
	}
	if c.Decode(token) == nil {
		t.Fatalf("token without exp must decode")
	}
}

func TestCodec_TamperedSignatureRejected(t *testing.T) {
	c := NewCodec("secret")
	token, err := c.Encode(Payload{User: sampleUser(), IsLoggedIn: true})
	if err != nil {
		t.Fatalf("encode: %v", err)
	}

	dot := strings.LastIndex(token, ".")
	sig := token[dot+1:]
	// The last character of an unpadded HS256 signature carries two unused
	// bits, so only the positions before it are guaranteed to change the MAC.
	for i := 0; i < len(sig)-1; i++ {
		repl := byte('A')
		if sig[i] == 'A' {
			repl = 'B'
		}
		tampered := token[:dot+1] + sig[:i] + string(repl) + sig[i+1:]
		if c.Decode(tampered) != nil {
			t.Fatalf("tampered signature at %d accepted", i)
		}
	}
}

func TestCodec_TamperedPayloadRejected(t *testing.T) {
	c := NewCodec("secret")
	token, _ := c.Encode(Payload{IsLoggedIn: false})
	parts := strings.Split(token, ".")

	forged := base64.RawURLEncoding.EncodeToString([]byte(`{"isLoggedIn":true,"user":{"id":"x"}}`))
	if c.Decode(parts[0]+"."+forged+"."+parts[2]) != nil {
		t.Fatalf("forged payload accepted")
	}
}

func TestCodec_ExpiredRejected(t *testing.T) {
	now := time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)
	c := fixedCodec("secret", now)

	p := Payload{User: sampleUser(), IsLoggedIn: true}
	p.ExpiresAt = jwt.NewNumericDate(now.Add(-time.Second))
	token, err := c.Encode(p)
	if err != nil {
		t.Fatalf("encode: %v", err)
	}
	if c.Decode(token) != nil {
		t.Fatalf("expired token accepted")
	}
}

func TestCodec_MalformedInputFailsClosed(t *testing.T) {
	c := NewCodec("secret")
	other := NewCodec("another-secret")
	foreign, _ := other.Encode(Payload{User: sampleUser(), IsLoggedIn: true})

	none := base64.RawURLEncoding.EncodeToString([]byte(`{"alg":"none","typ":"JWT"}`)) + "." +
		base64.RawURLEncoding.EncodeToString([]byte(`{"isLoggedIn":true}`)) + "."

	inputs := map[string]string{
		"empty":         "",
		"one segment":   "abc",
		"two segments":  "abc.def",
		"four segments": "a.b.c.d",
		"not base64":    "!!!.???.***",
		"wrong secret":  foreign,
		"alg none":      none,
		"garbage json":  base64.RawURLEncoding.EncodeToString([]byte(`{"alg":"HS256"}`)) + "." + base64.RawURLEncoding.EncodeToString([]byte(`{not json`)) + ".sig",
	}
	for name, in := range inputs {
		if c.Decode(in) != nil {
			t.Fatalf("%s: expected nil payload", name)
		}
	}
}

func TestCodec_EmptySecret(t *testing.T) {
	c := NewCodec("")
	if _, err := c.Encode(Payload{}); err == nil {
		t.Fatalf("expected error for empty secret")
	}
	if c.Decode("a.b.c") != nil {
		t.Fatalf("expected nil payload for empty secret")
	}
}
