package security

import (
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

func TestTokenCodec_RoundTrip(t *testing.T) {
	c := NewTestTokenCodec()
	subject := Subject{UserID: "u1", Email: "a@x.com"}

	for _, kind := range []Kind{KindAccess, KindRefresh} {
		t.Run(kind.String(), func(t *testing.T) {
			tok, err := c.Issue(kind, subject)
			if err != nil {
				t.Fatalf("Issue: %v", err)
			}
			claims := c.Verify(kind, tok)
			if claims == nil {
				t.Fatal("Verify returned nil for a fresh token")
			}
			if claims.UserID != subject.UserID || claims.Email != subject.Email {
				t.Errorf("claims = %+v, want userId=%q email=%q", claims, subject.UserID, subject.Email)
			}
			ttl := claims.ExpiresAtTime().Sub(claims.IssuedAtTime())
			if ttl != c.TTL(kind) {
				t.Errorf("exp-iat = %v, want %v", ttl, c.TTL(kind))
			}
		})
	}
}

func TestTokenCodec_CrossKindRejected(t *testing.T) {
	c := NewTestTokenCodec()
	subject := Subject{UserID: "u1", Email: "a@x.com"}

	access, err := c.Issue(KindAccess, subject)
	if err != nil {
		t.Fatalf("Issue access: %v", err)
	}
	refresh, err := c.Issue(KindRefresh, subject)
	if err != nil {
		t.Fatalf("Issue refresh: %v", err)
	}
	if c.Verify(KindRefresh, access) != nil {
		t.Error("access token verified as refresh")
	}
	if c.Verify(KindAccess, refresh) != nil {
		t.Error("refresh token verified as access")
	}
}

func TestTokenCodec_SameSecretStillSeparatesKinds(t *testing.T) {
	c := NewTokenCodec("shared", "shared", "iss", time.Minute, time.Hour)
	tok, err := c.Issue(KindRefresh, Subject{UserID: "u1"})
	if err != nil {
		t.Fatalf("Issue: %v", err)
	}
	if c.Verify(KindAccess, tok) != nil {
		t.Error("typ claim must keep kinds apart even with a shared secret")
	}
}

func TestTokenCodec_Expired(t *testing.T) {
	c := NewTestTokenCodec()
	base := time.Date(2025, 1, 1, 12, 0, 0, 0, time.UTC)
	c.now = func() time.Time { return base }

	tok, err := c.Issue(KindAccess, Subject{UserID: "u1", Email: "a@x.com"})
	if err != nil {
		t.Fatalf("Issue: %v", err)
	}
	c.now = func() time.Time { return base.Add(14 * time.Minute) }
	if c.Verify(KindAccess, tok) == nil {
		t.Fatal("token should still be valid before expiry")
	}
	c.now = func() time.Time { return base.Add(15*time.Minute + time.Second) }
	if c.Verify(KindAccess, tok) != nil {
		t.Fatal("token should be rejected after expiry")
	}
}

func TestTokenCodec_VerifyRejects(t *testing.T) {
	c := NewTestTokenCodec()
	good, err := c.Issue(KindAccess, Subject{UserID: "u1", Email: "a@x.com"})
	if err != nil {
		t.Fatalf("Issue: %v", err)
	}
	other := NewTokenCodec("other-access", "other-refresh", "test-issuer", time.Minute, time.Hour)
	foreign, _ := other.Issue(KindAccess, Subject{UserID: "u1"})
	wrongIss := NewTokenCodec("test-access-secret", "test-refresh-secret", "someone-else", time.Minute, time.Hour)
	foreignIss, _ := wrongIss.Issue(KindAccess, Subject{UserID: "u1"})

	none := jwt.NewWithClaims(jwt.SigningMethodNone, Claims{UserID: "u1", Type: "access"})
	noneTok, _ := none.SignedString(jwt.UnsafeAllowNoneSignatureType)

	parts := strings.Split(good, ".")
	tampered := parts[0] + "." + parts[1] + "x." + parts[2]

	cases := map[string]string{
		"empty":          "",
		"malformed":      "not-a-jwt",
		"wrong secret":   foreign,
		"wrong issuer":   foreignIss,
		"alg none":       noneTok,
		"tampered claim": tampered,
	}
	for name, tok := range cases {
		t.Run(name, func(t *testing.T) {
			if got := c.Verify(KindAccess, tok); got != nil {
				t.Errorf("Verify accepted %s token", name)
			}
		})
	}
}

func TestTokenCodec_DistinctTokensPerIssue(t *testing.T) {
	c := NewTestTokenCodec()
	a, _ := c.Issue(KindRefresh, Subject{UserID: "u1"})
	b, _ := c.Issue(KindRefresh, Subject{UserID: "u1"})
	if a == b {
		t.Error("two issues in the same second must produce different tokens")
	}
}

func TestTokenCodec_MissingSecret(t *testing.T) {
	c := NewTokenCodec("", "refresh", "iss", time.Minute, time.Hour)
	_, err := c.Issue(KindAccess, Subject{UserID: "u1"})
	var se *SigningError
	if !errors.As(err, &se) {
		t.Fatalf("Issue without secret: want SigningError, got %v", err)
	}
	if se.Kind != KindAccess || !errors.Is(err, ErrMissingSecret) {
		t.Errorf("SigningError = %+v", se)
	}
	if c.Verify(KindAccess, "anything") != nil {
		t.Error("Verify without secret must return nil")
	}
}
