package security

import (
	"crypto/rand"
	"encoding/hex"
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// ErrMissingSecret is wrapped by SigningError when a kind has no signing secret configured.
var ErrMissingSecret = errors.New("signing secret not configured")

// Kind selects which secret and TTL a token is issued and verified with.
type Kind int

const (
	// KindAccess is the short-lived bearer credential.
	KindAccess Kind = iota
	// KindRefresh is the long-lived credential delivered only via cookie.
	KindRefresh
)

func (k Kind) String() string {
	switch k {
	case KindAccess:
		return "access"
	case KindRefresh:
		return "refresh"
	default:
		return "unknown"
	}
}

// Subject identifies who a token is issued for.
type Subject struct {
	UserID string
	Email  string
}

// Claims are the JWT claims carried by both token kinds.
type Claims struct {
	jwt.RegisteredClaims
	UserID string `json:"userId"`
	Email  string `json:"email"`
	Type   string `json:"typ"`
}

// IssuedAtTime returns the iat claim, or the zero time.
func (c *Claims) IssuedAtTime() time.Time {
	if c.IssuedAt == nil {
		return time.Time{}
	}
	return c.IssuedAt.Time
}

// ExpiresAtTime returns the exp claim, or the zero time.
func (c *Claims) ExpiresAtTime() time.Time {
	if c.ExpiresAt == nil {
		return time.Time{}
	}
	return c.ExpiresAt.Time
}

// SigningError reports that a token could not be signed. It only occurs on misconfiguration.
type SigningError struct {
	Kind Kind
	Err  error
}

func (e *SigningError) Error() string {
	return fmt.Sprintf("sign %s token: %v", e.Kind, e.Err)
}

func (e *SigningError) Unwrap() error { return e.Err }

// TokenCodec issues and verifies HS256 access and refresh tokens. Each kind has its own secret
// and TTL; a token signed for one kind never verifies as the other.
type TokenCodec struct {
	accessSecret  []byte
	refreshSecret []byte
	issuer        string
	accessTTL     time.Duration
	refreshTTL    time.Duration
	now           func() time.Time
}

// NewTokenCodec returns a TokenCodec. Secrets may be empty; Issue then fails with SigningError
// and Verify rejects every token of that kind.
func NewTokenCodec(accessSecret, refreshSecret, issuer string, accessTTL, refreshTTL time.Duration) *TokenCodec {
	return &TokenCodec{
		accessSecret:  []byte(accessSecret),
		refreshSecret: []byte(refreshSecret),
		issuer:        issuer,
		accessTTL:     accessTTL,
		refreshTTL:    refreshTTL,
		now:           time.Now,
	}
}

// TTL returns the lifetime of tokens of the given kind.
func (c *TokenCodec) TTL(kind Kind) time.Duration {
	if kind == KindRefresh {
		return c.refreshTTL
	}
	return c.accessTTL
}

func (c *TokenCodec) secret(kind Kind) []byte {
	switch kind {
	case KindAccess:
		return c.accessSecret
	case KindRefresh:
		return c.refreshSecret
	default:
		return nil
	}
}

// Issue signs a token of the given kind for subject.
func (c *TokenCodec) Issue(kind Kind, subject Subject) (string, error) {
	secret := c.secret(kind)
	if len(secret) == 0 {
		return "", &SigningError{Kind: kind, Err: ErrMissingSecret}
	}
	jti, err := generateJTI()
	if err != nil {
		return "", &SigningError{Kind: kind, Err: err}
	}
	now := c.now().UTC()
	claims := Claims{
		RegisteredClaims: jwt.RegisteredClaims{
			ID:        jti,
			Subject:   subject.UserID,
			Issuer:    c.issuer,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(c.TTL(kind))),
		},
		UserID: subject.UserID,
		Email:  subject.Email,
		Type:   kind.String(),
	}
	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(secret)
	if err != nil {
		return "", &SigningError{Kind: kind, Err: err}
	}
	return token, nil
}

// Verify checks signature, expiry, issuer and kind. It returns nil on any failure.
func (c *TokenCodec) Verify(kind Kind, tokenString string) *Claims {
	secret := c.secret(kind)
	if len(secret) == 0 || tokenString == "" {
		return nil
	}
	parser := jwt.NewParser(
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithExpirationRequired(),
		jwt.WithIssuer(c.issuer),
		jwt.WithTimeFunc(c.now),
	)
	token, err := parser.ParseWithClaims(tokenString, &Claims{}, func(*jwt.Token) (interface{}, error) {
		return secret, nil
	})
	if err != nil {
		return nil
	}
	claims, ok := token.Claims.(*Claims)
	if !ok || !token.Valid {
		return nil
	}
	if claims.Type != kind.String() || claims.UserID == "" || claims.UserID != claims.Subject {
		return nil
	}
	return claims
}

func generateJTI() (string, error) {
	b := make([]byte, 16)
	if _, err := rand.Read(b); err != nil {
		return "", err
	}
	return hex.EncodeToString(b), nil
}
