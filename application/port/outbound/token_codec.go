package outbound

import (
	"errors"
	"time"
)

var (
	ErrTokenMalformed        = errors.New("token malformed")
	ErrTokenSignatureInvalid = errors.New("token signature invalid")
	ErrTokenExpired          = errors.New("token expired")
)

type TokenType string

const (
	TokenTypeAccess  TokenType = "access"
	TokenTypeRefresh TokenType = "refresh"
)

// Token is a signed, self-contained credential. Value is what goes on the wire.
type Token struct {
	Value     string
	Subject   string
	Type      TokenType
	IssuedAt  time.Time
	ExpiresAt time.Time
}

// TokenClaims is what survives verification.
type TokenClaims struct {
	Subject   string
	Type      TokenType
	IssuedAt  time.Time
	ExpiresAt time.Time
}

// TokenCodec signs and verifies tokens. Implementations hold only read-only
// key material and must be safe for concurrent use.
type TokenCodec interface {
	Issue(subject string, tokenType TokenType, ttl time.Duration) (*Token, error)
	// Verify returns ErrTokenMalformed, ErrTokenSignatureInvalid or
	// ErrTokenExpired (possibly wrapped) when the token cannot be used.
	Verify(token string) (*TokenClaims, error)
}
