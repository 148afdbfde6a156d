package jwt

import (
	"encoding/base64"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"

	"github.com/missionboard/missionboard/application/port/outbound"
)

const minSecretLength = 32

var ErrWeakSecret = fmt.Errorf("jwt secret must be at least %d bytes", minSecretLength)

type Config struct {
	Secret string
	Issuer string
}

// JWTService is an HS256 TokenCodec. The secret is copied at construction
// and only read afterwards.
type JWTService struct {
	secret []byte
	issuer string
	now    func() time.Time
}

type claims struct {
	TokenType outbound.TokenType `json:"token_type"`
	jwt.RegisteredClaims
}

func NewJWTService(cfg Config) (*JWTService, error) {
	if len(cfg.Secret) < minSecretLength {
		return nil, ErrWeakSecret
	}
	return &JWTService{
		secret: []byte(cfg.Secret),
		issuer: cfg.Issuer,
		now:    time.Now,
	}, nil
}

// WithClock returns a copy of the service that reads time from now.
func (s *JWTService) WithClock(now func() time.Time) *JWTService {
	cp := *s
	cp.now = now
	return &cp
}

func (s *JWTService) Issue(subject string, tokenType outbound.TokenType, ttl time.Duration) (*outbound.Token, error) {
	if subject == "" {
		return nil, errors.New("token subject cannot be empty")
	}
	if tokenType != outbound.TokenTypeAccess && tokenType != outbound.TokenTypeRefresh {
		return nil, fmt.Errorf("unknown token type: %q", tokenType)
	}
	if ttl <= 0 {
		return nil, errors.New("token ttl must be positive")
	}

	issuedAt := jwt.NewNumericDate(s.now())
	expiresAt := jwt.NewNumericDate(issuedAt.Add(ttl))

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims{
		TokenType: tokenType,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   subject,
			Issuer:    s.issuer,
			IssuedAt:  issuedAt,
			ExpiresAt: expiresAt,
			ID:        uuid.NewString(),
		},
	})

	signed, err := token.SignedString(s.secret)
	if err != nil {
		return nil, fmt.Errorf("failed to sign %s token: %w", tokenType, err)
	}

	return &outbound.Token{
		Value:     signed,
		Subject:   subject,
		Type:      tokenType,
		IssuedAt:  issuedAt.Time,
		ExpiresAt: expiresAt.Time,
	}, nil
}

func (s *JWTService) Verify(tokenString string) (*outbound.TokenClaims, error) {
	if err := s.verifySignature(tokenString); err != nil {
		return nil, err
	}

	options := []jwt.ParserOption{
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithExpirationRequired(),
		jwt.WithTimeFunc(s.now),
	}
	if s.issuer != "" {
		options = append(options, jwt.WithIssuer(s.issuer))
	}

	parsed := &claims{}
	_, err := jwt.NewParser(options...).ParseWithClaims(tokenString, parsed, func(t *jwt.Token) (interface{}, error) {
		return s.secret, nil
	})
	if err != nil {
		return nil, classify(err)
	}

	if parsed.Subject == "" || parsed.IssuedAt == nil {
		return nil, fmt.Errorf("%w: missing subject or iat", outbound.ErrTokenMalformed)
	}
	if parsed.TokenType != outbound.TokenTypeAccess && parsed.TokenType != outbound.TokenTypeRefresh {
		return nil, fmt.Errorf("%w: unknown token type %q", outbound.ErrTokenMalformed, parsed.TokenType)
	}

	return &outbound.TokenClaims{
		Subject:   parsed.Subject,
		Type:      parsed.TokenType,
		IssuedAt:  parsed.IssuedAt.Time,
		ExpiresAt: parsed.ExpiresAt.Time,
	}, nil
}

// verifySignature checks the HMAC over header.payload before anything in
// those segments is decoded, so any change to them reports a signature
// failure rather than a decoding one.
func (s *JWTService) verifySignature(tokenString string) error {
	parts := strings.Split(tokenString, ".")
	if len(parts) != 3 {
		return fmt.Errorf("%w: token has %d segments", outbound.ErrTokenMalformed, len(parts))
	}
	sig, err := base64.RawURLEncoding.DecodeString(parts[2])
	if err != nil {
		return fmt.Errorf("%w: signature segment: %v", outbound.ErrTokenMalformed, err)
	}
	if err := jwt.SigningMethodHS256.Verify(parts[0]+"."+parts[1], sig, s.secret); err != nil {
		return fmt.Errorf("%w: %v", outbound.ErrTokenSignatureInvalid, err)
	}
	return nil
}

// classify folds jwt parser errors into the three codec failure reasons.
func classify(err error) error {
	switch {
	case errors.Is(err, jwt.ErrTokenMalformed):
		return fmt.Errorf("%w: %v", outbound.ErrTokenMalformed, err)
	case errors.Is(err, jwt.ErrTokenSignatureInvalid), errors.Is(err, jwt.ErrTokenUnverifiable):
		return fmt.Errorf("%w: %v", outbound.ErrTokenSignatureInvalid, err)
	case errors.Is(err, jwt.ErrTokenExpired):
		return fmt.Errorf("%w: %v", outbound.ErrTokenExpired, err)
	default:
		return fmt.Errorf("%w: %v", outbound.ErrTokenMalformed, err)
	}
}
