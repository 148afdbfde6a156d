package inbound

import (
	"context"
	"errors"

	"github.com/missionboard/missionboard/domain/valueobject"
)

// Authentication failures. ErrRefreshNotCurrent and ErrPrincipalNotFound are
// always returned joined with ErrAuthenticationRejected so callers can test
// for either.
var (
	ErrAuthenticationRejected = errors.New("authentication rejected")
	ErrRefreshNotCurrent      = errors.New("refresh token is not current")
	ErrPrincipalNotFound      = errors.New("principal not found")
	ErrCredentialMismatch     = errors.New("invalid email or password")
	ErrAuthenticationRequired = errors.New("authentication required")
	ErrTooManyAttempts        = errors.New("too many login attempts")
)

type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
	ClientIP string `json:"-"`
}

type LoginResponse struct {
	Tokens    *valueobject.TokenPair `json:"-"`
	Principal *valueobject.Principal `json:"principal"`
}

type AuthUseCase interface {
	Login(ctx context.Context, req LoginRequest) (*LoginResponse, error)
	Logout(ctx context.Context, subject string) error
}

type PrincipalResolver interface {
	Resolve(ctx context.Context, subject string) (*valueobject.Principal, error)
}

// AuthorizationDecision is the outcome of evaluating the tokens presented
// with a request. Principal is set when the request is authenticated;
// Rotated is set when a new access token was minted from a refresh token.
// Both nil means the request proceeds anonymously.
type AuthorizationDecision struct {
	Principal *valueobject.Principal
	Rotated   *valueobject.TokenPair
}

type TokenGate interface {
	// Authorize may return a non-nil decision together with an error: a
	// rotation that must reach the client even though the current request
	// is rejected.
	Authorize(ctx context.Context, accessToken, refreshToken string) (*AuthorizationDecision, error)
}
