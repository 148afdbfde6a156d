package usecase

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/missionboard/missionboard/application/port/inbound"
	"github.com/missionboard/missionboard/application/port/outbound"
	"github.com/missionboard/missionboard/domain/valueobject"
	"github.com/missionboard/missionboard/infrastructure/service/logger"
)

// TokenGate decides what a request's tokens are worth:
//
//  1. a valid access token authenticates the request;
//  2. otherwise a valid refresh token that is still the subject's current
//     one mints a new access token for the next call;
//  3. otherwise a present but unusable access token rejects the request;
//  4. otherwise the request continues anonymously.
//
// A rotation never authorizes the request that carried it.
type TokenGate struct {
	tokenCodec     outbound.TokenCodec
	refreshStore   outbound.RefreshTokenStore
	resolver       inbound.PrincipalResolver
	logger         logger.Logger
	accessTokenTTL time.Duration
}

func NewTokenGate(
	tokenCodec outbound.TokenCodec,
	refreshStore outbound.RefreshTokenStore,
	resolver inbound.PrincipalResolver,
	log logger.Logger,
	accessTokenTTL time.Duration,
) *TokenGate {
	return &TokenGate{
		tokenCodec:     tokenCodec,
		refreshStore:   refreshStore,
		resolver:       resolver,
		logger:         log,
		accessTokenTTL: accessTokenTTL,
	}
}

func (g *TokenGate) Authorize(ctx context.Context, accessToken, refreshToken string) (*inbound.AuthorizationDecision, error) {
	var accessErr error
	if accessToken != "" {
		claims, err := g.verify(accessToken, outbound.TokenTypeAccess)
		if err == nil {
			principal, err := g.resolver.Resolve(ctx, claims.Subject)
			if err != nil {
				if errors.Is(err, inbound.ErrPrincipalNotFound) {
					g.reject(ctx, claims.Subject, "principal_not_found")
					return nil, fmt.Errorf("%w: %w", inbound.ErrAuthenticationRejected, err)
				}
				return nil, err
			}
			return &inbound.AuthorizationDecision{Principal: principal}, nil
		}
		accessErr = err
	}

	if refreshToken != "" {
		claims, err := g.verify(refreshToken, outbound.TokenTypeRefresh)
		if err == nil {
			return g.rotate(ctx, claims, refreshToken, accessErr)
		}
		g.logger.Debug(ctx, "Ignoring unusable refresh token", map[string]interface{}{"reason": err.Error()})
	}

	if accessErr != nil {
		g.reject(ctx, "", accessErr.Error())
		return nil, fmt.Errorf("%w: %w", inbound.ErrAuthenticationRejected, accessErr)
	}

	return &inbound.AuthorizationDecision{}, nil
}

func (g *TokenGate) rotate(ctx context.Context, claims *outbound.TokenClaims, refreshToken string, accessErr error) (*inbound.AuthorizationDecision, error) {
	current, err := g.refreshStore.Matches(ctx, claims.Subject, refreshToken)
	if err != nil {
		return nil, fmt.Errorf("failed to check refresh token: %w", err)
	}
	if !current {
		logger.LogSecurityEvent(ctx, g.logger, "refresh_not_current", "MEDIUM", map[string]interface{}{
			"subject": claims.Subject,
		})
		return nil, fmt.Errorf("%w: %w", inbound.ErrAuthenticationRejected, inbound.ErrRefreshNotCurrent)
	}

	// A logout or a newer login may land between Matches and here; Touch
	// only succeeds if the record is still this token.
	touched, err := g.refreshStore.Touch(ctx, claims.Subject, refreshToken)
	if err != nil {
		return nil, fmt.Errorf("failed to record rotation: %w", err)
	}
	if !touched {
		logger.LogSecurityEvent(ctx, g.logger, "refresh_revoked_during_rotation", "MEDIUM", map[string]interface{}{
			"subject": claims.Subject,
		})
		return nil, fmt.Errorf("%w: %w", inbound.ErrAuthenticationRejected, inbound.ErrRefreshNotCurrent)
	}

	access, err := g.tokenCodec.Issue(claims.Subject, outbound.TokenTypeAccess, g.accessTokenTTL)
	if err != nil {
		return nil, err
	}

	logger.LogAuthEvent(ctx, g.logger, "token_rotated", claims.Subject, "", true, nil)

	decision := &inbound.AuthorizationDecision{
		Rotated: valueobject.NewTokenPair(access.Value, refreshToken, access.ExpiresAt, claims.ExpiresAt),
	}
	if accessErr != nil {
		return decision, fmt.Errorf("%w: %w", inbound.ErrAuthenticationRejected, accessErr)
	}
	return decision, nil
}

func (g *TokenGate) verify(token string, want outbound.TokenType) (*outbound.TokenClaims, error) {
	claims, err := g.tokenCodec.Verify(token)
	if err != nil {
		return nil, err
	}
	if claims.Type != want {
		return nil, fmt.Errorf("%w: expected %s token, got %s", outbound.ErrTokenMalformed, want, claims.Type)
	}
	return claims, nil
}

func (g *TokenGate) reject(ctx context.Context, subject, reason string) {
	logger.LogAuthEvent(ctx, g.logger, "access_rejected", subject, "", false, map[string]interface{}{
		"reason": reason,
	})
}
