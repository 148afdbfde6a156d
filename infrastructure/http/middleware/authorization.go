package middleware

import (
	"net/http"

	"github.com/missionboard/missionboard/application/port/inbound"
	"github.com/missionboard/missionboard/infrastructure/http/response"
	"github.com/missionboard/missionboard/infrastructure/service/logger"
)

// AuthorizationMiddleware evaluates the access and refresh token headers
// of every request except those matched by skip.
type AuthorizationMiddleware struct {
	gate   inbound.TokenGate
	logger logger.Logger
	skip   func(r *http.Request) bool
}

func NewAuthorizationMiddleware(gate inbound.TokenGate, log logger.Logger, skip func(r *http.Request) bool) *AuthorizationMiddleware {
	if skip == nil {
		skip = func(*http.Request) bool { return false }
	}
	return &AuthorizationMiddleware{gate: gate, logger: log, skip: skip}
}

func (m *AuthorizationMiddleware) Authorize(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if m.skip(r) {
			next.ServeHTTP(w, r)
			return
		}

		ctx := r.Context()
		decision, err := m.gate.Authorize(ctx, bearerToken(r, AccessTokenHeader), bearerToken(r, RefreshTokenHeader))

		// Rotated tokens go out even when this request is rejected.
		if decision != nil && decision.Rotated != nil {
			writeTokens(w, decision.Rotated)
		}
		if err != nil {
			response.Fail(ctx, w, m.logger, err)
			return
		}

		if decision != nil && decision.Principal != nil {
			ctx = WithPrincipal(ctx, decision.Principal)
		}
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}
