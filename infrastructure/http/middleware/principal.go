package middleware

import (
	"context"
	"net/http"
	"strings"

	"github.com/missionboard/missionboard/domain/valueobject"
)

const (
	AccessTokenHeader  = "Authorization"
	RefreshTokenHeader = "Refresh-Token"
	TokenPrefix        = "Bearer "
)

type principalKey struct{}

// WithPrincipal returns a copy of ctx carrying the authenticated principal.
// It lives and dies with the request context.
func WithPrincipal(ctx context.Context, principal *valueobject.Principal) context.Context {
	return context.WithValue(ctx, principalKey{}, principal)
}

// PrincipalFrom returns the principal installed by the authorization stage,
// or nil for anonymous requests.
func PrincipalFrom(ctx context.Context) *valueobject.Principal {
	principal, _ := ctx.Value(principalKey{}).(*valueobject.Principal)
	return principal
}

// bearerToken reads header and strips the token prefix. A header without
// the prefix counts as absent.
func bearerToken(r *http.Request, header string) string {
	value := strings.TrimSpace(r.Header.Get(header))
	if len(value) < len(TokenPrefix) || !strings.EqualFold(value[:len(TokenPrefix)], TokenPrefix) {
		return ""
	}
	return strings.TrimSpace(value[len(TokenPrefix):])
}

// writeTokens sets both token headers with the same prefix clients send.
func writeTokens(w http.ResponseWriter, pair *valueobject.TokenPair) {
	w.Header().Set(AccessTokenHeader, TokenPrefix+pair.AccessToken)
	w.Header().Set(RefreshTokenHeader, TokenPrefix+pair.RefreshToken)
}

// clientIP extracts client IP from request
func clientIP(r *http.Request) string {
	if xff := r.Header.Get("X-Forwarded-For"); xff != "" {
		ips := strings.Split(xff, ",")
		return strings.TrimSpace(ips[0])
	}

	if xri := r.Header.Get("X-Real-IP"); xri != "" {
		return xri
	}

	ip := r.RemoteAddr
	if idx := strings.LastIndex(ip, ":"); idx != -1 {
		ip = ip[:idx]
	}
	return strings.Trim(ip, "[]")
}
