package middleware

import (
	"net/http"

	"github.com/gorilla/mux"

	"github.com/missionboard/missionboard/application/port/inbound"
	"github.com/missionboard/missionboard/infrastructure/http/response"
	"github.com/missionboard/missionboard/infrastructure/service/logger"
)

// AccessRules classifies request paths as protected or open. A pattern
// ending in "/**" covers the path itself and everything below it; any
// other pattern is an exact path. Unmatched paths are open.
type AccessRules struct {
	matcher *mux.Router
	logger  logger.Logger
}

func NewAccessRules(log logger.Logger, patterns ...string) *AccessRules {
	matcher := mux.NewRouter()
	for _, p := range patterns {
		if len(p) > 3 && p[len(p)-3:] == "/**" {
			base := p[:len(p)-3]
			matcher.Path(base)
			matcher.PathPrefix(base + "/")
			continue
		}
		matcher.Path(p)
	}
	return &AccessRules{matcher: matcher, logger: log}
}

func (a *AccessRules) Protected(r *http.Request) bool {
	var match mux.RouteMatch
	return a.matcher.Match(r, &match)
}

func (a *AccessRules) Enforce(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if a.Protected(r) && PrincipalFrom(r.Context()) == nil {
			logger.LogAuthEvent(r.Context(), a.logger, "access_denied", "", clientIP(r), false, map[string]interface{}{
				"path": r.URL.Path,
			})
			response.Fail(r.Context(), w, a.logger, inbound.ErrAuthenticationRequired)
			return
		}
		next.ServeHTTP(w, r)
	})
}
