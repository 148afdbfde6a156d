package middleware

import (
	"fmt"
	"net/http"

	"github.com/missionboard/missionboard/infrastructure/http/response"
	"github.com/missionboard/missionboard/infrastructure/service/logger"
)

// ErrorMiddleware is the outermost stage of the filter chain. Stages below
// it render their own classified errors; anything that panics is turned
// into SERVER-001 here instead of escaping to net/http.
type ErrorMiddleware struct {
	logger logger.Logger
}

func NewErrorMiddleware(log logger.Logger) *ErrorMiddleware {
	return &ErrorMiddleware{logger: log}
}

func (m *ErrorMiddleware) Recover(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		defer func() {
			if rec := recover(); rec != nil {
				if rec == http.ErrAbortHandler {
					panic(rec)
				}
				err, ok := rec.(error)
				if !ok {
					err = fmt.Errorf("panic: %v", rec)
				}
				logger.LogSecurityEvent(r.Context(), m.logger, "handler_panic", "HIGH", map[string]interface{}{
					"path":  r.URL.Path,
					"error": err.Error(),
				})
				response.Fail(r.Context(), w, m.logger, err)
			}
		}()
		next.ServeHTTP(w, r)
	})
}
