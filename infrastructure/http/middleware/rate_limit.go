package middleware

import (
	"net/http"
	"strconv"
	"time"

	"github.com/missionboard/missionboard/application/port/inbound"
	"github.com/missionboard/missionboard/application/port/outbound"
	"github.com/missionboard/missionboard/application/usecase"
	"github.com/missionboard/missionboard/infrastructure/http/response"
	"github.com/missionboard/missionboard/infrastructure/service/logger"
)

// LoginThrottleMiddleware turns away login attempts from blocked client
// addresses before credentials are checked. Counting and blocking happen in
// the login use case.
type LoginThrottleMiddleware struct {
	rateLimitService outbound.RateLimitService
	logger           logger.Logger
	match            func(r *http.Request) bool
	retryAfter       time.Duration
}

func NewLoginThrottleMiddleware(
	rateLimitService outbound.RateLimitService,
	log logger.Logger,
	match func(r *http.Request) bool,
	retryAfter time.Duration,
) *LoginThrottleMiddleware {
	return &LoginThrottleMiddleware{
		rateLimitService: rateLimitService,
		logger:           log,
		match:            match,
		retryAfter:       retryAfter,
	}
}

func (m *LoginThrottleMiddleware) Throttle(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if m.rateLimitService == nil || !m.match(r) {
			next.ServeHTTP(w, r)
			return
		}

		ctx := r.Context()
		ip := clientIP(r)
		key := usecase.LoginThrottleKey(ip)

		blocked, err := m.rateLimitService.IsBlocked(ctx, key)
		if err != nil {
			// Fail open: a limiter outage must not lock everyone out.
			m.logger.Error(ctx, "Failed to check block status", err, map[string]interface{}{
				"ip":  ip,
				"key": key,
			})
		}

		if blocked {
			logger.LogSecurityEvent(ctx, m.logger, "login_throttled", "MEDIUM", map[string]interface{}{
				"ip":        ip,
				"path":      r.URL.Path,
				"userAgent": r.UserAgent(),
			})
			if m.retryAfter > 0 {
				w.Header().Set("Retry-After", strconv.Itoa(int(m.retryAfter.Seconds())))
			}
			response.Fail(ctx, w, m.logger, inbound.ErrTooManyAttempts)
			return
		}

		next.ServeHTTP(w, r)
	})
}
