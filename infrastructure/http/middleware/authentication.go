package middleware

import (
	"encoding/json"
	"net/http"

	"github.com/missionboard/missionboard/application/port/inbound"
	"github.com/missionboard/missionboard/infrastructure/http/response"
	"github.com/missionboard/missionboard/infrastructure/service/logger"
)

type loginBody struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// AuthenticationMiddleware answers login requests itself; every other
// request passes through untouched.
type AuthenticationMiddleware struct {
	authUseCase inbound.AuthUseCase
	logger      logger.Logger
	match       func(r *http.Request) bool
}

func NewAuthenticationMiddleware(authUseCase inbound.AuthUseCase, log logger.Logger, match func(r *http.Request) bool) *AuthenticationMiddleware {
	return &AuthenticationMiddleware{authUseCase: authUseCase, logger: log, match: match}
}

func (m *AuthenticationMiddleware) Authenticate(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if !m.match(r) {
			next.ServeHTTP(w, r)
			return
		}

		var body loginBody
		if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
			response.BadRequest(w, "Invalid request body")
			return
		}

		res, err := m.authUseCase.Login(r.Context(), inbound.LoginRequest{
			Email:    body.Email,
			Password: body.Password,
			ClientIP: clientIP(r),
		})
		if err != nil {
			response.Fail(r.Context(), w, m.logger, err)
			return
		}

		writeTokens(w, res.Tokens)
		response.Success(w, http.StatusOK, "Login successful", res.Principal)
	})
}
