package handler

import (
	"net/http"

	"github.com/gorilla/mux"

	"github.com/missionboard/missionboard/application/port/inbound"
	"github.com/missionboard/missionboard/infrastructure/http/response"
	"github.com/missionboard/missionboard/infrastructure/service/logger"
)

type AuthHandler struct {
	authUseCase inbound.AuthUseCase
	userUseCase inbound.UserUseCase
	logger      logger.Logger
}

func NewAuthHandler(authUseCase inbound.AuthUseCase, userUseCase inbound.UserUseCase, log logger.Logger) *AuthHandler {
	return &AuthHandler{
		authUseCase: authUseCase,
		userUseCase: userUseCase,
		logger:      log,
	}
}

// RegisterRoutes registers the user routes. Login is answered by the
// authentication filter and never reaches the router.
func (h *AuthHandler) RegisterRoutes(router *mux.Router) {
	router.HandleFunc("/api/users/signup", h.Signup).Methods(http.MethodPost)
	router.HandleFunc("/api/users/me", h.Me).Methods(http.MethodGet)
	router.HandleFunc("/api/users/password", h.UpdatePassword).Methods(http.MethodPatch)
	router.HandleFunc("/api/users/logout", h.Logout).Methods(http.MethodPost)
}

func (h *AuthHandler) Signup(w http.ResponseWriter, r *http.Request) {
	var req inbound.SignupRequest
	if !decode(w, r, &req) {
		return
	}

	res, err := h.userUseCase.Signup(r.Context(), req)
	if err != nil {
		response.Fail(r.Context(), w, h.logger, err)
		return
	}

	response.Success(w, http.StatusCreated, "User created successfully", res)
}

func (h *AuthHandler) Me(w http.ResponseWriter, r *http.Request) {
	p, ok := principal(w, r)
	if !ok {
		return
	}
	response.Success(w, http.StatusOK, "success", p)
}

func (h *AuthHandler) UpdatePassword(w http.ResponseWriter, r *http.Request) {
	p, ok := principal(w, r)
	if !ok {
		return
	}

	var req inbound.UpdatePasswordRequest
	if !decode(w, r, &req) {
		return
	}

	if err := h.userUseCase.UpdatePassword(r.Context(), p, req); err != nil {
		response.Fail(r.Context(), w, h.logger, err)
		return
	}

	response.Success(w, http.StatusOK, "Password updated, please log in again", nil)
}

func (h *AuthHandler) Logout(w http.ResponseWriter, r *http.Request) {
	p, ok := principal(w, r)
	if !ok {
		return
	}

	if err := h.authUseCase.Logout(r.Context(), p.Subject); err != nil {
		response.Fail(r.Context(), w, h.logger, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}
