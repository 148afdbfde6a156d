package inbound

import (
	"context"

	"github.com/missionboard/missionboard/domain/valueobject"
)

type SignupRequest struct {
	Email    string `json:"email"`
	Name     string `json:"name"`
	Password string `json:"password"`
}

type SignupResponse struct {
	ID    string `json:"id"`
	Email string `json:"email"`
	Name  string `json:"name"`
}

type UpdatePasswordRequest struct {
	CurrentPassword string `json:"current_password"`
	NewPassword     string `json:"new_password"`
}

type UserUseCase interface {
	Signup(ctx context.Context, req SignupRequest) (*SignupResponse, error)
	UpdatePassword(ctx context.Context, principal *valueobject.Principal, req UpdatePasswordRequest) error
}
