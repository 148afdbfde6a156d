package usecase

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"

	"github.com/missionboard/missionboard/application/port/inbound"
	"github.com/missionboard/missionboard/application/port/outbound"
	"github.com/missionboard/missionboard/domain/entity"
	"github.com/missionboard/missionboard/domain/valueobject"
	"github.com/missionboard/missionboard/infrastructure/service/logger"
)

type UserUseCase struct {
	userRepo        outbound.UserRepository
	refreshStore    outbound.RefreshTokenStore
	passwordService outbound.PasswordService
	logger          logger.Logger
}

func NewUserUseCase(
	userRepo outbound.UserRepository,
	refreshStore outbound.RefreshTokenStore,
	passwordService outbound.PasswordService,
	log logger.Logger,
) *UserUseCase {
	return &UserUseCase{
		userRepo:        userRepo,
		refreshStore:    refreshStore,
		passwordService: passwordService,
		logger:          log,
	}
}

func (uc *UserUseCase) Signup(ctx context.Context, req inbound.SignupRequest) (*inbound.SignupResponse, error) {
	email := valueobject.NormalizeEmail(req.Email)
	if err := valueobject.ValidateEmail(email); err != nil {
		return nil, err
	}
	if err := valueobject.ValidatePassword(req.Password); err != nil {
		return nil, err
	}
	name := strings.TrimSpace(req.Name)
	if name == "" {
		return nil, entity.ErrEmptyName
	}

	exists, err := uc.userRepo.ExistsByEmail(ctx, email)
	if err != nil {
		return nil, fmt.Errorf("failed to check email: %w", err)
	}
	if exists {
		return nil, outbound.ErrUserAlreadyExists
	}

	hash, err := uc.passwordService.HashPassword(req.Password)
	if err != nil {
		return nil, err
	}

	user := entity.NewUser(uuid.NewString(), email, name, hash, entity.RoleUser)
	if err := uc.userRepo.Create(ctx, user); err != nil {
		return nil, err
	}

	uc.logger.Info(ctx, "User signed up", map[string]interface{}{"user_id": user.ID})

	return &inbound.SignupResponse{ID: user.ID, Email: user.Email, Name: user.Name}, nil
}

// UpdatePassword replaces the caller's password and drops the refresh
// record, so every session must log in again once its access token expires.
func (uc *UserUseCase) UpdatePassword(ctx context.Context, principal *valueobject.Principal, req inbound.UpdatePasswordRequest) error {
	if principal == nil {
		return inbound.ErrAuthenticationRequired
	}
	if err := valueobject.ValidatePassword(req.NewPassword); err != nil {
		return err
	}

	user, err := uc.userRepo.FindByID(ctx, principal.UserID)
	if err != nil {
		return err
	}

	if err := uc.passwordService.ComparePassword(user.Password, req.CurrentPassword); err != nil {
		return err
	}

	hash, err := uc.passwordService.HashPassword(req.NewPassword)
	if err != nil {
		return err
	}
	user.ChangePassword(hash)
	if err := uc.userRepo.UpdatePassword(ctx, user.ID, user.Password); err != nil {
		return err
	}

	if err := uc.refreshStore.Delete(ctx, user.Email); err != nil && !errors.Is(err, outbound.ErrRefreshTokenNotFound) {
		return fmt.Errorf("failed to revoke refresh token: %w", err)
	}

	logger.LogAuthEvent(ctx, uc.logger, "password_changed", user.ID, "", true, nil)
	return nil
}
