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

type AuthConfig struct {
	AccessTokenTTL  time.Duration
	RefreshTokenTTL time.Duration
	LoginAttempts   int
	LoginWindow     time.Duration
	BlockDuration   time.Duration
}

// LoginThrottleKey is the rate limiter key for login attempts from ip.
func LoginThrottleKey(ip string) string {
	return "login:ip:" + ip
}

type AuthUseCase struct {
	userRepo        outbound.UserRepository
	refreshStore    outbound.RefreshTokenStore
	tokenCodec      outbound.TokenCodec
	passwordService outbound.PasswordService
	rateLimiter     outbound.RateLimitService
	logger          logger.Logger
	config          AuthConfig
}

func NewAuthUseCase(
	userRepo outbound.UserRepository,
	refreshStore outbound.RefreshTokenStore,
	tokenCodec outbound.TokenCodec,
	passwordService outbound.PasswordService,
	rateLimiter outbound.RateLimitService,
	log logger.Logger,
	config AuthConfig,
) *AuthUseCase {
	return &AuthUseCase{
		userRepo:        userRepo,
		refreshStore:    refreshStore,
		tokenCodec:      tokenCodec,
		passwordService: passwordService,
		rateLimiter:     rateLimiter,
		logger:          log,
		config:          config,
	}
}

func (uc *AuthUseCase) Login(ctx context.Context, req inbound.LoginRequest) (*inbound.LoginResponse, error) {
	credentials, err := valueobject.NewCredentials(req.Email, req.Password)
	if err != nil {
		return nil, uc.loginFailed(ctx, req, "invalid_format")
	}

	user, err := uc.userRepo.FindByEmail(ctx, credentials.Email())
	if err != nil || user == nil || user.Deleted {
		if err != nil && !errors.Is(err, outbound.ErrUserNotFound) {
			return nil, fmt.Errorf("failed to load user: %w", err)
		}
		return nil, uc.loginFailed(ctx, req, "unknown_user")
	}

	if err := uc.passwordService.ComparePassword(user.Password, credentials.Password()); err != nil {
		if !errors.Is(err, outbound.ErrPasswordMismatch) {
			return nil, fmt.Errorf("failed to verify password: %w", err)
		}
		return nil, uc.loginFailed(ctx, req, "password_mismatch")
	}

	access, err := uc.tokenCodec.Issue(user.Email, outbound.TokenTypeAccess, uc.config.AccessTokenTTL)
	if err != nil {
		return nil, err
	}
	refresh, err := uc.tokenCodec.Issue(user.Email, outbound.TokenTypeRefresh, uc.config.RefreshTokenTTL)
	if err != nil {
		return nil, err
	}

	if err := uc.refreshStore.Upsert(ctx, user.Email, refresh.Value, refresh.ExpiresAt); err != nil {
		return nil, fmt.Errorf("failed to store refresh token: %w", err)
	}

	if req.ClientIP != "" {
		if err := uc.rateLimiter.Reset(ctx, LoginThrottleKey(req.ClientIP)); err != nil {
			uc.logger.Warn(ctx, "Failed to reset login throttle", map[string]interface{}{"error": err.Error()})
		}
	}

	logger.LogAuthEvent(ctx, uc.logger, "login_succeeded", user.ID, req.ClientIP, true, nil)

	principal := &valueobject.Principal{
		UserID:      user.ID,
		Subject:     user.Email,
		Name:        user.Name,
		Authorities: user.Authorities(),
	}

	return &inbound.LoginResponse{
		Tokens:    valueobject.NewTokenPair(access.Value, refresh.Value, access.ExpiresAt, refresh.ExpiresAt),
		Principal: principal,
	}, nil
}

// loginFailed counts the attempt against the client address and blocks it
// once the limit is reached. Limiter errors are logged and never fail the
// login response.
func (uc *AuthUseCase) loginFailed(ctx context.Context, req inbound.LoginRequest, reason string) error {
	logger.LogAuthEvent(ctx, uc.logger, "login_failed", "", req.ClientIP, false, map[string]interface{}{
		"reason": reason,
	})

	if req.ClientIP == "" || uc.config.LoginAttempts <= 0 {
		return inbound.ErrCredentialMismatch
	}

	key := LoginThrottleKey(req.ClientIP)
	if err := uc.rateLimiter.Increment(ctx, key, uc.config.LoginWindow); err != nil {
		uc.logger.Warn(ctx, "Failed to count login attempt", map[string]interface{}{"error": err.Error()})
		return inbound.ErrCredentialMismatch
	}

	under, err := uc.rateLimiter.CheckLimit(ctx, key, uc.config.LoginAttempts)
	if err != nil {
		uc.logger.Warn(ctx, "Failed to check login attempts", map[string]interface{}{"error": err.Error()})
		return inbound.ErrCredentialMismatch
	}
	if !under {
		if err := uc.rateLimiter.Block(ctx, key, uc.config.BlockDuration, "too many failed logins"); err != nil {
			uc.logger.Warn(ctx, "Failed to block client", map[string]interface{}{"error": err.Error()})
		}
		logger.LogSecurityEvent(ctx, uc.logger, "login_blocked", "MEDIUM", map[string]interface{}{"ip": req.ClientIP})
	}

	return inbound.ErrCredentialMismatch
}

func (uc *AuthUseCase) Logout(ctx context.Context, subject string) error {
	if err := uc.refreshStore.Delete(ctx, subject); err != nil && !errors.Is(err, outbound.ErrRefreshTokenNotFound) {
		return fmt.Errorf("failed to delete refresh token: %w", err)
	}
	logger.LogAuthEvent(ctx, uc.logger, "logout", subject, "", true, nil)
	return nil
}
