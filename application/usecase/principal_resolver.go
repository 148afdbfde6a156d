package usecase

import (
	"context"
	"errors"
	"fmt"

	"github.com/missionboard/missionboard/application/port/inbound"
	"github.com/missionboard/missionboard/application/port/outbound"
	"github.com/missionboard/missionboard/domain/valueobject"
)

// PrincipalResolver loads the identity behind a token subject. Subjects are
// user emails.
type PrincipalResolver struct {
	userRepo outbound.UserRepository
}

func NewPrincipalResolver(userRepo outbound.UserRepository) *PrincipalResolver {
	return &PrincipalResolver{userRepo: userRepo}
}

func (r *PrincipalResolver) Resolve(ctx context.Context, subject string) (*valueobject.Principal, error) {
	user, err := r.userRepo.FindByEmail(ctx, subject)
	if errors.Is(err, outbound.ErrUserNotFound) || (err == nil && (user == nil || user.Deleted)) {
		return nil, inbound.ErrPrincipalNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to resolve principal: %w", err)
	}

	return &valueobject.Principal{
		UserID:      user.ID,
		Subject:     user.Email,
		Name:        user.Name,
		Authorities: user.Authorities(),
	}, nil
}
