package outbound

import (
	"context"
	"errors"
	"time"
)

var ErrRefreshTokenNotFound = errors.New("refresh token not found")

// RefreshTokenStore keeps one current refresh token per subject. Upsert
// overwrites any earlier record; concurrent upserts for one subject are
// last-writer-wins.
type RefreshTokenStore interface {
	Exists(ctx context.Context, subject string) (bool, error)
	// Matches reports whether token is the current, unexpired record for subject.
	Matches(ctx context.Context, subject, token string) (bool, error)
	Upsert(ctx context.Context, subject, token string, expiresAt time.Time) error
	// Touch stamps the rotation time on the subject's record only while token
	// is still the current, unexpired one, in a single compare-and-set. It
	// never writes the token back.
	Touch(ctx context.Context, subject, token string) (bool, error)
	Delete(ctx context.Context, subject string) error
}
