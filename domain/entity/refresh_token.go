package entity

import (
	"crypto/subtle"
	"time"
)

// RefreshToken is the single refresh token on record for a subject. A new
// login overwrites it; logout deletes it. Only a hash of the token is kept.
type RefreshToken struct {
	Subject   string     `json:"subject"`
	TokenHash []byte     `json:"-"`
	ExpiresAt time.Time  `json:"expires_at"`
	CreatedAt time.Time  `json:"created_at"`
	RotatedAt *time.Time `json:"rotated_at,omitempty"`
}

func NewRefreshToken(subject string, tokenHash []byte, expiresAt, now time.Time) *RefreshToken {
	return &RefreshToken{
		Subject:   subject,
		TokenHash: tokenHash,
		ExpiresAt: expiresAt,
		CreatedAt: now,
	}
}

func (rt *RefreshToken) IsExpired(now time.Time) bool {
	return !now.Before(rt.ExpiresAt)
}

// Matches reports whether tokenHash is this record's hash and the record is
// still live at now.
func (rt *RefreshToken) Matches(tokenHash []byte, now time.Time) bool {
	if rt.IsExpired(now) {
		return false
	}
	return subtle.ConstantTimeCompare(rt.TokenHash, tokenHash) == 1
}

func (rt *RefreshToken) MarkRotated(now time.Time) {
	rt.RotatedAt = &now
}
