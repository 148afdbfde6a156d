package postgres

import (
	"context"
	"crypto/sha256"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/missionboard/missionboard/application/port/outbound"
	"github.com/missionboard/missionboard/domain/entity"
)

// RefreshTokenStore keeps one row per subject in refresh_tokens. Only a
// salted hash of the token is stored.
type RefreshTokenStore struct {
	db   *sql.DB
	salt string
	now  func() time.Time
}

func NewRefreshTokenStore(db *sql.DB, salt string) *RefreshTokenStore {
	return &RefreshTokenStore{
		db:   db,
		salt: salt,
		now:  time.Now,
	}
}

func (s *RefreshTokenStore) Exists(ctx context.Context, subject string) (bool, error) {
	var exists bool
	err := s.db.QueryRowContext(ctx,
		`SELECT EXISTS(SELECT 1 FROM refresh_tokens WHERE subject = $1 AND expires_at > $2)`,
		subject, s.now(),
	).Scan(&exists)
	if err != nil {
		return false, fmt.Errorf("failed to check refresh token: %w", err)
	}
	return exists, nil
}

// Load returns the subject's record, expired or not.
func (s *RefreshTokenStore) Load(ctx context.Context, subject string) (*entity.RefreshToken, error) {
	var (
		record    entity.RefreshToken
		rotatedAt sql.NullTime
	)
	err := s.db.QueryRowContext(ctx,
		`SELECT subject, token_hash, expires_at, created_at, rotated_at FROM refresh_tokens WHERE subject = $1`,
		subject,
	).Scan(&record.Subject, &record.TokenHash, &record.ExpiresAt, &record.CreatedAt, &rotatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, outbound.ErrRefreshTokenNotFound
		}
		return nil, fmt.Errorf("failed to load refresh token: %w", err)
	}
	if rotatedAt.Valid {
		record.RotatedAt = &rotatedAt.Time
	}
	return &record, nil
}

func (s *RefreshTokenStore) Matches(ctx context.Context, subject, token string) (bool, error) {
	if subject == "" || token == "" {
		return false, nil
	}

	record, err := s.Load(ctx, subject)
	if err != nil {
		if errors.Is(err, outbound.ErrRefreshTokenNotFound) {
			return false, nil
		}
		return false, err
	}
	return record.Matches(hashToken(token, s.salt), s.now()), nil
}

// Upsert replaces the subject's row. INSERT ... ON CONFLICT is a single
// statement, so concurrent upserts for one subject serialize on the row lock.
func (s *RefreshTokenStore) Upsert(ctx context.Context, subject, token string, expiresAt time.Time) error {
	if subject == "" || token == "" {
		return fmt.Errorf("refresh token subject and value are required")
	}

	query := `
		INSERT INTO refresh_tokens (subject, token_hash, expires_at, created_at)
		VALUES ($1, $2, $3, $4)
		ON CONFLICT (subject) DO UPDATE
		SET token_hash = EXCLUDED.token_hash,
		    expires_at = EXCLUDED.expires_at,
		    rotated_at = CASE WHEN refresh_tokens.token_hash = EXCLUDED.token_hash THEN EXCLUDED.created_at END,
		    created_at = CASE WHEN refresh_tokens.token_hash = EXCLUDED.token_hash THEN refresh_tokens.created_at ELSE EXCLUDED.created_at END
	`

	if _, err := s.db.ExecContext(ctx, query, subject, hashToken(token, s.salt), expiresAt, s.now()); err != nil {
		return fmt.Errorf("failed to upsert refresh token: %w", err)
	}
	return nil
}

// Touch stamps rotated_at only if the row still holds token's hash, so a
// logout or newer login that already landed is left alone.
func (s *RefreshTokenStore) Touch(ctx context.Context, subject, token string) (bool, error) {
	if subject == "" || token == "" {
		return false, nil
	}

	result, err := s.db.ExecContext(ctx,
		`UPDATE refresh_tokens SET rotated_at = $3 WHERE subject = $1 AND token_hash = $2 AND expires_at > $3`,
		subject, hashToken(token, s.salt), s.now(),
	)
	if err != nil {
		return false, fmt.Errorf("failed to touch refresh token: %w", err)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("failed to get rows affected: %w", err)
	}
	return rows == 1, nil
}

func (s *RefreshTokenStore) Delete(ctx context.Context, subject string) error {
	result, err := s.db.ExecContext(ctx, `DELETE FROM refresh_tokens WHERE subject = $1`, subject)
	if err != nil {
		return fmt.Errorf("failed to delete refresh token: %w", err)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}
	if rows == 0 {
		return outbound.ErrRefreshTokenNotFound
	}
	return nil
}

// PurgeExpired removes rows past their expiry and reports how many went.
func (s *RefreshTokenStore) PurgeExpired(ctx context.Context) (int64, error) {
	result, err := s.db.ExecContext(ctx, `DELETE FROM refresh_tokens WHERE expires_at <= $1`, s.now())
	if err != nil {
		return 0, fmt.Errorf("failed to purge refresh tokens: %w", err)
	}
	return result.RowsAffected()
}

func hashToken(raw, salt string) []byte {
	sum := sha256.Sum256([]byte(raw + salt))
	return sum[:]
}
