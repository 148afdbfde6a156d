package redis

import (
	"context"
	"crypto/sha256"
	"crypto/subtle"
	"errors"
	"fmt"
	"time"

	"github.com/go-redis/redis/v8"

	"github.com/missionboard/missionboard/application/port/outbound"
)

const (
	keyPrefix        = "refresh_token:"
	rotatedKeyPrefix = "refresh_token_rotated:"
)

// touchScript stamps the rotation time only while KEYS[1] still holds the
// expected hash. The rotation stamp shares the token key's remaining TTL.
var touchScript = redis.NewScript(`
if redis.call("GET", KEYS[1]) ~= ARGV[1] then
	return 0
end
local ttl = redis.call("PTTL", KEYS[1])
if ttl > 0 then
	redis.call("SET", KEYS[2], ARGV[2], "PX", ttl)
end
return 1
`)

// RefreshTokenStore keeps one key per subject holding the salted token
// hash; redis expires the key with the token.
type RefreshTokenStore struct {
	client *redis.Client
	salt   string
	now    func() time.Time
}

func NewRefreshTokenStore(client *redis.Client, salt string) *RefreshTokenStore {
	return &RefreshTokenStore{
		client: client,
		salt:   salt,
		now:    time.Now,
	}
}

func (s *RefreshTokenStore) Exists(ctx context.Context, subject string) (bool, error) {
	n, err := s.client.Exists(ctx, keyPrefix+subject).Result()
	if err != nil {
		return false, fmt.Errorf("failed to check refresh token: %w", err)
	}
	return n > 0, nil
}

func (s *RefreshTokenStore) Matches(ctx context.Context, subject, token string) (bool, error) {
	if subject == "" || token == "" {
		return false, nil
	}

	stored, err := s.client.Get(ctx, keyPrefix+subject).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return false, nil
		}
		return false, fmt.Errorf("failed to load refresh token: %w", err)
	}
	return subtle.ConstantTimeCompare(stored, s.hash(token)) == 1, nil
}

// Upsert replaces the token hash and clears any rotation stamp in one
// MULTI, so concurrent writers for one subject are last-writer-wins.
func (s *RefreshTokenStore) Upsert(ctx context.Context, subject, token string, expiresAt time.Time) error {
	if subject == "" || token == "" {
		return fmt.Errorf("refresh token subject and value are required")
	}

	ttl := expiresAt.Sub(s.now())
	if ttl <= 0 {
		return s.client.Del(ctx, keyPrefix+subject, rotatedKeyPrefix+subject).Err()
	}
	_, err := s.client.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		pipe.Set(ctx, keyPrefix+subject, s.hash(token), ttl)
		pipe.Del(ctx, rotatedKeyPrefix+subject)
		return nil
	})
	if err != nil {
		return fmt.Errorf("failed to upsert refresh token: %w", err)
	}
	return nil
}

func (s *RefreshTokenStore) Touch(ctx context.Context, subject, token string) (bool, error) {
	if subject == "" || token == "" {
		return false, nil
	}

	n, err := touchScript.Run(ctx, s.client,
		[]string{keyPrefix + subject, rotatedKeyPrefix + subject},
		s.hash(token), s.now().UTC().Format(time.RFC3339Nano),
	).Int()
	if err != nil {
		return false, fmt.Errorf("failed to touch refresh token: %w", err)
	}
	return n == 1, nil
}

// RotatedAt returns the last rotation time, or nil if the current token has
// not been rotated.
func (s *RefreshTokenStore) RotatedAt(ctx context.Context, subject string) (*time.Time, error) {
	raw, err := s.client.Get(ctx, rotatedKeyPrefix+subject).Result()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to load rotation time: %w", err)
	}
	at, err := time.Parse(time.RFC3339Nano, raw)
	if err != nil {
		return nil, fmt.Errorf("invalid rotation time %q: %w", raw, err)
	}
	return &at, nil
}

func (s *RefreshTokenStore) Delete(ctx context.Context, subject string) error {
	n, err := s.client.Del(ctx, keyPrefix+subject, rotatedKeyPrefix+subject).Result()
	if err != nil {
		return fmt.Errorf("failed to delete refresh token: %w", err)
	}
	if n == 0 {
		return outbound.ErrRefreshTokenNotFound
	}
	return nil
}

func (s *RefreshTokenStore) hash(token string) []byte {
	sum := sha256.Sum256([]byte(token + s.salt))
	return sum[:]
}
