// Package memory holds in-process adapters for single-instance deployments
// and tests.
package memory

import (
	"context"
	"crypto/sha256"
	"fmt"
	"sync"
	"time"

	"github.com/jellydator/ttlcache/v3"

	"github.com/missionboard/missionboard/application/port/outbound"
	"github.com/missionboard/missionboard/domain/entity"
)

// RefreshTokenStore keeps the current refresh token record per subject in a
// ttlcache; entries expire with their token. Writers hold mu so Touch can
// compare and set without another write slipping in.
type RefreshTokenStore struct {
	mu    sync.Mutex
	cache *ttlcache.Cache[string, entity.RefreshToken]
	now   func() time.Time
}

func NewRefreshTokenStore() *RefreshTokenStore {
	cache := ttlcache.New(
		ttlcache.WithDisableTouchOnHit[string, entity.RefreshToken](),
	)
	go cache.Start()

	return &RefreshTokenStore{
		cache: cache,
		now:   time.Now,
	}
}

func (s *RefreshTokenStore) Exists(_ context.Context, subject string) (bool, error) {
	_, ok := s.current(subject)
	return ok, nil
}

func (s *RefreshTokenStore) Matches(_ context.Context, subject, token string) (bool, error) {
	record, ok := s.current(subject)
	if !ok {
		return false, nil
	}
	return record.Matches(hash(token), s.now()), nil
}

func (s *RefreshTokenStore) Upsert(_ context.Context, subject, token string, expiresAt time.Time) error {
	if subject == "" || token == "" {
		return fmt.Errorf("refresh token subject and value are required")
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	now := s.now()
	ttl := expiresAt.Sub(now)
	if ttl <= 0 {
		s.cache.Delete(subject)
		return nil
	}
	s.cache.Set(subject, *entity.NewRefreshToken(subject, hash(token), expiresAt, now), ttl)
	return nil
}

func (s *RefreshTokenStore) Touch(_ context.Context, subject, token string) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	record, ok := s.current(subject)
	now := s.now()
	if !ok || !record.Matches(hash(token), now) {
		return false, nil
	}
	record.MarkRotated(now)
	s.cache.Set(subject, record, record.ExpiresAt.Sub(now))
	return true, nil
}

func (s *RefreshTokenStore) Delete(_ context.Context, subject string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.cache.GetAndDelete(subject); !ok {
		return outbound.ErrRefreshTokenNotFound
	}
	return nil
}

// Close stops the cache's expiry loop.
func (s *RefreshTokenStore) Close() error {
	s.cache.Stop()
	return nil
}

func (s *RefreshTokenStore) current(subject string) (entity.RefreshToken, bool) {
	item := s.cache.Get(subject)
	if item == nil {
		return entity.RefreshToken{}, false
	}
	record := item.Value()
	if record.IsExpired(s.now()) {
		return entity.RefreshToken{}, false
	}
	return record, true
}

func hash(token string) []byte {
	sum := sha256.Sum256([]byte(token))
	return sum[:]
}
