package ratelimit

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/go-redis/redis/v8"
	"github.com/sirupsen/logrus"

	"github.com/missionboard/missionboard/application/port/outbound"
)

const keyPrefix = "ratelimit:"

type RateLimitConfig struct {
	Enabled       bool
	RedisURL      string
	LoginAttempts int
	LoginWindow   time.Duration
	BlockDuration time.Duration
}

// redisRateLimitService counts attempts in redis with INCR + EXPIRE.
type redisRateLimitService struct {
	client *redis.Client
	logger *logrus.Logger
}

// NewRateLimitService connects to redis, or returns a no-op limiter when
// rate limiting is disabled.
func NewRateLimitService(ctx context.Context, config RateLimitConfig, logger *logrus.Logger) (outbound.RateLimitService, error) {
	if !config.Enabled {
		logger.Info("Rate limiting disabled")
		return NewNoop(), nil
	}

	opt, err := redis.ParseURL(config.RedisURL)
	if err != nil {
		return nil, fmt.Errorf("failed to parse Redis URL: %w", err)
	}
	client := redis.NewClient(opt)

	pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	if err := client.Ping(pingCtx).Err(); err != nil {
		return nil, fmt.Errorf("failed to connect to Redis: %w", err)
	}

	logger.WithFields(logrus.Fields{
		"login_attempts": config.LoginAttempts,
		"login_window":   config.LoginWindow,
		"block_duration": config.BlockDuration,
	}).Info("Rate limiting service initialized")

	return NewRedisRateLimitService(client, logger), nil
}

func NewRedisRateLimitService(client *redis.Client, logger *logrus.Logger) outbound.RateLimitService {
	return &redisRateLimitService{client: client, logger: logger}
}

func (s *redisRateLimitService) CheckLimit(ctx context.Context, key string, limit int) (bool, error) {
	count, err := s.client.Get(ctx, keyPrefix+key).Int()
	if err != nil && !errors.Is(err, redis.Nil) {
		return false, fmt.Errorf("failed to get attempts: %w", err)
	}

	s.logger.WithContext(ctx).WithFields(logrus.Fields{
		"key":     key,
		"current": count,
		"limit":   limit,
	}).Debug("Rate limit check")

	return count < limit, nil
}

func (s *redisRateLimitService) Increment(ctx context.Context, key string, window time.Duration) error {
	pipe := s.client.TxPipeline()
	incr := pipe.Incr(ctx, keyPrefix+key)
	pipe.Expire(ctx, keyPrefix+key, window)

	if _, err := pipe.Exec(ctx); err != nil {
		return fmt.Errorf("failed to increment rate limit: %w", err)
	}

	s.logger.WithContext(ctx).WithFields(logrus.Fields{
		"key":    key,
		"count":  incr.Val(),
		"window": window,
	}).Debug("Rate limit incremented")
	return nil
}

func (s *redisRateLimitService) Block(ctx context.Context, key string, duration time.Duration, reason string) error {
	blockKey := keyPrefix + "blocked:" + key

	pipe := s.client.TxPipeline()
	pipe.HSet(ctx, blockKey, map[string]interface{}{
		"reason":     reason,
		"blocked_at": time.Now().Unix(),
	})
	pipe.Expire(ctx, blockKey, duration)
	if _, err := pipe.Exec(ctx); err != nil {
		return fmt.Errorf("failed to block key: %w", err)
	}

	s.logger.WithContext(ctx).WithFields(logrus.Fields{
		"key":      key,
		"duration": duration,
		"reason":   reason,
	}).Warn("Key blocked due to rate limit exceeded")
	return nil
}

func (s *redisRateLimitService) IsBlocked(ctx context.Context, key string) (bool, error) {
	n, err := s.client.Exists(ctx, keyPrefix+"blocked:"+key).Result()
	if err != nil {
		return false, fmt.Errorf("failed to check block status: %w", err)
	}
	return n > 0, nil
}

func (s *redisRateLimitService) Reset(ctx context.Context, key string) error {
	if err := s.client.Del(ctx, keyPrefix+key, keyPrefix+"blocked:"+key).Err(); err != nil {
		return fmt.Errorf("failed to reset rate limit: %w", err)
	}
	return nil
}

type noopRateLimitService struct{}

func NewNoop() outbound.RateLimitService {
	return noopRateLimitService{}
}

func (noopRateLimitService) CheckLimit(context.Context, string, int) (bool, error) {
	return true, nil
}

func (noopRateLimitService) Increment(context.Context, string, time.Duration) error {
	return nil
}

func (noopRateLimitService) Block(context.Context, string, time.Duration, string) error {
	return nil
}

func (noopRateLimitService) IsBlocked(context.Context, string) (bool, error) {
	return false, nil
}

func (noopRateLimitService) Reset(context.Context, string) error {
	return nil
}
