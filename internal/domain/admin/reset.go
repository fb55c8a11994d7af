package admin

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
)

const (
	resetTokenPrefix = "reset:"
	resetRatePrefix  = "reset_rate:"

	resetTokenTTL    = time.Hour
	resetMaxRequests = 3
)

// ResetStore issues and consumes single-use password reset tokens and
// rate-limits requests per email.
type ResetStore interface {
	// Allow consumes one rate-limit slot; false means the window is full
	Allow(ctx context.Context, email string) (bool, error)
	Issue(ctx context.Context, adminID uuid.UUID, token string) error
	// Consume redeems a token exactly once
	Consume(ctx context.Context, token string) (uuid.UUID, error)
}

type redisResetStore struct {
	redis      *redis.Client
	rateWindow time.Duration
}

// NewResetStore creates a Redis-backed reset token store
func NewResetStore(redisClient *redis.Client, rateWindow time.Duration) ResetStore {
	return &redisResetStore{redis: redisClient, rateWindow: rateWindow}
}

func (s *redisResetStore) Allow(ctx context.Context, email string) (bool, error) {
	key := resetRatePrefix + email
	n, err := s.redis.Incr(ctx, key).Result()
	if err != nil {
		return false, err
	}
	if n == 1 {
		// First request opens the window
		if err := s.redis.Expire(ctx, key, s.rateWindow).Err(); err != nil {
			return false, err
		}
	}
	return n <= resetMaxRequests, nil
}

func (s *redisResetStore) Issue(ctx context.Context, adminID uuid.UUID, token string) error {
	return s.redis.Set(ctx, resetTokenPrefix+token, adminID.String(), resetTokenTTL).Err()
}

func (s *redisResetStore) Consume(ctx context.Context, token string) (uuid.UUID, error) {
	val, err := s.redis.GetDel(ctx, resetTokenPrefix+token).Result()
	if err == redis.Nil {
		return uuid.Nil, ErrResetTokenUsed
	}
	if err != nil {
		return uuid.Nil, err
	}
	adminID, err := uuid.Parse(val)
	if err != nil {
		return uuid.Nil, ErrResetTokenUsed
	}
	return adminID, nil
}
