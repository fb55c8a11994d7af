package admin

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
)

const sessionPrefix = "session:"

// SessionStore holds live admin sessions. Sessions exist only here:
// a session key vanishing, whether by idle expiry or explicit logout,
// is the single authoritative end of that session.
type SessionStore interface {
	Create(ctx context.Context, adminID uuid.UUID) (string, error)
	// Touch re-arms the idle deadline and returns the session owner.
	// Every authenticated request counts as activity.
	Touch(ctx context.Context, sessionID string) (uuid.UUID, error)
	Delete(ctx context.Context, sessionID string) error
}

type redisSessionStore struct {
	redis   *redis.Client
	idleTTL time.Duration
}

// NewSessionStore creates a Redis-backed session store with the given
// idle timeout.
func NewSessionStore(redisClient *redis.Client, idleTTL time.Duration) SessionStore {
	return &redisSessionStore{redis: redisClient, idleTTL: idleTTL}
}

func sessionKey(id string) string {
	return sessionPrefix + id
}

func (s *redisSessionStore) Create(ctx context.Context, adminID uuid.UUID) (string, error) {
	sessionID := uuid.NewString()
	err := s.redis.Set(ctx, sessionKey(sessionID), adminID.String(), s.idleTTL).Err()
	if err != nil {
		return "", err
	}
	return sessionID, nil
}

// Touch reads the session and extends its TTL in one step. An absent
// key means the session idled out or was logged out; both collapse to
// ErrSessionExpired.
func (s *redisSessionStore) Touch(ctx context.Context, sessionID string) (uuid.UUID, error) {
	val, err := s.redis.GetEx(ctx, sessionKey(sessionID), s.idleTTL).Result()
	if err == redis.Nil {
		return uuid.Nil, ErrSessionExpired
	}
	if err != nil {
		return uuid.Nil, err
	}

	adminID, err := uuid.Parse(val)
	if err != nil {
		return uuid.Nil, ErrSessionExpired
	}
	return adminID, nil
}

// Delete tears the session down. Deleting an already-expired session
// is a no-op, so logout after idle expiry cannot fire a second end.
func (s *redisSessionStore) Delete(ctx context.Context, sessionID string) error {
	return s.redis.Del(ctx, sessionKey(sessionID)).Err()
}
