package storage

import (
	"errors"
	"strconv"
	"time"

	"github.com/redis/go-redis/v9"
)

const sessionKeyPrefix = "session:"

// SaveSession stores a session id -> user id mapping in Redis with a TTL.
// Sessions back the cookie half of the dual-path authentication.
func (s *Service) SaveSession(sessionID string, userID uint, ttl time.Duration) error {
	key := sessionKeyPrefix + sessionID
	return s.Redis.Set(s.Ctx, key, strconv.FormatUint(uint64(userID), 10), ttl).Err()
}

// GetSession resolves a session id to a user id. ErrNotFound means the
// session is missing or expired.
func (s *Service) GetSession(sessionID string) (uint, error) {
	key := sessionKeyPrefix + sessionID
	value, err := s.Redis.Get(s.Ctx, key).Result()
	if errors.Is(err, redis.Nil) {
		return 0, ErrNotFound
	}
	if err != nil {
		return 0, err
	}

	id, err := strconv.ParseUint(value, 10, 64)
	if err != nil {
		return 0, ErrNotFound
	}
	return uint(id), nil
}

func (s *Service) DeleteSession(sessionID string) error {
	return s.Redis.Del(s.Ctx, sessionKeyPrefix+sessionID).Err()
}
