package session

import (
	"context"
	"fmt"
	"strconv"
	"time"

	"webshop/internal/cache"
)

const keyPrefix = "session:"

// RedisStore keeps one key per live session. The key expires with the
// window, and its value is the last activity in Unix nanoseconds.
type RedisStore struct {
	cache *cache.Client
	ttl   time.Duration
}

// NewRedisStore builds a Redis-backed session store whose keys live for ttl.
func NewRedisStore(c *cache.Client, ttl time.Duration) *RedisStore {
	return &RedisStore{cache: c, ttl: ttl}
}

func sessionKey(userID uint) string {
	return keyPrefix + strconv.FormatUint(uint64(userID), 10)
}

func encodeActivity(at time.Time) []byte {
	return []byte(strconv.FormatInt(at.UnixNano(), 10))
}

func (s *RedisStore) lastActivity(ctx context.Context, userID uint) (time.Time, bool, error) {
	raw, err := s.cache.Get(ctx, sessionKey(userID))
	if err != nil || raw == nil {
		return time.Time{}, false, err
	}
	nanos, err := strconv.ParseInt(string(raw), 10, 64)
	if err != nil {
		return time.Time{}, false, fmt.Errorf("decode session %d: %w", userID, err)
	}
	return time.Unix(0, nanos), true, nil
}

func (s *RedisStore) Begin(ctx context.Context, userID uint, at time.Time) error {
	return s.cache.Set(ctx, sessionKey(userID), encodeActivity(at), s.ttl)
}

func (s *RedisStore) Active(ctx context.Context, userID uint, since time.Time) (bool, error) {
	last, ok, err := s.lastActivity(ctx, userID)
	if err != nil || !ok {
		return false, err
	}
	return !last.Before(since), nil
}

func (s *RedisStore) Refresh(ctx context.Context, userID uint, at, since time.Time) (bool, error) {
	live, err := s.Active(ctx, userID, since)
	if err != nil || !live {
		return false, err
	}
	// The key may expire between the read and the write; Replace then leaves it absent.
	return s.cache.Replace(ctx, sessionKey(userID), encodeActivity(at), s.ttl)
}

func (s *RedisStore) End(ctx context.Context, userID uint) error {
	return s.cache.Delete(ctx, sessionKey(userID))
}
