package sessionstore

import (
	"context"
	"time"

	"github.com/go-faster/errors"
	"github.com/redis/go-redis/v9"
)

const redisKeyPrefix = "onboarding:wizard:"

type redisStore struct {
	client *redis.Client
	ttl    time.Duration
}

// NewRedisStore connects to the given redis URL and keeps one snapshot key
// per session, expiring after ttl of inactivity.
func NewRedisStore(redisURL string, ttl time.Duration) (Store, error) {
	opts, err := redis.ParseURL(redisURL)
	if err != nil {
		return nil, errors.Wrap(err, "parse redis url")
	}
	return &redisStore{client: redis.NewClient(opts), ttl: ttl}, nil
}

func (s *redisStore) Save(ctx context.Context, sessionID string, snapshot []byte) error {
	if err := s.client.Set(ctx, redisKeyPrefix+sessionID, snapshot, s.ttl).Err(); err != nil {
		return errors.Wrap(err, "save snapshot")
	}
	return nil
}

func (s *redisStore) Load(ctx context.Context, sessionID string) ([]byte, bool, error) {
	data, err := s.client.Get(ctx, redisKeyPrefix+sessionID).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, errors.Wrap(err, "load snapshot")
	}
	return data, true, nil
}

func (s *redisStore) Clear(ctx context.Context, sessionID string) error {
	if err := s.client.Del(ctx, redisKeyPrefix+sessionID).Err(); err != nil {
		return errors.Wrap(err, "clear snapshot")
	}
	return nil
}
