package session

import (
	"context"
	"encoding/json"
	"errors"

	"github.com/redis/go-redis/v9"
	"github.com/sony/gobreaker"

	"github.com/bibliotech/library-service/internal/config"
	"github.com/bibliotech/library-service/internal/core/domain"
	"github.com/bibliotech/library-service/internal/core/ports"
)

const sessionKeyPrefix = "session:"

// RedisStore keeps sessions in Redis so multiple API replicas share one
// session registry. Keys carry no TTL: sessions live until logout.
// All Redis traffic goes through a circuit breaker.
type RedisStore struct {
	client *redis.Client
	cb     *gobreaker.CircuitBreaker
}

var _ ports.SessionStore = (*RedisStore)(nil)

func NewRedisStore(client *redis.Client) *RedisStore {
	return &RedisStore{
		client: client,
		cb:     config.NewCircuitBreaker("Redis-Sessions"),
	}
}

func (s *RedisStore) Create(ctx context.Context, identity domain.Identity) (string, error) {
	token, err := newToken()
	if err != nil {
		return "", err
	}

	value, err := json.Marshal(identity)
	if err != nil {
		return "", err
	}

	_, err = s.cb.Execute(func() (interface{}, error) {
		return nil, s.client.Set(ctx, sessionKeyPrefix+token, value, 0).Err()
	})
	if err != nil {
		return "", err
	}
	return token, nil
}

func (s *RedisStore) Resolve(ctx context.Context, token string) (*domain.Identity, error) {
	raw, err := s.cb.Execute(func() (interface{}, error) {
		return s.client.Get(ctx, sessionKeyPrefix+token).Result()
	})
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, domain.ErrSessionNotFound
		}
		return nil, err
	}

	var identity domain.Identity
	if err := json.Unmarshal([]byte(raw.(string)), &identity); err != nil {
		return nil, err
	}
	return &identity, nil
}

func (s *RedisStore) Destroy(ctx context.Context, token string) error {
	_, err := s.cb.Execute(func() (interface{}, error) {
		return nil, s.client.Del(ctx, sessionKeyPrefix+token).Err()
	})
	return err
}
