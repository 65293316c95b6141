package idempotency

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	redis "github.com/redis/go-redis/v9"
)

const keyPrefix = "ai-gateway:idem:"

type RedisStore struct {
	client *redis.Client
	ttl    TTLs
}

func NewRedisStore(client *redis.Client, ttl TTLs) *RedisStore {
	return &RedisStore{client: client, ttl: ttl.withDefaults()}
}

func (s *RedisStore) Begin(ctx context.Context, key, fingerprint string) (Entry, error) {
	if key == "" {
		return Entry{}, ErrEmptyKey
	}
	pending, err := json.Marshal(Entry{State: StatePending, Fingerprint: fingerprint})
	if err != nil {
		return Entry{}, err
	}

	// a claim can expire between SETNX and GET; one more round settles it
	for attempt := 0; attempt < 2; attempt++ {
		ok, err := s.client.SetNX(ctx, keyPrefix+key, pending, s.ttl.Pending).Result()
		if err != nil {
			return Entry{}, fmt.Errorf("idempotency claim: %w", err)
		}
		if ok {
			return Entry{State: StateNew, Fingerprint: fingerprint}, nil
		}

		raw, err := s.client.Get(ctx, keyPrefix+key).Bytes()
		if errors.Is(err, redis.Nil) {
			continue
		}
		if err != nil {
			return Entry{}, fmt.Errorf("idempotency lookup: %w", err)
		}
		var e Entry
		if err := json.Unmarshal(raw, &e); err != nil {
			return Entry{}, fmt.Errorf("idempotency decode: %w", err)
		}
		return e, nil
	}
	return Entry{State: StatePending}, nil
}

func (s *RedisStore) Complete(ctx context.Context, key, fingerprint string, payload []byte) error {
	raw, err := json.Marshal(Entry{State: StateCompleted, Fingerprint: fingerprint, Payload: payload})
	if err != nil {
		return err
	}
	return s.client.Set(ctx, keyPrefix+key, raw, s.ttl.Completed).Err()
}

func (s *RedisStore) Abort(ctx context.Context, key string) error {
	return s.client.Del(ctx, keyPrefix+key).Err()
}
