package session

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"github.com/redis/go-redis/v9"
)

// RedisStore keeps session state in Redis as JSON values with a
// sliding TTL.
type RedisStore struct {
	client *redis.Client
	ttl    time.Duration
}

func NewRedisStore(client *redis.Client, ttl time.Duration) *RedisStore {
	return &RedisStore{client: client, ttl: ttl}
}

func cartKey(sessionID string) string { return "session:cart:" + sessionID }
func ctxKey(sessionID string) string  { return "session:delivery:" + sessionID }

func (s *RedisStore) Cart(ctx context.Context, sessionID string) (Cart, error) {
	var cart Cart
	if err := s.get(ctx, cartKey(sessionID), &cart); err != nil {
		return NewCart(), err
	}
	if cart.Items == nil {
		cart.Items = make(map[int64]int)
	}
	return cart, nil
}

func (s *RedisStore) SaveCart(ctx context.Context, sessionID string, cart Cart) error {
	return s.set(ctx, cartKey(sessionID), cart)
}

func (s *RedisStore) ClearCart(ctx context.Context, sessionID string) error {
	return s.client.Del(ctx, cartKey(sessionID)).Err()
}

func (s *RedisStore) DeliveryContext(ctx context.Context, sessionID string) (DeliveryContext, error) {
	var dc DeliveryContext
	if err := s.get(ctx, ctxKey(sessionID), &dc); err != nil {
		return DeliveryContext{}, err
	}
	return dc, nil
}

func (s *RedisStore) SaveDeliveryContext(ctx context.Context, sessionID string, dc DeliveryContext) error {
	return s.set(ctx, ctxKey(sessionID), dc)
}

func (s *RedisStore) get(ctx context.Context, key string, out any) error {
	raw, err := s.client.Get(ctx, key).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil
	}
	if err != nil {
		return err
	}
	return json.Unmarshal(raw, out)
}

func (s *RedisStore) set(ctx context.Context, key string, v any) error {
	raw, err := json.Marshal(v)
	if err != nil {
		return err
	}
	return s.client.Set(ctx, key, raw, s.ttl).Err()
}
