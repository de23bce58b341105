package cart

import (
	"context"
	"encoding/json"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/Shorno/organic-food-store/internal/models"
)

// Store persists cart snapshots per owner. The reducer is pure; persistence
// is injected at the handler boundary through this interface.
type Store interface {
	Get(ctx context.Context, ownerID string) (models.Cart, error)
	Save(ctx context.Context, ownerID string, cart models.Cart) error
	Delete(ctx context.Context, ownerID string) error
}

// RedisStore keeps each cart as a JSON blob under cart:<ownerID> with a
// sliding TTL, so abandoned carts expire on their own.
type RedisStore struct {
	client *redis.Client
	ttl    time.Duration
}

func NewRedisStore(client *redis.Client, ttl time.Duration) *RedisStore {
	return &RedisStore{client: client, ttl: ttl}
}

func (s *RedisStore) Get(ctx context.Context, ownerID string) (models.Cart, error) {
	data, err := s.client.Get(ctx, cartKey(ownerID)).Result()
	if err == redis.Nil {
		return Clear(), nil
	}
	if err != nil {
		return models.Cart{}, err
	}

	var cart models.Cart
	if err := json.Unmarshal([]byte(data), &cart); err != nil {
		return models.Cart{}, err
	}
	return cart, nil
}

func (s *RedisStore) Save(ctx context.Context, ownerID string, cart models.Cart) error {
	data, err := json.Marshal(cart)
	if err != nil {
		return err
	}
	return s.client.Set(ctx, cartKey(ownerID), data, s.ttl).Err()
}

func (s *RedisStore) Delete(ctx context.Context, ownerID string) error {
	return s.client.Del(ctx, cartKey(ownerID)).Err()
}

func cartKey(ownerID string) string {
	return "cart:" + ownerID
}
