package redis

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/storefront-go/cart-controller/internal/repository"
)

const cartKeyPrefix = "cart:"

type cartStore struct {
	client *redis.Client
}

func NewCartStore(client *redis.Client) repository.CartStore {
	return &cartStore{client: client}
}

func (s *cartStore) cartKey(userID string) string {
	return cartKeyPrefix + userID
}

func (s *cartStore) GetByUserID(ctx context.Context, userID string) (*repository.Cart, error) {
	key := s.cartKey(userID)
	val, err := s.client.Get(ctx, key).Result()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, repository.ErrNotFound
		}
		return nil, fmt.Errorf("failed to get cart for user %s from redis: %w", userID, err)
	}

	var cart repository.Cart
	if err := json.Unmarshal([]byte(val), &cart); err != nil {
		return nil, fmt.Errorf("failed to unmarshal cart data for user %s: %w", userID, err)
	}
	return &cart, nil
}

func (s *cartStore) Save(ctx context.Context, cart *repository.Cart, ttl time.Duration) error {
	if cart == nil || cart.UserID == "" {
		return errors.New("cannot save nil cart or cart with empty userID")
	}

	key := s.cartKey(cart.UserID)
	cart.UpdatedAt = time.Now().UTC()

	data, err := json.Marshal(cart)
	if err != nil {
		return fmt.Errorf("failed to marshal cart for user %s: %w", cart.UserID, err)
	}

	if err := s.client.Set(ctx, key, data, ttl).Err(); err != nil {
		return fmt.Errorf("failed to save cart for user %s to redis: %w", cart.UserID, err)
	}
	return nil
}

func (s *cartStore) DeleteByUserID(ctx context.Context, userID string) error {
	key := s.cartKey(userID)
	if err := s.client.Del(ctx, key).Err(); err != nil {
		return fmt.Errorf("failed to delete cart for user %s from redis: %w", userID, err)
	}
	return nil
}
