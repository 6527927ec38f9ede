package cart

import (
	"context"
	"fmt"
	"strconv"

	"github.com/redis/go-redis/v9"
)

// Store keeps one redis hash per customer, field = product id,
// value = quantity. The cart is advisory: order placement reads items
// from the request body and clears the hash afterwards.
type Store struct {
	rdb *redis.Client
}

func NewStore(rdb *redis.Client) *Store {
	return &Store{rdb: rdb}
}

func key(customerID uint) string {
	return fmt.Sprintf("cart:%d", customerID)
}

func (s *Store) Add(ctx context.Context, customerID, productID uint, quantity int) error {
	if err := s.rdb.HIncrBy(ctx, key(customerID), strconv.FormatUint(uint64(productID), 10), int64(quantity)).Err(); err != nil {
		return fmt.Errorf("adding cart item: %w", err)
	}
	return nil
}

func (s *Store) Items(ctx context.Context, customerID uint) (map[uint]int, error) {
	raw, err := s.rdb.HGetAll(ctx, key(customerID)).Result()
	if err != nil {
		return nil, fmt.Errorf("reading cart: %w", err)
	}

	items := make(map[uint]int, len(raw))
	for field, value := range raw {
		productID, err := strconv.ParseUint(field, 10, 64)
		if err != nil {
			continue
		}
		quantity, err := strconv.Atoi(value)
		if err != nil {
			continue
		}
		items[uint(productID)] = quantity
	}

	return items, nil
}

func (s *Store) Clear(ctx context.Context, customerID uint) error {
	if err := s.rdb.Del(ctx, key(customerID)).Err(); err != nil {
		return fmt.Errorf("clearing cart: %w", err)
	}
	return nil
}
