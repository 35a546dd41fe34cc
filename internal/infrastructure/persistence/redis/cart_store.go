package redis

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/storekit/cart-service/internal/domain/cart"
	"github.com/storekit/cart-service/internal/infrastructure/monitoring"
	"github.com/storekit/cart-service/internal/pkg/logger"
)

// CartStore keeps session carts as JSON blobs with a sliding TTL, plus
// the per-session mutation lock the command layer serializes on.
type CartStore struct {
	client *redis.Client
	logger *logger.Logger
	ttl    time.Duration
}

func NewCartStore(conn *Connection, log *logger.Logger, sessionTTL time.Duration) *CartStore {
	client := monitoring.InstrumentRedisClient(conn.GetClient())

	return &CartStore{
		client: client,
		logger: log,
		ttl:    sessionTTL,
	}
}

func cartKey(sessionID string) string {
	return fmt.Sprintf("cart:%s", sessionID)
}

func lockKey(sessionID string) string {
	return fmt.Sprintf("lock:cart:%s", sessionID)
}

func (s *CartStore) GetCart(ctx context.Context, sessionID string) (*cart.Cart, error) {
	data, err := s.client.Get(ctx, cartKey(sessionID)).Bytes()
	if err != nil {
		if err == redis.Nil {
			return cart.New(), nil
		}
		return nil, err
	}

	var c cart.Cart
	if err := json.Unmarshal(data, &c); err != nil {
		// A corrupt blob should not wedge the session forever.
		s.logger.Error("Discarding unreadable cart blob", "session_id", sessionID, "error", err)
		return cart.New(), nil
	}
	if c.Items == nil {
		c.Items = make(map[string]*cart.Item)
	}

	return &c, nil
}

func (s *CartStore) SaveCart(ctx context.Context, sessionID string, c *cart.Cart) error {
	data, err := json.Marshal(c)
	if err != nil {
		return err
	}

	return s.client.Set(ctx, cartKey(sessionID), data, s.ttl).Err()
}

func (s *CartStore) DeleteCart(ctx context.Context, sessionID string) error {
	return s.client.Del(ctx, cartKey(sessionID)).Err()
}

func (s *CartStore) AcquireLock(ctx context.Context, sessionID string, ttl time.Duration) (bool, error) {
	acquired, err := s.client.SetNX(ctx, lockKey(sessionID), "1", ttl).Result()
	if err == nil {
		if acquired {
			monitoring.RedisLockSuccessTotal.WithLabelValues("cart").Inc()
		} else {
			monitoring.RedisLockFailureTotal.WithLabelValues("cart", "already_locked").Inc()
		}
	} else {
		monitoring.RedisLockFailureTotal.WithLabelValues("cart", "redis_error").Inc()
	}
	return acquired, err
}

func (s *CartStore) ReleaseLock(ctx context.Context, sessionID string) error {
	return s.client.Del(ctx, lockKey(sessionID)).Err()
}
