package ports

import (
	"context"
	"time"

	"github.com/storekit/cart-service/internal/domain/cart"
)

// CartStore holds session carts. GetCart returns an empty cart for an
// unknown session, never nil on success.
type CartStore interface {
	GetCart(ctx context.Context, sessionID string) (*cart.Cart, error)
	SaveCart(ctx context.Context, sessionID string, c *cart.Cart) error
	DeleteCart(ctx context.Context, sessionID string) error

	// AcquireLock takes the per-session mutation lock. It does not block;
	// false means another request holds the lock.
	AcquireLock(ctx context.Context, sessionID string, ttl time.Duration) (bool, error)
	ReleaseLock(ctx context.Context, sessionID string) error
}
