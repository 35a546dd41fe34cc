package commands

import (
	"context"
	"time"

	"github.com/storekit/cart-service/internal/application/ports"
	"github.com/storekit/cart-service/internal/domain/cart"
	domainErrors "github.com/storekit/cart-service/internal/domain/errors"
	"github.com/storekit/cart-service/internal/domain/fragments"
	"github.com/storekit/cart-service/internal/pkg/clock"
	"github.com/storekit/cart-service/internal/pkg/logger"
)

const lockRetryDelay = 50 * time.Millisecond

// Session identifies the cart a request operates on and who is asking.
// UserID 0 is anonymous.
type Session struct {
	ID     string
	UserID int64
}

// Envelope is the success response for every cart operation: the current
// fragment set plus the digest clients compare against their cached copy.
type Envelope struct {
	Fragments *fragments.Set `json:"fragments"`
	Hash      string         `json:"hash"`
}

// CartMutationHandler coordinates one cart mutation per request: acquire
// the session lock, load the cart, apply exactly one change, persist,
// and shape the fragments envelope from the post-mutation state.
type CartMutationHandler struct {
	store   ports.CartStore
	catalog ports.CatalogRepository
	filter  ports.ProductFilter
	hooks   *cart.Hooks

	fragmentFilters []fragments.Filter
	hashExtenders   []fragments.HashExtender

	log         *logger.Logger
	clk         clock.Clock
	currency    string
	lockTTL     time.Duration
	lockRetries int
}

type CartMutationConfig struct {
	Currency    string
	LockTTL     time.Duration
	LockRetries int
}

func NewCartMutationHandler(
	store ports.CartStore,
	catalogRepo ports.CatalogRepository,
	filter ports.ProductFilter,
	hooks *cart.Hooks,
	fragmentFilters []fragments.Filter,
	hashExtenders []fragments.HashExtender,
	log *logger.Logger,
	clk clock.Clock,
	cfg CartMutationConfig,
) *CartMutationHandler {
	if cfg.LockTTL <= 0 {
		cfg.LockTTL = 10 * time.Second
	}
	if cfg.LockRetries <= 0 {
		cfg.LockRetries = 20
	}

	return &CartMutationHandler{
		store:           store,
		catalog:         catalogRepo,
		filter:          filter,
		hooks:           hooks,
		fragmentFilters: fragmentFilters,
		hashExtenders:   hashExtenders,
		log:             log,
		clk:             clk,
		currency:        cfg.Currency,
		lockTTL:         cfg.LockTTL,
		lockRetries:     cfg.LockRetries,
	}
}

// Fragments is the no-op operation: it refreshes the client's fragments
// and hash without mutating anything.
func (h *CartMutationHandler) Fragments(ctx context.Context, sess Session) (*Envelope, error) {
	return h.withCart(ctx, sess, nil)
}

// withCart runs one mutation under the per-session lock. A nil mutate is
// a read-only pass. The cart is only persisted when the mutation
// succeeded, so a failure never leaves a partial change behind.
func (h *CartMutationHandler) withCart(ctx context.Context, sess Session, mutate func(c *cart.Cart) error) (*Envelope, error) {
	if err := h.lockSession(ctx, sess.ID); err != nil {
		return nil, err
	}
	defer func() {
		if err := h.store.ReleaseLock(ctx, sess.ID); err != nil {
			h.log.Error("Failed to release session lock", "session_id", sess.ID, "error", err)
		}
	}()

	c, err := h.store.GetCart(ctx, sess.ID)
	if err != nil {
		return nil, err
	}

	if mutate != nil {
		if err := mutate(c); err != nil {
			return nil, err
		}
		if err := h.store.SaveCart(ctx, sess.ID, c); err != nil {
			return nil, err
		}
	}

	return h.envelope(c, sess), nil
}

func (h *CartMutationHandler) lockSession(ctx context.Context, sessionID string) error {
	for attempt := 0; attempt <= h.lockRetries; attempt++ {
		acquired, err := h.store.AcquireLock(ctx, sessionID, h.lockTTL)
		if err != nil {
			return err
		}
		if acquired {
			return nil
		}
		h.clk.Sleep(lockRetryDelay)
	}
	return domainErrors.ErrCartLocked
}

func (h *CartMutationHandler) envelope(c *cart.Cart, sess Session) *Envelope {
	return &Envelope{
		Fragments: fragments.Render(c, h.currency, h.fragmentFilters),
		Hash:      fragments.Hash(c, sess.UserID, h.currency, h.hashExtenders),
	}
}
