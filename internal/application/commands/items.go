package commands

import (
	"context"

	"github.com/storekit/cart-service/internal/domain/cart"
	"github.com/storekit/cart-service/internal/domain/catalog"
	domainErrors "github.com/storekit/cart-service/internal/domain/errors"
)

// RemoveItem deletes a line item by key. Removing a key that is not in
// the cart is a no-op that still returns the success envelope, so
// resubmits are safe.
func (h *CartMutationHandler) RemoveItem(ctx context.Context, sess Session, itemKey string) (*Envelope, error) {
	if itemKey == "" {
		return nil, domainErrors.ErrItemKeyRequired
	}

	return h.withCart(ctx, sess, func(c *cart.Cart) error {
		c.Remove(itemKey)
		return nil
	})
}

// SetQuantity changes a line item's quantity. Zero is a removal signal,
// not a stored state. The stock check compares the requested total
// against available stock directly; what the cart already holds for the
// item is part of that total, not an extra allowance.
func (h *CartMutationHandler) SetQuantity(ctx context.Context, sess Session, itemKey string, quantity int) (*Envelope, error) {
	if itemKey == "" {
		return nil, domainErrors.ErrItemKeyRequired
	}

	if quantity <= 0 {
		return h.RemoveItem(ctx, sess, itemKey)
	}

	return h.withCart(ctx, sess, func(c *cart.Cart) error {
		item := c.Get(itemKey)
		if item == nil {
			return domainErrors.ErrCartItemNotFound
		}

		if err := h.hooks.ValidateQuantityUpdate(ctx, item, quantity); err != nil {
			return cart.Reject(err)
		}

		managing, available, err := h.stockFor(ctx, item)
		if err != nil {
			return err
		}
		if managing && quantity > available {
			return &domainErrors.NotEnoughStockError{
				Available: available,
				InCart:    item.Quantity,
			}
		}

		c.SetQuantity(itemKey, quantity)
		return nil
	})
}

// stockFor reads the stock state of the product behind a line item,
// preferring the variation's own stock settings when present.
func (h *CartMutationHandler) stockFor(ctx context.Context, item *cart.Item) (managing bool, available int, err error) {
	if item.VariationID != 0 {
		var variation *catalog.Variation
		variation, err = h.catalog.GetVariationByID(ctx, item.VariationID)
		if err != nil {
			return false, 0, err
		}
		if variation.ManageStock {
			return true, variation.StockQuantity, nil
		}
	}

	product, err := h.catalog.GetProductByID(ctx, item.ProductID)
	if err != nil {
		return false, 0, err
	}
	return product.ManageStock, product.StockQuantity, nil
}
