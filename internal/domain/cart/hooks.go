package cart

import (
	"context"
)

// AddToCartValidator vets an add-to-cart attempt before the cart is
// touched. A non-nil error vetoes the mutation and its message becomes
// the surfaced notice.
type AddToCartValidator func(ctx context.Context, productID int64, quantity int, variationID int64, attributes map[string]string) error

// QuantityUpdateValidator vets a quantity change for an existing line.
type QuantityUpdateValidator func(ctx context.Context, item *Item, quantity int) error

// AddedToCartListener observes a successful add. Side effects only; it
// cannot fail the mutation.
type AddedToCartListener func(ctx context.Context, productID int64, quantity int)

// Hooks are the ordered extension points a mutation handler invokes.
// Validators short-circuit: the first rejection wins and later ones are
// never consulted.
type Hooks struct {
	AddToCartValidators      []AddToCartValidator
	QuantityUpdateValidators []QuantityUpdateValidator
	AddedToCartListeners     []AddedToCartListener
}

func (h *Hooks) ValidateAddToCart(ctx context.Context, productID int64, quantity int, variationID int64, attributes map[string]string) error {
	if h == nil {
		return nil
	}
	for _, validate := range h.AddToCartValidators {
		if err := validate(ctx, productID, quantity, variationID, attributes); err != nil {
			return err
		}
	}
	return nil
}

func (h *Hooks) ValidateQuantityUpdate(ctx context.Context, item *Item, quantity int) error {
	if h == nil {
		return nil
	}
	for _, validate := range h.QuantityUpdateValidators {
		if err := validate(ctx, item, quantity); err != nil {
			return err
		}
	}
	return nil
}

func (h *Hooks) NotifyAddedToCart(ctx context.Context, productID int64, quantity int) {
	if h == nil {
		return
	}
	for _, listener := range h.AddedToCartListeners {
		listener(ctx, productID, quantity)
	}
}
