package errors

import (
	"errors"
	"fmt"
)

var (
	ErrProductNotFound   = errors.New("product not found")
	ErrVariationNotFound = errors.New("variation not found")
	ErrCartItemNotFound  = errors.New("cart item not found")

	ErrItemKeyRequired = errors.New("item key is required")

	ErrCouponNotApplied = errors.New("coupon could not be applied")
	ErrCouponNotRemoved = errors.New("coupon could not be removed")

	ErrCartLocked = errors.New("cart is locked by another request")
)

// NotEnoughStockError is returned when a requested quantity exceeds the
// available stock of a stock-managed product. Available is the full stock
// level, InCart the quantity the session already holds for that item.
type NotEnoughStockError struct {
	Available int
	InCart    int
}

func (e *NotEnoughStockError) Error() string {
	return fmt.Sprintf(
		"You cannot add that amount to the cart — we have %d in stock and you already have %d in your cart.",
		e.Available, e.InCart,
	)
}
