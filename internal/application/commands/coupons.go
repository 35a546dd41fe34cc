package commands

import (
	"context"
	"strings"

	"github.com/storekit/cart-service/internal/domain/cart"
	domainErrors "github.com/storekit/cart-service/internal/domain/errors"
)

func (h *CartMutationHandler) ApplyCoupon(ctx context.Context, sess Session, code string) (*Envelope, error) {
	if strings.TrimSpace(code) == "" {
		return nil, domainErrors.ErrCouponNotApplied
	}

	return h.withCart(ctx, sess, func(c *cart.Cart) error {
		normalized := cart.NormalizeCouponCode(code)

		exists, err := h.catalog.CouponExists(ctx, normalized)
		if err != nil {
			return err
		}
		if !exists {
			return &cart.RejectedError{
				Notices: []cart.Notice{cart.ErrorNotice("Coupon %q does not exist!", code)},
				Err:     domainErrors.ErrCouponNotApplied,
			}
		}

		if !c.ApplyCoupon(normalized) {
			return &cart.RejectedError{
				Notices: []cart.Notice{cart.ErrorNotice("Coupon code already applied!")},
				Err:     domainErrors.ErrCouponNotApplied,
			}
		}
		return nil
	})
}

func (h *CartMutationHandler) RemoveCoupon(ctx context.Context, sess Session, code string) (*Envelope, error) {
	if strings.TrimSpace(code) == "" {
		return nil, domainErrors.ErrCouponNotRemoved
	}

	return h.withCart(ctx, sess, func(c *cart.Cart) error {
		if !c.RemoveCoupon(code) {
			return &cart.RejectedError{
				Notices: []cart.Notice{cart.ErrorNotice("Coupon %q has not been applied.", code)},
				Err:     domainErrors.ErrCouponNotRemoved,
			}
		}
		return nil
	})
}
