package response

import (
	"errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/storekit/cart-service/internal/domain/cart"
	"github.com/storekit/cart-service/internal/domain/catalog"
	domainErrors "github.com/storekit/cart-service/internal/domain/errors"
)

func TestMapDomainErrorSentinels(t *testing.T) {
	tests := []struct {
		name       string
		err        error
		wantStatus int
		wantMsg    string
	}{
		{"product not found", domainErrors.ErrProductNotFound, http.StatusNotFound, "Product not found"},
		{"variation not found", domainErrors.ErrVariationNotFound, http.StatusNotFound, "Variation not found"},
		{"cart item not found", domainErrors.ErrCartItemNotFound, http.StatusNotFound, "Cart item not found"},
		{"item key required", domainErrors.ErrItemKeyRequired, http.StatusBadRequest, GenericFailureMessage},
		{"coupon not applied", domainErrors.ErrCouponNotApplied, http.StatusBadRequest, "Coupon could not be applied."},
		{"coupon not removed", domainErrors.ErrCouponNotRemoved, http.StatusBadRequest, "Coupon could not be removed."},
		{"choose options", catalog.ErrChooseOptions, http.StatusBadRequest, "Please choose product options…"},
		{"cart locked", domainErrors.ErrCartLocked, http.StatusServiceUnavailable, "Your cart is being updated, please try again."},
		{"unknown", errors.New("boom"), http.StatusInternalServerError, "Internal server error"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			status, msg := MapDomainError(tt.err)
			if status != tt.wantStatus {
				t.Errorf("expected status %d, got %d", tt.wantStatus, status)
			}
			if msg != tt.wantMsg {
				t.Errorf("expected message %q, got %q", tt.wantMsg, msg)
			}
		})
	}
}

func TestMapDomainErrorWrappedSentinel(t *testing.T) {
	wrapped := fmt.Errorf("loading product: %w", domainErrors.ErrProductNotFound)

	status, msg := MapDomainError(wrapped)
	if status != http.StatusNotFound || msg != "Product not found" {
		t.Errorf("expected wrapped sentinel to map, got %d %q", status, msg)
	}
}

func TestMapDomainErrorRejectedUsesFirstNotice(t *testing.T) {
	err := &cart.RejectedError{
		Notices: []cart.Notice{
			cart.ErrorNotice(`<strong>Coupon "x" does not exist!</strong>`),
			cart.ErrorNotice("Second notice never surfaces"),
		},
		Err: domainErrors.ErrCouponNotApplied,
	}

	status, msg := MapDomainError(err)
	if status != http.StatusBadRequest {
		t.Errorf("expected 400, got %d", status)
	}
	if msg != `Coupon "x" does not exist!` {
		t.Errorf("expected cleaned first notice, got %q", msg)
	}
}

func TestMapDomainErrorRejectedWithoutNotices(t *testing.T) {
	status, msg := MapDomainError(&cart.RejectedError{Err: errors.New("validator veto")})

	if status != http.StatusBadRequest {
		t.Errorf("expected 400, got %d", status)
	}
	if msg != GenericFailureMessage {
		t.Errorf("expected generic failure message, got %q", msg)
	}
}

func TestMapDomainErrorRejectedInheritsCauseStatus(t *testing.T) {
	err := &cart.RejectedError{
		Notices: []cart.Notice{cart.ErrorNotice("Out of stock")},
		Err:     domainErrors.ErrCartItemNotFound,
	}

	status, msg := MapDomainError(err)
	if status != http.StatusNotFound {
		t.Errorf("expected cause status 404, got %d", status)
	}
	if msg != "Out of stock" {
		t.Errorf("expected notice text kept, got %q", msg)
	}
}

func TestMapDomainErrorStock(t *testing.T) {
	status, msg := MapDomainError(&domainErrors.NotEnoughStockError{Available: 3, InCart: 2})

	if status != http.StatusBadRequest {
		t.Errorf("expected 400, got %d", status)
	}
	want := "You cannot add that amount to the cart — we have 3 in stock and you already have 2 in your cart."
	if msg != want {
		t.Errorf("expected %q, got %q", want, msg)
	}
}

func TestMapDomainErrorMissingAttributes(t *testing.T) {
	status, msg := MapDomainError(&catalog.MissingAttributesError{Labels: []string{"Color", "Size"}})

	if status != http.StatusBadRequest {
		t.Errorf("expected 400, got %d", status)
	}
	if msg != "Color and Size are required fields" {
		t.Errorf("unexpected message %q", msg)
	}
}
