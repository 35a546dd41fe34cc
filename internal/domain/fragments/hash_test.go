package fragments

import (
	"testing"

	"github.com/storekit/cart-service/internal/domain/cart"
)

func buildCart() *cart.Cart {
	c := cart.New()
	c.Add(42, 7, 2, 1999, map[string]string{"attribute_pa_color": "blue"})
	c.Add(43, 0, 1, 999, nil)
	return c
}

func TestHashDeterministic(t *testing.T) {
	a := Hash(buildCart(), 5, "USD", nil)
	b := Hash(buildCart(), 5, "USD", nil)

	if a != b {
		t.Errorf("expected identical hashes for identical state, got %q and %q", a, b)
	}
	if len(a) != 32 {
		t.Errorf("expected 32-char md5 hex digest, got %q", a)
	}
}

func TestHashIgnoresInsertionOrder(t *testing.T) {
	forward := cart.New()
	forward.Add(42, 7, 2, 1999, map[string]string{"attribute_pa_color": "blue"})
	forward.Add(43, 0, 1, 999, nil)
	forward.ApplyCoupon("summer10")
	forward.ApplyCoupon("welcome")

	reverse := cart.New()
	reverse.ApplyCoupon("welcome")
	reverse.ApplyCoupon("summer10")
	reverse.Add(43, 0, 1, 999, nil)
	reverse.Add(42, 7, 2, 1999, map[string]string{"attribute_pa_color": "blue"})

	if Hash(forward, 5, "USD", nil) != Hash(reverse, 5, "USD", nil) {
		t.Error("expected hash to be independent of mutation order")
	}
}

func TestHashSensitivity(t *testing.T) {
	base := Hash(buildCart(), 5, "USD", nil)

	tests := []struct {
		name string
		hash string
	}{
		{"quantity", func() string {
			c := buildCart()
			c.Add(42, 7, 1, 1999, map[string]string{"attribute_pa_color": "blue"})
			return Hash(c, 5, "USD", nil)
		}()},
		{"coupon", func() string {
			c := buildCart()
			c.ApplyCoupon("summer10")
			return Hash(c, 5, "USD", nil)
		}()},
		{"user", Hash(buildCart(), 6, "USD", nil)},
		{"currency", Hash(buildCart(), 5, "EUR", nil)},
	}

	for _, tt := range tests {
		if tt.hash == base {
			t.Errorf("expected %s change to alter the hash", tt.name)
		}
	}
}

func TestHashCouponRoundTrip(t *testing.T) {
	c := buildCart()
	before := Hash(c, 5, "USD", nil)

	c.ApplyCoupon("summer10")
	during := Hash(c, 5, "USD", nil)
	c.RemoveCoupon("summer10")
	after := Hash(c, 5, "USD", nil)

	if before == during {
		t.Error("expected applying a coupon to change the hash")
	}
	if before != after {
		t.Errorf("expected hash to return to %q after coupon removal, got %q", before, after)
	}
}

func TestHashExtenders(t *testing.T) {
	extender := func(payload map[string]interface{}) {
		payload["store_notice"] = "holiday"
	}

	plain := Hash(buildCart(), 5, "USD", nil)
	extended := Hash(buildCart(), 5, "USD", []HashExtender{extender})

	if plain == extended {
		t.Error("expected extender payload to alter the hash")
	}
}

func TestRenderPopulatesData(t *testing.T) {
	c := buildCart()

	counted := Render(c, "USD", nil)
	if counted.Data["cart_count"] != 3 {
		t.Errorf("expected cart_count 3, got %v", counted.Data["cart_count"])
	}
	if counted.Data["currency"] != "USD" {
		t.Errorf("expected currency USD, got %v", counted.Data["currency"])
	}
	if counted.HTML == nil {
		t.Error("expected non-nil html group")
	}
}

func TestRenderRunsFiltersInOrder(t *testing.T) {
	var order []string
	first := func(c *cart.Cart, s *Set) {
		order = append(order, "first")
		s.HTML["mini-cart"] = "<div>1</div>"
	}
	second := func(c *cart.Cart, s *Set) {
		order = append(order, "second")
		s.HTML["mini-cart"] = "<div>2</div>"
	}

	s := Render(cart.New(), "USD", []Filter{first, second})

	if len(order) != 2 || order[0] != "first" || order[1] != "second" {
		t.Fatalf("expected filters to run in registration order, got %v", order)
	}
	if s.HTML["mini-cart"] != "<div>2</div>" {
		t.Errorf("expected later filter to win, got %q", s.HTML["mini-cart"])
	}
}
