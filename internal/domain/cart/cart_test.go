package cart

import (
	"testing"
)

func TestAddMergesSameSelection(t *testing.T) {
	c := New()

	first := c.Add(42, 0, 1, 1999, nil)
	second := c.Add(42, 0, 2, 1999, nil)

	if first.Key != second.Key {
		t.Fatalf("expected same item key, got %q and %q", first.Key, second.Key)
	}
	if len(c.Items) != 1 {
		t.Fatalf("expected 1 line item, got %d", len(c.Items))
	}
	if second.Quantity != 3 {
		t.Errorf("expected merged quantity 3, got %d", second.Quantity)
	}
	if c.Count() != 3 {
		t.Errorf("expected cart count 3, got %d", c.Count())
	}
}

func TestAddDistinctSelectionsStaySeparate(t *testing.T) {
	c := New()

	c.Add(42, 7, 1, 1999, map[string]string{"attribute_pa_color": "blue"})
	c.Add(42, 8, 1, 2199, map[string]string{"attribute_pa_color": "red"})

	if len(c.Items) != 2 {
		t.Fatalf("expected 2 line items, got %d", len(c.Items))
	}
}

func TestItemKeyDeterministic(t *testing.T) {
	attrs := map[string]string{"attribute_pa_color": "blue", "attribute_pa_size": "m"}

	a := ItemKey(42, 7, attrs)
	b := ItemKey(42, 7, map[string]string{"attribute_pa_size": "m", "attribute_pa_color": "blue"})

	if a != b {
		t.Errorf("expected identical keys regardless of map order, got %q and %q", a, b)
	}
	if a == ItemKey(42, 8, attrs) {
		t.Error("expected different variation to produce a different key")
	}
}

func TestRemoveMissingKeyIsNoOp(t *testing.T) {
	c := New()
	c.Add(42, 0, 1, 1999, nil)

	if c.Remove("nope") {
		t.Error("expected Remove of unknown key to report false")
	}
	if len(c.Items) != 1 {
		t.Errorf("expected cart untouched, got %d items", len(c.Items))
	}
}

func TestSetQuantityZeroRemoves(t *testing.T) {
	c := New()
	item := c.Add(42, 0, 2, 1999, nil)

	if !c.SetQuantity(item.Key, 0) {
		t.Fatal("expected SetQuantity(0) to succeed as a removal")
	}
	if !c.IsEmpty() {
		t.Errorf("expected empty cart, got %d items", len(c.Items))
	}
}

func TestSetQuantityUnknownKey(t *testing.T) {
	c := New()

	if c.SetQuantity("nope", 3) {
		t.Error("expected SetQuantity on unknown key to report false")
	}
}

func TestQuantityForSumsAcrossLines(t *testing.T) {
	c := New()
	c.Add(42, 7, 2, 1999, map[string]string{"attribute_pa_color": "blue"})
	c.Add(42, 7, 3, 1999, map[string]string{"attribute_pa_color": "red"})
	c.Add(43, 0, 5, 999, nil)

	if got := c.QuantityFor(42, 7); got != 5 {
		t.Errorf("expected quantity 5 for product 42 variation 7, got %d", got)
	}
	if got := c.QuantityFor(42, 0); got != 0 {
		t.Errorf("expected quantity 0 for product 42 without variation, got %d", got)
	}
}

func TestCouponLifecycle(t *testing.T) {
	c := New()

	if !c.ApplyCoupon("  SUMMER10 ") {
		t.Fatal("expected first apply to succeed")
	}
	if c.ApplyCoupon("summer10") {
		t.Error("expected duplicate apply to report false")
	}
	if !c.HasCoupon("Summer10") {
		t.Error("expected HasCoupon to match case-insensitively")
	}

	if !c.RemoveCoupon("SUMMER10") {
		t.Fatal("expected remove of applied coupon to succeed")
	}
	if c.RemoveCoupon("summer10") {
		t.Error("expected second remove to report false")
	}
	if len(c.AppliedCoupons()) != 0 {
		t.Errorf("expected no coupons, got %v", c.AppliedCoupons())
	}
}

func TestAppliedCouponsSorted(t *testing.T) {
	c := New()
	c.ApplyCoupon("zeta")
	c.ApplyCoupon("alpha")
	c.ApplyCoupon("mid")

	coupons := c.AppliedCoupons()
	want := []string{"alpha", "mid", "zeta"}
	for i, code := range want {
		if coupons[i] != code {
			t.Fatalf("expected coupons %v, got %v", want, coupons)
		}
	}
}

func TestApplyCouponRejectsBlank(t *testing.T) {
	c := New()
	if c.ApplyCoupon("   ") {
		t.Error("expected blank coupon code to be rejected")
	}
}

func TestSessionViewProjectsHashRelevantState(t *testing.T) {
	c := New()
	item := c.Add(42, 7, 2, 1999, map[string]string{"attribute_pa_color": "blue"})

	view := c.SessionView()
	line, ok := view[item.Key]
	if !ok {
		t.Fatalf("expected view to contain key %q", item.Key)
	}
	if line["quantity"] != 2 {
		t.Errorf("expected quantity 2 in view, got %v", line["quantity"])
	}
	if _, priced := line["price"]; priced {
		t.Error("expected price to be excluded from the session view")
	}
}
