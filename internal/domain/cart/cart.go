package cart

import (
	"sort"
	"strings"
)

// Cart is the session-scoped collection of line items and applied coupon
// codes. It holds no catalog knowledge; stock and coupon validity are
// checked by the caller before mutating.
type Cart struct {
	Items   map[string]*Item `json:"items"`
	Coupons []string         `json:"coupons,omitempty"`
}

func New() *Cart {
	return &Cart{
		Items: make(map[string]*Item),
	}
}

func (c *Cart) Add(productID, variationID int64, quantity int, price int64, attributes map[string]string) *Item {
	key := ItemKey(productID, variationID, attributes)

	if existing, ok := c.Items[key]; ok {
		existing.Quantity += quantity
		existing.Price = price
		return existing
	}

	item := &Item{
		Key:         key,
		ProductID:   productID,
		VariationID: variationID,
		Quantity:    quantity,
		Price:       price,
		Attributes:  attributes,
	}
	c.Items[key] = item

	return item
}

func (c *Cart) Get(key string) *Item {
	return c.Items[key]
}

func (c *Cart) Remove(key string) bool {
	if _, ok := c.Items[key]; !ok {
		return false
	}
	delete(c.Items, key)
	return true
}

func (c *Cart) SetQuantity(key string, quantity int) bool {
	if quantity <= 0 {
		return c.Remove(key)
	}

	item, ok := c.Items[key]
	if !ok {
		return false
	}
	item.Quantity = quantity
	return true
}

// QuantityFor sums the quantity the cart already holds for a product and
// variation, regardless of attribute selection.
func (c *Cart) QuantityFor(productID, variationID int64) int {
	total := 0
	for _, item := range c.Items {
		if item.ProductID == productID && item.VariationID == variationID {
			total += item.Quantity
		}
	}
	return total
}

func (c *Cart) Count() int {
	total := 0
	for _, item := range c.Items {
		total += item.Quantity
	}
	return total
}

func (c *Cart) IsEmpty() bool {
	return len(c.Items) == 0
}

func (c *Cart) HasCoupon(code string) bool {
	code = NormalizeCouponCode(code)
	for _, applied := range c.Coupons {
		if applied == code {
			return true
		}
	}
	return false
}

func (c *Cart) ApplyCoupon(code string) bool {
	code = NormalizeCouponCode(code)
	if code == "" || c.HasCoupon(code) {
		return false
	}
	c.Coupons = append(c.Coupons, code)
	sort.Strings(c.Coupons)
	return true
}

func (c *Cart) RemoveCoupon(code string) bool {
	code = NormalizeCouponCode(code)
	for i, applied := range c.Coupons {
		if applied == code {
			c.Coupons = append(c.Coupons[:i], c.Coupons[i+1:]...)
			return true
		}
	}
	return false
}

// AppliedCoupons returns the coupon codes in stable sorted order.
func (c *Cart) AppliedCoupons() []string {
	coupons := make([]string, len(c.Coupons))
	copy(coupons, c.Coupons)
	sort.Strings(coupons)
	return coupons
}

func NormalizeCouponCode(code string) string {
	return strings.ToLower(strings.TrimSpace(code))
}

// SessionView is the cart's hash-relevant projection: everything that
// should invalidate cached fragments when it changes, and nothing else.
func (c *Cart) SessionView() map[string]map[string]interface{} {
	view := make(map[string]map[string]interface{}, len(c.Items))
	for key, item := range c.Items {
		view[key] = map[string]interface{}{
			"product_id":   item.ProductID,
			"variation_id": item.VariationID,
			"quantity":     item.Quantity,
			"attributes":   item.Attributes,
		}
	}
	return view
}
