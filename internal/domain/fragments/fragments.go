package fragments

import (
	"github.com/storekit/cart-service/internal/domain/cart"
)

// Set is the named fragment payload returned to clients for DOM patching:
// an html group of rendered blocks and a data group of structured values.
type Set struct {
	HTML map[string]string      `json:"html"`
	Data map[string]interface{} `json:"data"`
}

// Filter extends or rewrites the fragment set. Filters run in order after
// the built-in fragments are populated.
type Filter func(c *cart.Cart, s *Set)

// Render produces the fragment set for the current cart state. Pure
// function of its inputs; filters are the only extension point.
func Render(c *cart.Cart, currency string, filters []Filter) *Set {
	s := &Set{
		HTML: make(map[string]string),
		Data: map[string]interface{}{
			"currency":   currency,
			"cart_count": c.Count(),
		},
	}

	for _, filter := range filters {
		filter(c, s)
	}

	return s
}
