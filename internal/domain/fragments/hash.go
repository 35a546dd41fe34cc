package fragments

import (
	"crypto/md5"
	"encoding/hex"
	"encoding/json"

	"github.com/storekit/cart-service/internal/domain/cart"
)

// HashExtender lets collaborators fold extra state into the hashed
// payload before it is digested.
type HashExtender func(payload map[string]interface{})

// Hash digests the cart-relevant state clients use to decide whether
// their cached fragments are stale. Identical logical state always yields
// an identical digest: the payload is serialized with encoding/json,
// which writes map keys in sorted order, so the result does not depend
// on insertion order anywhere in the structure.
func Hash(c *cart.Cart, userID int64, currency string, extenders []HashExtender) string {
	payload := map[string]interface{}{
		"cart_data":    c.SessionView(),
		"cart_coupons": c.AppliedCoupons(),
		"user":         userID,
		"currency":     currency,
	}

	for _, extend := range extenders {
		extend(payload)
	}

	serialized, err := json.Marshal(payload)
	if err != nil {
		// Only unmarshalable extender values can get here; fall back to
		// the empty payload rather than a partial one.
		serialized = []byte("{}")
	}

	sum := md5.Sum(serialized)
	return hex.EncodeToString(sum[:])
}
