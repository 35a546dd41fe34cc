package cart

import (
	"crypto/md5"
	"encoding/hex"
	"encoding/json"
)

// Item is one cart line. Key is deterministic for a given product,
// variation and attribute selection, so adding the same selection twice
// merges into one line instead of creating a duplicate.
type Item struct {
	Key         string            `json:"key"`
	ProductID   int64             `json:"product_id"`
	VariationID int64             `json:"variation_id,omitempty"`
	Quantity    int               `json:"quantity"`
	Price       int64             `json:"price"`
	Attributes  map[string]string `json:"attributes,omitempty"`
}

func ItemKey(productID, variationID int64, attributes map[string]string) string {
	payload, _ := json.Marshal(struct {
		ProductID   int64             `json:"product_id"`
		VariationID int64             `json:"variation_id"`
		Attributes  map[string]string `json:"attributes"`
	}{
		ProductID:   productID,
		VariationID: variationID,
		Attributes:  attributes,
	})

	sum := md5.Sum(payload)
	return hex.EncodeToString(sum[:])
}
