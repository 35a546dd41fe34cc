package catalog

import (
	"context"
	"errors"
	"fmt"
	"html"
	"strings"

	domainErrors "github.com/storekit/cart-service/internal/domain/errors"
)

// Lookup is the catalog access the resolver needs. The Postgres catalog
// repository satisfies it.
type Lookup interface {
	GetProductByID(ctx context.Context, id int64) (*Product, error)
	GetVariationByID(ctx context.Context, id int64) (*Variation, error)
	MatchVariation(ctx context.Context, productID int64, selection map[string]string) (int64, error)
	GetAttributeTerms(ctx context.Context, productID int64, attributeName string) ([]string, error)
}

// Resolution is the successful outcome of resolving a variable product:
// the normalized parent product, the concrete variation, and the
// validated attribute selection keyed by request field name.
type Resolution struct {
	ProductID   int64
	VariationID int64
	Attributes  map[string]string
}

var ErrChooseOptions = errors.New("no variation matches the posted options")

// MissingAttributesError lists the variation-defining attributes that were
// not posted, or whose posted values the variation does not accept.
type MissingAttributesError struct {
	Labels []string
}

func (e *MissingAttributesError) Error() string {
	list := FormatLabelList(e.Labels)
	if len(e.Labels) == 1 {
		return fmt.Sprintf("%s is a required field", list)
	}
	return fmt.Sprintf("%s are required fields", list)
}

// FormatLabelList joins human-readable labels the way notice text expects:
// "Color", "Color and Size", "Color, Size and Material".
func FormatLabelList(labels []string) string {
	switch len(labels) {
	case 0:
		return ""
	case 1:
		return labels[0]
	default:
		return strings.Join(labels[:len(labels)-1], ", ") + " and " + labels[len(labels)-1]
	}
}

// ResolveVariation determines the concrete purchasable variation for an
// add-to-cart request against a variable product.
//
// The posted map holds raw request fields keyed by "attribute_<slug>".
// A variation id passed in the product id position is detected and
// normalized to the real parent product. When no variation id was posted
// the resolver attempts a best-effort match of the posted selection
// against the product's variations. The returned Resolution carries only
// validated values; any failure leaves the cart untouched.
func ResolveVariation(ctx context.Context, lookup Lookup, productID, variationID int64, posted map[string]string) (*Resolution, error) {
	product, err := lookup.GetProductByID(ctx, productID)
	if err != nil {
		return nil, err
	}

	// Clients sometimes post the variation id as the product id.
	if product.IsVariation() {
		if variationID == 0 {
			variationID = product.ID
		}
		productID = product.ParentID
		product, err = lookup.GetProductByID(ctx, productID)
		if err != nil {
			return nil, err
		}
	}

	selection := sanitizeSelection(product, posted)

	if variationID == 0 {
		variationID, err = lookup.MatchVariation(ctx, productID, selection)
		if err != nil {
			return nil, err
		}
	}
	if variationID == 0 {
		return nil, ErrChooseOptions
	}

	variation, err := lookup.GetVariationByID(ctx, variationID)
	if err != nil {
		return nil, err
	}
	if variation.ProductID != productID {
		return nil, domainErrors.ErrVariationNotFound
	}

	attributes := make(map[string]string)
	var missing []string

	for _, attr := range product.Attributes {
		if !attr.IsVariation {
			continue
		}

		field := attr.FieldName()
		value, postedOK := selection[field]
		if !postedOK {
			missing = append(missing, attr.Label)
			continue
		}

		expected := variation.Attributes[field]
		switch {
		case expected == "":
			// Wildcard: the variation accepts any globally valid term.
			terms, err := lookup.GetAttributeTerms(ctx, productID, attr.Name)
			if err != nil {
				return nil, err
			}
			if containsTerm(terms, value) {
				attributes[field] = value
			} else {
				missing = append(missing, attr.Label)
			}
		case expected == value:
			attributes[field] = value
		default:
			missing = append(missing, attr.Label)
		}
	}

	if len(missing) > 0 {
		return nil, &MissingAttributesError{Labels: missing}
	}

	return &Resolution{
		ProductID:   productID,
		VariationID: variationID,
		Attributes:  attributes,
	}, nil
}

// sanitizeSelection extracts the posted values for the product's
// variation-defining attributes. Taxonomy-backed values are normalized to
// slugs; free-text values are trimmed and HTML-entity decoded.
func sanitizeSelection(product *Product, posted map[string]string) map[string]string {
	selection := make(map[string]string)
	for _, attr := range product.Attributes {
		if !attr.IsVariation {
			continue
		}
		field := attr.FieldName()
		raw, ok := posted[field]
		if !ok {
			continue
		}
		if attr.IsTaxonomy {
			selection[field] = Slugify(raw)
		} else {
			selection[field] = html.UnescapeString(strings.TrimSpace(raw))
		}
	}
	return selection
}

func containsTerm(terms []string, value string) bool {
	for _, t := range terms {
		if t == value {
			return true
		}
	}
	return false
}
