package catalog

import (
	"strings"
)

type ProductType string

const (
	TypeSimple    ProductType = "simple"
	TypeVariable  ProductType = "variable"
	TypeVariation ProductType = "variation"
)

type Product struct {
	ID            int64
	ParentID      int64
	Name          string
	Slug          string
	Type          ProductType
	Price         int64
	ManageStock   bool
	StockQuantity int
	Attributes    []Attribute
}

func (p *Product) IsVariable() bool {
	return p.Type == TypeVariable
}

func (p *Product) IsVariation() bool {
	return p.Type == TypeVariation
}

func (p *Product) ManagingStock() bool {
	return p.ManageStock
}

func (p *Product) HasEnoughStock(quantity int) bool {
	if !p.ManageStock {
		return true
	}
	return quantity <= p.StockQuantity
}

// Attribute describes one attribute of a variable product. Name is the
// attribute's raw name ("pa_color" for taxonomy attributes, free text such
// as "Logo Text" otherwise); Label is what users see in error messages.
type Attribute struct {
	Name        string
	Label       string
	IsTaxonomy  bool
	IsVariation bool
}

// FieldName is the request-field key clients post the selection under.
func (a Attribute) FieldName() string {
	return AttributeFieldPrefix + Slugify(a.Name)
}

const AttributeFieldPrefix = "attribute_"

// Variation is a concrete purchasable child of a variable product. Its
// Attributes map field names to the expected value; an empty value means
// the variation accepts any term of that attribute.
type Variation struct {
	ID            int64
	ProductID     int64
	Price         int64
	ManageStock   bool
	StockQuantity int
	Attributes    map[string]string
}

func (v *Variation) HasEnoughStock(quantity int) bool {
	if !v.ManageStock {
		return true
	}
	return quantity <= v.StockQuantity
}

// Matches reports whether the posted selection is acceptable for this
// variation: every declared attribute is either a wildcard or equal to
// the posted value.
func (v *Variation) Matches(selection map[string]string) bool {
	for field, expected := range v.Attributes {
		if expected == "" {
			continue
		}
		if selection[field] != expected {
			return false
		}
	}
	return true
}

// FirstMatching returns the id of the first variation compatible with the
// posted selection, or 0 when none match.
func FirstMatching(variations []*Variation, selection map[string]string) int64 {
	for _, v := range variations {
		if v.Matches(selection) {
			return v.ID
		}
	}
	return 0
}

// Slugify normalizes an attribute name or taxonomy term the same way the
// storefront does: lowercase, whitespace collapsed to hyphens, everything
// outside [a-z0-9-_] dropped.
func Slugify(s string) string {
	s = strings.ToLower(strings.TrimSpace(s))

	var b strings.Builder
	b.Grow(len(s))
	lastHyphen := false
	for _, r := range s {
		switch {
		case r >= 'a' && r <= 'z', r >= '0' && r <= '9', r == '_':
			b.WriteRune(r)
			lastHyphen = false
		case r == ' ' || r == '-' || r == '\t':
			if !lastHyphen && b.Len() > 0 {
				b.WriteByte('-')
				lastHyphen = true
			}
		}
	}

	return strings.TrimSuffix(b.String(), "-")
}
