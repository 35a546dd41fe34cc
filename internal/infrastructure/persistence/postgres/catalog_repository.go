package postgres

import (
	"context"
	"database/sql"

	"github.com/lib/pq"

	"github.com/storekit/cart-service/internal/domain/catalog"
	domainErrors "github.com/storekit/cart-service/internal/domain/errors"
	"github.com/storekit/cart-service/internal/infrastructure/monitoring"
)

// CatalogRepository reads the product catalog: products, their
// variation-defining attributes, concrete variations, attribute terms
// and coupon codes. The cart service never writes to the catalog.
type CatalogRepository struct {
	db *sql.DB
}

func NewCatalogRepository(conn *Connection) *CatalogRepository {
	return &CatalogRepository{
		db: conn.GetDB(),
	}
}

func (r *CatalogRepository) GetProductByID(ctx context.Context, id int64) (*catalog.Product, error) {
	query := `
		SELECT id, COALESCE(parent_id, 0), name, slug, type, price, manage_stock, stock_quantity
		FROM products
		WHERE id = $1
	`

	var p catalog.Product
	var productType string

	row := monitoring.InstrumentQueryRow(ctx, r.db, "SELECT", "products", query, id)
	err := row.Scan(&p.ID, &p.ParentID, &p.Name, &p.Slug, &productType, &p.Price, &p.ManageStock, &p.StockQuantity)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, domainErrors.ErrProductNotFound
		}
		return nil, err
	}
	p.Type = catalog.ProductType(productType)

	if !p.IsVariation() {
		attributes, err := r.getProductAttributes(ctx, p.ID)
		if err != nil {
			return nil, err
		}
		p.Attributes = attributes
	}

	return &p, nil
}

func (r *CatalogRepository) getProductAttributes(ctx context.Context, productID int64) ([]catalog.Attribute, error) {
	query := `
		SELECT name, label, is_taxonomy, is_variation
		FROM product_attributes
		WHERE product_id = $1
		ORDER BY position, name
	`

	rows, err := monitoring.InstrumentQuery(ctx, r.db, "SELECT", "product_attributes", query, productID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var attributes []catalog.Attribute
	for rows.Next() {
		var a catalog.Attribute
		if err := rows.Scan(&a.Name, &a.Label, &a.IsTaxonomy, &a.IsVariation); err != nil {
			return nil, err
		}
		attributes = append(attributes, a)
	}

	return attributes, rows.Err()
}

func (r *CatalogRepository) GetVariationByID(ctx context.Context, id int64) (*catalog.Variation, error) {
	query := `
		SELECT id, COALESCE(parent_id, 0), price, manage_stock, stock_quantity
		FROM products
		WHERE id = $1 AND type = 'variation'
	`

	var v catalog.Variation

	row := monitoring.InstrumentQueryRow(ctx, r.db, "SELECT", "products", query, id)
	err := row.Scan(&v.ID, &v.ProductID, &v.Price, &v.ManageStock, &v.StockQuantity)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, domainErrors.ErrVariationNotFound
		}
		return nil, err
	}

	attributes, err := r.getVariationAttributes(ctx, []int64{v.ID})
	if err != nil {
		return nil, err
	}
	v.Attributes = attributes[v.ID]
	if v.Attributes == nil {
		v.Attributes = map[string]string{}
	}

	return &v, nil
}

func (r *CatalogRepository) GetVariationsByProductID(ctx context.Context, productID int64) ([]*catalog.Variation, error) {
	query := `
		SELECT id, COALESCE(parent_id, 0), price, manage_stock, stock_quantity
		FROM products
		WHERE parent_id = $1 AND type = 'variation'
		ORDER BY id
	`

	rows, err := monitoring.InstrumentQuery(ctx, r.db, "SELECT", "products", query, productID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var variations []*catalog.Variation
	var ids []int64
	for rows.Next() {
		var v catalog.Variation
		if err := rows.Scan(&v.ID, &v.ProductID, &v.Price, &v.ManageStock, &v.StockQuantity); err != nil {
			return nil, err
		}
		v.Attributes = map[string]string{}
		variations = append(variations, &v)
		ids = append(ids, v.ID)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	if len(ids) == 0 {
		return variations, nil
	}

	attributes, err := r.getVariationAttributes(ctx, ids)
	if err != nil {
		return nil, err
	}
	for _, v := range variations {
		if attrs, ok := attributes[v.ID]; ok {
			v.Attributes = attrs
		}
	}

	return variations, nil
}

func (r *CatalogRepository) getVariationAttributes(ctx context.Context, variationIDs []int64) (map[int64]map[string]string, error) {
	query := `
		SELECT variation_id, field_name, value
		FROM variation_attributes
		WHERE variation_id = ANY($1)
	`

	rows, err := monitoring.InstrumentQuery(ctx, r.db, "SELECT", "variation_attributes", query, pq.Array(variationIDs))
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	attributes := make(map[int64]map[string]string)
	for rows.Next() {
		var variationID int64
		var field, value string
		if err := rows.Scan(&variationID, &field, &value); err != nil {
			return nil, err
		}
		if attributes[variationID] == nil {
			attributes[variationID] = make(map[string]string)
		}
		attributes[variationID][field] = value
	}

	return attributes, rows.Err()
}

// MatchVariation finds the first variation compatible with the posted
// selection. Returns 0 without error when nothing matches.
func (r *CatalogRepository) MatchVariation(ctx context.Context, productID int64, selection map[string]string) (int64, error) {
	variations, err := r.GetVariationsByProductID(ctx, productID)
	if err != nil {
		return 0, err
	}
	return catalog.FirstMatching(variations, selection), nil
}

func (r *CatalogRepository) GetAttributeTerms(ctx context.Context, productID int64, attributeName string) ([]string, error) {
	query := `
		SELECT term
		FROM attribute_terms
		WHERE product_id = $1 AND attribute_name = $2
		ORDER BY term
	`

	rows, err := monitoring.InstrumentQuery(ctx, r.db, "SELECT", "attribute_terms", query, productID, attributeName)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var terms []string
	for rows.Next() {
		var term string
		if err := rows.Scan(&term); err != nil {
			return nil, err
		}
		terms = append(terms, term)
	}

	return terms, rows.Err()
}

func (r *CatalogRepository) CouponExists(ctx context.Context, code string) (bool, error) {
	query := `SELECT EXISTS(SELECT 1 FROM coupons WHERE code = $1 AND active)`

	var exists bool
	row := monitoring.InstrumentQueryRow(ctx, r.db, "SELECT", "coupons", query, code)
	if err := row.Scan(&exists); err != nil {
		return false, err
	}

	return exists, nil
}

func (r *CatalogRepository) ListProductIDs(ctx context.Context) ([]int64, error) {
	query := `SELECT id FROM products WHERE type <> 'variation'`

	rows, err := monitoring.InstrumentQuery(ctx, r.db, "SELECT", "products", query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var ids []int64
	for rows.Next() {
		var id int64
		if err := rows.Scan(&id); err != nil {
			return nil, err
		}
		ids = append(ids, id)
	}

	return ids, rows.Err()
}
