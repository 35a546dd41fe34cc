package ports

import (
	"context"

	"github.com/storekit/cart-service/internal/domain/catalog"
)

// CatalogRepository is the read-only product catalog collaborator.
type CatalogRepository interface {
	catalog.Lookup

	GetVariationsByProductID(ctx context.Context, productID int64) ([]*catalog.Variation, error)
	CouponExists(ctx context.Context, code string) (bool, error)
	ListProductIDs(ctx context.Context) ([]int64, error)
}
