package ports

import "context"

// ProductFilter is a probabilistic membership check over known product
// ids. A false MightContain is definitive only once Seeded reports true;
// before that the filter has not been populated and answers are useless.
type ProductFilter interface {
	MightContain(ctx context.Context, productID int64) (bool, error)
	Seeded(ctx context.Context) (bool, error)
}
