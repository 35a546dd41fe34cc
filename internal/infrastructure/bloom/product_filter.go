package bloom

import (
	"context"
	"strconv"

	"github.com/redis/go-redis/v9"
)

const (
	productFilterKey        = "bloom:products"
	productFilterStagingKey = "bloom:products:staging"
	productFilterSeededKey  = "bloom:products:seeded"
)

// ProductFilter answers "does this product id possibly exist" without a
// catalog round trip. A negative answer is only meaningful after the
// first reseed, which sets the seeded flag.
type ProductFilter struct {
	client *redis.Client
	filter *RedisBloomFilter
}

func NewProductFilter(client *redis.Client, expectedProducts uint64, falsePositiveProb float64) *ProductFilter {
	m, k := GetOptimalParameters(expectedProducts, falsePositiveProb)

	return &ProductFilter{
		client: client,
		filter: NewRedisBloomFilter(client, productFilterKey, m, k),
	}
}

func (f *ProductFilter) MightContain(ctx context.Context, productID int64) (bool, error) {
	return f.filter.Contains(ctx, strconv.FormatInt(productID, 10))
}

func (f *ProductFilter) Seeded(ctx context.Context) (bool, error) {
	count, err := f.client.Exists(ctx, productFilterSeededKey).Result()
	if err != nil {
		return false, err
	}
	return count > 0, nil
}

// Reseed rebuilds the filter from the full product id list and marks it
// usable. The rebuild happens under a staging key that is renamed over
// the live one only once fully populated, so concurrent lookups keep
// answering from the previous bitmap and never see a half-built filter.
// Rebuilding from scratch each cycle is what lets removed products
// eventually stop passing.
func (f *ProductFilter) Reseed(ctx context.Context, productIDs []int64) error {
	if err := f.buildStaging(ctx, productIDs); err != nil {
		return err
	}
	return f.swapStaging(ctx, len(productIDs) == 0)
}

func (f *ProductFilter) buildStaging(ctx context.Context, productIDs []int64) error {
	staging := NewRedisBloomFilter(f.client, productFilterStagingKey, f.filter.m, f.filter.k)
	if err := staging.Clear(ctx); err != nil {
		return err
	}

	elements := make([]string, len(productIDs))
	for i, id := range productIDs {
		elements[i] = strconv.FormatInt(id, 10)
	}

	return staging.AddBatch(ctx, elements)
}

func (f *ProductFilter) swapStaging(ctx context.Context, empty bool) error {
	if empty {
		// An empty catalog leaves no staging key to rename; a missing
		// live key reads as all-zero bits, which is the right answer.
		if err := f.client.Del(ctx, productFilterKey).Err(); err != nil {
			return err
		}
	} else if err := f.client.Rename(ctx, productFilterStagingKey, productFilterKey).Err(); err != nil {
		return err
	}

	return f.client.Set(ctx, productFilterSeededKey, "1", 0).Err()
}
