package scheduler

import (
	"context"
	"time"

	"github.com/storekit/cart-service/internal/application/ports"
	"github.com/storekit/cart-service/internal/infrastructure/bloom"
	"github.com/storekit/cart-service/internal/infrastructure/monitoring"
	"github.com/storekit/cart-service/internal/pkg/logger"
)

// BloomRefresher periodically rebuilds the product bloom filter from the
// catalog so add-to-cart requests can cheaply reject unknown products.
type BloomRefresher struct {
	catalog  ports.CatalogRepository
	filter   *bloom.ProductFilter
	logger   *logger.Logger
	interval time.Duration
	stopChan chan struct{}
}

func NewBloomRefresher(
	catalog ports.CatalogRepository,
	filter *bloom.ProductFilter,
	logger *logger.Logger,
	interval time.Duration,
) *BloomRefresher {
	return &BloomRefresher{
		catalog:  catalog,
		filter:   filter,
		logger:   logger,
		interval: interval,
		stopChan: make(chan struct{}),
	}
}

func (r *BloomRefresher) Start(ctx context.Context) {
	r.logger.Info("Starting product bloom refresher", "interval", r.interval.String())

	if err := r.refresh(ctx); err != nil {
		r.logger.Error("Failed initial bloom filter seed", "error", err)
	}

	ticker := time.NewTicker(r.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			r.logger.Info("Product bloom refresher stopped")
			return
		case <-r.stopChan:
			r.logger.Info("Product bloom refresher stopped")
			return
		case <-ticker.C:
			if err := r.refresh(ctx); err != nil {
				r.logger.Error("Failed to refresh bloom filter", "error", err)
			}
		}
	}
}

func (r *BloomRefresher) Stop() {
	close(r.stopChan)
}

func (r *BloomRefresher) refresh(ctx context.Context) error {
	ids, err := r.catalog.ListProductIDs(ctx)
	if err != nil {
		return err
	}

	if err := r.filter.Reseed(ctx, ids); err != nil {
		return err
	}

	monitoring.RecordBloomReseed(len(ids))
	r.logger.Info("Reseeded product bloom filter", "products", len(ids))
	return nil
}
