package monitoring

// CartMutationMetrics records the outcome of one cart operation.
type CartMutationMetrics struct {
	operation string
}

func NewCartMutationMetrics(operation string) *CartMutationMetrics {
	return &CartMutationMetrics{
		operation: operation,
	}
}

func (m *CartMutationMetrics) RecordAttempt() {
	CartMutationAttemptsTotal.WithLabelValues(m.operation).Inc()
}

func (m *CartMutationMetrics) RecordSuccess(cartItems int) {
	CartMutationSuccessTotal.WithLabelValues(m.operation).Inc()
	CartItemsPerMutation.Observe(float64(cartItems))
	FragmentHashesComputedTotal.Inc()
}

func (m *CartMutationMetrics) RecordFailure(reason string) {
	CartMutationFailureTotal.WithLabelValues(m.operation, reason).Inc()
}

func RecordBloomReseed(productCount int) {
	BloomFilterSeedsTotal.Inc()
	BloomFilterSeedSize.Set(float64(productCount))
}
