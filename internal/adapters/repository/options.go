package repository

// DefaultCapacity is the number of observations kept for classification.
const DefaultCapacity = 50

// Option applies a configuration option to the RingStore.
type Option func(*RingStore)

// WithCapacity sets the window size. Non-positive values are rejected by
// NewRingStore.
func WithCapacity(capacity int) Option {
	return func(s *RingStore) {
		s.capacity = capacity
	}
}
