package repository

import (
	"context"
	"fmt"
	"sync"

	"github.com/okian/bhoomi/internal/domain/model"
)

// RingStore is a fixed-capacity FIFO window backed by a circular slice.
type RingStore struct {
	mu       sync.RWMutex
	buf      []model.Observation
	head     int // index of the oldest element
	size     int
	capacity int
}

// NewRingStore creates an empty window.
func NewRingStore(opts ...Option) (*RingStore, error) {
	s := &RingStore{capacity: DefaultCapacity}
	for _, opt := range opts {
		opt(s)
	}
	if s.capacity <= 0 {
		return nil, fmt.Errorf("%w: %d", ErrInvalidCapacity, s.capacity)
	}
	s.buf = make([]model.Observation, s.capacity)
	return s, nil
}

// Append implements Store.
func (s *RingStore) Append(_ context.Context, obs model.Observation) error {
	if err := obs.Validate(); err != nil {
		return err
	}

	s.mu.Lock()
	s.push(obs)
	s.mu.Unlock()
	return nil
}

// Replace implements Store. The window is left untouched when any
// observation is invalid.
func (s *RingStore) Replace(_ context.Context, obs []model.Observation) error {
	for i, o := range obs {
		if err := o.Validate(); err != nil {
			return fmt.Errorf("observation %d: %w", i, err)
		}
	}
	if len(obs) > s.capacity {
		obs = obs[len(obs)-s.capacity:]
	}

	s.mu.Lock()
	clear(s.buf)
	s.head, s.size = 0, 0
	for _, o := range obs {
		s.push(o)
	}
	s.mu.Unlock()
	return nil
}

// push expects s.mu to be held.
func (s *RingStore) push(obs model.Observation) {
	if s.size < s.capacity {
		s.buf[(s.head+s.size)%s.capacity] = obs
		s.size++
		return
	}
	s.buf[s.head] = obs
	s.head = (s.head + 1) % s.capacity
}

// Snapshot implements Store.
func (s *RingStore) Snapshot(_ context.Context) []model.Observation {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]model.Observation, s.size)
	for i := 0; i < s.size; i++ {
		out[i] = s.buf[(s.head+i)%s.capacity]
	}
	return out
}

// Len implements Store.
func (s *RingStore) Len(_ context.Context) int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.size
}

// Cap implements Store.
func (s *RingStore) Cap() int { return s.capacity }
