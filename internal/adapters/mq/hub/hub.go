// Package hub fans published values out to any number of subscribers.
//
// Publishing never blocks: a subscriber whose buffer is full misses the
// value and the drop is counted.
package hub

import (
	"context"
	"sync"

	"github.com/okian/bhoomi/pkg/metrics"
)

// Hub is an in-memory broadcast point safe for concurrent use.
type Hub[T any] struct {
	mu         sync.RWMutex
	subs       map[uint64]chan T
	next       uint64
	bufferSize int
	closed     bool
}

// New creates an empty hub.
func New[T any](opts ...Option) *Hub[T] {
	cfg := config{bufferSize: defaultBufferSize}
	for _, opt := range opts {
		opt(&cfg)
	}
	return &Hub[T]{
		subs:       make(map[uint64]chan T),
		bufferSize: cfg.bufferSize,
	}
}

// Subscribe registers a new subscriber. The returned cancel func removes it
// and closes the channel; it is safe to call more than once. The channel is
// also closed when the hub is closed.
func (h *Hub[T]) Subscribe() (<-chan T, func(), error) {
	h.mu.Lock()
	defer h.mu.Unlock()

	if h.closed {
		return nil, func() {}, ErrClosed
	}

	id := h.next
	h.next++
	ch := make(chan T, h.bufferSize)
	h.subs[id] = ch
	metrics.UpdateSubscribers(len(h.subs))

	return ch, func() { h.unsubscribe(id) }, nil
}

func (h *Hub[T]) unsubscribe(id uint64) {
	h.mu.Lock()
	defer h.mu.Unlock()

	ch, ok := h.subs[id]
	if !ok {
		return
	}
	delete(h.subs, id)
	close(ch)
	metrics.UpdateSubscribers(len(h.subs))
}

// Publish offers v to every subscriber and returns how many accepted it.
func (h *Hub[T]) Publish(ctx context.Context, v T) int {
	h.mu.RLock()
	defer h.mu.RUnlock()

	if h.closed {
		return 0
	}

	delivered := 0
	for _, ch := range h.subs {
		if ctx.Err() != nil {
			return delivered
		}
		select {
		case ch <- v:
			delivered++
		default:
			metrics.RecordSnapshotDropped()
		}
	}
	return delivered
}

// Len returns the number of active subscribers.
func (h *Hub[T]) Len() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.subs)
}

// Close disconnects every subscriber. Further Subscribe calls fail with
// ErrClosed.
func (h *Hub[T]) Close() error {
	h.mu.Lock()
	defer h.mu.Unlock()

	if h.closed {
		return nil
	}
	h.closed = true
	for id, ch := range h.subs {
		delete(h.subs, id)
		close(ch)
	}
	metrics.UpdateSubscribers(0)
	return nil
}
