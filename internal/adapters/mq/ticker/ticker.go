// Package ticker drives a periodic refresh: one call to the target per
// interval, never overlapping.
package ticker

import (
	"context"
	"fmt"
	"sync"
	"sync/atomic"
	"time"

	"github.com/okian/bhoomi/pkg/logger"
)

// DefaultInterval is the dashboard refresh period.
const DefaultInterval = 60 * time.Second

// Target is whatever the ticker refreshes.
type Target interface {
	Refresh(ctx context.Context) error
}

// TargetFunc adapts a plain function to Target.
type TargetFunc func(ctx context.Context) error

// Refresh implements Target.
func (f TargetFunc) Refresh(ctx context.Context) error { return f(ctx) }

// Ticker calls its target on a fixed interval until stopped.
type Ticker struct {
	target    Target
	interval  time.Duration
	immediate bool
	name      string

	started  atomic.Bool
	stopOnce sync.Once
	shutdown chan struct{}
	done     chan struct{}

	runs     atomic.Int64
	failures atomic.Int64

	logger logger.Logger
}

// New creates a ticker for target.
func New(target Target, opts ...Option) *Ticker {
	t := &Ticker{
		target:    target,
		interval:  DefaultInterval,
		immediate: true,
		name:      "ticker",
		shutdown:  make(chan struct{}),
		done:      make(chan struct{}),
		logger:    logger.Get().Named("ticker"),
	}
	for _, opt := range opts {
		opt(t)
	}
	if t.name != "ticker" {
		t.logger = t.logger.Named(t.name)
	}
	return t
}

// Run blocks, refreshing the target each interval, until ctx is cancelled or
// Shutdown is called. A failed refresh is logged and the loop continues.
func (t *Ticker) Run(ctx context.Context) {
	if !t.started.CompareAndSwap(false, true) {
		return
	}
	defer close(t.done)

	t.logger.Info(ctx, "ticker started", logger.Duration("interval", t.interval))
	defer t.logger.Info(ctx, "ticker stopped", logger.Int64("runs", t.runs.Load()))

	if t.immediate {
		t.fire(ctx)
	}

	tk := time.NewTicker(t.interval)
	defer tk.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-t.shutdown:
			return
		case <-tk.C:
			t.fire(ctx)
		}
	}
}

func (t *Ticker) fire(ctx context.Context) {
	t.runs.Add(1)
	if err := t.target.Refresh(ctx); err != nil {
		t.failures.Add(1)
		t.logger.Warn(ctx, "refresh failed", logger.Error(err))
	}
}

// Shutdown stops the loop and waits for an in-flight refresh to finish.
func (t *Ticker) Shutdown(ctx context.Context) error {
	t.stopOnce.Do(func() { close(t.shutdown) })

	if !t.started.Load() {
		return nil
	}
	select {
	case <-t.done:
		return nil
	case <-ctx.Done():
		t.logger.Warn(ctx, "shutdown timed out")
		return fmt.Errorf("shutdown timed out: %w", ctx.Err())
	}
}

// Runs returns how many refreshes were attempted.
func (t *Ticker) Runs() int64 { return t.runs.Load() }

// Failures returns how many refreshes returned an error.
func (t *Ticker) Failures() int64 { return t.failures.Load() }

// Interval returns the configured period.
func (t *Ticker) Interval() time.Duration { return t.interval }
