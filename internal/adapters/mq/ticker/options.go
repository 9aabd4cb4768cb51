package ticker

import (
	"time"

	"github.com/okian/bhoomi/pkg/logger"
)

// Option applies a configuration option to the Ticker.
type Option func(*Ticker)

// WithInterval sets the refresh period.
func WithInterval(d time.Duration) Option {
	return func(t *Ticker) {
		if d > 0 {
			t.interval = d
		}
	}
}

// WithName sets the ticker name for identification and logging.
func WithName(name string) Option {
	return func(t *Ticker) {
		if name != "" {
			t.name = name
		}
	}
}

// WithLogger sets a custom logger for the ticker.
func WithLogger(l logger.Logger) Option {
	return func(t *Ticker) {
		if l != nil {
			t.logger = l
		}
	}
}

// WithImmediate controls whether Run fires once before the first interval
// elapses. Enabled by default.
func WithImmediate(immediate bool) Option {
	return func(t *Ticker) {
		t.immediate = immediate
	}
}
