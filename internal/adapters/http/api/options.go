package api

import (
	"time"

	"github.com/okian/bhoomi/pkg/logger"
)

// Default transport limits.
const (
	DefaultMaxUploadBytes = 10 << 20
	DefaultPingInterval   = 54 * time.Second
)

type options struct {
	maxUploadBytes int64
	pingInterval   time.Duration
	logger         logger.Logger
}

func defaultOptions() options {
	return options{
		maxUploadBytes: DefaultMaxUploadBytes,
		pingInterval:   DefaultPingInterval,
	}
}

// Option configures the Server.
type Option func(*options)

// WithMaxUploadBytes caps the size of an uploaded observation file.
func WithMaxUploadBytes(n int64) Option {
	return func(o *options) {
		if n > 0 {
			o.maxUploadBytes = n
		}
	}
}

// WithPingInterval sets how often idle WebSocket clients are pinged.
func WithPingInterval(d time.Duration) Option {
	return func(o *options) {
		if d > 0 {
			o.pingInterval = d
		}
	}
}

// WithLogger sets the logger used by streaming handlers.
func WithLogger(l logger.Logger) Option {
	return func(o *options) {
		o.logger = l
	}
}
