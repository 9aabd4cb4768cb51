package hub

const defaultBufferSize = 4

type config struct {
	bufferSize int
}

// Option applies a configuration option to the Hub.
type Option func(*config)

// WithBufferSize sets how many values a subscriber may lag behind before
// further values are dropped for it.
func WithBufferSize(size int) Option {
	return func(c *config) {
		if size > 0 {
			c.bufferSize = size
		}
	}
}
