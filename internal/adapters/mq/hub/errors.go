package hub

import "errors"

// Sentinel kinds for hub errors.
var (
	ErrClosed = errors.New("hub closed")
)
