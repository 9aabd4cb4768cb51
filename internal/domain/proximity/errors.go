package proximity

import "errors"

// Sentinel error kinds for this package.
var (
	ErrInvalidZone = errors.New("invalid restricted zone")
	ErrUnknownZone = errors.New("unknown zone shape")
)
