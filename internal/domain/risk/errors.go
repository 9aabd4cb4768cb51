package risk

import "errors"

// Sentinel error kinds for this package.
var (
	ErrInsufficientData = errors.New("insufficient data")
	ErrInvalidReading   = errors.New("invalid reading")
	ErrInvalidBand      = errors.New("invalid risk band")
	ErrInvalidMode      = errors.New("invalid threshold mode")
)
