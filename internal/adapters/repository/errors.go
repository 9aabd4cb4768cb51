package repository

import "errors"

// ErrInvalidCapacity is returned for a window capacity below one.
var ErrInvalidCapacity = errors.New("invalid window capacity")
