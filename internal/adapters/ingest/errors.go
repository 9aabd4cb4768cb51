package ingest

import "errors"

// Sentinel kinds for observation file errors.
var (
	ErrSourceNotFound    = errors.New("observation source not found")
	ErrMalformed         = errors.New("malformed observation data")
	ErrUnsupportedFormat = errors.New("unsupported observation file format")
)
