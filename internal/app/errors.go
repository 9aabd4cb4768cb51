package service

import (
	"errors"

	"github.com/okian/bhoomi/internal/domain/types"
)

// Sentinel kinds for service errors.
var (
	ErrNotStarted    = errors.New("service not started")
	ErrNoSnapshot    = types.ErrNoSnapshot
	ErrInvalidSource = types.ErrInvalidSource
	ErrEmptyUpload   = types.ErrEmptyUpload
)
