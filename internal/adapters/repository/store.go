// Package repository holds the rolling window of recent observations.
package repository

import (
	"context"

	"github.com/okian/bhoomi/internal/domain/model"
)

// Store provides read/write access to the observation window.
type Store interface {
	// Append adds obs as the newest element, evicting the oldest one when the
	// window is full.
	Append(ctx context.Context, obs model.Observation) error

	// Replace discards the window and loads obs in order. Only the newest
	// Cap() observations are retained.
	Replace(ctx context.Context, obs []model.Observation) error

	// Snapshot returns a copy of the window, oldest first.
	Snapshot(ctx context.Context) []model.Observation

	Len(ctx context.Context) int
	Cap() int
}
