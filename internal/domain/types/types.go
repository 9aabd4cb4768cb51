// Package types contains the shapes shared by the service and its transports.
package types

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/okian/bhoomi/internal/domain/risk"
)

// Errors surfaced by the service to its transports.
var (
	ErrInvalidSource = errors.New("invalid source mode")
	ErrNoSnapshot    = errors.New("snapshot not found")
	ErrEmptyUpload   = errors.New("upload is empty")
)

// SourceMode names where observations come from.
type SourceMode string

// Data sources.
const (
	// SourceSimulated appends one synthetic observation per tick.
	SourceSimulated SourceMode = "simulated"
	// SourcePreloaded re-reads the configured data file every tick.
	SourcePreloaded SourceMode = "preloaded"
	// SourceUpload serves the most recently uploaded file.
	SourceUpload SourceMode = "upload"
)

// ParseSourceMode maps a case-insensitive name onto a SourceMode.
func ParseSourceMode(s string) (SourceMode, error) {
	switch m := SourceMode(strings.ToLower(strings.TrimSpace(s))); m {
	case SourceSimulated, SourcePreloaded, SourceUpload:
		return m, nil
	default:
		return "", fmt.Errorf("%w: %q", ErrInvalidSource, s)
	}
}

// Manual alert outcomes.
const (
	AlertSent      = "sent"
	AlertDuplicate = "duplicate"
)

// AlertRequest is a manual alert trigger. AlertID makes retries idempotent;
// one is generated when empty.
type AlertRequest struct {
	AlertID string `json:"alert_id,omitempty"`
	Message string `json:"message,omitempty"`
}

// AlertReceipt acknowledges a manual alert. Delivery is simulated: nothing
// leaves the process.
type AlertReceipt struct {
	AlertID   string    `json:"alert_id"`
	Status    string    `json:"status"`
	Message   string    `json:"message"`
	Level     string    `json:"level,omitempty"`
	Simulated bool      `json:"simulated"`
	SentAt    time.Time `json:"sent_at"`
}

// Classification is the result of classifying an arbitrary value against the
// current risk band.
type Classification struct {
	Value  float64     `json:"value"`
	Level  risk.Level  `json:"level"`
	Action risk.Action `json:"action"`
	Band   risk.Band   `json:"band"`
	Mode   string      `json:"mode"`
}

// UploadResult reports how many uploaded observations were kept.
type UploadResult struct {
	File   string     `json:"file"`
	Kept   int        `json:"kept"`
	Source SourceMode `json:"source"`
}
