// Package config defines service configuration structures and loading hooks.
//
// Conventions:
// - Provide New() to build a Config with defaults.
// - Load layers a YAML file and environment variables over the defaults.
// - Validation errors wrap ErrInvalidConfig.
package config

import (
	"fmt"
	"math"
	"strings"
	"time"

	"github.com/okian/bhoomi/internal/domain/proximity"
	"github.com/okian/bhoomi/internal/domain/risk"
)

// Source modes.
const (
	SourceSimulated = "simulated"
	SourcePreloaded = "preloaded"
)

// Config contains process configuration.
type Config struct {
	// LogLevel controls verbosity: debug, info, warn, error.
	LogLevel string `koanf:"log_level"`
	// LogFormat selects text or json output.
	LogFormat string `koanf:"log_format"`

	// Addr configures the HTTP listen address, e.g. ":8080".
	Addr string `koanf:"addr"`

	// RefreshIntervalMS is the dashboard refresh period.
	RefreshIntervalMS int `koanf:"refresh_interval_ms"`

	// BufferCapacity bounds the observation window.
	BufferCapacity int `koanf:"buffer_capacity"`

	// SourceMode is the data source at start-up: simulated or preloaded.
	SourceMode string `koanf:"source_mode"`
	// DataFile is the preloaded CSV/XLSX file.
	DataFile string `koanf:"data_file"`
	// Seed fixes the synthetic feed; 0 seeds from the clock.
	Seed int64 `koanf:"seed"`

	// RiskMode selects how the risk band is derived: fixed, relative, percentile.
	RiskMode  string  `koanf:"risk_mode"`
	FixedLow  float64 `koanf:"fixed_low"`
	FixedHigh float64 `koanf:"fixed_high"`
	// TrendMode derives the vibration and slope bands: relative or percentile.
	TrendMode    string  `koanf:"trend_mode"`
	LowFraction  float64 `koanf:"low_fraction"`
	HighFraction float64 `koanf:"high_fraction"`

	// ZoneShape selects the restricted zone variant: circle or grid.
	ZoneShape     string  `koanf:"zone_shape"`
	ZoneCenterLat float64 `koanf:"zone_center_lat"`
	ZoneCenterLon float64 `koanf:"zone_center_lon"`
	ZoneRadiusKM  float64 `koanf:"zone_radius_km"`
	ZoneXMin      float64 `koanf:"zone_x_min"`
	ZoneXMax      float64 `koanf:"zone_x_max"`
	ZoneYMin      float64 `koanf:"zone_y_min"`
	ZoneYMax      float64 `koanf:"zone_y_max"`

	// WorkerCount is how many synthetic workers are tracked per tick.
	WorkerCount int `koanf:"worker_count"`
	// PositionSpread is the jitter (degrees or grid units) around the zone center.
	PositionSpread float64 `koanf:"position_spread"`

	HeatmapSize   int `koanf:"heatmap_size"`
	ForecastHours int `koanf:"forecast_hours"`

	// AlertDedupeSize bounds the remembered manual alert ids.
	AlertDedupeSize int `koanf:"alert_dedupe_size"`
	// MaxUploadBytes caps POST /api/upload bodies.
	MaxUploadBytes int64 `koanf:"max_upload_bytes"`
	// SubscriberBuffer is the per-subscriber snapshot backlog.
	SubscriberBuffer int `koanf:"subscriber_buffer"`
}

// New creates a Config populated with defaults.
func New() *Config {
	return &Config{
		LogLevel:          "info",
		LogFormat:         "text",
		Addr:              ":9080",
		RefreshIntervalMS: 60_000,
		BufferCapacity:    50,
		SourceMode:        SourceSimulated,
		DataFile:          "mine_sensor_data.csv",
		RiskMode:          risk.ModeFixed.String(),
		FixedLow:          risk.DefaultFixedLow,
		FixedHigh:         risk.DefaultFixedHigh,
		TrendMode:         risk.ModePercentile.String(),
		LowFraction:       risk.DefaultLowFraction,
		HighFraction:      risk.DefaultHighFraction,
		ZoneShape:         string(proximity.ShapeCircle),
		ZoneCenterLat:     20.5987,
		ZoneCenterLon:     78.9579,
		ZoneRadiusKM:      0.7,
		ZoneXMin:          5,
		ZoneXMax:          10,
		ZoneYMin:          5,
		ZoneYMax:          10,
		WorkerCount:       8,
		PositionSpread:    0.005,
		HeatmapSize:       20,
		ForecastHours:     6,
		AlertDedupeSize:   10_000,
		MaxUploadBytes:    10 << 20,
		SubscriberBuffer:  4,
	}
}

// RefreshInterval returns RefreshIntervalMS as a duration.
func (c *Config) RefreshInterval() time.Duration {
	return time.Duration(c.RefreshIntervalMS) * time.Millisecond
}

// Validate reports the first setting that cannot be used.
func (c *Config) Validate() error {
	if strings.TrimSpace(c.Addr) == "" {
		return fmt.Errorf("%w: addr must not be empty", ErrInvalidConfig)
	}
	if c.RefreshIntervalMS <= 0 {
		return fmt.Errorf("%w: refresh_interval_ms must be positive, got %d", ErrInvalidConfig, c.RefreshIntervalMS)
	}
	if c.BufferCapacity <= 0 {
		return fmt.Errorf("%w: buffer_capacity must be positive, got %d", ErrInvalidConfig, c.BufferCapacity)
	}
	switch strings.ToLower(c.SourceMode) {
	case SourceSimulated, SourcePreloaded:
	default:
		return fmt.Errorf("%w: unknown source_mode %q", ErrInvalidConfig, c.SourceMode)
	}
	if _, err := risk.ParseMode(c.RiskMode); err != nil {
		return fmt.Errorf("%w: risk_mode: %w", ErrInvalidConfig, err)
	}
	trend, err := risk.ParseMode(c.TrendMode)
	if err != nil {
		return fmt.Errorf("%w: trend_mode: %w", ErrInvalidConfig, err)
	}
	if trend == risk.ModeFixed {
		return fmt.Errorf("%w: trend_mode must be relative or percentile", ErrInvalidConfig)
	}
	if c.FixedLow > c.FixedHigh {
		return fmt.Errorf("%w: fixed_low %.2f > fixed_high %.2f", ErrInvalidConfig, c.FixedLow, c.FixedHigh)
	}
	if c.LowFraction < 0 || c.HighFraction > 1 || c.LowFraction > c.HighFraction {
		return fmt.Errorf("%w: fractions must satisfy 0 <= low <= high <= 1", ErrInvalidConfig)
	}
	if _, err := proximity.ParseShape(c.ZoneShape); err != nil {
		return fmt.Errorf("%w: zone_shape: %w", ErrInvalidConfig, err)
	}
	if c.ZoneRadiusKM < 0 || math.IsNaN(c.ZoneRadiusKM) {
		return fmt.Errorf("%w: zone_radius_km must not be negative", ErrInvalidConfig)
	}
	if c.WorkerCount < 0 || c.HeatmapSize < 0 || c.ForecastHours < 0 {
		return fmt.Errorf("%w: worker_count, heatmap_size and forecast_hours must not be negative", ErrInvalidConfig)
	}
	if c.MaxUploadBytes <= 0 {
		return fmt.Errorf("%w: max_upload_bytes must be positive", ErrInvalidConfig)
	}
	return nil
}
