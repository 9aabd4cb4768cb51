package types

import (
	"time"

	"github.com/okian/bhoomi/internal/domain/feed"
	"github.com/okian/bhoomi/internal/domain/model"
	"github.com/okian/bhoomi/internal/domain/proximity"
	"github.com/okian/bhoomi/internal/domain/risk"
)

// Snapshot is everything the dashboard renders for one tick.
type Snapshot struct {
	TickID      string            `json:"tick_id"`
	GeneratedAt time.Time         `json:"generated_at"`
	Source      SourceMode        `json:"source"`
	WindowSize  int               `json:"window_size"`
	Current     model.Observation `json:"current"`

	Level  risk.Level       `json:"level"`
	Action risk.Action      `json:"action"`
	Color  string           `json:"color"`
	Mode   string           `json:"risk_mode"`
	Band   risk.Band        `json:"band"`
	Gauge  []risk.GaugeStep `json:"gauge"`

	Vibration Trend `json:"vibration"`
	Slope     Trend `json:"slope"`

	Heatmap feed.Heatmap `json:"heatmap"`

	Zone        ZoneInfo               `json:"zone"`
	Workers     []proximity.Assessment `json:"workers"`
	InZone      []string               `json:"in_zone"`
	Approaching []string               `json:"approaching"`
	Alerts      []AlertRow             `json:"alerts"`
	Forecast    []feed.ForecastPoint   `json:"forecast"`
	Sensors     SensorSummary          `json:"sensors"`
}

// Trend is a reading series with the band derived from it.
type Trend struct {
	Timestamps []string   `json:"timestamps"`
	Values     []float64  `json:"values"`
	Band       risk.Band  `json:"band"`
	Latest     float64    `json:"latest"`
	Level      risk.Level `json:"level"`
}

// ZoneInfo describes the restricted zone for map rendering.
type ZoneInfo struct {
	Shape    proximity.Shape   `json:"shape"`
	Center   model.GeoPosition `json:"center"`
	RadiusKM float64           `json:"radius_km,omitempty"`
	XMin     float64           `json:"x_min,omitempty"`
	XMax     float64           `json:"x_max,omitempty"`
	YMin     float64           `json:"y_min,omitempty"`
	YMax     float64           `json:"y_max,omitempty"`
}

// AlertRow is one alerts log line: an observation and the action it calls for.
type AlertRow struct {
	model.Observation
	Level  risk.Level  `json:"level"`
	Action risk.Action `json:"action"`
}

// SensorSummary is the active sensor count panel.
type SensorSummary struct {
	Cameras     int `json:"cameras"`
	Microphones int `json:"microphones"`
	Hotspots    int `json:"hotspots"`
}
