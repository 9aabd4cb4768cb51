package service

import (
	"github.com/okian/bhoomi/internal/domain/model"
	"github.com/okian/bhoomi/internal/domain/proximity"
	"github.com/okian/bhoomi/internal/domain/risk"
	"github.com/okian/bhoomi/internal/domain/types"
)

// Sensor inventory shown on the dashboard.
const (
	activeCameras     = 5
	activeMicrophones = 3
	alertLogRows      = 5
)

// Snapshot shapes are shared with the transports.
type (
	Snapshot      = types.Snapshot
	Trend         = types.Trend
	ZoneInfo      = types.ZoneInfo
	AlertRow      = types.AlertRow
	SensorSummary = types.SensorSummary
)

func describeZone(z proximity.Zone) ZoneInfo {
	info := ZoneInfo{Shape: z.Shape(), Center: z.Center()}
	switch zz := z.(type) {
	case *proximity.CircularZone:
		info.RadiusKM = zz.RadiusKM()
	case *proximity.GridZone:
		info.XMin, info.XMax, info.YMin, info.YMax = zz.Ranges()
	}
	return info
}

func trend(obs []model.Observation, values []float64, c *risk.Classifier) (Trend, error) {
	latest := values[len(values)-1]
	level, band, err := c.Assess(values, latest)
	if err != nil {
		return Trend{}, err
	}
	ts := make([]string, len(obs))
	for i, o := range obs {
		ts[i] = o.Timestamp
	}
	return Trend{Timestamps: ts, Values: values, Band: band, Latest: latest, Level: level}, nil
}

// alertLog tags the newest rows of window with the action their risk calls for.
func alertLog(window []model.Observation, band risk.Band) []AlertRow {
	tail := window[max(0, len(window)-alertLogRows):]
	rows := make([]AlertRow, len(tail))
	for i, o := range tail {
		level := risk.Classify(float64(o.Risk), band)
		rows[i] = AlertRow{Observation: o, Level: level, Action: risk.ActionFor(level)}
	}
	return rows
}
