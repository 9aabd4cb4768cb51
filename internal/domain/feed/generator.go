// Package feed produces synthetic sensor observations and the other
// simulated inputs of a refresh tick.
package feed

import (
	"fmt"
	"math"
	"math/rand"
	"time"

	"github.com/okian/bhoomi/internal/domain/model"
)

// Distribution parameters of the simulated sensors.
const (
	VibrationMean   = 0.5
	VibrationStdDev = 0.2
	SlopeMean       = 45.0
	SlopeStdDev     = 3.0
	RiskUpperBound  = 100 // exclusive

	ForecastMin = 20
	ForecastMax = 95 // exclusive

	DefaultHotspots = 6
)

// Clock returns the current time.
type Clock func() time.Time

// Option applies a configuration option to the Generator.
type Option func(*Generator)

// WithRand injects the random source. Tests pass a fixed seed.
func WithRand(rng *rand.Rand) Option {
	return func(g *Generator) {
		if rng != nil {
			g.rng = rng
		}
	}
}

// WithSeed seeds a private source. Zero keeps the wall-clock seed.
func WithSeed(seed int64) Option {
	return func(g *Generator) {
		if seed != 0 {
			g.rng = rand.New(rand.NewSource(seed)) //nolint:gosec // simulated values only
		}
	}
}

// WithClock injects the clock used for observation timestamps.
func WithClock(clock Clock) Option {
	return func(g *Generator) {
		if clock != nil {
			g.clock = clock
		}
	}
}

// Generator draws simulated values from a single random source. It is not
// safe for concurrent use; the tick pipeline calls it from one goroutine.
type Generator struct {
	rng   *rand.Rand
	clock Clock
}

// New creates a generator seeded from the wall clock unless overridden.
func New(opts ...Option) *Generator {
	g := &Generator{
		rng:   rand.New(rand.NewSource(time.Now().UnixNano())), //nolint:gosec // simulated values only
		clock: time.Now,
	}
	for _, opt := range opts {
		opt(g)
	}
	return g
}

// Next draws one observation: vibration ~ N(0.5, 0.2) to 3 dp,
// slope ~ N(45, 3) to 2 dp, uniform weather and risk in [0, 100).
func (g *Generator) Next() model.Observation {
	return model.Observation{
		Timestamp:  g.clock().Format(model.TimestampLayout),
		Vibration:  round(g.normal(VibrationMean, VibrationStdDev), 3),
		SlopeAngle: round(g.normal(SlopeMean, SlopeStdDev), 2),
		Weather:    model.WeatherKinds[g.rng.Intn(len(model.WeatherKinds))],
		Risk:       g.rng.Intn(RiskUpperBound),
	}
}

// Tracks simulates n workers W1..Wn around center: the previous sample is
// jittered by N(0, spread) per axis and the current sample moves a further
// N(0, spread/4).
func (g *Generator) Tracks(center model.GeoPosition, n int, spread float64) []model.Track {
	tracks := make([]model.Track, 0, max(n, 0))
	for i := 1; i <= n; i++ {
		id := fmt.Sprintf("W%d", i)
		prev := model.GeoPosition{
			EntityID:  id,
			Latitude:  g.normal(center.Latitude, spread),
			Longitude: g.normal(center.Longitude, spread),
		}
		curr := model.GeoPosition{
			EntityID:  id,
			Latitude:  g.normal(prev.Latitude, spread/4),
			Longitude: g.normal(prev.Longitude, spread/4),
		}
		tracks = append(tracks, model.Track{EntityID: id, Previous: prev, Current: curr})
	}
	return tracks
}

// Hotspot marks a simulated sensor on the heatmap grid.
type Hotspot struct {
	Label string `json:"label"`
	X     int    `json:"x"`
	Y     int    `json:"y"`
}

// Heatmap is a size x size thermal matrix plus sensor hotspots.
type Heatmap struct {
	Cells    [][]float64 `json:"cells"`
	Hotspots []Hotspot   `json:"hotspots"`
}

// Heatmap draws U[0,1) * scale per cell and places DefaultHotspots sensors.
func (g *Generator) Heatmap(size int, scale float64) Heatmap {
	if size <= 0 {
		return Heatmap{Cells: [][]float64{}, Hotspots: []Hotspot{}}
	}
	cells := make([][]float64, size)
	for y := range cells {
		row := make([]float64, size)
		for x := range row {
			row[x] = g.rng.Float64() * scale
		}
		cells[y] = row
	}
	hotspots := make([]Hotspot, DefaultHotspots)
	for i := range hotspots {
		hotspots[i] = Hotspot{
			Label: fmt.Sprintf("Sensor %d", i+1),
			X:     g.rng.Intn(size),
			Y:     g.rng.Intn(size),
		}
	}
	return Heatmap{Cells: cells, Hotspots: hotspots}
}

// ForecastPoint is one hourly forecast value.
type ForecastPoint struct {
	Hour string `json:"hour"`
	Risk int    `json:"risk"`
}

// Forecast draws hourly risk values uniformly from [20, 95).
func (g *Generator) Forecast(hours int) []ForecastPoint {
	out := make([]ForecastPoint, 0, max(hours, 0))
	for h := 1; h <= hours; h++ {
		out = append(out, ForecastPoint{
			Hour: fmt.Sprintf("%dh", h),
			Risk: ForecastMin + g.rng.Intn(ForecastMax-ForecastMin),
		})
	}
	return out
}

func (g *Generator) normal(mean, stddev float64) float64 {
	return mean + stddev*g.rng.NormFloat64()
}

func round(v float64, places int) float64 {
	p := math.Pow(10, float64(places))
	return math.Round(v*p) / p
}
