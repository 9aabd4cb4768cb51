// Package risk buckets numeric readings into LOW/MEDIUM/HIGH using either
// fixed thresholds or thresholds derived from the observed series.
package risk

import (
	"fmt"
	"math"
	"sort"
	"strings"
)

// Default classification constants.
const (
	DefaultFixedLow      = 40
	DefaultFixedHigh     = 70
	DefaultLowFraction   = 0.3
	DefaultHighFraction  = 0.7
	DefaultGaugeScaleMax = 100
)

// Mode selects how a Band is derived. It is chosen once per deployment.
type Mode int

// Threshold modes.
const (
	// ModeFixed uses constant thresholds regardless of the series.
	ModeFixed Mode = iota
	// ModeRelative uses min + fraction*(max-min).
	ModeRelative
	// ModePercentile uses linearly interpolated percentiles of the series.
	ModePercentile
)

func (m Mode) String() string {
	switch m {
	case ModeFixed:
		return "fixed"
	case ModeRelative:
		return "relative"
	case ModePercentile:
		return "percentile"
	default:
		return fmt.Sprintf("Mode(%d)", int(m))
	}
}

// ParseMode maps fixed, relative or percentile onto a Mode.
func ParseMode(s string) (Mode, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "fixed":
		return ModeFixed, nil
	case "relative", "minmax", "min-max":
		return ModeRelative, nil
	case "percentile":
		return ModePercentile, nil
	default:
		return 0, fmt.Errorf("%w: %q", ErrInvalidMode, s)
	}
}

// Band is the [Low, High] threshold pair used by Classify.
type Band struct {
	Low  float64 `json:"low"`
	High float64 `json:"high"`
}

// NewBand validates and builds a band.
func NewBand(low, high float64) (Band, error) {
	if !finite(low) || !finite(high) {
		return Band{}, fmt.Errorf("%w: thresholds must be finite", ErrInvalidBand)
	}
	if low > high {
		return Band{}, fmt.Errorf("%w: low %.3f > high %.3f", ErrInvalidBand, low, high)
	}
	return Band{Low: low, High: high}, nil
}

// Degenerate reports whether both thresholds collapsed to one value.
func (b Band) Degenerate() bool { return b.Low == b.High }

// Classify buckets value against band:
//
//	value <= Low         -> LOW
//	Low < value <= High  -> MEDIUM
//	value > High         -> HIGH
//
// A degenerate band (Low == High) classifies everything as MEDIUM.
// NaN classifies as HIGH.
func Classify(value float64, band Band) Level {
	if band.Degenerate() {
		return Medium
	}
	switch {
	case value <= band.Low:
		return Low
	case value <= band.High:
		return Medium
	default:
		return High
	}
}

// Relative derives min + lowFrac*(max-min), min + highFrac*(max-min).
func Relative(series []float64, lowFrac, highFrac float64) (Band, error) {
	if err := checkSeries(series); err != nil {
		return Band{}, err
	}
	lo, hi := series[0], series[0]
	for _, v := range series[1:] {
		lo = math.Min(lo, v)
		hi = math.Max(hi, v)
	}
	span := hi - lo
	return Band{Low: lo + lowFrac*span, High: lo + highFrac*span}, nil
}

// Percentiles derives the lowP and highP percentiles (fractions in [0,1])
// using linear interpolation between closest ranks.
func Percentiles(series []float64, lowP, highP float64) (Band, error) {
	if err := checkSeries(series); err != nil {
		return Band{}, err
	}
	sorted := append([]float64(nil), series...)
	sort.Float64s(sorted)
	return Band{Low: percentile(sorted, lowP), High: percentile(sorted, highP)}, nil
}

// percentile expects a sorted, non-empty slice and p in [0,1].
func percentile(sorted []float64, p float64) float64 {
	rank := p * float64(len(sorted)-1)
	i := int(math.Floor(rank))
	if i >= len(sorted)-1 {
		return sorted[len(sorted)-1]
	}
	frac := rank - float64(i)
	return sorted[i] + frac*(sorted[i+1]-sorted[i])
}

func checkSeries(series []float64) error {
	if len(series) == 0 {
		return ErrInsufficientData
	}
	for i, v := range series {
		if !finite(v) {
			return fmt.Errorf("%w: element %d is not finite", ErrInvalidReading, i)
		}
	}
	return nil
}

func finite(v float64) bool { return !math.IsNaN(v) && !math.IsInf(v, 0) }

// Option applies a configuration option to the Classifier.
type Option func(*Classifier)

// WithMode selects the band derivation mode.
func WithMode(m Mode) Option {
	return func(c *Classifier) {
		c.mode = m
	}
}

// WithFixedBand sets the thresholds used in ModeFixed.
func WithFixedBand(low, high float64) Option {
	return func(c *Classifier) {
		c.fixed = Band{Low: low, High: high}
	}
}

// WithFractions sets the lower and upper fractions used by the relative and
// percentile modes.
func WithFractions(low, high float64) Option {
	return func(c *Classifier) {
		c.lowFrac = low
		c.highFrac = high
	}
}

// Classifier derives bands from a series according to its mode. It holds
// configuration only and is safe for concurrent use.
type Classifier struct {
	mode     Mode
	fixed    Band
	lowFrac  float64
	highFrac float64
}

// NewClassifier creates a classifier. The default is ModeFixed with 40/70.
func NewClassifier(opts ...Option) (*Classifier, error) {
	c := &Classifier{
		mode:     ModeFixed,
		fixed:    Band{Low: DefaultFixedLow, High: DefaultFixedHigh},
		lowFrac:  DefaultLowFraction,
		highFrac: DefaultHighFraction,
	}
	for _, opt := range opts {
		opt(c)
	}

	switch c.mode {
	case ModeFixed, ModeRelative, ModePercentile:
	default:
		return nil, fmt.Errorf("%w: %d", ErrInvalidMode, int(c.mode))
	}
	if _, err := NewBand(c.fixed.Low, c.fixed.High); err != nil {
		return nil, err
	}
	if !finite(c.lowFrac) || !finite(c.highFrac) || c.lowFrac < 0 || c.highFrac > 1 || c.lowFrac > c.highFrac {
		return nil, fmt.Errorf("%w: fractions %.3f/%.3f must satisfy 0 <= low <= high <= 1",
			ErrInvalidBand, c.lowFrac, c.highFrac)
	}
	return c, nil
}

// Mode returns the configured derivation mode.
func (c *Classifier) Mode() Mode { return c.mode }

// Band derives the thresholds for series. An empty series is an error in
// every mode so callers never classify without data.
func (c *Classifier) Band(series []float64) (Band, error) {
	switch c.mode {
	case ModeRelative:
		return Relative(series, c.lowFrac, c.highFrac)
	case ModePercentile:
		return Percentiles(series, c.lowFrac, c.highFrac)
	default:
		if err := checkSeries(series); err != nil {
			return Band{}, err
		}
		return c.fixed, nil
	}
}

// Assess derives the band from series and classifies value against it.
func (c *Classifier) Assess(series []float64, value float64) (Level, Band, error) {
	band, err := c.Band(series)
	if err != nil {
		return Low, Band{}, err
	}
	if !finite(value) {
		return Low, band, fmt.Errorf("%w: value is not finite", ErrInvalidReading)
	}
	return Classify(value, band), band, nil
}

// GaugeStep is one coloured range on the risk gauge.
type GaugeStep struct {
	From  float64 `json:"from"`
	To    float64 `json:"to"`
	Level Level   `json:"level"`
	Color string  `json:"color"`
}

// GaugeSteps splits [0, scaleMax] at the band thresholds into three ranges.
// Thresholds outside the scale are clamped.
func GaugeSteps(band Band, scaleMax float64) []GaugeStep {
	low := math.Max(0, math.Min(scaleMax, band.Low))
	high := math.Max(low, math.Min(scaleMax, band.High))
	return []GaugeStep{
		{From: 0, To: low, Level: Low, Color: Low.Color()},
		{From: low, To: high, Level: Medium, Color: Medium.Color()},
		{From: high, To: scaleMax, Level: High, Color: High.Color()},
	}
}
