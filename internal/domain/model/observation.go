// Package model contains domain models passed between layers.
package model

import (
	"errors"
	"fmt"
	"math"
	"strings"
)

// Risk scale bounds.
const (
	MinRisk = 0
	MaxRisk = 100
)

// TimestampLayout is the wall-clock format stamped on observations.
const TimestampLayout = "15:04:05"

// ErrInvalidObservation marks an observation that breaks a model invariant.
var ErrInvalidObservation = errors.New("invalid observation")

// Weather is the coarse weather category reported with an observation.
type Weather string

// Weather categories.
const (
	Sunny  Weather = "Sunny"
	Rainy  Weather = "Rainy"
	Cloudy Weather = "Cloudy"
	Windy  Weather = "Windy"
)

// WeatherKinds lists every category in a stable order.
var WeatherKinds = []Weather{Sunny, Rainy, Cloudy, Windy}

// ParseWeather maps a case-insensitive name onto a Weather category.
func ParseWeather(s string) (Weather, error) {
	for _, w := range WeatherKinds {
		if strings.EqualFold(strings.TrimSpace(s), string(w)) {
			return w, nil
		}
	}
	return "", fmt.Errorf("%w: unknown weather %q", ErrInvalidObservation, s)
}

// Observation is one sensor sample. Values are never mutated after creation.
type Observation struct {
	Timestamp  string  `json:"timestamp"`
	Vibration  float64 `json:"vibration"`
	SlopeAngle float64 `json:"slope"`
	Weather    Weather `json:"weather"`
	Risk       int     `json:"risk"`
}

// Validate checks the risk range and that the readings are finite numbers.
func (o Observation) Validate() error {
	if o.Risk < MinRisk || o.Risk > MaxRisk {
		return fmt.Errorf("%w: risk %d outside [%d,%d]", ErrInvalidObservation, o.Risk, MinRisk, MaxRisk)
	}
	if math.IsNaN(o.Vibration) || math.IsInf(o.Vibration, 0) {
		return fmt.Errorf("%w: vibration is not finite", ErrInvalidObservation)
	}
	if math.IsNaN(o.SlopeAngle) || math.IsInf(o.SlopeAngle, 0) {
		return fmt.Errorf("%w: slope is not finite", ErrInvalidObservation)
	}
	return nil
}

// Risks extracts the risk series as floats, oldest first.
func Risks(obs []Observation) []float64 {
	out := make([]float64, len(obs))
	for i, o := range obs {
		out[i] = float64(o.Risk)
	}
	return out
}

// Vibrations extracts the vibration series, oldest first.
func Vibrations(obs []Observation) []float64 {
	out := make([]float64, len(obs))
	for i, o := range obs {
		out[i] = o.Vibration
	}
	return out
}

// Slopes extracts the slope angle series, oldest first.
func Slopes(obs []Observation) []float64 {
	out := make([]float64, len(obs))
	for i, o := range obs {
		out[i] = o.SlopeAngle
	}
	return out
}
