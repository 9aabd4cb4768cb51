package proximity

import (
	"fmt"
	"math"
	"strings"

	"github.com/okian/bhoomi/internal/domain/model"
	"github.com/twpayne/go-geom"
)

// Shape names a zone variant. Circular and grid zones are never mixed.
type Shape string

// Zone shapes.
const (
	ShapeCircle Shape = "circle"
	ShapeGrid   Shape = "grid"
)

// ParseShape maps a configuration value onto a Shape.
func ParseShape(s string) (Shape, error) {
	switch Shape(strings.ToLower(strings.TrimSpace(s))) {
	case ShapeCircle:
		return ShapeCircle, nil
	case ShapeGrid:
		return ShapeGrid, nil
	default:
		return "", fmt.Errorf("%w: %q", ErrUnknownZone, s)
	}
}

// Zone is a restricted area.
type Zone interface {
	Shape() Shape
	// Center is the reference point used for the approaching heuristic.
	Center() model.GeoPosition
	// Contains is boundary-inclusive.
	Contains(p model.GeoPosition) bool
	// Approaching reports a strict decrease of distance to Center.
	Approaching(prev, curr model.GeoPosition) bool
}

// CircularZone is a great-circle disc around a geographic center.
type CircularZone struct {
	center   model.GeoPosition
	radiusKM float64
}

// NewCircularZone validates the center coordinates and the radius.
func NewCircularZone(center model.GeoPosition, radiusKM float64) (*CircularZone, error) {
	if math.IsNaN(radiusKM) || math.IsInf(radiusKM, 0) || radiusKM < 0 {
		return nil, fmt.Errorf("%w: radius %v km", ErrInvalidZone, radiusKM)
	}
	if math.IsNaN(center.Latitude) || center.Latitude < -90 || center.Latitude > 90 {
		return nil, fmt.Errorf("%w: latitude %v", ErrInvalidZone, center.Latitude)
	}
	if math.IsNaN(center.Longitude) || center.Longitude < -180 || center.Longitude > 180 {
		return nil, fmt.Errorf("%w: longitude %v", ErrInvalidZone, center.Longitude)
	}
	return &CircularZone{center: center, radiusKM: radiusKM}, nil
}

func (z *CircularZone) Shape() Shape              { return ShapeCircle }
func (z *CircularZone) Center() model.GeoPosition { return z.center }

// RadiusKM returns the zone radius.
func (z *CircularZone) RadiusKM() float64 { return z.radiusKM }

// Contains reports DistanceKM(p, center) <= radius.
func (z *CircularZone) Contains(p model.GeoPosition) bool {
	return DistanceKM(p, z.center) <= z.radiusKM
}

// Approaching applies IsApproaching against the zone center.
func (z *CircularZone) Approaching(prev, curr model.GeoPosition) bool {
	return IsApproaching(prev, curr, z.center)
}

// GridZone is an axis-aligned rectangle in grid coordinates
// (x = Longitude, y = Latitude).
type GridZone struct {
	bounds *geom.Bounds
}

// NewGridZone validates the ranges; min must not exceed max on either axis.
func NewGridZone(xMin, xMax, yMin, yMax float64) (*GridZone, error) {
	for _, v := range []float64{xMin, xMax, yMin, yMax} {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return nil, fmt.Errorf("%w: non-finite grid bound", ErrInvalidZone)
		}
	}
	if xMin > xMax || yMin > yMax {
		return nil, fmt.Errorf("%w: inverted grid range x[%v,%v] y[%v,%v]", ErrInvalidZone, xMin, xMax, yMin, yMax)
	}
	return &GridZone{bounds: geom.NewBounds(geom.XY).Set(xMin, yMin, xMax, yMax)}, nil
}

func (z *GridZone) Shape() Shape { return ShapeGrid }

// Center returns the rectangle midpoint.
func (z *GridZone) Center() model.GeoPosition {
	return model.GeoPosition{
		Longitude: (z.bounds.Min(0) + z.bounds.Max(0)) / 2,
		Latitude:  (z.bounds.Min(1) + z.bounds.Max(1)) / 2,
	}
}

// Ranges returns xMin, xMax, yMin, yMax.
func (z *GridZone) Ranges() (xMin, xMax, yMin, yMax float64) {
	return z.bounds.Min(0), z.bounds.Max(0), z.bounds.Min(1), z.bounds.Max(1)
}

// Contains reports whether p lies inside the rectangle, edges included.
func (z *GridZone) Contains(p model.GeoPosition) bool {
	return z.bounds.OverlapsPoint(geom.XY, geom.Coord{p.Longitude, p.Latitude})
}

// Approaching compares planar distances to the rectangle midpoint.
func (z *GridZone) Approaching(prev, curr model.GeoPosition) bool {
	c := z.Center()
	return planarDistance(curr, c) < planarDistance(prev, c)
}
