// Package proximity evaluates worker positions against a restricted zone.
package proximity

import (
	"math"

	"github.com/okian/bhoomi/internal/domain/model"
)

// EarthRadiusKM is the mean Earth radius used by the haversine formula.
const EarthRadiusKM = 6371.0

// DistanceKM returns the great-circle distance between a and b.
func DistanceKM(a, b model.GeoPosition) float64 {
	lat1 := a.Latitude * math.Pi / 180
	lat2 := b.Latitude * math.Pi / 180
	dLat := (b.Latitude - a.Latitude) * math.Pi / 180
	dLon := (b.Longitude - a.Longitude) * math.Pi / 180

	h := math.Sin(dLat/2)*math.Sin(dLat/2) +
		math.Cos(lat1)*math.Cos(lat2)*math.Sin(dLon/2)*math.Sin(dLon/2)
	// Rounding can push h a hair outside [0,1] for near-antipodal points.
	h = math.Min(1, math.Max(0, h))
	return 2 * EarthRadiusKM * math.Atan2(math.Sqrt(h), math.Sqrt(1-h))
}

// IsApproaching reports whether curr is strictly closer to center than prev.
//
// This is a decreasing-distance heuristic over two samples. It does not
// estimate velocity or time of arrival, and a worker circling the zone at
// constant range is never reported.
func IsApproaching(prev, curr, center model.GeoPosition) bool {
	return DistanceKM(curr, center) < DistanceKM(prev, center)
}

// planarDistance is the Euclidean distance used for grid coordinates.
func planarDistance(a, b model.GeoPosition) float64 {
	return math.Hypot(a.Longitude-b.Longitude, a.Latitude-b.Latitude)
}
