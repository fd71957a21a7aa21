package geo

import "math"

const (
	// EarthRadiusMeters is the mean earth radius used for great-circle distances.
	EarthRadiusMeters = 6371000

	// FenceRadiusMeters is the allowed distance between a branch and a clock-in/out report.
	FenceRadiusMeters = 50.0

	// distanceEpsilon absorbs float rounding so a report computed at exactly
	// FenceRadiusMeters is still inside the fence.
	distanceEpsilon = 1e-6
)

// Coordinate is a WGS84 point. Order follows GeoJSON: longitude first.
type Coordinate struct {
	Longitude float64 `json:"longitude"`
	Latitude  float64 `json:"latitude"`
}

// Valid reports whether the coordinate is within the WGS84 range.
func (c Coordinate) Valid() bool {
	return c.Latitude >= -90 && c.Latitude <= 90 && c.Longitude >= -180 && c.Longitude <= 180
}

// HaversineDistance returns the great-circle distance between a and b in meters.
func HaversineDistance(a, b Coordinate) float64 {
	dLat := toRadians(b.Latitude - a.Latitude)
	dLon := toRadians(b.Longitude - a.Longitude)

	lat1 := toRadians(a.Latitude)
	lat2 := toRadians(b.Latitude)

	h := math.Sin(dLat/2)*math.Sin(dLat/2) +
		math.Sin(dLon/2)*math.Sin(dLon/2)*math.Cos(lat1)*math.Cos(lat2)

	// clamp: rounding can push h slightly above 1 for antipodal points
	h = math.Min(1, math.Max(0, h))

	return 2 * EarthRadiusMeters * math.Atan2(math.Sqrt(h), math.Sqrt(1-h))
}

// WithinRadius reports whether a distance in meters lies inside the fence.
// The boundary is inclusive.
func WithinRadius(distanceMeters float64) bool {
	return distanceMeters <= FenceRadiusMeters+distanceEpsilon
}

// Within reports whether point lies inside the fence around center.
func Within(center, point Coordinate) bool {
	return WithinRadius(HaversineDistance(center, point))
}

func toRadians(deg float64) float64 {
	return deg * (math.Pi / 180.0)
}
