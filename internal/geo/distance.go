// Package geo computes great-circle distances between points on a spherical Earth.
package geo

import (
	"math"

	"github.com/crowdinfra/crowdinfra-api/internal/domain"
)

// EarthRadiusMeters is the mean Earth radius, the sphere PostGIS uses for
// geography distance with use_spheroid=false.
const EarthRadiusMeters = 6371008.8

// DistanceMeters returns the haversine distance between a and b.
func DistanceMeters(a, b domain.GeoPoint) float64 {
	lat1 := toRadians(a.Latitude())
	lat2 := toRadians(b.Latitude())
	dLat := lat2 - lat1
	dLng := toRadians(b.Longitude() - a.Longitude())

	h := math.Sin(dLat/2)*math.Sin(dLat/2) +
		math.Cos(lat1)*math.Cos(lat2)*math.Sin(dLng/2)*math.Sin(dLng/2)
	return 2 * EarthRadiusMeters * math.Asin(math.Min(1, math.Sqrt(h)))
}

func toRadians(deg float64) float64 {
	return deg * math.Pi / 180
}
