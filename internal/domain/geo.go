package domain

import (
	"errors"
	"fmt"
	"math"
)

// GeoTypePoint is the only geometry kind stored for demands and properties.
const GeoTypePoint = "Point"

// ErrInvalidLocation is returned when coordinates are not a [longitude, latitude] pair.
var ErrInvalidLocation = errors.New("invalid location: coordinates must be [longitude, latitude]")

// GeoPoint is a GeoJSON point; Coordinates holds [longitude, latitude].
type GeoPoint struct {
	Type        string
	Coordinates [2]float64
}

// NewGeoPoint validates the coordinate array shape and wraps it as a point.
// Ranges are not checked here; see ValidateRange.
func NewGeoPoint(coordinates []float64) (GeoPoint, error) {
	if len(coordinates) != 2 {
		return GeoPoint{}, ErrInvalidLocation
	}
	return GeoPoint{Type: GeoTypePoint, Coordinates: [2]float64{coordinates[0], coordinates[1]}}, nil
}

// PointAt builds a point from a longitude/latitude pair.
func PointAt(longitude, latitude float64) GeoPoint {
	return GeoPoint{Type: GeoTypePoint, Coordinates: [2]float64{longitude, latitude}}
}

// Longitude returns the first coordinate.
func (p GeoPoint) Longitude() float64 { return p.Coordinates[0] }

// Latitude returns the second coordinate.
func (p GeoPoint) Latitude() float64 { return p.Coordinates[1] }

// ValidateRange rejects non-finite coordinates, longitudes outside [-180, 180]
// and latitudes outside [-90, 90].
func (p GeoPoint) ValidateRange() error {
	if !finite(p.Longitude()) || !finite(p.Latitude()) {
		return fmt.Errorf("coordinates %v must be finite numbers", p.Coordinates)
	}
	if p.Longitude() < -180 || p.Longitude() > 180 {
		return fmt.Errorf("longitude %v out of range [-180, 180]", p.Longitude())
	}
	if p.Latitude() < -90 || p.Latitude() > 90 {
		return fmt.Errorf("latitude %v out of range [-90, 90]", p.Latitude())
	}
	return nil
}

func finite(v float64) bool {
	return !math.IsNaN(v) && !math.IsInf(v, 0)
}
