package geo

import (
	"math"
	"testing"

	"github.com/crowdinfra/crowdinfra-api/internal/domain"
)

func TestDistanceMeters(t *testing.T) {
	tests := []struct {
		name      string
		a, b      domain.GeoPoint
		want      float64
		tolerance float64
	}{
		{"same point", domain.PointAt(77.2090, 28.6139), domain.PointAt(77.2090, 28.6139), 0, 1e-6},
		{"one degree of latitude", domain.PointAt(0, 0), domain.PointAt(0, 1), 111195, 5},
		{"one degree of longitude at equator", domain.PointAt(0, 0), domain.PointAt(1, 0), 111195, 5},
		{"antipodes", domain.PointAt(0, 0), domain.PointAt(180, 0), math.Pi * EarthRadiusMeters, 1},
		{"five km north", domain.PointAt(77.2090, 28.6139), domain.PointAt(77.2090, 28.6139+5000/111195.0), 5000, 1},
		{"delhi to mumbai", domain.PointAt(77.2090, 28.6139), domain.PointAt(72.8777, 19.0760), 1148096, 100},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := DistanceMeters(tt.a, tt.b)
			if math.Abs(got-tt.want) > tt.tolerance {
				t.Errorf("distance = %.1f, want %.1f ± %.1f", got, tt.want, tt.tolerance)
			}
			if back := DistanceMeters(tt.b, tt.a); math.Abs(back-got) > 1e-6 {
				t.Errorf("distance not symmetric: %.6f vs %.6f", got, back)
			}
		})
	}
}
