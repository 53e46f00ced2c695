package geo

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

var (
	mumbai = Point{Lat: 19.0760, Lng: 72.8777}
	delhi  = Point{Lat: 28.6139, Lng: 77.2090}
)

func TestDistanceKmIdentity(t *testing.T) {
	assert.Zero(t, DistanceKm(mumbai.Lat, mumbai.Lng, mumbai.Lat, mumbai.Lng))
	assert.Zero(t, DistanceKm(0, 0, 0, 0))
	assert.Zero(t, DistanceKm(-33.8688, 151.2093, -33.8688, 151.2093))
}

func TestDistanceKmSymmetry(t *testing.T) {
	ab := DistanceKm(mumbai.Lat, mumbai.Lng, delhi.Lat, delhi.Lng)
	ba := DistanceKm(delhi.Lat, delhi.Lng, mumbai.Lat, mumbai.Lng)
	assert.Equal(t, ab, ba)
}

func TestDistanceKmKnownDistances(t *testing.T) {
	// Mumbai to Delhi is roughly 1150 km great-circle.
	d := DistanceBetween(mumbai, delhi)
	assert.InDelta(t, 1150, d, 20)

	// One degree of latitude is ~111.19 km on a 6371 km sphere.
	d = DistanceKm(0, 0, 1, 0)
	assert.InDelta(t, 111.19, d, 0.1)
}

func TestDistanceKmNonNegative(t *testing.T) {
	points := []Point{
		{0, 0}, {90, 0}, {-90, 0}, {0, 180}, {0, -180}, {45.5, -122.6},
	}
	for _, a := range points {
		for _, b := range points {
			assert.GreaterOrEqual(t, DistanceBetween(a, b), 0.0)
		}
	}
}

func TestFormatDistance(t *testing.T) {
	assert.Equal(t, "500 m", FormatDistance(0.5))
	assert.Equal(t, "1.5 km", FormatDistance(1.5))
	assert.Equal(t, "9.9 km", FormatDistance(9.94))
	assert.Equal(t, "12 km", FormatDistance(12.3))
}
