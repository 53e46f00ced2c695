package geo

import (
	"fmt"
	"math"
)

// EarthRadiusKm is the mean Earth radius used for great-circle distances.
const EarthRadiusKm = 6371.0

// Point is a geographic coordinate in decimal degrees.
type Point struct {
	Lat float64 `json:"lat"`
	Lng float64 `json:"lng"`
}

// DistanceKm computes the great-circle distance between two points using the
// Haversine formula. Inputs are decimal degrees, the result is kilometers.
func DistanceKm(lat1, lng1, lat2, lng2 float64) float64 {
	dLat := toRadians(lat2 - lat1)
	dLng := toRadians(lng2 - lng1)

	a := math.Sin(dLat/2)*math.Sin(dLat/2) +
		math.Cos(toRadians(lat1))*math.Cos(toRadians(lat2))*
			math.Sin(dLng/2)*math.Sin(dLng/2)

	c := 2 * math.Atan2(math.Sqrt(a), math.Sqrt(1-a))
	return EarthRadiusKm * c
}

// DistanceBetween is DistanceKm over two Points.
func DistanceBetween(a, b Point) float64 {
	return DistanceKm(a.Lat, a.Lng, b.Lat, b.Lng)
}

func toRadians(degrees float64) float64 {
	return degrees * (math.Pi / 180)
}

// FormatDistance renders a distance for display: meters below 1 km, one
// decimal below 10 km, whole kilometers above.
func FormatDistance(distanceKm float64) string {
	switch {
	case distanceKm < 1:
		return fmt.Sprintf("%d m", int(math.Round(distanceKm*1000)))
	case distanceKm < 10:
		return fmt.Sprintf("%.1f km", distanceKm)
	default:
		return fmt.Sprintf("%d km", int(math.Round(distanceKm)))
	}
}
