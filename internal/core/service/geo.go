package service

import (
	"math"

	"github.com/portesillo/tracking-service/internal/core/domain"
)

const (
	earthRadiusKm = 6371.0
	// averageSpeedKmh is the assumed urban speed used for arrival estimates.
	averageSpeedKmh = 40.0
)

// Haversine returns the great-circle distance in kilometres between a and b.
func Haversine(a, b domain.Coordinates) float64 {
	lat1 := toRadians(a.Latitude)
	lat2 := toRadians(b.Latitude)
	dLat := toRadians(b.Latitude - a.Latitude)
	dLon := toRadians(b.Longitude - a.Longitude)

	h := math.Sin(dLat/2)*math.Sin(dLat/2) +
		math.Cos(lat1)*math.Cos(lat2)*math.Sin(dLon/2)*math.Sin(dLon/2)
	c := 2 * math.Atan2(math.Sqrt(h), math.Sqrt(1-h))
	return earthRadiusKm * c
}

// EstimateMinutes converts a distance into whole minutes at averageSpeedKmh.
func EstimateMinutes(distanceKm float64) int {
	return int(math.Round(distanceKm / averageSpeedKmh * 60))
}

func toRadians(deg float64) float64 {
	return deg * math.Pi / 180
}
