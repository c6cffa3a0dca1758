package utils

import (
	"math"

	"wayfinder.onebusaway.org/internal/transit"
)

var compassPoints = []string{"N", "NE", "E", "SE", "S", "SW", "W", "NW"}

// Bearing returns the initial great-circle bearing from one coordinate to another,
// in degrees clockwise from north in [0, 360).
func Bearing(from, to transit.Coordinate) float64 {
	phi1 := from.Lat * math.Pi / 180
	phi2 := to.Lat * math.Pi / 180
	deltaLon := (to.Lng - from.Lng) * math.Pi / 180

	y := math.Sin(deltaLon) * math.Cos(phi2)
	x := math.Cos(phi1)*math.Sin(phi2) - math.Sin(phi1)*math.Cos(phi2)*math.Cos(deltaLon)

	return math.Mod(math.Atan2(y, x)*180/math.Pi+360, 360)
}

// BearingToCompass converts a bearing to one of eight compass points.
func BearingToCompass(bearing float64) string {
	index := int(math.Mod(bearing+22.5, 360) / 45.0)
	return compassPoints[index%len(compassPoints)]
}

// CompassDirection is the compass point of travel between two coordinates, or ""
// when they coincide.
func CompassDirection(from, to transit.Coordinate) string {
	if from == to {
		return ""
	}
	return BearingToCompass(Bearing(from, to))
}
