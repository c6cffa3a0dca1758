package transit

import (
	"fmt"
	"math"

	"github.com/golang/geo/s2"
)

// earthRadiusMeters is the mean earth radius (IUGG).
const earthRadiusMeters = 6371008.8

// Coordinate is a WGS84 latitude/longitude pair in degrees.
type Coordinate struct {
	Lat float64 `json:"lat"`
	Lng float64 `json:"lng"`
}

func (c Coordinate) String() string {
	return fmt.Sprintf("(%.6f, %.6f)", c.Lat, c.Lng)
}

// Validate rejects NaN, infinite and out of range values.
func (c Coordinate) Validate() error {
	if math.IsNaN(c.Lat) || math.IsInf(c.Lat, 0) || c.Lat < -90 || c.Lat > 90 {
		return &InvalidCoordinateError{Coordinate: c, Field: "lat"}
	}
	if math.IsNaN(c.Lng) || math.IsInf(c.Lng, 0) || c.Lng < -180 || c.Lng > 180 {
		return &InvalidCoordinateError{Coordinate: c, Field: "lng"}
	}
	return nil
}

func (c Coordinate) latLng() s2.LatLng {
	return s2.LatLngFromDegrees(c.Lat, c.Lng)
}

// Distance returns the great-circle distance between a and b in meters.
func Distance(a, b Coordinate) float64 {
	return a.latLng().Distance(b.latLng()).Radians() * earthRadiusMeters
}
