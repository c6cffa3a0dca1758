package utils

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"

	"wayfinder.onebusaway.org/internal/transit"
)

func TestBearing(t *testing.T) {
	origin := transit.Coordinate{Lat: 40.0, Lng: -122.0}

	tests := []struct {
		name      string
		to        transit.Coordinate
		expected  float64
		tolerance float64
	}{
		{name: "north", to: transit.Coordinate{Lat: 41.0, Lng: -122.0}, expected: 0, tolerance: 1},
		{name: "east", to: transit.Coordinate{Lat: 40.0, Lng: -121.0}, expected: 90, tolerance: 1},
		{name: "south", to: transit.Coordinate{Lat: 39.0, Lng: -122.0}, expected: 180, tolerance: 1},
		{name: "west", to: transit.Coordinate{Lat: 40.0, Lng: -123.0}, expected: 270, tolerance: 1},
		{name: "northeast", to: transit.Coordinate{Lat: 40.7, Lng: -121.3}, expected: 45, tolerance: 10},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.InDelta(t, tt.expected, Bearing(origin, tt.to), tt.tolerance)
		})
	}
}

func TestBearingToCompass(t *testing.T) {
	tests := []struct {
		bearing  float64
		expected string
	}{
		{0, "N"}, {22.4, "N"}, {22.5, "NE"}, {45, "NE"}, {90, "E"}, {135, "SE"},
		{180, "S"}, {225, "SW"}, {270, "W"}, {315, "NW"}, {337.5, "N"}, {359.9, "N"},
	}

	for _, tt := range tests {
		t.Run(fmt.Sprintf("%.1f", tt.bearing), func(t *testing.T) {
			assert.Equal(t, tt.expected, BearingToCompass(tt.bearing))
		})
	}
}

func TestCompassDirection(t *testing.T) {
	a := transit.Coordinate{Lat: 47.6, Lng: -122.33}
	assert.Equal(t, "", CompassDirection(a, a))
	assert.Equal(t, "E", CompassDirection(a, transit.Coordinate{Lat: 47.6, Lng: -122.32}))
	assert.Equal(t, "N", CompassDirection(a, transit.Coordinate{Lat: 47.61, Lng: -122.33}))
}
