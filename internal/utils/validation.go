package utils

import (
	"errors"
	"math"
	"regexp"
)

const (
	maxRadiusMeters = 10000.0
	maxWalkMeters   = 5000.0
	maxStopCount    = 100
)

// Stop ids are alphanumeric plus underscore, hyphen, dot and colon.
var validIDPattern = regexp.MustCompile(`^[a-zA-Z0-9_.:-]+$`)

// ValidateID validates that an ID is safe and within reasonable limits
func ValidateID(id string) error {
	if id == "" {
		return errors.New("id cannot be empty")
	}
	if len(id) > 100 {
		return errors.New("id too long (max 100 characters)")
	}
	if !validIDPattern.MatchString(id) {
		return errors.New("id contains invalid characters")
	}
	return nil
}

func ValidateLatitude(lat float64) error {
	if math.IsNaN(lat) || lat < -90.0 || lat > 90.0 {
		return errors.New("latitude must be between -90 and 90")
	}
	return nil
}

func ValidateLongitude(lon float64) error {
	if math.IsNaN(lon) || lon < -180.0 || lon > 180.0 {
		return errors.New("longitude must be between -180 and 180")
	}
	return nil
}

// ValidateRadius validates radius values for location searches
func ValidateRadius(radius float64) error {
	if math.IsNaN(radius) || radius < 0 {
		return errors.New("radius must be non-negative")
	}
	if radius > maxRadiusMeters {
		return errors.New("radius too large (max 10000 meters)")
	}
	return nil
}

// ValidateWalkDistance validates the maximum walking distance of a plan request.
func ValidateWalkDistance(meters float64) error {
	if math.IsNaN(meters) || meters < 0 {
		return errors.New("maxWalk must be non-negative")
	}
	if meters > maxWalkMeters {
		return errors.New("maxWalk too large (max 5000 meters)")
	}
	return nil
}

// ValidateMaxCount validates the number of stops a location search may return.
func ValidateMaxCount(count int) error {
	if count < 0 {
		return errors.New("maxCount must be non-negative")
	}
	if count > maxStopCount {
		return errors.New("maxCount too large (max 100)")
	}
	return nil
}

func validateCoordinate(fieldErrors map[string][]string, latKey, lonKey string, lat, lon float64) {
	if err := ValidateLatitude(lat); err != nil {
		fieldErrors[latKey] = append(fieldErrors[latKey], err.Error())
	}
	if err := ValidateLongitude(lon); err != nil {
		fieldErrors[lonKey] = append(fieldErrors[lonKey], err.Error())
	}
}

// ValidateLocationParams validates the parameters of a stops-for-location request.
func ValidateLocationParams(lat, lon, radius float64, maxCount int) map[string][]string {
	fieldErrors := make(map[string][]string)
	validateCoordinate(fieldErrors, "lat", "lon", lat, lon)

	if err := ValidateRadius(radius); err != nil {
		fieldErrors["radius"] = append(fieldErrors["radius"], err.Error())
	}
	if err := ValidateMaxCount(maxCount); err != nil {
		fieldErrors["maxCount"] = append(fieldErrors["maxCount"], err.Error())
	}
	return fieldErrors
}

// ValidatePlanParams validates the parameters of a plan-route request.
func ValidatePlanParams(originLat, originLon, destLat, destLon, maxWalk float64) map[string][]string {
	fieldErrors := make(map[string][]string)
	validateCoordinate(fieldErrors, "originLat", "originLon", originLat, originLon)
	validateCoordinate(fieldErrors, "destLat", "destLon", destLat, destLon)

	if err := ValidateWalkDistance(maxWalk); err != nil {
		fieldErrors["maxWalk"] = append(fieldErrors["maxWalk"], err.Error())
	}
	return fieldErrors
}
