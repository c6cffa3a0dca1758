package utils

import (
	"math"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestValidateID(t *testing.T) {
	tests := []struct {
		name   string
		id     string
		errMsg string
	}{
		{name: "simple", id: "stop_123"},
		{name: "feed scoped", id: "1:75403"},
		{name: "dotted", id: "north.platform-2"},
		{name: "empty", id: "", errMsg: "id cannot be empty"},
		{name: "too long", id: strings.Repeat("a", 101), errMsg: "id too long (max 100 characters)"},
		{name: "markup", id: "stop<script>", errMsg: "id contains invalid characters"},
		{name: "injection", id: "stop'; DROP TABLE stops; --", errMsg: "id contains invalid characters"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateID(tt.id)
			if tt.errMsg == "" {
				assert.NoError(t, err)
				return
			}
			assert.EqualError(t, err, tt.errMsg)
		})
	}
}

func TestValidateCoordinates(t *testing.T) {
	assert.NoError(t, ValidateLatitude(90))
	assert.NoError(t, ValidateLatitude(-90))
	assert.Error(t, ValidateLatitude(90.01))
	assert.Error(t, ValidateLatitude(math.NaN()))

	assert.NoError(t, ValidateLongitude(180))
	assert.Error(t, ValidateLongitude(-180.5))
	assert.Error(t, ValidateLongitude(math.Inf(1)))
}

func TestValidateDistances(t *testing.T) {
	assert.NoError(t, ValidateRadius(0))
	assert.NoError(t, ValidateRadius(10000))
	assert.EqualError(t, ValidateRadius(10001), "radius too large (max 10000 meters)")
	assert.Error(t, ValidateRadius(-1))

	assert.NoError(t, ValidateWalkDistance(0))
	assert.NoError(t, ValidateWalkDistance(5000))
	assert.EqualError(t, ValidateWalkDistance(5000.5), "maxWalk too large (max 5000 meters)")
	assert.Error(t, ValidateWalkDistance(math.NaN()))

	assert.NoError(t, ValidateMaxCount(100))
	assert.Error(t, ValidateMaxCount(101))
	assert.Error(t, ValidateMaxCount(-1))
}

func TestValidatePlanParams(t *testing.T) {
	assert.Empty(t, ValidatePlanParams(47.6, -122.3, 47.7, -122.2, 500))

	fieldErrors := ValidatePlanParams(91, -122.3, 47.7, 200, -1)
	assert.Contains(t, fieldErrors, "originLat")
	assert.Contains(t, fieldErrors, "destLon")
	assert.Contains(t, fieldErrors, "maxWalk")
	assert.NotContains(t, fieldErrors, "originLon")
	assert.NotContains(t, fieldErrors, "destLat")
}

func TestValidateLocationParams(t *testing.T) {
	assert.Empty(t, ValidateLocationParams(47.6, -122.3, 0, 0))

	fieldErrors := ValidateLocationParams(47.6, -190, 20000, 500)
	assert.Equal(t, []string{"longitude must be between -180 and 180"}, fieldErrors["lon"])
	assert.Contains(t, fieldErrors, "radius")
	assert.Contains(t, fieldErrors, "maxCount")
	assert.NotContains(t, fieldErrors, "lat")
}
