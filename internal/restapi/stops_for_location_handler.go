package restapi

import (
	"net/http"

	"wayfinder.onebusaway.org/internal/models"
	"wayfinder.onebusaway.org/internal/transit"
	"wayfinder.onebusaway.org/internal/utils"
)

func (api *RestAPI) stopsForLocationHandler(w http.ResponseWriter, r *http.Request) {
	queryParams := r.URL.Query()

	lat, fieldErrors := utils.ParseRequiredFloatParam(queryParams, "lat", nil)
	lon, _ := utils.ParseRequiredFloatParam(queryParams, "lon", fieldErrors)
	radius, _ := utils.ParseFloatParam(queryParams, "radius", fieldErrors)
	maxCount, _ := utils.ParseIntParam(queryParams, "maxCount", fieldErrors)

	if len(fieldErrors) > 0 {
		api.validationErrorResponse(w, r, fieldErrors)
		return
	}
	if locationErrors := utils.ValidateLocationParams(lat, lon, radius, maxCount); len(locationErrors) > 0 {
		api.validationErrorResponse(w, r, locationErrors)
		return
	}

	ctx := r.Context()
	if ctx.Err() != nil {
		api.serverErrorResponse(w, r, ctx.Err())
		return
	}

	snapshot := api.GtfsManager.Snapshot()
	point := transit.Coordinate{Lat: lat, Lng: lon}
	stops, err := api.GtfsManager.StopsForLocation(ctx, point, radius, maxCount)
	if err != nil {
		api.planErrorResponse(w, r, err)
		return
	}

	results := make([]models.NearbyStop, 0, len(stops))
	references := models.NewEmptyReferences()
	seenLines := make(map[string]bool)
	for _, sp := range stops {
		stop, ok := models.NewStop(snapshot.Graph, sp.ID)
		if !ok {
			// The stop vanished in a reload between the two lookups.
			continue
		}
		c := transit.Coordinate{Lat: sp.Lat, Lng: sp.Lng}
		results = append(results, models.NearbyStop{
			Stop:      stop,
			Distance:  transit.Distance(point, c),
			Direction: utils.CompassDirection(point, c),
		})
		for _, line := range stop.Lines {
			if !seenLines[line] {
				seenLines[line] = true
				references.Lines = append(references.Lines, line)
			}
		}
	}

	api.sendResponse(w, r, models.NewListResponse(results, references))
}
