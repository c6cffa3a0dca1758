package restapi

import (
	"context"
	"errors"
	"net/http"

	"wayfinder.onebusaway.org/internal/logging"
	"wayfinder.onebusaway.org/internal/models"
	"wayfinder.onebusaway.org/internal/transit"
	"wayfinder.onebusaway.org/internal/utils"
)

func (api *RestAPI) planRouteHandler(w http.ResponseWriter, r *http.Request) {
	queryParams := r.URL.Query()

	originLat, fieldErrors := utils.ParseRequiredFloatParam(queryParams, "originLat", nil)
	originLon, _ := utils.ParseRequiredFloatParam(queryParams, "originLon", fieldErrors)
	destLat, _ := utils.ParseRequiredFloatParam(queryParams, "destLat", fieldErrors)
	destLon, _ := utils.ParseRequiredFloatParam(queryParams, "destLon", fieldErrors)
	maxWalk, _ := utils.ParseFloatParam(queryParams, "maxWalk", fieldErrors)

	if len(fieldErrors) > 0 {
		api.validationErrorResponse(w, r, fieldErrors)
		return
	}
	if planErrors := utils.ValidatePlanParams(originLat, originLon, destLat, destLon, maxWalk); len(planErrors) > 0 {
		api.validationErrorResponse(w, r, planErrors)
		return
	}

	ctx := r.Context()
	if ctx.Err() != nil {
		api.serverErrorResponse(w, r, ctx.Err())
		return
	}
	ctx, cancel := context.WithTimeout(ctx, api.planTimeout)
	defer cancel()

	// Keep planning and references on the same snapshot.
	snapshot := api.GtfsManager.Snapshot()
	plan, err := api.GtfsManager.PlanRoute(ctx,
		transit.Coordinate{Lat: originLat, Lng: originLon},
		transit.Coordinate{Lat: destLat, Lng: destLon},
		maxWalk)
	if err != nil {
		api.planErrorResponse(w, r, err)
		return
	}

	api.sendResponse(w, r, models.NewEntryResponse(
		models.NewPlanEntry(plan),
		models.NewPlanReferences(snapshot.Graph, plan)))
}

// planErrorResponse maps planner failures to HTTP responses.
func (api *RestAPI) planErrorResponse(w http.ResponseWriter, r *http.Request, err error) {
	var coordErr *transit.InvalidCoordinateError
	switch {
	case errors.As(err, &coordErr):
		api.validationErrorResponse(w, r, map[string][]string{coordErr.Field: {coordErr.Error()}})
	case errors.Is(err, transit.ErrInvalidCoordinate):
		api.validationErrorResponse(w, r, map[string][]string{"coordinate": {err.Error()}})
	case errors.Is(err, transit.ErrInvalidWalkDistance):
		api.validationErrorResponse(w, r, map[string][]string{"maxWalk": {err.Error()}})
	case errors.Is(err, context.DeadlineExceeded):
		logging.LogError(logging.FromContext(r.Context()), "route search timed out", err)
		api.writeError(w, http.StatusServiceUnavailable, "route search timed out")
	default:
		api.serverErrorResponse(w, r, err)
	}
}
