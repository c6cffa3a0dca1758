package restapi

import (
	"net/http"

	"wayfinder.onebusaway.org/internal/models"
	"wayfinder.onebusaway.org/internal/transit"
	"wayfinder.onebusaway.org/internal/utils"
)

func (api *RestAPI) stopHandler(w http.ResponseWriter, r *http.Request) {
	id := utils.ExtractIDFromParams(r, "id")
	if err := utils.ValidateID(id); err != nil {
		api.validationErrorResponse(w, r, map[string][]string{"id": {err.Error()}})
		return
	}

	graph := api.GtfsManager.Snapshot().Graph
	entry, ok := models.NewStopEntry(graph, transit.StopID(id))
	if !ok {
		api.notFoundResponse(w, r)
		return
	}

	references := models.NewEmptyReferences()
	for _, neighbor := range entry.Neighbors {
		if stop, ok := models.NewStop(graph, transit.StopID(neighbor.ID)); ok {
			references.Stops = append(references.Stops, stop)
		}
	}
	references.Lines = append(references.Lines, entry.Lines...)

	api.sendResponse(w, r, models.NewEntryResponse(entry, references))
}
