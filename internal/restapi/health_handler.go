package restapi

import (
	"encoding/json"
	"net/http"
	"time"

	"wayfinder.onebusaway.org/internal/gtfs"
)

type healthStatus struct {
	Status      string      `json:"status"`
	Generation  uint64      `json:"generation"`
	Stops       int         `json:"stops"`
	Lines       int         `json:"lines"`
	LastUpdated time.Time   `json:"lastUpdated"`
	Region      gtfs.Region `json:"region"`
}

// healthHandler reports on the snapshot being served. It needs no API key.
func (api *RestAPI) healthHandler(w http.ResponseWriter, r *http.Request) {
	stats := api.GtfsManager.Statistics()
	status := healthStatus{
		Status:      "ok",
		Generation:  stats.Generation,
		Stops:       stats.Stops,
		Lines:       stats.Lines,
		LastUpdated: stats.LastUpdated,
		Region:      stats.Region,
	}
	if stats.Stops == 0 {
		status.Status = "empty"
	}

	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(status); err != nil {
		api.Logger.Error("failed to encode health status", "error", err)
	}
}
