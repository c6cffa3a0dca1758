package restapi

import (
	"encoding/json"
	"net/http"

	"wayfinder.onebusaway.org/internal/models"
)

func (api *RestAPI) sendResponse(w http.ResponseWriter, r *http.Request, response models.ResponseModel) {
	w.Header().Set("Content-Type", "application/json")
	if response.Code != 0 && response.Code != http.StatusOK {
		w.WriteHeader(response.Code)
	}

	if err := json.NewEncoder(w).Encode(response); err != nil {
		api.Logger.Error("failed to encode response", "error", err, "path", r.URL.Path)
	}
}
