package restapi

import (
	"encoding/json"
	"net/http"

	"wayfinder.onebusaway.org/internal/logging"
	"wayfinder.onebusaway.org/internal/models"
)

// errorEnvelope is the body of error responses; it has no data member.
type errorEnvelope struct {
	Code        int    `json:"code"`
	CurrentTime int64  `json:"currentTime"`
	Text        string `json:"text"`
	Version     int    `json:"version"`
}

func (api *RestAPI) writeError(w http.ResponseWriter, code int, text string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	err := json.NewEncoder(w).Encode(errorEnvelope{
		Code:        code,
		CurrentTime: models.ResponseCurrentTime(),
		Text:        text,
		// Error responses have always been version 1.
		Version: 1,
	})
	if err != nil {
		api.Logger.Error("failed to encode error response", "error", err)
	}
}

func (api *RestAPI) invalidAPIKeyResponse(w http.ResponseWriter, r *http.Request) {
	api.writeError(w, http.StatusUnauthorized, "permission denied")
}

func (api *RestAPI) notFoundResponse(w http.ResponseWriter, r *http.Request) {
	api.writeError(w, http.StatusNotFound, "resource not found")
}

func (api *RestAPI) serverErrorResponse(w http.ResponseWriter, r *http.Request, err error) {
	logging.LogError(logging.FromContext(r.Context()), "request failed", err)
	api.writeError(w, http.StatusInternalServerError, "internal server error")
}

// validationErrorResponse sends a 400 with field-specific validation errors
func (api *RestAPI) validationErrorResponse(w http.ResponseWriter, r *http.Request, fieldErrors map[string][]string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusBadRequest)
	err := json.NewEncoder(w).Encode(struct {
		FieldErrors map[string][]string `json:"fieldErrors"`
	}{FieldErrors: fieldErrors})
	if err != nil {
		api.Logger.Error("failed to encode validation error response", "error", err)
	}
}
