package restapi

import (
	"net/http"

	"github.com/julienschmidt/httprouter"
)

type handlerFunc func(w http.ResponseWriter, r *http.Request)

func validateAPIKey(api *RestAPI, finalHandler handlerFunc) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if api.RequestHasInvalidAPIKey(r) {
			api.invalidAPIKeyResponse(w, r)
			return
		}
		finalHandler(w, r)
	})
}

func (api *RestAPI) SetRoutes(router *httprouter.Router) {
	router.Handler(http.MethodGet, "/api/where/current-time.json", validateAPIKey(api, api.currentTimeHandler))
	router.Handler(http.MethodGet, "/api/where/plan-route.json", validateAPIKey(api, api.planRouteHandler))
	router.Handler(http.MethodGet, "/api/where/stops-for-location.json", validateAPIKey(api, api.stopsForLocationHandler))
	router.Handler(http.MethodGet, "/api/where/stop/:id", validateAPIKey(api, api.stopHandler))
	router.HandlerFunc(http.MethodGet, "/healthz", api.healthHandler)

	router.NotFound = http.HandlerFunc(api.notFoundResponse)
}
