package restapi

import (
	"net/http"
	"time"

	"github.com/julienschmidt/httprouter"

	"wayfinder.onebusaway.org/internal/app"
	"wayfinder.onebusaway.org/internal/appconf"
	"wayfinder.onebusaway.org/internal/webui"
)

// defaultPlanTimeout bounds a route search. It stays below the server's WriteTimeout.
const defaultPlanTimeout = 5 * time.Second

type RestAPI struct {
	*app.Application
	rateLimiter *RateLimitMiddleware
	planTimeout time.Duration
}

// NewRestAPI creates a RestAPI with a per-key rate limiter. RateLimit 0 disables limiting.
func NewRestAPI(app *app.Application) *RestAPI {
	return &RestAPI{
		Application: app,
		rateLimiter: NewRateLimitMiddleware(app.Config.RateLimit, time.Second),
		planTimeout: defaultPlanTimeout,
	}
}

// Handler returns the full middleware chain around the API routes.
func (api *RestAPI) Handler() http.Handler {
	router := httprouter.New()
	api.SetRoutes(router)
	if api.Config.Env != appconf.Production {
		(&webui.WebUI{Application: api.Application}).SetWebUIRoutes(router)
	}

	var handler http.Handler = router
	handler = api.rateLimiter.Handler(handler)
	handler = CompressionMiddleware(handler)
	handler = api.WithSecurityHeaders(handler)
	handler = NewRequestLoggingMiddleware(api.Logger)(handler)
	return handler
}

// Close releases the rate limiter's background cleanup.
func (api *RestAPI) Close() {
	api.rateLimiter.Stop()
}
