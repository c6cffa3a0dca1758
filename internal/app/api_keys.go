package app

import (
	"net/http"
	"slices"
)

// RequestHasInvalidAPIKey reports whether the request's ?key= is missing or unknown.
func (app *Application) RequestHasInvalidAPIKey(r *http.Request) bool {
	return app.IsInvalidAPIKey(r.URL.Query().Get("key"))
}

func (app *Application) IsInvalidAPIKey(key string) bool {
	if key == "" {
		return true
	}
	return !slices.Contains(app.Config.ApiKeys, key)
}
