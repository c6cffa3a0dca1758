package webui

import (
	"net/http"

	"github.com/julienschmidt/httprouter"

	"wayfinder.onebusaway.org/internal/app"
)

// WebUI serves the debugging pages.
type WebUI struct {
	*app.Application
}

func (webUI *WebUI) SetWebUIRoutes(router *httprouter.Router) {
	router.HandlerFunc(http.MethodGet, "/debug/", webUI.debugIndexHandler)
}
