package webui

import (
	"embed"
	"html/template"
	"net/http"

	"github.com/davecgh/go-spew/spew"

	"wayfinder.onebusaway.org/internal/models"
	"wayfinder.onebusaway.org/internal/transit"
)

//go:embed debug_index.html
var templateFS embed.FS

var debugTemplate = template.Must(template.ParseFS(templateFS, "debug_index.html"))

type debugData struct {
	Title string
	Pre   string
}

func writeDebugData(w http.ResponseWriter, title string, data interface{}) {
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	err := debugTemplate.Execute(w, debugData{
		Title: title,
		Pre:   spew.Sdump(data),
	})
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
	}
}

func (webUI *WebUI) debugIndexHandler(w http.ResponseWriter, r *http.Request) {
	query := r.URL.Query()
	snapshot := webUI.GtfsManager.Snapshot()

	var data interface{}
	var title string

	switch query.Get("dataType") {
	case "statistics":
		data = webUI.GtfsManager.Statistics()
		title = "Transit Graph - Statistics"
	case "stops":
		data = snapshot.Graph.Stops()
		title = "Transit Graph - Stops"
	case "links":
		data = snapshot.Graph.Links()
		title = "Transit Graph - Links"
	case "region":
		data = snapshot.RegionBounds()
		title = "Transit Graph - Region"
	case "stop":
		id := query.Get("id")
		if entry, ok := models.NewStopEntry(snapshot.Graph, transit.StopID(id)); ok {
			data = entry
		} else {
			data = map[string]string{"error": "unknown stop " + id}
		}
		title = "Transit Graph - Stop " + id
	default:
		data = map[string]string{
			"error": "Please use one of the following: statistics, stops, links, region, stop (with id).",
		}
		title = "Choose a data type"
	}

	writeDebugData(w, title, data)
}
