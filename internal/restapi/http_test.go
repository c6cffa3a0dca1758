package restapi

import (
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/require"

	"wayfinder.onebusaway.org/internal/app"
	"wayfinder.onebusaway.org/internal/appconf"
	"wayfinder.onebusaway.org/internal/gtfs"
	"wayfinder.onebusaway.org/internal/logging"
	"wayfinder.onebusaway.org/internal/models"
	"wayfinder.onebusaway.org/internal/transit"
)

const testAPIKey = "TEST"

// testGraph is an east-west line with stops 750 m apart and one stop
// nobody serves:
//
//	west --10-- central --10-- east          lonely
func testGraph(t *testing.T) *transit.Graph {
	t.Helper()
	b := transit.NewGraphBuilder()
	b.AddStop("west", transit.Coordinate{Lat: 47.6, Lng: -122.34})
	b.AddStop("central", transit.Coordinate{Lat: 47.6, Lng: -122.33})
	b.AddStop("east", transit.Coordinate{Lat: 47.6, Lng: -122.32})
	b.AddStop("lonely", transit.Coordinate{Lat: 47.7, Lng: -122.0})
	b.AddLink("west", "central", "10")
	b.AddLink("central", "east", "10")
	graph, err := b.Build()
	require.NoError(t, err)
	return graph
}

// createTestApi creates a RestAPI over testGraph with rate limiting disabled.
func createTestApi(t *testing.T) *RestAPI {
	t.Helper()
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	gtfsConfig := gtfs.Config{Env: appconf.Test, CacheSize: 16}

	api := NewRestAPI(&app.Application{
		Config: appconf.Config{
			Env:     appconf.Test,
			ApiKeys: []string{testAPIKey},
		},
		GtfsConfig:  gtfsConfig,
		Logger:      logger,
		GtfsManager: gtfs.FromGraph(testGraph(t), gtfsConfig, logger),
	})
	t.Cleanup(api.Close)
	return api
}

// serveApiAndRetrieveEndpoint serves the full middleware chain, requests endpoint and
// decodes the body.
func serveApiAndRetrieveEndpoint(t *testing.T, api *RestAPI, endpoint string) (*http.Response, models.ResponseModel) {
	t.Helper()
	server := httptest.NewServer(api.Handler())
	defer server.Close()

	resp, err := http.Get(server.URL + endpoint)
	require.NoError(t, err)
	defer logging.SafeCloseWithLogging(resp.Body,
		slog.Default().With(slog.String("component", "test")),
		"http_response_body")

	var response models.ResponseModel
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&response))
	return resp, response
}

func serveAndRetrieveEndpoint(t *testing.T, endpoint string) (*RestAPI, *http.Response, models.ResponseModel) {
	t.Helper()
	api := createTestApi(t)
	resp, model := serveApiAndRetrieveEndpoint(t, api, endpoint)
	return api, resp, model
}

// serveAndDecode serves endpoint and decodes the raw JSON body.
func serveAndDecode(t *testing.T, api *RestAPI, endpoint string) (*http.Response, map[string]interface{}) {
	t.Helper()
	recorder := httptest.NewRecorder()
	api.Handler().ServeHTTP(recorder, httptest.NewRequest(http.MethodGet, endpoint, nil))

	var body map[string]interface{}
	require.NoError(t, json.Unmarshal(recorder.Body.Bytes(), &body))
	return recorder.Result(), body
}

func entryOf(t *testing.T, model models.ResponseModel) map[string]interface{} {
	t.Helper()
	data, ok := model.Data.(map[string]interface{})
	require.True(t, ok, "data should be an object")
	entry, ok := data["entry"].(map[string]interface{})
	require.True(t, ok, "data.entry should be an object")
	return entry
}
