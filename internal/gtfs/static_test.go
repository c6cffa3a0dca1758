package gtfs

import (
	"context"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/jamespfennell/gtfs"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"wayfinder.onebusaway.org/internal/gtfs/gtfstest"
	"wayfinder.onebusaway.org/internal/transit"
)

func float64Ptr(v float64) *float64 {
	return &v
}

func TestBuildGraphFromFeed(t *testing.T) {
	staticData, err := LoadStatic(context.Background(), gtfstest.WriteFeed(t, gtfstest.SampleFeed()), slog.Default())
	require.NoError(t, err)

	graph, err := BuildGraph(staticData)
	require.NoError(t, err)

	assert.Equal(t, []transit.StopID{"A", "B", "C", "D"}, graph.Stops())
	assert.Equal(t, []transit.Link{
		{From: "A", To: "B", Line: "10"},
		{From: "B", To: "C", Line: "10"},
		{From: "C", To: "D", Line: "r2"},
	}, graph.Links())
	assert.Equal(t, 2, graph.LineCount())
}

func TestBuildGraphSkipsStopsWithoutCoordinates(t *testing.T) {
	route := gtfs.Route{Id: "r1", ShortName: "7"}
	stops := []gtfs.Stop{
		{Id: "A", Latitude: float64Ptr(0), Longitude: float64Ptr(0)},
		{Id: "ghost"},
		{Id: "C", Latitude: float64Ptr(0), Longitude: float64Ptr(0.01)},
		{Id: "D", Latitude: float64Ptr(0), Longitude: float64Ptr(0.02)},
	}
	staticData := &gtfs.Static{
		Stops: stops,
		Trips: []gtfs.ScheduledTrip{{
			ID:    "t1",
			Route: &route,
			StopTimes: []gtfs.ScheduledStopTime{
				{Stop: &stops[0], StopSequence: 1},
				{Stop: &stops[1], StopSequence: 2},
				{Stop: &stops[2], StopSequence: 3},
				{Stop: &stops[3], StopSequence: 4},
			},
		}},
	}

	graph, err := BuildGraph(staticData)
	require.NoError(t, err)

	assert.False(t, graph.HasStop("ghost"))
	assert.Equal(t, []transit.Link{{From: "C", To: "D", Line: "7"}}, graph.Links())
	assert.Empty(t, graph.Neighbors("A"))
}

func TestBuildGraphSkipsStationsSharingPlatformCoordinate(t *testing.T) {
	files := gtfstest.SampleFeed()
	files["stops.txt"] = "stop_id,stop_name,stop_lat,stop_lon,location_type,parent_station\n" +
		"P,Pier Station,47.600000,-122.330000,1,\n" +
		"P1,Pier Platform 1,47.600000,-122.330000,0,P\n" +
		"Q,Quay,47.610000,-122.330000,0,\n"
	files["trips.txt"] = "route_id,service_id,trip_id\n" +
		"r1,wk,t1\n"
	files["stop_times.txt"] = "trip_id,arrival_time,departure_time,stop_id,stop_sequence\n" +
		"t1,08:00:00,08:00:00,P1,1\n" +
		"t1,08:05:00,08:05:00,Q,2\n"

	staticData, err := LoadStatic(context.Background(), gtfstest.WriteFeed(t, files), slog.Default())
	require.NoError(t, err)

	graph, err := BuildGraph(staticData)
	require.NoError(t, err)
	assert.Equal(t, []transit.StopID{"P1", "Q"}, graph.Stops())

	manager := FromGraph(graph, Config{}, slog.Default())
	defer manager.Shutdown()

	plan, err := manager.PlanRoute(context.Background(),
		transit.Coordinate{Lat: 47.6, Lng: -122.33},
		transit.Coordinate{Lat: 47.61, Lng: -122.33}, 500)
	require.NoError(t, err)
	require.Len(t, plan.Journeys, 1)
	assert.Equal(t, transit.StopID("P1"), plan.Journeys[0][0].Board.ID)
	assert.Equal(t, transit.StopID("Q"), plan.Journeys[0][0].Deboard.ID)
}

func TestBuildGraphKeepsBoardableStopTypes(t *testing.T) {
	stops := []gtfs.Stop{
		{Id: "stop", Type: gtfs.StopType_Stop, Latitude: float64Ptr(0), Longitude: float64Ptr(0)},
		{Id: "platform", Type: gtfs.StopType_Platform, Latitude: float64Ptr(0), Longitude: float64Ptr(0.01)},
		{Id: "boarding", Type: gtfs.StopType_BoardingArea, Latitude: float64Ptr(0), Longitude: float64Ptr(0.02)},
		{Id: "station", Type: gtfs.StopType_Station, Latitude: float64Ptr(0), Longitude: float64Ptr(0.03)},
		{Id: "entrance", Type: gtfs.StopType_EntranceOrExit, Latitude: float64Ptr(0), Longitude: float64Ptr(0.04)},
		{Id: "node", Type: gtfs.StopType_GenericNode, Latitude: float64Ptr(0), Longitude: float64Ptr(0.05)},
	}
	graph, err := BuildGraph(&gtfs.Static{Stops: stops})
	require.NoError(t, err)
	assert.Equal(t, []transit.StopID{"boarding", "platform", "stop"}, graph.Stops())
}

func TestBuildGraphSkipsTripsWithoutRoute(t *testing.T) {
	stops := []gtfs.Stop{
		{Id: "A", Latitude: float64Ptr(0), Longitude: float64Ptr(0)},
		{Id: "B", Latitude: float64Ptr(0), Longitude: float64Ptr(0.01)},
	}
	graph, err := BuildGraph(&gtfs.Static{
		Stops: stops,
		Trips: []gtfs.ScheduledTrip{{
			ID:        "orphan",
			StopTimes: []gtfs.ScheduledStopTime{{Stop: &stops[0], StopSequence: 1}, {Stop: &stops[1], StopSequence: 2}},
		}},
	})
	require.NoError(t, err)
	assert.Zero(t, graph.LinkCount())
	assert.Equal(t, 2, graph.StopCount())
}

func TestLineID(t *testing.T) {
	assert.Equal(t, "", lineID(nil))
	assert.Equal(t, "44", lineID(&gtfs.Route{Id: "route-44", ShortName: "44"}))
	assert.Equal(t, "route-44", lineID(&gtfs.Route{Id: "route-44"}))
}

func TestLoadStaticFromURL(t *testing.T) {
	feed := gtfstest.Zip(t, gtfstest.SampleFeed())
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/gtfs.zip" {
			http.NotFound(w, r)
			return
		}
		_, _ = w.Write(feed)
	}))
	defer server.Close()

	staticData, err := LoadStatic(context.Background(), server.URL+"/gtfs.zip", slog.Default())
	require.NoError(t, err)
	assert.Len(t, staticData.Stops, 4)

	_, err = LoadStatic(context.Background(), server.URL+"/missing.zip", slog.Default())
	assert.ErrorContains(t, err, "unexpected status")
}

func TestLoadStaticErrors(t *testing.T) {
	_, err := LoadStatic(context.Background(), "/definitely/not/here.zip", slog.Default())
	assert.ErrorContains(t, err, "error reading local GTFS file")

	_, err = LoadStatic(context.Background(), gtfstest.WriteFeed(t, map[string]string{"readme.txt": "not a feed"}), slog.Default())
	assert.ErrorContains(t, err, "error parsing GTFS data")
}
