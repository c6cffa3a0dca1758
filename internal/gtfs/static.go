package gtfs

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"os"
	"slices"
	"time"

	"github.com/jamespfennell/gtfs"

	"wayfinder.onebusaway.org/internal/logging"
	"wayfinder.onebusaway.org/internal/transit"
)

const downloadTimeout = 60 * time.Second

func rawGtfsData(ctx context.Context, source string, isLocalFile bool, logger *slog.Logger) ([]byte, error) {
	if isLocalFile {
		b, err := os.ReadFile(source)
		if err != nil {
			return nil, fmt.Errorf("error reading local GTFS file: %w", err)
		}
		return b, nil
	}

	ctx, cancel := context.WithTimeout(ctx, downloadTimeout)
	defer cancel()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, source, nil)
	if err != nil {
		return nil, fmt.Errorf("error creating GTFS request: %w", err)
	}
	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("error downloading GTFS data: %w", err)
	}
	defer logging.SafeCloseWithLogging(resp.Body, logger, "download_static_feed")

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("error downloading GTFS data: unexpected status %s", resp.Status)
	}

	b, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("error reading GTFS data: %w", err)
	}
	return b, nil
}

// LoadStatic reads and parses a static GTFS zip from a local path or an http(s) URL.
func LoadStatic(ctx context.Context, source string, logger *slog.Logger) (*gtfs.Static, error) {
	return loadGTFSData(ctx, source, Config{GtfsURL: source}.isLocalFile(), logger)
}

func loadGTFSData(ctx context.Context, source string, isLocalFile bool, logger *slog.Logger) (*gtfs.Static, error) {
	b, err := rawGtfsData(ctx, source, isLocalFile, logger)
	if err != nil {
		return nil, err
	}

	staticData, err := gtfs.ParseStatic(b, gtfs.ParseStaticOptions{})
	if err != nil {
		return nil, fmt.Errorf("error parsing GTFS data: %w", err)
	}

	if len(staticData.Warnings) > 0 {
		logger.Warn("static feed parsed with warnings",
			slog.String("source", source),
			slog.Int("warnings", len(staticData.Warnings)))
	}

	return staticData, nil
}

// BuildGraph turns scheduled trips into a transit graph. Each pair of consecutive
// stop times in a trip links the two stops with the trip's line. Stops without
// coordinates are dropped together with their links, and so are stations, entrances
// and generic nodes: only stops and platforms can be boarded.
func BuildGraph(staticData *gtfs.Static) (*transit.Graph, error) {
	builder := transit.NewGraphBuilder()

	located := make(map[string]bool, len(staticData.Stops))
	for _, stop := range staticData.Stops {
		if stop.Latitude == nil || stop.Longitude == nil || !boardable(stop.Type) {
			continue
		}
		builder.AddStop(transit.StopID(stop.Id), transit.Coordinate{Lat: *stop.Latitude, Lng: *stop.Longitude})
		located[stop.Id] = true
	}

	for i := range staticData.Trips {
		trip := &staticData.Trips[i]
		line := lineID(trip.Route)
		if line == "" {
			continue
		}

		stopTimes := slices.Clone(trip.StopTimes)
		slices.SortStableFunc(stopTimes, func(a, b gtfs.ScheduledStopTime) int {
			return a.StopSequence - b.StopSequence
		})

		for j := 1; j < len(stopTimes); j++ {
			from, to := stopTimes[j-1].Stop, stopTimes[j].Stop
			if from == nil || to == nil || !located[from.Id] || !located[to.Id] {
				continue
			}
			builder.AddLink(transit.StopID(from.Id), transit.StopID(to.Id), line)
		}
	}

	return builder.Build()
}

func boardable(t gtfs.StopType) bool {
	switch t {
	case gtfs.StopType_Stop, gtfs.StopType_Platform, gtfs.StopType_BoardingArea:
		return true
	default:
		return false
	}
}

// lineID names a route by its short name, falling back to its id.
func lineID(route *gtfs.Route) string {
	if route == nil {
		return ""
	}
	if route.ShortName != "" {
		return route.ShortName
	}
	return route.Id
}
