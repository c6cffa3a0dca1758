package main

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"strconv"
	"strings"

	"github.com/urfave/cli/v2"

	"wayfinder.onebusaway.org/gtfsdb"
	"wayfinder.onebusaway.org/internal/appconf"
	"wayfinder.onebusaway.org/internal/gtfs"
	"wayfinder.onebusaway.org/internal/logging"
	"wayfinder.onebusaway.org/internal/models"
	"wayfinder.onebusaway.org/internal/transit"
)

func newApp() *cli.App {
	return &cli.App{
		Name:  "wayfinder",
		Usage: "Plan fewest-change journeys over a static GTFS feed",
		Flags: []cli.Flag{
			&cli.BoolFlag{
				Name:  "verbose",
				Usage: "Log at debug level",
			},
		},
		Commands: []*cli.Command{
			importCommand(),
			planCommand(),
			statsCommand(),
		},
	}
}

func newLogger(c *cli.Context) *slog.Logger {
	level := slog.LevelWarn
	if c.Bool("verbose") {
		level = slog.LevelDebug
	}
	return logging.NewLogger(c.App.ErrWriter, "text", level)
}

func importCommand() *cli.Command {
	return &cli.Command{
		Name:  "import",
		Usage: "Parse a GTFS feed and store its transit graph in a SQLite file",
		Flags: []cli.Flag{
			&cli.StringFlag{Name: "gtfs", Usage: "Path or URL of a static GTFS zip", Required: true},
			&cli.StringFlag{Name: "db", Usage: "SQLite file to write", Required: true},
		},
		Action: func(c *cli.Context) error {
			logger := newLogger(c)
			graph, err := graphFromFeed(c.Context, c.String("gtfs"), logger)
			if err != nil {
				return err
			}

			client, err := gtfsdb.NewClient(gtfsdb.NewConfig(c.String("db"), appconf.Development, c.Bool("verbose")))
			if err != nil {
				return err
			}
			defer logging.SafeCloseWithLogging(client, logger, "gtfsdb_client")

			if err := client.WithLogger(logger).StoreGraph(c.Context, graph); err != nil {
				return err
			}
			_, err = fmt.Fprintf(c.App.Writer, "imported %d stops, %d links, %d lines into %s\n",
				graph.StopCount(), graph.LinkCount(), graph.LineCount(), c.String("db"))
			return err
		},
	}
}

func planCommand() *cli.Command {
	return &cli.Command{
		Name:      "plan",
		Usage:     "Plan a route and print it as JSON",
		Flags: append(sourceFlags(),
			&cli.StringFlag{Name: "from", Usage: "Origin as lat,lon", Required: true},
			&cli.StringFlag{Name: "to", Usage: "Destination as lat,lon", Required: true},
			&cli.Float64Flag{Name: "max-walk", Usage: "Walking radius in meters", Value: transit.DefaultMaxWalkMeters},
		),
		Action: func(c *cli.Context) error {
			origin, err := parseCoordinate(c.String("from"))
			if err != nil {
				return fmt.Errorf("--from: %w", err)
			}
			destination, err := parseCoordinate(c.String("to"))
			if err != nil {
				return fmt.Errorf("--to: %w", err)
			}

			logger := newLogger(c)
			manager, err := managerFromSource(c, logger)
			if err != nil {
				return err
			}
			defer manager.Shutdown()

			plan, err := manager.PlanRoute(c.Context, origin, destination, c.Float64("max-walk"))
			if err != nil {
				return err
			}

			encoder := json.NewEncoder(c.App.Writer)
			encoder.SetIndent("", "  ")
			return encoder.Encode(models.NewPlanEntry(plan))
		},
	}
}

func statsCommand() *cli.Command {
	return &cli.Command{
		Name:  "stats",
		Usage: "Print the size and bounds of a transit graph",
		Flags: sourceFlags(),
		Action: func(c *cli.Context) error {
			manager, err := managerFromSource(c, newLogger(c))
			if err != nil {
				return err
			}
			defer manager.Shutdown()

			encoder := json.NewEncoder(c.App.Writer)
			encoder.SetIndent("", "  ")
			return encoder.Encode(manager.Statistics())
		},
	}
}

func sourceFlags() []cli.Flag {
	return []cli.Flag{
		&cli.StringFlag{Name: "gtfs", Usage: "Path or URL of a static GTFS zip"},
		&cli.StringFlag{Name: "db", Usage: "SQLite file written by import"},
	}
}

var errNoSource = errors.New("exactly one of --gtfs or --db is required")

// managerFromSource builds a manager over the graph named by --gtfs or --db.
func managerFromSource(c *cli.Context, logger *slog.Logger) (*gtfs.Manager, error) {
	feed, db := c.String("gtfs"), c.String("db")
	if (feed == "") == (db == "") {
		return nil, errNoSource
	}

	source := feed
	load := graphFromFeed
	if db != "" {
		source, load = db, graphFromDB
	}
	graph, err := load(c.Context, source, logger)
	if err != nil {
		return nil, err
	}
	return gtfs.FromGraph(graph, gtfs.Config{GtfsURL: source}, logger), nil
}

func graphFromFeed(ctx context.Context, source string, logger *slog.Logger) (*transit.Graph, error) {
	staticData, err := gtfs.LoadStatic(ctx, source, logger)
	if err != nil {
		return nil, err
	}
	return gtfs.BuildGraph(staticData)
}

func graphFromDB(ctx context.Context, path string, logger *slog.Logger) (*transit.Graph, error) {
	client, err := gtfsdb.NewClient(gtfsdb.NewConfig(path, appconf.Development, false))
	if err != nil {
		return nil, err
	}
	defer logging.SafeCloseWithLogging(client, logger, "gtfsdb_client")
	return client.WithLogger(logger).LoadGraph(ctx)
}

// parseCoordinate parses "lat,lon".
func parseCoordinate(s string) (transit.Coordinate, error) {
	latText, lonText, ok := strings.Cut(s, ",")
	if !ok {
		return transit.Coordinate{}, fmt.Errorf("expected lat,lon, got %q", s)
	}
	lat, err := strconv.ParseFloat(strings.TrimSpace(latText), 64)
	if err != nil {
		return transit.Coordinate{}, fmt.Errorf("invalid latitude %q: %w", latText, err)
	}
	lon, err := strconv.ParseFloat(strings.TrimSpace(lonText), 64)
	if err != nil {
		return transit.Coordinate{}, fmt.Errorf("invalid longitude %q: %w", lonText, err)
	}

	c := transit.Coordinate{Lat: lat, Lng: lon}
	return c, c.Validate()
}
