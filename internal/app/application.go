package app

import (
	"log/slog"

	"wayfinder.onebusaway.org/internal/appconf"
	"wayfinder.onebusaway.org/internal/gtfs"
)

// Application holds the dependencies shared by HTTP handlers and middleware.
type Application struct {
	Config      appconf.Config
	GtfsConfig  gtfs.Config
	Logger      *slog.Logger
	GtfsManager *gtfs.Manager
}
