package gtfs

import (
	"strings"
	"time"

	"wayfinder.onebusaway.org/internal/appconf"
)

// DefaultReloadInterval is how often a remote static feed is fetched again.
const DefaultReloadInterval = 24 * time.Hour

type Config struct {
	GtfsURL        string // local path or http(s) URL of a static GTFS zip
	GTFSDataPath   string // sqlite file receiving each built snapshot; empty disables
	Env            appconf.Environment
	Verbose        bool
	ReloadInterval time.Duration
	CandidateCount int
	Workers        int
	CacheSize      int // plan cache entries; 0 disables the cache
	CacheTTL       time.Duration
}

func (config Config) isLocalFile() bool {
	return !strings.HasPrefix(config.GtfsURL, "http://") && !strings.HasPrefix(config.GtfsURL, "https://")
}

func (config Config) reloadInterval() time.Duration {
	if config.ReloadInterval <= 0 {
		return DefaultReloadInterval
	}
	return config.ReloadInterval
}
