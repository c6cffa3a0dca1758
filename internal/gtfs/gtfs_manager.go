package gtfs

import (
	"context"
	"fmt"
	"log/slog"
	"math"
	"sync"
	"sync/atomic"
	"time"

	"wayfinder.onebusaway.org/gtfsdb"
	"wayfinder.onebusaway.org/internal/logging"
	"wayfinder.onebusaway.org/internal/transit"
)

// Snapshot is one immutable build of the transit network. Readers hold on to a
// snapshot for the duration of a request; reloads publish a new one.
type Snapshot struct {
	Graph      *transit.Graph
	Index      *transit.StopIndex
	Planner    *transit.Planner
	BuiltAt    time.Time
	Generation uint64
}

// Statistics summarises the current snapshot.
type Statistics struct {
	Source      string
	LocalFile   bool
	Stops       int
	Links       int
	Lines       int
	Generation  uint64
	LastUpdated time.Time
	Region      Region
}

// Manager owns the current transit snapshot and keeps it fresh.
type Manager struct {
	gtfsSource   string
	isLocalFile  bool
	config       Config
	logger       *slog.Logger
	snapshot     atomic.Pointer[Snapshot]
	generation   atomic.Uint64
	plans        *planCache
	GtfsDB       *gtfsdb.Client
	reloadMutex  sync.Mutex
	shutdownChan chan struct{}
	wg           sync.WaitGroup
	shutdownOnce sync.Once
}

// InitGTFSManager loads the static feed named by config.GtfsURL, builds the first
// snapshot and, for remote feeds, starts the periodic reload.
func InitGTFSManager(config Config, logger *slog.Logger) (*Manager, error) {
	manager := newManager(config, logger)

	if config.GTFSDataPath != "" {
		client, err := gtfsdb.NewClient(gtfsdb.NewConfig(config.GTFSDataPath, config.Env, config.Verbose))
		if err != nil {
			return nil, fmt.Errorf("error building GTFS database: %w", err)
		}
		manager.GtfsDB = client.WithLogger(manager.logger)
	}

	if err := manager.Reload(context.Background()); err != nil {
		manager.Shutdown()
		return nil, err
	}

	if !manager.isLocalFile {
		manager.wg.Add(1)
		go manager.updateStaticGTFS()
	}

	return manager, nil
}

// FromGraph creates a manager serving a prebuilt graph. It never reloads.
func FromGraph(graph *transit.Graph, config Config, logger *slog.Logger) *Manager {
	manager := newManager(config, logger)
	manager.isLocalFile = true
	manager.publish(graph)
	return manager
}

func newManager(config Config, logger *slog.Logger) *Manager {
	if logger == nil {
		logger = slog.Default()
	}
	return &Manager{
		gtfsSource:   config.GtfsURL,
		isLocalFile:  config.isLocalFile(),
		config:       config,
		logger:       logger.With(slog.String("component", "gtfs_manager")),
		plans:        newPlanCache(config.CacheSize, config.CacheTTL),
		shutdownChan: make(chan struct{}),
	}
}

// Reload fetches and parses the static feed and publishes a new snapshot. On error
// the current snapshot stays in place.
func (manager *Manager) Reload(ctx context.Context) error {
	manager.reloadMutex.Lock()
	defer manager.reloadMutex.Unlock()

	start := time.Now()
	staticData, err := loadGTFSData(ctx, manager.gtfsSource, manager.isLocalFile, manager.logger)
	if err != nil {
		return err
	}

	graph, err := BuildGraph(staticData)
	if err != nil {
		return fmt.Errorf("error building transit graph: %w", err)
	}

	if manager.GtfsDB != nil {
		if err := manager.GtfsDB.StoreGraph(ctx, graph); err != nil {
			return fmt.Errorf("error storing transit graph: %w", err)
		}
	}

	snapshot := manager.publish(graph)
	logging.LogOperation(manager.logger, "transit_graph_built",
		slog.String("source", manager.gtfsSource),
		slog.Uint64("generation", snapshot.Generation),
		slog.Int("stops", graph.StopCount()),
		slog.Int("links", graph.LinkCount()),
		slog.Int("trips", len(staticData.Trips)),
		slog.Duration("duration", time.Since(start)))
	return nil
}

func (manager *Manager) publish(graph *transit.Graph) *Snapshot {
	index := transit.NewStopIndex(graph)
	snapshot := &Snapshot{
		Graph: graph,
		Index: index,
		Planner: transit.NewPlanner(graph, index, transit.PlannerConfig{
			CandidateCount: manager.config.CandidateCount,
			Workers:        manager.config.Workers,
		}),
		BuiltAt:    time.Now(),
		Generation: manager.generation.Add(1),
	}
	manager.snapshot.Store(snapshot)
	manager.plans.purge()
	return snapshot
}

// updateStaticGTFS reloads a remote feed on the configured interval.
func (manager *Manager) updateStaticGTFS() {
	defer manager.wg.Done()

	ticker := time.NewTicker(manager.config.reloadInterval())
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			ctx, cancel := context.WithTimeout(context.Background(), 2*downloadTimeout)
			err := manager.Reload(ctx)
			cancel()
			if err != nil {
				logging.LogError(manager.logger, "static feed reload failed, keeping previous snapshot", err,
					slog.String("source", manager.gtfsSource))
			}
		case <-manager.shutdownChan:
			manager.logger.Info("shutting down static GTFS updates")
			return
		}
	}
}

// Shutdown stops background reloads and closes the database. It is safe to call
// more than once.
func (manager *Manager) Shutdown() {
	manager.shutdownOnce.Do(func() {
		close(manager.shutdownChan)
		manager.wg.Wait()
		if manager.GtfsDB != nil {
			logging.SafeCloseWithLogging(manager.GtfsDB, manager.logger, "close_gtfs_database")
		}
	})
}

// Snapshot returns the snapshot currently being served.
func (manager *Manager) Snapshot() *Snapshot {
	return manager.snapshot.Load()
}

// PlanRoute plans against the current snapshot, consulting the plan cache first.
func (manager *Manager) PlanRoute(ctx context.Context, origin, destination transit.Coordinate, maxWalkMeters float64) (transit.Plan, error) {
	snapshot := manager.Snapshot()
	if maxWalkMeters == 0 {
		maxWalkMeters = transit.DefaultMaxWalkMeters
	}

	key := planCacheKey(snapshot.Generation, origin, destination, maxWalkMeters)
	if plan, ok := manager.plans.get(key); ok {
		logging.FromContext(ctx).Debug("plan cache hit", slog.String("key", key))
		return plan, nil
	}

	plan, err := snapshot.Planner.PlanRoute(ctx, origin, destination, maxWalkMeters)
	if err != nil {
		return transit.Plan{}, err
	}
	manager.plans.set(key, plan)
	return plan, nil
}

// StopsForLocation returns up to k stops within walking distance of point,
// nearest first. Non-positive k uses the configured candidate count.
func (manager *Manager) StopsForLocation(ctx context.Context, point transit.Coordinate, maxWalkMeters float64, k int) ([]transit.StopPoint, error) {
	if err := point.Validate(); err != nil {
		return nil, err
	}
	if math.IsNaN(maxWalkMeters) || math.IsInf(maxWalkMeters, 0) || maxWalkMeters < 0 {
		return nil, transit.ErrInvalidWalkDistance
	}
	if maxWalkMeters == 0 {
		maxWalkMeters = transit.DefaultMaxWalkMeters
	}
	if k <= 0 {
		k = manager.config.CandidateCount
	}
	if k <= 0 {
		k = transit.DefaultCandidateCount
	}

	snapshot := manager.Snapshot()
	coords := snapshot.Planner.NearestWalkable(point, k, maxWalkMeters)

	stops := make([]transit.StopPoint, 0, len(coords))
	for _, c := range coords {
		id, ok := snapshot.Index.StopID(c)
		if !ok {
			return nil, &transit.InconsistencyError{Reason: fmt.Sprintf("indexed coordinate %s has no stop", c)}
		}
		stops = append(stops, transit.StopPoint{ID: id, Lat: c.Lat, Lng: c.Lng})
	}

	logging.FromContext(ctx).Debug("stops for location",
		slog.String("point", point.String()),
		slog.Int("stops", len(stops)))
	return stops, nil
}

// Statistics reports the size and age of the current snapshot.
func (manager *Manager) Statistics() Statistics {
	snapshot := manager.Snapshot()
	return Statistics{
		Source:      manager.gtfsSource,
		LocalFile:   manager.isLocalFile,
		Stops:       snapshot.Graph.StopCount(),
		Links:       snapshot.Graph.LinkCount(),
		Lines:       snapshot.Graph.LineCount(),
		Generation:  snapshot.Generation,
		LastUpdated: snapshot.BuiltAt,
		Region:      snapshot.RegionBounds(),
	}
}

// LogStatistics writes Statistics to the manager's logger.
func (manager *Manager) LogStatistics() {
	stats := manager.Statistics()
	manager.logger.Info("transit network statistics",
		slog.String("source", stats.Source),
		slog.Bool("local_file", stats.LocalFile),
		slog.Int("stops", stats.Stops),
		slog.Int("links", stats.Links),
		slog.Int("lines", stats.Lines),
		slog.Uint64("generation", stats.Generation),
		slog.Time("last_updated", stats.LastUpdated))
}
