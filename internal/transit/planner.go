package transit

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"math"
	"runtime"
	"sort"

	"github.com/sourcegraph/conc/pool"

	"wayfinder.onebusaway.org/internal/logging"
)

const (
	// DefaultCandidateCount is how many nearest stops are considered at each end.
	DefaultCandidateCount = 10
	// DefaultMaxWalkMeters applies when PlanRoute is given a zero walking distance.
	DefaultMaxWalkMeters = 500.0
)

// ErrInvalidWalkDistance rejects negative or non-finite walking distances.
var ErrInvalidWalkDistance = errors.New("max walk distance must be a finite, non-negative number of meters")

// Reason explains an empty Plan.
type Reason string

const (
	ReasonNone            Reason = ""
	ReasonNoReachableStop Reason = "NO_REACHABLE_STOP"
	ReasonNoPathExists    Reason = "NO_PATH_EXISTS"
)

// Err maps the reason to its sentinel error, or nil.
func (r Reason) Err() error {
	switch r {
	case ReasonNoReachableStop:
		return ErrNoReachableStop
	case ReasonNoPathExists:
		return ErrNoPathExists
	default:
		return nil
	}
}

// Plan is the outcome of a planning request. Journeys is empty exactly when Reason
// is set. FewestChanges is only meaningful when Journeys is not empty.
type Plan struct {
	Journeys      []Journey
	Reason        Reason
	FewestChanges int
}

// PlannerConfig tunes a Planner. Zero values select defaults.
type PlannerConfig struct {
	CandidateCount int
	Workers        int
}

// Planner plans journeys over one immutable graph and its stop index. It holds no
// mutable state and is safe for concurrent use.
type Planner struct {
	graph          *Graph
	index          *StopIndex
	candidateCount int
	workers        int
}

func NewPlanner(graph *Graph, index *StopIndex, config PlannerConfig) *Planner {
	p := &Planner{
		graph:          graph,
		index:          index,
		candidateCount: config.CandidateCount,
		workers:        config.Workers,
	}
	if p.candidateCount <= 0 {
		p.candidateCount = DefaultCandidateCount
	}
	if p.workers <= 0 {
		p.workers = runtime.GOMAXPROCS(0)
	}
	return p
}

func (p *Planner) Graph() *Graph {
	return p.graph
}

func (p *Planner) Index() *StopIndex {
	return p.index
}

// NearestWalkable returns the k nearest indexed stop coordinates that lie within
// maxWalkMeters of point, in index order. The result may be empty.
func (p *Planner) NearestWalkable(point Coordinate, k int, maxWalkMeters float64) []Coordinate {
	candidates := p.index.Nearest(point, k)
	walkable := candidates[:0]
	for _, c := range candidates {
		if Distance(point, c) <= maxWalkMeters {
			walkable = append(walkable, c)
		}
	}
	return walkable
}

// PlanRoute validates its input and plans journeys from origin to destination.
// A zero maxWalkMeters uses DefaultMaxWalkMeters. "No route" outcomes come back as
// a Plan with a Reason; errors are reserved for bad input, an inconsistent graph or
// a cancelled context.
func (p *Planner) PlanRoute(ctx context.Context, origin, destination Coordinate, maxWalkMeters float64) (Plan, error) {
	if err := origin.Validate(); err != nil {
		return Plan{}, fmt.Errorf("origin: %w", err)
	}
	if err := destination.Validate(); err != nil {
		return Plan{}, fmt.Errorf("destination: %w", err)
	}
	if math.IsNaN(maxWalkMeters) || math.IsInf(maxWalkMeters, 0) || maxWalkMeters < 0 {
		return Plan{}, ErrInvalidWalkDistance
	}
	if maxWalkMeters == 0 {
		maxWalkMeters = DefaultMaxWalkMeters
	}
	return p.FindJourneys(ctx, origin, destination, maxWalkMeters)
}

// FindJourneys searches every pair of walkable origin and destination stops and keeps
// the journeys with the fewest hops. Journeys are ordered by origin candidate, then
// destination candidate; identical stop sequences from different pairs are kept.
func (p *Planner) FindJourneys(ctx context.Context, origin, destination Coordinate, maxWalkMeters float64) (Plan, error) {
	logger := logging.FromContext(ctx)

	originStops, err := p.walkableStopIDs(origin, maxWalkMeters)
	if err != nil {
		return Plan{}, err
	}
	destinationStops, err := p.walkableStopIDs(destination, maxWalkMeters)
	if err != nil {
		return Plan{}, err
	}

	if len(originStops) == 0 || len(destinationStops) == 0 {
		logger.Debug("no walkable stop",
			slog.Int("origin_candidates", len(originStops)),
			slog.Int("destination_candidates", len(destinationStops)))
		return Plan{Journeys: []Journey{}, Reason: ReasonNoReachableStop}, nil
	}

	paths, err := p.searchPairs(ctx, originStops, destinationStops)
	if err != nil {
		return Plan{}, err
	}

	if len(paths) == 0 {
		logger.Debug("no candidate pair connected",
			slog.Int("pairs", len(originStops)*len(destinationStops)))
		return Plan{Journeys: []Journey{}, Reason: ReasonNoPathExists}, nil
	}

	fewest := len(paths[0])
	for _, path := range paths[1:] {
		fewest = min(fewest, len(path))
	}

	journeys := make([]Journey, 0, len(paths))
	for _, path := range paths {
		if len(path) != fewest {
			continue
		}
		journey, err := p.graph.Journey(path)
		if err != nil {
			return Plan{}, err
		}
		journeys = append(journeys, journey)
	}

	changes := max(fewest-2, 0)
	logger.Debug("planned journeys",
		slog.Int("pairs", len(originStops)*len(destinationStops)),
		slog.Int("connected_pairs", len(paths)),
		slog.Int("journeys", len(journeys)),
		slog.Int("fewest_changes", changes))

	return Plan{Journeys: journeys, FewestChanges: changes}, nil
}

func (p *Planner) walkableStopIDs(point Coordinate, maxWalkMeters float64) ([]StopID, error) {
	coords := p.NearestWalkable(point, p.candidateCount, maxWalkMeters)
	ids := make([]StopID, 0, len(coords))
	for _, c := range coords {
		id, ok := p.index.StopID(c)
		if !ok {
			return nil, &InconsistencyError{Reason: fmt.Sprintf("indexed coordinate %v has no stop", c)}
		}
		ids = append(ids, id)
	}
	return ids, nil
}

type pairResult struct {
	index int
	path  Path
}

// searchPairs runs a path search for every origin/destination pair on a bounded
// pool and returns the connected paths in pair order.
func (p *Planner) searchPairs(ctx context.Context, origins, destinations []StopID) ([]Path, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	workers := pool.NewWithResults[pairResult]().
		WithContext(ctx).
		WithMaxGoroutines(p.workers)

	for i, o := range origins {
		for j, d := range destinations {
			index := i*len(destinations) + j
			workers.Go(func(ctx context.Context) (pairResult, error) {
				path, err := p.graph.ShortestStopPath(ctx, o, d, nil)
				if errors.Is(err, ErrNoPathExists) {
					return pairResult{index: index}, nil
				}
				if err != nil {
					return pairResult{}, err
				}
				return pairResult{index: index, path: path}, nil
			})
		}
	}

	results, err := workers.Wait()
	if err != nil {
		return nil, err
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	sort.Slice(results, func(i, j int) bool { return results[i].index < results[j].index })

	paths := make([]Path, 0, len(results))
	for _, r := range results {
		if len(r.path) > 0 {
			paths = append(paths, r.path)
		}
	}
	return paths, nil
}
