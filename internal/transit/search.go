package transit

import (
	"context"
	"fmt"
	"slices"
)

// Path is an ordered sequence of stops where consecutive stops share at least one
// link. An empty Path marks a destination not reachable within a change budget.
type Path []StopID

// Changes returns the number of intermediate stops on the path.
func (p Path) Changes() int {
	if len(p) < 2 {
		return 0
	}
	return len(p) - 2
}

// cancelCheckInterval is how many dequeued nodes pass between context checks.
const cancelCheckInterval = 1024

// ShortestStopPath returns a path with the fewest hops from origin to destination.
// Every link costs one hop whatever its line.
//
// Neighbours are expanded in ascending StopID order and a node's parent is fixed the
// first time it is reached, so among equal-length shortest paths the result is the
// one found first under that ordering. This is stable for a given graph.
//
// With maxChanges set, a path exceeding the budget, or no path at all, gives an empty
// Path and a nil error. Without it, disconnected stops give ErrNoPathExists.
func (g *Graph) ShortestStopPath(ctx context.Context, origin, destination StopID, maxChanges *int) (Path, error) {
	if !g.HasStop(origin) {
		return nil, fmt.Errorf("origin %q: %w", origin, ErrNoPathExists)
	}
	if !g.HasStop(destination) {
		return nil, fmt.Errorf("destination %q: %w", destination, ErrNoPathExists)
	}
	if origin == destination {
		return Path{origin}, nil
	}

	parent := map[StopID]StopID{origin: origin}
	queue := []StopID{origin}
	found := false

	for visited := 0; len(queue) > 0 && !found; visited++ {
		if visited%cancelCheckInterval == 0 {
			if err := ctx.Err(); err != nil {
				return nil, err
			}
		}

		current := queue[0]
		queue = queue[1:]

		for _, next := range g.neighbors[current] {
			if _, seen := parent[next]; seen {
				continue
			}
			parent[next] = current
			if next == destination {
				found = true
				break
			}
			queue = append(queue, next)
		}
	}

	if !found {
		if maxChanges != nil {
			return Path{}, nil
		}
		return nil, fmt.Errorf("%q to %q: %w", origin, destination, ErrNoPathExists)
	}

	path := reconstructPath(parent, destination)
	if maxChanges != nil && path.Changes() > *maxChanges {
		return Path{}, nil
	}
	return path, nil
}

func reconstructPath(parent map[StopID]StopID, current StopID) Path {
	var path Path
	for {
		path = append(path, current)
		prev := parent[current]
		if prev == current {
			break
		}
		current = prev
	}
	slices.Reverse(path)
	return path
}
