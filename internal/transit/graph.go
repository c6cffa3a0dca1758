package transit

import (
	"fmt"
	"slices"
	"sort"
)

// StopID identifies a stop. It is opaque to the planner.
type StopID string

// hop is an unordered pair of stops, normalised so that A <= B.
type hop struct {
	A StopID
	B StopID
}

func newHop(a, b StopID) hop {
	if a <= b {
		return hop{A: a, B: b}
	}
	return hop{A: b, B: a}
}

// Graph is an immutable undirected multigraph of stops. Parallel links between the
// same two stops carry different lines.
type Graph struct {
	coords    map[StopID]Coordinate
	neighbors map[StopID][]StopID // sorted, unique
	lines     map[hop][]string    // sorted, unique
	lineSet   map[string]struct{}
}

// Coordinate returns the coordinate of a stop.
func (g *Graph) Coordinate(id StopID) (Coordinate, bool) {
	c, ok := g.coords[id]
	return c, ok
}

// HasStop reports whether id is a node of the graph.
func (g *Graph) HasStop(id StopID) bool {
	_, ok := g.coords[id]
	return ok
}

// Neighbors returns the stops directly connected to id in ascending order.
// The returned slice must not be modified.
func (g *Graph) Neighbors(id StopID) []StopID {
	return g.neighbors[id]
}

// LinesBetween returns every line serving the hop between a and b, sorted.
func (g *Graph) LinesBetween(a, b StopID) []string {
	return slices.Clone(g.lines[newHop(a, b)])
}

// Stops returns all stop ids in ascending order.
func (g *Graph) Stops() []StopID {
	ids := make([]StopID, 0, len(g.coords))
	for id := range g.coords {
		ids = append(ids, id)
	}
	slices.Sort(ids)
	return ids
}

// StopCount returns the number of stops.
func (g *Graph) StopCount() int {
	return len(g.coords)
}

// LinkCount returns the number of (hop, line) links.
func (g *Graph) LinkCount() int {
	n := 0
	for _, l := range g.lines {
		n += len(l)
	}
	return n
}

// LineCount returns the number of distinct lines.
func (g *Graph) LineCount() int {
	return len(g.lineSet)
}

// Link is one line serving one hop.
type Link struct {
	From StopID
	To   StopID
	Line string
}

// Links returns every link in a stable order, From <= To.
func (g *Graph) Links() []Link {
	hops := make([]hop, 0, len(g.lines))
	for h := range g.lines {
		hops = append(hops, h)
	}
	sort.Slice(hops, func(i, j int) bool {
		if hops[i].A != hops[j].A {
			return hops[i].A < hops[j].A
		}
		return hops[i].B < hops[j].B
	})

	links := make([]Link, 0, len(hops))
	for _, h := range hops {
		for _, line := range g.lines[h] {
			links = append(links, Link{From: h.A, To: h.B, Line: line})
		}
	}
	return links
}

// GraphBuilder accumulates stops and links. It is not safe for concurrent use.
type GraphBuilder struct {
	coords map[StopID]Coordinate
	lines  map[hop]map[string]struct{}
}

func NewGraphBuilder() *GraphBuilder {
	return &GraphBuilder{
		coords: make(map[StopID]Coordinate),
		lines:  make(map[hop]map[string]struct{}),
	}
}

// AddStop registers a stop. Re-adding a stop overwrites its coordinate.
func (b *GraphBuilder) AddStop(id StopID, c Coordinate) {
	b.coords[id] = c
}

// AddLink records that line serves the hop between from and to. Duplicate links
// collapse; self loops are ignored.
func (b *GraphBuilder) AddLink(from, to StopID, line string) {
	if from == to {
		return
	}
	h := newHop(from, to)
	set, ok := b.lines[h]
	if !ok {
		set = make(map[string]struct{})
		b.lines[h] = set
	}
	set[line] = struct{}{}
}

// Build freezes the builder into a Graph. Every link endpoint must have been added
// as a stop.
func (b *GraphBuilder) Build() (*Graph, error) {
	g := &Graph{
		coords:    make(map[StopID]Coordinate, len(b.coords)),
		neighbors: make(map[StopID][]StopID),
		lines:     make(map[hop][]string, len(b.lines)),
		lineSet:   make(map[string]struct{}),
	}
	for id, c := range b.coords {
		g.coords[id] = c
	}

	for h, set := range b.lines {
		for _, id := range []StopID{h.A, h.B} {
			if _, ok := g.coords[id]; !ok {
				return nil, &InconsistencyError{From: id, Reason: fmt.Sprintf("linked to %q but has no coordinate", otherEnd(h, id))}
			}
		}
		lines := make([]string, 0, len(set))
		for line := range set {
			lines = append(lines, line)
			g.lineSet[line] = struct{}{}
		}
		slices.Sort(lines)
		g.lines[h] = lines
		g.neighbors[h.A] = append(g.neighbors[h.A], h.B)
		g.neighbors[h.B] = append(g.neighbors[h.B], h.A)
	}

	for id := range g.neighbors {
		slices.Sort(g.neighbors[id])
	}

	return g, nil
}

func otherEnd(h hop, id StopID) StopID {
	if h.A == id {
		return h.B
	}
	return h.A
}
