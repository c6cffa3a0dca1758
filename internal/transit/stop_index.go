package transit

import (
	"github.com/tidwall/rtree"
)

// StopIndex answers nearest-stop queries over the coordinates of a Graph.
type StopIndex struct {
	tree  rtree.RTreeG[Coordinate]
	stops map[Coordinate]StopID
}

// NewStopIndex indexes every stop of graph. Stops sharing a coordinate are indexed
// once, under the smallest StopID that has a link, or the smallest StopID when none
// of them has.
func NewStopIndex(graph *Graph) *StopIndex {
	idx := &StopIndex{stops: make(map[Coordinate]StopID, graph.StopCount())}

	// Stops() is sorted, so the first id seen for a coordinate is the smallest.
	for _, id := range graph.Stops() {
		c, _ := graph.Coordinate(id)
		if existing, dup := idx.stops[c]; dup {
			if len(graph.Neighbors(existing)) == 0 && len(graph.Neighbors(id)) > 0 {
				idx.stops[c] = id
			}
			continue
		}
		idx.stops[c] = id
		point := [2]float64{c.Lat, c.Lng}
		idx.tree.Insert(point, point, c)
	}

	return idx
}

// Len returns the number of indexed coordinates.
func (idx *StopIndex) Len() int {
	return len(idx.stops)
}

// Nearest returns up to k indexed coordinates ordered by planar distance to point in
// degree space. Fewer than k are returned only when the index holds fewer.
func (idx *StopIndex) Nearest(point Coordinate, k int) []Coordinate {
	if k <= 0 {
		return nil
	}
	target := [2]float64{point.Lat, point.Lng}
	results := make([]Coordinate, 0, min(k, len(idx.stops)))
	idx.tree.Nearby(
		rtree.BoxDist[float64, Coordinate](target, target, nil),
		func(_, _ [2]float64, c Coordinate, _ float64) bool {
			results = append(results, c)
			return len(results) < k
		},
	)
	return results
}

// StopID returns the stop indexed at exactly c.
func (idx *StopIndex) StopID(c Coordinate) (StopID, bool) {
	id, ok := idx.stops[c]
	return id, ok
}
