package models

import (
	"slices"

	"wayfinder.onebusaway.org/internal/transit"
)

type Stop struct {
	ID    string   `json:"id"`
	Lat   float64  `json:"lat"`
	Lon   float64  `json:"lon"`
	Lines []string `json:"lines"`
}

// NewStop describes a graph stop together with every line serving it.
func NewStop(graph *transit.Graph, id transit.StopID) (Stop, bool) {
	c, ok := graph.Coordinate(id)
	if !ok {
		return Stop{}, false
	}

	lines := []string{}
	for _, neighbor := range graph.Neighbors(id) {
		lines = append(lines, graph.LinesBetween(id, neighbor)...)
	}
	slices.Sort(lines)

	return Stop{
		ID:    string(id),
		Lat:   c.Lat,
		Lon:   c.Lng,
		Lines: slices.Compact(lines),
	}, true
}

// NearbyStop is a stop within walking distance of a query point.
type NearbyStop struct {
	Stop
	Distance  float64 `json:"distance"`
	Direction string  `json:"direction"`
}

type StopsResponse struct {
	List       []NearbyStop `json:"list"`
	OutOfRange bool         `json:"outOfRange"`
}

// Neighbor is a stop one hop away and the lines serving that hop.
type Neighbor struct {
	ID    string   `json:"id"`
	Lines []string `json:"lines"`
}

// StopEntry is the detail view of one stop.
type StopEntry struct {
	Stop
	Neighbors []Neighbor `json:"neighbors"`
}

func NewStopEntry(graph *transit.Graph, id transit.StopID) (StopEntry, bool) {
	stop, ok := NewStop(graph, id)
	if !ok {
		return StopEntry{}, false
	}

	neighbors := graph.Neighbors(id)
	entry := StopEntry{Stop: stop, Neighbors: make([]Neighbor, 0, len(neighbors))}
	for _, neighbor := range neighbors {
		entry.Neighbors = append(entry.Neighbors, Neighbor{
			ID:    string(neighbor),
			Lines: graph.LinesBetween(id, neighbor),
		})
	}
	return entry, true
}
