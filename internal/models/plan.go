package models

import (
	"github.com/twpayne/go-polyline"

	"wayfinder.onebusaway.org/internal/transit"
	"wayfinder.onebusaway.org/internal/utils"
)

// Segment is one ride of a journey as served by the API.
type Segment struct {
	Lines     []string          `json:"lines"`
	Board     transit.StopPoint `json:"board"`
	Deboard   transit.StopPoint `json:"deboard"`
	Direction string            `json:"direction"`
	Distance  float64           `json:"distance"`
}

// Polyline is a Google encoded polyline.
type Polyline struct {
	Length int    `json:"length"`
	Levels string `json:"levels"`
	Points string `json:"points"`
}

// PlanEntry is the plan-route response. Polylines[i] traces Journeys[i].
type PlanEntry struct {
	Journeys      [][]Segment `json:"journeys"`
	Polylines     []Polyline  `json:"polylines"`
	Reason        string      `json:"reason"`
	FewestChanges int         `json:"fewestChanges"`
}

func NewPlanEntry(plan transit.Plan) PlanEntry {
	entry := PlanEntry{
		Journeys:      make([][]Segment, 0, len(plan.Journeys)),
		Polylines:     make([]Polyline, 0, len(plan.Journeys)),
		Reason:        string(plan.Reason),
		FewestChanges: plan.FewestChanges,
	}
	for _, journey := range plan.Journeys {
		entry.Journeys = append(entry.Journeys, newSegments(journey))
		entry.Polylines = append(entry.Polylines, NewJourneyPolyline(journey))
	}
	return entry
}

func newSegments(journey transit.Journey) []Segment {
	segments := make([]Segment, 0, len(journey))
	for _, ride := range journey {
		from := transit.Coordinate{Lat: ride.Board.Lat, Lng: ride.Board.Lng}
		to := transit.Coordinate{Lat: ride.Deboard.Lat, Lng: ride.Deboard.Lng}
		segments = append(segments, Segment{
			Lines:     ride.Lines,
			Board:     ride.Board,
			Deboard:   ride.Deboard,
			Direction: utils.CompassDirection(from, to),
			Distance:  transit.Distance(from, to),
		})
	}
	return segments
}

// NewJourneyPolyline encodes the board point of every ride followed by the final
// deboard point.
func NewJourneyPolyline(journey transit.Journey) Polyline {
	if len(journey) == 0 {
		return Polyline{}
	}

	coords := make([][]float64, 0, len(journey)+1)
	for _, ride := range journey {
		coords = append(coords, []float64{ride.Board.Lat, ride.Board.Lng})
	}
	last := journey[len(journey)-1].Deboard
	coords = append(coords, []float64{last.Lat, last.Lng})

	return Polyline{
		Length: len(coords),
		Points: string(polyline.EncodeCoords(coords)),
	}
}

// NewPlanReferences lists every stop and line a plan mentions.
func NewPlanReferences(graph *transit.Graph, plan transit.Plan) ReferencesModel {
	references := NewEmptyReferences()
	seenStops := make(map[transit.StopID]bool)
	seenLines := make(map[string]bool)

	addStop := func(id transit.StopID) {
		if seenStops[id] {
			return
		}
		seenStops[id] = true
		if stop, ok := NewStop(graph, id); ok {
			references.Stops = append(references.Stops, stop)
		}
	}

	for _, journey := range plan.Journeys {
		for _, ride := range journey {
			addStop(ride.Board.ID)
			addStop(ride.Deboard.ID)
			for _, line := range ride.Lines {
				if !seenLines[line] {
					seenLines[line] = true
					references.Lines = append(references.Lines, line)
				}
			}
		}
	}
	return references
}
