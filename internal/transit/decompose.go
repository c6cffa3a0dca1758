package transit

import "iter"

// StopPoint is a stop with its coordinate as presented to riders.
type StopPoint struct {
	ID  StopID  `json:"id"`
	Lat float64 `json:"lat"`
	Lng float64 `json:"lng"`
}

// RideSegment is one hop of a journey with every line that serves it.
type RideSegment struct {
	Lines   []string  `json:"lines"`
	Board   StopPoint `json:"board"`
	Deboard StopPoint `json:"deboard"`
}

// Journey is one complete candidate trip. A Journey with no segments means the
// origin and destination share a stop.
type Journey []RideSegment

// Decompose yields one RideSegment per hop of path, in order. The sequence is lazy
// and can be ranged over again to restart it. Iteration stops at the first hop the
// graph cannot explain, yielding an *InconsistencyError.
func (g *Graph) Decompose(path Path) iter.Seq2[RideSegment, error] {
	return func(yield func(RideSegment, error) bool) {
		for i := 1; i < len(path); i++ {
			segment, err := g.segment(path[i-1], path[i])
			if err != nil {
				yield(RideSegment{}, err)
				return
			}
			if !yield(segment, nil) {
				return
			}
		}
	}
}

// Journey collects Decompose(path).
func (g *Graph) Journey(path Path) (Journey, error) {
	journey := make(Journey, 0, max(len(path)-1, 0))
	for segment, err := range g.Decompose(path) {
		if err != nil {
			return nil, err
		}
		journey = append(journey, segment)
	}
	return journey, nil
}

func (g *Graph) segment(from, to StopID) (RideSegment, error) {
	lines := g.LinesBetween(from, to)
	if len(lines) == 0 {
		return RideSegment{}, &InconsistencyError{From: from, To: to, Reason: "no line serves this hop"}
	}
	board, err := g.stopPoint(from)
	if err != nil {
		return RideSegment{}, err
	}
	deboard, err := g.stopPoint(to)
	if err != nil {
		return RideSegment{}, err
	}
	return RideSegment{Lines: lines, Board: board, Deboard: deboard}, nil
}

func (g *Graph) stopPoint(id StopID) (StopPoint, error) {
	c, ok := g.coords[id]
	if !ok {
		return StopPoint{}, &InconsistencyError{From: id, Reason: "stop has no coordinate"}
	}
	return StopPoint{ID: id, Lat: c.Lat, Lng: c.Lng}, nil
}
