package transit

import (
	"errors"
	"fmt"
)

var (
	// ErrNoReachableStop means no indexed stop is within walking distance of a query point.
	ErrNoReachableStop = errors.New("no stop within walking distance")
	// ErrNoPathExists means two stops are not connected in the graph.
	ErrNoPathExists = errors.New("no path exists between stops")
	// ErrInvalidCoordinate is wrapped by every InvalidCoordinateError.
	ErrInvalidCoordinate = errors.New("invalid coordinate")
)

// InvalidCoordinateError reports a query coordinate rejected at the planner boundary.
type InvalidCoordinateError struct {
	Coordinate Coordinate
	Field      string
}

func (e *InvalidCoordinateError) Error() string {
	return fmt.Sprintf("invalid coordinate %v: %s out of range", e.Coordinate, e.Field)
}

func (e *InvalidCoordinateError) Unwrap() error {
	return ErrInvalidCoordinate
}

// InconsistencyError signals that the graph contradicts itself, for example a path hop
// with no line serving it. It is not recoverable within a request.
type InconsistencyError struct {
	From   StopID
	To     StopID
	Reason string
}

func (e *InconsistencyError) Error() string {
	if e.From == "" {
		return "inconsistent transit graph: " + e.Reason
	}
	if e.To == "" {
		return fmt.Sprintf("inconsistent transit graph at stop %q: %s", e.From, e.Reason)
	}
	return fmt.Sprintf("inconsistent transit graph between %q and %q: %s", e.From, e.To, e.Reason)
}
