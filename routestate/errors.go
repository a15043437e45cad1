package routestate

import (
	"errors"
	"fmt"
)

// Sentinel errors for Route State mutation requests.
var (
	// ErrRangeOutOfBounds indicates a [start,end) range falls outside [0,len].
	ErrRangeOutOfBounds = errors.New("routestate: range out of bounds")

	// ErrInvalidRange indicates start > end.
	ErrInvalidRange = errors.New("routestate: start exceeds end")

	// ErrDuplicateActivity indicates an ActivityID already present elsewhere in the route.
	ErrDuplicateActivity = errors.New("routestate: activity already present in route")

	// ErrActivityNotFound indicates a referenced ActivityID is not present in the route.
	ErrActivityNotFound = errors.New("routestate: activity not found in route")
)

// InvariantError is panicked — never returned — when a commit would
// leave a hard-constraint violation in place while the caller demanded
// insert_on_failure=false. It is a contract violation, not a user error
// (spec §7): the panic carries enough context to diagnose the offending
// operator without replaying the whole search.
type InvariantError struct {
	Operator      string
	RouteIdx      int
	Activities    []string
	ArrivalTime   float64
	WindowProblem string
}

func (e *InvariantError) Error() string {
	return fmt.Sprintf("routestate: invariant violated by %q on route %d: %s (arrival=%.6f, activities=%v)",
		e.Operator, e.RouteIdx, e.WindowProblem, e.ArrivalTime, e.Activities)
}
