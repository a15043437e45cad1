package ruin

import (
	"math/rand"

	"github.com/lvlath-vrp/alns/problem"
	"github.com/lvlath-vrp/alns/routestate"
)

// workingSolution is the minimal surface every ruin operator needs, kept
// local so this package does not depend on worksolution for one shared
// method set.
type workingSolution interface {
	RouteCount() int
	Route(problem.RouteIdx) *routestate.State
	MarkUnassigned(problem.JobIdx)
	RouteOf(problem.JobIdx) (problem.RouteIdx, bool)
}

// Params holds the operator-specific knobs a Context carries; only the
// fields relevant to the operator being invoked are read.
type Params struct {
	// Noise jitters Worst's per-job contribution ranking by
	// contribution*(1±Noise); 0 disables jitter.
	Noise float64

	// ProximityK bounds how many nearest-still-present jobs Proximity
	// considers at each hop.
	ProximityK int

	// RouteMin/RouteMax bound how many routes String samples.
	RouteMin, RouteMax int

	// LengthMin/LengthMax bound the contiguous chunk length String removes per route.
	LengthMin, LengthMax int
}

// Context is the shared input every ruin operator consumes.
type Context struct {
	Problem         problem.Query
	RNG             *rand.Rand
	NumJobsToRemove int
	Params          Params
}

// Operator is the common contract every ruin strategy implements.
type Operator interface {
	Apply(ws workingSolution, ctx Context) error
}
