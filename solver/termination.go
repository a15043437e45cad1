package solver

import (
	"time"

	"github.com/lvlath-vrp/alns/score"
)

// TerminationQuery is the running state a Termination inspects each
// iteration to decide whether the search should stop. A thread builds
// one fresh per check; fields mirror the context spec.md §4.11 step 4
// hands to the acceptor, widened with the bookkeeping a termination
// criterion additionally needs.
type TerminationQuery struct {
	Iteration                int
	MaxIterations             int
	IterationsWithoutImprove  int
	Elapsed                   time.Duration
	Best                      score.Score
	VehiclesUsed              int
}

// Termination reports whether the search driver should stop. Run stops
// as soon as ANY configured Termination fires (spec.md §4.11's
// termination conditions are an OR, not an AND, across criteria).
type Termination interface {
	ShouldStop(q TerminationQuery) bool
}

// maxIterations stops after a fixed iteration count.
type maxIterations struct{ limit int }

// MaxIterations builds a Termination that fires once q.Iteration
// reaches n.
func MaxIterations(n int) Termination { return &maxIterations{limit: n} }

func (m *maxIterations) ShouldStop(q TerminationQuery) bool { return q.Iteration >= m.limit }

// maxDuration stops once the search has run for at least limit.
type maxDuration struct{ limit time.Duration }

// MaxDuration builds a wall-clock Termination.
func MaxDuration(d time.Duration) Termination { return &maxDuration{limit: d} }

func (m *maxDuration) ShouldStop(q TerminationQuery) bool { return q.Elapsed >= m.limit }

// noImprovement stops once limit consecutive iterations have failed to
// beat the pool's best score.
type noImprovement struct{ limit int }

// NoImprovementFor builds a Termination that fires after n consecutive
// non-improving iterations.
func NoImprovementFor(n int) Termination { return &noImprovement{limit: n} }

func (n *noImprovement) ShouldStop(q TerminationQuery) bool {
	return q.IterationsWithoutImprove >= n.limit
}

// scoreThreshold stops once the best known score's hard component is
// zero (feasible) and its soft component has fallen to or below limit.
type scoreThreshold struct{ limit float64 }

// ScoreThreshold builds a Termination that fires once a feasible
// solution's soft score reaches limit or better.
func ScoreThreshold(limit float64) Termination { return &scoreThreshold{limit: limit} }

func (s *scoreThreshold) ShouldStop(q TerminationQuery) bool {
	return q.Best.Hard == 0 && q.Best.Soft <= s.limit
}

// fleetAndCost stops once the best known solution uses at most
// maxVehicles routes AND its transport cost (soft score) is at most
// maxCost, matching spec.md §4.11's combined "vehicles <= V AND
// transport_cost <= C" condition.
type fleetAndCost struct {
	maxVehicles int
	maxCost     float64
}

// FleetAndCost builds the combined vehicle-count-and-cost Termination.
func FleetAndCost(maxVehicles int, maxCost float64) Termination {
	return &fleetAndCost{maxVehicles: maxVehicles, maxCost: maxCost}
}

func (f *fleetAndCost) ShouldStop(q TerminationQuery) bool {
	return q.VehiclesUsed <= f.maxVehicles && q.Best.Soft <= f.maxCost
}

// anyFires reports whether any Termination in terms fires for q,
// implementing spec.md §4.11's OR-of-criteria stop rule.
func anyFires(terms []Termination, q TerminationQuery) bool {
	for _, t := range terms {
		if t.ShouldStop(q) {
			return true
		}
	}

	return false
}
