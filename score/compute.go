package score

import (
	"github.com/lvlath-vrp/alns/problem"
	"github.com/lvlath-vrp/alns/routestate"
)

// Compute evaluates every constraint in routeConstraints over every
// route, plus the global Unassigned contribution, and aggregates into a
// Score and an Analysis explaining it. This is the full, non-incremental
// path: §8's testable properties are checked against it directly.
func Compute(query problem.Query, routes []*routestate.State, unassignedCount int, weights Weights) (Score, Analysis) {
	var total Score
	analysis := NewAnalysis()

	for _, route := range routes {
		for _, c := range routeConstraints {
			hard, soft := c.compute(query, weights, route)
			if hard != 0 {
				total.Hard += hard
				analysis.addHard(c.name, hard)
			}
			if soft != 0 {
				total.Soft += soft
				analysis.addSoft(c.name, soft)
			}
		}
	}

	if u := unassignedSoft(query, unassignedCount); u != 0 {
		total.Soft += u
		analysis.addSoft("Unassigned", u)
	}

	return total, analysis
}

// RouteHard sums a single route's hard-constraint contribution across
// routeConstraints, weights-independent since every hard compute func
// ignores its Weights argument.
func RouteHard(query problem.Query, route *routestate.State) float64 {
	var hard float64
	for _, c := range routeConstraints {
		h, _ := c.compute(query, Weights{}, route)
		hard += h
	}

	return hard
}

// FixedCostDelta returns the soft-score change contributed by a route
// transitioning between empty and non-empty: +FixedCost when a
// previously-empty route gains its first activity, -FixedCost when a
// route's last activity is removed, 0 otherwise.
func FixedCostDelta(query problem.Query, vehicle problem.VehicleIdx, wasEmpty, isEmpty bool, weights Weights) float64 {
	if wasEmpty == isEmpty {
		return 0
	}
	fc := query.Vehicle(vehicle).FixedCost * weights.VehicleCost
	if wasEmpty && !isEmpty {
		return fc
	}

	return -fc
}

// InsertionSoftDelta combines the three components the Insertion
// Evaluator prices for a candidate placement: the transport-cost edge
// diff, the waiting-time diff (made commensurable via
// WaitingDurationWeight), and the fixed-cost diff if the insertion
// opens or closes a route.
func InsertionSoftDelta(query problem.Query, weights Weights, transportDelta, waitingDelta float64, vehicle problem.VehicleIdx, wasEmpty, isEmpty bool) float64 {
	d := transportDelta*weights.TransportCost + waitingDelta*query.WaitingDurationWeight()*weights.WaitingDuration
	d += FixedCostDelta(query, vehicle, wasEmpty, isEmpty, weights)

	return d
}
