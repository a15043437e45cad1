package score

import (
	"math"

	"github.com/lvlath-vrp/alns/amount"
	"github.com/lvlath-vrp/alns/problem"
	"github.com/lvlath-vrp/alns/routestate"
)

// routeConstraint evaluates one route's hard and soft contribution for
// a single named constraint.
type routeConstraint struct {
	name    string
	compute func(query problem.Query, weights Weights, route *routestate.State) (hard, soft float64)
}

// routeConstraints is the fixed table of per-route evaluators; Compute
// walks it once per route, in order, matching the trait-like-table
// design note over a deep constraint hierarchy.
var routeConstraints = []routeConstraint{
	{"TimeWindow", timeWindowConstraint},
	{"Capacity", capacityConstraint},
	{"MaximumActivities", maxActivitiesConstraint},
	{"Shift", shiftConstraint},
	{"MaximumWorkingDuration", maxWorkingDurationConstraint},
	{"TransportCost", transportCostConstraint},
	{"VehicleCost", vehicleCostConstraint},
	{"WaitingDuration", waitingDurationConstraint},
}

func timeWindowConstraint(query problem.Query, _ Weights, route *routestate.State) (hard, soft float64) {
	for i := 0; i < route.Len(); i++ {
		a := route.ActivityAt(i)
		windows := query.Job(a.Job).Windows(a)
		hard += overtime(windows, route.Arrival(i))
	}

	return hard, 0
}

// overtime returns how far arrival falls past every admissible window's
// end bound: 0 if any window admits arrival outright or is unbounded on
// the end side, otherwise the smallest excess across the window set.
func overtime(windows problem.TimeWindows, arrival float64) float64 {
	if len(windows) == 0 {
		return 0
	}
	best := math.Inf(1)
	for _, w := range windows {
		if w.End == nil {
			return 0
		}
		excess := arrival - *w.End
		if excess < 0 {
			return 0
		}
		if excess < best {
			best = excess
		}
	}

	return best
}

func capacityConstraint(query problem.Query, _ Weights, route *routestate.State) (hard, soft float64) {
	veh := query.Vehicle(route.Vehicle())
	peak := route.FwdLoadPeak(route.Len() + 1)
	excess := amount.Excess(veh.Capacity, peak)
	for _, v := range excess.Values() {
		hard += v
	}

	return hard, 0
}

func maxActivitiesConstraint(query problem.Query, _ Weights, route *routestate.State) (hard, soft float64) {
	veh := query.Vehicle(route.Vehicle())
	if veh.MaxActivities > 0 && route.Len() > veh.MaxActivities {
		hard = float64(route.Len() - veh.MaxActivities)
	}

	return hard, 0
}

func shiftConstraint(query problem.Query, _ Weights, route *routestate.State) (hard, soft float64) {
	veh := query.Vehicle(route.Vehicle())
	if veh.ShiftEnd != nil && route.Len() > 0 {
		if over := route.EndTime() - *veh.ShiftEnd; over > 0 {
			hard = over
		}
	}

	return hard, 0
}

func maxWorkingDurationConstraint(query problem.Query, _ Weights, route *routestate.State) (hard, soft float64) {
	veh := query.Vehicle(route.Vehicle())
	if veh.MaxWorkingDuration != nil && route.Len() > 0 {
		if over := route.EndTime() - veh.EarliestStart - *veh.MaxWorkingDuration; over > 0 {
			hard = over
		}
	}

	return hard, 0
}

func transportCostConstraint(_ problem.Query, weights Weights, route *routestate.State) (hard, soft float64) {
	return 0, route.TransportCost() * weights.TransportCost
}

func vehicleCostConstraint(query problem.Query, weights Weights, route *routestate.State) (hard, soft float64) {
	if route.Len() == 0 {
		return 0, 0
	}
	veh := query.Vehicle(route.Vehicle())

	return 0, veh.FixedCost * weights.VehicleCost
}

func waitingDurationConstraint(query problem.Query, weights Weights, route *routestate.State) (hard, soft float64) {
	return 0, route.TotalWaiting() * query.WaitingDurationWeight() * weights.WaitingDuration
}

// unassignedSoft is the global (not per-route) contribution of leaving
// jobs unassigned: each costs fixed_vehicle_costs+1, exposed as
// query.UnassignedJobCost(), so assigning always beats leaving a job
// out.
func unassignedSoft(query problem.Query, unassignedCount int) float64 {
	return float64(unassignedCount) * query.UnassignedJobCost()
}
