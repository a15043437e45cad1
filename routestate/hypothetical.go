package routestate

import (
	"github.com/lvlath-vrp/alns/amount"
	"github.com/lvlath-vrp/alns/problem"
)

// IsValidChange reports whether replacing [start,end) with iter would
// commit cleanly: every activity's time window is respected and no
// capacity dimension is exceeded anywhere in the resulting route. It
// never mutates the receiver.
//
// The check splits into the two independent parts from the design: a
// time-window replay that restarts at start-1 (or the vehicle's
// earliest start if start==0) and applies a dominance early-exit once a
// recomputed downstream departure stops exceeding what is already
// stored, and a capacity check over the resulting candidate sequence.
func (s *State) IsValidChange(iter []problem.ActivityID, start, end int) bool {
	if err := s.validateRange(start, end); err != nil {
		return false
	}
	if err := s.checkNoDuplicates(iter, start, end); err != nil {
		return false
	}

	candidate := make([]problem.ActivityID, 0, len(s.activityIDs)-(end-start)+len(iter))
	candidate = append(candidate, s.activityIDs[:start]...)
	candidate = append(candidate, iter...)
	candidate = append(candidate, s.activityIDs[end:]...)

	if !s.timeWindowsFeasible(candidate, start, end) {
		return false
	}

	return s.capacityFeasible(candidate)
}

// timeWindowsFeasible replays arrival/departure across candidate,
// reusing the stored chain for the untouched prefix and exiting early
// once dominance holds downstream of the edit: once a recomputed
// departure no longer exceeds the previously stored departure at that
// position, every later activity's feasibility is already guaranteed by
// its own stored time slack, so replay stops there.
func (s *State) timeWindowsFeasible(candidate []problem.ActivityID, editStart, editEnd int) bool {
	veh := s.query.Vehicle(s.vehicle)

	prevDeparture := veh.EarliestStart + veh.DepotDwellStart
	prevLoc := veh.Depot
	if editStart > 0 {
		prevDeparture = s.departure[editStart-1]
		prevLoc = s.loc(s.activityIDs[editStart-1])
	}

	// Only positions past the edited segment map back to a stored
	// (pre-edit) activity (see storedIndexFor); those are the ones
	// compared against the stored chain for dominance.
	for i := editStart; i < len(candidate); i++ {
		a := candidate[i]
		loc := s.loc(a)
		arrival := prevDeparture + s.query.TravelTime(s.vehicle, prevLoc, loc)
		windows := s.query.Job(a.Job).Windows(a)

		start, ok := windows.BestStart(arrival)
		if !ok {
			return false
		}
		dep := start + s.query.Job(a.Job).Duration(a)

		// Dominance: if this position still refers to an original
		// stored activity and the new departure does not exceed the
		// stored one, every downstream activity's feasibility is
		// already summarized by its own time slack — stop replaying.
		storedIdx := storedIndexFor(i, editEnd, len(candidate), len(s.activityIDs))
		if storedIdx >= 0 && storedIdx < len(s.activityIDs) && s.activityIDs[storedIdx] == a {
			if dep <= s.departure[storedIdx] {
				return true
			}
			if arrival > s.arrival[storedIdx]+s.timeSlacks[storedIdx] {
				return false
			}
		}

		prevDeparture = dep
		prevLoc = loc
	}

	return true
}

// storedIndexFor maps a position in the candidate sequence back to the
// original activityIDs index, valid only once the candidate's tail
// (after the edited segment) realigns with the original route's tail.
// shift is the net change in length introduced by the edit; editEnd is
// the end of the replaced range in the original indexing, so a position
// that maps before it lies inside (or before) the edit and yields -1.
func storedIndexFor(candidatePos, editEnd, candidateLen, origLen int) int {
	shift := candidateLen - origLen
	origPos := candidatePos - shift

	if origPos < editEnd {
		return -1
	}

	return origPos
}

// capacityFeasible checks that no capacity dimension is exceeded
// anywhere in candidate, for any vehicle dimension, under the
// backhaul-plus-shipment load model (recompute.go).
func (s *State) capacityFeasible(candidate []problem.ActivityID) bool {
	veh := s.query.Vehicle(s.vehicle)
	cap := veh.Capacity

	var cumDelivery amount.Amount
	for _, a := range candidate {
		cumDelivery = amount.Sum(cumDelivery, s.deliveryAmount(a))
	}
	totalDeliveries := cumDelivery
	if !amount.IsCapacitySatisfied(cap, totalDeliveries) {
		return false
	}

	var runningPickup, runningDelivery, runningShipment amount.Amount
	for _, a := range candidate {
		runningPickup = amount.Sum(runningPickup, s.pickupAmount(a))
		runningDelivery = amount.Sum(runningDelivery, s.deliveryAmount(a))
		if d, isDelivery := s.shipmentDelta(a); d.Len() > 0 || isDelivery {
			if isDelivery {
				runningShipment = amount.Diff(runningShipment, d)
			} else {
				runningShipment = amount.Sum(runningShipment, d)
			}
		}
		load := totalDeliveries.Clone()
		load.Sub(runningDelivery)
		load.Add(runningPickup)
		load.Add(runningShipment)
		if !amount.IsCapacitySatisfied(cap, load) {
			return false
		}
	}

	return true
}

// TransportCostDelta returns the exact change in transport cost that
// replacing [start,end) with iter would cause, computed purely from
// the edited edges (no full-route replay): the cost of the edges
// removed versus the cost of the edges the candidate segment
// introduces, including the boundary edges on either side of the cut.
func (s *State) TransportCostDelta(iter []problem.ActivityID, start, end int) float64 {
	veh := s.query.Vehicle(s.vehicle)
	n := len(s.activityIDs)

	before := veh.Depot
	if start > 0 {
		before = s.loc(s.activityIDs[start-1])
	}
	// skipClosingEdge is true only when the edit touches the route's
	// tail and the vehicle never closes back at the depot: then there
	// is no "after" edge to charge at all.
	skipClosingEdge := end >= n && !veh.ShouldReturnToDepot
	after := veh.Depot
	if end < n {
		after = s.loc(s.activityIDs[end])
	}

	oldCost := s.segmentCost(before, s.activityIDs[start:end], after, skipClosingEdge)
	newCost := s.segmentCost(before, iter, after, skipClosingEdge)

	return newCost - oldCost
}

// segmentCost returns the travel cost of before -> seg... -> after,
// where after is skipped entirely when skipAfter is true (no closing
// edge, e.g. a non-returning vehicle whose route now ends mid-edit).
func (s *State) segmentCost(before problem.LocationIdx, seg []problem.ActivityID, after problem.LocationIdx, skipAfter bool) float64 {
	if len(seg) == 0 {
		if skipAfter {
			return 0
		}

		return s.query.TravelCost(s.vehicle, before, after)
	}
	var total float64
	prev := before
	for _, a := range seg {
		loc := s.loc(a)
		total += s.query.TravelCost(s.vehicle, prev, loc)
		prev = loc
	}
	if !skipAfter {
		total += s.query.TravelCost(s.vehicle, prev, after)
	}

	return total
}

// WaitingDurationDelta returns the change in total route waiting
// duration that replacing [start,end) with iter would cause, and
// whether the resulting route remains time-window feasible. Unlike
// TransportCostDelta this requires a downstream replay since waiting
// at any later activity can shift.
func (s *State) WaitingDurationDelta(iter []problem.ActivityID, start, end int) (float64, bool) {
	if !s.IsValidChange(iter, start, end) {
		return 0, false
	}

	clone := s.Clone()
	if err := clone.ReplaceActivities(iter, start, end); err != nil {
		return 0, false
	}

	return clone.TotalWaiting() - s.TotalWaiting(), true
}
