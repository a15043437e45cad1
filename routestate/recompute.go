package routestate

import (
	"github.com/lvlath-vrp/alns/amount"
	"github.com/lvlath-vrp/alns/problem"
)

// recompute rebuilds every cached array from activityIDs in a single
// forward pass and a single backward pass, per the design's Commit
// algorithm. It does not touch version; callers bump version after
// calling recompute on a structural change.
func (s *State) recompute() {
	n := len(s.activityIDs)
	s.arrival = make([]float64, n)
	s.departure = make([]float64, n)
	s.waiting = make([]float64, n)
	s.fwdLoadPickups = make([]amount.Amount, n)
	s.fwdLoadDeliveries = make([]amount.Amount, n)
	s.fwdLoadShipments = make([]amount.Amount, n)
	s.bwdLoadPickups = make([]amount.Amount, n)
	s.bwdLoadDeliveries = make([]amount.Amount, n)
	s.currentLoad = make([]amount.Amount, n+2)
	s.fwdLoadPeaks = make([]amount.Amount, n+2)
	s.bwdLoadPeaks = make([]amount.Amount, n+2)
	s.timeSlacks = make([]float64, n)
	s.bbox = emptyBBox()

	veh := s.query.Vehicle(s.vehicle)

	// Forward pass: arrival/departure/waiting + cumulative pickups,
	// deliveries, net shipment load.
	prevDeparture := veh.EarliestStart + veh.DepotDwellStart
	prevLoc := veh.Depot
	var cumPickup, cumDelivery, cumShipment amount.Amount
	for i, a := range s.activityIDs {
		loc := s.loc(a)
		travel := s.query.TravelTime(s.vehicle, prevLoc, loc)
		arrival := prevDeparture + travel
		windows := s.query.Job(a.Job).Windows(a)
		start, ok := windows.BestStart(arrival)
		if !ok {
			// Infeasible under the committed sequence; still record a
			// best-effort chain so downstream arrays stay well formed.
			// Validity failures belong to IsValidChange, not Commit.
			start = arrival
		}
		wait := start - arrival
		dur := s.query.Job(a.Job).Duration(a)
		dep := start + dur

		s.arrival[i] = arrival
		s.waiting[i] = wait
		s.departure[i] = dep

		cumPickup = amount.Sum(cumPickup, s.pickupAmount(a))
		cumDelivery = amount.Sum(cumDelivery, s.deliveryAmount(a))
		if d, isDelivery := s.shipmentDelta(a); d.Len() > 0 || isDelivery {
			if isDelivery {
				cumShipment = amount.Diff(cumShipment, d)
			} else {
				cumShipment = amount.Sum(cumShipment, d)
			}
		}
		s.fwdLoadPickups[i] = cumPickup
		s.fwdLoadDeliveries[i] = cumDelivery
		s.fwdLoadShipments[i] = cumShipment

		loc2 := s.query.Location(loc)
		if loc != problem.NoLocation {
			s.bbox.extend(loc2.X, loc2.Y)
		}

		prevDeparture = dep
		prevLoc = loc
	}

	totalDeliveries := amount.Amount{}
	if n > 0 {
		totalDeliveries = s.fwdLoadDeliveries[n-1]
	}
	s.currentLoad[0] = totalDeliveries
	for i := 0; i < n; i++ {
		load := totalDeliveries.Clone()
		load.Sub(s.fwdLoadDeliveries[i])
		load.Add(s.fwdLoadPickups[i])
		load.Add(s.fwdLoadShipments[i])
		s.currentLoad[i+1] = load
	}

	// Backward pass: remaining-to-end pickups/deliveries, peaks, slacks.
	var remPickup, remDelivery amount.Amount
	for i := n - 1; i >= 0; i-- {
		remPickup = amount.Sum(remPickup, s.pickupAmount(s.activityIDs[i]))
		remDelivery = amount.Sum(remDelivery, s.deliveryAmount(s.activityIDs[i]))
		s.bwdLoadPickups[i] = remPickup
		s.bwdLoadDeliveries[i] = remDelivery
	}

	s.fwdLoadPeaks[0] = s.currentLoad[0]
	for i := 1; i < n+2; i++ {
		s.fwdLoadPeaks[i] = s.fwdLoadPeaks[i-1].Clone()
		s.fwdLoadPeaks[i].UpdateMax(s.currentLoad[i])
	}
	s.bwdLoadPeaks[n+1] = s.currentLoad[n+1]
	for i := n; i >= 0; i-- {
		s.bwdLoadPeaks[i] = s.bwdLoadPeaks[i+1].Clone()
		s.bwdLoadPeaks[i].UpdateMax(s.currentLoad[i])
	}

	// Time slacks, last to first: the own window's remaining headroom,
	// capped by how much the next activity's slack-plus-waiting can
	// still absorb.
	const unbounded = 1e18
	for i := n - 1; i >= 0; i-- {
		own := unbounded
		windows := s.query.Job(s.activityIDs[i].Job).Windows(s.activityIDs[i])
		if w, ok := tightestEnd(windows, s.arrival[i]); ok {
			own = w - s.arrival[i]
		}
		if i == n-1 {
			s.timeSlacks[i] = own
		} else {
			downstream := s.timeSlacks[i+1] + s.waiting[i+1]
			if downstream < own {
				s.timeSlacks[i] = downstream
			} else {
				s.timeSlacks[i] = own
			}
		}
	}

	// Capacity slacks: headroom between capacity and the worst-case
	// peak in each direction.
	s.deliveryLoadSlack = amount.Diff(veh.Capacity, s.fwdLoadPeaks[n+1])
	s.pickupLoadSlack = amount.Diff(veh.Capacity, s.bwdLoadPeaks[0])

	// DepotDwellEnd and the return leg are not part of any activity's
	// own record; they contribute only to the route's closing time, via
	// EndTime.
}

// tightestEnd returns the End bound of the bounded window that admits
// arrival with the earliest service start, i.e. the window BestStart
// selects when that window has an End; windows without an End are
// skipped. Returns false if the window set is empty (no bound) or
// arrival fits no bounded window.
func tightestEnd(ws problem.TimeWindows, arrival float64) (float64, bool) {
	if len(ws) == 0 {
		return 0, false
	}
	best, bestStart := 0.0, 0.0
	found := false
	for _, w := range ws {
		start := arrival
		if w.Start != nil && start < *w.Start {
			start = *w.Start
		}
		if w.End == nil {
			continue
		}
		if start > *w.End {
			continue
		}
		if !found || start < bestStart {
			best, bestStart = *w.End, start
			found = true
		}
	}

	return best, found
}

// transportCostOf computes the total travel cost of serving ids in
// order with this route's vehicle, including depot legs as governed by
// ShouldReturnToDepot / HasDepot.
func (s *State) transportCostOf(ids []problem.ActivityID) float64 {
	veh := s.query.Vehicle(s.vehicle)
	if len(ids) == 0 {
		return 0
	}
	var total float64
	prev := veh.Depot
	for _, a := range ids {
		loc := s.loc(a)
		total += s.query.TravelCost(s.vehicle, prev, loc)
		prev = loc
	}
	if veh.ShouldReturnToDepot {
		total += s.query.TravelCost(s.vehicle, prev, veh.Depot)
	}

	return total
}
