package lsearch

import (
	"github.com/lvlath-vrp/alns/problem"
	"github.com/lvlath-vrp/alns/routestate"
	"github.com/lvlath-vrp/alns/score"
)

// rangeMove is the shared shape behind every intra-route operator: a
// replacement segment for [start,end) in one route, scored through
// routestate's hypothetical path and committed via apply.
type rangeMove struct {
	query   problem.Query
	weights score.Weights
	route   *routestate.State
	idx     problem.RouteIdx

	segment    []problem.ActivityID
	start, end int
	apply      func() error
}

func (m *rangeMove) Delta() float64 {
	transportDelta := m.route.TransportCostDelta(m.segment, m.start, m.end)
	waitingDelta, _ := m.route.WaitingDurationDelta(m.segment, m.start, m.end)

	return score.InsertionSoftDelta(m.query, m.weights, transportDelta, waitingDelta, m.route.Vehicle(), false, false)
}

func (m *rangeMove) IsValid() bool {
	if !m.route.IsValidChange(m.segment, m.start, m.end) {
		return false
	}

	return shipmentOrderValid(fullCandidate(m.route.ActivityIDs(), m.segment, m.start, m.end))
}

func (m *rangeMove) Apply() error { return m.apply() }

func (m *rangeMove) UpdatedRoutes() []problem.RouteIdx { return []problem.RouteIdx{m.idx} }

// TwoOpt reverses activities[from..=to] in a single route, fixing
// crossings introduced by earlier insertions.
func TwoOpt(query problem.Query, weights score.Weights, idx problem.RouteIdx, route *routestate.State, from, to int) Move {
	segment := reverseInclusive(route.ActivityIDs(), from, to)

	return &rangeMove{
		query: query, weights: weights, route: route, idx: idx,
		segment: segment, start: from, end: to + 1,
		apply: func() error { return route.Reverse(from, to) },
	}
}

// Swap exchanges the activities at positions i and j (i<=j) within a
// single route.
func Swap(query problem.Query, weights score.Weights, idx problem.RouteIdx, route *routestate.State, i, j int) Move {
	if i > j {
		i, j = j, i
	}
	ids := route.ActivityIDs()
	segment := append([]problem.ActivityID(nil), ids[i:j+1]...)
	segment[0], segment[len(segment)-1] = segment[len(segment)-1], segment[0]

	return &rangeMove{
		query: query, weights: weights, route: route, idx: idx,
		segment: segment, start: i, end: j + 1,
		apply: func() error { return route.Swap(i, j) },
	}
}

// Relocate moves the single activity at position from to sit
// immediately before whatever currently occupies position to (or at
// the route's end if to==route.Len()). For a shipment activity this is
// only ever valid when the result still keeps that job's pickup before
// its delivery, checked by IsValid like every other move here.
func Relocate(query problem.Query, weights score.Weights, idx problem.RouteIdx, route *routestate.State, from, to int) Move {
	ids := route.ActivityIDs()
	full := moveSegment(ids, from, 1, to)

	return &rangeMove{
		query: query, weights: weights, route: route, idx: idx,
		segment: full, start: 0, end: len(ids),
		apply: func() error { return route.Move(from, to) },
	}
}

// OrOpt moves a contiguous chain ids[segStart:segStart+segLen) (segLen
// conventionally 2-3) to sit immediately before whatever currently
// occupies position destPos within the same route.
func OrOpt(query problem.Query, weights score.Weights, idx problem.RouteIdx, route *routestate.State, segStart, segLen, destPos int) Move {
	ids := route.ActivityIDs()
	full := moveSegment(ids, segStart, segLen, destPos)

	return &rangeMove{
		query: query, weights: weights, route: route, idx: idx,
		segment: full, start: 0, end: len(ids),
		apply: func() error { return route.ReplaceActivities(full, 0, len(ids)) },
	}
}
