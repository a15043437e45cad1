package lsearch

import (
	"github.com/lvlath-vrp/alns/problem"
	"github.com/lvlath-vrp/alns/routestate"
	"github.com/lvlath-vrp/alns/score"
)

// Inter-route operators only ever move Service activities: invariant 1
// (a shipment's pickup always precedes its delivery in the same route)
// would otherwise require moving both halves together across routes at
// once, a move this spec's catalog never describes. Callers are
// expected to only offer Service-kind positions; IsValid still
// re-checks shipment ordering on both sides as a backstop.

// pairMove is the shared shape behind every cross-route operator: a
// full replacement array for each of two routes, scored independently
// and committed together.
type pairMove struct {
	query   problem.Query
	weights score.Weights

	routeA *routestate.State
	idxA   problem.RouteIdx
	newA   []problem.ActivityID

	routeB *routestate.State
	idxB   problem.RouteIdx
	newB   []problem.ActivityID
}

func (m *pairMove) Delta() float64 {
	return m.sideDelta(m.routeA, m.newA) + m.sideDelta(m.routeB, m.newB)
}

func (m *pairMove) sideDelta(route *routestate.State, newIDs []problem.ActivityID) float64 {
	n := route.Len()
	transportDelta := route.TransportCostDelta(newIDs, 0, n)
	waitingDelta, _ := route.WaitingDurationDelta(newIDs, 0, n)
	wasEmpty := n == 0
	isEmpty := len(newIDs) == 0

	return score.InsertionSoftDelta(m.query, m.weights, transportDelta, waitingDelta, route.Vehicle(), wasEmpty, isEmpty)
}

func (m *pairMove) IsValid() bool {
	if !m.routeA.IsValidChange(m.newA, 0, m.routeA.Len()) || !m.routeB.IsValidChange(m.newB, 0, m.routeB.Len()) {
		return false
	}

	return shipmentOrderValid(m.newA) && shipmentOrderValid(m.newB)
}

func (m *pairMove) Apply() error {
	if err := m.routeA.ReplaceActivities(m.newA, 0, m.routeA.Len()); err != nil {
		return err
	}

	return m.routeB.ReplaceActivities(m.newB, 0, m.routeB.Len())
}

func (m *pairMove) UpdatedRoutes() []problem.RouteIdx { return []problem.RouteIdx{m.idxA, m.idxB} }

// InterRelocate moves the activity at position posA of routeA into
// routeB, landing at literal index destB of the post-removal array.
func InterRelocate(query problem.Query, weights score.Weights, idxA problem.RouteIdx, routeA *routestate.State, posA int, idxB problem.RouteIdx, routeB *routestate.State, destB int) Move {
	moved := routeA.ActivityIDs()[posA]
	newA := removeAt(routeA.ActivityIDs(), posA)
	newB := insertAt(routeB.ActivityIDs(), destB, moved)

	return &pairMove{query: query, weights: weights, routeA: routeA, idxA: idxA, newA: newA, routeB: routeB, idxB: idxB, newB: newB}
}

// InterSwap exchanges the activity at position posA of routeA with the
// activity at position posB of routeB, each landing at its
// counterpart's vacated literal index.
func InterSwap(query problem.Query, weights score.Weights, idxA problem.RouteIdx, routeA *routestate.State, posA int, idxB problem.RouteIdx, routeB *routestate.State, posB int) Move {
	a := routeA.ActivityIDs()[posA]
	b := routeB.ActivityIDs()[posB]
	newA := insertAt(removeAt(routeA.ActivityIDs(), posA), posA, b)
	newB := insertAt(removeAt(routeB.ActivityIDs(), posB), posB, a)

	return &pairMove{query: query, weights: weights, routeA: routeA, idxA: idxA, newA: newA, routeB: routeB, idxB: idxB, newB: newB}
}

// InterOrOpt transfers the chain routeA.ActivityIDs()[segStart:segStart+segLen)
// (segLen conventionally 2-3) into routeB, landing at literal index
// destB of the post-removal array.
func InterOrOpt(query problem.Query, weights score.Weights, idxA problem.RouteIdx, routeA *routestate.State, segStart, segLen int, idxB problem.RouteIdx, routeB *routestate.State, destB int) Move {
	ids := routeA.ActivityIDs()
	seg := append([]problem.ActivityID(nil), ids[segStart:segStart+segLen]...)
	newA := make([]problem.ActivityID, 0, len(ids)-segLen)
	newA = append(newA, ids[:segStart]...)
	newA = append(newA, ids[segStart+segLen:]...)

	newB := make([]problem.ActivityID, 0, routeB.Len()+segLen)
	bIDs := routeB.ActivityIDs()
	newB = append(newB, bIDs[:destB]...)
	newB = append(newB, seg...)
	newB = append(newB, bIDs[destB:]...)

	return &pairMove{query: query, weights: weights, routeA: routeA, idxA: idxA, newA: newA, routeB: routeB, idxB: idxB, newB: newB}
}

// TwoOptStar cuts routeA after position f1 and routeB after position
// f2, reconnecting head-A+tail-B and head-B+tail-A with both tails kept
// in their original direction (unlike intra 2-Opt, neither tail is
// reversed), uncrossing the inter-route edge pair.
func TwoOptStar(query problem.Query, weights score.Weights, idxA problem.RouteIdx, routeA *routestate.State, f1 int, idxB problem.RouteIdx, routeB *routestate.State, f2 int) Move {
	idsA, idsB := routeA.ActivityIDs(), routeB.ActivityIDs()
	headA, tailA := idsA[:f1+1], idsA[f1+1:]
	headB, tailB := idsB[:f2+1], idsB[f2+1:]

	newA := append(append([]problem.ActivityID(nil), headA...), tailB...)
	newB := append(append([]problem.ActivityID(nil), headB...), tailA...)

	return &pairMove{query: query, weights: weights, routeA: routeA, idxA: idxA, newA: newA, routeB: routeB, idxB: idxB, newB: newB}
}

// CrossExchange swaps the segment routeA.ActivityIDs()[aFrom..=aTo]
// with routeB.ActivityIDs()[bFrom..=bTo], inclusive bounds matching
// 2-Opt's own range convention.
func CrossExchange(query problem.Query, weights score.Weights, idxA problem.RouteIdx, routeA *routestate.State, aFrom, aTo int, idxB problem.RouteIdx, routeB *routestate.State, bFrom, bTo int) Move {
	idsA, idsB := routeA.ActivityIDs(), routeB.ActivityIDs()
	segA := append([]problem.ActivityID(nil), idsA[aFrom:aTo+1]...)
	segB := append([]problem.ActivityID(nil), idsB[bFrom:bTo+1]...)

	newA := make([]problem.ActivityID, 0, len(idsA)-len(segA)+len(segB))
	newA = append(newA, idsA[:aFrom]...)
	newA = append(newA, segB...)
	newA = append(newA, idsA[aTo+1:]...)

	newB := make([]problem.ActivityID, 0, len(idsB)-len(segB)+len(segA))
	newB = append(newB, idsB[:bFrom]...)
	newB = append(newB, segA...)
	newB = append(newB, idsB[bTo+1:]...)

	return &pairMove{query: query, weights: weights, routeA: routeA, idxA: idxA, newA: newA, routeB: routeB, idxB: idxB, newB: newB}
}
