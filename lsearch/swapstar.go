package lsearch

import (
	"github.com/lvlath-vrp/alns/insertion"
	"github.com/lvlath-vrp/alns/problem"
	"github.com/lvlath-vrp/alns/routestate"
	"github.com/lvlath-vrp/alns/score"
)

// SwapStar exchanges job a (at position posA of routeA) with job b (at
// position posB of routeB), but unlike InterSwap it does not assume
// either lands back at its counterpart's vacated slot: it also tries
// each job at its single best reinsertion position into the opposite
// route (computed via eval against that route with the counterpart
// already removed), and keeps whichever of the four (own-slot,
// best-slot) combinations scores lowest while staying feasible. This
// fixes the "best swap position is not the current position" defect a
// plain InterSwap has.
func SwapStar(query problem.Query, weights score.Weights, eval *insertion.Evaluator, idxA problem.RouteIdx, routeA *routestate.State, posA int, idxB problem.RouteIdx, routeB *routestate.State, posB int) Move {
	a := routeA.ActivityIDs()[posA]
	b := routeB.ActivityIDs()[posB]

	baseA := removeAt(routeA.ActivityIDs(), posA)
	baseB := removeAt(routeB.ActivityIDs(), posB)

	bestPosBinA := posA
	if top := eval.TopK(cloneWithout(routeA, posA), b.Job, 3); len(top) > 0 {
		bestPosBinA = top[0].Position
	}
	bestPosAinB := posB
	if top := eval.TopK(cloneWithout(routeB, posB), a.Job, 3); len(top) > 0 {
		bestPosAinB = top[0].Position
	}

	posAOptions := dedupPositions(posA, bestPosBinA)
	posBOptions := dedupPositions(posB, bestPosAinB)

	var best *pairMove
	for _, pa := range posAOptions {
		for _, pb := range posBOptions {
			cand := &pairMove{
				query: query, weights: weights,
				routeA: routeA, idxA: idxA, newA: insertAt(baseA, pa, b),
				routeB: routeB, idxB: idxB, newB: insertAt(baseB, pb, a),
			}
			if !cand.IsValid() {
				continue
			}
			if best == nil || cand.Delta() < best.Delta() {
				best = cand
			}
		}
	}
	if best == nil {
		// No combination is feasible; fall back to the both-in-place pair
		// so the caller still gets a Move (IsValid will report it invalid).
		best = &pairMove{
			query: query, weights: weights,
			routeA: routeA, idxA: idxA, newA: insertAt(baseA, posA, b),
			routeB: routeB, idxB: idxB, newB: insertAt(baseB, posB, a),
		}
	}

	return best
}

// cloneWithout returns a scratch copy of route with the activity at
// pos removed, used only to enumerate reinsertion candidates for the
// opposite side's job without disturbing the real route.
func cloneWithout(route *routestate.State, pos int) *routestate.State {
	clone := route.Clone()
	_ = clone.Remove(pos)

	return clone
}

func dedupPositions(a, b int) []int {
	if a == b {
		return []int{a}
	}

	return []int{a, b}
}
