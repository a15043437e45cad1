package intensify

import (
	"github.com/lvlath-vrp/alns/insertion"
	"github.com/lvlath-vrp/alns/lsearch"
	"github.com/lvlath-vrp/alns/problem"
	"github.com/lvlath-vrp/alns/routestate"
	"github.com/lvlath-vrp/alns/score"
)

// considerBest replaces best with candidate when candidate is feasible,
// strictly improving (delta < 0) and cheaper than whatever best already
// holds.
func considerBest(best lsearch.Move, candidate lsearch.Move) lsearch.Move {
	if !candidate.IsValid() {
		return best
	}
	delta := candidate.Delta()
	if delta >= 0 {
		return best
	}
	if best == nil || delta < best.Delta() {
		return candidate
	}

	return best
}

// scanIntra enumerates every intra-route move on a single route and
// returns the cheapest strictly-improving one, or nil.
func scanIntra(query problem.Query, weights score.Weights, idx problem.RouteIdx, route *routestate.State) lsearch.Move {
	n := route.Len()
	var best lsearch.Move

	for from := 0; from < n; from++ {
		for to := from + 1; to < n; to++ {
			best = considerBest(best, lsearch.TwoOpt(query, weights, idx, route, from, to))
			best = considerBest(best, lsearch.Swap(query, weights, idx, route, from, to))
		}
	}

	for from := 0; from < n; from++ {
		for to := 0; to <= n; to++ {
			if to == from || to == from+1 {
				continue
			}
			best = considerBest(best, lsearch.Relocate(query, weights, idx, route, from, to))
		}
	}

	for _, segLen := range [...]int{2, 3} {
		for segStart := 0; segStart+segLen <= n; segStart++ {
			for dest := 0; dest <= n; dest++ {
				if dest >= segStart && dest <= segStart+segLen {
					continue
				}
				best = considerBest(best, lsearch.OrOpt(query, weights, idx, route, segStart, segLen, dest))
			}
		}
	}

	return best
}

// servicePositions returns the indices of route's Service-kind
// activities, the only ones inter-route operators may relocate.
func servicePositions(route *routestate.State) []int {
	ids := route.ActivityIDs()
	out := make([]int, 0, len(ids))
	for i, a := range ids {
		if a.Kind == problem.Service {
			out = append(out, i)
		}
	}

	return out
}

// scanInter enumerates every inter-route move between two distinct
// routes and returns the cheapest strictly-improving one, or nil.
func scanInter(query problem.Query, weights score.Weights, eval *insertion.Evaluator, idxA problem.RouteIdx, routeA *routestate.State, idxB problem.RouteIdx, routeB *routestate.State) lsearch.Move {
	var best lsearch.Move
	svcA := servicePositions(routeA)
	svcB := servicePositions(routeB)
	nA, nB := routeA.Len(), routeB.Len()

	for _, posA := range svcA {
		for destB := 0; destB <= nB; destB++ {
			best = considerBest(best, lsearch.InterRelocate(query, weights, idxA, routeA, posA, idxB, routeB, destB))
		}
	}
	for _, posB := range svcB {
		for destA := 0; destA <= nA; destA++ {
			best = considerBest(best, lsearch.InterRelocate(query, weights, idxB, routeB, posB, idxA, routeA, destA))
		}
	}

	for _, posA := range svcA {
		for _, posB := range svcB {
			best = considerBest(best, lsearch.InterSwap(query, weights, idxA, routeA, posA, idxB, routeB, posB))
		}
	}

	for _, segLen := range [...]int{2, 3} {
		for _, start := range contiguousServiceSegments(svcA, segLen) {
			for destB := 0; destB <= nB; destB++ {
				best = considerBest(best, lsearch.InterOrOpt(query, weights, idxA, routeA, start, segLen, idxB, routeB, destB))
			}
		}
		for _, start := range contiguousServiceSegments(svcB, segLen) {
			for destA := 0; destA <= nA; destA++ {
				best = considerBest(best, lsearch.InterOrOpt(query, weights, idxB, routeB, start, segLen, idxA, routeA, destA))
			}
		}
	}

	for f1 := 0; f1 < nA; f1++ {
		for f2 := 0; f2 < nB; f2++ {
			best = considerBest(best, lsearch.TwoOptStar(query, weights, idxA, routeA, f1, idxB, routeB, f2))
		}
	}

	for _, segLenA := range [...]int{1, 2, 3} {
		for aFrom := 0; aFrom+segLenA <= nA; aFrom++ {
			for _, segLenB := range [...]int{1, 2, 3} {
				for bFrom := 0; bFrom+segLenB <= nB; bFrom++ {
					best = considerBest(best, lsearch.CrossExchange(query, weights, idxA, routeA, aFrom, aFrom+segLenA-1, idxB, routeB, bFrom, bFrom+segLenB-1))
				}
			}
		}
	}

	if eval != nil {
		for _, posA := range svcA {
			for _, posB := range svcB {
				best = considerBest(best, lsearch.SwapStar(query, weights, eval, idxA, routeA, posA, idxB, routeB, posB))
			}
		}
	}

	return best
}

// contiguousServiceSegments returns every start index such that
// positions[start:start+segLen] are themselves Service positions that
// are contiguous in the route (no non-Service activity interleaved).
func contiguousServiceSegments(positions []int, segLen int) []int {
	var starts []int
	for i := 0; i+segLen <= len(positions); i++ {
		contiguous := true
		for k := 1; k < segLen; k++ {
			if positions[i+k] != positions[i]+k {
				contiguous = false

				break
			}
		}
		if contiguous {
			starts = append(starts, positions[i])
		}
	}

	return starts
}
