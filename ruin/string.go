package ruin

import (
	"github.com/lvlath-vrp/alns/problem"
	"github.com/lvlath-vrp/alns/routestate"
)

// String samples Params.RouteMin..RouteMax routes and, on each, removes a
// contiguous string of Params.LengthMin..LengthMax activities starting
// at a random position. Each subsequent route is the lowest-indexed
// not-yet-visited, non-empty route whose bounding box intersects the one
// just ruined (after original_source's Route::bbox pruning of the
// String/Split-String seed search), or any remaining non-empty route
// when none intersects. The string on it also starts at a random
// position; no nearest-job seeding is done.
type String struct{}

// Apply implements Operator.
func (String) Apply(ws workingSolution, ctx Context) error {
	return ruinStrings(ws, ctx, func(route *routestate.State, from, to int) error {
		return removeJobs(ctx.Problem, ws, route, jobsInRange(route, from, to))
	})
}

// SplitString removes the same kind of contiguous string as String, but
// preserves a random contiguous sub-segment inside it, removing only the
// two outer chunks that flank the preserved core.
type SplitString struct{}

// Apply implements Operator.
func (SplitString) Apply(ws workingSolution, ctx Context) error {
	return ruinStrings(ws, ctx, func(route *routestate.State, from, to int) error {
		length := to - from
		if length <= 2 {
			return removeJobs(ctx.Problem, ws, route, jobsInRange(route, from, to))
		}
		coreLen := 1 + ctx.RNG.Intn(length-1)
		coreStart := from + ctx.RNG.Intn(length-coreLen+1)
		coreEnd := coreStart + coreLen

		outer := append(jobsInRange(route, from, coreStart), jobsInRange(route, coreEnd, to)...)

		return removeJobs(ctx.Problem, ws, route, outer)
	})
}

// ruinStrings is the shared String/Split-String driver: pick a random
// route, remove a chunk via remove, then walk to further routes chosen
// by nextIntersectingRoute until a count drawn from
// Params.RouteMin..RouteMax (capped at the number of non-empty routes)
// has been touched.
func ruinStrings(ws workingSolution, ctx Context, remove func(route *routestate.State, from, to int) error) error {
	routeMin, routeMax := ctx.Params.RouteMin, ctx.Params.RouteMax
	if routeMin <= 0 {
		routeMin = 1
	}
	if routeMax < routeMin {
		routeMax = routeMin
	}
	lengthMin, lengthMax := ctx.Params.LengthMin, ctx.Params.LengthMax
	if lengthMin <= 0 {
		lengthMin = 1
	}
	if lengthMax < lengthMin {
		lengthMax = lengthMin
	}

	nonEmpty := make([]problem.RouteIdx, 0, ws.RouteCount())
	for i := 0; i < ws.RouteCount(); i++ {
		if ws.Route(problem.RouteIdx(i)).Len() > 0 {
			nonEmpty = append(nonEmpty, problem.RouteIdx(i))
		}
	}
	if len(nonEmpty) == 0 {
		return nil
	}

	target := routeMin + ctx.RNG.Intn(routeMax-routeMin+1)
	if target > len(nonEmpty) {
		target = len(nonEmpty)
	}

	visited := make(map[problem.RouteIdx]struct{}, target)
	first := nonEmpty[ctx.RNG.Intn(len(nonEmpty))]
	if err := ruinOneRoute(ws, ctx, first, lengthMin, lengthMax, remove); err != nil {
		return err
	}
	visited[first] = struct{}{}
	lastBBox := ws.Route(first).BBox()

	for len(visited) < target {
		next, ok := nextIntersectingRoute(ws, visited, lastBBox)
		if !ok {
			break
		}
		if err := ruinOneRoute(ws, ctx, next, lengthMin, lengthMax, remove); err != nil {
			return err
		}
		visited[next] = struct{}{}
		lastBBox = ws.Route(next).BBox()
	}

	return nil
}

func ruinOneRoute(ws workingSolution, ctx Context, idx problem.RouteIdx, lengthMin, lengthMax int, remove func(route *routestate.State, from, to int) error) error {
	route := ws.Route(idx)
	n := route.Len()
	if n == 0 {
		return nil
	}
	length := lengthMin
	if lengthMax > lengthMin {
		length += ctx.RNG.Intn(lengthMax - lengthMin + 1)
	}
	if length > n {
		length = n
	}
	from := ctx.RNG.Intn(n - length + 1)

	return remove(route, from, from+length)
}

// nextIntersectingRoute finds a not-yet-visited, non-empty route whose
// bbox intersects last, falling back to any remaining non-empty route
// when none intersects.
func nextIntersectingRoute(ws workingSolution, visited map[problem.RouteIdx]struct{}, last routestate.BBox) (problem.RouteIdx, bool) {
	var fallback problem.RouteIdx
	haveFallback := false
	for i := 0; i < ws.RouteCount(); i++ {
		idx := problem.RouteIdx(i)
		if _, ok := visited[idx]; ok {
			continue
		}
		route := ws.Route(idx)
		if route.Len() == 0 {
			continue
		}
		if !haveFallback {
			fallback = idx
			haveFallback = true
		}
		if route.BBox().Intersects(last) {
			return idx, true
		}
	}

	return fallback, haveFallback
}
