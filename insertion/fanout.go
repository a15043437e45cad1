package insertion

import (
	"context"
	"sort"

	"golang.org/x/sync/errgroup"
	"golang.org/x/sync/semaphore"

	"github.com/lvlath-vrp/alns/problem"
	"github.com/lvlath-vrp/alns/routestate"
)

// multiRoute is the read surface BestAcrossRoutes/TopKAcrossRoutes need
// from a working solution: how many routes it holds, and each route by
// index.
type multiRoute interface {
	RouteCount() int
	Route(problem.RouteIdx) *routestate.State
}

// BestAcrossRoutes scores job against every compatible route in ws
// concurrently (bounded by concurrency), and returns the single best
// feasible insertion across the whole fleet.
func (e *Evaluator) BestAcrossRoutes(ctx context.Context, ws multiRoute, job problem.JobIdx, concurrency int) (Insertion, bool, error) {
	results, err := e.scoreAcrossRoutes(ctx, ws, job, concurrency, func(route *routestate.State) []Insertion {
		ins, ok := e.Best(route, job)
		if !ok {
			return nil
		}

		return []Insertion{ins}
	})
	if err != nil {
		return Insertion{}, false, err
	}
	if len(results) == 0 {
		return Insertion{}, false, nil
	}

	best := results[0]
	for _, c := range results[1:] {
		if c.Delta < best.Delta {
			best = c
		}
	}

	return best, true, nil
}

// TopKAcrossRoutes scores job against every compatible route in ws
// concurrently, and returns the k globally-best feasible insertions
// (ascending delta), used by regret-k recreate.
func (e *Evaluator) TopKAcrossRoutes(ctx context.Context, ws multiRoute, job problem.JobIdx, k, concurrency int) ([]Insertion, error) {
	results, err := e.scoreAcrossRoutes(ctx, ws, job, concurrency, func(route *routestate.State) []Insertion {
		return e.TopK(route, job, k)
	})
	if err != nil {
		return nil, err
	}
	sort.Slice(results, func(i, j int) bool { return results[i].Delta < results[j].Delta })
	if k > 0 && len(results) > k {
		results = results[:k]
	}

	return results, nil
}

// ForceBestAcrossRoutes is ForceBest fanned out across every compatible
// route in ws, returning the cheapest-by-transport-cost placement found
// anywhere. Used by recreate's insert-on-failure policy once
// BestAcrossRoutes has already come back empty-handed.
func (e *Evaluator) ForceBestAcrossRoutes(ctx context.Context, ws multiRoute, job problem.JobIdx, concurrency int) (Insertion, bool, error) {
	results, err := e.scoreAcrossRoutes(ctx, ws, job, concurrency, func(route *routestate.State) []Insertion {
		return []Insertion{e.ForceBest(route, job)}
	})
	if err != nil {
		return Insertion{}, false, err
	}
	if len(results) == 0 {
		return Insertion{}, false, nil
	}

	best := results[0]
	for _, c := range results[1:] {
		if c.Delta < best.Delta {
			best = c
		}
	}

	return best, true, nil
}

// scoreAcrossRoutes runs score() for every route in ws under an
// errgroup bounded by a semaphore of width concurrency, tagging each
// returned Insertion with its owning Route index before merging.
func (e *Evaluator) scoreAcrossRoutes(ctx context.Context, ws multiRoute, job problem.JobIdx, concurrency int, score func(*routestate.State) []Insertion) ([]Insertion, error) {
	if concurrency <= 0 {
		concurrency = 1
	}
	sem := semaphore.NewWeighted(int64(concurrency))
	g, gctx := errgroup.WithContext(ctx)

	n := ws.RouteCount()
	perRoute := make([][]Insertion, n)
	for i := 0; i < n; i++ {
		route := ws.Route(problem.RouteIdx(i))
		if !e.query.IsCompatible(route.Vehicle(), job) {
			continue
		}
		g.Go(func() error {
			if err := sem.Acquire(gctx, 1); err != nil {
				return err
			}
			defer sem.Release(1)

			cands := score(route)
			for j := range cands {
				cands[j].Route = problem.RouteIdx(i)
			}
			perRoute[i] = cands

			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	var out []Insertion
	for _, cands := range perRoute {
		out = append(out, cands...)
	}

	return out, nil
}
