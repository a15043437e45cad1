package intensify

import (
	stdcontext "context"

	"golang.org/x/sync/errgroup"
	"golang.org/x/sync/semaphore"

	"github.com/lvlath-vrp/alns/insertion"
	"github.com/lvlath-vrp/alns/lsearch"
	"github.com/lvlath-vrp/alns/problem"
	"github.com/lvlath-vrp/alns/score"
)

// Context carries the shared input the Intensifier consumes each call.
type Context struct {
	Problem problem.Query
	Weights score.Weights

	// Eval, when non-nil, enables Swap* (it needs an Evaluator to rank
	// each side's reinsertion candidates in the opposite route).
	Eval *insertion.Evaluator

	// Concurrency bounds how many (route,route) pairs are scanned at
	// once within a single iteration.
	Concurrency int

	// MaxIterations bounds the number of apply rounds; <= 0 means run
	// until no improving move remains.
	MaxIterations int
}

// Run drives the best-improvement loop: scan every (route,route) pair,
// apply the single cheapest strictly-improving move found, and repeat.
// It returns the number of moves applied.
func (e *Engine) Run(ctx stdcontext.Context, ws workingSolution, cfg Context) (int, error) {
	applied := 0
	for cfg.MaxIterations <= 0 || applied < cfg.MaxIterations {
		best, err := e.bestMove(ctx, ws, cfg)
		if err != nil {
			return applied, err
		}
		if best == nil {
			return applied, nil
		}
		if err := best.Apply(); err != nil {
			return applied, err
		}
		applied++
	}

	return applied, nil
}

// bestMove scans every route pair (using the cache where still valid)
// and returns the globally cheapest strictly-improving move, or nil.
func (e *Engine) bestMove(ctx stdcontext.Context, ws workingSolution, cfg Context) (lsearch.Move, error) {
	n := ws.RouteCount()

	type job struct {
		idxA, idxB problem.RouteIdx
	}
	jobs := make([]job, 0, n+(n*(n-1))/2)
	for i := 0; i < n; i++ {
		jobs = append(jobs, job{idxA: problem.RouteIdx(i), idxB: problem.RouteIdx(i)})
	}
	for i := 0; i < n; i++ {
		for j := i + 1; j < n; j++ {
			jobs = append(jobs, job{idxA: problem.RouteIdx(i), idxB: problem.RouteIdx(j)})
		}
	}

	concurrency := cfg.Concurrency
	if concurrency <= 0 {
		concurrency = 1
	}
	sem := semaphore.NewWeighted(int64(concurrency))
	g, gctx := errgroup.WithContext(ctx)

	results := make([]lsearch.Move, len(jobs))
	for i, jb := range jobs {
		g.Go(func() error {
			if err := sem.Acquire(gctx, 1); err != nil {
				return err
			}
			defer sem.Release(1)

			results[i] = e.resolve(jb.idxA, jb.idxB, ws, cfg)

			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	var best lsearch.Move
	for _, mv := range results {
		if mv == nil {
			continue
		}
		if best == nil || mv.Delta() < best.Delta() {
			best = mv
		}
	}

	return best, nil
}

// resolve returns the cached best move for (idxA,idxB) if still valid,
// otherwise scans it fresh and refreshes the cache.
func (e *Engine) resolve(idxA, idxB problem.RouteIdx, ws workingSolution, cfg Context) lsearch.Move {
	routeA := ws.Route(idxA)
	key := makePairKey(idxA, idxB)

	if idxA == idxB {
		if mv, hit := e.lookup(key, routeA, nil); hit {
			return mv
		}
		mv := scanIntra(cfg.Problem, cfg.Weights, idxA, routeA)
		e.store(key, routeA, nil, mv)

		return mv
	}

	rB := ws.Route(idxB)
	if mv, hit := e.lookup(key, routeA, rB); hit {
		return mv
	}
	mv := scanInter(cfg.Problem, cfg.Weights, cfg.Eval, idxA, routeA, idxB, rB)
	e.store(key, routeA, rB, mv)

	return mv
}
