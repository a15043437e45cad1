package recreate

import (
	stdcontext "context"

	"golang.org/x/sync/errgroup"
	"golang.org/x/sync/semaphore"

	"github.com/lvlath-vrp/alns/insertion"
	"github.com/lvlath-vrp/alns/problem"
)

// Greedy repeatedly scores every unassigned job's best feasible
// insertion in parallel, then commits the single globally best one and
// loops, until no unassigned jobs remain or none can be placed.
type Greedy struct{}

// Apply implements the Greedy Best-Insertion recreate strategy.
func (Greedy) Apply(ctx stdcontext.Context, ws workingSolution, rc Context) error {
	for {
		jobs := ws.UnassignedJobs()
		if len(jobs) == 0 {
			return nil
		}

		best, _, found, err := scoreUnassigned(ctx, ws, rc, jobs)
		if err != nil {
			return err
		}
		if found {
			if err := best.Apply(ws); err != nil {
				return err
			}

			continue
		}

		if !rc.InsertOnFailure {
			return nil
		}
		forced, _, ok := forceOneUnassigned(ws, rc, jobs)
		if !ok {
			return nil
		}
		if err := forced.Apply(ws); err != nil {
			return err
		}
	}
}

// scoreUnassigned scores every job in jobs against every compatible
// route concurrently (bounded by rc.Concurrency) and returns the single
// globally cheapest feasible insertion found, if any.
func scoreUnassigned(ctx stdcontext.Context, ws workingSolution, rc Context, jobs []problem.JobIdx) (insertion.Insertion, problem.JobIdx, bool, error) {
	concurrency := rc.Concurrency
	if concurrency <= 0 {
		concurrency = 1
	}
	sem := semaphore.NewWeighted(int64(concurrency))
	g, gctx := errgroup.WithContext(ctx)

	results := make([]insertion.Insertion, len(jobs))
	ok := make([]bool, len(jobs))
	for i, job := range jobs {
		g.Go(func() error {
			if err := sem.Acquire(gctx, 1); err != nil {
				return err
			}
			defer sem.Release(1)

			ins, found := bestAcrossCompatibleRoutes(rc, ws, job)
			results[i], ok[i] = ins, found

			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return insertion.Insertion{}, 0, false, err
	}

	var best insertion.Insertion
	var bestJob problem.JobIdx
	found := false
	for i, job := range jobs {
		if !ok[i] {
			continue
		}
		if !found || results[i].Delta < best.Delta {
			best, bestJob, found = results[i], job, true
		}
	}

	return best, bestJob, found, nil
}

// forceOneUnassigned finds the single cheapest-by-transport-cost forced
// placement among jobs, used once a normal scoring pass finds nothing
// feasible anywhere.
func forceOneUnassigned(ws workingSolution, rc Context, jobs []problem.JobIdx) (insertion.Insertion, problem.JobIdx, bool) {
	var best insertion.Insertion
	var bestJob problem.JobIdx
	found := false
	for _, job := range jobs {
		ins, ok := forceAcrossCompatibleRoutes(rc, ws, job)
		if !ok {
			continue
		}
		if !found || ins.Delta < best.Delta {
			best, bestJob, found = ins, job, true
		}
	}

	return best, bestJob, found
}
