package recreate

import (
	stdcontext "context"
	"math/rand"

	"golang.org/x/sync/errgroup"
	"golang.org/x/sync/semaphore"

	"github.com/lvlath-vrp/alns/insertion"
	"github.com/lvlath-vrp/alns/problem"
)

// Regret is the Regret-k recreate operator: for every unassigned job it
// finds the best K insertions across the whole fleet, computes the
// regret value sum_{i=2..K}(cost_i - cost_1), and commits the job with
// the largest regret at its own best position, repeating until no
// unassigned jobs remain or none can be placed. Ties are broken
// randomly via RNG.
type Regret struct {
	K   int
	RNG *rand.Rand
}

type regretCandidate struct {
	job    problem.JobIdx
	best   insertion.Insertion
	regret float64
	found  bool
}

// Apply implements the Regret-k recreate strategy.
func (r Regret) Apply(ctx stdcontext.Context, ws workingSolution, rc Context) error {
	k := r.K
	if k < 2 {
		k = 2
	}

	for {
		jobs := ws.UnassignedJobs()
		if len(jobs) == 0 {
			return nil
		}

		candidates, err := r.scoreRegret(ctx, ws, rc, jobs, k)
		if err != nil {
			return err
		}

		chosen, ok := r.pickMaxRegret(candidates)
		if ok {
			if err := chosen.best.Apply(ws); err != nil {
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

func (r Regret) scoreRegret(ctx stdcontext.Context, ws workingSolution, rc Context, jobs []problem.JobIdx, k int) ([]regretCandidate, error) {
	concurrency := rc.Concurrency
	if concurrency <= 0 {
		concurrency = 1
	}
	sem := semaphore.NewWeighted(int64(concurrency))
	g, gctx := errgroup.WithContext(ctx)

	out := make([]regretCandidate, len(jobs))
	for i, job := range jobs {
		g.Go(func() error {
			if err := sem.Acquire(gctx, 1); err != nil {
				return err
			}
			defer sem.Release(1)

			top := topKAcrossCompatibleRoutes(rc, ws, job, k)
			if len(top) == 0 {
				out[i] = regretCandidate{job: job}

				return nil
			}
			regret := 0.0
			for _, c := range top[1:] {
				regret += c.Delta - top[0].Delta
			}
			out[i] = regretCandidate{job: job, best: top[0], regret: regret, found: true}

			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	return out, nil
}

// pickMaxRegret returns the candidate with the largest regret value,
// breaking ties uniformly at random among the tied set.
func (r Regret) pickMaxRegret(candidates []regretCandidate) (regretCandidate, bool) {
	var tied []regretCandidate
	maxRegret := 0.0
	for _, c := range candidates {
		if !c.found {
			continue
		}
		switch {
		case len(tied) == 0 || c.regret > maxRegret:
			tied = []regretCandidate{c}
			maxRegret = c.regret
		case c.regret == maxRegret:
			tied = append(tied, c)
		}
	}
	if len(tied) == 0 {
		return regretCandidate{}, false
	}
	if len(tied) == 1 || r.RNG == nil {
		return tied[0], true
	}

	return tied[r.RNG.Intn(len(tied))], true
}
