package ruin

import (
	"sort"

	"github.com/lvlath-vrp/alns/problem"
	"github.com/lvlath-vrp/alns/score"
)

// Worst removes the NumJobsToRemove jobs whose individual soft
// contribution (transport+waiting caused at their current position) is
// largest, optionally jittered by Params.Noise to avoid always picking
// the identical set every iteration.
type Worst struct {
	Weights score.Weights
}

// Apply implements Operator.
func (w Worst) Apply(ws workingSolution, ctx Context) error {
	type ranked struct {
		job  problem.JobIdx
		gain float64
	}
	jobs := assignedJobs(ws)
	ranks := make([]ranked, 0, len(jobs))
	for _, job := range jobs {
		routeIdx, ok := ws.RouteOf(job)
		if !ok {
			continue
		}
		gain := removalSoftGain(ctx.Problem, w.Weights, ws.Route(routeIdx), job)
		if ctx.Params.Noise > 0 {
			gain *= 1 + ctx.Params.Noise*(2*ctx.RNG.Float64()-1)
		}
		ranks = append(ranks, ranked{job: job, gain: gain})
	}
	sort.Slice(ranks, func(i, j int) bool { return ranks[i].gain > ranks[j].gain })

	n := ctx.NumJobsToRemove
	if n > len(ranks) {
		n = len(ranks)
	}
	for _, r := range ranks[:n] {
		routeIdx, ok := ws.RouteOf(r.job)
		if !ok {
			continue
		}
		if err := removeJob(ctx.Problem, ws, ws.Route(routeIdx), r.job); err != nil {
			return err
		}
	}

	return nil
}
