package ruin

import (
	"github.com/lvlath-vrp/alns/problem"
	"github.com/lvlath-vrp/alns/routestate"
)

// Route picks a single route, biased toward small ones via
// inverse-size roulette selection, and removes some or all of its
// distinct jobs (capped at NumJobsToRemove; all of them when
// NumJobsToRemove is large enough or <= 0).
type Route struct{}

// Apply implements Operator.
func (Route) Apply(ws workingSolution, ctx Context) error {
	jobsByRoute := make([][]problem.JobIdx, ws.RouteCount())
	weights := make([]float64, ws.RouteCount())
	var total float64
	for i := 0; i < ws.RouteCount(); i++ {
		jobsByRoute[i] = routeJobs(ws.Route(problem.RouteIdx(i)))
		if len(jobsByRoute[i]) == 0 {
			continue
		}
		// Bias toward small routes: a route with k jobs gets weight 1/k.
		weights[i] = 1 / float64(len(jobsByRoute[i]))
		total += weights[i]
	}
	if total == 0 {
		return nil
	}

	pick := ctx.RNG.Float64() * total
	chosen := -1
	for i, w := range weights {
		if w == 0 {
			continue
		}
		pick -= w
		if pick <= 0 {
			chosen = i

			break
		}
	}
	if chosen < 0 {
		return nil
	}

	jobs := jobsByRoute[chosen]
	ctx.RNG.Shuffle(len(jobs), func(i, j int) { jobs[i], jobs[j] = jobs[j], jobs[i] })
	n := ctx.NumJobsToRemove
	if n <= 0 || n > len(jobs) {
		n = len(jobs)
	}
	route := ws.Route(problem.RouteIdx(chosen))
	for _, job := range jobs[:n] {
		if err := removeJob(ctx.Problem, ws, route, job); err != nil {
			return err
		}
	}

	return nil
}

// routeJobs returns the distinct jobs in route (a Shipment once, despite
// contributing two activities).
func routeJobs(route *routestate.State) []problem.JobIdx {
	return jobsInRange(route, 0, route.Len())
}

// jobsInRange returns the distinct jobs whose activities fall within
// [from,to) of route, snapshotted once so a caller can remove each job
// by ID afterward without position indices shifting under it (removing
// a Shipment evicts both its activities atomically, even when its
// partner sits outside [from,to)).
func jobsInRange(route *routestate.State, from, to int) []problem.JobIdx {
	seen := make(map[problem.JobIdx]struct{})
	var out []problem.JobIdx
	for pos := from; pos < to; pos++ {
		job := route.ActivityAt(pos).Job
		if _, ok := seen[job]; ok {
			continue
		}
		seen[job] = struct{}{}
		out = append(out, job)
	}

	return out
}
