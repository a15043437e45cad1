package recreate

import (
	"sort"

	"github.com/lvlath-vrp/alns/insertion"
	"github.com/lvlath-vrp/alns/problem"
	"github.com/lvlath-vrp/alns/routestate"
)

// workingSolution is the minimal surface recreate operators need, kept
// local so this package does not depend on worksolution for one shared
// method set (mirrors the same convention in insertion and ruin).
type workingSolution interface {
	RouteCount() int
	Route(problem.RouteIdx) *routestate.State
	MarkAssigned(problem.JobIdx, problem.RouteIdx)
	UnassignedJobs() []problem.JobIdx
}

// Context carries the shared input every recreate operator consumes.
type Context struct {
	Problem problem.Query
	Eval    *insertion.Evaluator

	// Concurrency bounds how many unassigned jobs are scored at once.
	Concurrency int

	// InsertOnFailure: when true, a job with no feasible insertion
	// anywhere is still placed at its cheapest-by-transport-cost
	// position, trusting subsequent local search to repair whatever
	// hard-constraint violation that introduces. When false, it is left
	// unassigned.
	InsertOnFailure bool
}

// bestAcrossCompatibleRoutes returns the best feasible insertion of job
// across every route in ws whose vehicle is compatible, scored
// sequentially (the parallelism axis for Greedy/Regret-k is over jobs,
// not routes — see greedy.go/regret.go).
func bestAcrossCompatibleRoutes(ctx Context, ws workingSolution, job problem.JobIdx) (insertion.Insertion, bool) {
	var best insertion.Insertion
	found := false
	for i := 0; i < ws.RouteCount(); i++ {
		idx := problem.RouteIdx(i)
		if !ctx.Problem.IsCompatible(ws.Route(idx).Vehicle(), job) {
			continue
		}
		ins, ok := ctx.Eval.Best(ws.Route(idx), job)
		if !ok {
			continue
		}
		ins.Route = idx
		if !found || ins.Delta < best.Delta {
			best, found = ins, true
		}
	}

	return best, found
}

// topKAcrossCompatibleRoutes collects every route's candidates for job
// across every compatible route, and returns the k globally-cheapest
// (ascending delta), used by Regret-k.
func topKAcrossCompatibleRoutes(ctx Context, ws workingSolution, job problem.JobIdx, k int) []insertion.Insertion {
	var all []insertion.Insertion
	for i := 0; i < ws.RouteCount(); i++ {
		idx := problem.RouteIdx(i)
		if !ctx.Problem.IsCompatible(ws.Route(idx).Vehicle(), job) {
			continue
		}
		for _, ins := range ctx.Eval.Candidates(ws.Route(idx), job) {
			ins.Route = idx
			all = append(all, ins)
		}
	}
	sort.Slice(all, func(i, j int) bool { return all[i].Delta < all[j].Delta })
	if k > 0 && len(all) > k {
		all = all[:k]
	}

	return all
}

// forceAcrossCompatibleRoutes is bestAcrossCompatibleRoutes's
// infeasible-allowed counterpart, used by insert-on-failure.
func forceAcrossCompatibleRoutes(ctx Context, ws workingSolution, job problem.JobIdx) (insertion.Insertion, bool) {
	var best insertion.Insertion
	found := false
	for i := 0; i < ws.RouteCount(); i++ {
		idx := problem.RouteIdx(i)
		if !ctx.Problem.IsCompatible(ws.Route(idx).Vehicle(), job) {
			continue
		}
		ins := ctx.Eval.ForceBest(ws.Route(idx), job)
		ins.Route = idx
		if !found || ins.Delta < best.Delta {
			best, found = ins, true
		}
	}

	return best, found
}
