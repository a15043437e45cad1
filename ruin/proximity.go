package ruin

import (
	"github.com/lvlath-vrp/alns/problem"
)

// Proximity seeds on a random currently-assigned job, then repeatedly
// removes one of its Params.ProximityK nearest still-present jobs,
// promoting geographic locality in the ruined set.
type Proximity struct{}

// Apply implements Operator.
func (Proximity) Apply(ws workingSolution, ctx Context) error {
	present := assignedJobs(ws)
	if len(present) == 0 {
		return nil
	}

	seed := present[ctx.RNG.Intn(len(present))]
	k := ctx.Params.ProximityK
	if k <= 0 {
		k = 5
	}

	removed := make(map[problem.JobIdx]struct{})
	if err := removeOne(ctx, ws, seed, removed); err != nil {
		return err
	}

	anchorLoc := seedLocation(ctx.Problem, seed)
	for len(removed) < ctx.NumJobsToRemove {
		candidates := remaining(present, removed)
		if len(candidates) == 0 {
			break
		}
		nearest := ctx.Problem.NearestActivities(anchorLoc, candidates, k)
		if len(nearest) == 0 {
			break
		}
		next := nearest[ctx.RNG.Intn(len(nearest))].Job
		if err := removeOne(ctx, ws, next, removed); err != nil {
			return err
		}
	}

	return nil
}

func removeOne(ctx Context, ws workingSolution, job problem.JobIdx, removed map[problem.JobIdx]struct{}) error {
	routeIdx, ok := ws.RouteOf(job)
	if !ok {
		removed[job] = struct{}{}

		return nil
	}
	if err := removeJob(ctx.Problem, ws, ws.Route(routeIdx), job); err != nil {
		return err
	}
	removed[job] = struct{}{}

	return nil
}

func remaining(all []problem.JobIdx, removed map[problem.JobIdx]struct{}) []problem.JobIdx {
	out := make([]problem.JobIdx, 0, len(all)-len(removed))
	for _, j := range all {
		if _, ok := removed[j]; !ok {
			out = append(out, j)
		}
	}

	return out
}

// seedLocation returns a representative location for job: its service
// location, or its pickup location for a shipment.
func seedLocation(query problem.Query, job problem.JobIdx) problem.LocationIdx {
	j := query.Job(job)
	if j.Kind == problem.ShipmentJob {
		return j.PickupLocation
	}

	return j.ServiceLocation
}
