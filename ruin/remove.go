package ruin

import (
	"github.com/lvlath-vrp/alns/problem"
	"github.com/lvlath-vrp/alns/routestate"
	"github.com/lvlath-vrp/alns/score"
)

// removeJob evicts job's activity(ies) from route and moves it to ws's
// unassigned set. No-op error if job is not actually present in route.
func removeJob(query problem.Query, ws workingSolution, route *routestate.State, job problem.JobIdx) error {
	if query.Job(job).Kind == problem.ShipmentJob {
		if err := route.RemoveShipment(job); err != nil {
			return err
		}
	} else {
		pos := route.IndexOf(problem.ActivityID{Kind: problem.Service, Job: job})
		if pos < 0 {
			return routestate.ErrActivityNotFound
		}
		if err := route.Remove(pos); err != nil {
			return err
		}
	}
	ws.MarkUnassigned(job)

	return nil
}

// removeJobs evicts every job in jobs from route, skipping any that a
// prior call in the same batch already moved to unassigned (this
// happens when a Shipment's two activities land in two different
// sub-ranges of the same batch, e.g. Split-String's outer chunks).
func removeJobs(query problem.Query, ws workingSolution, route *routestate.State, jobs []problem.JobIdx) error {
	for _, job := range jobs {
		if _, stillAssigned := ws.RouteOf(job); !stillAssigned {
			continue
		}
		if err := removeJob(query, ws, route, job); err != nil {
			return err
		}
	}

	return nil
}

// assignedJobs returns every distinct job currently assigned to some
// route in ws (a Shipment counts once, regardless of its two activities).
func assignedJobs(ws workingSolution) []problem.JobIdx {
	seen := make(map[problem.JobIdx]struct{})
	var out []problem.JobIdx
	for i := 0; i < ws.RouteCount(); i++ {
		for _, job := range routeJobs(ws.Route(problem.RouteIdx(i))) {
			if _, ok := seen[job]; ok {
				continue
			}
			seen[job] = struct{}{}
			out = append(out, job)
		}
	}

	return out
}

// removalSoftGain returns the soft cost (transport+waiting, weighted)
// that job currently contributes at its position in route: the amount
// the route's soft score would drop if job were removed.
func removalSoftGain(query problem.Query, weights score.Weights, route *routestate.State, job problem.JobIdx) float64 {
	var start, end int
	var iter []problem.ActivityID
	if query.Job(job).Kind == problem.ShipmentJob {
		pPos := route.IndexOf(problem.ActivityID{Kind: problem.ShipmentPickup, Job: job})
		dPos := route.IndexOf(problem.ActivityID{Kind: problem.ShipmentDelivery, Job: job})
		if pPos < 0 || dPos < 0 {
			return 0
		}
		// Mirror RemoveShipment: drop the pickup/delivery pair but keep
		// whatever activities sit between them.
		iter = route.ActivityIDs()[pPos+1 : dPos]
		start, end = pPos, dPos+1
	} else {
		pos := route.IndexOf(problem.ActivityID{Kind: problem.Service, Job: job})
		if pos < 0 {
			return 0
		}
		start, end = pos, pos+1
	}

	transportDelta := route.TransportCostDelta(iter, start, end)
	waitingDelta, ok := route.WaitingDurationDelta(iter, start, end)
	if !ok {
		waitingDelta = 0
	}

	return -(transportDelta*weights.TransportCost + waitingDelta*query.WaitingDurationWeight()*weights.WaitingDuration)
}
