package solver

import (
	stdcontext "context"
	"math"
	"sort"

	"github.com/lvlath-vrp/alns/insertion"
	"github.com/lvlath-vrp/alns/intensify"
	"github.com/lvlath-vrp/alns/problem"
	"github.com/lvlath-vrp/alns/recreate"
	"github.com/lvlath-vrp/alns/score"
	"github.com/lvlath-vrp/alns/worksolution"
)

// construct builds an initial WorkingSolution: it seeds one route per
// member of a convex-hull-and-urgency-driven customer selection, places
// the remaining unassigned jobs with greedy best insertion, and then
// runs the Intensifier over every non-empty route. Mirrors the
// seed-then-insert-then-polish shape of a classic ALNS construction
// heuristic; insertion never forces an infeasible placement here
// (insert_on_failure is a ruin/recreate-loop policy, not a construction
// one) so a leftover unassigned job after this pass is expected, not a
// bug.
func construct(ctx stdcontext.Context, query problem.Query, eval *insertion.Evaluator, weights score.Weights, concurrency int) (*worksolution.WorkingSolution, error) {
	ws := worksolution.New(query)

	kMin := kMinVehicles(query)
	if kMin > query.VehicleCount() {
		kMin = query.VehicleCount()
	}

	seeds := seedCustomers(query, kMin)
	if len(seeds) == 0 {
		return nil, &ConstructionError{Err: ErrNoSeedCustomers}
	}

	for i, job := range seeds {
		if i >= ws.RouteCount() {
			break
		}
		route := ws.Route(problem.RouteIdx(i))
		if err := placeSeed(query, route, job); err != nil {
			return nil, &ConstructionError{Err: err}
		}
		ws.MarkAssigned(job, problem.RouteIdx(i))
	}

	rc := recreate.Context{Problem: query, Eval: eval, Concurrency: concurrency, InsertOnFailure: false}
	if err := (recreate.Greedy{}).Apply(ctx, ws, rc); err != nil {
		return nil, &ConstructionError{Err: err}
	}

	engine := intensify.NewEngine()
	for i := 0; i < ws.RouteCount(); i++ {
		if ws.Route(problem.RouteIdx(i)).Len() == 0 {
			continue
		}
		icfg := intensify.Context{Problem: query, Weights: weights, Eval: eval, Concurrency: concurrency}
		if _, err := engine.Run(ctx, ws, icfg); err != nil {
			return nil, &ConstructionError{Err: err}
		}
	}

	return ws, nil
}

// placeSeed inserts job as the sole activity of an empty route, at
// position 0, the way every teacher seed placement opens a fresh route.
func placeSeed(query problem.Query, route interface {
	Insert(pos int, id problem.ActivityID) error
	InsertShipmentAt(pickupPos, deliveryPos int, job problem.JobIdx) error
}, job problem.JobIdx) error {
	if query.Job(job).Kind == problem.ShipmentJob {
		return route.InsertShipmentAt(0, 0, job)
	}

	return route.Insert(0, problem.ActivityID{Kind: problem.Service, Job: job})
}

// kMinVehicles estimates the minimum fleet size construction should
// try to seed: the smallest k such that k vehicles at the fleet's
// largest per-dimension capacity could in principle carry the
// problem's total demand, one dimension at a time (construct clamps
// the result to the fleet actually available).
func kMinVehicles(query problem.Query) int {
	dims := 0
	maxCap := make([]float64, 0)
	for v := 0; v < query.VehicleCount(); v++ {
		cap := query.Vehicle(problem.VehicleIdx(v)).Capacity
		if cap.Len() > dims {
			dims = cap.Len()
			for len(maxCap) < dims {
				maxCap = append(maxCap, 0)
			}
		}
		for d := 0; d < cap.Len(); d++ {
			if v := cap.Get(d); v > maxCap[d] {
				maxCap[d] = v
			}
		}
	}
	if dims == 0 {
		return query.VehicleCount()
	}

	total := make([]float64, dims)
	for j := 0; j < query.JobCount(); j++ {
		job := query.Job(problem.JobIdx(j))
		var demand []float64
		if job.Kind == problem.ShipmentJob {
			demand = job.ShipmentDemandAmt.Values
		} else {
			demand = job.ServiceDemand.Values
		}
		for d, v := range demand {
			if d >= dims {
				break
			}
			total[d] += math.Abs(v)
		}
	}

	kMin := 1
	for d := 0; d < dims; d++ {
		if maxCap[d] <= 0 {
			continue
		}
		need := int(math.Ceil(total[d] / maxCap[d]))
		if need > kMin {
			kMin = need
		}
	}
	if kMin < 1 {
		kMin = 1
	}

	return kMin
}

// jobLocations returns every LocationIdx job touches: one for a
// Service, two for a Shipment.
func jobLocations(query problem.Query, job problem.JobIdx) []problem.LocationIdx {
	j := query.Job(job)
	if j.Kind == problem.ShipmentJob {
		return []problem.LocationIdx{j.PickupLocation, j.DeliveryLocation}
	}

	return []problem.LocationIdx{j.ServiceLocation}
}

// convexHull partitions every job into exterior (touches the convex
// hull of every Service job's location) and interior (does not). Hull
// membership is computed purely over Service locations since a
// Shipment's two endpoints rarely bound a meaningful customer region,
// then any job with a location on the hull boundary is classified
// exterior.
func convexHull(query problem.Query) (exterior, interior []problem.JobIdx) {
	locSet := map[problem.LocationIdx]struct{}{}
	var pts []problem.Location
	for j := 0; j < query.JobCount(); j++ {
		job := query.Job(problem.JobIdx(j))
		if job.Kind != problem.ServiceJob {
			continue
		}
		loc := job.ServiceLocation
		if loc == problem.NoLocation {
			continue
		}
		if _, seen := locSet[loc]; seen {
			continue
		}
		locSet[loc] = struct{}{}
		pts = append(pts, query.Location(loc))
	}

	hull := monotoneChainHull(pts)
	hullSet := make(map[problem.LocationIdx]struct{}, len(hull))
	for _, p := range hull {
		hullSet[p.Idx] = struct{}{}
	}

	for j := 0; j < query.JobCount(); j++ {
		job := problem.JobIdx(j)
		onHull := false
		for _, loc := range jobLocations(query, job) {
			if _, ok := hullSet[loc]; ok {
				onHull = true

				break
			}
		}
		if onHull {
			exterior = append(exterior, job)
		} else {
			interior = append(interior, job)
		}
	}

	return exterior, interior
}

// monotoneChainHull returns the convex hull of pts via Andrew's
// monotone chain algorithm, in counter-clockwise order starting from
// the leftmost point (the lowest one among ties). Collinear boundary points are
// excluded, matching a strict convex hull.
func monotoneChainHull(pts []problem.Location) []problem.Location {
	if len(pts) < 3 {
		return append([]problem.Location(nil), pts...)
	}

	sorted := append([]problem.Location(nil), pts...)
	sort.Slice(sorted, func(i, j int) bool {
		if sorted[i].X != sorted[j].X {
			return sorted[i].X < sorted[j].X
		}

		return sorted[i].Y < sorted[j].Y
	})

	cross := func(o, a, b problem.Location) float64 {
		return (a.X-o.X)*(b.Y-o.Y) - (a.Y-o.Y)*(b.X-o.X)
	}

	lower := make([]problem.Location, 0, len(sorted))
	for _, p := range sorted {
		for len(lower) >= 2 && cross(lower[len(lower)-2], lower[len(lower)-1], p) <= 0 {
			lower = lower[:len(lower)-1]
		}
		lower = append(lower, p)
	}

	upper := make([]problem.Location, 0, len(sorted))
	for i := len(sorted) - 1; i >= 0; i-- {
		p := sorted[i]
		for len(upper) >= 2 && cross(upper[len(upper)-2], upper[len(upper)-1], p) <= 0 {
			upper = upper[:len(upper)-1]
		}
		upper = append(upper, p)
	}

	return append(lower[:len(lower)-1], upper[:len(upper)-1]...)
}

// seedCustomers picks up to kMin jobs to seed one route each: the
// exterior job farthest from the depot starts the set, then each
// further pick is whichever remaining candidate (best exterior
// contender by minimum distance to the seeds so far, or the next
// interior job in urgency order) sits farther from every seed already
// chosen, maximizing dispersion across the fleet the way a
// farthest-point construction heuristic does.
func seedCustomers(query problem.Query, kMin int) []problem.JobIdx {
	if kMin <= 0 {
		return nil
	}

	exterior, interior := convexHull(query)
	interior = sortInteriorByUrgency(query, interior)

	depot := findDepot(query)

	var seeds []problem.JobIdx
	if len(exterior) > 0 {
		farthest, rest := popFarthestFromDepot(query, depot, exterior)
		seeds = append(seeds, farthest)
		exterior = rest
	} else if len(interior) > 0 {
		seeds = append(seeds, interior[0])
		interior = interior[1:]
	} else {
		return nil
	}

	for len(seeds) < kMin && (len(exterior) > 0 || len(interior) > 0) {
		var extCand, intCand problem.JobIdx
		var extDist, intDist float64
		haveExt, haveInt := false, false

		if len(exterior) > 0 {
			idx, d := bestByMinDistanceToSeeds(query, exterior, seeds)
			extCand, extDist, haveExt = exterior[idx], d, true
		}
		if len(interior) > 0 {
			intCand, intDist, haveInt = interior[0], minDistanceToSeeds(query, interior[0], seeds), true
		}

		switch {
		case haveExt && (!haveInt || extDist >= intDist):
			seeds = append(seeds, extCand)
			exterior = removeJob(exterior, extCand)
		case haveInt:
			seeds = append(seeds, intCand)
			interior = interior[1:]
		default:
			return seeds
		}
	}

	return seeds
}

func removeJob(jobs []problem.JobIdx, job problem.JobIdx) []problem.JobIdx {
	out := make([]problem.JobIdx, 0, len(jobs)-1)
	for _, j := range jobs {
		if j != job {
			out = append(out, j)
		}
	}

	return out
}

// bestByMinDistanceToSeeds returns the index into candidates of the job
// with the largest minimum travel cost to any job already in seeds
// (maximizing dispersion), plus that distance.
func bestByMinDistanceToSeeds(query problem.Query, candidates, seeds []problem.JobIdx) (int, float64) {
	bestIdx := 0
	bestDist := -1.0
	for i, c := range candidates {
		d := minDistanceToSeeds(query, c, seeds)
		if d > bestDist {
			bestDist, bestIdx = d, i
		}
	}

	return bestIdx, bestDist
}

func minDistanceToSeeds(query problem.Query, job problem.JobIdx, seeds []problem.JobIdx) float64 {
	if len(seeds) == 0 {
		return math.Inf(1)
	}
	loc := jobLocations(query, job)[0]
	min := math.Inf(1)
	for _, s := range seeds {
		sloc := jobLocations(query, s)[0]
		d := query.TravelCost(0, loc, sloc)
		if d < min {
			min = d
		}
	}

	return min
}

// popFarthestFromDepot returns the job in jobs with the greatest travel
// cost from depot, plus the remaining slice with it removed.
func popFarthestFromDepot(query problem.Query, depot problem.LocationIdx, jobs []problem.JobIdx) (problem.JobIdx, []problem.JobIdx) {
	bestIdx := 0
	bestDist := -1.0
	for i, j := range jobs {
		loc := jobLocations(query, j)[0]
		d := query.TravelCost(0, depot, loc)
		if d > bestDist {
			bestDist, bestIdx = d, i
		}
	}

	picked := jobs[bestIdx]
	rest := make([]problem.JobIdx, 0, len(jobs)-1)
	rest = append(rest, jobs[:bestIdx]...)
	rest = append(rest, jobs[bestIdx+1:]...)

	return picked, rest
}

// findDepot returns the first vehicle's depot location, or NoLocation
// if the fleet has none.
func findDepot(query problem.Query) problem.LocationIdx {
	for v := 0; v < query.VehicleCount(); v++ {
		if d := query.Vehicle(problem.VehicleIdx(v)).Depot; d != problem.NoLocation {
			return d
		}
	}

	return problem.NoLocation
}

// sortInteriorByUrgency orders interior jobs most-urgent first: by
// smallest latest-window-end minus travel time from the depot when the problem
// carries time windows, by largest first-dimension demand when it
// carries capacity, or by travel cost from the depot otherwise.
func sortInteriorByUrgency(query problem.Query, interior []problem.JobIdx) []problem.JobIdx {
	out := append([]problem.JobIdx(nil), interior...)
	depot := findDepot(query)

	urgency := func(job problem.JobIdx) float64 {
		j := query.Job(job)
		loc := jobLocations(query, job)[0]
		travel := query.TravelTime(0, depot, loc)

		switch {
		case query.HasTimeWindows():
			windows := j.ServiceWindows
			if j.Kind == problem.ShipmentJob {
				windows = j.DeliveryWindows
			}
			end := math.Inf(1)
			if len(windows) > 0 && windows[len(windows)-1].End != nil {
				end = *windows[len(windows)-1].End
			}

			return travel - end
		case query.HasCapacity():
			if j.Kind == problem.ShipmentJob {
				if len(j.ShipmentDemandAmt.Values) > 0 {
					return j.ShipmentDemandAmt.Values[0]
				}

				return 0
			}
			if len(j.ServiceDemand.Values) > 0 {
				return j.ServiceDemand.Values[0]
			}

			return 0
		default:
			return query.TravelCost(0, depot, loc)
		}
	}

	sort.SliceStable(out, func(i, j int) bool { return urgency(out[i]) > urgency(out[j]) })

	return out
}
