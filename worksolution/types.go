package worksolution

import (
	"hash/fnv"
	"sort"

	"github.com/lvlath-vrp/alns/problem"
	"github.com/lvlath-vrp/alns/routestate"
)

// WorkingSolution is an ordered list of routes, one per fleet slot at
// construction, plus the set of jobs not currently assigned to any
// route. Extra routes may be appended via AddRoute when a recreate
// operator wants to open another instance of an available vehicle.
//
// Invariant: every job belongs to exactly one route or to unassigned
// (a Shipment counts once, by its JobIdx, regardless of how many
// activities it contributes to a route).
type WorkingSolution struct {
	query  problem.Query
	routes []*routestate.State

	unassigned map[problem.JobIdx]struct{}

	// location tracks, for every currently assigned job, which route it
	// lives in. Maintained explicitly by MarkAssigned/MarkUnassigned
	// rather than recomputed by scanning routes, so ruin/recreate
	// operators get O(1) "which route is job J in" lookups.
	location map[problem.JobIdx]problem.RouteIdx
}

// New builds a WorkingSolution with one empty route per vehicle in the
// fleet and every job unassigned.
func New(query problem.Query) *WorkingSolution {
	ws := &WorkingSolution{
		query:      query,
		routes:     make([]*routestate.State, query.VehicleCount()),
		unassigned: make(map[problem.JobIdx]struct{}, query.JobCount()),
		location:   make(map[problem.JobIdx]problem.RouteIdx, query.JobCount()),
	}
	for v := 0; v < query.VehicleCount(); v++ {
		ws.routes[v] = routestate.NewState(query, problem.VehicleIdx(v))
	}
	for j := 0; j < query.JobCount(); j++ {
		ws.unassigned[problem.JobIdx(j)] = struct{}{}
	}

	return ws
}

// Clone returns an independent deep copy: every route is cloned, and
// the unassigned/location sets are copied.
func (ws *WorkingSolution) Clone() *WorkingSolution {
	cp := &WorkingSolution{
		query:      ws.query,
		routes:     make([]*routestate.State, len(ws.routes)),
		unassigned: make(map[problem.JobIdx]struct{}, len(ws.unassigned)),
		location:   make(map[problem.JobIdx]problem.RouteIdx, len(ws.location)),
	}
	for i, r := range ws.routes {
		cp.routes[i] = r.Clone()
	}
	for j := range ws.unassigned {
		cp.unassigned[j] = struct{}{}
	}
	for j, r := range ws.location {
		cp.location[j] = r
	}

	return cp
}

// RouteCount reports the number of routes, including any opened via AddRoute.
func (ws *WorkingSolution) RouteCount() int { return len(ws.routes) }

// Route returns the route at idx.
func (ws *WorkingSolution) Route(idx problem.RouteIdx) *routestate.State { return ws.routes[idx] }

// Routes returns the underlying route slice. Callers must not retain it
// across a mutation that appends routes.
func (ws *WorkingSolution) Routes() []*routestate.State { return ws.routes }

// AddRoute appends a new empty route for vehicle and returns its index.
func (ws *WorkingSolution) AddRoute(vehicle problem.VehicleIdx) problem.RouteIdx {
	idx := problem.RouteIdx(len(ws.routes))
	ws.routes = append(ws.routes, routestate.NewState(ws.query, vehicle))

	return idx
}

// IsUnassigned reports whether job currently sits in the unassigned set.
func (ws *WorkingSolution) IsUnassigned(job problem.JobIdx) bool {
	_, ok := ws.unassigned[job]

	return ok
}

// UnassignedCount reports the size of the unassigned set.
func (ws *WorkingSolution) UnassignedCount() int { return len(ws.unassigned) }

// UnassignedJobs returns a snapshot of the unassigned set.
func (ws *WorkingSolution) UnassignedJobs() []problem.JobIdx {
	out := make([]problem.JobIdx, 0, len(ws.unassigned))
	for j := range ws.unassigned {
		out = append(out, j)
	}

	return out
}

// RouteOf returns the route job currently occupies, and whether it is assigned at all.
func (ws *WorkingSolution) RouteOf(job problem.JobIdx) (problem.RouteIdx, bool) {
	r, ok := ws.location[job]

	return r, ok
}

// MarkUnassigned moves job into the unassigned set. Callers are
// responsible for having already removed its activities from whatever
// route held it (routestate.Remove / RemoveShipment).
func (ws *WorkingSolution) MarkUnassigned(job problem.JobIdx) {
	ws.unassigned[job] = struct{}{}
	delete(ws.location, job)
}

// MarkAssigned moves job out of the unassigned set and records route as
// its new home. Callers are responsible for having already inserted its
// activities into that route.
func (ws *WorkingSolution) MarkAssigned(job problem.JobIdx, route problem.RouteIdx) {
	delete(ws.unassigned, job)
	ws.location[job] = route
}

// CheckInvariants validates the testable property that every job
// belongs to exactly one route or to unassigned, with no duplicates: it
// scans every route's activities and cross-checks against the
// unassigned set and the problem's job count. Intended for tests, not
// the hot path.
func (ws *WorkingSolution) CheckInvariants() error {
	seen := make(map[problem.JobIdx]int, ws.query.JobCount())
	for ri, r := range ws.routes {
		for _, a := range r.ActivityIDs() {
			if prev, dup := seen[a.Job]; dup && prev != ri {
				return &InvariantViolation{Job: a.Job, RouteA: prev, RouteB: ri}
			}
			seen[a.Job] = ri
		}
	}
	for j := 0; j < ws.query.JobCount(); j++ {
		job := problem.JobIdx(j)
		_, inRoute := seen[job]
		_, inUnassigned := ws.unassigned[job]
		if inRoute == inUnassigned {
			// Present in both, or in neither: either way the union
			// invariant (route activities ⊎ unassigned == all jobs) breaks.
			return &InvariantViolation{Job: job, Missing: !inRoute && !inUnassigned, Duplicated: inRoute && inUnassigned}
		}
	}

	return nil
}

// Fingerprint returns a content hash of every route's activity sequence
// and the unassigned set, used by Pool/Tabu to dedupe solutions that are
// structurally identical without comparing full route slices. Two
// WorkingSolutions with the same Fingerprint are considered the same
// solution for pool-membership purposes.
func (ws *WorkingSolution) Fingerprint() uint64 {
	h := fnv.New64a()
	buf := make([]byte, 8)
	for _, r := range ws.routes {
		for _, a := range r.ActivityIDs() {
			buf[0] = byte(a.Kind)
			putUint56(buf[1:], uint64(a.Job))
			h.Write(buf)
		}
		h.Write([]byte{0xff})
	}
	unassigned := ws.UnassignedJobs()
	sort.Slice(unassigned, func(i, j int) bool { return unassigned[i] < unassigned[j] })
	for _, j := range unassigned {
		putUint56(buf, uint64(j))
		h.Write(buf[:7])
	}

	return h.Sum64()
}

// putUint56 writes v into a 7-byte little-endian field; JobIdx/route
// sizes never approach 2^56, so seven bytes hold any index.
func putUint56(dst []byte, v uint64) {
	for i := 0; i < 7; i++ {
		dst[i] = byte(v >> (8 * i))
	}
}

// InvariantViolation describes a WorkingSolution consistency failure
// detected by CheckInvariants.
type InvariantViolation struct {
	Job            problem.JobIdx
	RouteA, RouteB int
	Missing        bool
	Duplicated     bool
}

func (e *InvariantViolation) Error() string {
	switch {
	case e.Missing:
		return "worksolution: job present in neither a route nor unassigned"
	case e.Duplicated:
		return "worksolution: job present in both a route and unassigned"
	default:
		return "worksolution: job present in two routes simultaneously"
	}
}
