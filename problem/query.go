package problem

// Query is the read-only surface the solver core consumes. It is
// implemented by StaticProblem for tests and the demo, and may be
// implemented by any caller-supplied adapter (e.g. one backed by a
// precomputed travel-cost matrix service) — the core never type-asserts
// down to a concrete type.
type Query interface {
	// JobCount returns the number of jobs in the problem.
	JobCount() int

	// Job returns the job at idx.
	Job(idx JobIdx) Job

	// VehicleCount returns the number of vehicles in the fleet.
	VehicleCount() int

	// Vehicle returns the vehicle at idx.
	Vehicle(idx VehicleIdx) Vehicle

	// Location returns the location at idx.
	Location(idx LocationIdx) Location

	// Profile returns the vehicle profile at idx.
	Profile(idx ProfileIdx) VehicleProfile

	// TravelDistance returns the distance vehicle v would travel from
	// one location to another; 0 if either endpoint is NoLocation.
	TravelDistance(v VehicleIdx, from, to LocationIdx) float64

	// TravelTime returns the time vehicle v would take to travel from
	// one location to another; 0 if either endpoint is NoLocation.
	TravelTime(v VehicleIdx, from, to LocationIdx) float64

	// TravelCost returns the monetary cost vehicle v would incur
	// traveling from one location to another; 0 if either endpoint is
	// NoLocation.
	TravelCost(v VehicleIdx, from, to LocationIdx) float64

	// IsCompatible reports whether vehicle v may serve job j.
	IsCompatible(v VehicleIdx, j JobIdx) bool

	// MaxCost returns the problem-wide maximum conceivable transport
	// cost, used to normalize noise and regret scoring.
	MaxCost() float64

	// HasTimeWindows reports whether any job in the problem carries a
	// time window constraint.
	HasTimeWindows() bool

	// HasCapacity reports whether any vehicle has a non-empty capacity.
	HasCapacity() bool

	// FixedVehicleCosts returns the sum of fixed costs across the
	// fleet, used to weight the unassigned-job penalty.
	FixedVehicleCosts() float64

	// UnassignedJobCost returns the soft penalty charged per
	// unassigned job.
	UnassignedJobCost() float64

	// WaitingDurationWeight returns the precomputed mean cost/time
	// ratio used to make waiting-time cost commensurable with
	// transport cost.
	WaitingDurationWeight() float64

	// NearestActivities returns a stream of ActivityIDs ordered by
	// increasing distance from loc, across every job still present in
	// the supplied candidate set. The returned slice may be truncated
	// to at most limit entries (limit<=0 means unbounded).
	NearestActivities(loc LocationIdx, candidates []JobIdx, limit int) []ActivityID
}
