package problem

import "github.com/lvlath-vrp/alns/amount"

// VehicleProfile holds the pairwise travel-cost matrices for every
// vehicle sharing that profile. Matrices may be asymmetric; Distance,
// Time, and Cost are indexed [from][to].
type VehicleProfile struct {
	Idx      ProfileIdx
	Distance [][]float64
	Time     [][]float64
	Cost     [][]float64
}

// Vehicle describes one fleet member: capacity, optional depot,
// earliest start, optional shift/duration/activity bounds, and a
// compatibility predicate against jobs.
type Vehicle struct {
	Idx     VehicleIdx
	Profile ProfileIdx

	Capacity amount.Amount

	// Depot is NoLocation for a vehicle with no fixed depot (no
	// start/end travel edge is charged).
	Depot LocationIdx

	EarliestStart float64

	// MaxWorkingDuration is nil when unbounded.
	MaxWorkingDuration *float64

	// MaxActivities is 0 when unbounded.
	MaxActivities int

	// ShiftEnd is nil when unbounded.
	ShiftEnd *float64

	// DepotDwellStart/DepotDwellEnd model optional fixed dwell
	// durations spent at the depot before departure / after return.
	DepotDwellStart float64
	DepotDwellEnd   float64

	ShouldReturnToDepot bool

	FixedCost float64

	compatible func(job JobIdx) bool
}

// VehicleOption configures a Vehicle at construction time.
type VehicleOption func(*Vehicle)

// WithDepot sets a fixed depot location.
func WithDepot(loc LocationIdx) VehicleOption {
	return func(v *Vehicle) { v.Depot = loc }
}

// WithMaxWorkingDuration bounds the total route duration.
func WithMaxWorkingDuration(d float64) VehicleOption {
	return func(v *Vehicle) { v.MaxWorkingDuration = &d }
}

// WithMaxActivities bounds the number of activities a route may hold.
func WithMaxActivities(n int) VehicleOption {
	return func(v *Vehicle) { v.MaxActivities = n }
}

// WithShiftEnd bounds the latest departure time from the last activity.
func WithShiftEnd(t float64) VehicleOption {
	return func(v *Vehicle) { v.ShiftEnd = &t }
}

// WithReturnToDepot toggles whether the route must close back at the depot.
func WithReturnToDepot(should bool) VehicleOption {
	return func(v *Vehicle) { v.ShouldReturnToDepot = should }
}

// WithFixedCost sets the soft fixed cost charged when the route is non-empty.
func WithFixedCost(cost float64) VehicleOption {
	return func(v *Vehicle) { v.FixedCost = cost }
}

// WithCompatibility installs a job-compatibility predicate; nil means
// compatible with every job.
func WithCompatibility(fn func(JobIdx) bool) VehicleOption {
	return func(v *Vehicle) { v.compatible = fn }
}

// NewVehicle constructs a Vehicle with the given index, profile,
// capacity, earliest start and options. Depot defaults to NoLocation.
func NewVehicle(idx VehicleIdx, profile ProfileIdx, capacity amount.Amount, earliestStart float64, opts ...VehicleOption) Vehicle {
	v := Vehicle{
		Idx:           idx,
		Profile:       profile,
		Capacity:      capacity,
		Depot:         NoLocation,
		EarliestStart: earliestStart,
	}
	for _, opt := range opts {
		opt(&v)
	}

	return v
}

// CompatibleWith reports whether this vehicle may serve job.
func (v Vehicle) CompatibleWith(job JobIdx) bool {
	if v.compatible == nil {
		return true
	}

	return v.compatible(job)
}

// HasDepot reports whether the vehicle has a fixed depot location.
func (v Vehicle) HasDepot() bool {
	return v.Depot != NoLocation
}
