package problem

import "errors"

// Sentinel errors for problem construction and lookup.
var (
	// ErrEmptyTerminations indicates a solver config carries no termination criteria.
	ErrEmptyTerminations = errors.New("problem: termination list must not be empty")

	// ErrUnknownProfile indicates a vehicle references a profile index that was never registered.
	ErrUnknownProfile = errors.New("problem: vehicle references unknown profile")

	// ErrNoJobs indicates the problem has no jobs to serve.
	ErrNoJobs = errors.New("problem: no jobs to seed construction")

	// ErrEmptyFleet indicates the problem has no vehicles.
	ErrEmptyFleet = errors.New("problem: fleet is empty")

	// ErrInvalidTimeWindow indicates a TimeWindow has start > end when both are present.
	ErrInvalidTimeWindow = errors.New("problem: time window start must not exceed end")

	// ErrLocationIndex indicates a LocationIdx out of the known range was used.
	ErrLocationIndex = errors.New("problem: location index out of range")

	// ErrVehicleIndex indicates a VehicleIdx out of the known range was used.
	ErrVehicleIndex = errors.New("problem: vehicle index out of range")

	// ErrJobIndex indicates a JobIdx out of the known range was used.
	ErrJobIndex = errors.New("problem: job index out of range")
)

// LocationIdx is a dense index into the problem's location table.
type LocationIdx int

// JobIdx is a dense index into the problem's job table.
type JobIdx int

// VehicleIdx is a dense index into the problem's fleet table.
type VehicleIdx int

// RouteIdx is a dense index into a WorkingSolution's route slice.
type RouteIdx int

// ProfileIdx is a dense index into the problem's VehicleProfile table.
type ProfileIdx int

// NoLocation marks the absence of a depot location.
const NoLocation LocationIdx = -1

// Location is a point in 2D space (projected or lng/lat), identified by
// its dense index in the problem's location table.
type Location struct {
	Idx LocationIdx
	X   float64
	Y   float64
}

// TimeWindow is a closed [Start, End] interval during which service
// may begin (a start exactly at End is admitted). Either bound may be absent (nil), meaning unbounded on
// that side.
type TimeWindow struct {
	Start *float64
	End   *float64
}

// Unbounded reports a TimeWindow with no bounds at all.
func Unbounded() TimeWindow { return TimeWindow{} }

// Window returns a fully-bounded TimeWindow [start, end].
func Window(start, end float64) TimeWindow {
	s, e := start, end

	return TimeWindow{Start: &s, End: &e}
}

// Validate reports ErrInvalidTimeWindow if both bounds are present and
// Start > End.
func (w TimeWindow) Validate() error {
	if w.Start != nil && w.End != nil && *w.Start > *w.End {
		return ErrInvalidTimeWindow
	}

	return nil
}

// Admits reports whether arrival t may begin service within w.
func (w TimeWindow) Admits(t float64) bool {
	if w.Start != nil && t < *w.Start {
		return false
	}
	if w.End != nil && t > *w.End {
		return false
	}

	return true
}

// TimeWindows is a set of alternative windows; an arrival is satisfied
// if any member admits it.
type TimeWindows []TimeWindow

// Admits reports whether any window in the set admits t. An empty set
// admits every arrival (no time-window constraint).
func (ws TimeWindows) Admits(t float64) bool {
	if len(ws) == 0 {
		return true
	}
	for _, w := range ws {
		if w.Admits(t) {
			return true
		}
	}

	return false
}

// BestStart returns the earliest feasible service-start time at or
// after arrival t, and whether one exists among ws. An empty set always
// admits t unchanged.
func (ws TimeWindows) BestStart(t float64) (float64, bool) {
	if len(ws) == 0 {
		return t, true
	}
	best := 0.0
	found := false
	for _, w := range ws {
		start := t
		if w.Start != nil && start < *w.Start {
			start = *w.Start
		}
		if w.End != nil && start > *w.End {
			continue
		}
		if !found || start < best {
			best = start
			found = true
		}
	}

	return best, found
}

// ActivityKind tags the role an ActivityID plays within a route.
type ActivityKind uint8

const (
	// Service is a single-activity job.
	Service ActivityKind = iota
	// ShipmentPickup is the pickup half of a shipment pair.
	ShipmentPickup
	// ShipmentDelivery is the delivery half of a shipment pair.
	ShipmentDelivery
)

// ActivityID identifies one activity within a route: which job it
// belongs to and which role (service, pickup, or delivery) it plays.
type ActivityID struct {
	Kind ActivityKind
	Job  JobIdx
}

// IsPickup reports whether this activity adds load to the vehicle.
func (a ActivityID) IsPickup() bool {
	return a.Kind == ShipmentPickup
}

// IsDelivery reports whether this activity is a shipment delivery,
// which removes load from the vehicle. A Service's pickup or delivery
// role is carried by its Job's ServiceRole, not by the ActivityID.
func (a ActivityID) IsDelivery() bool {
	return a.Kind == ShipmentDelivery
}

// JobKind tags whether a Job is a single-activity Service or a
// pickup-delivery Shipment.
type JobKind uint8

const (
	// ServiceJob is a single activity at one location.
	ServiceJob JobKind = iota
	// ShipmentJob is an ordered pickup->delivery pair sharing one demand.
	ShipmentJob
)

// PickupOrDelivery further tags a Service job's role in the depot load
// accounting (shipments always pick up at the pickup half and deliver
// at the delivery half, so this only applies to ServiceJob).
type PickupOrDelivery uint8

const (
	// AsDelivery consumes load carried from the depot.
	AsDelivery PickupOrDelivery = iota
	// AsPickup adds load to be carried to the depot.
	AsPickup
)

// Job is a tagged variant: a single-activity Service, or an ordered
// Shipment pickup/delivery pair. Exactly one of the Service* or
// Shipment* field groups is meaningful, selected by Kind.
type Job struct {
	Idx  JobIdx
	Kind JobKind

	// Service fields (Kind == ServiceJob).
	ServiceLocation LocationIdx
	ServiceDemand   ServiceDemandFn
	ServiceWindows  TimeWindows
	ServiceDuration float64
	ServiceRole     PickupOrDelivery
	Tags            []string

	// Shipment fields (Kind == ShipmentJob).
	PickupLocation    LocationIdx
	PickupWindows     TimeWindows
	PickupDuration    float64
	DeliveryLocation  LocationIdx
	DeliveryWindows   TimeWindows
	DeliveryDuration  float64
	ShipmentDemandAmt ShipmentDemand
}

// ServiceDemandFn is the type of Job.ServiceDemand: an alias of Demand,
// a plain value holding a slice, not a func type.
type ServiceDemandFn = Demand

// Demand is the non-negative per-dimension quantity a Service adds
// (AsPickup) or removes (AsDelivery) from the vehicle's carried load.
type Demand struct {
	Values []float64
}

// ShipmentDemand is the demand added at pickup and subtracted at
// delivery for a Shipment job.
type ShipmentDemand struct {
	Values []float64
}

// Location returns the activity's location for a given ActivityID
// belonging to this job.
func (j Job) Location(a ActivityID) LocationIdx {
	switch j.Kind {
	case ServiceJob:
		return j.ServiceLocation
	case ShipmentJob:
		if a.Kind == ShipmentPickup {
			return j.PickupLocation
		}

		return j.DeliveryLocation
	}

	return NoLocation
}

// Windows returns the activity's time windows.
func (j Job) Windows(a ActivityID) TimeWindows {
	switch j.Kind {
	case ServiceJob:
		return j.ServiceWindows
	case ShipmentJob:
		if a.Kind == ShipmentPickup {
			return j.PickupWindows
		}

		return j.DeliveryWindows
	}

	return nil
}

// Duration returns the activity's service duration.
func (j Job) Duration(a ActivityID) float64 {
	switch j.Kind {
	case ServiceJob:
		return j.ServiceDuration
	case ShipmentJob:
		if a.Kind == ShipmentPickup {
			return j.PickupDuration
		}

		return j.DeliveryDuration
	}

	return 0
}
