package routestate

import (
	"github.com/lvlath-vrp/alns/amount"
	"github.com/lvlath-vrp/alns/problem"
)

// BBox is an axis-aligned bounding box over every activity location in
// a route, used to prune route-pair candidates in string-ruin seeding
// (design note in SPEC_FULL.md §9).
type BBox struct {
	MinX, MinY, MaxX, MaxY float64
	Empty                  bool
}

// Intersects reports whether two bounding boxes overlap. Two empty
// boxes, or one empty box, never intersect.
func (b BBox) Intersects(o BBox) bool {
	if b.Empty || o.Empty {
		return false
	}

	return b.MinX <= o.MaxX && o.MinX <= b.MaxX && b.MinY <= o.MaxY && o.MinY <= b.MaxY
}

func emptyBBox() BBox { return BBox{Empty: true} }

func (b *BBox) extend(x, y float64) {
	if b.Empty {
		b.MinX, b.MaxX, b.MinY, b.MaxY, b.Empty = x, x, y, y, false

		return
	}
	if x < b.MinX {
		b.MinX = x
	}
	if x > b.MaxX {
		b.MaxX = x
	}
	if y < b.MinY {
		b.MinY = y
	}
	if y > b.MaxY {
		b.MaxY = y
	}
}

// State is the per-route incremental cache. It is mutated only through
// its Insert/Remove/ReplaceActivities/Swap/Move methods; every other
// method is a read.
type State struct {
	query   problem.Query
	vehicle problem.VehicleIdx

	activityIDs []problem.ActivityID

	arrival    []float64
	departure  []float64
	waiting    []float64
	timeSlacks []float64

	fwdLoadPickups    []amount.Amount
	fwdLoadDeliveries []amount.Amount
	fwdLoadShipments  []amount.Amount
	bwdLoadPickups    []amount.Amount
	bwdLoadDeliveries []amount.Amount

	// currentLoad has len(activityIDs)+2 entries: index 0 is the depot
	// departure load, index len+1 is the depot return load; index i+1
	// is the load just after activity i has been served.
	currentLoad []amount.Amount

	fwdLoadPeaks []amount.Amount
	bwdLoadPeaks []amount.Amount

	deliveryLoadSlack amount.Amount
	pickupLoadSlack   amount.Amount

	bbox BBox

	version uint64
}

// NewState constructs an empty route for the given vehicle.
func NewState(query problem.Query, vehicle problem.VehicleIdx) *State {
	s := &State{
		query:   query,
		vehicle: vehicle,
		bbox:    emptyBBox(),
	}
	s.recompute()

	return s
}

// Clone returns an independent deep copy of s, used when a worker takes
// ownership of a route for a hypothetical mutation it may discard.
func (s *State) Clone() *State {
	cp := &State{
		query:       s.query,
		vehicle:     s.vehicle,
		activityIDs: append([]problem.ActivityID(nil), s.activityIDs...),
		arrival:     append([]float64(nil), s.arrival...),
		departure:   append([]float64(nil), s.departure...),
		waiting:     append([]float64(nil), s.waiting...),
		timeSlacks:  append([]float64(nil), s.timeSlacks...),
		bbox:        s.bbox,
		version:     s.version,
	}
	cp.fwdLoadPickups = cloneAmounts(s.fwdLoadPickups)
	cp.fwdLoadDeliveries = cloneAmounts(s.fwdLoadDeliveries)
	cp.fwdLoadShipments = cloneAmounts(s.fwdLoadShipments)
	cp.bwdLoadPickups = cloneAmounts(s.bwdLoadPickups)
	cp.bwdLoadDeliveries = cloneAmounts(s.bwdLoadDeliveries)
	cp.currentLoad = cloneAmounts(s.currentLoad)
	cp.fwdLoadPeaks = cloneAmounts(s.fwdLoadPeaks)
	cp.bwdLoadPeaks = cloneAmounts(s.bwdLoadPeaks)
	cp.deliveryLoadSlack = s.deliveryLoadSlack.Clone()
	cp.pickupLoadSlack = s.pickupLoadSlack.Clone()

	return cp
}

func cloneAmounts(in []amount.Amount) []amount.Amount {
	out := make([]amount.Amount, len(in))
	for i, a := range in {
		out[i] = a.Clone()
	}

	return out
}

// Len reports the number of activities in the route.
func (s *State) Len() int { return len(s.activityIDs) }

// Version returns the monotonic structural-mutation counter.
func (s *State) Version() uint64 { return s.version }

// Vehicle returns the route's owning vehicle index.
func (s *State) Vehicle() problem.VehicleIdx { return s.vehicle }

// Query returns the problem instance this route was built against.
func (s *State) Query() problem.Query { return s.query }

// ActivityIDs returns a copy of the activity sequence.
func (s *State) ActivityIDs() []problem.ActivityID {
	return append([]problem.ActivityID(nil), s.activityIDs...)
}

// ActivityAt returns the activity at position i.
func (s *State) ActivityAt(i int) problem.ActivityID { return s.activityIDs[i] }

// IndexOf returns the position of id in the route, or -1 if absent.
func (s *State) IndexOf(id problem.ActivityID) int {
	for i, a := range s.activityIDs {
		if a == id {
			return i
		}
	}

	return -1
}

// BBox returns the route's current bounding box.
func (s *State) BBox() BBox { return s.bbox }

// Arrival returns the arrival time at position i.
func (s *State) Arrival(i int) float64 { return s.arrival[i] }

// Departure returns the departure time at position i.
func (s *State) Departure(i int) float64 { return s.departure[i] }

// Waiting returns the waiting duration at position i.
func (s *State) Waiting(i int) float64 { return s.waiting[i] }

// TimeSlack returns the maximum delay at i that still satisfies every
// downstream time window.
func (s *State) TimeSlack(i int) float64 { return s.timeSlacks[i] }

// CurrentLoad returns the instantaneous load at boundary i, where
// i ranges over [0, Len()+1] (0 = depot departure, Len()+1 = depot
// return).
func (s *State) CurrentLoad(i int) amount.Amount { return s.currentLoad[i] }

// FwdLoadPeak returns the running maximum instantaneous load over
// [0, i].
func (s *State) FwdLoadPeak(i int) amount.Amount { return s.fwdLoadPeaks[i] }

// BwdLoadPeak returns the running maximum instantaneous load over
// [i, Len()+1].
func (s *State) BwdLoadPeak(i int) amount.Amount { return s.bwdLoadPeaks[i] }

// FwdLoadPickups returns the cumulative pickup load up to and including
// position i.
func (s *State) FwdLoadPickups(i int) amount.Amount { return s.fwdLoadPickups[i] }

// FwdLoadDeliveries returns the cumulative delivery load up to and
// including position i.
func (s *State) FwdLoadDeliveries(i int) amount.Amount { return s.fwdLoadDeliveries[i] }

// BwdLoadDeliveries returns the remaining-to-end delivery load from
// position i onward.
func (s *State) BwdLoadDeliveries(i int) amount.Amount { return s.bwdLoadDeliveries[i] }

// BwdLoadPickups returns the remaining-to-end pickup load from position
// i onward.
func (s *State) BwdLoadPickups(i int) amount.Amount { return s.bwdLoadPickups[i] }

// DeliveryLoadSlack returns the delivery-side capacity headroom.
func (s *State) DeliveryLoadSlack() amount.Amount { return s.deliveryLoadSlack }

// PickupLoadSlack returns the pickup-side capacity headroom.
func (s *State) PickupLoadSlack() amount.Amount { return s.pickupLoadSlack }

// TransportCost returns the total transport cost of the committed
// route: the sum of travel edges including depot legs as governed by
// ShouldReturnToDepot.
func (s *State) TransportCost() float64 {
	return s.transportCostOf(s.activityIDs)
}

// EndTime returns the moment the route actually closes: the departure
// of its last activity, or the vehicle's earliest start if the route
// is empty. When the vehicle returns to depot, this also carries the
// travel leg back and any DepotDwellEnd, so shift/max-working-duration
// constraints see the true closing time rather than the last drop-off.
func (s *State) EndTime() float64 {
	veh := s.query.Vehicle(s.vehicle)
	if len(s.activityIDs) == 0 {
		return veh.EarliestStart
	}

	last := s.activityIDs[len(s.activityIDs)-1]
	end := s.departure[len(s.activityIDs)-1]
	if veh.ShouldReturnToDepot {
		end += s.query.TravelTime(s.vehicle, s.loc(last), veh.Depot)
		end += veh.DepotDwellEnd
	}

	return end
}

// TotalWaiting returns the sum of waiting durations across the route.
func (s *State) TotalWaiting() float64 {
	var sum float64
	for _, w := range s.waiting {
		sum += w
	}

	return sum
}

func (s *State) loc(a problem.ActivityID) problem.LocationIdx {
	return s.query.Job(a.Job).Location(a)
}
