package routestate

import (
	"github.com/lvlath-vrp/alns/amount"
	"github.com/lvlath-vrp/alns/problem"
)

// pickupAmount returns the non-negative amount a activity adds to the
// vehicle's load that will ride all the way back to the depot: a
// Service tagged AsPickup. Shipment pickups are tracked separately via
// shipmentDelta since their matching delivery removes the load again
// before the depot, not at it.
func (s *State) pickupAmount(a problem.ActivityID) amount.Amount {
	job := s.query.Job(a.Job)
	if job.Kind == problem.ServiceJob && job.ServiceRole == problem.AsPickup {
		return amount.New(job.ServiceDemand.Values...)
	}

	return amount.Amount{}
}

// deliveryAmount returns the non-negative amount a activity removes
// from load that was preloaded at the depot: a Service tagged
// AsDelivery.
func (s *State) deliveryAmount(a problem.ActivityID) amount.Amount {
	job := s.query.Job(a.Job)
	if job.Kind == problem.ServiceJob && job.ServiceRole == problem.AsDelivery {
		return amount.New(job.ServiceDemand.Values...)
	}

	return amount.Amount{}
}

// shipmentDelta returns the signed change in vehicle load contributed
// by a shipment pickup (+demand) or shipment delivery (-demand) at
// this activity; zero for Service activities.
func (s *State) shipmentDelta(a problem.ActivityID) (pos amount.Amount, neg bool) {
	job := s.query.Job(a.Job)
	if job.Kind != problem.ShipmentJob {
		return amount.Amount{}, false
	}
	d := amount.New(job.ShipmentDemandAmt.Values...)

	return d, a.Kind == problem.ShipmentDelivery
}
