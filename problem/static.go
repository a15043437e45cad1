package problem

import (
	"math"
	"sort"
)

// StaticProblem is a concrete, in-memory Query implementation over
// plain slices. It is read-only after NewStaticProblem returns and is
// safe to share across goroutines without synchronization.
type StaticProblem struct {
	jobs      []Job
	vehicles  []Vehicle
	locations []Location
	profiles  []VehicleProfile

	maxCost           float64
	hasTimeWindows    bool
	hasCapacity       bool
	fixedVehicleCosts float64
	unassignedCost    float64
	waitWeight        float64
}

// NewStaticProblem validates and builds a StaticProblem. unassignedCost
// is typically FixedVehicleCosts()+1 per spec §4.3 so assigning always
// beats leaving a job unassigned.
func NewStaticProblem(jobs []Job, vehicles []Vehicle, locations []Location, profiles []VehicleProfile, unassignedCost float64) (*StaticProblem, error) {
	if len(jobs) == 0 {
		return nil, ErrNoJobs
	}
	if len(vehicles) == 0 {
		return nil, ErrEmptyFleet
	}
	for _, v := range vehicles {
		if int(v.Profile) < 0 || int(v.Profile) >= len(profiles) {
			return nil, ErrUnknownProfile
		}
	}

	p := &StaticProblem{
		jobs:           jobs,
		vehicles:       vehicles,
		locations:      locations,
		profiles:       profiles,
		unassignedCost: unassignedCost,
	}
	p.precompute()

	return p, nil
}

func (p *StaticProblem) precompute() {
	var maxC float64
	var fixedSum float64
	var costSum, timeSum float64
	var pairCount int

	for _, j := range p.jobs {
		switch j.Kind {
		case ServiceJob:
			if len(j.ServiceWindows) > 0 {
				p.hasTimeWindows = true
			}
			if !j.ServiceDemand.isZero() {
				p.hasCapacity = true
			}
		case ShipmentJob:
			if len(j.PickupWindows) > 0 || len(j.DeliveryWindows) > 0 {
				p.hasTimeWindows = true
			}
			if !j.ShipmentDemandAmt.isZero() {
				p.hasCapacity = true
			}
		}
	}

	for _, v := range p.vehicles {
		fixedSum += v.FixedCost
		if !v.Capacity.IsEmpty() {
			p.hasCapacity = true
		}
		prof := p.profiles[v.Profile]
		for _, row := range prof.Cost {
			for _, c := range row {
				if c > maxC {
					maxC = c
				}
				costSum += c
			}
		}
		for _, row := range prof.Time {
			for _, t := range row {
				timeSum += t
				pairCount++
			}
		}
	}
	p.maxCost = maxC
	p.fixedVehicleCosts = fixedSum

	if timeSum > 0 && pairCount > 0 {
		// mean cost/time ratio across every profile pair, so waiting
		// time and transport cost become commensurable (spec §4.3).
		p.waitWeight = costSum / timeSum
	}
}

func (d Demand) isZero() bool {
	for _, v := range d.Values {
		if v != 0 {
			return false
		}
	}

	return true
}

func (d ShipmentDemand) isZero() bool {
	for _, v := range d.Values {
		if v != 0 {
			return false
		}
	}

	return true
}

func (p *StaticProblem) JobCount() int { return len(p.jobs) }

func (p *StaticProblem) Job(idx JobIdx) Job { return p.jobs[idx] }

func (p *StaticProblem) VehicleCount() int { return len(p.vehicles) }

func (p *StaticProblem) Vehicle(idx VehicleIdx) Vehicle { return p.vehicles[idx] }

func (p *StaticProblem) Location(idx LocationIdx) Location {
	if idx == NoLocation {
		return Location{Idx: NoLocation}
	}

	return p.locations[idx]
}

func (p *StaticProblem) Profile(idx ProfileIdx) VehicleProfile { return p.profiles[idx] }

func (p *StaticProblem) TravelDistance(v VehicleIdx, from, to LocationIdx) float64 {
	if from == NoLocation || to == NoLocation {
		return 0
	}

	return p.profiles[p.vehicles[v].Profile].Distance[from][to]
}

func (p *StaticProblem) TravelTime(v VehicleIdx, from, to LocationIdx) float64 {
	if from == NoLocation || to == NoLocation {
		return 0
	}

	return p.profiles[p.vehicles[v].Profile].Time[from][to]
}

func (p *StaticProblem) TravelCost(v VehicleIdx, from, to LocationIdx) float64 {
	if from == NoLocation || to == NoLocation {
		return 0
	}

	return p.profiles[p.vehicles[v].Profile].Cost[from][to]
}

// IsCompatible reports whether vehicle v may serve job j. Compatibility
// is resolved through the vehicle's own predicate, stored row-by-vehicle
// in logical terms: callers who need a dense matrix should size it
// vehicles x jobs and index [v][j], never jobs x vehicles — see
// DESIGN.md for the bug this corrects relative to the original source's
// `v*vehicles.len()+j` flattening.
func (p *StaticProblem) IsCompatible(v VehicleIdx, j JobIdx) bool {
	return p.vehicles[v].CompatibleWith(j)
}

func (p *StaticProblem) MaxCost() float64 { return p.maxCost }

func (p *StaticProblem) HasTimeWindows() bool { return p.hasTimeWindows }

func (p *StaticProblem) HasCapacity() bool { return p.hasCapacity }

func (p *StaticProblem) FixedVehicleCosts() float64 { return p.fixedVehicleCosts }

func (p *StaticProblem) UnassignedJobCost() float64 { return p.unassignedCost }

func (p *StaticProblem) WaitingDurationWeight() float64 { return p.waitWeight }

// NearestActivities enumerates, for every job in candidates, each of its
// activities (one for a Service, two for a Shipment), and returns them
// ordered by straight-line distance from loc, truncated to limit.
func (p *StaticProblem) NearestActivities(loc LocationIdx, candidates []JobIdx, limit int) []ActivityID {
	type scored struct {
		act  ActivityID
		dist float64
	}
	origin := p.Location(loc)
	var all []scored
	for _, j := range candidates {
		job := p.jobs[j]
		switch job.Kind {
		case ServiceJob:
			a := ActivityID{Kind: Service, Job: j}
			all = append(all, scored{act: a, dist: euclid(origin, p.Location(job.ServiceLocation))})
		case ShipmentJob:
			pa := ActivityID{Kind: ShipmentPickup, Job: j}
			da := ActivityID{Kind: ShipmentDelivery, Job: j}
			all = append(all, scored{act: pa, dist: euclid(origin, p.Location(job.PickupLocation))})
			all = append(all, scored{act: da, dist: euclid(origin, p.Location(job.DeliveryLocation))})
		}
	}
	sort.Slice(all, func(i, j int) bool { return all[i].dist < all[j].dist })
	if limit > 0 && len(all) > limit {
		all = all[:limit]
	}
	out := make([]ActivityID, len(all))
	for i, s := range all {
		out[i] = s.act
	}

	return out
}

func euclid(a, b Location) float64 {
	dx := a.X - b.X
	dy := a.Y - b.Y

	return math.Sqrt(dx*dx + dy*dy)
}
