package insertion

import (
	"fmt"
	"math"
	"math/rand"
	"sort"

	"github.com/lvlath-vrp/alns/problem"
	"github.com/lvlath-vrp/alns/routestate"
	"github.com/lvlath-vrp/alns/score"
)

// Insertion describes one feasible placement of a job into a route,
// priced as a soft-score delta (hard feasibility was already confirmed
// by routestate.IsValidChange before a candidate is ever constructed).
type Insertion struct {
	Job   problem.JobIdx
	Route problem.RouteIdx

	// Position is meaningful for a Service job: the index it would be
	// inserted at.
	Position int

	// PickupPosition/DeliveryPosition are meaningful for a Shipment job,
	// measured in the route's current (pre-insertion) indexing, with
	// PickupPosition <= DeliveryPosition.
	PickupPosition   int
	DeliveryPosition int

	IsShipment bool
	OpensRoute bool
	Delta      float64

	// Forced marks an insertion built by ForceBest: it bypasses
	// IsValidChange and may leave the route hard-constraint-infeasible.
	// Apply only runs the post-commit invariant check when this is false.
	Forced bool
}

// Apply commits ins against ws: splices the job's activity(ies) into
// its target route and moves the job out of the unassigned set. A
// non-Forced insertion was only ever offered because IsValidChange
// confirmed it feasible; if the committed route turns out
// hard-constraint-infeasible anyway, that is a contract violation
// between the evaluator's feasibility check and the commit it priced,
// not a condition a caller can route around, so Apply panics rather
// than hand back a silently broken solution.
func (ins Insertion) Apply(ws workingSolution) error {
	route := ws.Route(ins.Route)
	if ins.IsShipment {
		if err := route.InsertShipmentAt(ins.PickupPosition, ins.DeliveryPosition, ins.Job); err != nil {
			return err
		}
	} else if err := route.Insert(ins.Position, problem.ActivityID{Kind: problem.Service, Job: ins.Job}); err != nil {
		return err
	}
	ws.MarkAssigned(ins.Job, ins.Route)

	if !ins.Forced {
		if hard := score.RouteHard(route.Query(), route); hard > 0 {
			panic(&routestate.InvariantError{
				Operator:      "insertion.Insertion.Apply",
				RouteIdx:      int(ins.Route),
				Activities:    activityLabels(route),
				ArrivalTime:   route.EndTime(),
				WindowProblem: fmt.Sprintf("hard constraint excess=%.6f after non-forced insertion of job %d", hard, ins.Job),
			})
		}
	}

	return nil
}

// activityLabels renders route's committed activity sequence for an
// InvariantError's diagnostic payload.
func activityLabels(route *routestate.State) []string {
	ids := route.ActivityIDs()
	labels := make([]string, len(ids))
	for i, a := range ids {
		labels[i] = fmt.Sprintf("%v", a)
	}

	return labels
}

// workingSolution is the minimal surface Apply needs, kept local so
// this package does not import worksolution just for one method
// signature (avoids a needless package dependency for a single call).
type workingSolution interface {
	Route(problem.RouteIdx) *routestate.State
	MarkAssigned(problem.JobIdx, problem.RouteIdx)
}

// Evaluator enumerates and scores candidate insertions.
type Evaluator struct {
	query   problem.Query
	weights score.Weights

	rng              *rand.Rand
	noiseLevel       float64
	noiseProbability float64
}

// EvaluatorOption configures optional Evaluator behavior.
type EvaluatorOption func(*Evaluator)

// WithNoise perturbs a candidate's delta by delta*(1±level) with the given
// probability (0..1), diversifying regret-k ties the way the solver's
// noise_level/noise_probability options intend. The jitter draws from the
// evaluator's random source: the one set by WithRNG, or else the
// fixed-seed stream NewEvaluator installs.
func WithNoise(level, probability float64) EvaluatorOption {
	return func(e *Evaluator) {
		e.noiseLevel = level
		e.noiseProbability = probability
	}
}

// WithRNG sets the random source used for noise jitter.
func WithRNG(rng *rand.Rand) EvaluatorOption {
	return func(e *Evaluator) { e.rng = rng }
}

// NewEvaluator builds an Evaluator over query, scoring soft deltas with weights.
func NewEvaluator(query problem.Query, weights score.Weights, opts ...EvaluatorOption) *Evaluator {
	e := &Evaluator{query: query, weights: weights, rng: rand.New(rand.NewSource(1))}
	for _, opt := range opts {
		opt(e)
	}

	return e
}

// jitter applies the configured noise to delta, leaving it untouched when
// noise is disabled or the probability roll misses.
func (e *Evaluator) jitter(delta float64) float64 {
	if e.noiseLevel <= 0 || e.noiseProbability <= 0 {
		return delta
	}
	if e.rng.Float64() >= e.noiseProbability {
		return delta
	}
	factor := 1 + e.noiseLevel*(2*e.rng.Float64()-1)

	return delta * factor
}

// Candidates enumerates every feasible insertion of job into route.
func (e *Evaluator) Candidates(route *routestate.State, job problem.JobIdx) []Insertion {
	if e.query.Job(job).Kind == problem.ShipmentJob {
		return e.shipmentCandidates(route, job)
	}

	return e.serviceCandidates(route, job)
}

func (e *Evaluator) serviceCandidates(route *routestate.State, job problem.JobIdx) []Insertion {
	n := route.Len()
	out := make([]Insertion, 0, n+1)
	iter := []problem.ActivityID{{Kind: problem.Service, Job: job}}
	wasEmpty := n == 0

	for pos := 0; pos <= n; pos++ {
		if !route.IsValidChange(iter, pos, pos) {
			continue
		}
		transportDelta := route.TransportCostDelta(iter, pos, pos)
		waitingDelta, ok := route.WaitingDurationDelta(iter, pos, pos)
		if !ok {
			continue
		}
		delta := e.jitter(score.InsertionSoftDelta(e.query, e.weights, transportDelta, waitingDelta, route.Vehicle(), wasEmpty, false))
		out = append(out, Insertion{
			Job: job, Position: pos, OpensRoute: wasEmpty, Delta: delta,
		})
	}

	return out
}

func (e *Evaluator) shipmentCandidates(route *routestate.State, job problem.JobIdx) []Insertion {
	n := route.Len()
	ids := route.ActivityIDs()
	wasEmpty := n == 0
	var out []Insertion

	for p := 0; p <= n; p++ {
		for d := p; d <= n; d++ {
			between := ids[p:d]
			iter := make([]problem.ActivityID, 0, len(between)+2)
			iter = append(iter, problem.ActivityID{Kind: problem.ShipmentPickup, Job: job})
			iter = append(iter, between...)
			iter = append(iter, problem.ActivityID{Kind: problem.ShipmentDelivery, Job: job})

			if !route.IsValidChange(iter, p, d) {
				continue
			}
			transportDelta := route.TransportCostDelta(iter, p, d)
			waitingDelta, ok := route.WaitingDurationDelta(iter, p, d)
			if !ok {
				continue
			}
			delta := e.jitter(score.InsertionSoftDelta(e.query, e.weights, transportDelta, waitingDelta, route.Vehicle(), wasEmpty, false))
			out = append(out, Insertion{
				Job: job, PickupPosition: p, DeliveryPosition: d,
				IsShipment: true, OpensRoute: wasEmpty, Delta: delta,
			})
		}
	}

	return out
}

// ForceBest returns the lowest-transport-cost position for job in route,
// ignoring Route State's feasibility gate entirely. Used by recreate's
// insert-on-failure policy when no feasible position exists anywhere: the
// job is placed regardless, trusting subsequent local search to repair
// whatever hard-constraint violation it introduces. Scored on transport
// cost alone (waiting-duration delta is only well-defined for a feasible
// candidate, and is reported as zero here).
func (e *Evaluator) ForceBest(route *routestate.State, job problem.JobIdx) Insertion {
	if e.query.Job(job).Kind == problem.ShipmentJob {
		return e.forceBestShipment(route, job)
	}

	return e.forceBestService(route, job)
}

func (e *Evaluator) forceBestService(route *routestate.State, job problem.JobIdx) Insertion {
	n := route.Len()
	wasEmpty := n == 0
	iter := []problem.ActivityID{{Kind: problem.Service, Job: job}}

	best := Insertion{Job: job, OpensRoute: wasEmpty, Delta: math.Inf(1), Forced: true}
	for pos := 0; pos <= n; pos++ {
		transportDelta := route.TransportCostDelta(iter, pos, pos)
		delta := e.jitter(score.InsertionSoftDelta(e.query, e.weights, transportDelta, 0, route.Vehicle(), wasEmpty, false))
		if delta < best.Delta {
			best = Insertion{Job: job, Position: pos, OpensRoute: wasEmpty, Delta: delta, Forced: true}
		}
	}

	return best
}

func (e *Evaluator) forceBestShipment(route *routestate.State, job problem.JobIdx) Insertion {
	n := route.Len()
	ids := route.ActivityIDs()
	wasEmpty := n == 0

	best := Insertion{Job: job, IsShipment: true, OpensRoute: wasEmpty, Delta: math.Inf(1), Forced: true}
	for p := 0; p <= n; p++ {
		for d := p; d <= n; d++ {
			between := ids[p:d]
			iter := make([]problem.ActivityID, 0, len(between)+2)
			iter = append(iter, problem.ActivityID{Kind: problem.ShipmentPickup, Job: job})
			iter = append(iter, between...)
			iter = append(iter, problem.ActivityID{Kind: problem.ShipmentDelivery, Job: job})

			transportDelta := route.TransportCostDelta(iter, p, d)
			delta := e.jitter(score.InsertionSoftDelta(e.query, e.weights, transportDelta, 0, route.Vehicle(), wasEmpty, false))
			if delta < best.Delta {
				best = Insertion{
					Job: job, PickupPosition: p, DeliveryPosition: d,
					IsShipment: true, OpensRoute: wasEmpty, Delta: delta, Forced: true,
				}
			}
		}
	}

	return best
}

// Best returns the lowest-delta feasible candidate for job in route.
func (e *Evaluator) Best(route *routestate.State, job problem.JobIdx) (Insertion, bool) {
	cands := e.Candidates(route, job)
	if len(cands) == 0 {
		return Insertion{}, false
	}
	best := cands[0]
	for _, c := range cands[1:] {
		if c.Delta < best.Delta {
			best = c
		}
	}

	return best, true
}

// TopK returns up to k feasible candidates for job in route, ordered by
// ascending delta (best first).
func (e *Evaluator) TopK(route *routestate.State, job problem.JobIdx, k int) []Insertion {
	cands := e.Candidates(route, job)
	sort.Slice(cands, func(i, j int) bool { return cands[i].Delta < cands[j].Delta })
	if k > 0 && len(cands) > k {
		cands = cands[:k]
	}

	return cands
}
