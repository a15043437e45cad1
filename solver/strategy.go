package solver

import (
	stdcontext "context"
	"math/rand"

	"github.com/lvlath-vrp/alns/recreate"
	"github.com/lvlath-vrp/alns/ruin"
	"github.com/lvlath-vrp/alns/score"
	"github.com/lvlath-vrp/alns/worksolution"
)

// RuinStrategyName keys the adaptive weight table every search thread
// keeps over the ruin catalog.
type RuinStrategyName string

// The ruin strategies spec.md §4.5 names.
const (
	RuinRandom      RuinStrategyName = "random"
	RuinWorst       RuinStrategyName = "worst"
	RuinRoute       RuinStrategyName = "route"
	RuinProximity   RuinStrategyName = "proximity"
	RuinString      RuinStrategyName = "string"
	RuinSplitString RuinStrategyName = "split_string"
)

// AllRuinStrategies lists every ruin strategy in a stable order, used
// when a config does not restrict the catalog.
func AllRuinStrategies() []RuinStrategyName {
	return []RuinStrategyName{RuinRandom, RuinWorst, RuinRoute, RuinProximity, RuinString, RuinSplitString}
}

// RecreateStrategyName keys the adaptive weight table over the recreate
// catalog.
type RecreateStrategyName string

// The recreate strategies spec.md §4.6 names.
const (
	RecreateGreedy  RecreateStrategyName = "greedy_best_insertion"
	RecreateRegret2 RecreateStrategyName = "regret_2"
	RecreateRegret3 RecreateStrategyName = "regret_3"
)

// AllRecreateStrategies lists every recreate strategy in a stable order.
func AllRecreateStrategies() []RecreateStrategyName {
	return []RecreateStrategyName{RecreateGreedy, RecreateRegret2, RecreateRegret3}
}

// AcceptorKind selects which acceptor a thread runs.
type AcceptorKind int

const (
	AcceptGreedy AcceptorKind = iota
	AcceptSchrimpf
	AcceptSimulatedAnnealing
	AcceptAny
)

// SelectorKind selects how a thread picks a base solution from the pool
// each iteration.
type SelectorKind int

const (
	SelectBest SelectorKind = iota
	SelectRandom
	SelectWeighted
)

// ruinOperator builds the ruin.Operator instance for name. Worst is the
// only strategy that needs score.Weights to rank removal candidates.
func ruinOperator(name RuinStrategyName, weights score.Weights) ruin.Operator {
	switch name {
	case RuinWorst:
		return ruin.Worst{Weights: weights}
	case RuinRoute:
		return ruin.Route{}
	case RuinProximity:
		return ruin.Proximity{}
	case RuinString:
		return ruin.String{}
	case RuinSplitString:
		return ruin.SplitString{}
	default:
		return ruin.Random{}
	}
}

// applyRecreate dispatches to the recreate operator named by name.
// Greedy and Regret each accept recreate's own unexported
// workingSolution interface, which *worksolution.WorkingSolution
// satisfies structurally — no adapter type is needed, just a switch.
func applyRecreate(ctx stdcontext.Context, name RecreateStrategyName, rng *rand.Rand, ws *worksolution.WorkingSolution, rc recreate.Context) error {
	switch name {
	case RecreateRegret2:
		return recreate.Regret{K: 2, RNG: rng}.Apply(ctx, ws, rc)
	case RecreateRegret3:
		return recreate.Regret{K: 3, RNG: rng}.Apply(ctx, ws, rc)
	default:
		return recreate.Greedy{}.Apply(ctx, ws, rc)
	}
}
