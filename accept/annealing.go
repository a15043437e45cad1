package accept

import (
	"math"

	"github.com/lvlath-vrp/alns/score"
)

// SimulatedAnnealing accepts an improving candidate outright; a
// worsening one is accepted with probability exp(-delta/T), where delta
// is the soft-score increase (hard violations must still be no worse).
// T starts at w*referenceSoftScore/|ln(0.5)| and decays by DecayRatio
// every Accept call regardless of outcome.
type SimulatedAnnealing struct {
	DecayRatio  float64
	temperature float64
}

// NewSimulatedAnnealing returns a SimulatedAnnealing acceptor with
// initial temperature w*referenceSoftScore/|ln(0.5)|, decaying by
// decayRatio per call.
func NewSimulatedAnnealing(w, referenceSoftScore, decayRatio float64) *SimulatedAnnealing {
	return &SimulatedAnnealing{
		DecayRatio:  decayRatio,
		temperature: w * referenceSoftScore / math.Abs(math.Log(0.5)),
	}
}

// Temperature reports the acceptor's current decayed temperature.
func (sa *SimulatedAnnealing) Temperature() float64 { return sa.temperature }

func (sa *SimulatedAnnealing) Accept(candidate, current score.Score, ctx Context) bool {
	defer func() { sa.temperature *= sa.DecayRatio }()

	if candidate.Hard > current.Hard {
		return false
	}
	delta := candidate.Soft - current.Soft
	if delta <= 0 {
		return true
	}
	if sa.temperature <= 0 {
		return false
	}

	return ctx.RNG.Float64() < math.Exp(-delta/sa.temperature)
}
