package accept

import (
	"math"

	"github.com/lvlath-vrp/alns/score"
)

// Schrimpf accepts a candidate iff its soft score is within a decaying
// threshold of the solution it was built from (hard violations must
// still be no worse). The threshold starts at the standard deviation
// of a random-walk sample of soft scores, set via Calibrate, and decays
// by Ratio every Accept call regardless of outcome.
type Schrimpf struct {
	Ratio     float64
	threshold float64
}

// NewSchrimpf returns a Schrimpf acceptor decaying its threshold by
// ratio per call; Calibrate must be run before first use.
func NewSchrimpf(ratio float64) *Schrimpf {
	return &Schrimpf{Ratio: ratio}
}

// Calibrate sets the initial threshold from the standard deviation of
// a random-walk sample of soft scores, typically gathered by running
// Any for a warmup number of iterations before switching to this
// acceptor.
func (s *Schrimpf) Calibrate(randomWalkSoftScores []float64) {
	if len(randomWalkSoftScores) == 0 {
		s.threshold = 0

		return
	}
	var sum float64
	for _, v := range randomWalkSoftScores {
		sum += v
	}
	mean := sum / float64(len(randomWalkSoftScores))

	var variance float64
	for _, v := range randomWalkSoftScores {
		d := v - mean
		variance += d * d
	}
	variance /= float64(len(randomWalkSoftScores))

	s.threshold = math.Sqrt(variance)
}

// Threshold reports the acceptor's current decayed threshold.
func (s *Schrimpf) Threshold() float64 { return s.threshold }

func (s *Schrimpf) Accept(candidate, current score.Score, _ Context) bool {
	ok := candidate.Hard <= current.Hard && candidate.Soft <= current.Soft+s.threshold
	s.threshold *= s.Ratio

	return ok
}
