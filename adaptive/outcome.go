package adaptive

// Outcome flags how one ALNS iteration's candidate solution fared
// against the pool, used to score whichever operator pair produced it.
type Outcome struct {
	IsBest   bool // strictly improved the pool's best-known solution
	Improved bool // strictly improved the solution it was built from
	Accepted bool // the acceptor let it into the pool at all
}

// ScoreWeights configures the increment added to an operator's running
// score for each outcome tier. Ordered NewBest > Improving >
// AcceptedNonImproving > NotAccepted, per the reward scheme every
// ALNS operator-selection scheme in the literature follows.
type ScoreWeights struct {
	NewBest              float64
	Improving            float64
	AcceptedNonImproving float64
	NotAccepted          float64
}

// DefaultScoreWeights returns the increments this solver ships with.
func DefaultScoreWeights() ScoreWeights {
	return ScoreWeights{NewBest: 33, Improving: 20, AcceptedNonImproving: 9, NotAccepted: 0}
}

// ScoreFor returns the increment o earns under w.
func (w ScoreWeights) ScoreFor(o Outcome) float64 {
	switch {
	case o.IsBest:
		return w.NewBest
	case o.Improved:
		return w.Improving
	case o.Accepted:
		return w.AcceptedNonImproving
	default:
		return w.NotAccepted
	}
}
