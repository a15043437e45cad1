package accept

import "github.com/lvlath-vrp/alns/score"

// Greedy accepts a candidate iff its score is no worse than the
// solution it was built from: strictly fewer hard violations, or tied
// hard violations with soft score no higher.
type Greedy struct{}

func (Greedy) Accept(candidate, current score.Score, _ Context) bool {
	return lessOrEqual(candidate, current)
}
