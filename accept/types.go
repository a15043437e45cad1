package accept

import (
	"math/rand"

	"github.com/lvlath-vrp/alns/score"
)

// Context carries the per-iteration state an Acceptor may need beyond
// the two scores it is comparing.
type Context struct {
	Iteration     int
	MaxIterations int
	MaxSolutions  int
	RNG           *rand.Rand
}

// Acceptor decides whether a candidate solution's score should be
// offered into the pool, given the score of the solution it was built
// from (current).
type Acceptor interface {
	Accept(candidate, current score.Score, ctx Context) bool
}

// lessOrEqual reports whether a ranks no worse than b: strictly fewer
// hard violations wins outright; tied hard falls back to soft <=.
func lessOrEqual(a, b score.Score) bool {
	if a.Hard != b.Hard {
		return a.Hard < b.Hard
	}

	return a.Soft <= b.Soft
}
