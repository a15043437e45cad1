package worksolution

import (
	"github.com/google/uuid"

	"github.com/lvlath-vrp/alns/score"
)

// Accepted is a WorkingSolution paired with the Score and Analysis that
// justified its acceptance into the Pool. ID uniquely stamps the
// acceptance event so external telemetry can correlate a best-solution
// callback invocation with the statistics stream.
type Accepted struct {
	ID       uuid.UUID
	Solution *WorkingSolution
	Score    score.Score
	Analysis score.Analysis
}

// NewAccepted stamps solution with a fresh ID alongside its score.
func NewAccepted(solution *WorkingSolution, s score.Score, analysis score.Analysis) *Accepted {
	return &Accepted{
		ID:       uuid.New(),
		Solution: solution,
		Score:    s,
		Analysis: analysis,
	}
}

// Less orders Pool membership: fewer unassigned jobs first, then lower score.
func (a *Accepted) Less(o *Accepted) bool {
	au, ou := a.Solution.UnassignedCount(), o.Solution.UnassignedCount()
	if au != ou {
		return au < ou
	}

	return a.Score.Less(o.Score)
}
