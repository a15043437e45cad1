package accept

import "github.com/lvlath-vrp/alns/score"

// Any always accepts, used while a calibration acceptor (Schrimpf's
// random-walk warmup) needs every candidate admitted regardless of
// score.
type Any struct{}

func (Any) Accept(score.Score, score.Score, Context) bool { return true }
