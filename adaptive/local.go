package adaptive

import "math/rand"

// LocalTable is one search thread's private operator weight state: an
// ordered key set (fixed at construction, so roulette selection is
// deterministic for a given RNG stream despite Go's randomized map
// iteration), current weights, and the pending score/use accumulators
// a segment boundary folds into those weights.
//
// Not safe for concurrent use; owned by exactly one search thread.
type LocalTable[K comparable] struct {
	keys    []K
	weights map[K]float64
	scores  map[K]float64
	uses    map[K]int
}

// NewLocalTable returns a table over keys, seeded at 1.0 unless initial
// supplies a different starting weight for a key.
func NewLocalTable[K comparable](keys []K, initial map[K]float64) *LocalTable[K] {
	t := &LocalTable[K]{
		keys:    append([]K(nil), keys...),
		weights: make(map[K]float64, len(keys)),
		scores:  make(map[K]float64, len(keys)),
		uses:    make(map[K]int, len(keys)),
	}
	for _, k := range keys {
		w := 1.0
		if v, ok := initial[k]; ok {
			w = v
		}
		t.weights[k] = w
	}

	return t
}

// Select picks one key by roulette over the current weights. Falls
// back to a uniform pick if every weight has collapsed to zero.
func (t *LocalTable[K]) Select(rng *rand.Rand) K {
	total := 0.0
	for _, k := range t.keys {
		total += t.weights[k]
	}
	if total <= 0 {
		return t.keys[rng.Intn(len(t.keys))]
	}

	r := rng.Float64() * total
	for _, k := range t.keys {
		r -= t.weights[k]
		if r <= 0 {
			return k
		}
	}

	return t.keys[len(t.keys)-1]
}

// RecordOutcome adds outcome's configured increment to key's pending
// score and bumps its use count, consumed by the next UpdateWeights.
func (t *LocalTable[K]) RecordOutcome(key K, outcome Outcome, sw ScoreWeights) {
	t.scores[key] += sw.ScoreFor(outcome)
	t.uses[key]++
}

// UpdateWeights applies the reaction-factor update w_s := w_s*(1-rho) +
// rho*score(s)/uses(s) to every key used since the last call, then
// resets scores and use counts to zero. Keys with no recorded uses this
// segment keep their previous weight.
func (t *LocalTable[K]) UpdateWeights(reactionFactor float64) {
	for _, k := range t.keys {
		if t.uses[k] == 0 {
			continue
		}
		avg := t.scores[k] / float64(t.uses[k])
		t.weights[k] = t.weights[k]*(1-reactionFactor) + reactionFactor*avg
		t.scores[k] = 0
		t.uses[k] = 0
	}
}

// ResetToUniform zeroes every weight back to 1 and clears pending
// accumulators, the stagnation reset fired after a configured run of
// iterations without improvement.
func (t *LocalTable[K]) ResetToUniform() {
	for _, k := range t.keys {
		t.weights[k] = 1
		t.scores[k] = 0
		t.uses[k] = 0
	}
}

// Weights returns a copy of the current weight map.
func (t *LocalTable[K]) Weights() map[K]float64 {
	out := make(map[K]float64, len(t.weights))
	for k, v := range t.weights {
		out[k] = v
	}

	return out
}

// SetWeights overwrites every known key's weight from src, leaving keys
// absent from src untouched. Used to refresh from GlobalTable.Snapshot
// after a barrier tick.
func (t *LocalTable[K]) SetWeights(src map[K]float64) {
	for _, k := range t.keys {
		if v, ok := src[k]; ok {
			t.weights[k] = v
		}
	}
}

// drainScores hands back this table's pending scores/uses and resets
// them to zero, used by GlobalTable.Accumulate to fold a thread's
// pending contribution into the cross-thread table without double
// counting it on the next local UpdateWeights.
func (t *LocalTable[K]) drainScores() (map[K]float64, map[K]int) {
	scores, uses := t.scores, t.uses
	t.scores = make(map[K]float64, len(t.keys))
	t.uses = make(map[K]int, len(t.keys))

	return scores, uses
}
