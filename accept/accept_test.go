package accept_test

import (
	"math/rand"
	"testing"

	"github.com/lvlath-vrp/alns/accept"
	"github.com/lvlath-vrp/alns/score"
	"github.com/stretchr/testify/require"
)

func TestGreedy_AcceptsOnlyNoWorseCandidates(t *testing.T) {
	var g accept.Greedy
	current := score.Score{Hard: 0, Soft: 100}

	require.True(t, g.Accept(score.Score{Hard: 0, Soft: 90}, current, accept.Context{}))
	require.True(t, g.Accept(score.Score{Hard: 0, Soft: 100}, current, accept.Context{}))
	require.False(t, g.Accept(score.Score{Hard: 0, Soft: 110}, current, accept.Context{}))
	require.False(t, g.Accept(score.Score{Hard: 1, Soft: 0}, current, accept.Context{}))
}

func TestAny_AlwaysAccepts(t *testing.T) {
	var a accept.Any
	require.True(t, a.Accept(score.Score{Hard: 5, Soft: 5000}, score.Score{}, accept.Context{}))
}

func TestSchrimpf_CalibrateSetsThresholdToStandardDeviation(t *testing.T) {
	s := accept.NewSchrimpf(0.99)
	s.Calibrate([]float64{10, 10, 10, 10})
	require.InDelta(t, 0, s.Threshold(), 1e-9)

	s.Calibrate([]float64{0, 2})
	require.InDelta(t, 1.0, s.Threshold(), 1e-9)
}

func TestSchrimpf_AcceptsWithinThresholdAndDecays(t *testing.T) {
	s := accept.NewSchrimpf(0.5)
	s.Calibrate([]float64{0, 2}) // threshold = 1.0

	current := score.Score{Hard: 0, Soft: 100}
	require.True(t, s.Accept(score.Score{Hard: 0, Soft: 100.5}, current, accept.Context{}))
	require.InDelta(t, 0.5, s.Threshold(), 1e-9) // decayed by 0.5 after the call

	require.False(t, s.Accept(score.Score{Hard: 0, Soft: 101}, current, accept.Context{}))
}

func TestSimulatedAnnealing_AlwaysAcceptsImprovingMoves(t *testing.T) {
	sa := accept.NewSimulatedAnnealing(0.05, 1000, 0.9)
	ctx := accept.Context{RNG: rand.New(rand.NewSource(1))}
	require.True(t, sa.Accept(score.Score{Hard: 0, Soft: 900}, score.Score{Hard: 0, Soft: 1000}, ctx))
}

func TestSimulatedAnnealing_RejectsWorseHard(t *testing.T) {
	sa := accept.NewSimulatedAnnealing(0.05, 1000, 0.9)
	ctx := accept.Context{RNG: rand.New(rand.NewSource(1))}
	require.False(t, sa.Accept(score.Score{Hard: 1, Soft: 0}, score.Score{Hard: 0, Soft: 1000}, ctx))
}

func TestSimulatedAnnealing_TemperatureDecaysEachCall(t *testing.T) {
	sa := accept.NewSimulatedAnnealing(0.05, 1000, 0.9)
	ctx := accept.Context{RNG: rand.New(rand.NewSource(1))}
	t0 := sa.Temperature()
	sa.Accept(score.Score{Hard: 0, Soft: 900}, score.Score{Hard: 0, Soft: 1000}, ctx)
	require.InDelta(t, t0*0.9, sa.Temperature(), 1e-9)
}
