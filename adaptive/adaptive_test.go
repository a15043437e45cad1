package adaptive_test

import (
	"math/rand"
	"testing"

	"github.com/lvlath-vrp/alns/adaptive"
	"github.com/stretchr/testify/require"
)

type strategy string

const (
	strategyA strategy = "a"
	strategyB strategy = "b"
)

func TestLocalTable_SelectIsUniformWhenWeightsAreEqual(t *testing.T) {
	tbl := adaptive.NewLocalTable([]strategy{strategyA, strategyB}, nil)
	rng := rand.New(rand.NewSource(1))

	counts := map[strategy]int{}
	for i := 0; i < 2000; i++ {
		counts[tbl.Select(rng)]++
	}
	require.InDelta(t, 1000, counts[strategyA], 150)
	require.InDelta(t, 1000, counts[strategyB], 150)
}

func TestLocalTable_SelectFavorsHeavierWeight(t *testing.T) {
	tbl := adaptive.NewLocalTable([]strategy{strategyA, strategyB}, map[strategy]float64{strategyA: 9, strategyB: 1})
	rng := rand.New(rand.NewSource(1))

	counts := map[strategy]int{}
	for i := 0; i < 2000; i++ {
		counts[tbl.Select(rng)]++
	}
	require.Greater(t, counts[strategyA], counts[strategyB])
}

func TestLocalTable_UpdateWeightsAppliesReactionFactorAndResetsAccumulators(t *testing.T) {
	tbl := adaptive.NewLocalTable([]strategy{strategyA, strategyB}, map[strategy]float64{strategyA: 1, strategyB: 1})

	sw := adaptive.DefaultScoreWeights()
	tbl.RecordOutcome(strategyA, adaptive.Outcome{IsBest: true}, sw)
	tbl.RecordOutcome(strategyA, adaptive.Outcome{Accepted: true}, sw)

	tbl.UpdateWeights(0.5)

	avg := (sw.NewBest + sw.AcceptedNonImproving) / 2
	want := 1*(1-0.5) + 0.5*avg
	require.InDelta(t, want, tbl.Weights()[strategyA], 1e-9)
	require.InDelta(t, 1.0, tbl.Weights()[strategyB], 1e-9) // untouched: no uses this segment

	// A second update with nothing recorded must be a no-op.
	before := tbl.Weights()[strategyA]
	tbl.UpdateWeights(0.5)
	require.InDelta(t, before, tbl.Weights()[strategyA], 1e-9)
}

func TestLocalTable_ResetToUniformZeroesBackToOne(t *testing.T) {
	tbl := adaptive.NewLocalTable([]strategy{strategyA, strategyB}, map[strategy]float64{strategyA: 50, strategyB: 0.1})
	tbl.ResetToUniform()
	require.Equal(t, 1.0, tbl.Weights()[strategyA])
	require.Equal(t, 1.0, tbl.Weights()[strategyB])
}

func TestGlobalTable_MergeUsesReactionFactorNotPlainAverage(t *testing.T) {
	local1 := adaptive.NewLocalTable([]strategy{strategyA}, map[strategy]float64{strategyA: 1})
	local2 := adaptive.NewLocalTable([]strategy{strategyA}, map[strategy]float64{strategyA: 1})
	sw := adaptive.DefaultScoreWeights()
	local1.RecordOutcome(strategyA, adaptive.Outcome{IsBest: true}, sw)
	local2.RecordOutcome(strategyA, adaptive.Outcome{Accepted: true}, sw)

	global := adaptive.NewGlobalTable([]strategy{strategyA}, map[strategy]float64{strategyA: 1})
	global.Accumulate(local1)
	global.Accumulate(local2)
	global.Merge(0.5)

	avg := (sw.NewBest + sw.AcceptedNonImproving) / 2
	want := 1*(1-0.5) + 0.5*avg
	require.InDelta(t, want, global.Snapshot()[strategyA], 1e-9)

	// Accumulate must have drained both locals.
	require.Equal(t, 1.0, local1.Weights()[strategyA])
	local1.UpdateWeights(0.5) // no-op: nothing pending after the drain
	require.InDelta(t, 1.0, local1.Weights()[strategyA], 1e-9)
}

func TestLocalTable_SetWeightsRefreshesFromGlobalSnapshot(t *testing.T) {
	local := adaptive.NewLocalTable([]strategy{strategyA, strategyB}, nil)
	global := adaptive.NewGlobalTable([]strategy{strategyA, strategyB}, map[strategy]float64{strategyA: 5, strategyB: 7})

	local.SetWeights(global.Snapshot())
	require.Equal(t, 5.0, local.Weights()[strategyA])
	require.Equal(t, 7.0, local.Weights()[strategyB])
}
