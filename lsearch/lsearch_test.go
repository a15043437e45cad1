package lsearch_test

import (
	"testing"

	"github.com/lvlath-vrp/alns/amount"
	"github.com/lvlath-vrp/alns/insertion"
	"github.com/lvlath-vrp/alns/lsearch"
	"github.com/lvlath-vrp/alns/problem"
	"github.com/lvlath-vrp/alns/routestate"
	"github.com/lvlath-vrp/alns/score"
	"github.com/stretchr/testify/require"
)

// gridProblem builds n+1 locations on a line (depot at 0, customers at
// 1..n), with a symmetric unit-distance profile and two identical
// vehicles, so tests can exercise both intra- and inter-route moves.
func gridProblem(t *testing.T, n int) *problem.StaticProblem {
	t.Helper()
	locs := make([]problem.Location, n+1)
	for i := 0; i <= n; i++ {
		locs[i] = problem.Location{Idx: problem.LocationIdx(i), X: float64(i), Y: 0}
	}
	dist := make([][]float64, n+1)
	for i := range dist {
		dist[i] = make([]float64, n+1)
		for j := range dist[i] {
			d := float64(i - j)
			if d < 0 {
				d = -d
			}
			dist[i][j] = d
		}
	}
	prof := problem.VehicleProfile{Idx: 0, Distance: dist, Time: dist, Cost: dist}

	jobs := make([]problem.Job, n)
	for i := 0; i < n; i++ {
		jobs[i] = problem.Job{
			Idx: problem.JobIdx(i), Kind: problem.ServiceJob,
			ServiceLocation: problem.LocationIdx(i + 1), ServiceRole: problem.AsDelivery,
			ServiceDemand: problem.NewDemand(1),
		}
	}
	v0 := problem.NewVehicle(0, 0, amount.New(float64(n)), 0, problem.WithDepot(0), problem.WithReturnToDepot(true))
	v1 := problem.NewVehicle(1, 0, amount.New(float64(n)), 0, problem.WithDepot(0), problem.WithReturnToDepot(true))

	p, err := problem.NewStaticProblem(jobs, []problem.Vehicle{v0, v1}, locs, []problem.VehicleProfile{prof}, 1)
	require.NoError(t, err)

	return p
}

func route(t *testing.T, p *problem.StaticProblem, vehicle problem.VehicleIdx, jobIDs ...int) *routestate.State {
	t.Helper()
	s := routestate.NewState(p, vehicle)
	for i, job := range jobIDs {
		require.NoError(t, s.Insert(i, problem.ActivityID{Kind: problem.Service, Job: problem.JobIdx(job)}))
	}

	return s
}

func jobsOf(ids []problem.ActivityID) []int {
	out := make([]int, len(ids))
	for i, a := range ids {
		out[i] = int(a.Job)
	}

	return out
}

func TestTwoOpt_ReversesRangeAndMatchesWorkedExampleDelta(t *testing.T) {
	p := gridProblem(t, 6)
	r0 := route(t, p, 0, 0, 1, 2, 3, 4, 5)

	mv := lsearch.TwoOpt(p, score.DefaultWeights(), 0, r0, 1, 4)
	require.InDelta(t, 6.0, mv.Delta(), 1e-9)
	require.True(t, mv.IsValid())

	require.NoError(t, mv.Apply())
	require.Equal(t, []int{0, 4, 3, 2, 1, 5}, jobsOf(r0.ActivityIDs()))
}

func TestOrOpt_MovesSegmentToDestinationPosition(t *testing.T) {
	p := gridProblem(t, 8)
	r0 := route(t, p, 0, 0, 1, 2, 3, 4, 5, 6, 7)

	mv := lsearch.OrOpt(p, score.DefaultWeights(), 0, r0, 1, 3, 5)
	require.True(t, mv.IsValid())
	require.NoError(t, mv.Apply())

	require.Equal(t, []int{0, 4, 1, 2, 3, 5, 6, 7}, jobsOf(r0.ActivityIDs()))
}

func TestRelocate_MovesSingleActivityLikeStateMove(t *testing.T) {
	p := gridProblem(t, 6)
	r0 := route(t, p, 0, 0, 1, 2, 3, 4, 5)

	mv := lsearch.Relocate(p, score.DefaultWeights(), 0, r0, 0, 4)
	require.True(t, mv.IsValid())
	require.NoError(t, mv.Apply())

	require.Equal(t, []int{1, 2, 3, 0, 4, 5}, jobsOf(r0.ActivityIDs()))
}

func TestSwap_ExchangesTwoActivities(t *testing.T) {
	p := gridProblem(t, 6)
	r0 := route(t, p, 0, 0, 1, 2, 3, 4, 5)

	mv := lsearch.Swap(p, score.DefaultWeights(), 0, r0, 1, 4)
	require.True(t, mv.IsValid())
	require.NoError(t, mv.Apply())

	require.Equal(t, []int{0, 4, 2, 3, 1, 5}, jobsOf(r0.ActivityIDs()))
}

func TestCrossExchange_SwapsSegmentsBetweenRoutesMatchesWorkedExample(t *testing.T) {
	p := gridProblem(t, 11)
	r0 := route(t, p, 0, 0, 1, 2, 3, 4, 5)
	r1 := route(t, p, 1, 6, 7, 8, 9, 10)

	mv := lsearch.CrossExchange(p, score.DefaultWeights(), 0, r0, 1, 3, 1, r1, 1, 2)
	require.True(t, mv.IsValid())
	require.NoError(t, mv.Apply())

	require.Equal(t, []int{0, 7, 8, 4, 5}, jobsOf(r0.ActivityIDs()))
	require.Equal(t, []int{6, 1, 2, 3, 9, 10}, jobsOf(r1.ActivityIDs()))
}

func TestInterSwap_BothInPlaceMatchesSwapStarWorkedExample(t *testing.T) {
	p := gridProblem(t, 11)
	r0 := route(t, p, 0, 0, 1, 2, 3, 4, 5)
	r1 := route(t, p, 1, 6, 7, 8, 9, 10)

	mv := lsearch.InterSwap(p, score.DefaultWeights(), 0, r0, 2, 1, r1, 3)
	require.True(t, mv.IsValid())
	require.NoError(t, mv.Apply())

	require.Equal(t, []int{0, 1, 9, 3, 4, 5}, jobsOf(r0.ActivityIDs()))
	require.Equal(t, []int{6, 7, 8, 2, 10}, jobsOf(r1.ActivityIDs()))
}

func TestTwoOptStar_ReconnectsHeadsAndTailsAcrossRoutes(t *testing.T) {
	p := gridProblem(t, 11)
	r0 := route(t, p, 0, 0, 1, 2, 3, 4, 5)
	r1 := route(t, p, 1, 6, 7, 8, 9, 10)

	mv := lsearch.TwoOptStar(p, score.DefaultWeights(), 0, r0, 2, 1, r1, 2)
	require.NoError(t, mv.Apply())

	require.Equal(t, []int{0, 1, 2, 9, 10}, jobsOf(r0.ActivityIDs()))
	require.Equal(t, []int{6, 7, 8, 3, 4, 5}, jobsOf(r1.ActivityIDs()))
}

func TestSwapStar_ProducesAFeasibleImprovingOrEqualMove(t *testing.T) {
	p := gridProblem(t, 11)
	r0 := route(t, p, 0, 0, 1, 2, 9, 4, 5)
	r1 := route(t, p, 1, 6, 7, 8, 3, 10)
	eval := insertion.NewEvaluator(p, score.DefaultWeights())

	mv := lsearch.SwapStar(p, score.DefaultWeights(), eval, 0, r0, 3, 1, r1, 3)
	require.True(t, mv.IsValid())

	bothInPlace := lsearch.InterSwap(p, score.DefaultWeights(), 0, r0, 3, 1, r1, 3)
	require.LessOrEqual(t, mv.Delta(), bothInPlace.Delta()+1e-9)

	require.NoError(t, mv.Apply())
}

func TestInterRelocate_MovesActivityIntoOtherRoute(t *testing.T) {
	p := gridProblem(t, 11)
	r0 := route(t, p, 0, 0, 1, 2, 3, 4, 5)
	r1 := route(t, p, 1, 6, 7, 8, 9, 10)

	mv := lsearch.InterRelocate(p, score.DefaultWeights(), 0, r0, 5, 1, r1, 0)
	require.True(t, mv.IsValid())
	require.NoError(t, mv.Apply())

	require.Equal(t, []int{0, 1, 2, 3, 4}, jobsOf(r0.ActivityIDs()))
	require.Equal(t, []int{5, 6, 7, 8, 9, 10}, jobsOf(r1.ActivityIDs()))
}

func TestInterOrOpt_TransfersSegmentAcrossRoutes(t *testing.T) {
	p := gridProblem(t, 11)
	r0 := route(t, p, 0, 0, 1, 2, 3, 4, 5)
	r1 := route(t, p, 1, 6, 7, 8, 9, 10)

	mv := lsearch.InterOrOpt(p, score.DefaultWeights(), 0, r0, 0, 2, 1, r1, 0)
	require.True(t, mv.IsValid())
	require.NoError(t, mv.Apply())

	require.Equal(t, []int{2, 3, 4, 5}, jobsOf(r0.ActivityIDs()))
	require.Equal(t, []int{0, 1, 6, 7, 8, 9, 10}, jobsOf(r1.ActivityIDs()))
}
