package intensify_test

import (
	"context"
	"testing"

	"github.com/lvlath-vrp/alns/amount"
	"github.com/lvlath-vrp/alns/insertion"
	"github.com/lvlath-vrp/alns/intensify"
	"github.com/lvlath-vrp/alns/problem"
	"github.com/lvlath-vrp/alns/score"
	"github.com/lvlath-vrp/alns/worksolution"
	"github.com/stretchr/testify/require"
)

// gridProblem builds n+1 locations on a line (depot at 0, customers at
// 1..n) with a symmetric unit-distance profile and two identical
// vehicles, mirroring lsearch's own test fixture.
func gridProblem(t *testing.T, n int) *problem.StaticProblem {
	t.Helper()
	locs := make([]problem.Location, n+1)
	for i := 0; i <= n; i++ {
		locs[i] = problem.Location{Idx: problem.LocationIdx(i), X: float64(i)}
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

func placeRoute(t *testing.T, ws *worksolution.WorkingSolution, route problem.RouteIdx, jobIDs ...int) {
	t.Helper()
	r := ws.Route(route)
	for i, job := range jobIDs {
		require.NoError(t, r.Insert(i, problem.ActivityID{Kind: problem.Service, Job: problem.JobIdx(job)}))
		ws.MarkAssigned(problem.JobIdx(job), route)
	}
}

func TestEngine_FixesACrossingRouteViaTwoOpt(t *testing.T) {
	p := gridProblem(t, 6)
	ws := worksolution.New(p)
	placeRoute(t, ws, 0, 0, 4, 3, 2, 1, 5)

	eng := intensify.NewEngine()
	applied, err := eng.Run(context.Background(), ws, intensify.Context{
		Problem: p, Weights: score.DefaultWeights(), Concurrency: 2, MaxIterations: 10,
	})
	require.NoError(t, err)
	require.Greater(t, applied, 0)

	ids := ws.Route(0).ActivityIDs()
	got := make([]int, len(ids))
	for i, a := range ids {
		got[i] = int(a.Job)
	}
	require.Equal(t, []int{0, 1, 2, 3, 4, 5}, got)
}

func TestEngine_ReturnsZeroAppliedWhenAlreadyOptimal(t *testing.T) {
	p := gridProblem(t, 4)
	ws := worksolution.New(p)
	placeRoute(t, ws, 0, 0, 1, 2, 3)

	eng := intensify.NewEngine()
	applied, err := eng.Run(context.Background(), ws, intensify.Context{
		Problem: p, Weights: score.DefaultWeights(), MaxIterations: 10,
	})
	require.NoError(t, err)
	require.Equal(t, 0, applied)
}

func TestEngine_CrossRouteRunPreservesInvariants(t *testing.T) {
	p := gridProblem(t, 8)
	ws := worksolution.New(p)
	placeRoute(t, ws, 0, 0, 1, 2, 3, 4)
	placeRoute(t, ws, 1, 5, 6, 7)

	eng := intensify.NewEngine()
	eval := insertion.NewEvaluator(p, score.DefaultWeights())
	applied, err := eng.Run(context.Background(), ws, intensify.Context{
		Problem: p, Weights: score.DefaultWeights(), Eval: eval, Concurrency: 4, MaxIterations: 20,
	})
	require.NoError(t, err)
	require.NoError(t, ws.CheckInvariants())
	_ = applied
}

func TestEngine_ClearStaleDropsEntriesForRoutesNoLongerInstalled(t *testing.T) {
	p := gridProblem(t, 4)
	ws1 := worksolution.New(p)
	placeRoute(t, ws1, 0, 0, 2, 1, 3)

	eng := intensify.NewEngine()
	_, err := eng.Run(context.Background(), ws1, intensify.Context{Problem: p, Weights: score.DefaultWeights(), MaxIterations: 1})
	require.NoError(t, err)
	require.Greater(t, eng.Len(), 0)

	ws2 := worksolution.New(p)
	placeRoute(t, ws2, 0, 0, 1, 2, 3)
	eng.ClearStale(ws2)
	require.Equal(t, 0, eng.Len())
}
