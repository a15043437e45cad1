package recreate_test

import (
	"context"
	"math/rand"
	"testing"

	"github.com/lvlath-vrp/alns/amount"
	"github.com/lvlath-vrp/alns/insertion"
	"github.com/lvlath-vrp/alns/problem"
	"github.com/lvlath-vrp/alns/recreate"
	"github.com/lvlath-vrp/alns/score"
	"github.com/lvlath-vrp/alns/worksolution"
	"github.com/stretchr/testify/require"
)

// lineProblemWithCapacity builds n service jobs on a 1D line at x=1..n,
// one vehicle with a depot at x=0 and the given capacity.
func lineProblemWithCapacity(t *testing.T, n int, capacity float64) *problem.StaticProblem {
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
	veh := problem.NewVehicle(0, 0, amount.New(capacity), 0, problem.WithDepot(0))
	p, err := problem.NewStaticProblem(jobs, []problem.Vehicle{veh}, locs, []problem.VehicleProfile{prof}, 1)
	require.NoError(t, err)

	return p
}

// lineProblem builds n service jobs on a 1D line at x=1..n, one vehicle
// with a depot at x=0 and enough capacity/time to serve all of them.
func lineProblem(t *testing.T, n int) *problem.StaticProblem {
	t.Helper()

	return lineProblemWithCapacity(t, n, float64(n))
}

func emptySolution(p *problem.StaticProblem) *worksolution.WorkingSolution {
	return worksolution.New(p)
}

func evaluator(p *problem.StaticProblem) *insertion.Evaluator {
	return insertion.NewEvaluator(p, score.DefaultWeights())
}

func TestGreedy_FillsEveryJobFromEmptyRoute(t *testing.T) {
	p := lineProblem(t, 5)
	ws := emptySolution(p)

	ctx := recreate.Context{Problem: p, Eval: evaluator(p), Concurrency: 4}
	require.NoError(t, recreate.Greedy{}.Apply(context.Background(), ws, ctx))

	require.Equal(t, 0, ws.UnassignedCount())
	require.NoError(t, ws.CheckInvariants())
	require.Equal(t, 5, ws.Route(0).Len())
}

func TestGreedy_LeavesJobUnassignedWhenCapacityExhaustedAndNoInsertOnFailure(t *testing.T) {
	// A vehicle with capacity 2 cannot take all three unit-demand jobs:
	// Greedy must stop once the route is full rather than force placement.
	p2 := lineProblemWithCapacity(t, 3, 2)
	ws := emptySolution(p2)

	ctx := recreate.Context{Problem: p2, Eval: evaluator(p2), Concurrency: 2, InsertOnFailure: false}
	require.NoError(t, recreate.Greedy{}.Apply(context.Background(), ws, ctx))

	require.Equal(t, 1, ws.UnassignedCount())
	require.NoError(t, ws.CheckInvariants())
}

func TestGreedy_InsertOnFailurePlacesEveryJob(t *testing.T) {
	p2 := lineProblemWithCapacity(t, 3, 2)
	ws := emptySolution(p2)

	ctx := recreate.Context{Problem: p2, Eval: evaluator(p2), Concurrency: 2, InsertOnFailure: true}
	require.NoError(t, recreate.Greedy{}.Apply(context.Background(), ws, ctx))

	require.Equal(t, 0, ws.UnassignedCount())
	require.Equal(t, 3, ws.Route(0).Len())
}

func TestRegret_FillsEveryJobFromEmptyRoute(t *testing.T) {
	p := lineProblem(t, 6)
	ws := emptySolution(p)

	ctx := recreate.Context{Problem: p, Eval: evaluator(p), Concurrency: 4}
	op := recreate.Regret{K: 3, RNG: rand.New(rand.NewSource(1))}
	require.NoError(t, op.Apply(context.Background(), ws, ctx))

	require.Equal(t, 0, ws.UnassignedCount())
	require.NoError(t, ws.CheckInvariants())
	require.Equal(t, 6, ws.Route(0).Len())
}

func TestRegret_InsertOnFailurePlacesEveryJob(t *testing.T) {
	p2 := lineProblemWithCapacity(t, 4, 2)
	ws := emptySolution(p2)

	ctx := recreate.Context{Problem: p2, Eval: evaluator(p2), Concurrency: 2, InsertOnFailure: true}
	op := recreate.Regret{K: 2, RNG: rand.New(rand.NewSource(2))}
	require.NoError(t, op.Apply(context.Background(), ws, ctx))

	require.Equal(t, 0, ws.UnassignedCount())
	require.Equal(t, 4, ws.Route(0).Len())
}

func TestRegret_DefaultsKWhenBelowTwo(t *testing.T) {
	p := lineProblem(t, 2)
	ws := emptySolution(p)

	ctx := recreate.Context{Problem: p, Eval: evaluator(p), Concurrency: 1}
	op := recreate.Regret{K: 0}
	require.NoError(t, op.Apply(context.Background(), ws, ctx))

	require.Equal(t, 0, ws.UnassignedCount())
}
