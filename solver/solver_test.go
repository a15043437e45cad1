package solver_test

import (
	stdcontext "context"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/lvlath-vrp/alns/amount"
	"github.com/lvlath-vrp/alns/problem"
	"github.com/lvlath-vrp/alns/score"
	"github.com/lvlath-vrp/alns/solver"
	"github.com/lvlath-vrp/alns/worksolution"
)

func scoreOf(soft float64) score.Score { return score.Score{Soft: soft} }

// lineProblem builds n jobs strung out along a line from a depot at
// x=0, one vehicle per call site's choosing, mirroring the grid-style
// fixtures score_test.go and lsearch_test.go build their cases from.
func lineProblem(t *testing.T, n, vehicles int, capacity float64) *problem.StaticProblem {
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
			Idx:             problem.JobIdx(i),
			Kind:            problem.ServiceJob,
			ServiceLocation: problem.LocationIdx(i + 1),
			ServiceRole:     problem.AsDelivery,
			ServiceDemand:   problem.NewDemand(1),
		}
	}

	fleet := make([]problem.Vehicle, vehicles)
	for v := 0; v < vehicles; v++ {
		fleet[v] = problem.NewVehicle(problem.VehicleIdx(v), 0, amount.New(capacity), 0,
			problem.WithDepot(0), problem.WithReturnToDepot(true))
	}

	p, err := problem.NewStaticProblem(jobs, fleet, locs, []problem.VehicleProfile{prof}, 1000)
	require.NoError(t, err)

	return p
}

func testConfig(opts ...solver.Option) *solver.Config {
	base := []solver.Option{
		solver.WithMaxSolutions(20),
		solver.WithTerminations(solver.MaxIterations(50)),
		solver.WithThreadsSyncInterval(10),
		solver.WithAlnsSegmentIterations(10),
	}

	return solver.NewConfig(append(base, opts...)...)
}

func TestSolver_Run_CompletesIterations(t *testing.T) {
	p := lineProblem(t, 12, 2, 5)
	cfg := testConfig()

	var s solver.Solver
	stats, err := s.Run(stdcontext.Background(), p, cfg, nil)
	require.NoError(t, err)
	require.Greater(t, stats.Snapshot().Iterations, 0)
}

func TestSolver_Run_MultipleThreadsReachAFeasibleBest(t *testing.T) {
	p := lineProblem(t, 20, 3, 6)
	cfg := testConfig(solver.WithSearchThreads(solver.Multi, 4), solver.WithMasterSeed(7))

	var s solver.Solver
	stats, err := s.Run(stdcontext.Background(), p, cfg, nil)
	require.NoError(t, err)
	snap := stats.Snapshot()
	require.Greater(t, snap.Iterations, 0)
	require.LessOrEqual(t, snap.BestScore.Hard, 0.0)
}

func TestSolver_Run_StopsOnMaxDurationEvenUnderLoad(t *testing.T) {
	p := lineProblem(t, 40, 4, 8)
	cfg := testConfig(
		solver.WithSearchThreads(solver.Multi, 3),
		solver.WithTerminations(solver.MaxDuration(50*time.Millisecond)),
	)

	var s solver.Solver
	start := time.Now()
	_, err := s.Run(stdcontext.Background(), p, cfg, nil)
	require.NoError(t, err)
	require.Less(t, time.Since(start), 5*time.Second)
}

func TestSolver_Run_InvokesBestSolutionCallback(t *testing.T) {
	p := lineProblem(t, 10, 2, 5)
	cfg := testConfig()

	var calls int
	onBest := func(*worksolution.Accepted) { calls++ }

	var s solver.Solver
	_, err := s.Run(stdcontext.Background(), p, cfg, onBest)
	require.NoError(t, err)
	require.GreaterOrEqual(t, calls, 1)
}

func TestConfig_Validate_RejectsEmptyTerminations(t *testing.T) {
	p := lineProblem(t, 3, 1, 5)
	cfg := solver.NewConfig()
	err := cfg.Validate(p)
	require.ErrorIs(t, err, solver.ErrEmptyTerminations)
}

func TestConfig_Validate_RejectsEmptyFleetQuery(t *testing.T) {
	cfg := solver.NewConfig(solver.WithTerminations(solver.MaxIterations(1)))
	err := cfg.Validate(emptyFleetQuery{})
	require.ErrorIs(t, err, solver.ErrEmptyFleet)
}

// emptyFleetQuery is a minimal problem.Query stub exercising Validate's
// VehicleCount==0 path without needing a full StaticProblem.
type emptyFleetQuery struct{ problem.Query }

func (emptyFleetQuery) VehicleCount() int { return 0 }

func TestTermination_FleetAndCost_FiresOnlyWhenBothHold(t *testing.T) {
	term := solver.FleetAndCost(2, 100)

	require.False(t, term.ShouldStop(solver.TerminationQuery{VehiclesUsed: 3, Best: scoreOf(50)}))
	require.False(t, term.ShouldStop(solver.TerminationQuery{VehiclesUsed: 2, Best: scoreOf(150)}))
	require.True(t, term.ShouldStop(solver.TerminationQuery{VehiclesUsed: 2, Best: scoreOf(100)}))
}

func TestTermination_NoImprovementFor_FiresAfterThreshold(t *testing.T) {
	term := solver.NoImprovementFor(5)

	require.False(t, term.ShouldStop(solver.TerminationQuery{IterationsWithoutImprove: 4}))
	require.True(t, term.ShouldStop(solver.TerminationQuery{IterationsWithoutImprove: 5}))
}
