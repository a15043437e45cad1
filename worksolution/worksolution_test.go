package worksolution_test

import (
	"testing"

	"github.com/lvlath-vrp/alns/amount"
	"github.com/lvlath-vrp/alns/problem"
	"github.com/lvlath-vrp/alns/score"
	"github.com/lvlath-vrp/alns/worksolution"
	"github.com/stretchr/testify/require"
)

func tinyProblem(t *testing.T) *problem.StaticProblem {
	t.Helper()
	locs := []problem.Location{{Idx: 0}, {Idx: 1}, {Idx: 2}}
	dist := [][]float64{{0, 1, 2}, {1, 0, 1}, {2, 1, 0}}
	prof := problem.VehicleProfile{Idx: 0, Distance: dist, Time: dist, Cost: dist}
	jobs := []problem.Job{
		{Idx: 0, Kind: problem.ServiceJob, ServiceLocation: 1, ServiceRole: problem.AsDelivery, ServiceDemand: problem.NewDemand(1)},
		{Idx: 1, Kind: problem.ServiceJob, ServiceLocation: 2, ServiceRole: problem.AsDelivery, ServiceDemand: problem.NewDemand(1)},
	}
	vehicles := []problem.Vehicle{
		problem.NewVehicle(0, 0, amount.New(5), 0, problem.WithDepot(0)),
		problem.NewVehicle(1, 0, amount.New(5), 0, problem.WithDepot(0)),
	}
	p, err := problem.NewStaticProblem(jobs, vehicles, locs, []problem.VehicleProfile{prof}, 1)
	require.NoError(t, err)

	return p
}

func TestNew_EveryJobStartsUnassigned(t *testing.T) {
	p := tinyProblem(t)
	ws := worksolution.New(p)
	require.Equal(t, 2, ws.RouteCount())
	require.Equal(t, 2, ws.UnassignedCount())
	require.NoError(t, ws.CheckInvariants())
}

func TestMarkAssigned_MovesJobOutOfUnassignedAndTracksRoute(t *testing.T) {
	p := tinyProblem(t)
	ws := worksolution.New(p)
	require.NoError(t, ws.Route(0).Insert(0, problem.ActivityID{Kind: problem.Service, Job: 0}))
	ws.MarkAssigned(0, 0)

	require.False(t, ws.IsUnassigned(0))
	r, ok := ws.RouteOf(0)
	require.True(t, ok)
	require.Equal(t, problem.RouteIdx(0), r)
	require.NoError(t, ws.CheckInvariants())
}

func TestMarkUnassigned_RoundTripsWithRemoval(t *testing.T) {
	p := tinyProblem(t)
	ws := worksolution.New(p)
	require.NoError(t, ws.Route(0).Insert(0, problem.ActivityID{Kind: problem.Service, Job: 0}))
	ws.MarkAssigned(0, 0)

	require.NoError(t, ws.Route(0).Remove(0))
	ws.MarkUnassigned(0)

	require.True(t, ws.IsUnassigned(0))
	_, ok := ws.RouteOf(0)
	require.False(t, ok)
	require.NoError(t, ws.CheckInvariants())
}

func TestCheckInvariants_CatchesDuplicateAssignment(t *testing.T) {
	p := tinyProblem(t)
	ws := worksolution.New(p)
	require.NoError(t, ws.Route(0).Insert(0, problem.ActivityID{Kind: problem.Service, Job: 0}))
	require.NoError(t, ws.Route(1).Insert(0, problem.ActivityID{Kind: problem.Service, Job: 0}))

	err := ws.CheckInvariants()
	require.Error(t, err)
}

func TestClone_IsIndependent(t *testing.T) {
	p := tinyProblem(t)
	ws := worksolution.New(p)
	require.NoError(t, ws.Route(0).Insert(0, problem.ActivityID{Kind: problem.Service, Job: 0}))
	ws.MarkAssigned(0, 0)

	clone := ws.Clone()
	require.NoError(t, clone.Route(0).Remove(0))
	clone.MarkUnassigned(0)

	require.False(t, ws.IsUnassigned(0), "mutating the clone must not affect the original")
	require.True(t, clone.IsUnassigned(0))
}

func TestFingerprint_MatchesOnlyForIdenticalAssignment(t *testing.T) {
	p := tinyProblem(t)
	a := worksolution.New(p)
	b := worksolution.New(p)
	require.Equal(t, a.Fingerprint(), b.Fingerprint())

	require.NoError(t, a.Route(0).Insert(0, problem.ActivityID{Kind: problem.Service, Job: 0}))
	a.MarkAssigned(0, 0)
	require.NotEqual(t, a.Fingerprint(), b.Fingerprint())
}

func acceptedFor(t *testing.T, p *problem.StaticProblem, assignJob0ToRoute int) *worksolution.Accepted {
	t.Helper()
	ws := worksolution.New(p)
	if assignJob0ToRoute >= 0 {
		require.NoError(t, ws.Route(problem.RouteIdx(assignJob0ToRoute)).Insert(0, problem.ActivityID{Kind: problem.Service, Job: 0}))
		ws.MarkAssigned(0, problem.RouteIdx(assignJob0ToRoute))
	}
	s, analysis := score.Compute(p, ws.Routes(), ws.UnassignedCount(), score.DefaultWeights())

	return worksolution.NewAccepted(ws, s, analysis)
}

func TestPool_AcceptsDistinctAndRejectsDuplicates(t *testing.T) {
	p := tinyProblem(t)
	pool := worksolution.NewPool(10)

	a := acceptedFor(t, p, 0)
	b := acceptedFor(t, p, 1)

	require.True(t, pool.Offer(a, nil))
	require.True(t, pool.Offer(b, nil))
	require.Equal(t, 2, pool.Len())

	dup := acceptedFor(t, p, 0)
	require.False(t, pool.Offer(dup, nil))
	require.Equal(t, 2, pool.Len())
}

func TestPool_EvictsWorstWhenOverflowing(t *testing.T) {
	p := tinyProblem(t)
	pool := worksolution.NewPool(1)

	worse := acceptedFor(t, p, -1) // two unassigned, strictly worse
	better := acceptedFor(t, p, 0) // one unassigned

	require.True(t, pool.Offer(worse, nil))
	require.True(t, pool.Offer(better, nil))
	require.Equal(t, 1, pool.Len())
	require.Equal(t, better, pool.Best())
}

func TestTabu_BansRecentlyEvictedFingerprintUntilAgedOut(t *testing.T) {
	p := tinyProblem(t)
	pool := worksolution.NewPool(1)
	tabu := worksolution.NewTabu(1)

	worse := acceptedFor(t, p, -1)
	better := acceptedFor(t, p, 0)

	require.True(t, pool.Offer(worse, tabu))
	require.True(t, pool.Offer(better, tabu))
	require.Equal(t, 1, tabu.Len())

	again := acceptedFor(t, p, -1)
	require.False(t, pool.Offer(again, tabu))
}
