package problem_test

import (
	"testing"

	"github.com/lvlath-vrp/alns/amount"
	"github.com/lvlath-vrp/alns/problem"
	"github.com/stretchr/testify/require"
)

func gridLocations(n int) []problem.Location {
	locs := make([]problem.Location, n)
	for i := 0; i < n; i++ {
		locs[i] = problem.Location{Idx: problem.LocationIdx(i), X: float64(i), Y: 0}
	}

	return locs
}

func symmetricProfile(n int) problem.VehicleProfile {
	dist := make([][]float64, n)
	for i := range dist {
		dist[i] = make([]float64, n)
		for j := range dist[i] {
			d := float64(i - j)
			if d < 0 {
				d = -d
			}
			dist[i][j] = d
		}
	}

	return problem.VehicleProfile{Idx: 0, Distance: dist, Time: dist, Cost: dist}
}

func TestStaticProblem_RejectsEmptyFleet(t *testing.T) {
	locs := gridLocations(2)
	prof := symmetricProfile(2)
	jobs := []problem.Job{{Idx: 0, Kind: problem.ServiceJob, ServiceLocation: 1}}

	_, err := problem.NewStaticProblem(jobs, nil, locs, []problem.VehicleProfile{prof}, 1)
	require.ErrorIs(t, err, problem.ErrEmptyFleet)
}

func TestStaticProblem_RejectsUnknownProfile(t *testing.T) {
	locs := gridLocations(2)
	prof := symmetricProfile(2)
	jobs := []problem.Job{{Idx: 0, Kind: problem.ServiceJob, ServiceLocation: 1}}
	veh := []problem.Vehicle{problem.NewVehicle(0, 5, amount.New(10), 0)}

	_, err := problem.NewStaticProblem(jobs, veh, locs, []problem.VehicleProfile{prof}, 1)
	require.ErrorIs(t, err, problem.ErrUnknownProfile)
}

func TestStaticProblem_TravelLookupsZeroWithoutLocation(t *testing.T) {
	locs := gridLocations(3)
	prof := symmetricProfile(3)
	jobs := []problem.Job{{Idx: 0, Kind: problem.ServiceJob, ServiceLocation: 1}}
	veh := []problem.Vehicle{problem.NewVehicle(0, 0, amount.New(10), 0)}

	p, err := problem.NewStaticProblem(jobs, veh, locs, []problem.VehicleProfile{prof}, 1)
	require.NoError(t, err)

	require.Equal(t, 0.0, p.TravelDistance(0, problem.NoLocation, 2))
	require.Equal(t, 2.0, p.TravelDistance(0, 0, 2))
}

func TestTimeWindows_AdmitsEmptyAlwaysTrue(t *testing.T) {
	var ws problem.TimeWindows
	require.True(t, ws.Admits(1e9))
}

func TestTimeWindow_Validate(t *testing.T) {
	ok := problem.Window(1, 2)
	require.NoError(t, ok.Validate())

	bad := problem.Window(2, 1)
	require.ErrorIs(t, bad.Validate(), problem.ErrInvalidTimeWindow)
}

func TestNearestActivities_OrdersByDistanceAndRespectsLimit(t *testing.T) {
	locs := gridLocations(6)
	prof := symmetricProfile(6)
	jobs := []problem.Job{
		{Idx: 0, Kind: problem.ServiceJob, ServiceLocation: 5},
		{Idx: 1, Kind: problem.ServiceJob, ServiceLocation: 2},
		{Idx: 2, Kind: problem.ServiceJob, ServiceLocation: 1},
	}
	veh := []problem.Vehicle{problem.NewVehicle(0, 0, amount.New(10), 0)}
	p, err := problem.NewStaticProblem(jobs, veh, locs, []problem.VehicleProfile{prof}, 1)
	require.NoError(t, err)

	got := p.NearestActivities(0, []problem.JobIdx{0, 1, 2}, 2)
	require.Len(t, got, 2)
	require.Equal(t, problem.JobIdx(2), got[0].Job)
	require.Equal(t, problem.JobIdx(1), got[1].Job)
}
