// Command alns-demo builds a synthetic grid of delivery jobs and a small
// fleet, runs the ALNS solver against it, and prints the best route plan
// found before the configured termination criteria fire.
package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"math"
	"time"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/lvlath-vrp/alns/amount"
	"github.com/lvlath-vrp/alns/problem"
	"github.com/lvlath-vrp/alns/solver"
	"github.com/lvlath-vrp/alns/worksolution"
)

func main() {
	jobCount := flag.Int("jobs", 30, "number of delivery jobs on the grid")
	vehicleCount := flag.Int("vehicles", 4, "fleet size")
	capacity := flag.Float64("capacity", 15, "per-vehicle capacity units")
	gridSize := flag.Float64("grid", 50, "side length of the square grid jobs are scattered over")
	threads := flag.Int("threads", 0, "search threads (0 = auto, GOMAXPROCS)")
	maxIterations := flag.Int("max-iterations", 2000, "iteration budget")
	maxDuration := flag.Duration("max-duration", 10*time.Second, "wall-clock budget")
	seed := flag.Int64("seed", 1, "master RNG seed")
	metrics := flag.Bool("metrics", false, "register and print Prometheus counters alongside the in-memory snapshot")
	flag.Parse()

	query, err := buildGridProblem(*jobCount, *vehicleCount, *capacity, *gridSize)
	if err != nil {
		log.Fatalf("alns-demo: building problem: %v", err)
	}

	opts := []solver.Option{
		solver.WithTerminations(
			solver.MaxIterations(*maxIterations),
			solver.MaxDuration(*maxDuration),
		),
		solver.WithMasterSeed(*seed),
	}
	if *threads > 0 {
		opts = append(opts, solver.WithSearchThreads(solver.Multi, *threads))
	} else {
		opts = append(opts, solver.WithSearchThreads(solver.Auto, 0))
	}

	var registry *prometheus.Registry
	if *metrics {
		registry = prometheus.NewRegistry()
		opts = append(opts, solver.WithRegistry(registry))
	}

	cfg := solver.NewConfig(opts...)

	var best *worksolution.Accepted
	onBest := func(a *worksolution.Accepted) {
		best = a
		log.Printf("new best: hard=%.2f soft=%.2f unassigned=%d", a.Score.Hard, a.Score.Soft, a.Solution.UnassignedCount())
	}

	start := time.Now()
	var s solver.Solver
	stats, err := s.Run(context.Background(), query, cfg, onBest)
	if err != nil {
		log.Fatalf("alns-demo: solver run: %v", err)
	}
	elapsed := time.Since(start)

	snap := stats.Snapshot()
	fmt.Printf("iterations=%d accepted=%d new_bests=%d elapsed=%s\n", snap.Iterations, snap.Accepted, snap.NewBests, elapsed)

	if best == nil {
		fmt.Println("no improving solution was ever accepted into the pool")
		return
	}

	fmt.Printf("best score: hard=%.2f soft=%.2f unassigned=%d\n", best.Score.Hard, best.Score.Soft, best.Solution.UnassignedCount())
	for i, route := range best.Solution.Routes() {
		if route.Len() == 0 {
			continue
		}
		fmt.Printf("  route %d: %d stops, transport cost %.2f\n", i, route.Len(), route.TransportCost())
	}

	if registry != nil {
		families, gatherErr := registry.Gather()
		if gatherErr != nil {
			log.Fatalf("alns-demo: gathering metrics: %v", gatherErr)
		}
		for _, fam := range families {
			fmt.Printf("  metric %s: %d sample(s)\n", fam.GetName(), len(fam.GetMetric()))
		}
	}
}

// buildGridProblem scatters jobCount service jobs uniformly over a
// gridSize x gridSize square (deterministic, seeded by job index so the
// demo is reproducible run to run), with a single depot at the origin
// and a homogeneous fleet of vehicleCount vehicles.
func buildGridProblem(jobCount, vehicleCount int, capacity, gridSize float64) (*problem.StaticProblem, error) {
	locs := make([]problem.Location, jobCount+1)
	locs[0] = problem.Location{Idx: 0, X: 0, Y: 0}
	for i := 1; i <= jobCount; i++ {
		x, y := haltonPoint(i, 2, 3)
		locs[i] = problem.Location{Idx: problem.LocationIdx(i), X: x * gridSize, Y: y * gridSize}
	}

	n := len(locs)
	dist := make([][]float64, n)
	for i := range dist {
		dist[i] = make([]float64, n)
		for j := range dist[i] {
			dx := locs[i].X - locs[j].X
			dy := locs[i].Y - locs[j].Y
			dist[i][j] = math.Hypot(dx, dy)
		}
	}
	profile := problem.VehicleProfile{Idx: 0, Distance: dist, Time: dist, Cost: dist}

	jobs := make([]problem.Job, jobCount)
	for i := 0; i < jobCount; i++ {
		jobs[i] = problem.Job{
			Idx:             problem.JobIdx(i),
			Kind:            problem.ServiceJob,
			ServiceLocation: problem.LocationIdx(i + 1),
			ServiceRole:     problem.AsDelivery,
			ServiceDemand:   problem.NewDemand(1),
		}
	}

	fleet := make([]problem.Vehicle, vehicleCount)
	for v := 0; v < vehicleCount; v++ {
		fleet[v] = problem.NewVehicle(problem.VehicleIdx(v), 0, amount.New(capacity), 0,
			problem.WithDepot(0), problem.WithReturnToDepot(true), problem.WithFixedCost(50))
	}

	return problem.NewStaticProblem(jobs, fleet, locs, []problem.VehicleProfile{profile}, 2000)
}

// haltonPoint returns the i-th point of the 2D Halton low-discrepancy
// sequence in bases b1, b2, scaled to [0, 1)^2. Used in place of a PRNG
// so the demo's layout is fixed without needing its own seeded stream.
func haltonPoint(i, b1, b2 int) (float64, float64) {
	return haltonValue(i, b1), haltonValue(i, b2)
}

func haltonValue(i, base int) float64 {
	f, r := 1.0, 0.0
	for i > 0 {
		f /= float64(base)
		r += f * float64(i%base)
		i /= base
	}
	return r
}
