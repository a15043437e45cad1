package solver

import (
	stdcontext "context"
	"math/rand"
	"sync/atomic"
	"time"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"

	"github.com/lvlath-vrp/alns/accept"
	"github.com/lvlath-vrp/alns/adaptive"
	"github.com/lvlath-vrp/alns/barrier"
	"github.com/lvlath-vrp/alns/insertion"
	"github.com/lvlath-vrp/alns/intensify"
	"github.com/lvlath-vrp/alns/problem"
	"github.com/lvlath-vrp/alns/recreate"
	"github.com/lvlath-vrp/alns/ruin"
	"github.com/lvlath-vrp/alns/score"
	"github.com/lvlath-vrp/alns/worksolution"
)

// BestSolutionFunc is invoked whenever a search thread lands a
// candidate that strictly improves the pool's best known solution. May
// be called concurrently from more than one thread; implementations
// must be safe for that.
type BestSolutionFunc func(*worksolution.Accepted)

// schrimpfWarmupIterations bounds the random-walk sample Schrimpf
// calibrates its initial threshold from, run once up front against the
// constructed initial solution rather than per search thread.
const schrimpfWarmupIterations = 30

// Solver drives the full search described by a Config against a
// problem.Query: build an initial solution, then run one or more
// search threads that each iteration either intensify or ruin-recreate
// a pool-selected base solution, feeding accepted candidates back into
// a shared pool until a Termination fires.
type Solver struct{}

// Run executes the search to completion and returns the final Stats.
// onBest may be nil.
func (Solver) Run(ctx stdcontext.Context, query problem.Query, cfg *Config, onBest BestSolutionFunc) (*Stats, error) {
	if err := cfg.Validate(query); err != nil {
		return nil, err
	}

	masterRNG := deriveRNG(cfg.masterSeed, 0)
	eval := insertion.NewEvaluator(query, cfg.Weights,
		insertion.WithNoise(cfg.NoiseLevel, cfg.NoiseProbability),
		insertion.WithRNG(masterRNG))

	initial, err := construct(ctx, query, eval, cfg.Weights, cfg.InsertionThreads)
	if err != nil {
		return nil, err
	}
	initialScore, initialAnalysis := score.Compute(query, initial.Routes(), initial.UnassignedCount(), cfg.Weights)

	pool := worksolution.NewPool(cfg.MaxSolutions)
	tabuSize := 0
	if cfg.TabuEnabled {
		tabuSize = cfg.TabuSize
	}
	tabu := worksolution.NewTabu(tabuSize)
	pool.Offer(worksolution.NewAccepted(initial, initialScore, initialAnalysis), tabu)

	globalRuin := newGlobalRuinTable(cfg.RuinStrategies)
	globalRecreate := newGlobalRecreateTable(cfg.RecreateStrategies)

	ruinParams := make(map[RuinStrategyName]RuinParams, len(cfg.RuinStrategies))
	for _, rp := range cfg.RuinStrategies {
		ruinParams[rp.Name] = rp
	}

	stats := NewStats(cfg.Registry, cfg.Debug)

	threads := cfg.SearchThreadsCount
	if threads < 1 {
		threads = 1
	}
	b := barrier.New(threads)

	var warmup []float64
	if cfg.SolverAcceptor == AcceptSchrimpf {
		warmup = schrimpfWarmup(ctx, query, eval, cfg, initial, masterRNG)
	}

	var stopped atomic.Bool
	start := time.Now()

	g, gctx := errgroup.WithContext(ctx)
	for id := 0; id < threads; id++ {
		id := id
		g.Go(func() error {
			st := newThreadState(id, cfg)
			if sa, ok := st.acceptor.(*accept.Schrimpf); ok {
				sa.Calibrate(warmup)
			}

			return runThread(gctx, query, eval, cfg, pool, tabu, globalRuin, globalRecreate, ruinParams, b, st, stats, onBest, &stopped, start)
		})
	}

	if err := g.Wait(); err != nil {
		return stats, err
	}

	return stats, nil
}

// schrimpfWarmup runs a short ruin-recreate random walk from a clone of
// initial, using the Random/Greedy strategies and an always-accept
// policy, and returns the soft scores visited along the way — the
// sample Schrimpf.Calibrate turns into an initial threshold.
func schrimpfWarmup(ctx stdcontext.Context, query problem.Query, eval *insertion.Evaluator, cfg *Config, initial *worksolution.WorkingSolution, rng *rand.Rand) []float64 {
	ws := initial.Clone()
	samples := make([]float64, 0, schrimpfWarmupIterations)

	for i := 0; i < schrimpfWarmupIterations; i++ {
		assigned := query.JobCount() - ws.UnassignedCount()
		k := sampleRemovalCount(cfg, assigned, rng)

		rctx := ruin.Context{Problem: query, RNG: rng, NumJobsToRemove: k}
		if err := (ruin.Random{}).Apply(ws, rctx); err != nil {
			break
		}

		rc := recreate.Context{Problem: query, Eval: eval, Concurrency: cfg.InsertionThreads, InsertOnFailure: cfg.InsertOnFailure}
		if err := (recreate.Greedy{}).Apply(ctx, ws, rc); err != nil {
			break
		}

		s, _ := score.Compute(query, ws.Routes(), ws.UnassignedCount(), cfg.Weights)
		samples = append(samples, s.Soft)
	}

	return samples
}

// sampleRemovalCount picks num_jobs_to_remove uniformly from
// [ceil(RuinMinimumRatio*assigned), floor(RuinMaximumRatio*assigned)],
// never below 1 nor above assigned.
func sampleRemovalCount(cfg *Config, assigned int, rng *rand.Rand) int {
	if assigned <= 0 {
		return 0
	}

	lo := int(ceilf(cfg.RuinMinimumRatio * float64(assigned)))
	hi := int(cfg.RuinMaximumRatio * float64(assigned))
	if lo < 1 {
		lo = 1
	}
	if hi < lo {
		hi = lo
	}
	if hi > assigned {
		hi = assigned
	}

	return lo + rng.Intn(hi-lo+1)
}

func ceilf(v float64) float64 {
	i := float64(int(v))
	if v > i {
		return i + 1
	}

	return i
}

// maxIterationsLimit reports the limit of the first maxIterations
// Termination in terms, or 0 if none is configured.
func maxIterationsLimit(terms []Termination) int {
	for _, t := range terms {
		if m, ok := t.(*maxIterations); ok {
			return m.limit
		}
	}

	return 0
}

// usedVehicles counts ws's non-empty routes.
func usedVehicles(ws *worksolution.WorkingSolution) int {
	n := 0
	for i := 0; i < ws.RouteCount(); i++ {
		if ws.Route(problem.RouteIdx(i)).Len() > 0 {
			n++
		}
	}

	return n
}

// selectBase picks one Accepted from pool's current snapshot per kind:
// SelectBest always takes the pool's best, SelectRandom picks
// uniformly, SelectWeighted favors better-ranked entries via a
// rank-based roulette (rank 0 gets the largest share).
func selectBase(pool *worksolution.Pool, kind SelectorKind, rng *rand.Rand) *worksolution.Accepted {
	snap := pool.Snapshot()
	if len(snap) == 0 {
		return nil
	}

	switch kind {
	case SelectRandom:
		return snap[rng.Intn(len(snap))]
	case SelectWeighted:
		total := 0.0
		for i := range snap {
			total += 1.0 / float64(i+1)
		}
		r := rng.Float64() * total
		for i, acc := range snap {
			r -= 1.0 / float64(i+1)
			if r <= 0 {
				return acc
			}
		}

		return snap[len(snap)-1]
	default:
		return snap[0]
	}
}

// runThread is one search thread's main loop: select a base solution,
// either intensify it or ruin-and-recreate it, score the result, offer
// it to the pool, fold the outcome into the thread's adaptive weights,
// check every Termination, and periodically rendezvous at the barrier
// to merge weights across threads.
func runThread(
	ctx stdcontext.Context,
	query problem.Query,
	eval *insertion.Evaluator,
	cfg *Config,
	pool *worksolution.Pool,
	tabu *worksolution.Tabu,
	globalRuin *globalRuinTable,
	globalRecreate *globalRecreateTable,
	ruinParams map[RuinStrategyName]RuinParams,
	b *barrier.Barrier,
	st *threadState,
	stats *Stats,
	onBest BestSolutionFunc,
	stopped *atomic.Bool,
	start time.Time,
) error {
	scoreWeights := adaptive.DefaultScoreWeights()

	for {
		if stopped.Load() {
			return nil
		}
		select {
		case <-ctx.Done():
			return ctx.Err()
		default:
		}

		base := selectBase(pool, cfg.SolverSelector, st.rng)
		if base == nil {
			continue
		}
		ws := base.Solution.Clone()

		useIntensify := cfg.RunIntensifySearch && st.iteration > 0 &&
			st.iteration%cfg.IntensifyEvery == 0 && st.rng.Float64() < cfg.IntensifyProbability

		var ruinName RuinStrategyName
		var recreateName RecreateStrategyName

		if useIntensify {
			icfg := intensify.Context{Problem: query, Weights: cfg.Weights, Eval: eval, Concurrency: cfg.InsertionThreads}
			if _, err := st.engine.Run(ctx, ws, icfg); err != nil {
				return err
			}
		} else {
			ruinName = st.ruinTable.Select(st.rng)
			recreateName = st.recreateTable.Select(st.rng)

			assigned := query.JobCount() - ws.UnassignedCount()
			k := sampleRemovalCount(cfg, assigned, st.rng)

			rctx := ruin.Context{Problem: query, RNG: st.rng, NumJobsToRemove: k, Params: ruinParams[ruinName].Params}
			op := ruinOperator(ruinName, cfg.Weights)
			if err := op.Apply(ws, rctx); err != nil {
				return err
			}

			rc := recreate.Context{Problem: query, Eval: eval, Concurrency: cfg.InsertionThreads, InsertOnFailure: cfg.InsertOnFailure}
			if err := applyRecreate(ctx, recreateName, st.rng, ws, rc); err != nil {
				return err
			}
		}

		candScore, candAnalysis := score.Compute(query, ws.Routes(), ws.UnassignedCount(), cfg.Weights)

		actx := accept.Context{
			Iteration:     st.iteration,
			MaxIterations: maxIterationsLimit(cfg.Terminations),
			MaxSolutions:  cfg.MaxSolutions,
			RNG:           st.rng,
		}
		accepted := st.acceptor.Accept(candScore, base.Score, actx)

		isBest := false
		if accepted {
			prevBest := pool.Best()
			candidate := worksolution.NewAccepted(ws, candScore, candAnalysis)
			if pool.Offer(candidate, tabu) {
				if prevBest == nil || candidate.Less(prevBest) {
					isBest = true
					if onBest != nil {
						onBest(candidate)
					}
				}
			} else {
				accepted = false
			}
		}

		if !useIntensify {
			outcome := adaptive.Outcome{IsBest: isBest, Improved: candScore.Less(base.Score), Accepted: accepted}
			st.ruinTable.RecordOutcome(ruinName, outcome, scoreWeights)
			st.recreateTable.RecordOutcome(recreateName, outcome, scoreWeights)
		}

		stats.Record(IterationRecord{
			ID: uuid.New(), Thread: st.id, Iteration: st.iteration,
			RuinName: ruinName, RecreateName: recreateName,
			Score: candScore, Accepted: accepted, NewBest: isBest,
		})

		if isBest {
			st.iterationsWithoutImprove = 0
		} else {
			st.iterationsWithoutImprove++
		}
		if cfg.AlnsIterationsWithoutImprovementReset > 0 &&
			st.iterationsWithoutImprove >= cfg.AlnsIterationsWithoutImprovementReset {
			st.ruinTable.ResetToUniform()
			st.recreateTable.ResetToUniform()
			st.iterationsWithoutImprove = 0
		}

		st.iteration++
		if cfg.AlnsSegmentIterations > 0 && st.iteration%cfg.AlnsSegmentIterations == 0 {
			st.ruinTable.UpdateWeights(cfg.AlnsReactionFactor)
			st.recreateTable.UpdateWeights(cfg.AlnsReactionFactor)
		}

		best := pool.Best()
		tq := TerminationQuery{
			Iteration:                st.iteration,
			MaxIterations:            maxIterationsLimit(cfg.Terminations),
			IterationsWithoutImprove: st.iterationsWithoutImprove,
			Elapsed:                  time.Since(start),
			Best:                     best.Score,
			VehiclesUsed:             usedVehicles(best.Solution),
		}
		if anyFires(cfg.Terminations, tq) {
			stopped.Store(true)
			b.Cancel()

			return nil
		}

		if cfg.ThreadsSyncIterationsInterval > 0 && st.iteration%cfg.ThreadsSyncIterationsInterval == 0 {
			globalRuin.Accumulate(st.ruinTable)
			globalRecreate.Accumulate(st.recreateTable)

			role := b.Wait()
			if role == barrier.Cancelled {
				stopped.Store(true)

				return nil
			}
			if role == barrier.Leader {
				globalRuin.Merge(cfg.AlnsReactionFactor)
				globalRecreate.Merge(cfg.AlnsReactionFactor)
			}

			if b.Wait() == barrier.Cancelled {
				stopped.Store(true)

				return nil
			}

			st.ruinTable.SetWeights(globalRuin.Snapshot())
			st.recreateTable.SetWeights(globalRecreate.Snapshot())
			st.engine.ClearStale(ws)
		}
	}
}
