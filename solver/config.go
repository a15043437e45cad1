package solver

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"go.uber.org/automaxprocs/maxprocs"

	"github.com/lvlath-vrp/alns/accept"
	"github.com/lvlath-vrp/alns/problem"
	"github.com/lvlath-vrp/alns/ruin"
	"github.com/lvlath-vrp/alns/score"
)

// SearchThreadsMode selects how many search threads Run spawns.
type SearchThreadsMode int

const (
	// Single runs one search thread (no barrier synchronization).
	Single SearchThreadsMode = iota
	// Multi runs a fixed, caller-chosen number of search threads.
	Multi
	// Auto lets go.uber.org/automaxprocs pick a sane thread count under
	// whatever CPU quota the process is actually confined to.
	Auto
)

// RuinParams bundles a ruin strategy with its adaptive starting weight
// and the operator-specific knobs it reads from ruin.Params.
type RuinParams struct {
	Name          RuinStrategyName
	InitialWeight float64
	ruin.Params
}

// RecreateParams bundles a recreate strategy with its adaptive starting weight.
type RecreateParams struct {
	Name          RecreateStrategyName
	InitialWeight float64
}

// Config is the solver's full set of knobs, recognizing exactly the
// options spec.md §6 enumerates. Build one via NewConfig; the zero
// value is not valid (NewConfig installs every default).
type Config struct {
	MaxSolutions int

	TabuEnabled    bool
	TabuSize       int
	TabuIterations int

	RunIntensifySearch   bool
	IntensifyProbability float64
	IntensifyEvery       int

	SearchThreads      SearchThreadsMode
	SearchThreadsCount int
	InsertionThreads   int

	AlnsReactionFactor                   float64
	AlnsSegmentIterations                int
	AlnsIterationsWithoutImprovementReset int
	ThreadsSyncIterationsInterval        int

	RuinStrategies      []RuinParams
	RecreateStrategies  []RecreateParams

	RuinMinimumRatio float64
	RuinMaximumRatio float64

	NoiseLevel       float64
	NoiseProbability float64

	InsertOnFailure bool

	Terminations []Termination

	SolverAcceptor AcceptorKind
	SolverSelector SelectorKind

	Weights score.Weights

	// Registry, when non-nil, backs Stats with Prometheus counters and
	// gauges in addition to the always-available in-memory Snapshot.
	Registry *prometheus.Registry

	// Debug, when true, retains every IterationRecord in Stats instead
	// of just the running aggregates.
	Debug bool

	masterSeed int64
}

// Option configures a Config at construction time.
type Option func(*Config)

// WithMaxSolutions bounds the accepted-solution pool size.
func WithMaxSolutions(n int) Option { return func(c *Config) { c.MaxSolutions = n } }

// WithTabu enables the tabu FIFO with the given ring size.
func WithTabu(size, iterations int) Option {
	return func(c *Config) {
		c.TabuEnabled = true
		c.TabuSize = size
		c.TabuIterations = iterations
	}
}

// WithIntensify enables the intensifier: on every n-th iteration a
// thread runs it, instead of ruin-recreate, with probability p.
func WithIntensify(every int, probability float64) Option {
	return func(c *Config) {
		c.RunIntensifySearch = true
		c.IntensifyEvery = every
		c.IntensifyProbability = probability
	}
}

// WithSearchThreads sets Single, Multi(n), or Auto.
func WithSearchThreads(mode SearchThreadsMode, n int) Option {
	return func(c *Config) {
		c.SearchThreads = mode
		c.SearchThreadsCount = n
	}
}

// WithInsertionThreads bounds the Insertion Evaluator's fork/join width.
func WithInsertionThreads(n int) Option { return func(c *Config) { c.InsertionThreads = n } }

// WithAlnsReactionFactor sets rho in the adaptive weight update.
func WithAlnsReactionFactor(rho float64) Option {
	return func(c *Config) { c.AlnsReactionFactor = rho }
}

// WithAlnsSegmentIterations sets how often local weights update.
func WithAlnsSegmentIterations(n int) Option {
	return func(c *Config) { c.AlnsSegmentIterations = n }
}

// WithStagnationReset sets how many fruitless iterations trigger a
// uniform weight reset.
func WithStagnationReset(n int) Option {
	return func(c *Config) { c.AlnsIterationsWithoutImprovementReset = n }
}

// WithThreadsSyncInterval sets how often threads rendezvous at the
// barrier to merge global weights.
func WithThreadsSyncInterval(n int) Option {
	return func(c *Config) { c.ThreadsSyncIterationsInterval = n }
}

// WithRuinStrategies replaces the ruin catalog.
func WithRuinStrategies(strategies ...RuinParams) Option {
	return func(c *Config) { c.RuinStrategies = strategies }
}

// WithRecreateStrategies replaces the recreate catalog.
func WithRecreateStrategies(strategies ...RecreateParams) Option {
	return func(c *Config) { c.RecreateStrategies = strategies }
}

// WithRuinRatios bounds num_jobs_to_remove as a fraction of assigned jobs.
func WithRuinRatios(min, max float64) Option {
	return func(c *Config) {
		c.RuinMinimumRatio = min
		c.RuinMaximumRatio = max
	}
}

// WithNoise configures insertion-scoring jitter.
func WithNoise(level, probability float64) Option {
	return func(c *Config) {
		c.NoiseLevel = level
		c.NoiseProbability = probability
	}
}

// WithInsertOnFailure toggles forced placement when nothing is feasible.
func WithInsertOnFailure(enabled bool) Option { return func(c *Config) { c.InsertOnFailure = enabled } }

// WithTerminations replaces the termination criteria list.
func WithTerminations(terms ...Termination) Option {
	return func(c *Config) { c.Terminations = terms }
}

// WithAcceptor selects the acceptor every thread runs.
func WithAcceptor(kind AcceptorKind) Option { return func(c *Config) { c.SolverAcceptor = kind } }

// WithSelector selects how a thread picks its base solution.
func WithSelector(kind SelectorKind) Option { return func(c *Config) { c.SolverSelector = kind } }

// WithWeights sets the soft-score family weights.
func WithWeights(w score.Weights) Option { return func(c *Config) { c.Weights = w } }

// WithRegistry attaches a Prometheus registry Stats publishes to, in
// addition to its always-available in-memory snapshot.
func WithRegistry(r *prometheus.Registry) Option { return func(c *Config) { c.Registry = r } }

// WithDebug retains every IterationRecord instead of only aggregates.
func WithDebug(enabled bool) Option { return func(c *Config) { c.Debug = enabled } }

// WithMasterSeed fixes the deterministic seed every search thread's RNG
// stream derives from. Zero (the default) uses the fixed seed
// defaultRNGSeed.
func WithMasterSeed(seed int64) Option { return func(c *Config) { c.masterSeed = seed } }

// defaultRuinStrategies seeds the catalog at uniform weight 1 when a
// caller does not supply one.
func defaultRuinStrategies() []RuinParams {
	out := make([]RuinParams, 0, len(AllRuinStrategies()))
	for _, name := range AllRuinStrategies() {
		out = append(out, RuinParams{
			Name:          name,
			InitialWeight: 1,
			Params: ruin.Params{
				ProximityK: 5,
				RouteMin:   1, RouteMax: 3,
				LengthMin: 2, LengthMax: 6,
			},
		})
	}

	return out
}

func defaultRecreateStrategies() []RecreateParams {
	out := make([]RecreateParams, 0, len(AllRecreateStrategies()))
	for _, name := range AllRecreateStrategies() {
		out = append(out, RecreateParams{Name: name, InitialWeight: 1})
	}

	return out
}

// NewConfig builds a Config from the teacher's functional-options
// convention, starting from the defaults every field below documents,
// then applying opts in order. When SearchThreads is Auto,
// go.uber.org/automaxprocs picks SearchThreadsCount once here instead of
// trusting runtime.NumCPU() under a cgroup CPU quota.
func NewConfig(opts ...Option) *Config {
	c := &Config{
		MaxSolutions:                          200,
		RunIntensifySearch:                     true,
		IntensifyEvery:                         500,
		IntensifyProbability:                   0.05,
		SearchThreads:                          Single,
		SearchThreadsCount:                     1,
		InsertionThreads:                       4,
		AlnsReactionFactor:                     0.1,
		AlnsSegmentIterations:                  100,
		AlnsIterationsWithoutImprovementReset:  2000,
		ThreadsSyncIterationsInterval:          500,
		RuinStrategies:                         defaultRuinStrategies(),
		RecreateStrategies:                     defaultRecreateStrategies(),
		RuinMinimumRatio:                       0.05,
		RuinMaximumRatio:                       0.25,
		InsertOnFailure:                        false,
		SolverAcceptor:                         AcceptGreedy,
		SolverSelector:                         SelectBest,
		Weights:                                score.DefaultWeights(),
	}
	for _, opt := range opts {
		opt(c)
	}

	if c.SearchThreads == Auto {
		undo, err := maxprocs.Set()
		if err == nil {
			defer undo()
		}
		n := autoThreadCount()
		if n < 1 {
			n = 1
		}
		c.SearchThreadsCount = n
	}
	if c.SearchThreads == Single {
		c.SearchThreadsCount = 1
	}

	return c
}

// Validate reports a *ConfigError if c cannot drive a Run: an empty
// termination list, or (given problem query) a vehicle naming a profile
// the problem never registered.
func (c *Config) Validate(query problem.Query) error {
	if len(c.Terminations) == 0 {
		return &ConfigError{Err: ErrEmptyTerminations}
	}
	if len(c.RuinStrategies) == 0 {
		return &ConfigError{Err: ErrNoRuinStrategies}
	}
	if len(c.RecreateStrategies) == 0 {
		return &ConfigError{Err: ErrNoRecreateStrategies}
	}
	if query.VehicleCount() == 0 {
		return &ConfigError{Err: ErrEmptyFleet}
	}

	// problem.NewStaticProblem already rejects an out-of-range profile at
	// construction (ErrUnknownProfile); Query is a general interface
	// though, so a hand-rolled implementation could still hand back a
	// negative profile index. That is the one thing cheap to catch here
	// without a profile count to bounds-check against.
	for v := 0; v < query.VehicleCount(); v++ {
		if query.Vehicle(problem.VehicleIdx(v)).Profile < 0 {
			return &ConfigError{Err: ErrMissingVehicleProfile}
		}
	}

	return nil
}

// acceptorFor builds the configured Acceptor instance. Run calibrates a
// Schrimpf acceptor from its warmup sample (solver.go); a
// SimulatedAnnealing acceptor keeps the reference soft score of 1 set
// here and is not recalibrated.
func acceptorFor(kind AcceptorKind) accept.Acceptor {
	switch kind {
	case AcceptSchrimpf:
		return accept.NewSchrimpf(0.999)
	case AcceptSimulatedAnnealing:
		return accept.NewSimulatedAnnealing(0.05, 1, 0.999)
	case AcceptAny:
		return accept.Any{}
	default:
		return accept.Greedy{}
	}
}

// terminationFromDuration is a convenience constructor for the common
// wall-clock termination criterion.
func terminationFromDuration(d time.Duration) Termination {
	return &maxDuration{limit: d}
}
