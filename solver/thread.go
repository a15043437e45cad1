package solver

import (
	"math/rand"
	"runtime"

	"github.com/lvlath-vrp/alns/accept"
	"github.com/lvlath-vrp/alns/intensify"
)

// autoThreadCount picks a search thread count for SearchThreads==Auto,
// trusting whatever CPU quota go.uber.org/automaxprocs has already
// applied to GOMAXPROCS by the time NewConfig calls this.
func autoThreadCount() int { return runtime.GOMAXPROCS(0) }

// defaultRNGSeed is the fixed seed used when a caller leaves
// Config.masterSeed at its zero value.
const defaultRNGSeed int64 = 1

// deriveSeed mixes a parent seed and a stream identifier into a new
// 64-bit seed via a SplitMix64-style avalanche mix, handing independent,
// reproducible streams to parallel workers.
func deriveSeed(parent int64, stream uint64) int64 {
	x := uint64(parent) ^ (stream + 0x9e3779b97f4a7c15)
	x += 0x9e3779b97f4a7c15
	x = (x ^ (x >> 30)) * 0xbf58476d1ce4e5b9
	x = (x ^ (x >> 27)) * 0x94d049bb133111eb
	x ^= x >> 31

	return int64(x)
}

// deriveRNG returns an independent deterministic RNG stream for thread
// number stream, derived from masterSeed (0 falls back to
// defaultRNGSeed).
func deriveRNG(masterSeed int64, stream uint64) *rand.Rand {
	parent := masterSeed
	if parent == 0 {
		parent = defaultRNGSeed
	}

	return rand.New(rand.NewSource(deriveSeed(parent, stream)))
}

// threadState is one search thread's private mutable state: its own RNG
// stream, its own adaptive weight tables (refreshed from the global
// tables at each barrier tick), its own Intensifier cache, and its own
// acceptor instance (Schrimpf/SimulatedAnnealing carry decaying state
// that must not be shared across threads).
type threadState struct {
	id  int
	rng *rand.Rand

	ruinTable     *localRuinTable
	recreateTable *localRecreateTable

	engine   *intensify.Engine
	acceptor accept.Acceptor

	iteration               int
	iterationsWithoutImprove int
}

// newThreadState builds thread number id's private state, deriving its
// RNG stream from cfg's master seed and constructing fresh local weight
// tables seeded from cfg's configured initial weights.
func newThreadState(id int, cfg *Config) *threadState {
	rng := deriveRNG(cfg.masterSeed, uint64(id))

	return &threadState{
		id:            id,
		rng:           rng,
		ruinTable:     newLocalRuinTable(cfg.RuinStrategies),
		recreateTable: newLocalRecreateTable(cfg.RecreateStrategies),
		engine:        intensify.NewEngine(),
		acceptor:      acceptorFor(cfg.SolverAcceptor),
	}
}
