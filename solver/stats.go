package solver

import (
	"sync"

	"github.com/google/uuid"
	"github.com/prometheus/client_golang/prometheus"

	"github.com/lvlath-vrp/alns/score"
)

// IterationRecord stamps one search-driver iteration's outcome, the
// unit IterationRecords (when Debug is on) and Stats' running
// aggregates are both built from.
type IterationRecord struct {
	ID         uuid.UUID
	Thread     int
	Iteration  int
	RuinName   RuinStrategyName
	RecreateName RecreateStrategyName
	Score      score.Score
	Accepted   bool
	NewBest    bool
}

// Stats is the Run-wide statistics handle: an always-available
// in-memory Snapshot, and, when Config.Registry is non-nil, the same
// counters mirrored into that Prometheus registry.
type Stats struct {
	mu sync.Mutex

	iterations int
	accepted   int
	newBests   int
	byRuin     map[RuinStrategyName]int
	byRecreate map[RecreateStrategyName]int
	records    []IterationRecord
	debug      bool

	bestScore score.Score
	haveBest  bool

	promIterations prometheus.Counter
	promAccepted   prometheus.Counter
	promNewBests   prometheus.Counter
	promBestSoft   prometheus.Gauge
}

// NewStats builds an empty Stats, registering Prometheus collectors
// into registry when non-nil. debug retains every IterationRecord
// instead of only the running aggregates.
func NewStats(registry *prometheus.Registry, debug bool) *Stats {
	s := &Stats{
		byRuin:     make(map[RuinStrategyName]int),
		byRecreate: make(map[RecreateStrategyName]int),
		debug:      debug,
	}

	if registry == nil {
		return s
	}

	s.promIterations = prometheus.NewCounter(prometheus.CounterOpts{
		Namespace: "alns", Name: "iterations_total", Help: "Total search-driver iterations completed.",
	})
	s.promAccepted = prometheus.NewCounter(prometheus.CounterOpts{
		Namespace: "alns", Name: "accepted_total", Help: "Total candidates the acceptor admitted into the pool.",
	})
	s.promNewBests = prometheus.NewCounter(prometheus.CounterOpts{
		Namespace: "alns", Name: "new_best_total", Help: "Total iterations that strictly improved the pool's best solution.",
	})
	s.promBestSoft = prometheus.NewGauge(prometheus.GaugeOpts{
		Namespace: "alns", Name: "best_soft_score", Help: "Soft score of the current best known solution.",
	})

	registry.MustRegister(s.promIterations, s.promAccepted, s.promNewBests, s.promBestSoft)

	return s
}

// Record folds one iteration's outcome into the running aggregates
// (and, when Debug is on, appends it to the retained record list).
func (s *Stats) Record(rec IterationRecord) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.iterations++
	if rec.Accepted {
		s.accepted++
	}
	if rec.NewBest {
		s.newBests++
	}
	s.byRuin[rec.RuinName]++
	s.byRecreate[rec.RecreateName]++
	if !s.haveBest || rec.Score.Less(s.bestScore) {
		s.bestScore, s.haveBest = rec.Score, true
	}
	if s.debug {
		s.records = append(s.records, rec)
	}

	if s.promIterations != nil {
		s.promIterations.Inc()
		if rec.Accepted {
			s.promAccepted.Inc()
		}
		if rec.NewBest {
			s.promNewBests.Inc()
		}
		s.promBestSoft.Set(s.bestScore.Soft)
	}
}

// Snapshot is the read-only view of Stats' running aggregates returned
// to a caller, independent of whether a Prometheus registry is wired.
type Snapshot struct {
	Iterations int
	Accepted   int
	NewBests   int
	ByRuin     map[RuinStrategyName]int
	ByRecreate map[RecreateStrategyName]int
	Records    []IterationRecord
	BestScore  score.Score
}

// Snapshot copies out Stats' current aggregates.
func (s *Stats) Snapshot() Snapshot {
	s.mu.Lock()
	defer s.mu.Unlock()

	byRuin := make(map[RuinStrategyName]int, len(s.byRuin))
	for k, v := range s.byRuin {
		byRuin[k] = v
	}
	byRecreate := make(map[RecreateStrategyName]int, len(s.byRecreate))
	for k, v := range s.byRecreate {
		byRecreate[k] = v
	}
	records := make([]IterationRecord, len(s.records))
	copy(records, s.records)

	return Snapshot{
		Iterations: s.iterations,
		Accepted:   s.accepted,
		NewBests:   s.newBests,
		ByRuin:     byRuin,
		ByRecreate: byRecreate,
		Records:    records,
		BestScore:  s.bestScore,
	}
}
