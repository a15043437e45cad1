package barrier

import "sync"

// Role is what Wait tells a caller once its generation releases.
type Role int

const (
	// Member is returned to every caller except the one that observed
	// the last arrival.
	Member Role = iota
	// Leader is returned to exactly one caller per generation: whichever
	// arrival completed the barrier.
	Leader
	// Cancelled is returned to every caller, past or present, once
	// Cancel has been called.
	Cancelled
)

// Barrier is a cancellable, reusable N-party rendezvous point: the
// generation counter lets it be waited on repeatedly without
// reconstruction, the way the search driver's threads do at every
// threads_sync_iterations_interval tick.
type Barrier struct {
	mu         sync.Mutex
	cond       *sync.Cond
	n          int
	arrived    int
	generation uint64
	cancelled  bool
}

// New returns a Barrier for n parties. Panics if n <= 0.
func New(n int) *Barrier {
	if n <= 0 {
		panic("barrier: n must be positive")
	}
	b := &Barrier{n: n}
	b.cond = sync.NewCond(&b.mu)

	return b
}

// N reports the party count the barrier was constructed with.
func (b *Barrier) N() int { return b.n }

// Wait blocks until all N parties have called Wait for the current
// generation. The caller whose arrival completes the generation gets
// Leader; every other caller in that generation gets Member. A
// cancelled barrier returns Cancelled immediately, whether the caller
// was already blocked or arrives afterward.
func (b *Barrier) Wait() Role {
	b.mu.Lock()
	defer b.mu.Unlock()

	if b.cancelled {
		return Cancelled
	}

	gen := b.generation
	b.arrived++
	if b.arrived == b.n {
		b.arrived = 0
		b.generation++
		b.cond.Broadcast()

		return Leader
	}

	for gen == b.generation && !b.cancelled {
		b.cond.Wait()
	}
	if b.cancelled {
		return Cancelled
	}

	return Member
}

// Cancel sticks the barrier in a cancelled state, unblocking every
// caller currently inside Wait and every future call. Idempotent.
func (b *Barrier) Cancel() {
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.cancelled {
		return
	}
	b.cancelled = true
	b.cond.Broadcast()
}

// Cancelled reports whether Cancel has been called.
func (b *Barrier) Cancelled() bool {
	b.mu.Lock()
	defer b.mu.Unlock()

	return b.cancelled
}
