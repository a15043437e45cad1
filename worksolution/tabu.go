package worksolution

import "sync"

// Tabu is a bounded FIFO of recently evicted solution fingerprints: a
// solution that cycles back in right after eviction is rejected by
// Pool.Offer until it ages out of the ring.
type Tabu struct {
	mu      sync.Mutex
	ring    []uint64
	members map[uint64]int // fingerprint -> count, since the same value may be added twice before aging out
	cap     int
	next    int
	filled  bool
}

// NewTabu returns an empty Tabu bounded at capacity entries. Capacity
// <= 0 disables the tabu (Contains always false, Add a no-op).
func NewTabu(capacity int) *Tabu {
	return &Tabu{
		ring:    make([]uint64, capacity),
		members: make(map[uint64]int, capacity),
		cap:     capacity,
	}
}

// Contains reports whether fp is currently banned.
func (t *Tabu) Contains(fp uint64) bool {
	if t.cap <= 0 {
		return false
	}
	t.mu.Lock()
	defer t.mu.Unlock()
	_, ok := t.members[fp]

	return ok
}

// Add inserts fp, evicting the oldest entry once the ring fills.
func (t *Tabu) Add(fp uint64) {
	if t.cap <= 0 {
		return
	}
	t.mu.Lock()
	defer t.mu.Unlock()

	if t.filled {
		old := t.ring[t.next]
		t.members[old]--
		if t.members[old] <= 0 {
			delete(t.members, old)
		}
	}
	t.ring[t.next] = fp
	t.members[fp]++
	t.next++
	if t.next >= t.cap {
		t.next = 0
		t.filled = true
	}
}

// Len reports the number of live entries currently held.
func (t *Tabu) Len() int {
	t.mu.Lock()
	defer t.mu.Unlock()
	if t.filled {
		return t.cap
	}

	return t.next
}
