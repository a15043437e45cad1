package intensify

import (
	"sync"

	"github.com/lvlath-vrp/alns/lsearch"
	"github.com/lvlath-vrp/alns/problem"
	"github.com/lvlath-vrp/alns/routestate"
)

// workingSolution is the minimal surface the Intensifier needs, kept
// local so this package does not depend on worksolution for one shared
// method set (mirrors the same convention in insertion, ruin and
// recreate).
type workingSolution interface {
	RouteCount() int
	Route(problem.RouteIdx) *routestate.State
}

// pairKey identifies one (route,route) scan, ordered so (a,b) and
// (b,a) collapse to the same entry; intra-route scans use idxA==idxB.
type pairKey struct {
	idxA, idxB problem.RouteIdx
}

func makePairKey(a, b problem.RouteIdx) pairKey {
	if a > b {
		a, b = b, a
	}

	return pairKey{idxA: a, idxB: b}
}

// cacheEntry remembers the best move found for a pair the last time it
// was scanned, alongside the exact route pointers and versions it was
// computed against. It is valid only while both still match.
type cacheEntry struct {
	routeA   *routestate.State
	versionA uint64
	routeB   *routestate.State
	versionB uint64

	move lsearch.Move // nil when the last scan found no improving move
}

func (e cacheEntry) staleAgainst(routeA, routeB *routestate.State) bool {
	if e.routeA != routeA || e.versionA != routeA.Version() {
		return true
	}
	if routeB != nil && (e.routeB != routeB || e.versionB != routeB.Version()) {
		return true
	}

	return false
}

// Engine is the per-thread Intensifier: a convergence-scoped move cache
// plus the scan/apply loop. It is owned by exactly one search-driver
// thread; the mutex below guards the cache only against the Engine's
// own internal fan-out goroutines within a single Run call, not against
// cross-thread sharing.
type Engine struct {
	mu    sync.Mutex
	cache map[pairKey]cacheEntry
}

// NewEngine returns an empty Engine.
func NewEngine() *Engine {
	return &Engine{cache: make(map[pairKey]cacheEntry)}
}

// Len reports the number of entries currently cached, mirroring
// worksolution.Pool.Len's naming for a bounded internal collection.
func (e *Engine) Len() int {
	e.mu.Lock()
	defer e.mu.Unlock()

	return len(e.cache)
}

// ClearStale drops every cache entry whose stored route pointer is no
// longer installed at its index in ws, bounding cache growth across the
// many WorkingSolution clones an Engine outlives over a thread's life.
func (e *Engine) ClearStale(ws workingSolution) {
	e.mu.Lock()
	defer e.mu.Unlock()

	for key, entry := range e.cache {
		if int(key.idxA) >= ws.RouteCount() || entry.routeA != ws.Route(key.idxA) {
			delete(e.cache, key)

			continue
		}
		if key.idxB != key.idxA {
			if int(key.idxB) >= ws.RouteCount() || entry.routeB != ws.Route(key.idxB) {
				delete(e.cache, key)
			}
		}
	}
}

// lookup returns the cached move for key if its stored pointers and
// versions still match routeA/routeB, along with whether the entry
// existed at all (hit vs miss, so a miss and a cached "no move" are
// distinguishable).
func (e *Engine) lookup(key pairKey, routeA, routeB *routestate.State) (lsearch.Move, bool) {
	e.mu.Lock()
	defer e.mu.Unlock()

	entry, ok := e.cache[key]
	if !ok || entry.staleAgainst(routeA, routeB) {
		return nil, false
	}

	return entry.move, true
}

func (e *Engine) store(key pairKey, routeA, routeB *routestate.State, move lsearch.Move) {
	e.mu.Lock()
	defer e.mu.Unlock()

	entry := cacheEntry{routeA: routeA, versionA: routeA.Version(), move: move}
	if routeB != nil {
		entry.routeB, entry.versionB = routeB, routeB.Version()
	}
	e.cache[key] = entry
}
