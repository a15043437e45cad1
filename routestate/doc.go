// Package routestate implements the per-route incremental cache
// described as "Route State" in the design: the activity sequence plus
// every derived array (arrival/departure/waiting, forward and backward
// loads and their peaks, time slacks, capacity slacks, bounding box)
// needed to answer validity and delta queries without replaying the
// whole route.
//
// A State is owned by exactly one route of exactly one WorkingSolution
// clone at a time; nothing in this package takes a lock, mirroring the
// teacher's split between a locked container (core.Graph) and unlocked
// per-call work — here the caller (worksolution.Pool) is the only thing
// that needs locking, because a State itself is never shared across
// goroutines.
//
// Mutations (Insert, Remove, ReplaceActivities, Swap, Move) always
// commit: they update every cached array and bump Version. Hypothetical
// queries (IsValidChange, WaitingDurationDelta,
// TransportCostDelta) evaluate as if a change had been committed,
// without mutating anything — the split described in the design's
// "Hypothetical validity" algorithm.
package routestate
