// Package insertion implements the Insertion Evaluator: for a target
// route and job it enumerates every feasible insertion position,
// scores each through routestate's hypothetical path (no commit), and
// returns candidates ordered by soft-score delta.
//
// Fan-out across an entire fleet (BestAcrossRoutes, TopKAcrossRoutes)
// uses golang.org/x/sync/errgroup for the fork/join and
// golang.org/x/sync/semaphore to bound how many routes are scored
// concurrently, independent of the caller's own worker-thread count.
package insertion
