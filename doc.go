// Package alns is a concurrent Adaptive Large Neighborhood Search
// solver for the Vehicle Routing Problem with time windows, multi-unit
// capacity, and pickup-and-delivery shipments.
//
// A run starts from a convex-hull-seeded construction heuristic, then
// drives any number of search threads in parallel: each thread repeatedly
// ruins part of a candidate solution, recreates it through a cost-aware
// insertion evaluator, scores the result, and offers it to a shared
// solution pool through a configurable acceptor. Ruin and recreate
// operator choice adapts per thread through a reaction-factor weight
// table, periodically reconciled across threads at a barrier.
//
// Subpackages:
//
//	problem      — the static VRP instance: jobs, vehicles, locations, profiles
//	routestate   — a single vehicle's ordered activity sequence
//	worksolution — a full assignment across all vehicles, plus the solution pool
//	score        — hard/soft scoring of a candidate solution
//	insertion    — best-position job insertion with noise
//	ruin         — neighborhood-destroying operators
//	recreate     — neighborhood-rebuilding operators
//	lsearch      — local-search moves used during intensification
//	intensify    — the intensification engine driving lsearch to a local optimum
//	adaptive     — per-thread and cross-thread operator weight tables
//	accept       — candidate acceptance criteria
//	barrier      — the N-party rendezvous search threads synchronize on
//	solver       — Config, Termination, and the Solver driver itself
//
// See cmd/alns-demo for a runnable example against a synthetic grid.
package alns
