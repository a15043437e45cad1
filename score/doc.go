// Package score computes a route set's hard and soft constraint
// contributions and aggregates them into a Score that orders candidate
// solutions: hard violations first, soft cost second, no randomness in
// the comparison.
//
// Constraints are small stateless evaluators over routestate.State;
// each exposes a full Compute pass and, where the contract admits it,
// an incremental delta for a hypothetical insertion or local move so
// the Insertion Evaluator and Local-Search Operators never have to
// replay a whole route to price a candidate.
package score
