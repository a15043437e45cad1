// Package ruin implements the Ruin Operators: Random, Worst, Route,
// Proximity, String, and Split-String removal. Every operator accepts a
// Context (problem, rng, how many jobs to remove, operator-specific
// Params) and mutates a working solution in place, moving removed jobs
// into its unassigned set. None of them score or reinsert anything —
// that is the recreate package's job.
package ruin
