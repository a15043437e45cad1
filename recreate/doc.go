// Package recreate implements the Recreate Operators: Greedy
// Best-Insertion and Regret-k, both built on the insertion package's
// Evaluator for per-(route,job) scoring. Greedy repeatedly finds and
// commits one globally best insertion per iteration; Regret-k ranks
// unassigned jobs by how much it would cost to defer each one and
// commits the job with the largest regret first.
package recreate
