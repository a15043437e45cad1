// Package amount implements Amount, a variable-dimension non-negative
// vector used throughout the solver for capacity and demand bookkeeping.
//
// Amount grows its dimension on demand: Get returns zero for any index
// beyond the current length rather than erroring, so callers never need
// to pre-size a vector before combining it with another of different
// dimension. Arithmetic (Add, Sub) mutates the receiver in place; the
// lazy Expr type lets a caller describe a sum/difference of several
// Amounts and materialize it into a destination exactly once, avoiding
// the temporary allocations a naive a.Add(b).Add(c) chain would incur
// on the capacity hot path (Route State validity checks run this many
// times per second).
package amount
