// Package adaptive implements Adaptive Weights: per-operator score
// accumulation, the reaction-factor weight update, roulette selection,
// and the stagnation reset, generic over whatever key type a caller
// uses to name its operators (typically a small enum of ruin or
// recreate strategies).
//
// LocalTable is the per-search-thread state, mutated without locking by
// its single owning thread between barrier ticks. GlobalTable is the
// cross-thread table a barrier-elected leader folds every thread's
// local scores into, using the same reaction-factor formula as the
// per-thread update rather than a plain average, before every thread
// overwrites its local weights from the fresh global snapshot.
package adaptive
