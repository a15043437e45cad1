// Package barrier implements a cancellable, reusable N-party barrier:
// every search thread calls Wait at its sync point, blocks until all N
// have arrived, then all are released together for the next
// generation. Exactly one caller per generation is told it is the
// Leader, so the search driver can elect a single thread to fold
// operator scores into the global adaptive.GlobalTable without a
// second synchronization mechanism. Any thread may Cancel the barrier
// (on termination) to unblock every waiter still inside Wait.
package barrier
