// Package accept implements the solution Acceptors the search driver
// offers each iteration's candidate score to: Greedy, Schrimpf
// threshold, Simulated Annealing, and Any. Every acceptor shares the
// Acceptor interface; Schrimpf and SimulatedAnnealing carry their own
// decaying state and are not safe for concurrent use by more than one
// search thread.
package accept
