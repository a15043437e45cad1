// Package worksolution holds the Working Solution: a per-worker ordered
// set of routes plus the unassigned-job set, the Accepted Solution
// triple it graduates into once scored, and the shared Pool that keeps
// the population of accepted solutions a driver selects from.
//
// A WorkingSolution is owned by exactly one goroutine at a time. Workers
// clone one out of the Pool under a read lock, mutate the clone freely
// (no locking), then offer it back; only the Pool itself needs
// synchronization, mirroring the teacher's split between a locked
// container and unlocked per-call work on the clone.
package worksolution
