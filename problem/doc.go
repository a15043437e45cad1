// Package problem defines the read-only data model the solver core
// consumes: locations, time windows, jobs (services and shipments),
// vehicles, and vehicle profiles, plus the Query interface that
// the search driver, route state, and scoring machinery query through.
//
// Problem data is immutable once constructed and is shared read-only
// across every solver worker goroutine; nothing in this package holds
// a lock because nothing in it is ever mutated after construction.
package problem
