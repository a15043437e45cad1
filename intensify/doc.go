// Package intensify implements the Intensifier: a best-improvement
// local-search driver over every (route,route) pair. Each pair's
// candidate moves are enumerated through the lsearch catalog, the
// single globally best negative-delta move is applied, and the driver
// repeats until no improving move remains or its iteration budget is
// exhausted.
//
// Engine keeps a cache of each pair's best known move keyed by the
// pair's route indices and routestate.State versions. Because a
// cache entry also records the *routestate.State pointers it was
// computed against, an entry is only ever reused when both the
// pointers and the versions still match the route currently installed
// at that index — so an Engine surviving across several Run calls over
// different WorkingSolution clones (the "per-thread state" the search
// driver keeps) never returns a move built against an abandoned clone;
// it just treats the pointer change as a cache miss and recomputes.
// ClearStale prunes entries whose routes are no longer installed
// anywhere in a given solution, bounding the cache's memory growth over
// the life of a thread.
package intensify
