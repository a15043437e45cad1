// Package lsearch implements the intra- and inter-route neighborhood
// operators the intensifier enumerates: 2-Opt, Or-Opt, Relocate, Swap
// within a single route, and Inter-Relocate, Inter-Swap, Inter-Or-Opt,
// 2-Opt*, Cross-Exchange, Swap* across a pair of routes. Every operator
// is exposed as a constructor that builds a Move: a pre-scored
// candidate with its own exact soft-score delta, feasibility check, and
// commit step, computed against routestate's hypothetical path so
// nothing is evaluated twice.
package lsearch
