package solver

import (
	"errors"
	"fmt"
)

// Sentinel errors wrapped by ConfigError/ConstructionError, mirroring
// the teacher's one-sentinel-per-failure-mode convention.
var (
	// ErrEmptyTerminations indicates a config carries no termination criteria.
	ErrEmptyTerminations = errors.New("solver: termination list must not be empty")

	// ErrMissingVehicleProfile indicates a profile referenced by a
	// vehicle option was never registered on the problem.
	ErrMissingVehicleProfile = errors.New("solver: vehicle references unknown profile")

	// ErrNoRuinStrategies indicates a config carries no ruin strategies.
	ErrNoRuinStrategies = errors.New("solver: no ruin strategies configured")

	// ErrNoRecreateStrategies indicates a config carries no recreate strategies.
	ErrNoRecreateStrategies = errors.New("solver: no recreate strategies configured")

	// ErrNoSeedCustomers indicates construction could not find any
	// candidate to seed a single route.
	ErrNoSeedCustomers = errors.New("solver: no seed customers available for construction")

	// ErrEmptyFleet indicates the problem has no vehicles to route with.
	ErrEmptyFleet = errors.New("solver: fleet is empty")
)

// ConfigError reports a fatal problem with a solver.Config discovered
// by Validate, which Run calls during setup: an empty termination list,
// no ruin or recreate strategies, an empty fleet, or a vehicle with an
// invalid profile index. Returned,
// never panicked (spec's Configuration error kind).
type ConfigError struct {
	Err error
}

func (e *ConfigError) Error() string { return fmt.Sprintf("solver: configuration error: %v", e.Err) }
func (e *ConfigError) Unwrap() error { return e.Err }

// ConstructionError reports that the construction heuristic could not
// build an initial solution at all: no seed customers, or a failure
// while placing seeds, inserting the rest, or running the Intensifier. Returned, never panicked (spec's Infeasible construction error
// kind).
type ConstructionError struct {
	Err error
}

func (e *ConstructionError) Error() string {
	return fmt.Sprintf("solver: construction error: %v", e.Err)
}
func (e *ConstructionError) Unwrap() error { return e.Err }
