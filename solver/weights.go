package solver

import "github.com/lvlath-vrp/alns/adaptive"

// localRuinTable and localRecreateTable name the two LocalTable
// instantiations every search thread keeps, one per catalog.
type localRuinTable = adaptive.LocalTable[RuinStrategyName]
type localRecreateTable = adaptive.LocalTable[RecreateStrategyName]

// globalRuinTable and globalRecreateTable name the Run-wide
// GlobalTable instantiations the barrier-elected leader merges into
// and every thread refreshes its local table from.
type globalRuinTable = adaptive.GlobalTable[RuinStrategyName]
type globalRecreateTable = adaptive.GlobalTable[RecreateStrategyName]

func ruinKeys(strategies []RuinParams) []RuinStrategyName {
	keys := make([]RuinStrategyName, len(strategies))
	for i, s := range strategies {
		keys[i] = s.Name
	}

	return keys
}

func ruinInitialWeights(strategies []RuinParams) map[RuinStrategyName]float64 {
	out := make(map[RuinStrategyName]float64, len(strategies))
	for _, s := range strategies {
		out[s.Name] = s.InitialWeight
	}

	return out
}

func recreateKeys(strategies []RecreateParams) []RecreateStrategyName {
	keys := make([]RecreateStrategyName, len(strategies))
	for i, s := range strategies {
		keys[i] = s.Name
	}

	return keys
}

func recreateInitialWeights(strategies []RecreateParams) map[RecreateStrategyName]float64 {
	out := make(map[RecreateStrategyName]float64, len(strategies))
	for _, s := range strategies {
		out[s.Name] = s.InitialWeight
	}

	return out
}

// newLocalRuinTable builds a thread's private ruin weight table seeded
// from cfg's configured ruin catalog.
func newLocalRuinTable(strategies []RuinParams) *localRuinTable {
	return adaptive.NewLocalTable(ruinKeys(strategies), ruinInitialWeights(strategies))
}

// newLocalRecreateTable builds a thread's private recreate weight table
// seeded from cfg's configured recreate catalog.
func newLocalRecreateTable(strategies []RecreateParams) *localRecreateTable {
	return adaptive.NewLocalTable(recreateKeys(strategies), recreateInitialWeights(strategies))
}

// newGlobalRuinTable builds the Run-wide ruin weight table.
func newGlobalRuinTable(strategies []RuinParams) *globalRuinTable {
	return adaptive.NewGlobalTable(ruinKeys(strategies), ruinInitialWeights(strategies))
}

// newGlobalRecreateTable builds the Run-wide recreate weight table.
func newGlobalRecreateTable(strategies []RecreateParams) *globalRecreateTable {
	return adaptive.NewGlobalTable(recreateKeys(strategies), recreateInitialWeights(strategies))
}
