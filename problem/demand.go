package problem

// NewDemand builds a Demand over the given per-dimension values.
func NewDemand(values ...float64) Demand {
	cp := make([]float64, len(values))
	copy(cp, values)

	return Demand{Values: cp}
}

// NewShipmentDemand builds a ShipmentDemand over the given per-dimension
// values, added on pickup and subtracted on delivery.
func NewShipmentDemand(values ...float64) ShipmentDemand {
	cp := make([]float64, len(values))
	copy(cp, values)

	return ShipmentDemand{Values: cp}
}
