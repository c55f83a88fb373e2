package projection

import "github.com/shopspring/decimal"

// Flow is the inflow/outflow pair of one day.
type Flow struct {
	Inflow  decimal.Decimal
	Outflow decimal.Decimal
}

// ZeroFlow has both sides set to decimal.Zero.
func ZeroFlow() Flow {
	return Flow{Inflow: decimal.Zero, Outflow: decimal.Zero}
}

// Add returns the sum of f and o.
func (f Flow) Add(o Flow) Flow {
	return Flow{Inflow: f.Inflow.Add(o.Inflow), Outflow: f.Outflow.Add(o.Outflow)}
}

// Net is inflow minus outflow.
func (f Flow) Net() decimal.Decimal {
	return f.Inflow.Sub(f.Outflow)
}
