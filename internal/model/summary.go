package model

import "github.com/shopspring/decimal"

// Summary is the result of reconciling one ledger.
type Summary struct {
	InitialBalance decimal.Decimal `json:"initial_balance"`
	FinalBalance   decimal.Decimal `json:"final_balance"`
	TotalInflow    decimal.Decimal `json:"total_inflow"`
	TotalOutflow   decimal.Decimal `json:"total_outflow"`
	IsConsistent   bool            `json:"is_consistent"`
}

// Expected returns initial + inflow - outflow, rounded to 2 places.
func (s Summary) Expected() decimal.Decimal {
	return s.InitialBalance.Add(s.TotalInflow).Sub(s.TotalOutflow).Round(2)
}

// Difference returns final - expected. Zero for a consistent summary.
func (s Summary) Difference() decimal.Decimal {
	return s.FinalBalance.Round(2).Sub(s.Expected())
}
