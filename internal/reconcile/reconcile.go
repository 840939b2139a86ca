package reconcile

import (
	"errors"

	"github.com/shopspring/decimal"

	"github.com/cleared-dev/recon/internal/model"
)

// ErrEmptyLedger is returned when there are no transaction rows to reconcile.
var ErrEmptyLedger = errors.New("empty ledger: no transaction rows")

// Reconcile classifies every row of an oldest-first ledger and returns the
// opening balance, closing balance, flow totals and whether they agree.
func Reconcile(rows []model.TransactionRow) (model.Summary, error) {
	classified, err := Classify(rows)
	if err != nil {
		return model.Summary{}, err
	}
	return Summarize(classified)
}

// Classify annotates each row with its inferred direction.
//
// The first row is an inflow when it raised the balance above the inferred
// opening balance. Every later row i+1 is an inflow when balance[i] <
// balance[i+1], otherwise an outflow.
func Classify(rows []model.TransactionRow) ([]model.ClassifiedRow, error) {
	if len(rows) == 0 {
		return nil, ErrEmptyLedger
	}

	out := make([]model.ClassifiedRow, len(rows))
	out[0] = model.ClassifiedRow{
		TransactionRow: rows[0],
		Direction:      direction(openingBalance(rows[0]), rows[0].RunningBalance),
	}
	for i := 0; i+1 < len(rows); i++ {
		out[i+1] = model.ClassifiedRow{
			TransactionRow: rows[i+1],
			Direction:      direction(rows[i].RunningBalance, rows[i+1].RunningBalance),
		}
	}
	return out, nil
}

func direction(before, after decimal.Decimal) model.Direction {
	if before.LessThan(after) {
		return model.DirectionInflow
	}
	return model.DirectionOutflow
}

func openingBalance(first model.TransactionRow) decimal.Decimal {
	return first.RunningBalance.Sub(first.Amount).Round(2)
}

type totals struct {
	inflow  decimal.Decimal
	outflow decimal.Decimal
}

func (t totals) add(r model.ClassifiedRow) totals {
	if r.Direction == model.DirectionInflow {
		return totals{inflow: t.inflow.Add(r.Amount), outflow: t.outflow}
	}
	return totals{inflow: t.inflow, outflow: t.outflow.Add(r.Amount)}
}

// Summarize folds classified rows into a Summary.
func Summarize(classified []model.ClassifiedRow) (model.Summary, error) {
	if len(classified) == 0 {
		return model.Summary{}, ErrEmptyLedger
	}

	t := totals{inflow: decimal.Zero, outflow: decimal.Zero}
	for _, r := range classified {
		t = t.add(r)
	}

	initial := openingBalance(classified[0].TransactionRow)
	final := classified[len(classified)-1].RunningBalance
	inflow := t.inflow.Round(2)
	outflow := t.outflow.Round(2)

	return model.Summary{
		InitialBalance: initial,
		FinalBalance:   final,
		TotalInflow:    inflow,
		TotalOutflow:   outflow,
		IsConsistent:   initial.Add(inflow).Sub(outflow).Round(2).Equal(final.Round(2)),
	}, nil
}
