package report

import (
	"encoding/json"
	"fmt"
	"io"
	"text/tabwriter"

	"github.com/Rhymond/go-money"
	"github.com/shopspring/decimal"

	"github.com/cleared-dev/recon/internal/model"
)

// Renderer formats amounts in one currency.
type Renderer struct {
	currency *money.Currency
}

// NewRenderer returns a Renderer for an ISO 4217 currency code.
func NewRenderer(currencyCode string) (*Renderer, error) {
	cur := money.GetCurrency(currencyCode)
	if cur == nil {
		return nil, fmt.Errorf("unknown currency %q", currencyCode)
	}
	return &Renderer{currency: cur}, nil
}

// Amount formats d with the currency's grapheme and separators.
func (r *Renderer) Amount(d decimal.Decimal) string {
	places := int32(r.currency.Fraction)
	minor := d.Round(places).Shift(places).IntPart()
	return money.New(minor, r.currency.Code).Display()
}

// WriteText writes the summary as a result panel.
func (r *Renderer) WriteText(w io.Writer, s model.Summary) error {
	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	fmt.Fprintf(tw, "Initial balance\t%s\n", r.Amount(s.InitialBalance))
	fmt.Fprintf(tw, "Money in\t%s\n", r.Amount(s.TotalInflow))
	fmt.Fprintf(tw, "Money out\t%s\n", r.Amount(s.TotalOutflow))
	fmt.Fprintf(tw, "Final balance\t%s\n", r.Amount(s.FinalBalance))
	if err := tw.Flush(); err != nil {
		return fmt.Errorf("writing summary: %w", err)
	}

	var err error
	if s.IsConsistent {
		_, err = fmt.Fprintln(w, "Amount balances")
	} else {
		_, err = fmt.Fprintf(w, "Amount does not balance: expected %s, statement shows %s\n",
			r.Amount(s.Expected()), r.Amount(s.FinalBalance))
	}
	return err
}

// WriteDetail writes one line per classified row, oldest first.
func (r *Renderer) WriteDetail(w io.Writer, rows []model.ClassifiedRow) error {
	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, "DATE\tFLOW\tAMOUNT\tBALANCE\tTYPE\tDESCRIPTION")
	for _, row := range rows {
		fmt.Fprintf(tw, "%s\t%s\t%s\t%s\t%s\t%s\n",
			row.Date, row.Direction, r.Amount(row.Amount), r.Amount(row.RunningBalance), row.Type, row.Description)
	}
	if err := tw.Flush(); err != nil {
		return fmt.Errorf("writing detail: %w", err)
	}
	return nil
}

// summaryJSON fixes every amount to two places.
type summaryJSON struct {
	InitialBalance string `json:"initial_balance"`
	FinalBalance   string `json:"final_balance"`
	TotalInflow    string `json:"total_inflow"`
	TotalOutflow   string `json:"total_outflow"`
	IsConsistent   bool   `json:"is_consistent"`
}

// WriteJSON writes the summary as a single JSON object.
func WriteJSON(w io.Writer, s model.Summary) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	err := enc.Encode(summaryJSON{
		InitialBalance: s.InitialBalance.StringFixed(2),
		FinalBalance:   s.FinalBalance.StringFixed(2),
		TotalInflow:    s.TotalInflow.StringFixed(2),
		TotalOutflow:   s.TotalOutflow.StringFixed(2),
		IsConsistent:   s.IsConsistent,
	})
	if err != nil {
		return fmt.Errorf("encoding summary: %w", err)
	}
	return nil
}
