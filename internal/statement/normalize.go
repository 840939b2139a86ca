package statement

import (
	"fmt"
	"strings"

	"github.com/shopspring/decimal"

	"github.com/cleared-dev/recon/internal/model"
)

// Statement table shape: 8 columns, newest row first, header on top.
const (
	NumColumns = 8
	colDate    = 0
	colStatus  = 1
	colType    = 2
	colRef     = 3
	colDesc    = 4
	colDetails = 5
	colAmount  = 6
	colBalance = 7
)

// Layout holds the markup conventions of a statement table.
type Layout struct {
	HeaderLabel        string
	CurrencyMarker     string
	ThousandsSeparator string
}

// DefaultLayout matches TNG eWallet statements.
func DefaultLayout() Layout {
	return Layout{
		HeaderLabel:        "Date",
		CurrencyMarker:     "RM",
		ThousandsSeparator: ",",
	}
}

// Normalizer converts raw table rows into TransactionRows.
type Normalizer struct {
	layout Layout
}

// NewNormalizer creates a Normalizer for the given layout.
func NewNormalizer(layout Layout) *Normalizer {
	return &Normalizer{layout: layout}
}

// Normalize uses DefaultLayout.
func Normalize(raw [][]string) ([]model.TransactionRow, error) {
	return NewNormalizer(DefaultLayout()).Normalize(raw)
}

// Normalize drops the header row, reverses the rest into oldest-first order
// and parses each row. Blank rows and repeated headers are skipped. An empty
// cell stands for an absent one.
func (n *Normalizer) Normalize(raw [][]string) ([]model.TransactionRow, error) {
	if len(raw) == 0 {
		return nil, nil
	}
	body := raw[1:]

	rows := make([]model.TransactionRow, 0, len(body))
	for i := len(body) - 1; i >= 0; i-- {
		rec := body[i]
		if n.isArtifact(rec) {
			continue
		}
		row, err := n.parseRow(rec, i+2)
		if err != nil {
			return nil, err
		}
		rows = append(rows, row)
	}
	return rows, nil
}

// isArtifact reports rows left behind by page breaks in the source table.
func (n *Normalizer) isArtifact(rec []string) bool {
	if len(rec) == 0 {
		return true
	}
	first := strings.TrimSpace(rec[colDate])
	return first == "" || first == n.layout.HeaderLabel
}

func (n *Normalizer) parseRow(rec []string, rowNum int) (model.TransactionRow, error) {
	if len(rec) < NumColumns {
		return model.TransactionRow{}, &MalformedRowError{
			Row: rowNum,
			Err: fmt.Errorf("expected %d cells, got %d", NumColumns, len(rec)),
		}
	}

	amount, err := n.ParseAmount(rec[colAmount])
	if err != nil {
		return model.TransactionRow{}, &MalformedRowError{Row: rowNum, Column: "amount", Value: rec[colAmount], Err: err}
	}
	balance, err := n.ParseAmount(rec[colBalance])
	if err != nil {
		return model.TransactionRow{}, &MalformedRowError{Row: rowNum, Column: "balance", Value: rec[colBalance], Err: err}
	}

	return model.TransactionRow{
		Date:           rec[colDate],
		Status:         rec[colStatus],
		Type:           rec[colType],
		Reference:      rec[colRef],
		Description:    rec[colDesc],
		Details:        rec[colDetails],
		Amount:         amount,
		RunningBalance: balance,
	}, nil
}

// ParseAmount strips the currency marker and thousands separators from a
// monetary cell. An empty cell is zero.
func (n *Normalizer) ParseAmount(cell string) (decimal.Decimal, error) {
	s := strings.TrimSpace(cell)
	if s == "" {
		return decimal.Zero, nil
	}
	if n.layout.CurrencyMarker != "" {
		s = strings.ReplaceAll(s, n.layout.CurrencyMarker, "")
	}
	if n.layout.ThousandsSeparator != "" {
		s = strings.ReplaceAll(s, n.layout.ThousandsSeparator, "")
	}
	s = strings.TrimSpace(s)

	d, err := decimal.NewFromString(s)
	if err != nil {
		return decimal.Zero, fmt.Errorf("parsing decimal %q: %w", s, err)
	}
	return d, nil
}
