package model

import "github.com/shopspring/decimal"

// TransactionRow is one normalized statement row.
type TransactionRow struct {
	Date           string
	Status         string
	Type           string
	Reference      string
	Description    string
	Details        string
	Amount         decimal.Decimal // as printed, direction is inferred
	RunningBalance decimal.Decimal // balance after this transaction
}

// Direction is the inferred flow of a transaction.
type Direction string

const (
	DirectionInflow  Direction = "in"
	DirectionOutflow Direction = "out"
)

// ClassifiedRow pairs a row with its inferred direction.
type ClassifiedRow struct {
	TransactionRow
	Direction Direction
}
