// Package models holds the canonical records exchanged between the statement parsers,
// the enrichment stage, the importer and the store.
package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// Direction carries the sign of a transaction; amounts are always stored unsigned.
type Direction string

const (
	DirectionIncome  Direction = "income"
	DirectionOutcome Direction = "outcome"
)

// Valid reports whether d is one of the two known directions.
func (d Direction) Valid() bool {
	return d == DirectionIncome || d == DirectionOutcome
}

// DirectionFromSigned splits a signed amount into its magnitude and direction.
// Positive amounts are income; zero and negative amounts are outcome.
func DirectionFromSigned(amount decimal.Decimal) (decimal.Decimal, Direction) {
	if amount.IsPositive() {
		return amount, DirectionIncome
	}
	return amount.Abs(), DirectionOutcome
}

// Transaction is the canonical, institution-independent transaction record.
type Transaction struct {
	// ReferenceID is the bank's id for the movement or a synthesized one. Empty means
	// no reference.
	ReferenceID string
	OccurredOn  time.Time
	Description string
	Amount      decimal.Decimal
	Direction   Direction
	Currency    string
	// Source is the institution tag the row was parsed from.
	Source     string
	CategoryID *int
	FileID     int64
}

