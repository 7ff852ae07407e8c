package models

import (
	"errors"
	"fmt"
	"strings"
	"time"
	"unicode/utf8"

	"mynab/budget-import/internal/dateutils"

	"github.com/shopspring/decimal"
)

// SyntheticDescriptionRunes is how much of the description goes into a synthesized
// reference id.
const SyntheticDescriptionRunes = 30

// TransactionBuilder assembles a Transaction row by row inside a parser. The first
// error recorded by a With* call is reported by Build.
type TransactionBuilder struct {
	tx          Transaction
	placeholder string
	synthesize  bool
	err         error
}

// NewTransactionBuilder starts a transaction for the given institution tag.
func NewTransactionBuilder(source string) *TransactionBuilder {
	return &TransactionBuilder{
		tx: Transaction{
			Source:    source,
			Amount:    decimal.Zero,
			Direction: DirectionOutcome,
		},
	}
}

// WithDate sets the date the movement occurred on.
func (b *TransactionBuilder) WithDate(date time.Time) *TransactionBuilder {
	if b.err != nil {
		return b
	}
	if date.IsZero() {
		b.err = errors.New("date is required")
		return b
	}
	b.tx.OccurredOn = date
	return b
}

// WithDescription sets the description; blank values are replaced by placeholder.
func (b *TransactionBuilder) WithDescription(description, placeholder string) *TransactionBuilder {
	if b.err != nil {
		return b
	}
	b.tx.Description = strings.TrimSpace(description)
	b.placeholder = placeholder
	return b
}

// WithSignedAmount derives amount and direction from a signed value.
func (b *TransactionBuilder) WithSignedAmount(amount decimal.Decimal) *TransactionBuilder {
	if b.err != nil {
		return b
	}
	b.tx.Amount, b.tx.Direction = DirectionFromSigned(amount)
	return b
}

// WithAmount sets an unsigned amount with an explicit direction.
func (b *TransactionBuilder) WithAmount(amount decimal.Decimal, direction Direction) *TransactionBuilder {
	if b.err != nil {
		return b
	}
	if amount.IsNegative() {
		b.err = fmt.Errorf("amount must not be negative: %s", amount)
		return b
	}
	if !direction.Valid() {
		b.err = fmt.Errorf("invalid direction: %q", direction)
		return b
	}
	b.tx.Amount = amount
	b.tx.Direction = direction
	return b
}

// WithReference sets the bank-provided reference. A blank reference makes Build
// synthesize one.
func (b *TransactionBuilder) WithReference(reference string) *TransactionBuilder {
	if b.err != nil {
		return b
	}
	b.tx.ReferenceID = strings.TrimSpace(reference)
	return b
}

// WithSyntheticReference forces a synthesized reference id regardless of any
// reference set before.
func (b *TransactionBuilder) WithSyntheticReference() *TransactionBuilder {
	b.synthesize = true
	return b
}

// Build validates the row and fills the description placeholder and the synthetic
// reference id.
func (b *TransactionBuilder) Build() (Transaction, error) {
	if b.err != nil {
		return Transaction{}, fmt.Errorf("builder error: %w", b.err)
	}
	if b.tx.OccurredOn.IsZero() {
		return Transaction{}, errors.New("date is required")
	}
	if b.tx.Description == "" {
		b.tx.Description = b.placeholder
	}
	if b.synthesize || b.tx.ReferenceID == "" {
		b.tx.ReferenceID = SyntheticReference(b.tx.Source, b.tx.Description, b.tx.OccurredOn)
	}
	return b.tx, nil
}

// SyntheticReference builds a deterministic id for rows without a bank reference:
// source, the first 30 runes of the description and the date as YYYYMMDD.
func SyntheticReference(source, description string, date time.Time) string {
	return fmt.Sprintf("%s_%s_%s", source, TruncateRunes(description, SyntheticDescriptionRunes), dateutils.Compact(date))
}

// TruncateRunes cuts s to at most n runes.
func TruncateRunes(s string, n int) string {
	if utf8.RuneCountInString(s) <= n {
		return s
	}
	return string([]rune(s)[:n])
}
