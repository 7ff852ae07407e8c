package parser

import (
	"errors"
	"fmt"

	"mynab/budget-import/internal/logging"
	"mynab/budget-import/internal/models"
	"mynab/budget-import/internal/parsererror"
)

// ErrSkipRow marks rows that are dropped on purpose (zero amounts, blank lines).
var ErrSkipRow = errors.New("row skipped")

// RowResult is the outcome of converting one statement row: either a transaction or
// the RowParseError explaining why the row was dropped.
type RowResult struct {
	Row         int
	Transaction models.Transaction
	Err         *parsererror.RowParseError
}

// OK reports whether the row produced a transaction.
func (r RowResult) OK() bool {
	return r.Err == nil
}

// ParseRow runs convert for a single row inside its own failure boundary. Errors and
// panics raised while converting become a RowParseError and never reach the caller.
func (b *BaseParser) ParseRow(row int, convert func() (models.Transaction, error)) (result RowResult) {
	result.Row = row
	defer func() {
		if r := recover(); r != nil {
			result.Err = b.rowError(row, fmt.Errorf("panic: %v", r))
		}
	}()

	tx, err := convert()
	if err != nil {
		result.Err = b.rowError(row, err)
		return result
	}
	result.Transaction = tx
	return result
}

func (b *BaseParser) rowError(row int, err error) *parsererror.RowParseError {
	var rowErr *parsererror.RowParseError
	if errors.As(err, &rowErr) {
		rowErr.Row = row
		return rowErr
	}
	return &parsererror.RowParseError{Parser: b.institution, Row: row, Err: err}
}

// KeepValid returns the transactions of the successful results in order. Failed rows
// are logged at debug level and dropped.
func (b *BaseParser) KeepValid(results []RowResult) []models.Transaction {
	transactions := make([]models.Transaction, 0, len(results))
	skipped := 0
	for _, r := range results {
		if !r.OK() {
			skipped++
			if !errors.Is(r.Err, ErrSkipRow) {
				b.logger.WithError(r.Err).Debug("Skipping statement row", logging.F(logging.FieldRow, r.Row))
			}
			continue
		}
		transactions = append(transactions, r.Transaction)
	}

	b.logger.Info("Parsed statement",
		logging.F(logging.FieldCount, len(transactions)),
		logging.F("skipped", skipped))
	return transactions
}
