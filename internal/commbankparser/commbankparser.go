// Package commbankparser reads Commonwealth Bank transaction exports. The CSV has no
// header; its columns are date, signed amount, description and running balance.
package commbankparser

import (
	"context"

	"mynab/budget-import/internal/common"
	"mynab/budget-import/internal/currencyutils"
	"mynab/budget-import/internal/dateutils"
	"mynab/budget-import/internal/logging"
	"mynab/budget-import/internal/models"
	"mynab/budget-import/internal/parser"
)

// Institution is the tag this parser is registered under.
const Institution = "comm_bank"

// PlaceholderDescription replaces blank descriptions.
const PlaceholderDescription = "CommBank Transaction"

// Row is one line of the export, in column order.
type Row struct {
	Date        string `csv:"date"`
	Amount      string `csv:"amount"`
	Description string `csv:"description"`
	Balance     string `csv:"balance"`
}

// Adapter implements parser.StatementParser for CommBank.
type Adapter struct {
	parser.BaseParser
}

// NewAdapter creates a CommBank parser.
func NewAdapter(logger logging.Logger) *Adapter {
	return &Adapter{BaseParser: parser.NewBaseParser(Institution, logger)}
}

// Parse implements parser.StatementParser.
func (a *Adapter) Parse(ctx context.Context, content []byte) ([]models.Transaction, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	records, err := common.ReadCSV[Row](content, common.CSVOptions{Columns: 4}, a.GetLogger())
	if err != nil {
		a.GetLogger().WithError(err).Warn("Statement layout not recognized")
		return []models.Transaction{}, nil
	}

	results := make([]parser.RowResult, 0, len(records))
	for _, rec := range records {
		rec := rec
		results = append(results, a.ParseRow(rec.Line, func() (models.Transaction, error) {
			return a.convertRow(rec.Row)
		}))
	}
	return a.KeepValid(results), nil
}

func (a *Adapter) convertRow(row Row) (models.Transaction, error) {
	date, err := dateutils.ParseWithLayouts(row.Date, "02/01/2006", "2/1/2006")
	if err != nil {
		return models.Transaction{}, a.FieldError("date", row.Date, err)
	}

	amount, err := currencyutils.ParsePlainAmount(row.Amount)
	if err != nil {
		return models.Transaction{}, a.FieldError("amount", row.Amount, err)
	}
	if amount.IsZero() {
		return models.Transaction{}, parser.ErrSkipRow
	}

	return models.NewTransactionBuilder(Institution).
		WithDate(date).
		WithDescription(row.Description, PlaceholderDescription).
		WithSignedAmount(amount).
		WithSyntheticReference().
		Build()
}
