// Package icbcparser reads ICBC account statements exported as CSV.
package icbcparser

import (
	"context"
	"strings"

	"mynab/budget-import/internal/common"
	"mynab/budget-import/internal/currencyutils"
	"mynab/budget-import/internal/dateutils"
	"mynab/budget-import/internal/logging"
	"mynab/budget-import/internal/models"
	"mynab/budget-import/internal/parser"

	"github.com/shopspring/decimal"
)

// Institution is the tag this parser is registered under.
const Institution = "icbc"

// PlaceholderDescription replaces blank descriptions.
const PlaceholderDescription = "Transacción sin descripción"

// Row is one line of the ICBC export, in column order.
type Row struct {
	Date        string `csv:"Fecha"`
	Description string `csv:"Descripcion"`
	Debit       string `csv:"Debito"`
	Credit      string `csv:"Credito"`
	Reference   string `csv:"Referencia"`
}

// Adapter implements parser.StatementParser for ICBC.
type Adapter struct {
	parser.BaseParser
}

// NewAdapter creates an ICBC parser.
func NewAdapter(logger logging.Logger) *Adapter {
	return &Adapter{BaseParser: parser.NewBaseParser(Institution, logger)}
}

// Parse implements parser.StatementParser. The first line is the header.
func (a *Adapter) Parse(ctx context.Context, content []byte) ([]models.Transaction, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	records, err := common.ReadCSV[Row](content, common.CSVOptions{SkipRows: 1, Columns: 5}, a.GetLogger())
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
	date, err := dateutils.ParseWithLayouts(row.Date, dateutils.MonthFirstLayouts...)
	if err != nil {
		return models.Transaction{}, a.FieldError("Fecha", row.Date, err)
	}

	credit := amountOrZero(row.Credit)
	debit := amountOrZero(row.Debit)

	amount, direction := debit.Abs(), models.DirectionOutcome
	if credit.IsPositive() {
		amount, direction = credit, models.DirectionIncome
	}

	return models.NewTransactionBuilder(Institution).
		WithDate(date).
		WithDescription(row.Description, PlaceholderDescription).
		WithReference(strings.ReplaceAll(row.Reference, ".", "")).
		WithAmount(amount, direction).
		Build()
}

// amountOrZero treats blank or unparseable debit/credit cells as zero.
func amountOrZero(raw string) decimal.Decimal {
	d, err := currencyutils.ParsePlainAmount(raw)
	if err != nil {
		return decimal.Zero
	}
	return d
}
