// Package bbvaparser reads BBVA account statements exported as xlsx.
//
// Two title rows precede the header, which sits on the third row. Data rows carry
// Fecha, Concepto, Extra, Importe and Saldo; Importe is signed and written with "." as
// thousands separator and "," as decimal separator when exported as text.
package bbvaparser

import (
	"context"
	"strings"

	"mynab/budget-import/internal/common"
	"mynab/budget-import/internal/dateutils"
	"mynab/budget-import/internal/logging"
	"mynab/budget-import/internal/models"
	"mynab/budget-import/internal/parser"
)

// Institution is the tag this parser is registered under.
const Institution = "bbva"

// PlaceholderDescription replaces blank descriptions.
const PlaceholderDescription = "Transacción BBVA"

const (
	headerRow   = 3
	columnCount = 5
)

const (
	colDate = iota
	colConcept
	colExtra
	colAmount
	colBalance
)

// Adapter implements parser.StatementParser for BBVA.
type Adapter struct {
	parser.BaseParser
}

// NewAdapter creates a BBVA parser.
func NewAdapter(logger logging.Logger) *Adapter {
	return &Adapter{BaseParser: parser.NewBaseParser(Institution, logger)}
}

// Parse implements parser.StatementParser.
func (a *Adapter) Parse(ctx context.Context, content []byte) ([]models.Transaction, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	sheet, err := common.ReadSheet(content)
	if err != nil {
		return nil, err
	}
	if sheet.Len() <= headerRow {
		a.GetLogger().Warn("Statement has no rows after the header")
		return []models.Transaction{}, nil
	}

	if width := common.MaxWidth(sheet.Rows[headerRow-1:]); width < columnCount {
		a.GetLogger().Warn("Statement layout not recognized",
			logging.F(logging.FieldReason, "too few columns"),
			logging.F("columns", width))
		return []models.Transaction{}, nil
	}

	results := make([]parser.RowResult, 0, sheet.Len()-headerRow)
	for r := headerRow; r < sheet.Len(); r++ {
		r := r
		results = append(results, a.ParseRow(r+1, func() (models.Transaction, error) {
			return a.convertRow(sheet, r)
		}))
	}
	return a.KeepValid(results), nil
}

func (a *Adapter) convertRow(sheet *common.Sheet, r int) (models.Transaction, error) {
	rawDate := sheet.Cell(r, colDate)
	date, err := dateutils.ParseDayFirst(rawDate)
	if err != nil {
		return models.Transaction{}, a.FieldError("Fecha", rawDate, err)
	}

	amount, err := sheet.Amount(r, colAmount)
	if err != nil {
		return models.Transaction{}, a.FieldError("Importe", sheet.Cell(r, colAmount), err)
	}
	if amount.IsZero() {
		return models.Transaction{}, parser.ErrSkipRow
	}

	description := strings.TrimSpace(sheet.Cell(r, colConcept) + " " + sheet.Cell(r, colExtra))

	return models.NewTransactionBuilder(Institution).
		WithDate(date).
		WithDescription(description, PlaceholderDescription).
		WithSignedAmount(amount).
		WithSyntheticReference().
		Build()
}
