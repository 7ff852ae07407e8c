// Package santanderparser reads Santander Rio account statements exported as xlsx.
//
// The export starts with a 12-row preamble (account holder, period, balances). After it
// every row has eight columns: a blank index column, Fecha, Sucursal origen,
// Descripción, Referencia, Caja de Ahorro, Cuenta Corriente and Saldo. The amount of a
// movement appears in whichever of the two account columns applies to it.
package santanderparser

import (
	"context"
	"errors"

	"mynab/budget-import/internal/common"
	"mynab/budget-import/internal/dateutils"
	"mynab/budget-import/internal/logging"
	"mynab/budget-import/internal/models"
	"mynab/budget-import/internal/parser"

	"github.com/shopspring/decimal"
)

// Institution is the tag this parser is registered under.
const Institution = "santander_rio"

// PlaceholderDescription replaces blank descriptions.
const PlaceholderDescription = "Transacción sin descripción"

const (
	preambleRows = 12
	columnCount  = 8
)

// Column positions after the preamble.
const (
	colIndex = iota
	colDate
	colBranch
	colDescription
	colReference
	colSavings
	colChecking
	colBalance
)

var errNoAmount = errors.New("neither Caja de Ahorro nor Cuenta Corriente holds an amount")

// Adapter implements parser.StatementParser for Santander Rio.
type Adapter struct {
	parser.BaseParser
}

// NewAdapter creates a Santander Rio parser.
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
	if sheet.Len() <= preambleRows {
		a.GetLogger().Warn("Statement has no rows after the preamble")
		return []models.Transaction{}, nil
	}

	if width := common.MaxWidth(sheet.Rows[preambleRows:]); width < columnCount {
		a.GetLogger().Warn("Statement layout not recognized",
			logging.F(logging.FieldReason, "too few columns"),
			logging.F("columns", width))
		return []models.Transaction{}, nil
	}

	results := make([]parser.RowResult, 0, sheet.Len()-preambleRows)
	for r := preambleRows; r < sheet.Len(); r++ {
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

	amount, err := a.amount(sheet, r)
	if err != nil {
		return models.Transaction{}, err
	}

	return models.NewTransactionBuilder(Institution).
		WithDate(date).
		WithDescription(sheet.Cell(r, colDescription), PlaceholderDescription).
		WithReference(sheet.Cell(r, colReference)).
		WithSignedAmount(amount).
		Build()
}

// amount prefers Caja de Ahorro and falls back to Cuenta Corriente. Amounts may be
// numeric cells or text in the Argentine locale.
func (a *Adapter) amount(sheet *common.Sheet, r int) (decimal.Decimal, error) {
	for _, col := range []struct {
		name  string
		index int
	}{{"Caja_de_Ahorro", colSavings}, {"Cuenta_Corriente", colChecking}} {
		if sheet.Cell(r, col.index) == "" {
			continue
		}
		amount, err := sheet.Amount(r, col.index)
		if err != nil {
			a.GetLogger().Debug("Unparseable amount cell",
				logging.F("column", col.name),
				logging.F(logging.FieldReason, err.Error()))
			continue
		}
		return amount, nil
	}
	return decimal.Zero, errNoAmount
}
