// Package mercadopagoparser reads MercadoPago account statements, which are only
// available as PDF. The movements table follows the "DETALLE DE MOVIMIENTOS" heading;
// each movement is a date, a description, an operation id, a value and a balance.
package mercadopagoparser

import (
	"bytes"
	"context"
	"fmt"
	"regexp"
	"strings"

	"mynab/budget-import/internal/common"
	"mynab/budget-import/internal/currencyutils"
	"mynab/budget-import/internal/dateutils"
	"mynab/budget-import/internal/logging"
	"mynab/budget-import/internal/models"
	"mynab/budget-import/internal/parser"
)

// Institution is the tag this parser is registered under.
const Institution = "mercado_pago"

// PlaceholderDescription replaces blank descriptions.
const PlaceholderDescription = "Transacción MercadoPago"

// DetailMarker precedes the movements table.
const DetailMarker = "DETALLE DE MOVIMIENTOS"

var pdfMagic = []byte("%PDF-")

// movementPattern captures date, description, operation id, value and balance.
var movementPattern = regexp.MustCompile(
	`(\d{2}-\d{2}-\d{4})\s+` +
		`(.*?)\s+` +
		`(\d+)\s+` +
		`\$\s+([-\d.,]+)\s+` +
		`\$\s+([-\d.,]+)`)

// Movement is one match of the movements table before conversion.
type Movement struct {
	Date        string
	Description string
	OperationID string
	Value       string
	Balance     string
}

// Adapter implements parser.StatementParser for MercadoPago.
type Adapter struct {
	parser.BaseParser
	extractor PDFExtractor
}

// NewAdapter creates a MercadoPago parser. A nil extractor selects pdftotext from
// $PATH.
func NewAdapter(logger logging.Logger, extractor PDFExtractor) *Adapter {
	if extractor == nil {
		extractor = NewPdftotextExtractor("")
	}
	return &Adapter{
		BaseParser: parser.NewBaseParser(Institution, logger),
		extractor:  extractor,
	}
}

// Parse implements parser.StatementParser.
func (a *Adapter) Parse(ctx context.Context, content []byte) ([]models.Transaction, error) {
	if !bytes.HasPrefix(bytes.TrimLeft(content, "\x00\t\r\n "), pdfMagic) {
		return nil, fmt.Errorf("%w: missing PDF header", common.ErrUnreadableContainer)
	}

	text, err := a.extractor.ExtractText(ctx, content)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", common.ErrUnreadableContainer, err)
	}

	movements := FindMovements(text)
	if len(movements) == 0 {
		a.GetLogger().Warn("No movements found in statement text")
		return []models.Transaction{}, nil
	}

	results := make([]parser.RowResult, 0, len(movements))
	for i, m := range movements {
		m := m
		results = append(results, a.ParseRow(i+1, func() (models.Transaction, error) {
			return a.convertMovement(m)
		}))
	}
	return a.KeepValid(results), nil
}

// FindMovements applies the movement pattern to the text after the first detail
// marker, or to the whole text when the marker is missing.
func FindMovements(text string) []Movement {
	if _, after, found := strings.Cut(text, DetailMarker); found {
		text = after
	}

	matches := movementPattern.FindAllStringSubmatch(text, -1)
	movements := make([]Movement, 0, len(matches))
	for _, m := range matches {
		movements = append(movements, Movement{
			Date:        m[1],
			Description: m[2],
			OperationID: m[3],
			Value:       m[4],
			Balance:     m[5],
		})
	}
	return movements
}

func (a *Adapter) convertMovement(m Movement) (models.Transaction, error) {
	date, err := dateutils.ParseWithLayouts(m.Date, dateutils.LayoutDayMonthDash)
	if err != nil {
		if date, err = dateutils.ParseDayFirst(m.Date); err != nil {
			return models.Transaction{}, a.FieldError("Fecha", m.Date, err)
		}
	}

	amount, err := currencyutils.ParseLocaleAmount(m.Value)
	if err != nil {
		return models.Transaction{}, a.FieldError("Valor", m.Value, err)
	}
	if amount.IsZero() {
		return models.Transaction{}, parser.ErrSkipRow
	}

	return models.NewTransactionBuilder(Institution).
		WithDate(date).
		WithDescription(m.Description, PlaceholderDescription).
		WithReference(m.OperationID).
		WithSignedAmount(amount).
		Build()
}
