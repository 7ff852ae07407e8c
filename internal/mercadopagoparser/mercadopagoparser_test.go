package mercadopagoparser

import (
	"context"
	"errors"
	"testing"
	"time"

	"mynab/budget-import/internal/common"
	"mynab/budget-import/internal/logging"
	"mynab/budget-import/internal/models"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var fakePDF = []byte("%PDF-1.7\n...")

const statementText = `RESUMEN DE CUENTA
Periodo: 01-03-2024 al 31-03-2024
05-03-2024 Saldo anterior 1 $ 999,00 $ 999,00

DETALLE DE MOVIMIENTOS
Fecha        Descripción                        ID de la operación    Valor          Saldo
05-03-2024   Transferencia recibida Juan Perez   75123456789          $ 15.000,00    $ 20.000,00
06-03-2024   Pago Movistar                       75123456790          $ -3.450,50    $ 16.549,50
07-03-2024   Ajuste                              75123456791          $ 0,00         $ 16.549,50
08-03-2024   Compra Mercado Libre                75123456792          $ -1.200       $ 15.349,50
`

func TestParse(t *testing.T) {
	extractor := NewMockPDFExtractor(statementText, nil)
	txs, err := NewAdapter(logging.NewMockLogger(), extractor).Parse(context.Background(), fakePDF)
	require.NoError(t, err)
	require.Len(t, txs, 3)
	assert.Equal(t, 1, extractor.Calls)

	received := txs[0]
	assert.Equal(t, time.Date(2024, time.March, 5, 0, 0, 0, 0, time.UTC), received.OccurredOn)
	assert.Equal(t, "Transferencia recibida Juan Perez", received.Description)
	assert.Equal(t, "75123456789", received.ReferenceID)
	assert.Equal(t, models.DirectionIncome, received.Direction)
	assert.True(t, decimal.NewFromInt(15000).Equal(received.Amount))

	payment := txs[1]
	assert.Equal(t, models.DirectionOutcome, payment.Direction)
	assert.True(t, decimal.RequireFromString("3450.50").Equal(payment.Amount))

	purchase := txs[2]
	assert.True(t, decimal.NewFromInt(1200).Equal(purchase.Amount))
	assert.Equal(t, Institution, purchase.Source)
}

func TestFindMovements_WithoutMarker(t *testing.T) {
	movements := FindMovements("09-03-2024 Rendimientos 111 $ 12,34 $ 100,00")
	require.Len(t, movements, 1)
	assert.Equal(t, Movement{
		Date:        "09-03-2024",
		Description: "Rendimientos",
		OperationID: "111",
		Value:       "12,34",
		Balance:     "100,00",
	}, movements[0])
}

func TestFindMovements_IgnoresTextBeforeMarker(t *testing.T) {
	movements := FindMovements(statementText)
	require.Len(t, movements, 4)
	assert.Equal(t, "75123456789", movements[0].OperationID)
}

func TestParse_NoMovements(t *testing.T) {
	txs, err := NewAdapter(nil, NewMockPDFExtractor("DETALLE DE MOVIMIENTOS\nsin datos", nil)).
		Parse(context.Background(), fakePDF)
	require.NoError(t, err)
	assert.Empty(t, txs)
}

func TestParse_NotAPDF(t *testing.T) {
	extractor := NewMockPDFExtractor(statementText, nil)
	_, err := NewAdapter(nil, extractor).Parse(context.Background(), []byte("Fecha,Importe"))
	assert.ErrorIs(t, err, common.ErrUnreadableContainer)
	assert.Equal(t, 0, extractor.Calls)
}

func TestParse_ExtractorFailure(t *testing.T) {
	_, err := NewAdapter(nil, NewMockPDFExtractor("", errors.New("pdftotext: not found"))).
		Parse(context.Background(), fakePDF)
	assert.ErrorIs(t, err, common.ErrUnreadableContainer)
	assert.Contains(t, err.Error(), "pdftotext: not found")
}
