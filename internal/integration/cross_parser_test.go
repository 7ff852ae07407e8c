// Package integration runs complete imports for every supported institution.
package integration

import (
	"context"
	"encoding/base64"
	"fmt"
	"testing"

	"mynab/budget-import/internal/config"
	"mynab/budget-import/internal/container"
	"mynab/budget-import/internal/importer"
	"mynab/budget-import/internal/logging"
	"mynab/budget-import/internal/mercadopagoparser"
	"mynab/budget-import/internal/models"
	"mynab/budget-import/internal/store"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"
)

const mercadoPagoText = `DETALLE DE MOVIMIENTOS
05-03-2024 Transferencia recibida Juan 75100000001 $ 15.000,00 $ 20.000,00
06-03-2024 Pago Movistar 75100000002 $ -3.450,50 $ 16.549,50
`

func sheet(t *testing.T, rows [][]interface{}) []byte {
	t.Helper()
	f := excelize.NewFile()
	defer f.Close()
	for i, row := range rows {
		row := row
		require.NoError(t, f.SetSheetRow("Sheet1", fmt.Sprintf("A%d", i+1), &row))
	}
	buf, err := f.WriteToBuffer()
	require.NoError(t, err)
	return buf.Bytes()
}

func santanderStatement(t *testing.T) []byte {
	rows := make([][]interface{}, 0, 16)
	for i := 0; i < 12; i++ {
		rows = append(rows, []interface{}{fmt.Sprintf("preambulo %d", i)})
	}
	rows = append(rows,
		[]interface{}{nil, "Fecha", "Sucursal", "Descripción", "Referencia", "Caja de Ahorro", "Cuenta Corriente", "Saldo"},
		[]interface{}{nil, "2024-03-05", "Central", "Transferencia recibida", "A1", "1500.00", nil, "2500"},
		[]interface{}{nil, "2024-03-06", "Central", "Extraccion cajero automatico", "A2", "-200,50", nil, "2299.5"},
		[]interface{}{nil, "2024-03-07", "Central", "Importe roto", "A3", "abc", nil, "2299.5"},
	)
	return sheet(t, rows)
}

func bbvaStatement(t *testing.T) []byte {
	return sheet(t, [][]interface{}{
		{"Últimos movimientos"},
		{"Cuenta"},
		{"Fecha", "Concepto", "Movimiento", "Importe", "Disponible"},
		{"05/03/2024", "Recibo", "Iberdrola", "-1.234,56", "10.000,00"},
		{"06/03/2024", "Transferencia recibida", nil, "2.000,00", "12.000,00"},
	})
}

const icbcStatement = `Fecha,Descripcion,Debito,Credito,Referencia
03/05/24,Pago de servicios Edenor,250.00,0,1001
03/06/24,Transferencia recibida,0,1200.50,1002
`

const commBankStatement = `05/03/2024,"-45.00","WOOLWORTHS 1234 SYDNEY AU","+1200.00"
06/03/2024,"+2500.00","Fast Transfer From ACME PTY LTD","+3700.00"
`

func newContainer(t *testing.T, st store.Store) *container.Container {
	t.Helper()
	cfg := &config.Config{}
	cfg.Import.DefaultCurrency = "ARS"
	cfg.Import.IgnorePhrases = []string{"Ingreso de dinero Cuenta ICBC"}

	c, err := container.NewContainer(context.Background(), cfg,
		container.WithLogger(logging.NewMockLogger()),
		container.WithStore(st),
		container.WithPDFExtractor(mercadopagoparser.NewMockPDFExtractor(mercadoPagoText, nil)))
	require.NoError(t, err)
	t.Cleanup(func() { _ = c.Close() })
	return c
}

func TestImportEveryInstitution(t *testing.T) {
	tests := []struct {
		institution string
		fileName    string
		currency    string
		content     func(t *testing.T) []byte
		want        int
	}{
		{"santander_rio", "movimientos.xlsx", "ARS", santanderStatement, 2},
		{"icbc", "icbc.csv", "ARS", func(*testing.T) []byte { return []byte(icbcStatement) }, 2},
		{"bbva", "bbva.xlsx", "EUR", bbvaStatement, 2},
		{"comm_bank", "CSVData.csv", "AUD", func(*testing.T) []byte { return []byte(commBankStatement) }, 2},
		{"mercado_pago", "resumen.pdf", "ARS", func(*testing.T) []byte { return []byte("%PDF-1.4") }, 2},
	}

	for _, tt := range tests {
		t.Run(tt.institution, func(t *testing.T) {
			st := store.NewMemoryStore(models.User{ID: 1})
			c := newContainer(t, st)

			result, err := c.GetImporter().ImportStatement(context.Background(), importer.Request{
				UserID:        1,
				Institution:   tt.institution,
				Currency:      tt.currency,
				FileName:      tt.fileName,
				ContentBase64: base64.StdEncoding.EncodeToString(tt.content(t)),
			})
			require.NoError(t, err)
			assert.Equal(t, tt.want, result.ImportedCount)

			entries := st.Entries()
			require.Len(t, entries, tt.want)
			for _, e := range entries {
				tx := e.Transaction
				assert.False(t, tx.Amount.IsNegative(), "amount must never be negative")
				assert.True(t, tx.Direction.Valid())
				assert.Equal(t, tt.institution, tx.Source)
				assert.Equal(t, tt.currency, tx.Currency)
				assert.Equal(t, int64(1), tx.FileID)
				assert.NotEmpty(t, tx.ReferenceID)
				assert.False(t, tx.OccurredOn.IsZero())
			}
		})
	}
}

func TestImportCategorizesAcrossInstitutions(t *testing.T) {
	st := store.NewMemoryStore(models.User{ID: 1})
	c := newContainer(t, st)

	_, err := c.GetImporter().ImportStatement(context.Background(), importer.Request{
		UserID:        1,
		Institution:   "comm_bank",
		Currency:      "AUD",
		FileName:      "CSVData.csv",
		ContentBase64: base64.StdEncoding.EncodeToString([]byte(commBankStatement)),
	})
	require.NoError(t, err)

	entries := st.Entries()
	require.Len(t, entries, 2)
	require.NotNil(t, entries[0].Transaction.CategoryID)
	assert.Equal(t, 8, *entries[0].Transaction.CategoryID)
	require.NotNil(t, entries[1].Transaction.CategoryID)
	assert.Equal(t, 2, *entries[1].Transaction.CategoryID)
}

func TestReimportDuplicatesEntries(t *testing.T) {
	st := store.NewMemoryStore(models.User{ID: 1})
	c := newContainer(t, st)
	req := importer.Request{
		UserID:        1,
		Institution:   "icbc",
		FileName:      "icbc.csv",
		ContentBase64: base64.StdEncoding.EncodeToString([]byte(icbcStatement)),
	}

	for i := 0; i < 2; i++ {
		_, err := c.GetImporter().ImportStatement(context.Background(), req)
		require.NoError(t, err)
	}
	assert.Len(t, st.Files(), 2)
	assert.Len(t, st.Entries(), 4)
}
