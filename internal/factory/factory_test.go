package factory_test

import (
	"context"
	"testing"

	"mynab/budget-import/internal/factory"
	"mynab/budget-import/internal/logging"
	"mynab/budget-import/internal/mercadopagoparser"
	"mynab/budget-import/internal/models"
	"mynab/budget-import/internal/parsererror"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newRegistry() *factory.Registry {
	return factory.NewRegistry(logging.NewMockLogger(), mercadopagoparser.NewMockPDFExtractor("", nil))
}

func TestDispatch(t *testing.T) {
	tests := []struct {
		name        string
		institution string
		filename    string
		want        string
	}{
		{name: "Santander", institution: "santander_rio", filename: "movimientos.xlsx", want: "santander_rio"},
		{name: "ICBC", institution: "icbc", filename: "icbc.csv", want: "icbc"},
		{name: "BBVA", institution: "bbva", filename: "bbva.xlsx", want: "bbva"},
		{name: "CommBank", institution: "comm_bank", filename: "CSVData.csv", want: "comm_bank"},
		{name: "MercadoPago", institution: "mercado_pago", filename: "resumen.pdf", want: "mercado_pago"},
		{name: "Tag case", institution: "ICBC", filename: "icbc.csv", want: "icbc"},
		{name: "Extension case", institution: "bbva", filename: "BBVA.XLSX", want: "bbva"},
	}

	registry := newRegistry()
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p, err := registry.Dispatch(tt.institution, tt.filename)
			require.NoError(t, err)
			assert.Equal(t, tt.want, p.Institution())
		})
	}
}

func TestDispatch_UnsupportedInstitution(t *testing.T) {
	_, err := newRegistry().Dispatch("unknown_bank", "file.csv")
	require.Error(t, err)
	assert.ErrorIs(t, err, parsererror.ErrUnsupportedInstitution)

	var unsupported *parsererror.UnsupportedInstitutionError
	require.ErrorAs(t, err, &unsupported)
	assert.Equal(t, "unknown_bank", unsupported.Institution)
}

func TestDispatch_FormatMismatch(t *testing.T) {
	tests := []struct {
		name        string
		institution string
		filename    string
		ext         string
	}{
		{name: "csv for spreadsheet bank", institution: "santander_rio", filename: "movimientos.csv", ext: ".csv"},
		{name: "xlsx for csv bank", institution: "icbc", filename: "icbc.xlsx", ext: ".xlsx"},
		{name: "missing extension", institution: "mercado_pago", filename: "resumen", ext: ""},
	}

	registry := newRegistry()
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := registry.Dispatch(tt.institution, tt.filename)
			assert.ErrorIs(t, err, parsererror.ErrFormatMismatch)

			var mismatch *parsererror.FormatMismatchError
			require.ErrorAs(t, err, &mismatch)
			assert.Equal(t, tt.ext, mismatch.Extension)
			assert.NotEmpty(t, mismatch.Allowed)
		})
	}
}

func TestInstitutions(t *testing.T) {
	regs := newRegistry().Institutions()
	tags := make([]string, 0, len(regs))
	for _, r := range regs {
		tags = append(tags, r.Institution)
	}
	assert.Equal(t, []string{"bbva", "comm_bank", "icbc", "mercado_pago", "santander_rio"}, tags)
}

type stubParser struct{ tag string }

func (s stubParser) Institution() string { return s.tag }

func (s stubParser) Parse(context.Context, []byte) ([]models.Transaction, error) {
	return nil, nil
}

func TestRegister(t *testing.T) {
	registry := factory.NewEmptyRegistry(nil)
	registry.Register(stubParser{tag: "Galicia"}, "CSV", ".txt")

	reg, ok := registry.Lookup("galicia")
	require.True(t, ok)
	assert.Equal(t, []string{".csv", ".txt"}, reg.Extensions)
	assert.True(t, reg.Accepts(".CSV"))

	assert.Panics(t, func() {
		registry.Register(stubParser{tag: "galicia"}, ".csv")
	})
}
