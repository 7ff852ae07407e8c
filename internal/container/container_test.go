package container

import (
	"context"
	"encoding/base64"
	"testing"

	"mynab/budget-import/internal/config"
	"mynab/budget-import/internal/importer"
	"mynab/budget-import/internal/logging"
	"mynab/budget-import/internal/mercadopagoparser"
	"mynab/budget-import/internal/models"
	"mynab/budget-import/internal/store"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testConfig() *config.Config {
	cfg := &config.Config{}
	cfg.Log.Level = "info"
	cfg.Log.Format = "text"
	cfg.Database.Schema = "mynab"
	cfg.Import.IgnorePhrases = []string{"Ingreso de dinero Cuenta ICBC"}
	cfg.Import.DefaultCurrency = "ARS"
	return cfg
}

func TestNewContainer_NilConfig(t *testing.T) {
	_, err := NewContainer(context.Background(), nil)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "configuration cannot be nil")
}

func TestNewContainer_InMemory(t *testing.T) {
	logger := logging.NewMockLogger()
	c, err := NewContainer(context.Background(), testConfig(), WithLogger(logger))
	require.NoError(t, err)
	defer c.Close()

	assert.Nil(t, c.GetPool())
	assert.Nil(t, c.GetMetricsRegistry())
	assert.IsType(t, &store.MemoryStore{}, c.GetStore())
	assert.Len(t, c.GetRegistry().Institutions(), 5)
	assert.Equal(t, "BANK_FEES", c.GetClassifier().Classify("International Transaction Fee"))
	assert.True(t, logger.HasEntry("WARN", "No database configured, using in-memory store"))
}

func TestNewContainer_MetricsEnabled(t *testing.T) {
	cfg := testConfig()
	cfg.Metrics.Enabled = true

	c, err := NewContainer(context.Background(), cfg, WithLogger(logging.NewMockLogger()))
	require.NoError(t, err)
	require.NotNil(t, c.GetMetricsRegistry())

	_, err = c.GetImporter().ImportStatement(context.Background(), importer.Request{
		UserID:        1,
		Institution:   "nope",
		FileName:      "x.csv",
		ContentBase64: "",
	})
	require.Error(t, err)

	families, err := c.GetMetricsRegistry().Gather()
	require.NoError(t, err)
	names := make([]string, 0, len(families))
	for _, f := range families {
		names = append(names, f.GetName())
	}
	assert.Contains(t, names, "budget_import_runs_total")
}

func TestNewContainer_ImportWiring(t *testing.T) {
	st := store.NewMemoryStore(models.User{ID: 2})
	text := "DETALLE DE MOVIMIENTOS\n05-03-2024 Rendimientos 111 $ 12,34 $ 100,00\n"

	c, err := NewContainer(context.Background(), testConfig(),
		WithLogger(logging.NewMockLogger()),
		WithStore(st),
		WithPDFExtractor(mercadopagoparser.NewMockPDFExtractor(text, nil)))
	require.NoError(t, err)

	result, err := c.GetImporter().ImportStatement(context.Background(), importer.Request{
		UserID:        2,
		Institution:   "mercado_pago",
		FileName:      "resumen.pdf",
		ContentBase64: base64.StdEncoding.EncodeToString([]byte("%PDF-1.5")),
	})
	require.NoError(t, err)
	assert.Equal(t, 1, result.ImportedCount)
	require.Len(t, st.Entries(), 1)
	require.NotNil(t, st.Entries()[0].Transaction.CategoryID)
	assert.Equal(t, 7, *st.Entries()[0].Transaction.CategoryID)
}

func TestNewContainer_BadDatabaseURL(t *testing.T) {
	cfg := testConfig()
	cfg.Database.URL = "://not a url"

	_, err := NewContainer(context.Background(), cfg, WithLogger(logging.NewMockLogger()))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "invalid database url")
}
