package commbankparser

import (
	"context"
	"testing"
	"time"

	"mynab/budget-import/internal/logging"
	"mynab/budget-import/internal/models"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const statement = `05/03/2024,"-45.00","WOOLWORTHS 1234 SYDNEY AU","+1200.00"
06/03/2024,"+2500.00","Fast Transfer From ACME PTY LTD","+3700.00"
07/03/2024,"0.00","Zero line","+3700.00"
08/03/2024,"NaN","Broken amount","+3700.00"
2024-03-09,"-10.00","Wrong date layout","+3690.00"
10/03/2024,"-3.50","","+3686.50"
`

func TestParse(t *testing.T) {
	logger := logging.NewMockLogger()
	txs, err := NewAdapter(logger).Parse(context.Background(), []byte(statement))
	require.NoError(t, err)
	require.Len(t, txs, 3)

	purchase := txs[0]
	assert.Equal(t, time.Date(2024, time.March, 5, 0, 0, 0, 0, time.UTC), purchase.OccurredOn)
	assert.Equal(t, models.DirectionOutcome, purchase.Direction)
	assert.True(t, decimal.RequireFromString("45.00").Equal(purchase.Amount))
	assert.Equal(t, "comm_bank_WOOLWORTHS 1234 SYDNEY AU_20240305", purchase.ReferenceID)

	transfer := txs[1]
	assert.Equal(t, models.DirectionIncome, transfer.Direction)
	assert.True(t, decimal.NewFromInt(2500).Equal(transfer.Amount))

	blank := txs[2]
	assert.Equal(t, PlaceholderDescription, blank.Description)
	assert.Equal(t, "comm_bank_CommBank Transaction_20240310", blank.ReferenceID)

	// the zero line is dropped silently, the two bad lines are logged
	assert.Len(t, logger.EntriesByLevel("DEBUG"), 2)
}

func TestParse_Empty(t *testing.T) {
	txs, err := NewAdapter(nil).Parse(context.Background(), []byte(""))
	require.NoError(t, err)
	assert.Empty(t, txs)
}
