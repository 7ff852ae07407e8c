// Package parser defines the statement parser capability shared by every supported
// institution, plus the per-row failure boundary the parsers are built on.
package parser

import (
	"context"

	"mynab/budget-import/internal/models"
)

// StatementParser converts the raw bytes of one institution's statement into canonical
// transactions.
//
// Parse returns an error only when the binary container cannot be opened at all.
// Rows that cannot be converted are skipped, and a statement whose layout cannot be
// established yields an empty slice.
type StatementParser interface {
	// Institution returns the tag the parser is registered under.
	Institution() string
	Parse(ctx context.Context, content []byte) ([]models.Transaction, error)
}
