// Package store persists uploaded statement files and imported transactions and looks
// up the importing user. PostgresStore backs production; MemoryStore backs tests and
// database-less runs.
package store

import (
	"context"
	"errors"

	"mynab/budget-import/internal/models"
)

// ErrUserNotFound is returned by LookupUser when no user has the given id.
var ErrUserNotFound = errors.New("user not found")

// Store is the persistence collaborator of the importer.
type Store interface {
	// CreateFile records an uploaded statement and returns its id.
	CreateFile(ctx context.Context, file models.FileRecord) (int64, error)
	// CreateTransaction persists one transaction as a budget entry of userID.
	CreateTransaction(ctx context.Context, userID int64, tx models.Transaction) (int64, error)
	// LookupUser returns the user's record or ErrUserNotFound.
	LookupUser(ctx context.Context, userID int64) (models.User, error)
}
