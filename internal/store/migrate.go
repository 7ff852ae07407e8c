package store

import (
	"context"
	"embed"
	"fmt"
	"io/fs"

	"mynab/budget-import/internal/logging"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/jackc/pgx/v5/stdlib"
	"github.com/pressly/goose/v3"
)

//go:embed migrations/*.sql
var embedMigrations embed.FS

// MigrationStatus describes one migration file and whether it was applied.
type MigrationStatus struct {
	Version int64
	Path    string
	Applied bool
}

func newProvider(ctx context.Context, pool *pgxpool.Pool, schema string) (*goose.Provider, func() error, error) {
	if schema != "" {
		if _, err := pool.Exec(ctx, "CREATE SCHEMA IF NOT EXISTS "+pgx.Identifier{schema}.Sanitize()); err != nil {
			return nil, nil, fmt.Errorf("failed to create schema %s: %w", schema, err)
		}
	}

	migrations, err := fs.Sub(embedMigrations, "migrations")
	if err != nil {
		return nil, nil, err
	}

	db := stdlib.OpenDBFromPool(pool)
	provider, err := goose.NewProvider(goose.DialectPostgres, db, migrations)
	if err != nil {
		db.Close()
		return nil, nil, fmt.Errorf("failed to load migrations: %w", err)
	}
	return provider, db.Close, nil
}

// Migrate applies every pending migration and returns how many ran.
func Migrate(ctx context.Context, pool *pgxpool.Pool, schema string, logger logging.Logger) (int, error) {
	provider, closeDB, err := newProvider(ctx, pool, schema)
	if err != nil {
		return 0, err
	}
	defer closeDB()

	results, err := provider.Up(ctx)
	for _, r := range results {
		logger.Info("Applied migration",
			logging.F("version", r.Source.Version),
			logging.F("path", r.Source.Path),
			logging.F(logging.FieldDuration, r.Duration.String()))
	}
	if err != nil {
		return len(results), fmt.Errorf("migration failed: %w", err)
	}
	return len(results), nil
}

// Status lists the embedded migrations in version order.
func Status(ctx context.Context, pool *pgxpool.Pool, schema string) ([]MigrationStatus, error) {
	provider, closeDB, err := newProvider(ctx, pool, schema)
	if err != nil {
		return nil, err
	}
	defer closeDB()

	statuses, err := provider.Status(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to read migration status: %w", err)
	}

	out := make([]MigrationStatus, 0, len(statuses))
	for _, s := range statuses {
		out = append(out, MigrationStatus{
			Version: s.Source.Version,
			Path:    s.Source.Path,
			Applied: s.State == goose.StateApplied,
		})
	}
	return out, nil
}
