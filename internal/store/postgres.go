package store

import (
	"context"
	"errors"
	"fmt"

	"mynab/budget-import/internal/logging"
	"mynab/budget-import/internal/models"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
)

// DB is the subset of *pgxpool.Pool the store uses.
type DB interface {
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}

// PostgresStore implements Store on PostgreSQL. Table names are unqualified; the
// schema is selected through the connection's search_path (see Connect).
type PostgresStore struct {
	db     DB
	logger logging.Logger
}

// NewPostgresStore returns a store running its queries on db.
func NewPostgresStore(db DB, logger logging.Logger) *PostgresStore {
	if logger == nil {
		logger = logging.NewLogrusAdapter("info", "text")
	}
	return &PostgresStore{db: db, logger: logger}
}

// Connect opens a pool on url whose connections use schema as search_path.
func Connect(ctx context.Context, url string, maxConns int32, schema string) (*pgxpool.Pool, error) {
	cfg, err := pgxpool.ParseConfig(url)
	if err != nil {
		return nil, fmt.Errorf("invalid database url: %w", err)
	}
	if maxConns > 0 {
		cfg.MaxConns = maxConns
	}
	if schema != "" {
		cfg.ConnConfig.RuntimeParams["search_path"] = schema
	}

	pool, err := pgxpool.NewWithConfig(ctx, cfg)
	if err != nil {
		return nil, fmt.Errorf("failed to create connection pool: %w", err)
	}
	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("failed to reach database: %w", err)
	}
	return pool, nil
}

const insertFileSQL = `
	INSERT INTO files (user_id, file_name, file_base64, currency)
	VALUES ($1, $2, $3, $4)
	RETURNING id`

// CreateFile implements Store.
func (s *PostgresStore) CreateFile(ctx context.Context, file models.FileRecord) (int64, error) {
	var id int64
	err := s.db.QueryRow(ctx, insertFileSQL,
		file.UserID,
		file.FileName,
		file.ContentBase64,
		file.Currency,
	).Scan(&id)
	if err != nil {
		return 0, fmt.Errorf("failed to insert file %q: %w", file.FileName, err)
	}

	s.logger.Debug("Stored statement file",
		logging.F(logging.FieldFileID, id),
		logging.F(logging.FieldFile, file.FileName))
	return id, nil
}

const insertEntrySQL = `
	INSERT INTO budget_entry (
		user_id, reference_id, amount, currency, source, type, description, category_id, date, file_id
	) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
	RETURNING id`

// CreateTransaction implements Store.
func (s *PostgresStore) CreateTransaction(ctx context.Context, userID int64, tx models.Transaction) (int64, error) {
	var fileID *int64
	if tx.FileID != 0 {
		fileID = &tx.FileID
	}

	var id int64
	err := s.db.QueryRow(ctx, insertEntrySQL,
		userID,
		nullable(tx.ReferenceID),
		tx.Amount,
		tx.Currency,
		tx.Source,
		string(tx.Direction),
		tx.Description,
		tx.CategoryID,
		tx.OccurredOn,
		fileID,
	).Scan(&id)
	if err != nil {
		return 0, fmt.Errorf("failed to insert budget entry %q: %w", tx.ReferenceID, err)
	}
	return id, nil
}

const selectUserSQL = `SELECT id, COALESCE(national_id, '') FROM auth_user WHERE id = $1`

// LookupUser implements Store.
func (s *PostgresStore) LookupUser(ctx context.Context, userID int64) (models.User, error) {
	var user models.User
	err := s.db.QueryRow(ctx, selectUserSQL, userID).Scan(&user.ID, &user.NationalID)
	if errors.Is(err, pgx.ErrNoRows) {
		return models.User{}, fmt.Errorf("%w: %d", ErrUserNotFound, userID)
	}
	if err != nil {
		return models.User{}, fmt.Errorf("failed to load user %d: %w", userID, err)
	}
	return user, nil
}

func nullable(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}
