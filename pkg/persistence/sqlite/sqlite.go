// Package sqlite provides SQLite persistence: records are JSON documents in a single
// documents table keyed by collection and id.
package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	_ "modernc.org/sqlite"

	"github.com/dukex/flowdesk/pkg/persistence"
	"github.com/dukex/flowdesk/pkg/persistence/docstore"
	"github.com/dukex/flowdesk/pkg/persistence/sqlbase"
)

func migrations() map[int]string {
	return map[int]string{
		1: `
			CREATE TABLE documents (
				collection TEXT NOT NULL,
				id TEXT NOT NULL,
				body TEXT NOT NULL,
				updated_at TEXT NOT NULL DEFAULT CURRENT_TIMESTAMP,
				PRIMARY KEY (collection, id)
			);
		`,
	}
}

// Store implements docstore.Store on a SQLite database.
type Store struct {
	db     *sql.DB
	logger *slog.Logger
}

// NewStore opens the database at path (a sqlite:// prefix is accepted) and migrates it.
func NewStore(ctx context.Context, logger *slog.Logger, path string) (*Store, error) {
	path = strings.TrimPrefix(path, "sqlite://")

	db, err := sql.Open("sqlite", path+"?_pragma=busy_timeout(5000)&_pragma=journal_mode(WAL)")
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	// SQLite serializes writers.
	db.SetMaxOpenConns(1)

	err = db.PingContext(ctx)
	if err != nil {
		_ = db.Close()

		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	err = sqlbase.NewMigrationManager(logger, db, sqlbase.SQLite, migrations()).RunMigrations(ctx)
	if err != nil {
		_ = db.Close()

		return nil, fmt.Errorf("failed to run migrations: %w", err)
	}

	return &Store{db: db, logger: logger}, nil
}

// NewPersistence creates a SQLite backed persistence.
func NewPersistence(ctx context.Context, logger *slog.Logger, path string) (*docstore.Persistence, error) {
	store, err := NewStore(ctx, logger, path)
	if err != nil {
		return nil, err
	}

	return docstore.New(store), nil
}

func (s *Store) Get(ctx context.Context, collection, id string) ([]byte, error) {
	var body string

	err := s.db.QueryRowContext(ctx,
		"SELECT body FROM documents WHERE collection = ? AND id = ?", collection, id,
	).Scan(&body)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, persistence.ErrNotFound
		}

		return nil, fmt.Errorf("failed to query document: %w", err)
	}

	return []byte(body), nil
}

func (s *Store) Put(ctx context.Context, collection, id string, data []byte) error {
	query := `
		INSERT INTO documents (collection, id, body, updated_at)
		VALUES (?, ?, ?, CURRENT_TIMESTAMP)
		ON CONFLICT (collection, id) DO UPDATE SET
			body = excluded.body,
			updated_at = excluded.updated_at
	`

	_, err := s.db.ExecContext(ctx, query, collection, id, string(data))
	if err != nil {
		return fmt.Errorf("failed to save document: %w", err)
	}

	return nil
}

func (s *Store) Delete(ctx context.Context, collection, id string) error {
	_, err := s.db.ExecContext(ctx, "DELETE FROM documents WHERE collection = ? AND id = ?", collection, id)
	if err != nil {
		return fmt.Errorf("failed to delete document: %w", err)
	}

	return nil
}

func (s *Store) List(ctx context.Context, collection string) ([][]byte, error) {
	rows, err := s.db.QueryContext(ctx, "SELECT body FROM documents WHERE collection = ? ORDER BY id", collection)
	if err != nil {
		return nil, fmt.Errorf("failed to query documents: %w", err)
	}

	defer func() {
		err := rows.Close()
		if err != nil {
			s.logger.ErrorContext(ctx, "failed to close rows", "error", err)
		}
	}()

	bodies := make([][]byte, 0)

	for rows.Next() {
		var body string

		err := rows.Scan(&body)
		if err != nil {
			return nil, fmt.Errorf("failed to scan document: %w", err)
		}

		bodies = append(bodies, []byte(body))
	}

	err = rows.Err()
	if err != nil {
		return nil, fmt.Errorf("error iterating documents: %w", err)
	}

	return bodies, nil
}

// HealthCheck verifies the database connection is healthy.
func (s *Store) HealthCheck(ctx context.Context) error {
	err := s.db.PingContext(ctx)
	if err != nil {
		return fmt.Errorf("failed to ping database: %w", err)
	}

	return nil
}

// Close closes the database connection.
func (s *Store) Close(_ context.Context) error {
	err := s.db.Close()
	if err != nil {
		return fmt.Errorf("failed to close database connection: %w", err)
	}

	return nil
}
