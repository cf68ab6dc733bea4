package db

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
)

type sqlDialect struct {
	name        string
	driver      string
	createTable string
	upsert      string
	selectOne   string
}

var sqliteDialect = sqlDialect{
	name:   BackendSQLite,
	driver: "sqlite",
	createTable: `CREATE TABLE IF NOT EXISTS state (
		bucket TEXT PRIMARY KEY,
		payload TEXT NOT NULL
	)`,
	upsert:    `INSERT INTO state(bucket, payload) VALUES(?, ?) ON CONFLICT(bucket) DO UPDATE SET payload = excluded.payload`,
	selectOne: `SELECT payload FROM state WHERE bucket = ?`,
}

var postgresDialect = sqlDialect{
	name:   BackendPostgres,
	driver: "pgx",
	createTable: `CREATE TABLE IF NOT EXISTS state (
		bucket TEXT PRIMARY KEY,
		payload JSONB NOT NULL
	)`,
	upsert:    `INSERT INTO state(bucket, payload) VALUES($1, $2) ON CONFLICT(bucket) DO UPDATE SET payload = EXCLUDED.payload`,
	selectOne: `SELECT payload FROM state WHERE bucket = $1`,
}

// SQLStore persists each document as one row of a single state table.
// The same table layout serves SQLite and Postgres.
type SQLStore struct {
	db      *sql.DB
	dialect sqlDialect
}

var _ DocumentStore = (*SQLStore)(nil)

// NewSQLiteStore opens (or creates) the SQLite database at path
func NewSQLiteStore(ctx context.Context, path string) (*SQLStore, error) {
	if path == "" {
		path = filepath.Join("data", "labcost.db")
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o750); err != nil {
		return nil, fmt.Errorf("create dirs: %w", err)
	}
	conn, err := OpenSQL(ctx, sqliteDialect.driver, path)
	if err != nil {
		return nil, err
	}
	// SQLite allows one writer; a single connection avoids SQLITE_BUSY on saves.
	conn.SetMaxOpenConns(1)
	return newSQLStore(ctx, conn, sqliteDialect)
}

// NewPostgresStore connects to Postgres through the pgx stdlib driver
func NewPostgresStore(ctx context.Context, dsn string) (*SQLStore, error) {
	conn, err := OpenSQL(ctx, postgresDialect.driver, dsn)
	if err != nil {
		return nil, err
	}
	return newSQLStore(ctx, conn, postgresDialect)
}

func newSQLStore(ctx context.Context, conn *sql.DB, d sqlDialect) (*SQLStore, error) {
	if _, err := conn.ExecContext(ctx, d.createTable); err != nil {
		_ = conn.Close()
		return nil, fmt.Errorf("create state table: %w", err)
	}
	return &SQLStore{db: conn, dialect: d}, nil
}

func (s *SQLStore) Name() string { return s.dialect.name }

func (s *SQLStore) Close() error { return s.db.Close() }

// DB exposes the underlying handle for tests
func (s *SQLStore) DB() *sql.DB { return s.db }

func (s *SQLStore) Load(ctx context.Context, name string, v any) (bool, error) {
	var payload []byte
	err := s.db.QueryRowContext(ctx, s.dialect.selectOne, name).Scan(&payload)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return false, nil
		}
		return false, fmt.Errorf("select %s: %w", name, err)
	}
	if err := json.Unmarshal(payload, v); err != nil {
		return true, fmt.Errorf("%w: %s: %v", ErrCorruptDocument, name, err)
	}
	return true, nil
}

func (s *SQLStore) Save(ctx context.Context, name string, v any) error {
	data, err := json.Marshal(v)
	if err != nil {
		return fmt.Errorf("failed to encode %s: %w", name, err)
	}
	if _, err := s.db.ExecContext(ctx, s.dialect.upsert, name, string(data)); err != nil {
		return fmt.Errorf("upsert %s: %w", name, err)
	}
	return nil
}
