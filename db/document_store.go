package db

import (
	"context"
	"errors"
	"fmt"
	"strings"
)

// Document names. Each is loaded wholesale at startup and rewritten wholesale
// on every mutation.
const (
	DocumentItems       = "items"
	DocumentCategories  = "categories"
	DocumentExperiments = "experiments"
)

// Documents lists every document the application persists
var Documents = []string{DocumentItems, DocumentCategories, DocumentExperiments}

// ErrCorruptDocument is returned by Load when stored bytes cannot be decoded
var ErrCorruptDocument = errors.New("corrupt document")

// DocumentStore persists whole JSON documents by name
type DocumentStore interface {
	// Load decodes the named document into v. found is false when the
	// document has never been saved.
	Load(ctx context.Context, name string, v any) (found bool, err error)
	// Save encodes v and replaces the named document
	Save(ctx context.Context, name string, v any) error
	// Name identifies the backend in logs and metrics
	Name() string
	Close() error
}

// Backend names accepted by Open
const (
	BackendFile     = "file"
	BackendMemory   = "memory"
	BackendSQLite   = "sqlite"
	BackendPostgres = "postgres"
	BackendS3       = "s3"
)

// Config selects and configures a DocumentStore backend
type Config struct {
	Backend    string
	DataDir    string
	SQLitePath string
	Postgres   PostgresConfig
	S3         S3Config
}

// Open constructs the backend named by cfg.Backend
func Open(ctx context.Context, cfg Config) (DocumentStore, error) {
	switch strings.ToLower(strings.TrimSpace(cfg.Backend)) {
	case "", BackendFile:
		return NewFileStore(cfg.DataDir)
	case BackendMemory:
		return NewMemoryStore(), nil
	case BackendSQLite:
		return NewSQLiteStore(ctx, cfg.SQLitePath)
	case BackendPostgres:
		dsn, err := cfg.Postgres.DSN()
		if err != nil {
			return nil, err
		}
		return NewPostgresStore(ctx, dsn)
	case BackendS3:
		return NewS3Store(ctx, cfg.S3)
	default:
		return nil, fmt.Errorf("unknown data backend %q (valid: file, memory, sqlite, postgres, s3)", cfg.Backend)
	}
}
