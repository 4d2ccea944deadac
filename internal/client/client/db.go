package client

import (
	"context"
	"database/sql"
	"fmt"
	"io"

	"github.com/dmitrijs2005/bikebed/internal/client/migrations"
	"github.com/dmitrijs2005/bikebed/internal/client/repositories/metadata"
	"github.com/dmitrijs2005/bikebed/internal/filex"
	"github.com/pressly/goose/v3"

	_ "modernc.org/sqlite"
)

// Store kinds accepted by OpenStore.
const (
	StoreSQLite = "sqlite"
	StoreBolt   = "bolt"
)

// Store is the opened device key-value store.
type Store struct {
	Metadata metadata.Repository
	closer   io.Closer
}

func (s *Store) Close() error {
	if s.closer == nil {
		return nil
	}
	return s.closer.Close()
}

// seams for tests
var (
	gooseSetDialect = goose.SetDialect
	gooseUpContext  = goose.UpContext
)

func RunMigrations(ctx context.Context, db *sql.DB) error {
	goose.SetBaseFS(migrations.Migrations)

	if err := gooseSetDialect("sqlite3"); err != nil {
		return fmt.Errorf("set goose dialect: %w", err)
	}
	return gooseUpContext(ctx, db, ".")
}

// InitDatabase opens the SQLite database at dsn and applies migrations.
func InitDatabase(ctx context.Context, dsn string) (*sql.DB, error) {
	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, err
	}
	if err := RunMigrations(ctx, db); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("migrations: %w", err)
	}
	return db, nil
}

// OpenStore opens the store of the given kind at path, creating the parent
// directory if needed.
func OpenStore(ctx context.Context, kind, path string) (*Store, error) {
	if _, err := filex.EnsureParentDir(path); err != nil {
		return nil, err
	}

	switch kind {
	case StoreSQLite:
		db, err := InitDatabase(ctx, path)
		if err != nil {
			return nil, err
		}
		return &Store{Metadata: metadata.NewSQLiteRepository(db), closer: db}, nil
	case StoreBolt:
		repo, err := metadata.OpenBolt(path)
		if err != nil {
			return nil, err
		}
		return &Store{Metadata: repo, closer: repo}, nil
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownStore, kind)
	}
}
