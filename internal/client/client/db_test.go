package client

import (
	"context"
	"database/sql"
	"errors"
	"path/filepath"
	"testing"

	"github.com/pressly/goose/v3"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	_ "modernc.org/sqlite"
)

func tableExists(t *testing.T, db *sql.DB, name string) bool {
	t.Helper()
	var n int
	err := db.QueryRow(`SELECT COUNT(*) FROM sqlite_master WHERE type='table' AND name=?`, name).Scan(&n)
	require.NoError(t, err)
	return n > 0
}

func TestInitDatabase_CreatesMetadataTable(t *testing.T) {
	ctx := context.Background()
	dsn := filepath.Join(t.TempDir(), "app.db")

	db, err := InitDatabase(ctx, dsn)
	require.NoError(t, err)
	defer db.Close()

	assert.True(t, tableExists(t, db, "goose_db_version"))
	assert.True(t, tableExists(t, db, "metadata"))
}

func TestRunMigrations_IsIdempotent(t *testing.T) {
	ctx := context.Background()
	db, err := sql.Open("sqlite", filepath.Join(t.TempDir(), "app.db"))
	require.NoError(t, err)
	defer db.Close()

	require.NoError(t, RunMigrations(ctx, db))
	require.NoError(t, RunMigrations(ctx, db))
	assert.True(t, tableExists(t, db, "metadata"))
}

func TestRunMigrations_DialectError(t *testing.T) {
	orig := gooseSetDialect
	t.Cleanup(func() { gooseSetDialect = orig })
	gooseSetDialect = func(string) error { return errors.New("no dialect") }

	err := RunMigrations(context.Background(), nil)
	require.ErrorContains(t, err, "no dialect")
}

func TestInitDatabase_MigrationErrorClosesDB(t *testing.T) {
	orig := gooseUpContext
	t.Cleanup(func() { gooseUpContext = orig })
	gooseUpContext = func(context.Context, *sql.DB, string, ...goose.OptionsFunc) error {
		return errors.New("boom")
	}

	_, err := InitDatabase(context.Background(), filepath.Join(t.TempDir(), "app.db"))
	require.ErrorContains(t, err, "migrations: boom")
}

func TestOpenStore_Kinds(t *testing.T) {
	ctx := context.Background()

	for _, kind := range []string{StoreSQLite, StoreBolt} {
		t.Run(kind, func(t *testing.T) {
			path := filepath.Join(t.TempDir(), "nested", "state."+kind)

			s, err := OpenStore(ctx, kind, path)
			require.NoError(t, err)
			require.NoError(t, s.Metadata.Set(ctx, "locale", []byte("es")))
			require.NoError(t, s.Close())

			s, err = OpenStore(ctx, kind, path)
			require.NoError(t, err)
			defer s.Close()
			v, err := s.Metadata.Get(ctx, "locale")
			require.NoError(t, err)
			assert.Equal(t, []byte("es"), v)
		})
	}
}

func TestOpenStore_UnknownKind(t *testing.T) {
	_, err := OpenStore(context.Background(), "redis", filepath.Join(t.TempDir(), "x"))
	require.ErrorIs(t, err, ErrUnknownStore)
}
