package repomanager

import (
	"context"
	"database/sql"
	"errors"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/dmitrijs2005/bikebed/internal/dbx"
	"github.com/pressly/goose/v3"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newDB(t *testing.T) (*sql.DB, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New(sqlmock.MonitorPingsOption(true))
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	return db, mock
}

func TestPostgresManager_Factories(t *testing.T) {
	db, _ := newDB(t)
	var m RepositoryManager = NewPostgresRepositoryManager(db)

	assert.NotNil(t, m.Users(m.DB()))
	assert.NotNil(t, m.RefreshTokens(m.DB()))
	assert.NotNil(t, m.Resets(m.DB()))
	assert.Equal(t, dbx.DBTX(db), m.DB())
}

func TestPostgresManager_WithTx(t *testing.T) {
	db, mock := newDB(t)
	m := NewPostgresRepositoryManager(db)

	mock.ExpectBegin()
	mock.ExpectExec("DELETE FROM refresh_tokens").WithArgs("tok").WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectCommit()

	err := m.WithTx(context.Background(), func(ctx context.Context, tx dbx.DBTX) error {
		return m.RefreshTokens(tx).Delete(ctx, "tok")
	})
	require.NoError(t, err)

	mock.ExpectBegin()
	mock.ExpectRollback()
	err = m.WithTx(context.Background(), func(context.Context, dbx.DBTX) error { return errors.New("boom") })
	require.EqualError(t, err, "boom")

	require.NoError(t, mock.ExpectationsWereMet())
}

func TestRunMigrations(t *testing.T) {
	db, _ := newDB(t)
	m := NewPostgresRepositoryManager(db)

	orig := gooseUpContext
	t.Cleanup(func() { gooseUpContext = orig })

	gooseUpContext = func(ctx context.Context, got *sql.DB, dir string, opts ...goose.OptionsFunc) error {
		if dir != "." || got != db {
			return errors.New("unexpected args")
		}
		return nil
	}
	require.NoError(t, m.RunMigrations(context.Background()))

	gooseUpContext = func(context.Context, *sql.DB, string, ...goose.OptionsFunc) error {
		return errors.New("boom")
	}
	require.ErrorContains(t, m.RunMigrations(context.Background()), "migrate: boom")
}

func TestOpenPostgres(t *testing.T) {
	db, mock := newDB(t)

	orig := sqlOpen
	t.Cleanup(func() { sqlOpen = orig })

	sqlOpen = func(driver, dsn string) (*sql.DB, error) {
		if driver != "pgx" {
			return nil, errors.New("wrong driver")
		}
		return db, nil
	}

	mock.ExpectPing()
	m, err := OpenPostgres(context.Background(), "postgres://x")
	require.NoError(t, err)
	require.NotNil(t, m)

	mock.ExpectPing().WillReturnError(errors.New("refused"))
	mock.ExpectClose()
	_, err = OpenPostgres(context.Background(), "postgres://x")
	require.ErrorContains(t, err, "ping database: refused")

	sqlOpen = func(string, string) (*sql.DB, error) { return nil, errors.New("bad dsn") }
	_, err = OpenPostgres(context.Background(), "::")
	require.ErrorContains(t, err, "open database: bad dsn")
}

func TestMemoryManager(t *testing.T) {
	m := NewMemoryRepositoryManager()
	ctx := context.Background()

	require.NoError(t, m.RunMigrations(ctx))
	assert.Nil(t, m.DB())
	assert.Same(t, m.Users(nil), m.Users(m.DB()))

	called := false
	err := m.WithTx(ctx, func(ctx context.Context, tx dbx.DBTX) error {
		called = true
		return m.RefreshTokens(tx).Create(ctx, "u1", "tok", 0)
	})
	require.NoError(t, err)
	assert.True(t, called)

	_, err = m.RefreshTokens(nil).Find(ctx, "tok")
	require.NoError(t, err)
	require.NoError(t, m.Close())
}
