// Package repomanager vends repository implementations for one storage
// backend and runs work inside its transactions.
package repomanager

import (
	"context"

	"github.com/dmitrijs2005/bikebed/internal/dbx"
	"github.com/dmitrijs2005/bikebed/internal/server/repositories/refreshtokens"
	"github.com/dmitrijs2005/bikebed/internal/server/repositories/resets"
	"github.com/dmitrijs2005/bikebed/internal/server/repositories/users"
)

type RepositoryManager interface {
	RunMigrations(ctx context.Context) error

	// DB is the non-transactional handle to pass to the factories.
	DB() dbx.DBTX
	// WithTx runs fn in a transaction; repositories built from tx join it.
	WithTx(ctx context.Context, fn func(ctx context.Context, tx dbx.DBTX) error) error

	Users(db dbx.DBTX) users.Repository
	RefreshTokens(db dbx.DBTX) refreshtokens.Repository
	Resets(db dbx.DBTX) resets.Repository

	Close() error
}
