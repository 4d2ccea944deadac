package repomanager

import (
	"context"
	"sync"

	"github.com/dmitrijs2005/bikebed/internal/dbx"
	"github.com/dmitrijs2005/bikebed/internal/server/repositories/refreshtokens"
	"github.com/dmitrijs2005/bikebed/internal/server/repositories/resets"
	"github.com/dmitrijs2005/bikebed/internal/server/repositories/users"
)

// MemoryRepositoryManager keeps all data in process memory. The DBTX
// arguments are ignored. WithTx serializes callers but cannot roll back.
type MemoryRepositoryManager struct {
	txMu   sync.Mutex
	users  *users.MemoryRepository
	tokens *refreshtokens.MemoryRepository
	resets *resets.MemoryRepository
}

func NewMemoryRepositoryManager() *MemoryRepositoryManager {
	return &MemoryRepositoryManager{
		users:  users.NewMemoryRepository(),
		tokens: refreshtokens.NewMemoryRepository(),
		resets: resets.NewMemoryRepository(),
	}
}

func (m *MemoryRepositoryManager) RunMigrations(context.Context) error { return nil }

func (m *MemoryRepositoryManager) DB() dbx.DBTX { return nil }

func (m *MemoryRepositoryManager) WithTx(ctx context.Context, fn func(ctx context.Context, tx dbx.DBTX) error) error {
	m.txMu.Lock()
	defer m.txMu.Unlock()
	return fn(ctx, nil)
}

func (m *MemoryRepositoryManager) Users(dbx.DBTX) users.Repository { return m.users }

func (m *MemoryRepositoryManager) RefreshTokens(dbx.DBTX) refreshtokens.Repository { return m.tokens }

func (m *MemoryRepositoryManager) Resets(dbx.DBTX) resets.Repository { return m.resets }

func (m *MemoryRepositoryManager) Close() error { return nil }
