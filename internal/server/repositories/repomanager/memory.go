package repomanager

import (
	"context"
	"sync"

	"github.com/dmitrijs2005/distillr/internal/dbx"
	"github.com/dmitrijs2005/distillr/internal/server/repositories/devices"
	"github.com/dmitrijs2005/distillr/internal/server/repositories/purchases"
)

// InMemoryRepositoryManager ignores the DBTX argument and always returns
// the same in-memory repositories. WithTx serialises callers but cannot
// roll back.
type InMemoryRepositoryManager struct {
	mu        sync.Mutex
	devices   *devices.MemoryRepository
	purchases *purchases.MemoryRepository
}

func NewInMemoryRepositoryManager() *InMemoryRepositoryManager {
	return &InMemoryRepositoryManager{
		devices:   devices.NewMemoryRepository(),
		purchases: purchases.NewMemoryRepository(),
	}
}

func (m *InMemoryRepositoryManager) RunMigrations(context.Context) error {
	return nil
}

func (m *InMemoryRepositoryManager) DB() dbx.DBTX {
	return nil
}

func (m *InMemoryRepositoryManager) WithTx(ctx context.Context, fn func(ctx context.Context, tx dbx.DBTX) error) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	return fn(ctx, nil)
}

func (m *InMemoryRepositoryManager) Devices(dbx.DBTX) devices.Repository {
	return m.devices
}

func (m *InMemoryRepositoryManager) Purchases(dbx.DBTX) purchases.Repository {
	return m.purchases
}

func (m *InMemoryRepositoryManager) Close() error {
	return nil
}
