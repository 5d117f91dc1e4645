package purchases

import (
	"context"
	"sync"
	"time"

	"github.com/dmitrijs2005/distillr/internal/common"
	"github.com/dmitrijs2005/distillr/internal/server/models"
)

type MemoryRepository struct {
	mu        sync.RWMutex
	purchases map[string]models.Purchase
}

func NewMemoryRepository() *MemoryRepository {
	return &MemoryRepository{purchases: map[string]models.Purchase{}}
}

func (r *MemoryRepository) Create(_ context.Context, p *models.Purchase) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.purchases[p.Receipt]; ok {
		return false, nil
	}
	p.CreatedAt = time.Now()
	r.purchases[p.Receipt] = *p
	return true, nil
}

func (r *MemoryRepository) GetByReceipt(_ context.Context, receipt string) (*models.Purchase, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	p, ok := r.purchases[receipt]
	if !ok {
		return nil, common.ErrorNotFound
	}
	return &p, nil
}
