package devices

import (
	"context"
	"sync"
	"time"

	"github.com/dmitrijs2005/distillr/internal/common"
	"github.com/dmitrijs2005/distillr/internal/server/models"
)

// MemoryRepository keeps devices in a map. It backs the server when no
// database DSN is configured.
type MemoryRepository struct {
	mu      sync.Mutex
	devices map[string]models.Device
	now     func() time.Time
}

func NewMemoryRepository() *MemoryRepository {
	return &MemoryRepository{devices: map[string]models.Device{}, now: time.Now}
}

func (r *MemoryRepository) Get(_ context.Context, id string) (*models.Device, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	d, ok := r.devices[id]
	if !ok {
		return nil, common.ErrorNotFound
	}
	return &d, nil
}

func (r *MemoryRepository) Consume(_ context.Context, id string, day time.Time, limit int) (int, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	d, ok := r.devices[id]
	if !ok {
		d = r.create(id)
	}

	switch {
	case !d.UsesDay.Equal(day):
		d.UsesDay = day
		d.UsesCount = 1
	case d.IsPro || d.UsesCount < limit:
		d.UsesCount++
	default:
		return 0, common.ErrQuotaExhausted
	}

	d.UpdatedAt = r.now()
	r.devices[id] = d
	return d.UsesCount, nil
}

func (r *MemoryRepository) SetPro(_ context.Context, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	d, ok := r.devices[id]
	if !ok {
		d = r.create(id)
	}
	d.IsPro = true
	d.UpdatedAt = r.now()
	r.devices[id] = d
	return nil
}

func (r *MemoryRepository) create(id string) models.Device {
	now := r.now()
	return models.Device{ID: id, CreatedAt: now, UpdatedAt: now}
}
