package devices

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/dmitrijs2005/distillr/internal/common"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMemoryRepository_ConsumeUpToLimit(t *testing.T) {
	ctx := context.Background()
	r := NewMemoryRepository()
	day := time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC)

	for want := 1; want <= 3; want++ {
		used, err := r.Consume(ctx, "dev-1", day, 3)
		require.NoError(t, err)
		assert.Equal(t, want, used)
	}

	_, err := r.Consume(ctx, "dev-1", day, 3)
	require.ErrorIs(t, err, common.ErrQuotaExhausted)

	d, err := r.Get(ctx, "dev-1")
	require.NoError(t, err)
	assert.Equal(t, 3, d.UsesCount, "a rejected use is not counted")
}

func TestMemoryRepository_NewDayResetsCounter(t *testing.T) {
	ctx := context.Background()
	r := NewMemoryRepository()
	day := time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC)

	for range 3 {
		_, err := r.Consume(ctx, "dev-1", day, 3)
		require.NoError(t, err)
	}

	used, err := r.Consume(ctx, "dev-1", day.AddDate(0, 0, 1), 3)
	require.NoError(t, err)
	assert.Equal(t, 1, used)
}

func TestMemoryRepository_ProIsUnlimited(t *testing.T) {
	ctx := context.Background()
	r := NewMemoryRepository()
	day := time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC)

	require.NoError(t, r.SetPro(ctx, "dev-1"))
	for range 5 {
		_, err := r.Consume(ctx, "dev-1", day, 1)
		require.NoError(t, err)
	}

	d, err := r.Get(ctx, "dev-1")
	require.NoError(t, err)
	assert.True(t, d.IsPro)
	assert.False(t, d.CreatedAt.IsZero())
}

func TestMemoryRepository_GetUnknown(t *testing.T) {
	_, err := NewMemoryRepository().Get(context.Background(), "nope")
	require.ErrorIs(t, err, common.ErrorNotFound)
}

func TestMemoryRepository_ConcurrentConsumeNeverExceedsLimit(t *testing.T) {
	ctx := context.Background()
	r := NewMemoryRepository()
	day := time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC)

	var (
		wg sync.WaitGroup
		mu sync.Mutex
		ok int
	)
	for range 20 {
		wg.Add(1)
		go func() {
			defer wg.Done()
			if _, err := r.Consume(ctx, "dev-1", day, 3); err == nil {
				mu.Lock()
				ok++
				mu.Unlock()
			}
		}()
	}
	wg.Wait()

	assert.Equal(t, 3, ok)
}
