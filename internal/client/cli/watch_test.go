package cli

import (
	"context"
	"testing"

	"github.com/dmitrijs2005/distillr/internal/client/entitlement"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type signedIn struct{}

func (signedIn) Require() error { return nil }

func TestStatusWatcher_FollowsReplacements(t *testing.T) {
	api := &fakeAPI{remaining: 3}
	store := entitlement.NewStore(api, signedIn{}, nil)
	w := newStatusWatcher(store)
	ctx := context.Background()

	_, known := w.latest()
	assert.False(t, known)
	_, ok := w.becameKnown()
	assert.False(t, ok)

	_, err := store.Refresh(ctx, "dev")
	require.NoError(t, err)
	store.ApplyConsumption(ctx, 2)

	snap, known := w.latest()
	require.True(t, known)
	assert.Equal(t, entitlement.Snapshot{Remaining: 2}, snap)

	snap, ok = w.becameKnown()
	require.True(t, ok)
	assert.Equal(t, 2, snap.Remaining)
	_, ok = w.becameKnown()
	assert.False(t, ok, "announced once")

	w.close()
	store.ApplyConsumption(ctx, 1)
	snap, known = w.latest()
	assert.True(t, known)
	assert.Equal(t, 2, snap.Remaining, "no updates after close")
}
