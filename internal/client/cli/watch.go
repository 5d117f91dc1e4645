package cli

import (
	"sync"

	"github.com/dmitrijs2005/distillr/internal/client/entitlement"
)

// subscriber is the part of the entitlement store the watcher listens to.
type subscriber interface {
	Subscribe() (string, <-chan entitlement.Snapshot)
	Unsubscribe(id string)
}

// statusWatcher keeps the last snapshot the store published so the prompt
// and status lines are drawn from replacements, not from ad hoc reads.
type statusWatcher struct {
	src subscriber
	id  string
	ch  <-chan entitlement.Snapshot

	mu        sync.Mutex
	snap      entitlement.Snapshot
	known     bool
	announced bool
}

func newStatusWatcher(src subscriber) *statusWatcher {
	id, ch := src.Subscribe()
	return &statusWatcher{src: src, id: id, ch: ch}
}

// latest drains pending replacements and returns the newest one.
func (w *statusWatcher) latest() (entitlement.Snapshot, bool) {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.drain()
	return w.snap, w.known
}

// becameKnown is true exactly once, on the first call after the snapshot
// became known.
func (w *statusWatcher) becameKnown() (entitlement.Snapshot, bool) {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.drain()
	if !w.known || w.announced {
		return entitlement.Snapshot{}, false
	}
	w.announced = true
	return w.snap, true
}

func (w *statusWatcher) drain() {
	for {
		select {
		case s, ok := <-w.ch:
			if !ok {
				return
			}
			w.snap, w.known = s, true
		default:
			return
		}
	}
}

func (w *statusWatcher) close() {
	w.src.Unsubscribe(w.id)
}
