// Package entitlement owns the device's {isPro, remaining} snapshot.
//
// The Store is the only writer. Readers either ask for the current value or
// subscribe to replacements. Before the first successful status check the
// snapshot is unknown, which callers must treat as "not yet decided" rather
// than as free or paid.
package entitlement

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/dmitrijs2005/distillr/internal/logging"
	"github.com/dmitrijs2005/distillr/internal/rpc"
	"github.com/google/uuid"
)

var (
	ErrNoDeviceID = errors.New("device id not set")
	ErrNoStatus   = errors.New("empty status response")
)

type StatusChecker interface {
	CheckUserStatus(ctx context.Context, deviceID string) (*rpc.StatusResponse, error)
}

type SessionChecker interface {
	Require() error
}

type Store struct {
	client  StatusChecker
	session SessionChecker
	log     logging.Logger

	mu          sync.RWMutex
	snap        *Snapshot
	subscribers map[string]chan Snapshot
}

func NewStore(client StatusChecker, session SessionChecker, log logging.Logger) *Store {
	if log == nil {
		log = logging.Nop()
	}
	return &Store{
		client:      client,
		session:     session,
		log:         log.With("module", "entitlement"),
		subscribers: make(map[string]chan Snapshot),
	}
}

// Snapshot returns the current snapshot and whether it is known.
func (s *Store) Snapshot() (Snapshot, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.snap == nil {
		return Snapshot{}, false
	}
	return *s.snap, true
}

func (s *Store) Known() bool {
	_, ok := s.Snapshot()
	return ok
}

// IsOutOfUses is false while the snapshot is unknown.
func (s *Store) IsOutOfUses() bool {
	snap, ok := s.Snapshot()
	return ok && snap.IsOutOfUses()
}

// Refresh fetches the status from the backend and replaces the snapshot.
// It requires a session and a device id and leaves the snapshot untouched
// on any failure.
func (s *Store) Refresh(ctx context.Context, deviceID string) (Snapshot, error) {
	if err := s.session.Require(); err != nil {
		return Snapshot{}, err
	}
	if deviceID == "" {
		return Snapshot{}, ErrNoDeviceID
	}

	resp, err := s.client.CheckUserStatus(ctx, deviceID)
	if err != nil {
		return Snapshot{}, fmt.Errorf("check status: %w", err)
	}
	if resp == nil {
		return Snapshot{}, ErrNoStatus
	}

	next := Snapshot{IsPro: resp.IsPro, Remaining: max(resp.Remaining, 0)}
	s.replace(ctx, next)
	return next, nil
}

// ApplyConsumption records the backend's remaining count after a distill.
// The value overwrites the local one; nothing is decremented client-side.
// An unknown snapshot stays unknown and ok is false.
func (s *Store) ApplyConsumption(ctx context.Context, remaining int) (snap Snapshot, ok bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.snap == nil {
		s.log.Debug(ctx, "consumption ignored, entitlement unknown", "remaining", remaining)
		return Snapshot{}, false
	}
	next := *s.snap
	next.Remaining = max(remaining, 0)
	s.replaceLocked(ctx, next)
	return next, true
}

func (s *Store) replace(ctx context.Context, next Snapshot) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.replaceLocked(ctx, next)
}

func (s *Store) replaceLocked(ctx context.Context, next Snapshot) {
	if s.snap == nil {
		s.log.Info(ctx, "entitlement known", "is_pro", next.IsPro, "remaining", next.Remaining)
	} else {
		s.log.Debug(ctx, "entitlement replaced", "is_pro", next.IsPro, "remaining", next.Remaining)
	}
	snap := next
	s.snap = &snap

	for _, ch := range s.subscribers {
		offer(ch, next)
	}
}

// offer delivers v, dropping any older undelivered value first.
func offer(ch chan Snapshot, v Snapshot) {
	select {
	case <-ch:
	default:
	}
	select {
	case ch <- v:
	default:
	}
}

// Subscribe registers a reader. The channel holds at most one pending value,
// always the latest; a known snapshot is delivered immediately.
func (s *Store) Subscribe() (string, <-chan Snapshot) {
	s.mu.Lock()
	defer s.mu.Unlock()

	id := uuid.NewString()
	ch := make(chan Snapshot, 1)
	if s.snap != nil {
		ch <- *s.snap
	}
	s.subscribers[id] = ch
	return id, ch
}

func (s *Store) Unsubscribe(id string) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if ch, ok := s.subscribers[id]; ok {
		close(ch)
		delete(s.subscribers, id)
	}
}
