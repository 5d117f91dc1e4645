package entitlement

import (
	"context"
	"sync/atomic"
	"time"
)

const DefaultPollInterval = time.Second

// PollTask is a running retry-until-success status load.
type PollTask struct {
	cancel    context.CancelFunc
	done      chan struct{}
	succeeded atomic.Bool
}

// Poll tries Refresh right away and then on every tick of interval until one
// succeeds or the snapshot becomes known some other way. Ticks without a
// session are skipped. Failures are logged and retried on the next tick.
func (s *Store) Poll(ctx context.Context, interval time.Duration, deviceID string) *PollTask {
	if interval <= 0 {
		interval = DefaultPollInterval
	}
	ctx, cancel := context.WithCancel(ctx)
	t := &PollTask{cancel: cancel, done: make(chan struct{})}

	go func() {
		defer close(t.done)
		defer cancel()

		ticker := time.NewTicker(interval)
		defer ticker.Stop()

		for {
			if s.pollOnce(ctx, deviceID) {
				t.succeeded.Store(true)
				return
			}
			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
			}
		}
	}()

	return t
}

func (s *Store) pollOnce(ctx context.Context, deviceID string) bool {
	if ctx.Err() != nil {
		return false
	}
	if s.Known() {
		return true
	}
	if err := s.session.Require(); err != nil {
		s.log.Debug(ctx, "status poll waiting for session")
		return false
	}
	if _, err := s.Refresh(ctx, deviceID); err != nil {
		s.log.Debug(ctx, "status poll failed", "error", err)
		return false
	}
	return true
}

// Stop cancels the task and waits for it to exit. Safe to call repeatedly and
// after the task has finished on its own.
func (t *PollTask) Stop() {
	t.cancel()
	<-t.done
}

// Done is closed when the task exits.
func (t *PollTask) Done() <-chan struct{} {
	return t.done
}

// Succeeded reports whether the task ended because the snapshot became known.
func (t *PollTask) Succeeded() bool {
	return t.succeeded.Load()
}
