package entitlement

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const tick = 5 * time.Millisecond

func waitTask(t *testing.T, task *PollTask) {
	t.Helper()
	select {
	case <-task.Done():
	case <-time.After(2 * time.Second):
		t.Fatal("poll task did not finish")
	}
}

func TestPoll_StopsAfterFirstSuccess(t *testing.T) {
	checker := &fakeChecker{results: []statusResult{fail(), fail(), ok(false, 3), ok(true, 0)}}
	s := NewStore(checker, &fakeSession{present: true}, nil)

	_, updates := s.Subscribe()
	task := s.Poll(context.Background(), tick, "dev")
	waitTask(t, task)

	assert.True(t, task.Succeeded())
	assert.Equal(t, 3, checker.callCount())

	time.Sleep(10 * tick)
	assert.Equal(t, 3, checker.callCount(), "no checks after success")

	assert.Equal(t, Snapshot{Remaining: 3}, <-updates)
	select {
	case v := <-updates:
		t.Fatalf("second transition %+v", v)
	default:
	}
	assert.Equal(t, []string{"dev", "dev", "dev"}, checker.devices)
}

func TestPoll_SkipsTicksWithoutSession(t *testing.T) {
	checker := &fakeChecker{results: []statusResult{ok(true, 0)}}
	sess := &fakeSession{}
	s := NewStore(checker, sess, nil)

	task := s.Poll(context.Background(), tick, "dev")
	time.Sleep(5 * tick)
	assert.Zero(t, checker.callCount())

	sess.set(true)
	waitTask(t, task)

	assert.Equal(t, 1, checker.callCount())
	assert.True(t, s.Known())
}

func TestPoll_StopCancelsPendingTask(t *testing.T) {
	checker := &fakeChecker{results: []statusResult{fail()}}
	s := NewStore(checker, &fakeSession{present: true}, nil)

	task := s.Poll(context.Background(), tick, "dev")
	time.Sleep(3 * tick)
	task.Stop()
	task.Stop()

	calls := checker.callCount()
	time.Sleep(5 * tick)
	assert.Equal(t, calls, checker.callCount(), "no checks after Stop")
	assert.False(t, task.Succeeded())
	assert.False(t, s.Known())
}

func TestPoll_ContextCancellationEndsTask(t *testing.T) {
	s := NewStore(&fakeChecker{results: []statusResult{fail()}}, &fakeSession{present: true}, nil)
	ctx, cancel := context.WithCancel(context.Background())

	task := s.Poll(ctx, tick, "dev")
	cancel()
	waitTask(t, task)
	assert.False(t, task.Succeeded())
}

func TestPoll_EndsWhenSnapshotKnownElsewhere(t *testing.T) {
	checker := &fakeChecker{results: []statusResult{ok(false, 1)}}
	sess := &fakeSession{}
	s := NewStore(checker, sess, nil)

	task := s.Poll(context.Background(), tick, "dev")
	s.replace(context.Background(), Snapshot{Remaining: 2})
	waitTask(t, task)

	require.True(t, task.Succeeded())
	assert.Zero(t, checker.callCount())
}
