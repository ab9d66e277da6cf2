package bincount

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"
	"time"
)

type fakePendingRelayer struct {
	calls atomic.Int32
	err   error
}

func (f *fakePendingRelayer) ResendUnacknowledged(ctx context.Context) error {
	f.calls.Add(1)
	return f.err
}

func TestPoller_TicksUntilStopped(t *testing.T) {
	fake := &fakePendingRelayer{}
	poller := NewPoller(fake, 5*time.Millisecond)

	poller.Start(context.Background())
	time.Sleep(40 * time.Millisecond)
	poller.Stop()

	ticked := fake.calls.Load()
	if ticked < 2 {
		t.Fatalf("expected at least 2 ticks, got %d", ticked)
	}

	time.Sleep(20 * time.Millisecond)
	if after := fake.calls.Load(); after != ticked {
		t.Fatalf("poller kept ticking after Stop: %d -> %d", ticked, after)
	}
}

func TestPoller_TickErrorsDoNotStopTheLoop(t *testing.T) {
	fake := &fakePendingRelayer{err: errors.New("database unavailable")}
	poller := NewPoller(fake, 5*time.Millisecond)

	poller.Start(context.Background())
	time.Sleep(40 * time.Millisecond)
	poller.Stop()

	if ticked := fake.calls.Load(); ticked < 2 {
		t.Fatalf("expected the loop to survive tick errors, got %d ticks", ticked)
	}
}

func TestPoller_StopBeforeStartAndTwice(t *testing.T) {
	fake := &fakePendingRelayer{}
	poller := NewPoller(fake, time.Minute)

	poller.Stop()

	poller.Start(context.Background())
	poller.Stop()
	poller.Stop()

	if ticked := fake.calls.Load(); ticked != 0 {
		t.Fatalf("expected no ticks with a one-minute interval, got %d", ticked)
	}
}

func TestPoller_ContextCancelStopsLoop(t *testing.T) {
	fake := &fakePendingRelayer{}
	poller := NewPoller(fake, 5*time.Millisecond)

	ctx, cancel := context.WithCancel(context.Background())
	poller.Start(ctx)
	cancel()

	select {
	case <-poller.done:
	case <-time.After(time.Second):
		t.Fatal("loop did not exit after context cancellation")
	}
}
