package services

import (
	"context"
	"sync"
	"testing"
	"time"
)

type fakeExpiredDeleter struct {
	mu        sync.Mutex
	calls     int
	retention time.Duration
}

func (f *fakeExpiredDeleter) DeleteExpired(ctx context.Context, retention time.Duration) (int64, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls++
	f.retention = retention
	return 1, nil
}

func (f *fakeExpiredDeleter) callCount() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.calls
}

func TestSweeper_RunsAndStops(t *testing.T) {
	deleter := &fakeExpiredDeleter{}
	sweeper := NewSweeper(deleter, 10*time.Millisecond, 24*time.Hour)

	sweeper.Start()

	deadline := time.Now().Add(2 * time.Second)
	for deleter.callCount() == 0 {
		if time.Now().After(deadline) {
			t.Fatal("sweeper never ran")
		}
		time.Sleep(5 * time.Millisecond)
	}

	sweeper.Stop()
	after := deleter.callCount()

	// Stop must be terminal; no further sweeps may land.
	time.Sleep(50 * time.Millisecond)
	if deleter.callCount() != after {
		t.Errorf("sweeper ran after Stop: %d calls, had %d at stop", deleter.callCount(), after)
	}

	deleter.mu.Lock()
	defer deleter.mu.Unlock()
	if deleter.retention != 24*time.Hour {
		t.Errorf("retention = %v, want 24h", deleter.retention)
	}
}
