package scheduler

import (
	"context"
	"sync"
	"testing"
	"time"

	"ai-email-agent/internal/processor"
)

func TestIntervalTickIsSingleFlight(t *testing.T) {
	started := make(chan struct{})
	release := make(chan struct{})
	var startedOnce sync.Once
	var mu sync.Mutex
	runs := 0

	s := NewInterval(5, func(ctx context.Context, _ func(string) bool) (processor.Summary, error) {
		mu.Lock()
		runs++
		mu.Unlock()
		startedOnce.Do(func() { close(started) })
		<-release
		return processor.Summary{}, nil
	})

	go s.tick()
	<-started

	// A tick arriving while the pass runs must be skipped entirely.
	tickReturned := make(chan struct{})
	go func() {
		s.tick()
		close(tickReturned)
	}()
	select {
	case <-tickReturned:
	case <-time.After(2 * time.Second):
		t.Fatal("overlapping tick must return immediately, not wait")
	}

	close(release)
	// Give the first tick a moment to finish and clear the guard.
	time.Sleep(50 * time.Millisecond)

	mu.Lock()
	got := runs
	mu.Unlock()
	if got != 1 {
		t.Fatalf("want exactly one pass, got %d", got)
	}

	// Once the guard clears, the next tick runs again.
	done := make(chan struct{})
	go func() {
		s.tick()
		close(done)
	}()
	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatal("tick after guard cleared did not run")
	}
	mu.Lock()
	got = runs
	mu.Unlock()
	if got != 2 {
		t.Fatalf("want two passes after guard cleared, got %d", got)
	}
}

func TestPollingSeenSetSuppressesRepeats(t *testing.T) {
	var skipResults []bool
	s := NewPolling(time.Minute, func(ctx context.Context, skip func(string) bool) (processor.Summary, error) {
		skipResults = append(skipResults, skip("a@example.com"))
		if len(skipResults) == 1 {
			return processor.Summary{Sent: 1, SentTo: []string{"a@example.com"}}, nil
		}
		return processor.Summary{}, nil
	})

	s.runOnce()
	s.runOnce()

	if len(skipResults) != 2 {
		t.Fatalf("want two passes, got %d", len(skipResults))
	}
	if skipResults[0] {
		t.Fatalf("first pass must not skip an unseen address")
	}
	if !skipResults[1] {
		t.Fatalf("second pass must skip the address handled in the first")
	}
}

func TestPollingPassErrorDoesNotGrowSeenSet(t *testing.T) {
	calls := 0
	s := NewPolling(time.Minute, func(ctx context.Context, skip func(string) bool) (processor.Summary, error) {
		calls++
		return processor.Summary{}, context.DeadlineExceeded
	})

	s.runOnce()
	s.runOnce()

	if calls != 2 {
		t.Fatalf("errors must not stop subsequent passes, got %d calls", calls)
	}
	if len(s.seen) != 0 {
		t.Fatalf("failed pass must not mark addresses as handled: %v", s.seen)
	}
}

func TestPollingStopTerminatesLoop(t *testing.T) {
	s := NewPolling(10*time.Millisecond, func(ctx context.Context, _ func(string) bool) (processor.Summary, error) {
		return processor.Summary{}, nil
	})
	if err := s.Start(); err != nil {
		t.Fatalf("start: %v", err)
	}

	stopped := make(chan struct{})
	go func() {
		s.Stop()
		close(stopped)
	}()
	select {
	case <-stopped:
	case <-time.After(2 * time.Second):
		t.Fatal("Stop did not terminate the polling loop")
	}
}
