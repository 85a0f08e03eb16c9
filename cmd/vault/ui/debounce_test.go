package ui

import (
	"sync"
	"sync/atomic"
	"testing"
	"time"
)

func TestDebouncer_SingleCall(t *testing.T) {
	var called int32
	debouncer := NewDebouncer(50 * time.Millisecond)

	debouncer.Debounce(func() {
		atomic.AddInt32(&called, 1)
	})

	time.Sleep(100 * time.Millisecond)

	if atomic.LoadInt32(&called) != 1 {
		t.Errorf("Expected 1 call, got %d", called)
	}
}

func TestDebouncer_RapidCalls(t *testing.T) {
	var called int32
	var lastValue int32
	debouncer := NewDebouncer(50 * time.Millisecond)

	for i := 1; i <= 10; i++ {
		value := int32(i)
		debouncer.Debounce(func() {
			atomic.StoreInt32(&lastValue, value)
			atomic.AddInt32(&called, 1)
		})
		time.Sleep(10 * time.Millisecond)
	}

	time.Sleep(100 * time.Millisecond)

	if atomic.LoadInt32(&called) != 1 {
		t.Errorf("Expected 1 call for rapid succession, got %d", called)
	}
	if atomic.LoadInt32(&lastValue) != 10 {
		t.Errorf("Expected last value 10, got %d", lastValue)
	}
}

func TestDebouncer_Cancel(t *testing.T) {
	var called int32
	debouncer := NewDebouncer(50 * time.Millisecond)

	debouncer.Debounce(func() {
		atomic.AddInt32(&called, 1)
	})

	time.Sleep(10 * time.Millisecond)
	debouncer.Cancel()

	time.Sleep(100 * time.Millisecond)

	if atomic.LoadInt32(&called) != 0 {
		t.Errorf("Expected 0 calls after cancel, got %d", called)
	}
}

func TestSearchDebouncer_RapidTypingCommitsOnce(t *testing.T) {
	var mu sync.Mutex
	var commits []string
	sd := NewSearchDebouncer(50 * time.Millisecond)

	commit := func(q string) {
		mu.Lock()
		commits = append(commits, q)
		mu.Unlock()
	}

	// "a", "ab", "abc" inside one quiescence window.
	sd.Input("a", commit)
	time.Sleep(10 * time.Millisecond)
	sd.Input("ab", commit)
	time.Sleep(10 * time.Millisecond)
	sd.Input("abc", commit)

	time.Sleep(100 * time.Millisecond)

	mu.Lock()
	defer mu.Unlock()
	if len(commits) != 1 {
		t.Fatalf("Expected exactly 1 commit, got %d (%v)", len(commits), commits)
	}
	if commits[0] != "abc" {
		t.Errorf("Expected committed query %q, got %q", "abc", commits[0])
	}
}

func TestSearchDebouncer_SpacedTypingCommitsEach(t *testing.T) {
	var mu sync.Mutex
	var commits []string
	sd := NewSearchDebouncer(50 * time.Millisecond)

	commit := func(q string) {
		mu.Lock()
		commits = append(commits, q)
		mu.Unlock()
	}

	sd.Input("a", commit)
	time.Sleep(100 * time.Millisecond) // window elapses
	sd.Input("ab", commit)
	time.Sleep(100 * time.Millisecond)

	mu.Lock()
	defer mu.Unlock()
	if len(commits) != 2 {
		t.Fatalf("Expected 2 commits, got %d (%v)", len(commits), commits)
	}
	if commits[0] != "a" || commits[1] != "ab" {
		t.Errorf("Expected commits [a ab], got %v", commits)
	}
}

func TestSearchDebouncer_EmptyQueryClearsSearch(t *testing.T) {
	var mu sync.Mutex
	var commits []string
	sd := NewSearchDebouncer(30 * time.Millisecond)

	sd.Input("", func(q string) {
		mu.Lock()
		commits = append(commits, q)
		mu.Unlock()
	})

	time.Sleep(80 * time.Millisecond)

	mu.Lock()
	defer mu.Unlock()
	if len(commits) != 1 || commits[0] != "" {
		t.Errorf("Expected one empty commit, got %v", commits)
	}
	if sd.LastCommitted() != "" {
		t.Errorf("Expected empty last committed query")
	}
}

func TestSearchDebouncer_CancelOnTeardown(t *testing.T) {
	var called int32
	sd := NewSearchDebouncer(50 * time.Millisecond)

	sd.Input("abandoned", func(string) {
		atomic.AddInt32(&called, 1)
	})
	sd.Cancel()

	time.Sleep(100 * time.Millisecond)

	if atomic.LoadInt32(&called) != 0 {
		t.Errorf("Expected no commit after cancel, got %d", called)
	}
}
