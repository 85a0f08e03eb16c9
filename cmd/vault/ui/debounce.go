// Package ui: debouncing for rapid input events.
package ui

import (
	"sync"
	"time"
)

// Debouncer delays a function call until its duration has elapsed
// without any new calls. Rapid successive calls reset the timer.
type Debouncer struct {
	mu       sync.Mutex
	timer    *time.Timer
	duration time.Duration
}

// NewDebouncer creates a debouncer with the specified duration.
func NewDebouncer(duration time.Duration) *Debouncer {
	return &Debouncer{duration: duration}
}

// Debounce schedules fn after the debounce window, cancelling any
// previously pending call.
func (d *Debouncer) Debounce(fn func()) {
	d.mu.Lock()
	defer d.mu.Unlock()

	if d.timer != nil {
		d.timer.Stop()
	}
	d.timer = time.AfterFunc(d.duration, fn)
}

// Cancel drops any pending call. Must be called on teardown so a
// dismounted view cannot emit afterwards.
func (d *Debouncer) Cancel() {
	d.mu.Lock()
	defer d.mu.Unlock()

	if d.timer != nil {
		d.timer.Stop()
		d.timer = nil
	}
}

// SearchDebouncer commits search queries after input quiescence: one
// emission per burst of keystrokes, carrying the final query text.
type SearchDebouncer struct {
	debouncer *Debouncer
	mu        sync.Mutex
	pending   string
	last      string
}

// DefaultSearchDuration is the quiescence window for search input.
const DefaultSearchDuration = 500 * time.Millisecond

// NewSearchDebouncer creates a debouncer for search-as-you-type.
func NewSearchDebouncer(duration time.Duration) *SearchDebouncer {
	return &SearchDebouncer{debouncer: NewDebouncer(duration)}
}

// Input records a keystroke's resulting query and schedules the
// commit. An empty query is a valid emission (it clears the search).
func (sd *SearchDebouncer) Input(query string, commit func(string)) {
	sd.mu.Lock()
	sd.pending = query
	sd.mu.Unlock()

	sd.debouncer.Debounce(func() {
		sd.mu.Lock()
		q := sd.pending
		sd.last = q
		sd.mu.Unlock()
		commit(q)
	})
}

// LastCommitted returns the most recently emitted query.
func (sd *SearchDebouncer) LastCommitted() string {
	sd.mu.Lock()
	defer sd.mu.Unlock()
	return sd.last
}

// Cancel drops any pending commit.
func (sd *SearchDebouncer) Cancel() {
	sd.debouncer.Cancel()
}
