package vault

import (
	"sort"
	"sync"
)

// ListStore holds the ordered prompt summaries currently shown in the
// sidebar (active or archived view, never both). All mutations are
// synchronous and last-write-wins; operations on absent prompts are
// no-ops rather than errors.
type ListStore struct {
	mu    sync.Mutex
	items []Summary
	stale bool
}

// NewListStore returns an empty store.
func NewListStore() *ListStore {
	return &ListStore{}
}

// ReplaceAll swaps in a freshly fetched list, establishing
// createdAt-descending order, and clears the stale flag.
func (s *ListStore) ReplaceAll(summaries []Summary) {
	items := make([]Summary, len(summaries))
	copy(items, summaries)
	sort.SliceStable(items, func(i, j int) bool {
		return items[i].CreatedAt.After(items[j].CreatedAt)
	})

	s.mu.Lock()
	defer s.mu.Unlock()
	s.items = items
	s.stale = false
}

// InsertNew prepends a freshly created prompt. The summary title is
// the user-entered creation title, frozen forever in this view even as
// later edits move the prompt's canonical title.
func (s *ListStore) InsertNew(summary Summary) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.items = append([]Summary{summary}, s.items...)
}

// Remove drops a prompt after a successful archive. Removing a prompt
// that is no longer present is a no-op.
func (s *ListStore) Remove(promptID string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for i, item := range s.items {
		if item.ID == promptID {
			s.items = append(s.items[:i], s.items[i+1:]...)
			return
		}
	}
}

// PatchFields applies updated description and tags to a summary after
// an edit. The title is explicitly excluded: the sidebar label never
// changes after creation.
func (s *ListStore) PatchFields(promptID, description string, tags []string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for i := range s.items {
		if s.items[i].ID == promptID {
			s.items[i].Description = description
			s.items[i].Tags = tags
			return
		}
	}
}

// Get returns the summary for promptID, if present.
func (s *ListStore) Get(promptID string) (Summary, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, item := range s.items {
		if item.ID == promptID {
			return item, true
		}
	}
	return Summary{}, false
}

// All returns a copy of the current list in display order.
func (s *ListStore) All() []Summary {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]Summary, len(s.items))
	copy(out, s.items)
	return out
}

// Len returns the number of summaries held.
func (s *ListStore) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.items)
}

// MarkStale flags the list as needing a reload. Mutations that change
// membership server-side without a local edit (restore, bulk import)
// mark the store stale instead of refetching implicitly; the surface
// decides when to reload.
func (s *ListStore) MarkStale() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.stale = true
}

// Stale reports whether the list needs a reload.
func (s *ListStore) Stale() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.stale
}
