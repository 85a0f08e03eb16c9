package vault

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"promptvault/internal/logging"
	"promptvault/internal/transfer"
)

// Mode is the current state of the selection/edit machine.
type Mode int

const (
	ModeEmpty Mode = iota
	ModeViewing
	ModeEditing
	ModeImportPreview
)

func (m Mode) String() string {
	switch m {
	case ModeEmpty:
		return "empty"
	case ModeViewing:
		return "viewing"
	case ModeEditing:
		return "editing"
	case ModeImportPreview:
		return "import-preview"
	default:
		return "unknown"
	}
}

var (
	// ErrRequestInFlight rejects a second submission while one is
	// still outstanding.
	ErrRequestInFlight = errors.New("a request is already in flight")
	// ErrNoSelection is returned by operations that require a
	// selected prompt.
	ErrNoSelection = errors.New("no prompt selected")
	// ErrArchivedPrompt rejects edits to an archived prompt; it must
	// be restored first.
	ErrArchivedPrompt = errors.New("prompt is archived; restore it before editing")
	// ErrValidation wraps form validation failures.
	ErrValidation = errors.New("validation failed")
)

// Workspace is the selection/edit state machine. It owns the list
// store, the selected prompt's display record, and the version list
// for the picker. Methods are safe for concurrent use; gateway calls
// never run under the lock, and responses arriving after the
// selection has moved on are discarded.
type Workspace struct {
	gw    Gateway
	store *ListStore
	log   *logging.Logger

	mu             sync.Mutex
	mode           Mode
	prevMode       Mode
	archivedView   bool
	search         string
	selected       *Prompt
	versions       []Version
	currentVersion *Version
	editingID      string
	preview        []transfer.PromptRecord
	inFlight       bool
}

// NewWorkspace creates a workspace bound to a gateway.
func NewWorkspace(gw Gateway) *Workspace {
	return &Workspace{
		gw:    gw,
		store: NewListStore(),
		log:   logging.Get(logging.CategoryUI),
	}
}

// Store exposes the prompt list store for rendering.
func (w *Workspace) Store() *ListStore { return w.store }

// Mode returns the current machine state.
func (w *Workspace) Mode() Mode {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.mode
}

// Search returns the committed search query.
func (w *Workspace) Search() string {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.search
}

// ArchivedView reports whether the archived list is shown.
func (w *Workspace) ArchivedView() bool {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.archivedView
}

// Selected returns a copy of the selected prompt's display record.
func (w *Workspace) Selected() (Prompt, bool) {
	w.mu.Lock()
	defer w.mu.Unlock()
	if w.selected == nil {
		return Prompt{}, false
	}
	return *w.selected, true
}

// Versions returns a copy of the fetched version list, newest first.
func (w *Workspace) Versions() []Version {
	w.mu.Lock()
	defer w.mu.Unlock()
	out := make([]Version, len(w.versions))
	copy(out, w.versions)
	return out
}

// CurrentVersion returns the version highlighted in the picker.
func (w *Workspace) CurrentVersion() (Version, bool) {
	w.mu.Lock()
	defer w.mu.Unlock()
	if w.currentVersion == nil {
		return Version{}, false
	}
	return *w.currentVersion, true
}

// EditingExisting reports whether the edit form is bound to an
// existing prompt (as opposed to a fresh blank record).
func (w *Workspace) EditingExisting() (string, bool) {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.editingID, w.editingID != ""
}

// Preview returns the import batch under review.
func (w *Workspace) Preview() []transfer.PromptRecord {
	w.mu.Lock()
	defer w.mu.Unlock()
	out := make([]transfer.PromptRecord, len(w.preview))
	copy(out, w.preview)
	return out
}

// DisplayPrompt resolves what the detail view shows: the selected
// prompt merged with the picker's chosen version, when one is chosen.
func (w *Workspace) DisplayPrompt() (Prompt, bool) {
	w.mu.Lock()
	defer w.mu.Unlock()
	if w.selected == nil {
		return Prompt{}, false
	}
	p := *w.selected
	if w.currentVersion != nil {
		p.Title = w.currentVersion.Title
		p.Description = w.currentVersion.Description
		p.Tags = w.currentVersion.Tags
	}
	return p, true
}

// SetSearch commits a debounced search query. The caller follows up
// with LoadList; the debouncer upstream is the only rate control.
func (w *Workspace) SetSearch(query string) {
	w.mu.Lock()
	w.search = query
	w.mu.Unlock()
}

// SetArchivedView switches between the active and archived lists and
// clears the current selection; the views are mutually exclusive.
func (w *Workspace) SetArchivedView(archived bool) {
	w.mu.Lock()
	if w.archivedView != archived {
		w.archivedView = archived
		w.clearSelectionLocked()
		w.store.MarkStale()
	}
	w.mu.Unlock()
}

func (w *Workspace) clearSelectionLocked() {
	w.selected = nil
	w.versions = nil
	w.currentVersion = nil
	if w.mode == ModeViewing {
		w.mode = ModeEmpty
	}
}

// LoadList fetches the prompt list for the current search and view
// filters and replaces the store contents. A response for filters that
// have since changed is discarded (last committed filter wins).
func (w *Workspace) LoadList(ctx context.Context) error {
	w.mu.Lock()
	search, archived := w.search, w.archivedView
	w.mu.Unlock()

	summaries, err := w.gw.ListPrompts(ctx, search, archived)
	if err != nil {
		return fmt.Errorf("loading prompt list: %w", err)
	}

	w.mu.Lock()
	current := search == w.search && archived == w.archivedView
	w.mu.Unlock()
	if !current {
		w.log.Debug("discarding stale list response (search=%q archived=%v)", search, archived)
		return nil
	}

	w.store.ReplaceAll(summaries)
	w.log.Debug("list loaded: %d prompts (search=%q archived=%v)", len(summaries), search, archived)
	return nil
}

// Select marks a prompt as the current selection and reconciles its
// version history into the display record. The version fetch completes
// (success or failure) before the merge runs; a result that arrives
// after the selection moved elsewhere is dropped.
func (w *Workspace) Select(ctx context.Context, promptID string) error {
	summary, ok := w.store.Get(promptID)
	if !ok {
		return fmt.Errorf("prompt %s is not in the current list", promptID)
	}

	w.mu.Lock()
	w.selected = &Prompt{
		ID:          summary.ID,
		Title:       summary.Title,
		Description: PlaceholderLoading,
		Tags:        []string{},
		IsDeleted:   summary.IsDeleted,
		CreatedAt:   summary.CreatedAt,
	}
	w.versions = nil
	w.currentVersion = nil
	w.mode = ModeViewing
	w.mu.Unlock()

	return w.refreshVersions(ctx, promptID)
}

// refreshVersions fetches and reconciles the version list for
// promptID, guarding against the selection having moved on.
func (w *Workspace) refreshVersions(ctx context.Context, promptID string) error {
	raw, err := w.gw.ListVersions(ctx, promptID)

	w.mu.Lock()
	defer w.mu.Unlock()
	if w.selected == nil || w.selected.ID != promptID {
		w.log.Debug("discarding version response for %s: selection moved", promptID)
		return nil
	}

	if err != nil {
		ReconcileError(w.selected)
		w.versions = nil
		w.currentVersion = nil
		return fmt.Errorf("loading versions for %s: %w", promptID, err)
	}

	versions := Normalize(raw)
	SortDescending(versions)
	Reconcile(w.selected, versions)
	w.versions = versions
	if len(versions) > 0 {
		latest := versions[0]
		w.currentVersion = &latest
	} else {
		w.currentVersion = nil
	}
	w.log.Debug("reconciled %d versions for %s", len(versions), promptID)
	return nil
}

// SelectVersion switches the detail view to a historical version. This
// is a pure local selection; nothing is refetched.
func (w *Workspace) SelectVersion(versionID string) error {
	w.mu.Lock()
	defer w.mu.Unlock()
	for i := range w.versions {
		if w.versions[i].ID == versionID {
			v := w.versions[i]
			w.currentVersion = &v
			return nil
		}
	}
	return fmt.Errorf("version %s is not in the fetched history", versionID)
}

// StartNew opens the edit form bound to a fresh blank record.
func (w *Workspace) StartNew() {
	w.mu.Lock()
	w.prevMode = w.mode
	w.editingID = ""
	w.mode = ModeEditing
	w.mu.Unlock()
}

// StartEdit opens the edit form bound to the selected prompt's current
// fields. Archived prompts must be restored before editing.
func (w *Workspace) StartEdit() error {
	w.mu.Lock()
	defer w.mu.Unlock()
	if w.selected == nil {
		return ErrNoSelection
	}
	if w.selected.IsDeleted {
		return ErrArchivedPrompt
	}
	w.prevMode = w.mode
	w.editingID = w.selected.ID
	w.mode = ModeEditing
	return nil
}

// CancelEdit abandons the form and returns to the previous state.
func (w *Workspace) CancelEdit() {
	w.mu.Lock()
	if w.mode == ModeEditing {
		w.mode = w.prevMode
		if w.mode == ModeViewing && w.selected == nil {
			w.mode = ModeEmpty
		}
		w.editingID = ""
	}
	w.mu.Unlock()
}

func validatePromptForm(title, description string) error {
	if title == "" {
		return fmt.Errorf("%w: title is required", ErrValidation)
	}
	if description == "" {
		return fmt.Errorf("%w: description is required", ErrValidation)
	}
	return nil
}

// beginRequest flips the in-flight guard, rejecting overlapping
// submissions (a double-submit is refused, not queued).
func (w *Workspace) beginRequest() error {
	w.mu.Lock()
	defer w.mu.Unlock()
	if w.inFlight {
		return ErrRequestInFlight
	}
	w.inFlight = true
	return nil
}

func (w *Workspace) endRequest() {
	w.mu.Lock()
	w.inFlight = false
	w.mu.Unlock()
}

// InFlight reports whether a submission is outstanding; surfaces use
// it to disable their submit affordance.
func (w *Workspace) InFlight() bool {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.inFlight
}

// SubmitCreate persists a new prompt. On success the sidebar gains a
// summary whose title is the user-entered creation title, and the new
// prompt becomes the viewed selection.
func (w *Workspace) SubmitCreate(ctx context.Context, title, description string, tags []string) error {
	if err := validatePromptForm(title, description); err != nil {
		return err
	}
	if err := w.beginRequest(); err != nil {
		return err
	}
	defer w.endRequest()

	created, err := w.gw.CreatePrompt(ctx, title, description, tags)
	if err != nil {
		return fmt.Errorf("creating prompt: %w", err)
	}

	// The frozen sidebar title is what the user typed, regardless of
	// what the backend's first generated version calls itself.
	w.store.InsertNew(Summary{
		ID:          created.PromptID,
		Title:       title,
		Description: created.Description,
		Tags:        created.Tags,
		IsDeleted:   created.IsDeleted,
		CreatedAt:   created.CreatedAt,
	})

	w.mu.Lock()
	w.selected = &Prompt{
		ID:          created.PromptID,
		Title:       created.Title,
		Description: created.Description,
		Tags:        created.Tags,
		IsDeleted:   created.IsDeleted,
		CreatedAt:   created.CreatedAt,
	}
	w.versions = nil
	w.currentVersion = nil
	w.editingID = ""
	w.mode = ModeViewing
	w.mu.Unlock()

	// Populate the picker with the freshly generated first version.
	// A failure here leaves the placeholder path to handle it.
	return w.refreshVersions(ctx, created.PromptID)
}

// SubmitUpdate persists an edit to the selected prompt. The summary is
// patched (description and tags only; never the title) and the version
// list is refetched so the picker shows the new latest version.
func (w *Workspace) SubmitUpdate(ctx context.Context, title, description string, tags []string) error {
	if err := validatePromptForm(title, description); err != nil {
		return err
	}

	w.mu.Lock()
	promptID := w.editingID
	w.mu.Unlock()
	if promptID == "" {
		return ErrNoSelection
	}

	if err := w.beginRequest(); err != nil {
		return err
	}
	defer w.endRequest()

	updated, err := w.gw.UpdatePrompt(ctx, promptID, title, description, tags)
	if err != nil {
		return fmt.Errorf("updating prompt: %w", err)
	}

	w.store.PatchFields(promptID, updated.Description, updated.Tags)

	w.mu.Lock()
	if w.selected != nil && w.selected.ID == promptID {
		w.selected.Title = updated.Title
		w.selected.Description = updated.Description
		w.selected.Tags = updated.Tags
	}
	w.editingID = ""
	w.mode = ModeViewing
	w.mu.Unlock()

	return w.refreshVersions(ctx, promptID)
}

// Archive soft-deletes a prompt. On success it leaves the active list,
// and if it was the current selection, the selection and displayed
// version are cleared.
func (w *Workspace) Archive(ctx context.Context, promptID string) error {
	if err := w.gw.ArchivePrompt(ctx, promptID); err != nil {
		return fmt.Errorf("archiving prompt: %w", err)
	}

	w.store.Remove(promptID)

	w.mu.Lock()
	if w.selected != nil && w.selected.ID == promptID {
		w.clearSelectionLocked()
		w.mode = ModeEmpty
	}
	w.mu.Unlock()
	return nil
}

// Restore clears a prompt's archived flag. Membership of the visible
// list changed server-side, so the store is marked stale; the surface
// reloads when it sees the flag.
func (w *Workspace) Restore(ctx context.Context, promptID string) error {
	if err := w.gw.RestorePrompt(ctx, promptID); err != nil {
		return fmt.Errorf("restoring prompt: %w", err)
	}

	w.store.MarkStale()

	w.mu.Lock()
	if w.selected != nil && w.selected.ID == promptID {
		w.selected.IsDeleted = false
	}
	w.mu.Unlock()
	return nil
}

// LoadImport enters import preview with an externally loaded batch.
// Nothing is persisted until CommitImport.
func (w *Workspace) LoadImport(prompts []transfer.PromptRecord) {
	w.mu.Lock()
	w.prevMode = w.mode
	w.preview = prompts
	w.mode = ModeImportPreview
	w.mu.Unlock()
}

// CommitImport posts the previewed batch to the backend. On success
// the preview is discarded and the list marked stale for reload.
func (w *Workspace) CommitImport(ctx context.Context) error {
	w.mu.Lock()
	if w.mode != ModeImportPreview {
		w.mu.Unlock()
		return errors.New("no import batch under review")
	}
	batch := w.preview
	w.mu.Unlock()

	if err := w.beginRequest(); err != nil {
		return err
	}
	defer w.endRequest()

	if err := w.gw.ImportAll(ctx, batch); err != nil {
		return fmt.Errorf("importing prompts: %w", err)
	}

	w.mu.Lock()
	w.preview = nil
	w.mode = ModeEmpty
	w.clearSelectionLocked()
	w.mu.Unlock()
	w.store.MarkStale()
	return nil
}

// CancelImport discards the preview locally with no backend call.
func (w *Workspace) CancelImport() {
	w.mu.Lock()
	if w.mode == ModeImportPreview {
		w.preview = nil
		w.mode = ModeEmpty
	}
	w.mu.Unlock()
}
