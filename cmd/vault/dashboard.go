// Interactive dashboard. The dashboard functionality is split across
// multiple files:
//   - dashboard.go: Types, construction, Init (this file)
//   - dashboard_update.go: Update loop and key handling
//   - dashboard_cmds.go: Async commands talking to the backend
//   - dashboard_view.go: Rendering
package main

import (
	"fmt"
	"time"

	"promptvault/cmd/vault/ui"
	"promptvault/internal/logging"
	"promptvault/internal/transfer"
	"promptvault/internal/vault"

	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textarea"
	"github.com/charmbracelet/bubbles/textinput"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/glamour"
)

// focusZone determines which pane receives key input
type focusZone int

const (
	focusSidebar focusZone = iota
	focusSearch
	focusVersions
	focusForm
	focusImportPath
)

// confirmKind identifies the pending confirmation modal, if any
type confirmKind int

const (
	confirmNone confirmKind = iota
	confirmArchive
	confirmLogout
	confirmImport
)

// formField indexes the edit form inputs
type formField int

const (
	fieldTitle formField = iota
	fieldTags
	fieldDescription
)

// dashboardModel is the Bubble Tea model for the interactive dashboard
type dashboardModel struct {
	env *appEnv
	ws  *vault.Workspace
	log *logging.Logger

	// UI components
	searchInput textinput.Model
	titleInput  textinput.Model
	tagsInput   textinput.Model
	descArea    textarea.Model
	pathInput   textinput.Model
	detailVP    viewport.Model
	spinner     spinner.Model
	styles      ui.Styles
	renderer    *glamour.TermRenderer

	// Search debouncing: keystrokes feed the debouncer, committed
	// queries arrive on searchCh and are picked up by a command.
	debouncer *ui.SearchDebouncer
	searchCh  chan string

	// State
	focus        focusZone
	confirm      confirmKind
	confirmID    string // prompt pending archive
	formFocus    formField
	cursor       int // sidebar cursor
	versionIdx   int // version picker cursor
	username     string
	status       string
	statusGen    int // invalidates stale toast expiry ticks
	err          error
	width        int
	height       int
	ready        bool
	booted       bool
	loading      bool
	pendingQuery string // search text not yet committed
}

// newDashboard constructs the dashboard model
func newDashboard(env *appEnv) dashboardModel {
	styles := ui.NewStyles(ui.ThemeByName(env.cfg.Theme))

	search := textinput.New()
	search.Placeholder = "Search prompts..."
	search.Prompt = "/ "
	search.CharLimit = 120

	title := textinput.New()
	title.Placeholder = "Title"
	title.CharLimit = 200

	tags := textinput.New()
	tags.Placeholder = "Tags (comma separated)"
	tags.CharLimit = 200

	desc := textarea.New()
	desc.Placeholder = "Prompt text..."
	desc.CharLimit = 0

	path := textinput.New()
	path.Placeholder = transfer.ExportFileName
	path.CharLimit = 500

	sp := spinner.New()
	sp.Spinner = spinner.Dot
	sp.Style = styles.Info

	renderer, _ := glamour.NewTermRenderer(
		glamour.WithAutoStyle(),
		glamour.WithWordWrap(80),
	)

	debounce := time.Duration(env.cfg.SearchDebounceMS) * time.Millisecond

	return dashboardModel{
		env:         env,
		ws:          vault.NewWorkspace(env.client),
		log:         logging.Get(logging.CategoryUI),
		searchInput: search,
		titleInput:  title,
		tagsInput:   tags,
		descArea:    desc,
		pathInput:   path,
		spinner:     sp,
		styles:      styles,
		renderer:    renderer,
		debouncer:   ui.NewSearchDebouncer(debounce),
		searchCh:    make(chan string, 8),
	}
}

// Init starts the spinner, the search listener and the startup fetch
func (m dashboardModel) Init() tea.Cmd {
	return tea.Batch(
		m.spinner.Tick,
		m.waitForSearch(),
		m.bootCmd(),
	)
}

// runDashboard launches the interactive dashboard
func runDashboard() error {
	env, err := newAppEnv()
	if err != nil {
		return err
	}
	if !env.sess.LoggedIn() {
		return fmt.Errorf("not logged in: run 'vault login' first")
	}
	defer logging.Close()

	p := tea.NewProgram(
		newDashboard(env),
		tea.WithAltScreen(),
	)
	_, err = p.Run()
	return err
}
