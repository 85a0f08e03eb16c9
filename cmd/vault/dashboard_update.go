package main

import (
	"strings"

	"promptvault/internal/vault"

	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
)

func (m dashboardModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.layout()
		m.ready = true
		m.refreshDetail()
		return m, nil

	case spinner.TickMsg:
		if !m.loading && m.booted {
			return m, nil
		}
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd

	case bootMsg:
		m.booted = true
		m.loading = false
		if msg.err != nil {
			m.err = msg.err
			return m, nil
		}
		m.username = msg.user.Username
		m.refreshDetail()
		return m, nil

	case listLoadedMsg:
		m.loading = false
		if msg.err != nil {
			return m.toastErr(msg.err)
		}
		m.clampCursor()
		return m, nil

	case promptSelectedMsg:
		m.loading = false
		m.versionIdx = 0
		m.refreshDetail()
		if msg.err != nil {
			// Workspace already shows the load-error placeholder.
			m.log.Warn("version fetch failed for %s: %v", msg.id, msg.err)
			return m.toast("Failed to load version history")
		}
		return m, nil

	case searchCommittedMsg:
		m.ws.SetSearch(string(msg))
		m.loading = true
		return m, tea.Batch(m.reloadCmd(), m.waitForSearch())

	case actionDoneMsg:
		m.loading = false
		if msg.err != nil {
			return m.toastErr(msg.err)
		}
		m.resetForm()
		m.focus = focusSidebar
		m.clampCursor()
		m.versionIdx = 0
		m.refreshDetail()
		if msg.reload {
			m.loading = true
			mm, cmd := m.toast(msg.notice)
			return mm, tea.Batch(cmd, m.reloadCmd())
		}
		return m.toast(msg.notice)

	case importParsedMsg:
		m.loading = false
		m.pathInput.Blur()
		m.focus = focusSidebar
		if msg.err != nil {
			return m.toastErr(msg.err)
		}
		if len(msg.prompts) == 0 {
			return m.toast("Nothing to import")
		}
		m.ws.LoadImport(msg.prompts)
		return m, nil

	case exportDoneMsg:
		m.loading = false
		if msg.err != nil {
			return m.toastErr(msg.err)
		}
		return m.toast("Exported to " + msg.path)

	case clearStatusMsg:
		if msg.gen == m.statusGen {
			m.status = ""
		}
		return m, nil

	case tea.KeyMsg:
		return m.handleKey(msg)
	}

	return m, nil
}

func (m dashboardModel) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	// Ctrl+C always quits, regardless of state.
	if msg.Type == tea.KeyCtrlC {
		m.debouncer.Cancel()
		return m, tea.Quit
	}

	if m.confirm != confirmNone {
		return m.handleConfirmKey(msg)
	}

	switch m.ws.Mode() {
	case vault.ModeEditing:
		return m.handleFormKey(msg)
	case vault.ModeImportPreview:
		return m.handlePreviewKey(msg)
	}

	switch m.focus {
	case focusSearch:
		return m.handleSearchKey(msg)
	case focusImportPath:
		return m.handlePathKey(msg)
	}

	return m.handleBrowseKey(msg)
}

// handleBrowseKey handles keys while the sidebar has focus
func (m dashboardModel) handleBrowseKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "q":
		m.debouncer.Cancel()
		return m, tea.Quit

	case "up", "k":
		if m.cursor > 0 {
			m.cursor--
		}
		return m, nil

	case "down", "j":
		if m.cursor < m.ws.Store().Len()-1 {
			m.cursor++
		}
		return m, nil

	case "enter":
		items := m.ws.Store().All()
		if m.cursor >= len(items) {
			return m, nil
		}
		m.loading = true
		m.refreshDetail()
		return m, m.selectCmd(items[m.cursor].ID)

	case "left", "h":
		return m.cycleVersion(1) // older

	case "right", "l":
		return m.cycleVersion(-1) // newer

	case "/":
		m.focus = focusSearch
		m.searchInput.Focus()
		return m, textinput.Blink

	case "a":
		m.ws.SetArchivedView(!m.ws.ArchivedView())
		m.cursor = 0
		m.versionIdx = 0
		m.loading = true
		m.refreshDetail()
		return m, m.reloadCmd()

	case "n":
		m.ws.StartNew()
		m.prepareForm("", nil, "")
		return m, textinput.Blink

	case "e":
		if err := m.ws.StartEdit(); err != nil {
			return m.toastErr(err)
		}
		p, _ := m.ws.Selected()
		m.prepareForm(p.Title, p.Tags, p.Description)
		return m, textinput.Blink

	case "x":
		p, ok := m.ws.Selected()
		if !ok || p.IsDeleted {
			return m, nil
		}
		m.confirm = confirmArchive
		m.confirmID = p.ID
		return m, nil

	case "r":
		if p, ok := m.ws.Selected(); ok && p.IsDeleted {
			m.loading = true
			return m, m.restoreCmd(p.ID)
		}
		return m, nil

	case "i":
		m.focus = focusImportPath
		m.pathInput.SetValue("")
		m.pathInput.Focus()
		return m, textinput.Blink

	case "o":
		m.loading = true
		return m, m.exportCmd()

	case "ctrl+l":
		m.confirm = confirmLogout
		return m, nil
	}

	return m, nil
}

func (m dashboardModel) handleSearchKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.Type {
	case tea.KeyEsc:
		m.focus = focusSidebar
		m.searchInput.Blur()
		return m, nil
	case tea.KeyEnter:
		m.focus = focusSidebar
		m.searchInput.Blur()
		return m, nil
	}

	var cmd tea.Cmd
	m.searchInput, cmd = m.searchInput.Update(msg)

	query := m.searchInput.Value()
	if query != m.pendingQuery {
		m.pendingQuery = query
		m.debouncer.Input(query, func(q string) {
			// Runs on the debounce timer goroutine; the buffered
			// channel hands off to the waitForSearch command.
			select {
			case m.searchCh <- q:
			default:
			}
		})
	}
	return m, cmd
}

func (m dashboardModel) handlePathKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.Type {
	case tea.KeyEsc:
		m.focus = focusSidebar
		m.pathInput.Blur()
		return m, nil
	case tea.KeyEnter:
		path := strings.TrimSpace(m.pathInput.Value())
		if path == "" {
			return m, nil
		}
		m.loading = true
		return m, m.parseImportCmd(path)
	}

	var cmd tea.Cmd
	m.pathInput, cmd = m.pathInput.Update(msg)
	return m, cmd
}

// handleFormKey handles keys while the create/edit form is open
func (m dashboardModel) handleFormKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.Type {
	case tea.KeyEsc:
		m.ws.CancelEdit()
		m.resetForm()
		m.focus = focusSidebar
		m.refreshDetail()
		return m, nil

	case tea.KeyTab:
		m.formFocus = (m.formFocus + 1) % 3
		m.syncFormFocus()
		return m, nil

	case tea.KeyShiftTab:
		m.formFocus = (m.formFocus + 2) % 3
		m.syncFormFocus()
		return m, nil

	case tea.KeyCtrlS:
		title := strings.TrimSpace(m.titleInput.Value())
		desc := m.descArea.Value()
		tags := splitTags(m.tagsInput.Value())
		m.loading = true
		if _, editing := m.ws.EditingExisting(); editing {
			return m, m.updateCmd(title, desc, tags)
		}
		return m, m.createCmd(title, desc, tags)
	}

	var cmd tea.Cmd
	switch m.formFocus {
	case fieldTitle:
		m.titleInput, cmd = m.titleInput.Update(msg)
	case fieldTags:
		m.tagsInput, cmd = m.tagsInput.Update(msg)
	case fieldDescription:
		m.descArea, cmd = m.descArea.Update(msg)
	}
	return m, cmd
}

// handlePreviewKey handles keys while the import preview is shown
func (m dashboardModel) handlePreviewKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "y", "enter":
		m.loading = true
		return m, m.commitImportCmd()
	case "n", "esc", "q":
		m.ws.CancelImport()
		m.refreshDetail()
		return m, nil
	}
	return m, nil
}

func (m dashboardModel) handleConfirmKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "y", "enter":
		kind, id := m.confirm, m.confirmID
		m.confirm = confirmNone
		m.confirmID = ""
		switch kind {
		case confirmArchive:
			m.loading = true
			return m, m.archiveCmd(id)
		case confirmLogout:
			m.debouncer.Cancel()
			if err := m.env.sess.Clear(); err != nil {
				return m.toastErr(err)
			}
			return m, tea.Quit
		}
		return m, nil

	case "n", "esc", "q":
		m.confirm = confirmNone
		m.confirmID = ""
		return m, nil
	}
	return m, nil
}

// cycleVersion moves the version picker. Pure local selection; no
// network round trip.
func (m dashboardModel) cycleVersion(delta int) (tea.Model, tea.Cmd) {
	versions := m.ws.Versions()
	if len(versions) == 0 {
		return m, nil
	}
	idx := m.versionIdx + delta
	if idx < 0 || idx >= len(versions) {
		return m, nil
	}
	m.versionIdx = idx
	if err := m.ws.SelectVersion(versions[idx].ID); err != nil {
		return m.toastErr(err)
	}
	m.refreshDetail()
	return m, nil
}

func (m *dashboardModel) prepareForm(title string, tags []string, desc string) {
	m.titleInput.SetValue(title)
	m.tagsInput.SetValue(strings.Join(tags, ", "))
	m.descArea.SetValue(desc)
	m.formFocus = fieldTitle
	m.focus = focusForm
	m.syncFormFocus()
}

func (m *dashboardModel) syncFormFocus() {
	m.titleInput.Blur()
	m.tagsInput.Blur()
	m.descArea.Blur()
	switch m.formFocus {
	case fieldTitle:
		m.titleInput.Focus()
	case fieldTags:
		m.tagsInput.Focus()
	case fieldDescription:
		m.descArea.Focus()
	}
}

func (m *dashboardModel) resetForm() {
	m.titleInput.SetValue("")
	m.tagsInput.SetValue("")
	m.descArea.SetValue("")
	m.formFocus = fieldTitle
}

func (m *dashboardModel) clampCursor() {
	if n := m.ws.Store().Len(); m.cursor >= n {
		m.cursor = n - 1
	}
	if m.cursor < 0 {
		m.cursor = 0
	}
}

func (m dashboardModel) toast(text string) (tea.Model, tea.Cmd) {
	m.status = text
	m.err = nil
	m.statusGen++
	return m, m.expireStatus()
}

func (m dashboardModel) toastErr(err error) (tea.Model, tea.Cmd) {
	m.log.Error("%v", err)
	m.status = err.Error()
	m.statusGen++
	return m, m.expireStatus()
}

// splitTags parses a comma-separated tag line, dropping empties
func splitTags(s string) []string {
	parts := strings.Split(s, ",")
	tags := make([]string, 0, len(parts))
	for _, p := range parts {
		if t := strings.TrimSpace(p); t != "" {
			tags = append(tags, t)
		}
	}
	return tags
}
