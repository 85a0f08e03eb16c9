// View rendering for the interactive dashboard.
package main

import (
	"fmt"
	"strings"

	"promptvault/internal/vault"

	"github.com/charmbracelet/lipgloss"
)

const sidebarWidth = 34

// layout resizes the panes after a terminal resize
func (m *dashboardModel) layout() {
	detailWidth := m.width - sidebarWidth - 6
	if detailWidth < 20 {
		detailWidth = 20
	}
	bodyHeight := m.height - 6
	if bodyHeight < 5 {
		bodyHeight = 5
	}

	m.detailVP.Width = detailWidth
	m.detailVP.Height = bodyHeight
	m.searchInput.Width = sidebarWidth - 4
	m.titleInput.Width = detailWidth - 4
	m.tagsInput.Width = detailWidth - 4
	m.descArea.SetWidth(detailWidth - 4)
	m.descArea.SetHeight(bodyHeight - 8)
	m.pathInput.Width = detailWidth - 4
}

// refreshDetail re-renders the detail viewport from workspace state
func (m *dashboardModel) refreshDetail() {
	p, ok := m.ws.DisplayPrompt()
	if !ok {
		m.detailVP.SetContent(m.styles.Muted.Render("Select a prompt to view it."))
		return
	}

	var sb strings.Builder
	sb.WriteString("# " + p.Title + "\n\n")
	sb.WriteString(p.Description + "\n")
	content := m.safeRenderMarkdown(sb.String())

	var tags string
	if len(p.Tags) > 0 {
		chips := make([]string, len(p.Tags))
		for i, t := range p.Tags {
			chips[i] = m.styles.Tag.Render(t)
		}
		tags = strings.Join(chips, " ") + "\n"
	}
	m.detailVP.SetContent(tags + content)
	m.detailVP.GotoTop()
}

// safeRenderMarkdown renders markdown with panic recovery
func (m *dashboardModel) safeRenderMarkdown(content string) (result string) {
	defer func() {
		if r := recover(); r != nil {
			result = content
		}
	}()

	if m.renderer != nil && content != "" {
		if rendered, err := m.renderer.Render(content); err == nil {
			return rendered
		}
	}
	return content
}

func (m dashboardModel) View() string {
	if !m.ready {
		return "Loading..."
	}
	if !m.booted {
		return m.styles.App.Render(m.spinner.View() + " Connecting to backend...")
	}
	if m.err != nil {
		return m.styles.App.Render(
			m.styles.Error.Render("Startup failed: "+m.err.Error()) +
				"\n\n" + m.styles.Muted.Render("Press Ctrl+C to exit."))
	}

	var body string
	switch {
	case m.confirm != confirmNone:
		body = m.renderModal()
	case m.ws.Mode() == vault.ModeEditing:
		body = m.renderForm()
	case m.ws.Mode() == vault.ModeImportPreview:
		body = m.renderImportPreview()
	default:
		body = lipgloss.JoinHorizontal(lipgloss.Top, m.renderSidebar(), m.renderDetail())
	}

	return m.styles.App.Render(
		m.renderHeader() + "\n" + body + "\n" + m.renderFooter())
}

func (m dashboardModel) renderHeader() string {
	title := m.styles.Title.Render("PromptVault")
	view := "active"
	if m.ws.ArchivedView() {
		view = "archived"
	}
	who := m.styles.Muted.Render(fmt.Sprintf("%s · %s view", m.username, view))
	gap := m.width - lipgloss.Width(title) - lipgloss.Width(who) - 4
	if gap < 1 {
		gap = 1
	}
	return m.styles.Header.Render(title + strings.Repeat(" ", gap) + who)
}

func (m dashboardModel) renderSidebar() string {
	var sb strings.Builder
	sb.WriteString(m.searchInput.View() + "\n\n")

	items := m.ws.Store().All()
	if len(items) == 0 {
		if m.loading {
			sb.WriteString(m.styles.Muted.Render("Loading..."))
		} else {
			sb.WriteString(m.styles.Muted.Render("No prompts."))
		}
	}
	selectedID := ""
	if p, ok := m.ws.Selected(); ok {
		selectedID = p.ID
	}
	maxRows := m.height - 9
	for i, item := range items {
		if i >= maxRows {
			sb.WriteString(m.styles.Muted.Render(fmt.Sprintf("… %d more", len(items)-maxRows)))
			break
		}
		label := truncate(item.Title, sidebarWidth-6)
		style := m.styles.ListItem
		switch {
		case i == m.cursor:
			style = m.styles.SelectedItem
		case item.IsDeleted:
			style = m.styles.ArchivedItem
		}
		marker := "  "
		if item.ID == selectedID {
			marker = "▸ "
		}
		sb.WriteString(style.Render(marker+label) + "\n")
	}

	return m.styles.Sidebar.
		Width(sidebarWidth).
		Height(m.height - 6).
		Render(sb.String())
}

func (m dashboardModel) renderDetail() string {
	var sb strings.Builder
	sb.WriteString(m.renderVersionPicker() + "\n")
	if m.focus == focusImportPath {
		sb.WriteString(m.styles.Subtitle.Render("Import file") + "\n")
		sb.WriteString(m.pathInput.View() + "\n")
		sb.WriteString(m.styles.FormHint.Render("enter to load · esc to cancel") + "\n")
	}
	sb.WriteString(m.detailVP.View())
	return m.styles.Pane.Render(sb.String())
}

func (m dashboardModel) renderVersionPicker() string {
	versions := m.ws.Versions()
	if len(versions) == 0 {
		return ""
	}
	current, ok := m.ws.CurrentVersion()
	if !ok {
		return ""
	}
	latest := m.versionIdx == 0
	label := fmt.Sprintf("v%s of %d", current.Number, len(versions))
	if !latest {
		label += " (older)"
	}
	return m.styles.Badge.Render(label) + " " +
		m.styles.Muted.Render("←/→ older/newer")
}

func (m dashboardModel) renderForm() string {
	var sb strings.Builder
	_, editing := m.ws.EditingExisting()
	if editing {
		sb.WriteString(m.styles.Subtitle.Render("New version") + "\n\n")
	} else {
		sb.WriteString(m.styles.Subtitle.Render("New prompt") + "\n\n")
	}

	sb.WriteString(m.formLabel("Title", fieldTitle) + "\n")
	sb.WriteString(m.titleInput.View() + "\n\n")
	if editing {
		sb.WriteString(m.styles.FormHint.Render("The list label keeps the original title; this only changes the detail view.") + "\n\n")
	}
	sb.WriteString(m.formLabel("Tags", fieldTags) + "\n")
	sb.WriteString(m.tagsInput.View() + "\n\n")
	sb.WriteString(m.formLabel("Prompt", fieldDescription) + "\n")
	sb.WriteString(m.descArea.View() + "\n\n")
	sb.WriteString(m.styles.FormHint.Render("tab next field · ctrl+s save · esc cancel"))

	return m.styles.Pane.Render(sb.String())
}

func (m dashboardModel) formLabel(name string, field formField) string {
	if m.formFocus == field {
		return m.styles.Bold.Render(name)
	}
	return m.styles.Muted.Render(name)
}

func (m dashboardModel) renderImportPreview() string {
	prompts := m.ws.Preview()

	var sb strings.Builder
	sb.WriteString(m.styles.Subtitle.Render(fmt.Sprintf("Import preview — %d prompts", len(prompts))) + "\n\n")
	maxRows := m.height - 10
	for i, p := range prompts {
		if i >= maxRows {
			sb.WriteString(m.styles.Muted.Render(fmt.Sprintf("… %d more", len(prompts)-maxRows)) + "\n")
			break
		}
		line := truncate(p.Title, 50)
		if len(p.Tags) > 0 {
			line += "  " + m.styles.Muted.Render("["+strings.Join(p.Tags, ", ")+"]")
		}
		if n := len(p.Versions); n > 0 {
			line += "  " + m.styles.Muted.Render(fmt.Sprintf("%d versions", n))
		}
		sb.WriteString(m.styles.ListItem.Render(line) + "\n")
	}
	sb.WriteString("\n" + m.styles.FormHint.Render("y import · n cancel"))

	return m.styles.Pane.Render(sb.String())
}

func (m dashboardModel) renderModal() string {
	var text string
	switch m.confirm {
	case confirmArchive:
		text = "Archive this prompt?\n\nIt disappears from the active list\nbut stays restorable.\n\n" +
			m.styles.FormHint.Render("y archive · n cancel")
	case confirmLogout:
		text = "Log out?\n\nThe stored session token is removed.\n\n" +
			m.styles.FormHint.Render("y log out · n cancel")
	}
	modal := m.styles.Modal.Render(text)
	return lipgloss.Place(m.width-4, m.height-6, lipgloss.Center, lipgloss.Center, modal)
}

func (m dashboardModel) renderFooter() string {
	if m.status != "" {
		return m.styles.Footer.Render(m.styles.Warning.Render(m.status))
	}
	if m.loading {
		return m.styles.Footer.Render(m.spinner.View() + " working...")
	}
	help := "enter open · / search · a archived · n new · e edit · x archive · r restore · i import · o export · ctrl+l logout · q quit"
	return m.styles.Footer.Render(m.styles.Muted.Render(help))
}

func truncate(s string, max int) string {
	if max <= 1 || len(s) <= max {
		return s
	}
	runes := []rune(s)
	if len(runes) <= max {
		return s
	}
	return string(runes[:max-1]) + "…"
}
