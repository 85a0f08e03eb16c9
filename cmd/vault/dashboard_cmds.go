package main

import (
	"context"
	"time"

	"promptvault/internal/gateway"
	"promptvault/internal/transfer"

	tea "github.com/charmbracelet/bubbletea"
	"golang.org/x/sync/errgroup"
)

// Message types produced by background commands
type (
	// bootMsg signals that the startup fetch finished
	bootMsg struct {
		user gateway.User
		err  error
	}

	// listLoadedMsg signals a sidebar refresh finished
	listLoadedMsg struct {
		err error
	}

	// promptSelectedMsg signals that version history for a selection
	// arrived (or failed; the workspace already holds the fallback)
	promptSelectedMsg struct {
		id  string
		err error
	}

	// actionDoneMsg reports a mutation (create/update/archive/restore/
	// import) and whether the list needs reloading
	actionDoneMsg struct {
		notice string
		reload bool
		err    error
	}

	// importParsedMsg carries a parsed snapshot for preview
	importParsedMsg struct {
		prompts []transfer.PromptRecord
		err     error
	}

	// exportDoneMsg reports where the export landed
	exportDoneMsg struct {
		path string
		err  error
	}

	// searchCommittedMsg is a debounced search query ready to apply
	searchCommittedMsg string

	// clearStatusMsg expires the toast line; gen guards against
	// clearing a newer message
	clearStatusMsg struct {
		gen int
	}
)

func (m dashboardModel) reqCtx() (context.Context, context.CancelFunc) {
	return context.WithTimeout(context.Background(), timeout)
}

// bootCmd fetches the user details and the initial prompt list
// concurrently before the first paint settles.
func (m dashboardModel) bootCmd() tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := m.reqCtx()
		defer cancel()

		var user gateway.User
		g, gctx := errgroup.WithContext(ctx)
		g.Go(func() error {
			var err error
			user, err = m.env.client.CurrentUser(gctx)
			return err
		})
		g.Go(func() error {
			return m.ws.LoadList(gctx)
		})
		if err := g.Wait(); err != nil {
			return bootMsg{err: err}
		}
		return bootMsg{user: user}
	}
}

// waitForSearch blocks on the debouncer's output channel. Re-issued
// after every committed query so the listener never dies.
func (m dashboardModel) waitForSearch() tea.Cmd {
	return func() tea.Msg {
		return searchCommittedMsg(<-m.searchCh)
	}
}

func (m dashboardModel) reloadCmd() tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := m.reqCtx()
		defer cancel()
		return listLoadedMsg{err: m.ws.LoadList(ctx)}
	}
}

func (m dashboardModel) selectCmd(id string) tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := m.reqCtx()
		defer cancel()
		return promptSelectedMsg{id: id, err: m.ws.Select(ctx, id)}
	}
}

func (m dashboardModel) createCmd(title, description string, tags []string) tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := m.reqCtx()
		defer cancel()
		if err := m.ws.SubmitCreate(ctx, title, description, tags); err != nil {
			return actionDoneMsg{err: err}
		}
		return actionDoneMsg{notice: "Prompt created"}
	}
}

func (m dashboardModel) updateCmd(title, description string, tags []string) tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := m.reqCtx()
		defer cancel()
		if err := m.ws.SubmitUpdate(ctx, title, description, tags); err != nil {
			return actionDoneMsg{err: err}
		}
		return actionDoneMsg{notice: "New version saved"}
	}
}

func (m dashboardModel) archiveCmd(id string) tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := m.reqCtx()
		defer cancel()
		if err := m.ws.Archive(ctx, id); err != nil {
			return actionDoneMsg{err: err}
		}
		return actionDoneMsg{notice: "Prompt archived"}
	}
}

func (m dashboardModel) restoreCmd(id string) tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := m.reqCtx()
		defer cancel()
		if err := m.ws.Restore(ctx, id); err != nil {
			return actionDoneMsg{err: err}
		}
		return actionDoneMsg{notice: "Prompt restored", reload: true}
	}
}

func (m dashboardModel) parseImportCmd(path string) tea.Cmd {
	return func() tea.Msg {
		prompts, err := transfer.ParseFile(path)
		return importParsedMsg{prompts: prompts, err: err}
	}
}

func (m dashboardModel) commitImportCmd() tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := m.reqCtx()
		defer cancel()
		if err := m.ws.CommitImport(ctx); err != nil {
			return actionDoneMsg{err: err}
		}
		return actionDoneMsg{notice: "Import complete", reload: true}
	}
}

func (m dashboardModel) exportCmd() tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := m.reqCtx()
		defer cancel()
		blob, err := m.env.client.ExportAll(ctx)
		if err != nil {
			return exportDoneMsg{err: err}
		}
		path, err := transfer.WriteExport("", blob)
		return exportDoneMsg{path: path, err: err}
	}
}

// expireStatus clears the toast line after a short delay
func (m dashboardModel) expireStatus() tea.Cmd {
	gen := m.statusGen
	return tea.Tick(4*time.Second, func(time.Time) tea.Msg {
		return clearStatusMsg{gen: gen}
	})
}
