package tableview

import (
	"fmt"

	"sponsortracker/cmd/tracker/ui"
	"sponsortracker/internal/logging"
	"sponsortracker/internal/paging"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
)

// Update handles messages.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmd tea.Cmd

	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = max(msg.Width, 0)
		m.height = max(msg.Height, 0)
		m.ready = true
		m.renderer = newRenderer(m.styles.Theme, m.width)
		m.help.Width = m.width
		m.resize()
		m.refreshContent()

	case tea.KeyMsg:
		cmd = m.handleKey(msg)

	case spinner.TickMsg:
		if m.loading || m.syncing {
			m.spinner, cmd = m.spinner.Update(msg)
		}

	case pageLoadedMsg:
		m.applyPage(msg)

	case syncDoneMsg:
		m.syncing = false
		if msg.err != nil {
			logging.SyncError("sync failed: %v", msg.err)
			m.errMsg = msgSyncFailed
			m.errFrom = errSync
		} else {
			logging.Sync("sync accepted")
		}
		m.resize()

	case ConfigReloadedMsg:
		if msg.Err != nil {
			logging.ConfigWarn("config reload ignored: %v", msg.Err)
			break
		}
		logging.Config("config reloaded (theme %s)", msg.Config.UI.Theme)
		m.setStyles(ui.NewStyles(ui.ThemeByName(msg.Config.UI.Theme)))
		m.refreshContent()
	}

	m.updateKeyStates()
	return m, cmd
}

func (m *Model) handleKey(msg tea.KeyMsg) tea.Cmd {
	if msg.Type == tea.KeyCtrlC {
		return tea.Quit
	}

	switch m.mode {
	case ModeHelp:
		switch {
		case key.Matches(msg, m.keys.Cancel), key.Matches(msg, m.keys.Help):
			m.mode = ModeNormal
		case key.Matches(msg, m.keys.Quit):
			return tea.Quit
		}
		return nil

	case ModeSearch, ModePage:
		switch {
		case key.Matches(msg, m.keys.Cancel):
			m.closePrompt()
			return nil
		case key.Matches(msg, m.keys.Submit):
			return m.submitPrompt()
		}
		var cmd tea.Cmd
		m.input, cmd = m.input.Update(msg)
		return cmd
	}

	switch {
	case key.Matches(msg, m.keys.Quit):
		return tea.Quit
	case key.Matches(msg, m.keys.Help):
		m.mode = ModeHelp
	case key.Matches(msg, m.keys.Prev):
		return m.startLoad(m.window.Prev(), m.search)
	case key.Matches(msg, m.keys.Next):
		return m.startLoad(m.window.Next(), m.search)
	case key.Matches(msg, m.keys.Refresh):
		return m.startLoad(m.window, m.search)
	case key.Matches(msg, m.keys.Sync):
		return m.startSync()
	case key.Matches(msg, m.keys.Search):
		m.input.Prompt = "Search: "
		m.input.Placeholder = "organisation name"
		m.input.SetValue(m.search)
		m.input.CursorEnd()
		return m.openPrompt(ModeSearch)
	case key.Matches(msg, m.keys.Jump):
		m.input.Prompt = fmt.Sprintf("Go to page (1-%d): ", paging.PageCount(m.total()))
		m.input.Placeholder = ""
		m.input.SetValue("")
		return m.openPrompt(ModePage)
	case key.Matches(msg, m.keys.Up):
		m.viewport.LineUp(1)
	case key.Matches(msg, m.keys.Down):
		m.viewport.LineDown(1)
	case key.Matches(msg, m.keys.PageUp):
		m.viewport.HalfViewUp()
	case key.Matches(msg, m.keys.PageDown):
		m.viewport.HalfViewDown()
	}
	return nil
}

func (m *Model) openPrompt(mode InputMode) tea.Cmd {
	m.mode = mode
	m.resize()
	return m.input.Focus()
}

func (m *Model) closePrompt() {
	m.mode = ModeNormal
	m.input.Blur()
	m.resize()
}

// submitPrompt applies the focused prompt. A page number that is not an
// integer within the listing is ignored.
func (m *Model) submitPrompt() tea.Cmd {
	mode, value := m.mode, m.input.Value()
	m.closePrompt()
	if m.loading {
		return nil
	}

	switch mode {
	case ModeSearch:
		return m.startLoad(paging.First(), value)
	case ModePage:
		w, ok := paging.JumpTo(value, m.total())
		if !ok {
			logging.ViewDebug("ignoring page input %q (total %d)", value, m.total())
			return nil
		}
		return m.startLoad(w, m.search)
	}
	return nil
}

// startLoad makes w and search the current request and issues it.
func (m *Model) startLoad(w paging.Window, search string) tea.Cmd {
	m.window = w
	m.search = search
	m.loading = true
	m.clearError()
	logging.View("load %d-%d search=%q", w.From, w.To, search)
	return tea.Batch(loadPageCmd(m.src, w, search, m.timeout), m.spinner.Tick)
}

func (m *Model) startSync() tea.Cmd {
	m.syncing = true
	m.clearError()
	logging.Sync("sync requested")
	return tea.Batch(syncCmd(m.src, m.timeout), m.spinner.Tick)
}

func (m *Model) clearError() {
	m.errMsg = ""
	m.errFrom = errNone
	m.resize()
}

// applyPage handles a completed page request. The response replaces the
// displayed page only when it echoes the requested range and that range is
// still current; anything else is stale and dropped.
func (m *Model) applyPage(msg pageLoadedMsg) {
	m.loading = false

	if msg.err != nil {
		logging.APIError("load %d-%d failed: %v", msg.window.From, msg.window.To, msg.err)
		m.errMsg = msgFetchFailed
		m.errFrom = errLoad
		m.resize()
		return
	}
	if msg.page == nil {
		logging.ViewDebug("discarding empty response for %d-%d", msg.window.From, msg.window.To)
		return
	}
	if !msg.page.Echoes(msg.window.From, msg.window.To) {
		logging.ViewDebug("discarding response: requested %d-%d, got %d-%d",
			msg.window.From, msg.window.To, msg.page.From, msg.page.To)
		return
	}
	if msg.window != m.window {
		logging.ViewDebug("discarding response for superseded window %d-%d (current %d-%d)",
			msg.window.From, msg.window.To, m.window.From, m.window.To)
		return
	}

	m.page = msg.page
	logging.View("showing %d-%d of %d", m.page.From, m.window.ShownTo(m.page.TotalOrganisations), m.page.TotalOrganisations)
	m.refreshContent()
	m.viewport.GotoTop()
}

func (m Model) total() int {
	if m.page == nil {
		return 0
	}
	return m.page.TotalOrganisations
}

// resize fits the viewport between the fixed chrome.
func (m *Model) resize() {
	if !m.ready {
		return
	}
	layout := ui.NewLayoutConfig(m.width, m.height)
	m.viewport.Width = layout.ContentWidth()
	m.viewport.Height = layout.TableHeight(m.errFrom == errSync, m.mode == ModeSearch || m.mode == ModePage)
}

func (m *Model) refreshContent() {
	cellWidth := 0
	if m.ready {
		cellWidth = ui.NewLayoutConfig(m.width, m.height).CellWidth()
	}
	table := buildTable(m.page, cellWidth)
	m.rows = table.Len()
	m.viewport.SetContent(table.View(m.styles))
}
