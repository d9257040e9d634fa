// Package tableview is the interactive sponsor licence table. It pages
// through the register in fixed windows, searches it, and triggers backend
// syncs, rendering each organisation's licences as one merged group.
package tableview

import (
	"time"

	"sponsortracker/cmd/tracker/ui"
	"sponsortracker/internal/paging"
	"sponsortracker/internal/sponsor"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textinput"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/glamour"
)

// User-facing error strings. Details go to the log.
const (
	msgFetchFailed = "Failed to fetch data"
	msgSyncFailed  = "Sync failed"
)

const defaultTimeout = 30 * time.Second

// InputMode is what keystrokes are currently routed to.
type InputMode int

const (
	ModeNormal InputMode = iota // table navigation
	ModeSearch                  // search prompt focused
	ModePage                    // page number prompt focused
	ModeHelp                    // help screen
)

// errorSource records which request produced the current error.
type errorSource int

const (
	errNone errorSource = iota
	errLoad
	errSync
)

// Options configures a Model.
type Options struct {
	Theme   ui.Theme
	Timeout time.Duration // per-request bound; defaults to 30s
}

// Model is the table view state.
type Model struct {
	src     DataSource
	timeout time.Duration

	// Register state
	page    *sponsor.Page
	rows    int // licence rows rendered from page
	window  paging.Window
	search  string
	loading bool
	syncing bool
	errMsg  string
	errFrom errorSource

	// UI
	mode     InputMode
	width    int
	height   int
	ready    bool
	styles   ui.Styles
	keys     keyMap
	help     help.Model
	spinner  spinner.Model
	input    textinput.Model
	viewport viewport.Model
	renderer *glamour.TermRenderer
}

// New creates a table view reading from src. The model starts in the
// loading state; Init issues the request for the first page.
func New(src DataSource, opts Options) Model {
	if opts.Timeout <= 0 {
		opts.Timeout = defaultTimeout
	}

	sp := spinner.New()
	sp.Spinner = spinner.Dot

	ti := textinput.New()
	ti.CharLimit = 200

	vp := viewport.New(ui.MinimumTerminalWidth, 20)

	m := Model{
		src:      src,
		timeout:  opts.Timeout,
		window:   paging.First(),
		loading:  true,
		keys:     defaultKeyMap(),
		help:     help.New(),
		spinner:  sp,
		input:    ti,
		viewport: vp,
	}
	m.setStyles(ui.NewStyles(opts.Theme))
	m.updateKeyStates()
	return m
}

// Init issues the first page request.
func (m Model) Init() tea.Cmd {
	return tea.Batch(m.spinner.Tick, loadPageCmd(m.src, m.window, m.search, m.timeout))
}

// Window returns the current range.
func (m Model) Window() paging.Window { return m.window }

// Search returns the search text of the current request.
func (m Model) Search() string { return m.search }

// Page returns the displayed response, or nil before the first success.
func (m Model) Page() *sponsor.Page { return m.page }

// Loading reports whether a page request is in flight.
func (m Model) Loading() bool { return m.loading }

// Syncing reports whether a sync request is in flight.
func (m Model) Syncing() bool { return m.syncing }

// Err returns the current user-facing error message, if any.
func (m Model) Err() string { return m.errMsg }

// Mode returns the current input mode.
func (m Model) Mode() InputMode { return m.mode }

func (m *Model) setStyles(s ui.Styles) {
	m.styles = s
	m.spinner.Style = s.Spinner
	m.input.PromptStyle = s.Prompt
	m.help.Styles.ShortKey = s.Bold
	m.help.Styles.ShortDesc = s.Muted
	m.help.Styles.FullKey = s.Bold
	m.help.Styles.FullDesc = s.Muted
	m.renderer = nil
	if m.ready {
		m.renderer = newRenderer(s.Theme, m.width)
	}
}

// updateKeyStates enables exactly the controls that are currently usable.
func (m *Model) updateKeyStates() {
	total := 0
	if m.page != nil {
		total = m.page.TotalOrganisations
	}
	m.keys.Prev.SetEnabled(!m.loading && m.window.HasPrev())
	m.keys.Next.SetEnabled(!m.loading && m.window.HasNext(total))
	m.keys.Jump.SetEnabled(!m.loading && paging.PageCount(total) > 0)
	m.keys.Search.SetEnabled(!m.loading)
	m.keys.Refresh.SetEnabled(!m.loading)
	m.keys.Sync.SetEnabled(!m.syncing)
}

func newRenderer(theme ui.Theme, width int) *glamour.TermRenderer {
	style := "light"
	if theme.IsDark {
		style = "dark"
	}
	wrap := width - ui.ViewportHorizontalPadding
	if wrap < 40 {
		wrap = 40
	}
	r, err := glamour.NewTermRenderer(
		glamour.WithStandardStyle(style),
		glamour.WithWordWrap(wrap),
	)
	if err != nil {
		return nil
	}
	return r
}
