package tableview

import (
	"context"
	"fmt"
	"time"

	"sponsortracker/internal/config"
	"sponsortracker/internal/logging"
	"sponsortracker/internal/paging"
	"sponsortracker/internal/sponsor"

	tea "github.com/charmbracelet/bubbletea"
)

// DataSource is the tracker backend as seen by the table view.
type DataSource interface {
	FetchPage(ctx context.Context, w paging.Window, search string) (*sponsor.Page, error)
	Sync(ctx context.Context) error
}

// pageLoadedMsg reports the outcome of one page request. window and search
// are what was asked for, not what the backend echoed.
type pageLoadedMsg struct {
	window paging.Window
	search string
	page   *sponsor.Page
	err    error
}

// syncDoneMsg reports the outcome of a sync request.
type syncDoneMsg struct {
	err error
}

// ConfigReloadedMsg is sent into the program when the config file changes.
type ConfigReloadedMsg struct {
	Config *config.Config
	Err    error
}

func loadPageCmd(src DataSource, w paging.Window, search string, timeout time.Duration) tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), timeout)
		defer cancel()

		timer := logging.StartTimer(logging.CategoryView, fmt.Sprintf("load %d-%d", w.From, w.To))
		page, err := src.FetchPage(ctx, w, search)
		timer.StopWithThreshold(2 * time.Second)

		return pageLoadedMsg{window: w, search: search, page: page, err: err}
	}
}

func syncCmd(src DataSource, timeout time.Duration) tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), timeout)
		defer cancel()

		timer := logging.StartTimer(logging.CategorySync, "sync")
		err := src.Sync(ctx)
		timer.Stop()

		return syncDoneMsg{err: err}
	}
}
