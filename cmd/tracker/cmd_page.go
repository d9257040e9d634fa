package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"sponsortracker/cmd/tracker/tableview"
	"sponsortracker/cmd/tracker/ui"
	"sponsortracker/internal/paging"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

var (
	pageNumber int
	pageSearch string
)

// pageCmd prints one page of the register
var pageCmd = &cobra.Command{
	Use:   "page",
	Short: "Print one page of the register as a grouped table",
	Long: `Fetches a single page of 20 organisations and prints it in the same
grouped layout as the interactive table.

Example:
  tracker page --page 3 --search "university"`,
	Args: cobra.NoArgs,
	RunE: runPage,
}

func runPage(cmd *cobra.Command, args []string) error {
	if pageNumber < 1 {
		return fmt.Errorf("--page must be at least 1, got %d", pageNumber)
	}

	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	w := paging.Page(pageNumber)
	logger.Debug("Fetching page", zap.Int("from", w.From), zap.Int("to", w.To), zap.String("search", pageSearch))

	page, err := newClient(appConfig).FetchPage(ctx, w, pageSearch)
	if err != nil {
		return err
	}
	if !page.Echoes(w.From, w.To) {
		return fmt.Errorf("server answered %d-%d for requested %d-%d", page.From, page.To, w.From, w.To)
	}
	if count := paging.PageCount(page.TotalOrganisations); pageNumber > count && count > 0 {
		return fmt.Errorf("page %d is past the last page (%d)", pageNumber, count)
	}

	styles := ui.NewStyles(ui.ThemeByName(appConfig.UI.Theme))
	out := cmd.OutOrStdout()
	fmt.Fprintln(out, styles.Title.Render(tableview.Title))
	fmt.Fprintln(out, tableview.StatusLine(page))
	fmt.Fprintln(out)
	fmt.Fprint(out, tableview.RenderTable(page, styles, 0))
	return nil
}
