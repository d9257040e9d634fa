package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"sponsortracker/cmd/tracker/ui"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

// syncCmd asks the server to refresh its copy of the register
var syncCmd = &cobra.Command{
	Use:   "sync",
	Short: "Ask the server to sync with the published register",
	Long: `Triggers a sync on the tracker server. The command exits non-zero if the
server does not accept the request. Data is not reloaded afterwards.`,
	Args: cobra.NoArgs,
	RunE: runSync,
}

func runSync(cmd *cobra.Command, args []string) error {
	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	logger.Info("Requesting sync", zap.String("api", appConfig.API.BaseURL))
	if err := newClient(appConfig).Sync(ctx); err != nil {
		return err
	}
	styles := ui.NewStyles(ui.ThemeByName(appConfig.UI.Theme))
	fmt.Fprintln(cmd.OutOrStdout(), styles.Success.Render("Sync requested."))
	return nil
}
