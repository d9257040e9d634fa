package main

import (
	"context"

	"sponsortracker/cmd/tracker/tableview"
	"sponsortracker/cmd/tracker/ui"
	"sponsortracker/internal/config"
	"sponsortracker/internal/logging"

	tea "github.com/charmbracelet/bubbletea"
)

// runInteractive launches the table view and feeds config file changes into
// it until the program exits.
func runInteractive() error {
	cfg := appConfig
	model := tableview.New(newClient(cfg), tableview.Options{
		Theme:   ui.ThemeByName(cfg.UI.Theme),
		Timeout: cfg.GetAPITimeout(),
	})

	var opts []tea.ProgramOption
	if cfg.UI.AltScreen {
		opts = append(opts, tea.WithAltScreen())
	}
	p := tea.NewProgram(model, opts...)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	w, err := config.NewWatcher(configPath, func(c *config.Config, err error) {
		p.Send(tableview.ConfigReloadedMsg{Config: c, Err: err})
	})
	if err != nil {
		logging.ConfigWarn("config watcher unavailable: %v", err)
	} else if err := w.Start(ctx); err != nil {
		// Usually the state directory does not exist yet
		logging.ConfigWarn("not watching %s: %v", configPath, err)
		w.Stop()
	} else {
		logging.Config("watching %s", configPath)
		defer w.Stop()
	}

	if _, err := p.Run(); err != nil {
		logging.BootError("interactive session failed: %v", err)
		return err
	}
	return nil
}
