package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

var initForce bool

// initCmd writes the active settings to the config file
var initCmd = &cobra.Command{
	Use:   "init",
	Short: "Write a config file with the current settings",
	Long: `Creates the state directory and writes the resolved configuration
(defaults, environment overrides and --api) to the config file. The
interactive table watches this file and applies theme changes live.

Example:
  tracker init --api https://tracker.example.org`,
	Args: cobra.NoArgs,
	RunE: runInit,
}

func runInit(cmd *cobra.Command, args []string) error {
	if _, err := os.Stat(configPath); err == nil && !initForce {
		return fmt.Errorf("%s already exists (use --force to overwrite)", configPath)
	}

	if err := appConfig.Save(configPath); err != nil {
		return err
	}
	logger.Info("Wrote config", zap.String("path", configPath))
	fmt.Fprintf(cmd.OutOrStdout(), "Wrote %s\n", configPath)
	return nil
}
