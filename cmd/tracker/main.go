package main

import (
	"fmt"
	"os"
	"path/filepath"

	"sponsortracker/internal/client"
	"sponsortracker/internal/config"
	"sponsortracker/internal/logging"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

var (
	// Global flags
	verbose bool
	cfgFile string
	apiURL  string

	// Resolved at startup
	appConfig  *config.Config
	configPath string

	// Logger for the non-interactive commands
	logger *zap.Logger
)

// rootCmd represents the base command
var rootCmd = &cobra.Command{
	Use:   "tracker",
	Short: "UK Sponsor Licence Tracker",
	Long: `Browse the UK register of licensed sponsors from the terminal.

Organisations are listed 20 at a time with each of their licences grouped
beneath them. The table can be searched by organisation name, and a sync
can be requested so the server picks up the latest published register.

Run without arguments to start the interactive table.`,
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		if err := loadConfig(); err != nil {
			return err
		}

		if err := logging.Initialize(filepath.Dir(configPath), appConfig.Logging); err != nil {
			return fmt.Errorf("failed to initialize logging: %w", err)
		}
		logging.Boot("%s starting (api %s)", cmd.CommandPath(), appConfig.API.BaseURL)

		// Interactive mode has its own UI
		if !cmd.HasParent() {
			return nil
		}

		// Initialize logger
		zc := zap.NewProductionConfig()
		if verbose {
			zc.Level = zap.NewAtomicLevelAt(zapcore.DebugLevel)
		}
		var err error
		logger, err = zc.Build()
		if err != nil {
			return fmt.Errorf("failed to initialize logger: %w", err)
		}
		return nil
	},
	PersistentPostRun: func(cmd *cobra.Command, args []string) {
		if logger != nil {
			_ = logger.Sync()
		}
		logging.CloseAll()
	},
	RunE: func(cmd *cobra.Command, args []string) error {
		// Default behavior: launch the interactive table
		return runInteractive()
	},
}

// loadConfig resolves the config file and applies the --api override.
func loadConfig() error {
	configPath = cfgFile
	if configPath == "" {
		configPath = config.DefaultPath()
	}

	cfg, err := config.Load(configPath)
	if err != nil {
		return fmt.Errorf("failed to load config %s: %w", configPath, err)
	}
	if apiURL != "" {
		cfg.API.BaseURL = apiURL
		if err := cfg.Validate(); err != nil {
			return fmt.Errorf("--api: %w", err)
		}
	}
	appConfig = cfg
	return nil
}

// newClient builds the REST client from the active config.
func newClient(cfg *config.Config) *client.Client {
	return client.New(cfg.API.BaseURL,
		client.WithTimeout(cfg.GetAPITimeout()),
		client.WithUserAgent(cfg.API.UserAgent),
	)
}

func init() {
	// Global flags
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Enable verbose logging")
	rootCmd.PersistentFlags().StringVarP(&cfgFile, "config", "c", "", "Config file (default: ./.tracker/config.yaml)")
	rootCmd.PersistentFlags().StringVar(&apiURL, "api", "", "Tracker API base URL (or set TRACKER_API_URL)")

	// Page flags
	pageCmd.Flags().IntVarP(&pageNumber, "page", "p", 1, "Page number (1-based)")
	pageCmd.Flags().StringVarP(&pageSearch, "search", "s", "", "Filter organisations by name")

	// Export flags
	exportCmd.Flags().StringVarP(&exportSearch, "search", "s", "", "Filter organisations by name")
	exportCmd.Flags().StringVarP(&exportOut, "out", "o", "-", "Output file (- for stdout)")
	exportCmd.Flags().IntVar(&exportConcurrency, "concurrency", 0, "Parallel page requests (default from config)")

	// Init flags
	initCmd.Flags().BoolVarP(&initForce, "force", "f", false, "Overwrite an existing config file")

	// Add commands to root
	rootCmd.AddCommand(initCmd)
	rootCmd.AddCommand(pageCmd)
	rootCmd.AddCommand(syncCmd)
	rootCmd.AddCommand(exportCmd)
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
