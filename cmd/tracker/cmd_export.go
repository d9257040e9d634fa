package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"

	"sponsortracker/internal/export"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

var (
	exportSearch      string
	exportOut         string
	exportConcurrency int
)

// exportCmd writes the whole listing as CSV
var exportCmd = &cobra.Command{
	Use:   "export",
	Short: "Export every organisation and licence as CSV",
	Long: `Walks every page of the register (optionally filtered by a search term)
and writes one CSV record per licence, in the order shown by the table.
The export fails rather than writing a partial file if any page fails.

Example:
  tracker export --search "care" --out care.csv`,
	Args: cobra.NoArgs,
	RunE: runExport,
}

func runExport(cmd *cobra.Command, args []string) error {
	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	concurrency := exportConcurrency
	if concurrency <= 0 {
		concurrency = appConfig.Export.Concurrency
	}

	logger.Info("Starting export",
		zap.String("search", exportSearch),
		zap.Int("concurrency", concurrency),
		zap.String("out", exportOut))

	pages, err := export.Walk(ctx, newClient(appConfig), export.Options{
		Search:      exportSearch,
		Concurrency: concurrency,
	})
	if err != nil {
		return fmt.Errorf("export failed: %w", err)
	}

	var rows int
	write := func(w io.Writer) error {
		var err error
		rows, err = export.WriteCSV(w, pages)
		return err
	}
	if exportOut == "-" {
		err = write(cmd.OutOrStdout())
	} else {
		err = writeFileAtomic(exportOut, write)
	}
	if err != nil {
		return err
	}
	logger.Info("Export complete", zap.Int("pages", len(pages)), zap.Int("rows", rows))
	return nil
}

// writeFileAtomic writes path via a temp file in the same directory, so a
// failed write leaves any existing file untouched and no partial output.
func writeFileAtomic(path string, write func(io.Writer) error) error {
	tmpPath := path + ".tmp"
	f, err := os.Create(tmpPath)
	if err != nil {
		return fmt.Errorf("failed to create %s: %w", path, err)
	}

	err = write(f)
	if cerr := f.Close(); err == nil && cerr != nil {
		err = fmt.Errorf("failed to close %s: %w", tmpPath, cerr)
	}
	if err == nil {
		err = os.Rename(tmpPath, path)
	}
	if err != nil {
		os.Remove(tmpPath) // Clean up
		return err
	}
	return nil
}
