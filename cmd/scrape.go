package cmd

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

var (
	// Flags for the scrape command
	scrapeRegistry string
	scrapeDryRun   bool
	scrapeOnly     []string
)

// scrapeCmd runs one batch over the provider registry.
var scrapeCmd = &cobra.Command{
	Use:   "scrape",
	Short: "Scrape every configured provider once",
	Long: `Loads the provider registry, runs every adapter concurrently and stores the results.

Records whose id is no longer in the registry are removed from the store.

Examples:
  # Full run
  scrape

  # Print entities without touching the store
  scrape --dry-run

  # Refresh two providers and keep every other record
  scrape --only dr-huber,dr-maier`,
	RunE: runScrape,
}

func init() {
	scrapeCmd.Flags().StringVar(&scrapeRegistry, "registry", "", "Registry directory (overrides REGISTRY_DIR)")
	scrapeCmd.Flags().BoolVar(&scrapeDryRun, "dry-run", false, "Print entities as JSON instead of persisting them")
	scrapeCmd.Flags().StringSliceVar(&scrapeOnly, "only", nil, "Only scrape these provider ids")

	RootCmd.AddCommand(scrapeCmd)
}

func runScrape(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()

	e, err := setup(ctx)
	if err != nil {
		return err
	}
	defer e.logger.Sync()

	e.logger.Info("Starting scrape", zap.Bool("dry_run", scrapeDryRun), zap.Strings("only", scrapeOnly))

	report, err := e.runBatch(ctx, batch{
		RegistryDir: scrapeRegistry,
		DryRun:      scrapeDryRun,
		Only:        scrapeOnly,
	})
	if err != nil {
		return err
	}

	if scrapeDryRun {
		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		if err := enc.Encode(report.Entities); err != nil {
			return fmt.Errorf("failed to write entities: %w", err)
		}
	}
	return nil
}
