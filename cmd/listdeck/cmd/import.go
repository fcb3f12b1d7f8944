package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/listdeck/listdeck/internal/store"
)

var importBatchSize int

var importCmd = &cobra.Command{
	Use:   "import <file.csv>",
	Short: "Import subscribers from a CSV export",
	Long: `Import subscribers from a CSV file.

The header row names the columns; email is required, and name, status,
joined_at, last_seen, sends, opens, clicks, and bounces are recognized
(common ESP aliases like "email_address" or "deliveries" work too).
Engagement scores are computed during import. Rows whose email already
exists are skipped.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		f, err := os.Open(args[0])
		if err != nil {
			return fmt.Errorf("open csv: %w", err)
		}
		defer f.Close()

		s, err := store.Open(cfg.DatabasePath())
		if err != nil {
			return fmt.Errorf("open database: %w", err)
		}
		defer s.Close()

		batchSize := importBatchSize
		if batchSize == 0 {
			batchSize = cfg.Import.BatchSize
		}

		result, err := s.ImportCSV(cmd.Context(), f, batchSize, logger)
		if err != nil {
			return fmt.Errorf("import: %w", err)
		}

		fmt.Printf("Imported %d subscribers (%d duplicates skipped, %d rows without email)\n",
			result.Imported, result.Skipped, result.Failed)
		return nil
	},
}

func init() {
	importCmd.Flags().IntVar(&importBatchSize, "batch-size", 0, "rows per insert transaction (default from config)")
	rootCmd.AddCommand(importCmd)
}
