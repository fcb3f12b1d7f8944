package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/listdeck/listdeck/internal/store"
)

var statsCmd = &cobra.Command{
	Use:   "stats",
	Short: "Show subscriber list statistics",
	RunE: func(cmd *cobra.Command, args []string) error {
		s, err := store.Open(cfg.DatabasePath())
		if err != nil {
			return fmt.Errorf("open database: %w", err)
		}
		defer s.Close()

		stats, err := s.GetStats(cmd.Context())
		if err != nil {
			return fmt.Errorf("get stats: %w", err)
		}

		fmt.Printf("Database: %s\n", s.Path())
		fmt.Printf("  Subscribers: %d\n", stats.SubscriberCount)
		fmt.Printf("  Active:      %d\n", stats.ActiveCount)
		fmt.Printf("  Domains:     %d\n", stats.DomainCount)
		fmt.Printf("  Avg score:   %.1f\n", stats.AvgScore)

		return nil
	},
}

func init() {
	rootCmd.AddCommand(statsCmd)
}
