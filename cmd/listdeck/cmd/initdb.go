package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/listdeck/listdeck/internal/store"
)

var initDBCmd = &cobra.Command{
	Use:   "init",
	Short: "Create the subscriber database",
	Long:  `Create the subscriber database and apply the schema. Safe to run on an existing database.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		s, err := store.Open(cfg.DatabasePath())
		if err != nil {
			return fmt.Errorf("open database: %w", err)
		}
		defer s.Close()

		fmt.Printf("Database ready at %s\n", s.Path())
		return nil
	},
}

func init() {
	rootCmd.AddCommand(initDBCmd)
}
