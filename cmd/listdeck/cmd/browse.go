package cmd

import (
	"fmt"
	"os"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/mattn/go-isatty"
	"github.com/spf13/cobra"

	"github.com/listdeck/listdeck/internal/grid"
	"github.com/listdeck/listdeck/internal/prefs"
	"github.com/listdeck/listdeck/internal/store"
	"github.com/listdeck/listdeck/internal/tui"
)

var browseCmd = &cobra.Command{
	Use:   "browse",
	Short: "Open the interactive subscriber browser",
	Long: `Open an interactive terminal browser over the subscriber list.

Navigation:
  ↑/k, ↓/j    Move up/down
  PgUp/PgDn   Page up/down
  Home/End/G  Jump to first/last row

Selection:
  Space       Toggle selection
  v           Extend the last toggle to the cursor
  a           Select all
  x           Clear selection

Data:
  s           Cycle sort column
  r           Reverse sort direction
  /           Live filter
  d           Delete selected subscribers
  q           Quit

Sort order is remembered between sessions.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		if !isatty.IsTerminal(os.Stdout.Fd()) {
			return fmt.Errorf("browse requires a terminal; use 'listdeck stats' for scripted access")
		}

		s, err := store.Open(cfg.DatabasePath())
		if err != nil {
			return fmt.Errorf("open database: %w", err)
		}
		defer s.Close()

		p, err := prefs.Open(cfg.PrefsPath())
		if err != nil {
			logger.Warn("preference store unavailable", "error", err)
			p = nil
		}

		model := tui.New(s, tui.Options{
			Version:    Version,
			BufferRows: cfg.UI.BufferRows,
			Prefs:      prefsOrNil(p),
		})
		prog := tea.NewProgram(model, tea.WithAltScreen())
		if _, err := prog.Run(); err != nil {
			return fmt.Errorf("run browser: %w", err)
		}
		return nil
	},
}

// prefsOrNil avoids handing the table a typed-nil interface value.
func prefsOrNil(p *prefs.Store) grid.PrefStore {
	if p == nil {
		return nil
	}
	return p
}

func init() {
	rootCmd.AddCommand(browseCmd)
}
