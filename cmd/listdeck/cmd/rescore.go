package cmd

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/listdeck/listdeck/internal/score"
	"github.com/listdeck/listdeck/internal/store"
)

var rescoreCmd = &cobra.Command{
	Use:   "rescore",
	Short: "Recompute engagement scores",
	Long: `Recompute every subscriber's engagement score from the stored
activity counters. Run this periodically: the recency decay means scores
drift down as subscribers go quiet.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		s, err := store.Open(cfg.DatabasePath())
		if err != nil {
			return fmt.Errorf("open database: %w", err)
		}
		defer s.Close()

		ctx := cmd.Context()
		subs, err := s.List(ctx)
		if err != nil {
			return fmt.Errorf("list subscribers: %w", err)
		}

		now := time.Now()
		updated := 0
		for _, sub := range subs {
			newScore := score.Engagement(score.Activity{
				Sends:        sub.Sends,
				Opens:        sub.Opens,
				Clicks:       sub.Clicks,
				Bounces:      sub.Bounces,
				DaysInactive: store.DaysSince(sub.LastSeen, now),
			})
			if newScore == sub.Score {
				continue
			}
			if err := s.UpdateScore(ctx, sub.ID, newScore); err != nil {
				return fmt.Errorf("update score: %w", err)
			}
			updated++
		}

		logger.Debug("rescore complete", "total", len(subs), "updated", updated)
		fmt.Printf("Rescored %d of %d subscribers\n", updated, len(subs))
		return nil
	},
}

func init() {
	rootCmd.AddCommand(rescoreCmd)
}
