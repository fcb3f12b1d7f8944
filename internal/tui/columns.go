package tui

import (
	"fmt"

	"github.com/listdeck/listdeck/internal/grid"
	"github.com/listdeck/listdeck/internal/score"
	"github.com/listdeck/listdeck/internal/store"
)

// subscriberColumns defines the browser's column set. Email and name
// flex to their content; the counters are fixed-width so the numeric
// columns stay put while scrolling.
func subscriberColumns() []grid.Column {
	return []grid.Column{
		{Key: "email", Label: "Email", MinWidth: 16, MaxWidth: 40, Sortable: true},
		{Key: "name", Label: "Name", MinWidth: 8, MaxWidth: 24, Sortable: true},
		{Key: "domain", Label: "Domain", MinWidth: 8, MaxWidth: 24, Sortable: true},
		{Key: "status", Label: "Status", Width: 12, Sortable: true},
		{Key: "sends", Label: "Sends", Width: 6, Sortable: true},
		{Key: "opens", Label: "Opens", Width: 6, Sortable: true},
		{
			Key: "score", Label: "Score", Width: 7, Sortable: true,
			Render: func(r grid.Row) string {
				n, _ := r["score"].(int)
				return fmt.Sprintf("%3d %s", n, score.Grade(n))
			},
		},
		{Key: "last_seen", Label: "Last Seen", Width: 10, Sortable: true},
	}
}

// subscriberRow converts one store record into a grid row.
func subscriberRow(sub store.Subscriber) grid.Row {
	return grid.Row{
		"id":        sub.ID,
		"email":     sub.Email,
		"name":      sub.Name,
		"domain":    sub.Domain,
		"status":    sub.Status,
		"sends":     sub.Sends,
		"opens":     sub.Opens,
		"clicks":    sub.Clicks,
		"bounces":   sub.Bounces,
		"score":     sub.Score,
		"last_seen": sub.LastSeen,
	}
}

func subscriberRows(subs []store.Subscriber) []grid.Row {
	rows := make([]grid.Row, len(subs))
	for i, sub := range subs {
		rows[i] = subscriberRow(sub)
	}
	return rows
}

// rowIDs extracts the store ids from selected row snapshots.
func rowIDs(rows []grid.Row) []int64 {
	ids := make([]int64, 0, len(rows))
	for _, r := range rows {
		if id, ok := r["id"].(int64); ok {
			ids = append(ids, id)
		}
	}
	return ids
}
