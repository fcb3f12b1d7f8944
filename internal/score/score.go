// Package score computes engagement scores for mailing-list
// subscribers. Scores are pure functions of the subscriber's activity
// counters, so they can be recomputed in bulk at import time or on
// demand without touching anything but the row.
package score

import "math"

// Activity is the per-subscriber input to the engagement score.
type Activity struct {
	Sends        int // messages delivered to the subscriber
	Opens        int
	Clicks       int
	Bounces      int
	DaysInactive int // days since last open or click; negative means unknown
}

const (
	// halfLifeDays controls recency decay: an otherwise perfect
	// subscriber who has been silent this long scores half.
	halfLifeDays = 90

	bouncePenalty = 15
)

// Engagement returns a 0–100 score. Click-through dominates open rate,
// bounces subtract a flat penalty each, and the whole score decays with
// inactivity. Subscribers with no deliveries score zero.
func Engagement(a Activity) int {
	if a.Sends <= 0 {
		return 0
	}

	openRate := rate(a.Opens, a.Sends)
	clickRate := rate(a.Clicks, a.Sends)

	raw := 40*openRate + 60*clickRate

	if a.DaysInactive > 0 {
		raw *= math.Exp2(-float64(a.DaysInactive) / halfLifeDays)
	}

	raw -= float64(a.Bounces * bouncePenalty)

	return clamp(int(math.Round(raw)))
}

// Grade buckets a score into the letter grades shown in the browser.
func Grade(score int) string {
	switch {
	case score >= 75:
		return "A"
	case score >= 50:
		return "B"
	case score >= 25:
		return "C"
	case score > 0:
		return "D"
	default:
		return "F"
	}
}

// rate clamps a counter ratio to [0, 1]; counters imported from
// third-party ESP exports are occasionally inconsistent (more opens
// than sends), and an out-of-range rate must not inflate the score.
func rate(n, total int) float64 {
	if n <= 0 {
		return 0
	}
	r := float64(n) / float64(total)
	if r > 1 {
		return 1
	}
	return r
}

func clamp(s int) int {
	if s < 0 {
		return 0
	}
	if s > 100 {
		return 100
	}
	return s
}
