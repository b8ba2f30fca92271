package derive

import (
	"sort"

	"github.com/courtside/courtside/internal/feed"
	"github.com/courtside/courtside/internal/gameclock"
	"github.com/courtside/courtside/internal/plays"
)

// Bucket is one period+minute cell of the scoring-trend histogram.
type Bucket struct {
	Period int
	Minute int // minutes remaining on the clock when the plays happened
	Home   int
	Away   int
}

// BuildPulse groups scoring plays into period+minute buckets with
// per-play points inferred from the description. Buckets come back in
// chronological order: period ascending, then minute descending (the
// game clock counts down).
func BuildPulse(pbp []feed.PlayEvent) []Bucket {
	type key struct{ period, minute int }
	type cell struct {
		home, away int
		lastHome   int
	}
	buckets := make(map[key]*cell)

	for _, e := range pbp {
		if !plays.IsScoring(e.Description) {
			continue
		}
		secs := gameclock.ParseClock(e.Clock)
		k := key{period: e.Period, minute: int(secs) / 60}
		c, ok := buckets[k]
		if !ok {
			c = &cell{}
			buckets[k] = c
		}
		pts := plays.Points(e.Description)
		if attributeSide(e, c.lastHome) == "home" {
			c.home += pts
		} else {
			c.away += pts
		}
		c.lastHome = e.HomeScore
	}

	out := make([]Bucket, 0, len(buckets))
	for k, c := range buckets {
		out = append(out, Bucket{Period: k.period, Minute: k.minute, Home: c.home, Away: c.away})
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Period != out[j].Period {
			return out[i].Period < out[j].Period
		}
		return out[i].Minute > out[j].Minute
	})
	return out
}

// attributeSide decides which score column a play advanced by comparing
// its home score against the last home score seen in the same bucket.
//
// This is a heuristic: the feed names the team performing the play, not
// which column moved, and the two differ for plays like technical free
// throws. Isolated here so an authoritative per-event field can replace
// it without touching the histogram.
func attributeSide(e feed.PlayEvent, lastHome int) string {
	if e.HomeScore > lastHome {
		return "home"
	}
	return "away"
}
