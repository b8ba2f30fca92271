package state

import (
	"github.com/courtside/courtside/internal/feed"
	"github.com/courtside/courtside/internal/telemetry"
)

// LineUpdate is the per-game result of one scoreboard batch. Games in a
// batch update independently: a flash on one game never touches another.
type LineUpdate struct {
	GameID      string
	Prev        feed.GameLine
	Next        feed.GameLine
	HomeChanged bool
	AwayChanged bool
	First       bool
}

// ScoreboardReconciler tracks N independent game lines behind one shared
// transport. Same regression rules as the single-game reconciler, minus
// play-by-play (the list view has none).
type ScoreboardReconciler struct {
	lines map[string]feed.GameLine
}

func NewScoreboardReconciler() *ScoreboardReconciler {
	return &ScoreboardReconciler{
		lines: make(map[string]feed.GameLine),
	}
}

// Apply merges one scoreboard batch, returning an update per game in
// batch order.
func (r *ScoreboardReconciler) Apply(board *feed.Scoreboard) []LineUpdate {
	if board == nil {
		return nil
	}

	updates := make([]LineUpdate, 0, len(board.Games))
	for _, g := range board.Games {
		prev, seen := r.lines[g.GameID]
		next := g
		if seen {
			if next.HomeScore < prev.HomeScore {
				telemetry.Metrics.ScoreRegressions.Inc()
				next.HomeScore = prev.HomeScore
			}
			if next.AwayScore < prev.AwayScore {
				telemetry.Metrics.ScoreRegressions.Inc()
				next.AwayScore = prev.AwayScore
			}
		}
		r.lines[g.GameID] = next

		updates = append(updates, LineUpdate{
			GameID:      g.GameID,
			Prev:        prev,
			Next:        next,
			HomeChanged: seen && next.HomeScore != prev.HomeScore,
			AwayChanged: seen && next.AwayScore != prev.AwayScore,
			First:       !seen,
		})
	}
	telemetry.Metrics.PayloadsApplied.Inc()
	return updates
}

// Line returns the held state for a game id.
func (r *ScoreboardReconciler) Line(gameID string) (feed.GameLine, bool) {
	g, ok := r.lines[gameID]
	return g, ok
}

// Len returns how many games the reconciler is tracking.
func (r *ScoreboardReconciler) Len() int { return len(r.lines) }
