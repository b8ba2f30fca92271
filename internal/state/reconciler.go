// Package state reconciles inbound feed payloads into canonical per-game
// state. It is the only writer of GameState; everything downstream gets
// read snapshots.
package state

import (
	"github.com/courtside/courtside/internal/events"
	"github.com/courtside/courtside/internal/feed"
	"github.com/courtside/courtside/internal/telemetry"
)

// watermarkUnset marks a reconciler that has not yet seen play-by-play.
const watermarkUnset = -1

// GameState is the canonical displayed state for one game.
type GameState struct {
	GameID    string
	Sport     events.Sport
	Status    feed.GameStatus
	HomeScore int
	AwayScore int
	Period    int
	Clock     string
}

// Update is the result of applying one payload: the (previous, next)
// state pair plus the deduplicated event subset and per-side deltas.
type Update struct {
	Prev GameState
	Next GameState

	// History holds the full play-by-play list on the first observation
	// only. It is rendered once and never drives effects — those plays
	// happened before the viewer arrived.
	History []feed.PlayEvent

	// NewEvents are plays with ids strictly above the prior watermark.
	NewEvents []feed.PlayEvent

	HomeDelta int
	AwayDelta int

	FirstObservation bool
	PeriodChanged    bool
	BecameFinal      bool
}

// Reconciler owns the state of a single game. Not safe for concurrent
// use; the engine serializes all Apply calls on one goroutine.
type Reconciler struct {
	state     GameState
	watermark int
	observed  bool
	finalized bool
}

func NewReconciler(gameID string, sport events.Sport) *Reconciler {
	return &Reconciler{
		state: GameState{
			GameID: gameID,
			Sport:  sport,
			Status: feed.StatusScheduled,
		},
		watermark: watermarkUnset,
	}
}

// State returns a snapshot of the current game state.
func (r *Reconciler) State() GameState { return r.state }

// Watermark returns the highest event id already applied, or -1.
func (r *Reconciler) Watermark() int { return r.watermark }

// Apply merges one inbound payload. The second return is false once the
// game has already finalized: late payloads for a finished game are
// swallowed so the terminal render is the last thing the viewer sees.
func (r *Reconciler) Apply(d *feed.GameDetail) (Update, bool) {
	if d == nil {
		return Update{}, false
	}
	if r.finalized {
		telemetry.Metrics.PayloadsDropped.Inc()
		return Update{}, false
	}

	prev := r.state
	next := prev
	next.Status = d.Summary.Status
	next.Period = d.Summary.Period
	next.Clock = d.Summary.Clock
	if d.Summary.Sport != "" {
		next.Sport = d.Summary.Sport
	}

	// Score regression guard: a stale poll response can race a fresher
	// push message. A lower incoming score is evidence of staleness, so
	// the held value wins, per field.
	next.HomeScore = guardScore(prev.HomeScore, d.Summary.HomeScore, r.observed)
	next.AwayScore = guardScore(prev.AwayScore, d.Summary.AwayScore, r.observed)

	upd := Update{
		Prev:             prev,
		Next:             next,
		FirstObservation: !r.observed,
	}

	if r.observed {
		upd.HomeDelta = next.HomeScore - prev.HomeScore
		upd.AwayDelta = next.AwayScore - prev.AwayScore
		upd.PeriodChanged = next.Period != prev.Period
	}

	r.applyPlayByPlay(&upd, d.PlayByPlay)

	if next.Status == feed.StatusFinal && prev.Status != feed.StatusFinal {
		upd.BecameFinal = true
		r.finalized = true
	}

	r.state = next
	r.observed = true
	telemetry.Metrics.PayloadsApplied.Inc()
	return upd, true
}

// applyPlayByPlay splits the inbound list into history (first
// observation) or new events (watermark filter), then advances the
// watermark to the highest id observed. Ids may arrive out of order
// within a batch; each strictly-new id counts once and the watermark
// never moves backward.
func (r *Reconciler) applyPlayByPlay(upd *Update, pbp []feed.PlayEvent) {
	if len(pbp) == 0 {
		return
	}

	maxID := r.watermark
	if r.watermark == watermarkUnset {
		upd.History = pbp
		for _, e := range pbp {
			if e.EventID > maxID {
				maxID = e.EventID
			}
		}
		r.watermark = maxID
		return
	}

	for _, e := range pbp {
		if e.EventID > r.watermark {
			upd.NewEvents = append(upd.NewEvents, e)
			telemetry.Metrics.NewEvents.Inc()
			if e.EventID > maxID {
				maxID = e.EventID
			}
		} else {
			telemetry.Metrics.DuplicateEvents.Inc()
		}
	}
	if maxID > r.watermark {
		r.watermark = maxID
	}
}

func guardScore(held, incoming int, observed bool) int {
	if observed && incoming < held {
		telemetry.Metrics.ScoreRegressions.Inc()
		return held
	}
	return incoming
}
