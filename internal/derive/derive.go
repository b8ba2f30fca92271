// Package derive computes higher-order signals (runs, momentum, clutch)
// from reconciled state transitions. It holds no source of truth: every
// tracker is rebuilt purely from the update stream, so a recorded
// sequence of updates replays to identical signals.
package derive

import (
	"time"

	"github.com/jonboulle/clockwork"

	"github.com/courtside/courtside/internal/config"
	"github.com/courtside/courtside/internal/feed"
	"github.com/courtside/courtside/internal/gameclock"
	"github.com/courtside/courtside/internal/plays"
	"github.com/courtside/courtside/internal/state"
	"github.com/courtside/courtside/internal/telemetry"
)

// Signal is a derived observation emitted by Evaluate. The concrete
// types below are the full set.
type Signal interface{ signal() }

// RunSignal fires when one side's unanswered scoring reaches the
// configured threshold.
type RunSignal struct {
	Side   string // "home" or "away"
	Points int
}

// MomentumSignal carries the home-side share of points scored within
// the rolling window. Always in [0,1]; not emitted when the window is
// empty.
type MomentumSignal struct {
	HomeShare float64
}

// ClutchSignal is level-triggered: emitted on enter and on exit only.
type ClutchSignal struct {
	Active bool
}

// PlaySignal tags one newly observed play with its highlight category.
type PlaySignal struct {
	Event    feed.PlayEvent
	Category plays.Category
	Gasp     bool
}

// PulseSignal carries the period+minute scoring histogram rebuilt from
// every play observed so far.
type PulseSignal struct {
	Buckets []Bucket
}

func (RunSignal) signal()      {}
func (MomentumSignal) signal() {}
func (ClutchSignal) signal()   {}
func (PlaySignal) signal()     {}
func (PulseSignal) signal()    {}

type momentumEntry struct {
	side   string
	points int
	at     time.Time
}

type runTracker struct {
	side     string
	points   int
	notified bool
}

// Engine derives signals for a single game. Not safe for concurrent
// use; the owning view serializes Evaluate calls.
type Engine struct {
	cfg   *config.Config
	clock clockwork.Clock

	run      runTracker
	momentum []momentumEntry
	clutch   bool
	plays    []feed.PlayEvent
}

func NewEngine(cfg *config.Config) *Engine {
	return NewEngineWithClock(cfg, clockwork.NewRealClock())
}

// NewEngineWithClock injects the wall clock, letting tests drive the
// momentum window deterministically.
func NewEngineWithClock(cfg *config.Config, clock clockwork.Clock) *Engine {
	return &Engine{cfg: cfg, clock: clock}
}

// Evaluate consumes one reconciled update and returns zero or more
// signals in emission order: plays, then run/momentum per scoring side
// (home before away, matching the reconciler's delta order), then
// clutch, then the pulse histogram.
func (e *Engine) Evaluate(upd state.Update) []Signal {
	var out []Signal

	e.plays = append(e.plays, upd.History...)
	e.plays = append(e.plays, upd.NewEvents...)

	for _, ev := range upd.NewEvents {
		out = append(out, PlaySignal{
			Event:    ev,
			Category: plays.Classify(ev.Description),
			Gasp:     plays.WantsGasp(ev.Description),
		})
	}

	if !upd.FirstObservation {
		if upd.HomeDelta > 0 {
			out = append(out, e.onScore("home", upd.HomeDelta)...)
		}
		if upd.AwayDelta > 0 {
			out = append(out, e.onScore("away", upd.AwayDelta)...)
		}
	}

	if sig, changed := e.evalClutch(upd.Next); changed {
		out = append(out, sig)
	}

	if len(upd.History) > 0 || len(upd.NewEvents) > 0 {
		if buckets := BuildPulse(e.plays); len(buckets) > 0 {
			out = append(out, PulseSignal{Buckets: buckets})
		}
	}

	telemetry.Metrics.SignalsEmitted.Add(int64(len(out)))
	return out
}

// onScore advances the run tracker and momentum window for one side's
// positive delta.
func (e *Engine) onScore(side string, delta int) []Signal {
	var out []Signal

	// A run survives only unanswered scoring: any opposing point, even
	// one, resets it to the scorer's delta.
	if e.run.side == side {
		e.run.points += delta
	} else {
		e.run = runTracker{side: side, points: delta}
	}
	if e.run.points >= e.cfg.RunThreshold {
		if e.cfg.RunNotify == config.RunNotifyEveryScore || !e.run.notified {
			out = append(out, RunSignal{Side: side, Points: e.run.points})
			e.run.notified = true
		}
	}

	e.momentum = append(e.momentum, momentumEntry{side: side, points: delta, at: e.clock.Now()})
	if sig, ok := e.evalMomentum(); ok {
		out = append(out, sig)
	}
	return out
}

func (e *Engine) evalMomentum() (MomentumSignal, bool) {
	cutoff := e.clock.Now().Add(-e.cfg.MomentumWindow)
	kept := e.momentum[:0]
	for _, m := range e.momentum {
		if m.at.After(cutoff) {
			kept = append(kept, m)
		}
	}
	e.momentum = kept

	var home, away int
	for _, m := range e.momentum {
		if m.side == "home" {
			home += m.points
		} else {
			away += m.points
		}
	}
	total := home + away
	if total == 0 {
		return MomentumSignal{}, false
	}
	return MomentumSignal{HomeShare: float64(home) / float64(total)}, true
}

// evalClutch recomputes the clutch flag from the next state and reports
// whether the level changed.
func (e *Engine) evalClutch(next state.GameState) (ClutchSignal, bool) {
	active := next.Status == feed.StatusLive &&
		next.Period >= next.Sport.RegulationPeriods() &&
		gameclock.ParseClock(next.Clock) <= e.cfg.ClutchClockSecs &&
		absInt(next.HomeScore-next.AwayScore) <= e.cfg.ClutchMaxDiff

	if active == e.clutch {
		return ClutchSignal{}, false
	}
	e.clutch = active
	return ClutchSignal{Active: active}, true
}

func absInt(n int) int {
	if n < 0 {
		return -n
	}
	return n
}
