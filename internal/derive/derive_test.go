package derive

import (
	"testing"
	"time"

	"github.com/jonboulle/clockwork"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/courtside/courtside/internal/config"
	"github.com/courtside/courtside/internal/events"
	"github.com/courtside/courtside/internal/feed"
	"github.com/courtside/courtside/internal/state"
)

func testConfig() *config.Config {
	return &config.Config{
		RunThreshold:    6,
		RunNotify:       config.RunNotifyEveryScore,
		MomentumWindow:  2 * time.Minute,
		ClutchClockSecs: 120,
		ClutchMaxDiff:   10,
	}
}

func scoreUpdate(sport events.Sport, homeDelta, awayDelta, home, away, period int, clock string) state.Update {
	prev := state.GameState{
		GameID: "g1", Sport: sport, Status: feed.StatusLive,
		HomeScore: home - homeDelta, AwayScore: away - awayDelta, Period: period, Clock: clock,
	}
	next := prev
	next.HomeScore = home
	next.AwayScore = away
	return state.Update{Prev: prev, Next: next, HomeDelta: homeDelta, AwayDelta: awayDelta}
}

func runsOf(signals []Signal) []RunSignal {
	var out []RunSignal
	for _, s := range signals {
		if r, ok := s.(RunSignal); ok {
			out = append(out, r)
		}
	}
	return out
}

func momentumOf(signals []Signal) []MomentumSignal {
	var out []MomentumSignal
	for _, s := range signals {
		if m, ok := s.(MomentumSignal); ok {
			out = append(out, m)
		}
	}
	return out
}

func clutchOf(signals []Signal) []ClutchSignal {
	var out []ClutchSignal
	for _, s := range signals {
		if c, ok := s.(ClutchSignal); ok {
			out = append(out, c)
		}
	}
	return out
}

func TestRunFiresAtThresholdAndResetsOnAnswer(t *testing.T) {
	e := NewEngineWithClock(testConfig(), clockwork.NewFakeClock())

	sigs := e.Evaluate(scoreUpdate(events.SportNBA, 2, 0, 2, 0, 1, "10:00"))
	assert.Empty(t, runsOf(sigs))

	sigs = e.Evaluate(scoreUpdate(events.SportNBA, 2, 0, 4, 0, 1, "9:30"))
	assert.Empty(t, runsOf(sigs))

	sigs = e.Evaluate(scoreUpdate(events.SportNBA, 2, 0, 6, 0, 1, "9:00"))
	runs := runsOf(sigs)
	require.Len(t, runs, 1, "run fires the first time it reaches 6")
	assert.Equal(t, RunSignal{Side: "home", Points: 6}, runs[0])

	// A single answering point kills the run and seeds the opponent's.
	sigs = e.Evaluate(scoreUpdate(events.SportNBA, 0, 1, 6, 1, 1, "8:40"))
	assert.Empty(t, runsOf(sigs))

	// Home needs a fresh 6 now.
	sigs = e.Evaluate(scoreUpdate(events.SportNBA, 3, 0, 9, 1, 1, "8:00"))
	assert.Empty(t, runsOf(sigs))
	sigs = e.Evaluate(scoreUpdate(events.SportNBA, 3, 0, 12, 1, 1, "7:30"))
	runs = runsOf(sigs)
	require.Len(t, runs, 1)
	assert.Equal(t, 6, runs[0].Points)
}

func TestRunNotifyPolicies(t *testing.T) {
	t.Run("every_score_refires", func(t *testing.T) {
		e := NewEngineWithClock(testConfig(), clockwork.NewFakeClock())
		e.Evaluate(scoreUpdate(events.SportNBA, 6, 0, 6, 0, 1, "9:00"))

		sigs := e.Evaluate(scoreUpdate(events.SportNBA, 3, 0, 9, 0, 1, "8:30"))
		runs := runsOf(sigs)
		require.Len(t, runs, 1)
		assert.Equal(t, 9, runs[0].Points)
	})

	t.Run("once_stays_quiet", func(t *testing.T) {
		cfg := testConfig()
		cfg.RunNotify = config.RunNotifyOnce
		e := NewEngineWithClock(cfg, clockwork.NewFakeClock())
		sigs := e.Evaluate(scoreUpdate(events.SportNBA, 6, 0, 6, 0, 1, "9:00"))
		require.Len(t, runsOf(sigs), 1)

		sigs = e.Evaluate(scoreUpdate(events.SportNBA, 3, 0, 9, 0, 1, "8:30"))
		assert.Empty(t, runsOf(sigs), "already notified for this run")

		// Broken run, new threshold crossing notifies again.
		e.Evaluate(scoreUpdate(events.SportNBA, 0, 2, 9, 2, 1, "8:00"))
		sigs = e.Evaluate(scoreUpdate(events.SportNBA, 7, 0, 16, 2, 1, "7:00"))
		require.Len(t, runsOf(sigs), 1)
	})
}

func TestMomentumShareAndEviction(t *testing.T) {
	clock := clockwork.NewFakeClock()
	e := NewEngineWithClock(testConfig(), clock)

	sigs := e.Evaluate(scoreUpdate(events.SportNBA, 3, 0, 3, 0, 1, "10:00"))
	moms := momentumOf(sigs)
	require.Len(t, moms, 1)
	assert.InDelta(t, 1.0, moms[0].HomeShare, 0.001)

	clock.Advance(30 * time.Second)
	sigs = e.Evaluate(scoreUpdate(events.SportNBA, 0, 3, 3, 3, 1, "9:30"))
	moms = momentumOf(sigs)
	require.Len(t, moms, 1)
	assert.InDelta(t, 0.5, moms[0].HomeShare, 0.001)

	// Two minutes later the old home entry is outside the window.
	clock.Advance(2 * time.Minute)
	sigs = e.Evaluate(scoreUpdate(events.SportNBA, 0, 2, 3, 5, 1, "8:00"))
	moms = momentumOf(sigs)
	require.Len(t, moms, 1)
	assert.InDelta(t, 0.0, moms[0].HomeShare, 0.001, "only the fresh away points survive")
}

func TestMomentumAlwaysInUnitInterval(t *testing.T) {
	clock := clockwork.NewFakeClock()
	e := NewEngineWithClock(testConfig(), clock)

	deltas := [][2]int{{2, 0}, {0, 3}, {1, 0}, {0, 2}, {3, 3}}
	home, away := 0, 0
	for _, d := range deltas {
		home += d[0]
		away += d[1]
		clock.Advance(10 * time.Second)
		for _, m := range momentumOf(e.Evaluate(scoreUpdate(events.SportNBA, d[0], d[1], home, away, 1, "6:00"))) {
			assert.GreaterOrEqual(t, m.HomeShare, 0.0)
			assert.LessOrEqual(t, m.HomeShare, 1.0)
		}
	}
}

func TestNoMomentumWithoutScoring(t *testing.T) {
	e := NewEngineWithClock(testConfig(), clockwork.NewFakeClock())
	sigs := e.Evaluate(scoreUpdate(events.SportNBA, 0, 0, 10, 10, 2, "5:00"))
	assert.Empty(t, momentumOf(sigs))
}

func TestClutchLevelTriggered(t *testing.T) {
	e := NewEngineWithClock(testConfig(), clockwork.NewFakeClock())

	// period 4 of 4, 1:45 left, 88-90: clutch on.
	upd := scoreUpdate(events.SportNBA, 0, 0, 88, 90, 4, "1:45")
	sigs := e.Evaluate(upd)
	cls := clutchOf(sigs)
	require.Len(t, cls, 1)
	assert.True(t, cls[0].Active)

	// Same level again: no re-emission.
	sigs = e.Evaluate(upd)
	assert.Empty(t, clutchOf(sigs))

	// 2:05 left is outside the window: clutch off.
	sigs = e.Evaluate(scoreUpdate(events.SportNBA, 0, 0, 88, 90, 4, "2:05"))
	cls = clutchOf(sigs)
	require.Len(t, cls, 1)
	assert.False(t, cls[0].Active)
}

func TestClutchRules(t *testing.T) {
	tests := []struct {
		name   string
		sport  events.Sport
		status feed.GameStatus
		period int
		clock  string
		home   int
		away   int
		want   bool
	}{
		{"on_in_q4", events.SportNBA, feed.StatusLive, 4, "1:45", 88, 90, true},
		{"off_before_final_period", events.SportNBA, feed.StatusLive, 3, "1:00", 88, 90, false},
		{"off_blowout", events.SportNBA, feed.StatusLive, 4, "1:00", 100, 80, false},
		{"off_not_live", events.SportNBA, feed.StatusFinal, 4, "0:00", 88, 90, false},
		{"off_unparseable_clock", events.SportNBA, feed.StatusLive, 4, "??", 88, 90, false},
		{"halves_sport_second_half", events.SportNCAAMB, feed.StatusLive, 2, "1:30", 60, 58, true},
		{"halves_sport_first_half", events.SportNCAAMB, feed.StatusLive, 1, "1:30", 30, 28, false},
		{"on_in_overtime", events.SportNBA, feed.StatusLive, 5, "0:30", 100, 101, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			e := NewEngineWithClock(testConfig(), clockwork.NewFakeClock())
			upd := scoreUpdate(tt.sport, 0, 0, tt.home, tt.away, tt.period, tt.clock)
			upd.Next.Status = tt.status
			cls := clutchOf(e.Evaluate(upd))
			if tt.want {
				require.Len(t, cls, 1)
				assert.True(t, cls[0].Active)
			} else {
				assert.Empty(t, cls, "engine starts non-clutch; no transition expected")
			}
		})
	}
}

func TestFirstObservationEmitsNoRunOrMomentum(t *testing.T) {
	e := NewEngineWithClock(testConfig(), clockwork.NewFakeClock())

	upd := state.Update{
		Next: state.GameState{
			GameID: "g1", Sport: events.SportNBA, Status: feed.StatusLive,
			HomeScore: 40, AwayScore: 38, Period: 2, Clock: "3:00",
		},
		FirstObservation: true,
		History: []feed.PlayEvent{
			{EventID: 1, Period: 1, Clock: "10:00", Description: "makes a three-pointer", HomeScore: 3},
			{EventID: 2, Period: 1, Clock: "9:00", Description: "makes a layup", HomeScore: 3, AwayScore: 2},
		},
	}
	sigs := e.Evaluate(upd)

	assert.Empty(t, runsOf(sigs))
	assert.Empty(t, momentumOf(sigs))

	var pulses int
	for _, s := range sigs {
		if _, ok := s.(PulseSignal); ok {
			pulses++
		}
	}
	assert.Equal(t, 1, pulses, "history still builds the trend histogram")
}

func TestPlaySignalsClassifyNewEvents(t *testing.T) {
	e := NewEngineWithClock(testConfig(), clockwork.NewFakeClock())
	// Prime past the first observation.
	e.Evaluate(state.Update{FirstObservation: true, Next: state.GameState{Sport: events.SportNBA}})

	upd := scoreUpdate(events.SportNBA, 0, 0, 10, 10, 1, "7:00")
	upd.NewEvents = []feed.PlayEvent{
		{EventID: 3, Description: "blocks the shot", Clock: "7:00", Period: 1},
		{EventID: 4, Description: "makes a three-pointer", Clock: "6:50", Period: 1, HomeScore: 13},
	}
	sigs := e.Evaluate(upd)

	var plays []PlaySignal
	for _, s := range sigs {
		if p, ok := s.(PlaySignal); ok {
			plays = append(plays, p)
		}
	}
	require.Len(t, plays, 2)
	assert.True(t, plays[0].Gasp)
	assert.False(t, plays[1].Gasp)
}
