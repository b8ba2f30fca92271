// Package engine assembles one live view: a transport feeding a
// reconciler, a derived-metrics pass, and an effect dispatcher. All
// state mutation happens on the view's single goroutine draining the
// transport inbox, so the reconciler needs no locks — ordering
// correctness comes from the watermark and the regression guard, not
// mutual exclusion.
package engine

import (
	"context"
	"time"

	"github.com/jonboulle/clockwork"

	"github.com/courtside/courtside/internal/config"
	"github.com/courtside/courtside/internal/derive"
	"github.com/courtside/courtside/internal/effects"
	"github.com/courtside/courtside/internal/events"
	"github.com/courtside/courtside/internal/feed"
	"github.com/courtside/courtside/internal/state"
	"github.com/courtside/courtside/internal/telemetry"
	"github.com/courtside/courtside/internal/transport"
)

// GameView synchronizes one game's display state with the upstream.
type GameView struct {
	gameID string

	tm   *transport.Manager
	rec  *state.Reconciler
	drv  *derive.Engine
	disp *effects.Dispatcher
	bus  *events.Bus

	done chan struct{}
}

// NewGameView builds a view for a single game. surface may be nil for a
// headless run; bus may be nil when no auxiliary observers are wanted.
func NewGameView(cfg *config.Config, gameID string, sport events.Sport, surface effects.Surface, bus *events.Bus) *GameView {
	return newGameView(cfg, gameID, sport, surface, bus, clockwork.NewRealClock())
}

// NewGameViewFromStore is NewGameView with the reconciler taken from a
// shared store, so a process running several views can snapshot every
// tracked game in one place.
func NewGameViewFromStore(cfg *config.Config, store *state.Store, gameID string, sport events.Sport, surface effects.Surface, bus *events.Bus) *GameView {
	v := newGameView(cfg, gameID, sport, surface, bus, clockwork.NewRealClock())
	v.rec = store.GetOrCreate(gameID, sport)
	return v
}

func newGameView(cfg *config.Config, gameID string, sport events.Sport, surface effects.Surface, bus *events.Bus, clock clockwork.Clock) *GameView {
	if bus == nil {
		bus = events.NewBus()
	}

	client := feed.NewClient(cfg.BaseURL)
	poll := func(ctx context.Context) (transport.Payload, error) {
		d, err := client.FetchGame(ctx, gameID)
		if err != nil {
			return transport.Payload{}, err
		}
		return transport.Payload{GameID: gameID, Detail: d}, nil
	}

	return &GameView{
		gameID: gameID,
		tm: transport.New(cfg.WSURL, []string{feed.TopicGame(gameID)}, poll,
			cfg.GamePollInterval, cfg.ReconnectDelay),
		rec:  state.NewReconciler(gameID, sport),
		drv:  derive.NewEngineWithClock(cfg, clock),
		disp: effects.New(surface),
		bus:  bus,
		done: make(chan struct{}),
	}
}

// Transport exposes the view's transport, mainly for connection-state
// display and attaching an archive.
func (v *GameView) Transport() *transport.Manager { return v.tm }

// Bus exposes the view's event bus for auxiliary subscribers.
func (v *GameView) Bus() *events.Bus { return v.bus }

// State returns the current reconciled snapshot.
func (v *GameView) State() state.GameState { return v.rec.State() }

// Start connects the transport and begins draining its inbox.
func (v *GameView) Start() {
	v.tm.Start()
	telemetry.Metrics.ActiveGames.Inc()
	go v.run()
}

// Close tears the view down: transport timers and connection first, then
// the drain goroutine. Returns after the last payload is processed.
func (v *GameView) Close() {
	v.tm.Close()
	<-v.done
	telemetry.Metrics.ActiveGames.Dec()
}

func (v *GameView) run() {
	defer close(v.done)
	for p := range v.tm.Inbox() {
		if p.Detail == nil {
			continue
		}
		v.apply(p.Detail)
	}
}

func (v *GameView) apply(d *feed.GameDetail) {
	start := time.Now()
	upd, ok := v.rec.Apply(d)
	if !ok {
		return
	}

	signals := v.drv.Evaluate(upd)
	v.disp.Dispatch(upd, signals)
	v.publish(upd, signals)
	telemetry.Metrics.ApplyLatency.Record(time.Since(start))
}

// publish mirrors the update onto the event bus for observers that are
// not presentation surfaces (archives, logs, metrics dashboards).
func (v *GameView) publish(upd state.Update, signals []derive.Signal) {
	sport := upd.Next.Sport

	if upd.HomeDelta > 0 {
		v.publishEvent(events.EventScoreChange, sport, events.ScoreChangeEvent{
			Side: "home", Delta: upd.HomeDelta,
			HomeScore: upd.Next.HomeScore, AwayScore: upd.Next.AwayScore,
			Period: upd.Next.Period, Clock: upd.Next.Clock,
		})
	}
	if upd.AwayDelta > 0 {
		v.publishEvent(events.EventScoreChange, sport, events.ScoreChangeEvent{
			Side: "away", Delta: upd.AwayDelta,
			HomeScore: upd.Next.HomeScore, AwayScore: upd.Next.AwayScore,
			Period: upd.Next.Period, Clock: upd.Next.Clock,
		})
	}
	if upd.PeriodChanged {
		v.publishEvent(events.EventPeriodChange, sport, events.PeriodChangeEvent{
			FromPeriod: upd.Prev.Period, ToPeriod: upd.Next.Period,
		})
	}
	if upd.BecameFinal {
		v.publishEvent(events.EventGameFinish, sport, events.GameFinishEvent{
			HomeScore: upd.Next.HomeScore, AwayScore: upd.Next.AwayScore,
		})
	}

	for _, sig := range signals {
		switch s := sig.(type) {
		case derive.ClutchSignal:
			v.publishEvent(events.EventClutchChange, sport, events.ClutchChangeEvent{Active: s.Active})
		case derive.RunSignal:
			v.publishEvent(events.EventRunExtended, sport, events.RunExtendedEvent{Side: s.Side, Points: s.Points})
		}
	}
}

func (v *GameView) publishEvent(t events.EventType, sport events.Sport, payload any) {
	v.bus.Publish(events.Event{
		Type:    t,
		Sport:   sport,
		GameID:  v.gameID,
		Payload: payload,
	})
}
