package engine

import (
	"context"

	"github.com/courtside/courtside/internal/config"
	"github.com/courtside/courtside/internal/effects"
	"github.com/courtside/courtside/internal/feed"
	"github.com/courtside/courtside/internal/state"
	"github.com/courtside/courtside/internal/telemetry"
	"github.com/courtside/courtside/internal/transport"
)

// ScoreboardView synchronizes the multi-game list: N independent game
// lines behind one shared transport.
type ScoreboardView struct {
	tm      *transport.Manager
	rec     *state.ScoreboardReconciler
	surface effects.Surface

	done chan struct{}
}

// NewScoreboardView builds a list view. sport filters the poll endpoint
// ("all" for everything); the push channel sends the whole board either
// way.
func NewScoreboardView(cfg *config.Config, sport string, surface effects.Surface) *ScoreboardView {
	if surface == nil {
		surface = effects.NopSurface{}
	}

	client := feed.NewClient(cfg.BaseURL)
	poll := func(ctx context.Context) (transport.Payload, error) {
		b, err := client.FetchScoreboard(ctx, sport)
		if err != nil {
			return transport.Payload{}, err
		}
		return transport.Payload{Board: b}, nil
	}

	return &ScoreboardView{
		tm: transport.New(cfg.WSURL, []string{feed.TopicScoreboard}, poll,
			cfg.ScoreboardPollInterval, cfg.ReconnectDelay),
		rec:     state.NewScoreboardReconciler(),
		surface: surface,
		done:    make(chan struct{}),
	}
}

// Transport exposes the view's transport.
func (v *ScoreboardView) Transport() *transport.Manager { return v.tm }

// Line returns the held state for one game.
func (v *ScoreboardView) Line(gameID string) (feed.GameLine, bool) {
	return v.rec.Line(gameID)
}

func (v *ScoreboardView) Start() {
	v.tm.Start()
	go v.run()
}

func (v *ScoreboardView) Close() {
	v.tm.Close()
	<-v.done
}

func (v *ScoreboardView) run() {
	defer close(v.done)
	for p := range v.tm.Inbox() {
		if p.Board == nil {
			continue
		}
		v.apply(p.Board)
	}
}

// apply flashes score cells per game. Effects target one game's cell
// and never bleed into a neighbor's.
func (v *ScoreboardView) apply(board *feed.Scoreboard) {
	for _, upd := range v.rec.Apply(board) {
		if upd.HomeChanged {
			telemetry.Metrics.EffectsEmitted.Inc()
			v.surface.ShakeElement(upd.GameID + "/home-score")
		}
		if upd.AwayChanged {
			telemetry.Metrics.EffectsEmitted.Inc()
			v.surface.ShakeElement(upd.GameID + "/away-score")
		}
	}
}
