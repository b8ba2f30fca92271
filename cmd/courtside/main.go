// courtside runs live game views against the upstream feed, rendering
// effects to the terminal.
//
// Usage:
//
//	go run cmd/courtside/main.go <game-id> [sport] [game-id...]
//
// Against the bundled mock feed:
//
//	go run cmd/mockfeed/main.go &
//	go run cmd/courtside/main.go nba-sas-det-20260223 nba
package main

import (
	"os"
	"os/signal"
	"syscall"

	"github.com/courtside/courtside/internal/archive"
	"github.com/courtside/courtside/internal/config"
	"github.com/courtside/courtside/internal/effects"
	"github.com/courtside/courtside/internal/engine"
	"github.com/courtside/courtside/internal/events"
	"github.com/courtside/courtside/internal/state"
	"github.com/courtside/courtside/internal/telemetry"
)

func main() {
	cfg := config.Load()
	telemetry.Init(telemetry.ParseLogLevel(cfg.LogLevel))

	if len(os.Args) < 2 {
		telemetry.Errorf("usage: courtside <game-id> [sport] [game-id...]")
		os.Exit(1)
	}
	gameIDs := []string{os.Args[1]}
	sport := events.SportNBA
	if len(os.Args) > 2 {
		sport = events.Sport(os.Args[2])
	}
	gameIDs = append(gameIDs, os.Args[3:]...)

	bus := events.NewBus()
	bus.Subscribe(events.EventScoreChange, func(e events.Event) error {
		if sc, ok := e.Payload.(events.ScoreChangeEvent); ok {
			telemetry.Infof("%s: %s +%d  (%d-%d, P%d %s)",
				e.GameID, sc.Side, sc.Delta, sc.AwayScore, sc.HomeScore, sc.Period, sc.Clock)
		}
		return nil
	})
	bus.Subscribe(events.EventGameFinish, func(e events.Event) error {
		if gf, ok := e.Payload.(events.GameFinishEvent); ok {
			telemetry.Infof("%s: FINAL %d-%d", e.GameID, gf.AwayScore, gf.HomeScore)
		}
		return nil
	})

	var arch *archive.Store
	if cfg.ArchivePath != "" {
		var err error
		arch, err = archive.Open(cfg.ArchivePath)
		if err != nil {
			telemetry.Errorf("archive: %v", err)
			os.Exit(1)
		}
		defer arch.Close()
	}

	store := state.NewStore()
	views := make([]*engine.GameView, 0, len(gameIDs))
	for _, id := range gameIDs {
		telemetry.Infof("Starting game view %s (%s)", id, sport)
		view := engine.NewGameViewFromStore(cfg, store, id, sport, effects.NewConsoleSurface(id), bus)
		if arch != nil {
			view.Transport().SetArchiver(arch)
		}
		view.Start()
		views = append(views, view)
	}

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	<-sigCh

	telemetry.Infof("Shutting down %d view(s)...", len(views))
	for _, view := range views {
		view.Close()
	}
	for _, gs := range store.States() {
		telemetry.Infof("%s: last seen %d-%d P%d %s (%s)",
			gs.GameID, gs.AwayScore, gs.HomeScore, gs.Period, gs.Clock, gs.Status)
	}

	telemetry.Infof("Shutdown complete  payloads=%d  new_events=%d  dupes=%d  regressions=%d  effects=%d",
		telemetry.Metrics.PayloadsApplied.Value(),
		telemetry.Metrics.NewEvents.Value(),
		telemetry.Metrics.DuplicateEvents.Value(),
		telemetry.Metrics.ScoreRegressions.Value(),
		telemetry.Metrics.EffectsEmitted.Value(),
	)
}
