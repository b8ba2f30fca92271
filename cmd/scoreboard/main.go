// scoreboard runs the multi-game list view against the upstream feed.
//
// Usage:
//
//	go run cmd/scoreboard/main.go [sport|all]
package main

import (
	"os"
	"os/signal"
	"syscall"

	"github.com/courtside/courtside/internal/config"
	"github.com/courtside/courtside/internal/effects"
	"github.com/courtside/courtside/internal/engine"
	"github.com/courtside/courtside/internal/telemetry"
)

func main() {
	cfg := config.Load()
	telemetry.Init(telemetry.ParseLogLevel(cfg.LogLevel))

	sport := "all"
	if len(os.Args) > 1 {
		sport = os.Args[1]
	}

	telemetry.Infof("Starting scoreboard view (sport=%s)", sport)

	view := engine.NewScoreboardView(cfg, sport, effects.NewConsoleSurface("scoreboard"))
	view.Start()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	<-sigCh

	telemetry.Infof("Shutting down scoreboard...")
	view.Close()

	telemetry.Infof("Shutdown complete  payloads=%d  regressions=%d  effects=%d",
		telemetry.Metrics.PayloadsApplied.Value(),
		telemetry.Metrics.ScoreRegressions.Value(),
		telemetry.Metrics.EffectsEmitted.Value(),
	)
}
