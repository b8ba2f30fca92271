package effects

import (
	"fmt"

	"github.com/courtside/courtside/internal/derive"
	"github.com/courtside/courtside/internal/state"
	"github.com/courtside/courtside/internal/telemetry"
)

// Side accent colors, matching the site palette: home blue, away red.
const (
	HomeColor = "#3b82f6"
	AwayColor = "#ef4444"
)

// AmbientGasp is the category for the short block/steal crowd cue.
const AmbientGasp = "gasp"

// Dispatcher turns one reconciled update plus its derived signals into
// surface commands. Command order is fixed: attention goes to the
// scoreboard first (flash + shake + sound), then celebration (confetti),
// then information (run banner, momentum), then period buzzer, clutch
// level, ambient cues, and finally the trend histogram.
type Dispatcher struct {
	surface Surface
}

func New(surface Surface) *Dispatcher {
	if surface == nil {
		surface = NopSurface{}
	}
	return &Dispatcher{surface: surface}
}

func (d *Dispatcher) Dispatch(upd state.Update, signals []derive.Signal) {
	// First observation renders known history without fanfare: nothing
	// here happened while the viewer was watching.
	if !upd.FirstObservation {
		d.scoreEffects("home", upd.HomeDelta)
		d.scoreEffects("away", upd.AwayDelta)
	}

	for _, sig := range signals {
		if run, ok := sig.(derive.RunSignal); ok {
			d.emit(func() {
				d.surface.RunBanner(fmt.Sprintf("%d-0 RUN!", run.Points), sideColor(run.Side))
			})
		}
	}
	for _, sig := range signals {
		if m, ok := sig.(derive.MomentumSignal); ok {
			d.emit(func() { d.surface.MomentumShift(m.HomeShare) })
		}
	}

	// Exactly one buzzer per detected period boundary, never per score.
	if upd.PeriodChanged {
		d.emit(d.surface.PeriodBuzzer)
	}

	for _, sig := range signals {
		switch s := sig.(type) {
		case derive.ClutchSignal:
			d.emit(func() { d.surface.ClutchMode(s.Active) })
		case derive.PlaySignal:
			if s.Gasp {
				d.emit(func() { d.surface.AmbientSound(AmbientGasp) })
			}
		}
	}

	for _, sig := range signals {
		if p, ok := sig.(derive.PulseSignal); ok {
			d.emit(func() { d.surface.PulseTrend(p.Buckets) })
		}
	}
}

// scoreEffects emits the scoreboard-first command block for one side's
// positive delta.
func (d *Dispatcher) scoreEffects(side string, delta int) {
	if delta <= 0 {
		return
	}
	d.emit(func() { d.surface.ScreenFlash(sideColor(side)) })
	d.emit(func() { d.surface.ShakeElement(side + "-score") })
	d.emit(func() { d.surface.ScoringSound(scoringIntensity(delta)) })
	if delta >= 3 {
		d.emit(d.surface.ConfettiBurst)
	}
}

func (d *Dispatcher) emit(fn func()) {
	telemetry.Metrics.EffectsEmitted.Inc()
	fn()
}

func sideColor(side string) string {
	if side == "home" {
		return HomeColor
	}
	return AwayColor
}

// scoringIntensity maps a delta to crowd-roar volume: a three or better
// gets the full roar.
func scoringIntensity(delta int) float64 {
	if delta >= 3 {
		return 1.0
	}
	return 0.5
}
