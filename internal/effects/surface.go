// Package effects translates reconciled deltas and derived signals into
// ordered effect commands for presentation collaborators.
package effects

import "github.com/courtside/courtside/internal/derive"

// Surface is the collaborator interface the dispatcher drives. Rendering
// and audio live behind it; implementations are free to no-op any call
// whose target does not exist on their medium.
type Surface interface {
	ScreenFlash(color string)
	ShakeElement(target string)
	ConfettiBurst()
	RunBanner(text, color string)
	ClutchMode(on bool)
	PeriodBuzzer()
	ScoringSound(intensity float64)
	AmbientSound(category string)
	MomentumShift(homeShare float64)
	PulseTrend(buckets []derive.Bucket)
}

// NopSurface discards every command. Useful as a default and for
// embedding in partial implementations.
type NopSurface struct{}

func (NopSurface) ScreenFlash(string)          {}
func (NopSurface) ShakeElement(string)         {}
func (NopSurface) ConfettiBurst()              {}
func (NopSurface) RunBanner(string, string)    {}
func (NopSurface) ClutchMode(bool)             {}
func (NopSurface) PeriodBuzzer()               {}
func (NopSurface) ScoringSound(float64)        {}
func (NopSurface) AmbientSound(string)         {}
func (NopSurface) MomentumShift(float64)       {}
func (NopSurface) PulseTrend([]derive.Bucket)  {}
