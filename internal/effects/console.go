package effects

import (
	"strings"

	"github.com/courtside/courtside/internal/derive"
	"github.com/courtside/courtside/internal/telemetry"
)

// ConsoleSurface renders effect commands as terminal lines. It is the
// collaborator shipped with the headless engine; a browser front end
// would implement Surface against the DOM instead.
type ConsoleSurface struct {
	NopSurface
	label string
}

func NewConsoleSurface(label string) *ConsoleSurface {
	return &ConsoleSurface{label: label}
}

func (c *ConsoleSurface) ScreenFlash(color string) {
	telemetry.Plainf("[%s] ✨ flash %s", c.label, color)
}

func (c *ConsoleSurface) ShakeElement(target string) {
	telemetry.Plainf("[%s] 〜 shake %s", c.label, target)
}

func (c *ConsoleSurface) ConfettiBurst() {
	telemetry.Plainf("[%s] \U0001F389 confetti", c.label)
}

func (c *ConsoleSurface) RunBanner(text, color string) {
	telemetry.Plainf("[%s] \U0001F525 %s", c.label, text)
}

func (c *ConsoleSurface) ClutchMode(on bool) {
	if on {
		telemetry.Plainf("[%s] CLUTCH TIME", c.label)
	} else {
		telemetry.Plainf("[%s] clutch over", c.label)
	}
}

func (c *ConsoleSurface) PeriodBuzzer() {
	telemetry.Plainf("[%s] \U0001F6A8 BZZZZT end of period", c.label)
}

func (c *ConsoleSurface) ScoringSound(intensity float64) {
	roar := "crowd murmurs"
	if intensity >= 1.0 {
		roar = "CROWD ROARS"
	}
	telemetry.Plainf("[%s] \U0001F50A %s", c.label, roar)
}

func (c *ConsoleSurface) AmbientSound(category string) {
	telemetry.Plainf("[%s] \U0001F62E crowd %s", c.label, category)
}

func (c *ConsoleSurface) MomentumShift(homeShare float64) {
	// 20-cell momentum bar, home fills from the left.
	cells := int(homeShare*20 + 0.5)
	bar := strings.Repeat("▓", cells) + strings.Repeat("░", 20-cells)
	telemetry.Plainf("[%s] momentum %s %.0f%% home", c.label, bar, homeShare*100)
}

func (c *ConsoleSurface) PulseTrend(buckets []derive.Bucket) {
	if len(buckets) == 0 {
		return
	}
	var b strings.Builder
	for _, bk := range buckets {
		total := bk.Home + bk.Away
		switch {
		case total >= 8:
			b.WriteString("█")
		case total >= 4:
			b.WriteString("▅")
		default:
			b.WriteString("▂")
		}
	}
	telemetry.Plainf("[%s] pulse %s", c.label, b.String())
}
