package events

// ScoreChangeEvent is published when a reconciled update moves either
// score forward. Deltas are per side and never negative.
type ScoreChangeEvent struct {
	Side      string `json:"side"` // "home" or "away"
	Delta     int    `json:"delta"`
	HomeScore int    `json:"home_score"`
	AwayScore int    `json:"away_score"`
	Period    int    `json:"period"`
	Clock     string `json:"clock"`
}

// PeriodChangeEvent is published once per detected period boundary.
type PeriodChangeEvent struct {
	FromPeriod int `json:"from_period"`
	ToPeriod   int `json:"to_period"`
}

// GameFinishEvent is published when a game transitions to final.
type GameFinishEvent struct {
	HomeScore int `json:"home_score"`
	AwayScore int `json:"away_score"`
}

// ClutchChangeEvent is level-triggered: published on enter and on exit,
// never repeated while the level holds.
type ClutchChangeEvent struct {
	Active bool `json:"active"`
}

// RunExtendedEvent is published when an unanswered scoring run reaches
// or extends past the configured threshold.
type RunExtendedEvent struct {
	Side   string `json:"side"`
	Points int    `json:"points"`
}
