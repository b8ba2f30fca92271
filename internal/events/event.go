package events

import "time"

type Sport string

const (
	SportNBA    Sport = "nba"
	SportWNBA   Sport = "wnba"
	SportNCAAMB Sport = "ncaamb"
)

// RegulationPeriods returns how many segments make up regulation play.
// College basketball uses halves; the pro leagues use quarters.
func (s Sport) RegulationPeriods() int {
	if s == SportNCAAMB {
		return 2
	}
	return 4
}

// Event is the envelope that flows through the event bus.
// Every engine-level happening (score change, period change, clutch
// transition, game finish) is wrapped in one.
type Event struct {
	ID        string
	Type      EventType
	Sport     Sport
	GameID    string
	Timestamp time.Time
	Payload   any
}

type EventType string

const (
	EventScoreChange  EventType = "score_change"
	EventPeriodChange EventType = "period_change"
	EventGameFinish   EventType = "game_finish"
	EventClutchChange EventType = "clutch_change"
	EventRunExtended  EventType = "run_extended"
)
