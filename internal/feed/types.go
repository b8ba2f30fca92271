// Package feed defines the upstream wire shapes and the HTTP poll client.
// The same GameDetail shape arrives over both channels (push and poll),
// so nothing downstream needs to know which one delivered it.
package feed

import "github.com/courtside/courtside/internal/events"

// GameStatus is the lifecycle of a game as reported by the feed.
type GameStatus string

const (
	StatusScheduled GameStatus = "scheduled"
	StatusLive      GameStatus = "live"
	StatusFinal     GameStatus = "final"
)

// Summary is the per-game header block of a detail payload.
type Summary struct {
	HomeScore int          `json:"home_score"`
	AwayScore int          `json:"away_score"`
	Period    int          `json:"period"`
	Clock     string       `json:"clock"`
	Status    GameStatus   `json:"status"`
	Sport     events.Sport `json:"sport"`
}

// PlayEvent is one play-by-play row. EventID is monotonic per game and is
// the ordering key; arrival order is not.
type PlayEvent struct {
	EventID     int    `json:"event_id"`
	Period      int    `json:"period"`
	Clock       string `json:"clock"`
	Team        string `json:"team"`
	Description string `json:"description"`
	HomeScore   int    `json:"home_score"`
	AwayScore   int    `json:"away_score"`
}

// GameDetail is the single-game payload shape.
type GameDetail struct {
	Summary    Summary     `json:"summary"`
	PlayByPlay []PlayEvent `json:"play_by_play"`
}

// GameLine is one entry of the multi-game scoreboard payload.
type GameLine struct {
	GameID    string       `json:"game_id"`
	HomeScore int          `json:"home_score"`
	AwayScore int          `json:"away_score"`
	Period    int          `json:"period"`
	Clock     string       `json:"clock"`
	Status    GameStatus   `json:"status"`
	Sport     events.Sport `json:"sport"`
}

// Scoreboard is the multi-game list payload shape.
type Scoreboard struct {
	Games []GameLine `json:"games"`
}

// WS envelope message types. Unrecognized types are ignored.
const (
	MsgSubscribe  = "subscribe"
	MsgGameUpdate = "game_update"
	MsgScoreboard = "scoreboard"
)

// SubscribeMsg is sent by the client once per open connection per topic.
type SubscribeMsg struct {
	Type  string `json:"type"`
	Topic string `json:"topic"`
}

// PushMsg is the server → client envelope. Exactly one of Data or Games
// is set depending on Type.
type PushMsg struct {
	Type   string      `json:"type"`
	GameID string      `json:"game_id,omitempty"`
	Data   *GameDetail `json:"data,omitempty"`
	Games  []GameLine  `json:"games,omitempty"`
}

// TopicGame formats the per-game subscription topic.
func TopicGame(gameID string) string { return "game:" + gameID }

// TopicScoreboard is the multi-game subscription topic.
const TopicScoreboard = "scoreboard"
