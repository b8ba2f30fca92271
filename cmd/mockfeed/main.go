// mockfeed simulates the upstream live-data server locally. It serves
// the polling API and the push WebSocket with scripted basketball games
// so the full engine pipeline can be exercised without a provider key.
//
// Usage:
//
//	go run cmd/mockfeed/main.go
//
// Then point the views at it (the defaults already match):
//
//	COURTSIDE_BASE_URL=http://localhost:8000
//	COURTSIDE_WS_URL=ws://localhost:8000/ws/live
package main

import (
	"encoding/json"
	"fmt"
	"math/rand"
	"net/http"
	"os"
	"strings"
	"sync"
	"time"

	"github.com/gorilla/websocket"

	"github.com/courtside/courtside/internal/events"
	"github.com/courtside/courtside/internal/feed"
)

const listenAddr = ":8000"

var upgrader = websocket.Upgrader{
	CheckOrigin: func(_ *http.Request) bool { return true },
}

type mockGame struct {
	mu        sync.Mutex
	id        string
	sport     events.Sport
	home      string
	away      string
	homeScore int
	awayScore int
	period    int
	clockSecs int
	status    feed.GameStatus
	nextEID   int
	pbp       []feed.PlayEvent
}

var games = []*mockGame{
	newGame("nba-sas-det-20260223", events.SportNBA, "Detroit Pistons", "San Antonio Spurs"),
	newGame("nba-sac-mem-20260223", events.SportNBA, "Memphis Grizzlies", "Sacramento Kings"),
	newGame("ncaamb-lou-unc-20260223", events.SportNCAAMB, "North Carolina Tar Heels", "Louisville Cardinals"),
}

func newGame(id string, sport events.Sport, home, away string) *mockGame {
	return &mockGame{
		id: id, sport: sport, home: home, away: away,
		period: 1, clockSecs: 12 * 60, status: feed.StatusLive, nextEID: 1,
	}
}

var scoringScript = []struct {
	desc   string
	points int
}{
	{"%s makes a driving layup", 2},
	{"%s makes a three-point jumper", 3},
	{"%s throws down a dunk", 2},
	{"%s makes free throw 1 of 2", 1},
	{"%s makes a hook shot", 2},
	{"%s tips in the miss", 2},
}

var nonScoringScript = []string{
	"%s blocks the shot",
	"%s steals the ball",
	"%s misses the shot",
	"%s commits a personal foul",
}

func main() {
	mux := http.NewServeMux()
	mux.HandleFunc("/api/game/", handleGame)
	mux.HandleFunc("/api/scoreboard", handleScoreboard)
	mux.HandleFunc("/ws/live", handleWS)

	fmt.Fprintf(os.Stderr, "mockfeed listening on %s\n", listenAddr)
	fmt.Fprintf(os.Stderr, "  API: http://localhost%s/api/scoreboard\n", listenAddr)
	fmt.Fprintf(os.Stderr, "  WS:  ws://localhost%s/ws/live\n", listenAddr)

	go tickGames()

	if err := http.ListenAndServe(listenAddr, mux); err != nil {
		fmt.Fprintf(os.Stderr, "server: %v\n", err)
		os.Exit(1)
	}
}

// tickGames advances every live game roughly in real time: the clock
// runs fast, plays land every few ticks, periods roll over, and the
// game finals after regulation.
func tickGames() {
	ticker := time.NewTicker(1 * time.Second)
	defer ticker.Stop()

	for range ticker.C {
		for _, g := range games {
			g.advance()
		}
	}
}

func (g *mockGame) advance() {
	g.mu.Lock()
	defer g.mu.Unlock()

	if g.status != feed.StatusLive {
		return
	}

	g.clockSecs -= 5 + rand.Intn(10)
	if g.clockSecs <= 0 {
		if g.period >= g.sport.RegulationPeriods() && g.homeScore != g.awayScore {
			g.status = feed.StatusFinal
			g.clockSecs = 0
			return
		}
		g.period++
		g.clockSecs = 12 * 60
		if g.sport == events.SportNCAAMB {
			g.clockSecs = 20 * 60
		}
	}

	if rand.Intn(3) != 0 {
		return
	}

	homeSide := rand.Intn(2) == 0
	team := g.home
	if !homeSide {
		team = g.away
	}

	var desc string
	if rand.Intn(4) == 0 {
		desc = fmt.Sprintf(nonScoringScript[rand.Intn(len(nonScoringScript))], team)
	} else {
		play := scoringScript[rand.Intn(len(scoringScript))]
		desc = fmt.Sprintf(play.desc, team)
		if homeSide {
			g.homeScore += play.points
		} else {
			g.awayScore += play.points
		}
	}

	g.pbp = append(g.pbp, feed.PlayEvent{
		EventID:     g.nextEID,
		Period:      g.period,
		Clock:       g.clock(),
		Team:        team,
		Description: desc,
		HomeScore:   g.homeScore,
		AwayScore:   g.awayScore,
	})
	g.nextEID++
}

func (g *mockGame) clock() string {
	return fmt.Sprintf("%d:%02d", g.clockSecs/60, g.clockSecs%60)
}

func (g *mockGame) detail() *feed.GameDetail {
	g.mu.Lock()
	defer g.mu.Unlock()

	pbp := make([]feed.PlayEvent, len(g.pbp))
	copy(pbp, g.pbp)
	return &feed.GameDetail{
		Summary: feed.Summary{
			HomeScore: g.homeScore,
			AwayScore: g.awayScore,
			Period:    g.period,
			Clock:     g.clock(),
			Status:    g.status,
			Sport:     g.sport,
		},
		PlayByPlay: pbp,
	}
}

func (g *mockGame) line() feed.GameLine {
	g.mu.Lock()
	defer g.mu.Unlock()

	return feed.GameLine{
		GameID:    g.id,
		HomeScore: g.homeScore,
		AwayScore: g.awayScore,
		Period:    g.period,
		Clock:     g.clock(),
		Status:    g.status,
		Sport:     g.sport,
	}
}

func findGame(id string) *mockGame {
	for _, g := range games {
		if g.id == id {
			return g
		}
	}
	return nil
}

func board(sport string) feed.Scoreboard {
	var b feed.Scoreboard
	for _, g := range games {
		if sport != "" && sport != "all" && string(g.sport) != sport {
			continue
		}
		b.Games = append(b.Games, g.line())
	}
	return b
}

// ── HTTP API ───────────────────────────────────────────────────────

func handleGame(w http.ResponseWriter, r *http.Request) {
	id := strings.TrimPrefix(r.URL.Path, "/api/game/")
	g := findGame(id)
	if g == nil {
		http.Error(w, "game not found", http.StatusNotFound)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(g.detail())
}

func handleScoreboard(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(board(r.URL.Query().Get("sport")))
}

// ── Push WebSocket ─────────────────────────────────────────────────

func handleWS(w http.ResponseWriter, r *http.Request) {
	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		return
	}
	defer conn.Close()

	fmt.Fprintf(os.Stderr, "ws client connected\n")

	var mu sync.Mutex
	topics := make(map[string]bool)

	// Reader: collect subscription topics.
	go func() {
		for {
			var msg feed.SubscribeMsg
			if err := conn.ReadJSON(&msg); err != nil {
				return
			}
			if msg.Type == feed.MsgSubscribe && msg.Topic != "" {
				mu.Lock()
				topics[msg.Topic] = true
				mu.Unlock()
			}
		}
	}()

	ticker := time.NewTicker(1 * time.Second)
	defer ticker.Stop()

	for range ticker.C {
		mu.Lock()
		subscribed := make([]string, 0, len(topics))
		for t := range topics {
			subscribed = append(subscribed, t)
		}
		mu.Unlock()

		for _, topic := range subscribed {
			var msg feed.PushMsg
			switch {
			case topic == feed.TopicScoreboard:
				msg = feed.PushMsg{Type: feed.MsgScoreboard, Games: board("all").Games}
			case strings.HasPrefix(topic, "game:"):
				g := findGame(strings.TrimPrefix(topic, "game:"))
				if g == nil {
					continue
				}
				msg = feed.PushMsg{Type: feed.MsgGameUpdate, GameID: g.id, Data: g.detail()}
			default:
				continue
			}
			if err := conn.WriteJSON(msg); err != nil {
				fmt.Fprintf(os.Stderr, "ws write error: %v\n", err)
				return
			}
		}
	}
}
