// Package transport owns the single logical connection to the upstream
// feed: a WebSocket push channel with an HTTP polling safety net. Both
// channels produce into one ordered inbox, so nothing downstream ever
// knows (or cares) which one delivered a payload.
package transport

import (
	"context"
	"encoding/json"
	"errors"
	"sync"
	"time"

	"github.com/gorilla/websocket"

	"github.com/courtside/courtside/internal/feed"
	"github.com/courtside/courtside/internal/telemetry"
)

// ConnectionState describes which channel is currently driving updates.
type ConnectionState int

const (
	Disconnected ConnectionState = iota
	Connecting
	Push
	PollingFallback
)

func (s ConnectionState) String() string {
	switch s {
	case Connecting:
		return "connecting"
	case Push:
		return "push"
	case PollingFallback:
		return "polling"
	default:
		return "disconnected"
	}
}

// Payload is one decoded update, from either channel. Exactly one of
// Detail or Board is set.
type Payload struct {
	GameID string
	Detail *feed.GameDetail
	Board  *feed.Scoreboard
}

func (p Payload) topic() string {
	if p.Detail != nil {
		return feed.TopicGame(p.GameID)
	}
	return feed.TopicScoreboard
}

// wireFrame re-encodes the payload in the push envelope shape, so
// archived rows replay uniformly no matter which channel delivered them.
func (p Payload) wireFrame() ([]byte, error) {
	switch {
	case p.Detail != nil:
		return json.Marshal(feed.PushMsg{Type: feed.MsgGameUpdate, GameID: p.GameID, Data: p.Detail})
	case p.Board != nil:
		return json.Marshal(feed.PushMsg{Type: feed.MsgScoreboard, Games: p.Board.Games})
	default:
		return nil, errors.New("empty payload")
	}
}

// PollFunc fetches the current payload over HTTP. Errors are swallowed
// and retried on the next tick.
type PollFunc func(ctx context.Context) (Payload, error)

// Archiver persists raw payloads for replay. Satisfied by
// *archive.Store; nil-safe implementations expected.
type Archiver interface {
	Insert(topic, origin string, raw []byte)
}

const inboxCap = 64

// Manager maintains at most one live push connection and at most one
// polling ticker at any time. Polling is suspended while push is
// healthy and resumes the moment it is not; it never stops being the
// safety net.
type Manager struct {
	wsURL          string
	topics         []string
	poll           PollFunc
	pollInterval   time.Duration
	reconnectDelay time.Duration
	readTimeout    time.Duration

	inbox chan Payload

	archiver Archiver

	mu         sync.Mutex
	state      ConnectionState
	pushActive bool

	ctx    context.Context
	cancel context.CancelFunc
	wg     sync.WaitGroup
	once   sync.Once
}

// New builds a Manager for the given subscription topics. Start must be
// called before the inbox produces anything.
func New(wsURL string, topics []string, poll PollFunc, pollInterval, reconnectDelay time.Duration) *Manager {
	ctx, cancel := context.WithCancel(context.Background())
	return &Manager{
		wsURL:          wsURL,
		topics:         topics,
		poll:           poll,
		pollInterval:   pollInterval,
		reconnectDelay: reconnectDelay,
		readTimeout:    90 * time.Second,
		inbox:          make(chan Payload, inboxCap),
		ctx:            ctx,
		cancel:         cancel,
	}
}

// SetArchiver attaches a raw-payload archive. Must be called before
// Start.
func (m *Manager) SetArchiver(a Archiver) { m.archiver = a }

// Inbox is the single ordered stream of decoded payloads.
func (m *Manager) Inbox() <-chan Payload { return m.inbox }

// State reports the current connection state.
func (m *Manager) State() ConnectionState {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.state
}

// Start launches the polling loop and the push connect loop. An
// immediate poll fetch warms the view before either channel settles.
func (m *Manager) Start() {
	m.wg.Add(2)
	go m.pollLoop()
	go m.connectLoop()
}

// Close tears the manager down: the poll ticker, any pending reconnect
// wait, and the live connection are all cancelled. No payload is
// delivered after Close returns.
func (m *Manager) Close() {
	m.once.Do(func() {
		m.cancel()
		m.wg.Wait()
		close(m.inbox)
	})
}

// ── Polling fallback ───────────────────────────────────────────────

// pollLoop is the only polling timer in the manager. Ticks are skipped
// (not stopped) while push is active, so failover back to polling is
// instant and can never double-start a ticker.
func (m *Manager) pollLoop() {
	defer m.wg.Done()

	m.pollOnce()

	ticker := time.NewTicker(m.pollInterval)
	defer ticker.Stop()

	for {
		select {
		case <-m.ctx.Done():
			return
		case <-ticker.C:
			if m.isPushActive() {
				continue
			}
			m.pollOnce()
		}
	}
}

func (m *Manager) pollOnce() {
	telemetry.Metrics.PollTicks.Inc()
	p, err := m.poll(m.ctx)
	if err != nil {
		// Soft failure: skip this tick, the next one self-heals.
		telemetry.Metrics.PollErrors.Inc()
		telemetry.Debugf("transport: poll failed: %v", err)
		return
	}
	if m.archiver != nil {
		if raw, err := p.wireFrame(); err == nil {
			m.archive(p.topic(), "poll", raw)
		}
	}
	m.deliver(p)
}

// ── Push channel ───────────────────────────────────────────────────

// connectLoop dials the push endpoint and re-dials after a fixed delay
// whenever the connection drops. The loop is sequential, so reconnect
// attempts cannot stack.
func (m *Manager) connectLoop() {
	defer m.wg.Done()

	for {
		if m.ctx.Err() != nil {
			return
		}

		err := m.connect()
		if m.ctx.Err() != nil {
			return
		}
		if err != nil {
			telemetry.Metrics.PushReconnects.Inc()
			telemetry.Warnf("transport: push connection lost: %v — retrying in %s", err, m.reconnectDelay)
		}

		select {
		case <-m.ctx.Done():
			return
		case <-time.After(m.reconnectDelay):
		}
	}
}

func (m *Manager) connect() error {
	m.setState(Connecting, false)

	conn, _, err := websocket.DefaultDialer.DialContext(m.ctx, m.wsURL, nil)
	if err != nil {
		m.setState(PollingFallback, false)
		return err
	}

	// Unblock ReadMessage promptly on Close.
	connCtx, connCancel := context.WithCancel(m.ctx)
	defer connCancel()
	go func() {
		<-connCtx.Done()
		conn.Close()
	}()

	for _, topic := range m.topics {
		sub := feed.SubscribeMsg{Type: feed.MsgSubscribe, Topic: topic}
		if err := conn.WriteJSON(sub); err != nil {
			m.setState(PollingFallback, false)
			return err
		}
	}

	m.setState(Push, true)
	telemetry.Infof("transport: push connected (%s), polling suspended", m.wsURL)

	defer m.setState(PollingFallback, false)

	conn.SetPingHandler(func(appData string) error {
		conn.SetReadDeadline(time.Now().Add(m.readTimeout))
		return conn.WriteControl(websocket.PongMessage, []byte(appData), time.Now().Add(5*time.Second))
	})

	for {
		if m.ctx.Err() != nil {
			return m.ctx.Err()
		}

		conn.SetReadDeadline(time.Now().Add(m.readTimeout))
		_, raw, err := conn.ReadMessage()
		if err != nil {
			return err
		}
		telemetry.Metrics.PushMessages.Inc()
		start := time.Now()
		m.handlePush(raw)
		telemetry.Metrics.PushLatency.Record(time.Since(start))
	}
}

// handlePush decodes one push frame. Malformed frames and unknown
// message types are dropped without touching connection state.
func (m *Manager) handlePush(raw []byte) {
	var msg feed.PushMsg
	if err := json.Unmarshal(raw, &msg); err != nil {
		telemetry.Metrics.PushParseErrors.Inc()
		telemetry.Debugf("transport: bad push frame: %v", err)
		return
	}

	switch msg.Type {
	case feed.MsgGameUpdate:
		if msg.Data == nil || !m.wantsGame(msg.GameID) {
			return
		}
		m.archive(feed.TopicGame(msg.GameID), "push", raw)
		m.deliver(Payload{GameID: msg.GameID, Detail: msg.Data})
	case feed.MsgScoreboard:
		if msg.Games == nil || !m.wantsTopic(feed.TopicScoreboard) {
			return
		}
		m.archive(feed.TopicScoreboard, "push", raw)
		m.deliver(Payload{Board: &feed.Scoreboard{Games: msg.Games}})
	default:
		telemetry.Debugf("transport: ignoring push type %q", msg.Type)
	}
}

func (m *Manager) archive(topic, origin string, raw []byte) {
	if m.archiver == nil {
		return
	}
	m.archiver.Insert(topic, origin, raw)
}

func (m *Manager) wantsGame(gameID string) bool {
	return m.wantsTopic(feed.TopicGame(gameID))
}

func (m *Manager) wantsTopic(topic string) bool {
	for _, t := range m.topics {
		if t == topic {
			return true
		}
	}
	return false
}

func (m *Manager) deliver(p Payload) {
	select {
	case m.inbox <- p:
	case <-m.ctx.Done():
	}
}

func (m *Manager) isPushActive() bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.pushActive
}

func (m *Manager) setState(s ConnectionState, pushActive bool) {
	m.mu.Lock()
	m.state = s
	m.pushActive = pushActive
	m.mu.Unlock()
}
