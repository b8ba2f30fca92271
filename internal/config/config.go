package config

import (
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

// RunNotifyPolicy controls how often a scoring run re-announces itself.
type RunNotifyPolicy string

const (
	// RunNotifyEveryScore re-fires the run banner on every score that
	// extends a run past the threshold. Matches the behavior viewers see
	// on the live site.
	RunNotifyEveryScore RunNotifyPolicy = "every_score"
	// RunNotifyOnce fires the banner once per run and stays quiet until
	// the run is broken.
	RunNotifyOnce RunNotifyPolicy = "once"
)

type Config struct {
	// Upstream feed
	BaseURL string // e.g. "http://localhost:8000"
	WSURL   string // e.g. "ws://localhost:8000/ws/live"

	// Timing
	GamePollInterval       time.Duration
	ScoreboardPollInterval time.Duration
	ReconnectDelay         time.Duration

	// Derived signals
	RunThreshold    int
	RunNotify       RunNotifyPolicy
	MomentumWindow  time.Duration
	ClutchClockSecs float64
	ClutchMaxDiff   int

	// Raw payload archive (empty disables)
	ArchivePath string

	// Telemetry
	LogLevel string
}

func Load() *Config {
	_ = godotenv.Load()

	return &Config{
		BaseURL: envStr("COURTSIDE_BASE_URL", "http://localhost:8000"),
		WSURL:   envStr("COURTSIDE_WS_URL", "ws://localhost:8000/ws/live"),

		// The game view polls tighter than the scoreboard: a single game
		// page is where stale scores are most visible.
		GamePollInterval:       envDur("GAME_POLL_INTERVAL", 3*time.Second),
		ScoreboardPollInterval: envDur("SCOREBOARD_POLL_INTERVAL", 5*time.Second),
		ReconnectDelay:         envDur("WS_RECONNECT_DELAY", 3*time.Second),

		RunThreshold:    envInt("RUN_THRESHOLD", 6),
		RunNotify:       RunNotifyPolicy(envStr("RUN_NOTIFY_POLICY", string(RunNotifyEveryScore))),
		MomentumWindow:  envDur("MOMENTUM_WINDOW", 2*time.Minute),
		ClutchClockSecs: float64(envInt("CLUTCH_CLOCK_SECS", 120)),
		ClutchMaxDiff:   envInt("CLUTCH_MAX_DIFF", 10),

		ArchivePath: envStr("ARCHIVE_PATH", ""),

		LogLevel: envStr("LOG_LEVEL", "info"),
	}
}

func envStr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func envInt(key string, fallback int) int {
	if v := os.Getenv(key); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			return n
		}
	}
	return fallback
}

func envDur(key string, fallback time.Duration) time.Duration {
	if v := os.Getenv(key); v != "" {
		if d, err := time.ParseDuration(v); err == nil {
			return d
		}
	}
	return fallback
}
