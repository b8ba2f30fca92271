package feed

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFetchGame(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/api/game/nba-2026-lal-bos", r.URL.Path)
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{
			"summary": {"home_score": 98, "away_score": 95, "period": 4, "clock": "1:45", "status": "live", "sport": "nba"},
			"play_by_play": [{"event_id": 120, "period": 4, "clock": "1:52", "description": "makes a three-pointer", "home_score": 98, "away_score": 95}]
		}`))
	}))
	defer srv.Close()

	c := NewClient(srv.URL)
	d, err := c.FetchGame(context.Background(), "nba-2026-lal-bos")
	require.NoError(t, err)
	assert.Equal(t, 98, d.Summary.HomeScore)
	assert.Equal(t, StatusLive, d.Summary.Status)
	require.Len(t, d.PlayByPlay, 1)
	assert.Equal(t, 120, d.PlayByPlay[0].EventID)
}

func TestFetchScoreboardSportFilter(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/api/scoreboard", r.URL.Path)
		assert.Equal(t, "wnba", r.URL.Query().Get("sport"))
		w.Write([]byte(`{"games": [{"game_id": "w1", "home_score": 40, "away_score": 44, "period": 2, "clock": "3:10", "status": "live", "sport": "wnba"}]}`))
	}))
	defer srv.Close()

	c := NewClient(srv.URL)
	b, err := c.FetchScoreboard(context.Background(), "wnba")
	require.NoError(t, err)
	require.Len(t, b.Games, 1)
	assert.Equal(t, "w1", b.Games[0].GameID)
}

func TestFetchScoreboardDefaultsToAll(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "all", r.URL.Query().Get("sport"))
		w.Write([]byte(`{"games": []}`))
	}))
	defer srv.Close()

	_, err := NewClient(srv.URL).FetchScoreboard(context.Background(), "")
	require.NoError(t, err)
}

func TestFetchGameServerError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "boom", http.StatusBadGateway)
	}))
	defer srv.Close()

	d, err := NewClient(srv.URL).FetchGame(context.Background(), "g1")
	assert.Nil(t, d)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "status 502")
}

func TestFetchGameBadJSON(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"summary": `))
	}))
	defer srv.Close()

	_, err := NewClient(srv.URL).FetchGame(context.Background(), "g1")
	require.Error(t, err)
}
