package feed

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"time"

	"github.com/courtside/courtside/internal/telemetry"
)

// Client fetches game data over the HTTP polling API.
type Client struct {
	baseURL    string
	httpClient *http.Client
}

func NewClient(baseURL string) *Client {
	return &Client{
		baseURL: baseURL,
		httpClient: &http.Client{
			Timeout: 10 * time.Second,
		},
	}
}

// FetchGame returns the detail payload for one game.
func (c *Client) FetchGame(ctx context.Context, gameID string) (*GameDetail, error) {
	var detail GameDetail
	if err := c.fetchJSON(ctx, c.baseURL+"/api/game/"+url.PathEscape(gameID), &detail); err != nil {
		return nil, fmt.Errorf("fetch game %s: %w", gameID, err)
	}
	return &detail, nil
}

// FetchScoreboard returns the games list, optionally filtered by sport
// ("all" or empty returns everything).
func (c *Client) FetchScoreboard(ctx context.Context, sport string) (*Scoreboard, error) {
	if sport == "" {
		sport = "all"
	}
	var board Scoreboard
	u := c.baseURL + "/api/scoreboard?sport=" + url.QueryEscape(sport)
	if err := c.fetchJSON(ctx, u, &board); err != nil {
		return nil, fmt.Errorf("fetch scoreboard: %w", err)
	}
	return &board, nil
}

func (c *Client) fetchJSON(ctx context.Context, url string, out any) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return fmt.Errorf("new request: %w", err)
	}

	start := time.Now()
	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("http get: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return fmt.Errorf("status %d", resp.StatusCode)
	}

	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("json decode: %w", err)
	}

	telemetry.Debugf("feed: GET %s -> %d (%s)", url, resp.StatusCode, time.Since(start))
	return nil
}
