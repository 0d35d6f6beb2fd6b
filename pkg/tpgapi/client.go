// Package tpgapi is a client for the travelpicsgame.com API.
package tpgapi

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/rotisserie/eris"
	"golang.org/x/time/rate"
)

const (
	// DefaultBaseURL is the production API host.
	DefaultBaseURL = "https://travelpicsgame.com"
	// MainGameID is the game number of the main TPG.
	MainGameID = 1

	userAgent = "github.com/travelpics/tpg"
)

// Round is one round as the API reports it.
type Round struct {
	// Number starts at 1 and increments across the whole game.
	Number    int     `json:"number"`
	Latitude  float64 `json:"latitude"`
	Longitude float64 `json:"longitude"`
	Water     bool    `json:"water"`
	Ongoing   bool    `json:"ongoing"`
	// Country is a two letter uppercase ISO 3166-1 code, or empty when
	// the round is not in any particular country.
	Country string `json:"country"`
	// Timestamps are stringified unix seconds, or null.
	StartTimestamp *string `json:"start_timestamp"`
	EndTimestamp   *string `json:"end_timestamp"`
	Season         int     `json:"season"`
	Game           int     `json:"game"`
}

// Submission is one submitted pic as the API reports it.
type Submission struct {
	ID        int     `json:"id"`
	Round     int     `json:"round"`
	Latitude  float64 `json:"latitude"`
	Longitude float64 `json:"longitude"`
	// Place starts at 1, or 0 while the round is still running.
	Place      int    `json:"place"`
	FiveK      bool   `json:"5k"`
	Antipode5K bool   `json:"antipode_5k"`
	// DiscordID is numeric upstream but opaque to us.
	DiscordID string `json:"discord_id"`
	IsTie     bool   `json:"is_tie"`
	Game      int    `json:"game"`
}

// Player maps a discord id to a display name.
type Player struct {
	DiscordID string  `json:"discord_id"`
	Name      string  `json:"name"`
	Username  *string `json:"username"`
}

// Game is one competition hosted on the site.
type Game struct {
	ID                 int    `json:"id"`
	Name               string `json:"name"`
	ServerID           string `json:"server_id"`
	SubmissionsChannel string `json:"submissions_channel"`
}

// Option configures the client.
type Option func(*Client)

// WithBaseURL points the client at a different host, mostly for tests.
func WithBaseURL(baseURL string) Option {
	return func(c *Client) { c.baseURL = baseURL }
}

// WithHTTPClient sets a custom HTTP client.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) { c.httpClient = hc }
}

// WithRateLimit sets the requests-per-second limit. The site is a
// hobby project; the default stays polite.
func WithRateLimit(rps float64) Option {
	return func(c *Client) { c.limiter = rate.NewLimiter(rate.Limit(rps), 1) }
}

// Client talks to the TPG API.
type Client struct {
	baseURL    string
	httpClient *http.Client
	limiter    *rate.Limiter
}

// New creates a Client with the given options.
func New(opts ...Option) *Client {
	c := &Client{
		baseURL:    DefaultBaseURL,
		httpClient: &http.Client{Timeout: 30 * time.Second},
		limiter:    rate.NewLimiter(2, 1),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

func (c *Client) getJSON(ctx context.Context, path string, out any) error {
	if err := c.limiter.Wait(ctx); err != nil {
		return eris.Wrap(err, "tpgapi: rate limit")
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+path, nil)
	if err != nil {
		return eris.Wrapf(err, "tpgapi: build request %s", path)
	}
	req.Header.Set("User-Agent", userAgent)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return eris.Wrapf(err, "tpgapi: get %s", path)
	}
	defer resp.Body.Close() //nolint:errcheck

	if resp.StatusCode != http.StatusOK {
		return eris.Errorf("tpgapi: %s returned status %d", path, resp.StatusCode)
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return eris.Wrapf(err, "tpgapi: read %s", path)
	}
	if err := json.Unmarshal(body, out); err != nil {
		return eris.Wrapf(err, "tpgapi: parse %s", path)
	}
	return nil
}

// Rounds lists every round of a game.
func (c *Client) Rounds(ctx context.Context, game int) ([]Round, error) {
	var rounds []Round
	err := c.getJSON(ctx, fmt.Sprintf("/api/v1/rounds/%d", game), &rounds)
	return rounds, err
}

// RoundSubmissions lists the submissions of one round.
func (c *Client) RoundSubmissions(ctx context.Context, game, round int) ([]Submission, error) {
	var subs []Submission
	err := c.getJSON(ctx, fmt.Sprintf("/api/v1/submissions/game/%d/round/%d", game, round), &subs)
	return subs, err
}

// Players lists every known player across all games.
func (c *Client) Players(ctx context.Context) ([]Player, error) {
	var players []Player
	err := c.getJSON(ctx, "/api/v1/players", &players)
	return players, err
}

// Games lists the competitions hosted on the site.
func (c *Client) Games(ctx context.Context) ([]Game, error) {
	var games []Game
	err := c.getJSON(ctx, "/api/v1/games", &games)
	return games, err
}
