// Package fotmob is the match-data API client: leagues, fixtures, match
// details, player profiles, team profiles, and team-of-the-week rounds.
package fotmob

import (
	"context"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/dfirman/footscout/external/rest"
	"github.com/dfirman/footscout/internal/platform/logging"
)

const (
	defaultBaseURL  = "https://www.fotmob.com/api"
	defaultTimezone = "America/Los_Angeles"
)

type ClientConfig struct {
	HTTPClient *http.Client
	BaseURL    string
	Timezone   string
	Timeout    time.Duration
	Logger     *logging.Logger
}

type Client struct {
	httpClient *http.Client
	baseURL    string
	timezone   string
	logger     *logging.Logger
}

func NewClient(cfg ClientConfig) *Client {
	logger := cfg.Logger
	if logger == nil {
		logger = logging.Default()
	}

	httpClient := cfg.HTTPClient
	if httpClient == nil {
		httpClient = &http.Client{Timeout: cfg.Timeout}
	}
	if httpClient.Timeout <= 0 {
		httpClient.Timeout = 20 * time.Second
	}

	baseURL := strings.TrimRight(strings.TrimSpace(cfg.BaseURL), "/")
	if baseURL == "" {
		baseURL = defaultBaseURL
	}

	timezone := strings.TrimSpace(cfg.Timezone)
	if timezone == "" {
		timezone = defaultTimezone
	}

	return &Client{
		httpClient: httpClient,
		baseURL:    baseURL,
		timezone:   timezone,
		logger:     logger,
	}
}

// AllLeagues returns the full league directory (international + countries).
func (c *Client) AllLeagues(ctx context.Context) ([]byte, error) {
	return c.get(ctx, "/allLeagues", nil)
}

// League returns the league overview document: details, season list, stat
// links, and the table the team ids are read from.
func (c *Client) League(ctx context.Context, leagueID int64) ([]byte, error) {
	return c.get(ctx, "/leagues", map[string]string{
		"id":       strconv.FormatInt(leagueID, 10),
		"tab":      "overview",
		"type":     "league",
		"timeZone": c.timezone,
	})
}

// Fixtures returns the fixture list for one league season.
func (c *Client) Fixtures(ctx context.Context, leagueID int64, season string) ([]byte, error) {
	return c.get(ctx, "/fixtures", map[string]string{
		"id":     strconv.FormatInt(leagueID, 10),
		"season": season,
	})
}

// Match returns the detail document for one match.
func (c *Client) Match(ctx context.Context, matchID int64) ([]byte, error) {
	return c.get(ctx, "/matchDetails", map[string]string{
		"matchId": strconv.FormatInt(matchID, 10),
	})
}

// Player returns the raw playerData document the normalizer consumes.
func (c *Client) Player(ctx context.Context, playerID int64) ([]byte, error) {
	return c.get(ctx, "/playerData", map[string]string{
		"id": strconv.FormatInt(playerID, 10),
	})
}

// Team returns a team profile including transfers.
func (c *Client) Team(ctx context.Context, teamID int64) ([]byte, error) {
	return c.get(ctx, "/teams", map[string]string{
		"id": strconv.FormatInt(teamID, 10),
	})
}

// TOTWRounds fetches a team-of-the-week rounds list. The URL is absolute:
// the league document embeds full links per season rather than ids.
func (c *Client) TOTWRounds(ctx context.Context, link string) ([]byte, error) {
	return c.getAbsolute(ctx, link, nil)
}

// TOTWRound fetches one round's team, again via an embedded absolute link.
func (c *Client) TOTWRound(ctx context.Context, link string) ([]byte, error) {
	return c.getAbsolute(ctx, link, nil)
}

func (c *Client) get(ctx context.Context, path string, query map[string]string) ([]byte, error) {
	return c.getAbsolute(ctx, c.baseURL+path, query)
}

func (c *Client) getAbsolute(ctx context.Context, fullURL string, query map[string]string) ([]byte, error) {
	raw, err := rest.Do(ctx, c.httpClient, fullURL, query)
	if err != nil {
		c.logger.WarnContext(ctx, "fotmob request failed", "url", fullURL, "error", err)
		return nil, err
	}
	return raw, nil
}
