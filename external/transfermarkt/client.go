// Package transfermarkt is the transfer-market API client: player search
// and profiles, competition club lists, and club rosters with the display
// strings (market value, height, dates) the normalizer parses.
package transfermarkt

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/dfirman/footscout/external/rest"
	"github.com/dfirman/footscout/internal/platform/logging"
)

const defaultBaseURL = "https://transfermarkt-api.vercel.app"

type ClientConfig struct {
	HTTPClient *http.Client
	BaseURL    string
	Timeout    time.Duration
	Logger     *logging.Logger
}

type Client struct {
	httpClient *http.Client
	baseURL    string
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

	return &Client{
		httpClient: httpClient,
		baseURL:    baseURL,
		logger:     logger,
	}
}

// SearchPlayers searches players by display name.
func (c *Client) SearchPlayers(ctx context.Context, name string) ([]byte, error) {
	return c.get(ctx, "/players/search/"+url.PathEscape(name), nil)
}

// PlayerProfile returns one player's profile document.
func (c *Client) PlayerProfile(ctx context.Context, playerID string) ([]byte, error) {
	return c.get(ctx, fmt.Sprintf("/players/%s/profile", url.PathEscape(playerID)), nil)
}

// PlayerStats returns one player's per-competition stat blocks.
func (c *Client) PlayerStats(ctx context.Context, playerID string) ([]byte, error) {
	return c.get(ctx, fmt.Sprintf("/players/%s/stats", url.PathEscape(playerID)), nil)
}

// CompetitionClubs returns the member clubs of a competition season.
func (c *Client) CompetitionClubs(ctx context.Context, competitionID, seasonID string) ([]byte, error) {
	return c.get(ctx, fmt.Sprintf("/competitions/%s/clubs", url.PathEscape(competitionID)), map[string]string{
		"season_id": seasonID,
	})
}

// ClubPlayers returns a club's roster snapshot for one season.
func (c *Client) ClubPlayers(ctx context.Context, clubID, seasonID string) ([]byte, error) {
	return c.get(ctx, fmt.Sprintf("/clubs/%s/players", url.PathEscape(clubID)), map[string]string{
		"season_id": seasonID,
	})
}

func (c *Client) get(ctx context.Context, path string, query map[string]string) ([]byte, error) {
	fullURL := c.baseURL + path
	raw, err := rest.Do(ctx, c.httpClient, fullURL, query)
	if err != nil {
		c.logger.WarnContext(ctx, "transfermarkt request failed", "url", fullURL, "error", err)
		return nil, err
	}
	return raw, nil
}
