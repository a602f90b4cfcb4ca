package steam

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"sort"
	"strconv"
	"time"

	"github.com/okian/deckcheck/internal/domain/model"
	"github.com/okian/deckcheck/pkg/logger"
	"github.com/okian/deckcheck/pkg/metrics"
)

// Steam Web API endpoints.
const (
	defaultBaseURL     = "https://api.steampowered.com"
	resolveVanityPath  = "/ISteamUser/ResolveVanityURL/v0001/"
	ownedGamesPath     = "/IPlayerService/GetOwnedGames/v0001/"
	defaultHTTPTimeout = 10 * time.Second
)

// Client talks to the Steam Web API.
type Client struct {
	apiKey     string
	baseURL    string
	httpClient *http.Client
	logger     logger.Logger
}

// NewClient creates a Steam API client.
func NewClient(apiKey string, opts ...Option) *Client {
	c := &Client{
		apiKey:  apiKey,
		baseURL: defaultBaseURL,
		httpClient: &http.Client{
			Timeout: defaultHTTPTimeout,
		},
		logger: logger.Get().Named("steam"),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// vanityResponse mirrors the ResolveVanityURL payload.
type vanityResponse struct {
	Response struct {
		SteamID string `json:"steamid"`
		Success int    `json:"success"`
	} `json:"response"`
}

// ResolveVanity resolves a vanity name into a canonical account id.
// Implements the identity resolver's VanityResolver capability.
func (c *Client) ResolveVanity(ctx context.Context, name string) (model.AccountID, error) {
	query := url.Values{}
	query.Set("key", c.apiKey)
	query.Set("vanityurl", name)

	var payload vanityResponse
	if err := c.get(ctx, resolveVanityPath, query, &payload); err != nil {
		return 0, err
	}

	if payload.Response.Success != 1 {
		return 0, fmt.Errorf("vanity %q: %w", name, ErrVanityNotFound)
	}
	id, err := strconv.ParseUint(payload.Response.SteamID, 10, 64)
	if err != nil {
		return 0, fmt.Errorf("parse steamid %q: %w", payload.Response.SteamID, ErrService)
	}
	return model.AccountID(id), nil
}

// ownedGamesResponse mirrors the GetOwnedGames payload. GameCount is a
// pointer so a private profile (empty response object) is
// distinguishable from a public account with zero games.
type ownedGamesResponse struct {
	Response struct {
		GameCount *int        `json:"game_count"`
		Games     []ownedGame `json:"games"`
	} `json:"response"`
}

type ownedGame struct {
	AppID           uint32 `json:"appid"`
	Name            string `json:"name"`
	PlaytimeForever int    `json:"playtime_forever"`
}

// OwnedGames retrieves the full owned-games list in one request, ordered
// by descending playtime. The upstream API returns the complete list in
// one response; no pagination. A transient failure here is fatal to the
// run, so there is no retry policy at this layer.
func (c *Client) OwnedGames(ctx context.Context, id model.AccountID) ([]model.LibraryEntry, error) {
	query := url.Values{}
	query.Set("key", c.apiKey)
	query.Set("steamid", id.String())
	query.Set("format", "json")
	query.Set("include_appinfo", "1")
	query.Set("include_played_free_games", "1")

	var payload ownedGamesResponse
	if err := c.get(ctx, ownedGamesPath, query, &payload); err != nil {
		return nil, err
	}

	if payload.Response.GameCount == nil && payload.Response.Games == nil {
		return nil, fmt.Errorf("account %s: %w", id, ErrPrivateProfile)
	}
	if len(payload.Response.Games) == 0 {
		return nil, fmt.Errorf("account %s: %w", id, ErrEmptyLibrary)
	}

	games := payload.Response.Games
	sort.SliceStable(games, func(i, j int) bool {
		return games[i].PlaytimeForever > games[j].PlaytimeForever
	})

	entries := make([]model.LibraryEntry, len(games))
	for i, g := range games {
		entries[i] = model.LibraryEntry{
			AppID:           model.AppID(g.AppID),
			Name:            g.Name,
			PlaytimeMinutes: g.PlaytimeForever,
		}
	}

	metrics.UpdateLibrarySize(len(entries))
	c.logger.Info(ctx, "fetched owned games",
		logger.String("account_id", id.String()),
		logger.Int("games", len(entries)),
	)
	return entries, nil
}

// get performs a GET request and decodes the JSON response.
func (c *Client) get(ctx context.Context, path string, query url.Values, result interface{}) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+path+"?"+query.Encode(), nil)
	if err != nil {
		return fmt.Errorf("create request: %w", err)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("%w: %w", ErrService, err)
	}
	defer resp.Body.Close()

	switch resp.StatusCode {
	case http.StatusOK:
	case http.StatusUnauthorized, http.StatusForbidden:
		return fmt.Errorf("status %d: %w", resp.StatusCode, ErrUnauthorized)
	default:
		return fmt.Errorf("%w: status %d", ErrService, resp.StatusCode)
	}

	if err := json.NewDecoder(resp.Body).Decode(result); err != nil {
		return fmt.Errorf("%w: decode response: %w", ErrService, err)
	}
	return nil
}
