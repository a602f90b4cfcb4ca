package protondb

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/okian/deckcheck/internal/domain/enrich"
	"github.com/okian/deckcheck/internal/domain/model"
	"github.com/okian/deckcheck/internal/domain/types"
	"github.com/okian/deckcheck/pkg/logger"
)

// ProtonDB endpoint constants.
const (
	defaultBaseURL     = "https://www.protondb.com"
	summaryPathFormat  = "/api/v1/reports/summaries/%s.json"
	defaultHTTPTimeout = 10 * time.Second
)

// Client looks up per-game compatibility summaries on ProtonDB.
// It implements enrich.RatingSource.
type Client struct {
	baseURL    string
	httpClient *http.Client
	logger     logger.Logger
}

// NewClient creates a ProtonDB client.
func NewClient(opts ...Option) *Client {
	c := &Client{
		baseURL: defaultBaseURL,
		httpClient: &http.Client{
			Timeout: defaultHTTPTimeout,
		},
		logger: logger.Get().Named("protondb"),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// summaryResponse mirrors the report summary payload. Only the current
// tier is consumed.
type summaryResponse struct {
	Tier string `json:"tier"`
}

// Rating performs one logical lookup for the app. Games without a
// summary settle as enrich.ErrNotFound; everything else that is not a
// well-formed summary is an error for the orchestrator's retry policy.
func (c *Client) Rating(ctx context.Context, id model.AppID) (types.Tier, error) {
	url := c.baseURL + fmt.Sprintf(summaryPathFormat, id)
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return types.TierUnknown, fmt.Errorf("create request: %w", err)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return types.TierUnknown, fmt.Errorf("protondb request: %w", err)
	}
	defer resp.Body.Close()

	switch {
	case resp.StatusCode == http.StatusNotFound:
		return types.TierUnknown, fmt.Errorf("app %s: %w", id, enrich.ErrNotFound)
	case resp.StatusCode != http.StatusOK:
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return types.TierUnknown, fmt.Errorf("protondb status %d: %s", resp.StatusCode, body)
	}

	var payload summaryResponse
	if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
		return types.TierUnknown, fmt.Errorf("decode summary: %w", err)
	}
	if payload.Tier == "" {
		return types.TierUnknown, fmt.Errorf("app %s has no tier: %w", id, enrich.ErrNotFound)
	}

	tier, known := types.TierFromString(payload.Tier)
	if !known {
		// Tolerate new upstream tiers without failing the lookup.
		c.logger.Debug(ctx, "unrecognized tier",
			logger.String("app_id", id.String()),
			logger.String("tier", payload.Tier),
		)
	}
	return tier, nil
}
