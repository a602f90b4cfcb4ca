package anticheat

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strconv"
	"sync"
	"time"

	"github.com/okian/deckcheck/internal/domain/enrich"
	"github.com/okian/deckcheck/internal/domain/model"
	"github.com/okian/deckcheck/internal/domain/types"
	"github.com/okian/deckcheck/pkg/logger"
)

// AreWeAntiCheatYet publishes its whole dataset as one JSON file.
const (
	defaultDatasetURL  = "https://raw.githubusercontent.com/AreWeAntiCheatYet/AreWeAntiCheatYet/master/games.json"
	defaultHTTPTimeout = 30 * time.Second
)

// Client serves per-game anti-cheat statuses from the AreWeAntiCheatYet
// dataset. The dataset is fetched once per run, lazily, and indexed by
// Steam app id; individual lookups never hit the network after that.
// It implements enrich.AntiCheatSource.
type Client struct {
	datasetURL string
	httpClient *http.Client
	logger     logger.Logger

	mu    sync.RWMutex
	index map[model.AppID]types.AntiCheatStatus
}

// NewClient creates an AreWeAntiCheatYet client.
func NewClient(opts ...Option) *Client {
	c := &Client{
		datasetURL: defaultDatasetURL,
		httpClient: &http.Client{
			Timeout: defaultHTTPTimeout,
		},
		logger: logger.Get().Named("anticheat"),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// datasetEntry mirrors one game record in the published dataset.
type datasetEntry struct {
	StoreIDs map[string]string `json:"storeIds"`
	Status   string            `json:"status"`
}

// Status performs one logical lookup for the app. Games without a Steam
// store id in the dataset settle as enrich.ErrNotFound. A dataset fetch
// failure is an error for every in-flight lookup; a later retry
// re-attempts the fetch.
func (c *Client) Status(ctx context.Context, id model.AppID) (types.AntiCheatStatus, error) {
	if err := c.ensureIndex(ctx); err != nil {
		return types.AntiCheatUnknown, err
	}

	c.mu.RLock()
	status, ok := c.index[id]
	c.mu.RUnlock()
	if !ok {
		return types.AntiCheatUnknown, fmt.Errorf("app %s: %w", id, enrich.ErrNotFound)
	}
	return status, nil
}

// ensureIndex fetches and indexes the dataset on first use. The index is
// only installed on success, so a failed fetch can be retried.
func (c *Client) ensureIndex(ctx context.Context) error {
	c.mu.RLock()
	ready := c.index != nil
	c.mu.RUnlock()
	if ready {
		return nil
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	if c.index != nil {
		return nil
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.datasetURL, nil)
	if err != nil {
		return fmt.Errorf("create request: %w", err)
	}
	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("fetch dataset: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("dataset status %d", resp.StatusCode)
	}

	var records []datasetEntry
	if err := json.NewDecoder(resp.Body).Decode(&records); err != nil {
		return fmt.Errorf("decode dataset: %w", err)
	}

	index := make(map[model.AppID]types.AntiCheatStatus, len(records))
	for _, rec := range records {
		raw, ok := rec.StoreIDs["steam"]
		if !ok {
			continue
		}
		appID, err := strconv.ParseUint(raw, 10, 32)
		if err != nil {
			continue
		}
		// Statuses outside the known set (e.g. Broken) map to Unknown.
		status, _ := types.AntiCheatStatusFromString(rec.Status)
		index[model.AppID(appID)] = status
	}

	c.index = index
	c.logger.Info(ctx, "indexed anti-cheat dataset", logger.Int("games", len(index)))
	return nil
}
