package artists

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"

	"github.com/Hardrivetech/wavebeat/internal/shared"
	"github.com/charmbracelet/log"
	"golang.org/x/time/rate"
)

// DefaultLastfmBaseURL is the provider endpoint for the direct strategy.
const DefaultLastfmBaseURL = "https://ws.audioscrobbler.com/2.0/"

// DirectGateway calls the provider directly with the API key embedded in the
// query string. The key is exposed to whatever environment runs this code,
// so prefer [ProxiedGateway] from untrusted environments.
type DirectGateway struct {
	baseURL    string
	apiKey     string
	httpClient *http.Client
	limiter    *rate.Limiter
	logger     *log.Logger
}

// NewDirectGateway creates a direct-call gateway. An empty baseURL selects
// the provider default.
func NewDirectGateway(baseURL, apiKey string, client *http.Client, logger *log.Logger) *DirectGateway {
	if baseURL == "" {
		baseURL = DefaultLastfmBaseURL
	}
	if logger == nil {
		logger = shared.NewLogger(nil)
	}

	return &DirectGateway{
		baseURL:    baseURL,
		apiKey:     apiKey,
		httpClient: defaultClient(client),
		limiter:    newLimiter(),
		logger:     logger,
	}
}

// Name returns the strategy name.
func (g *DirectGateway) Name() string {
	return "direct"
}

// GetArtistInfo fetches artist.getinfo from the provider. Any failure yields
// nil with a logged diagnostic.
func (g *DirectGateway) GetArtistInfo(ctx context.Context, artistName string) *ArtistInfo {
	if artistName == "" {
		g.logger.Warn("artist lookup without a name")
		return nil
	}
	if g.apiKey == "" {
		g.logger.Error("artist lookup without an API key", "artist", artistName)
		return nil
	}

	if err := g.limiter.Wait(ctx); err != nil {
		g.logger.Warn("artist lookup cancelled while throttled", "artist", artistName, "error", err)
		return nil
	}

	query := url.Values{}
	query.Set("method", "artist.getinfo")
	query.Set("artist", artistName)
	query.Set("api_key", g.apiKey)
	query.Set("format", "json")
	apiURL := fmt.Sprintf("%s?%s", g.baseURL, query.Encode())

	body, ok := fetchBody(ctx, g.httpClient, g.logger, "direct", artistName, apiURL)
	if !ok {
		return nil
	}

	info := decodeArtist(body)
	if info == nil {
		g.logger.Warn("provider returned no artist", "artist", artistName)
	}
	return info
}

// fetchBody performs the GET shared by both strategies and returns the body
// only for a 2xx response.
func fetchBody(ctx context.Context, client *http.Client, logger *log.Logger, strategy, artistName, apiURL string) ([]byte, bool) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, apiURL, nil)
	if err != nil {
		logger.Warn("failed to build artist request", "strategy", strategy, "artist", artistName, "error", err)
		return nil, false
	}

	resp, err := client.Do(req)
	if err != nil {
		logger.Warn("artist request failed", "strategy", strategy, "artist", artistName, "error", err)
		return nil, false
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		logger.Warn("failed to read artist response", "strategy", strategy, "artist", artistName, "error", err)
		return nil, false
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		logger.Warn("artist request rejected", "strategy", strategy, "artist", artistName, "status", resp.StatusCode)
		return nil, false
	}

	return body, true
}
