package artists

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"strings"

	"github.com/Hardrivetech/wavebeat/internal/shared"
	"github.com/charmbracelet/log"
	"golang.org/x/time/rate"
)

const defaultProxyBaseURL = "http://localhost:8080"

// ProxiedGateway calls the same-origin wavebeat proxy, which holds the
// provider key server-side and forwards the provider's JSON unmodified.
// The key never reaches the environment running this code.
type ProxiedGateway struct {
	baseURL    string
	httpClient *http.Client
	limiter    *rate.Limiter
	logger     *log.Logger
}

// NewProxiedGateway creates a proxied-call gateway. An empty baseURL selects
// the local development proxy.
func NewProxiedGateway(baseURL string, client *http.Client, logger *log.Logger) *ProxiedGateway {
	if baseURL == "" {
		baseURL = defaultProxyBaseURL
	}
	baseURL = strings.TrimRight(baseURL, "/")
	if logger == nil {
		logger = shared.NewLogger(nil)
	}

	return &ProxiedGateway{
		baseURL:    baseURL,
		httpClient: defaultClient(client),
		limiter:    newLimiter(),
		logger:     logger,
	}
}

// Name returns the strategy name.
func (g *ProxiedGateway) Name() string {
	return "proxied"
}

// GetArtistInfo fetches artist metadata through the proxy. Any failure yields
// nil with a logged diagnostic.
func (g *ProxiedGateway) GetArtistInfo(ctx context.Context, artistName string) *ArtistInfo {
	if artistName == "" {
		g.logger.Warn("artist lookup without a name")
		return nil
	}

	if err := g.limiter.Wait(ctx); err != nil {
		g.logger.Warn("artist lookup cancelled while throttled", "artist", artistName, "error", err)
		return nil
	}

	apiURL := fmt.Sprintf("%s/api/artist?artist=%s", g.baseURL, url.QueryEscape(artistName))

	body, ok := fetchBody(ctx, g.httpClient, g.logger, "proxied", artistName, apiURL)
	if !ok {
		return nil
	}

	info := decodeArtist(body)
	if info == nil {
		g.logger.Warn("proxy returned no artist", "artist", artistName)
	}
	return info
}
