package server

import (
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"

	"github.com/Hardrivetech/wavebeat/internal/artists"
	"github.com/Hardrivetech/wavebeat/internal/shared"
	"github.com/charmbracelet/log"
)

// ArtistHandler serves GET /api/artist, forwarding artist.getinfo requests to
// the provider with the server-held API key attached.
//
// The provider's JSON payload is returned unmodified, success or provider
// error alike; only a missing query parameter (400) or an upstream fetch
// failure (500) produce proxy-shaped errors.
type ArtistHandler struct {
	upstreamURL string
	apiKey      string
	httpClient  *http.Client
	logger      *log.Logger
}

// NewArtistHandler creates an ArtistHandler. An empty upstreamURL selects the
// provider default.
func NewArtistHandler(upstreamURL, apiKey string, client *http.Client, logger *log.Logger) *ArtistHandler {
	if upstreamURL == "" {
		upstreamURL = artists.DefaultLastfmBaseURL
	}
	if client == nil {
		client = http.DefaultClient
	}
	if logger == nil {
		logger = shared.NewLogger(nil)
	}

	return &ArtistHandler{
		upstreamURL: upstreamURL,
		apiKey:      apiKey,
		httpClient:  client,
		logger:      logger,
	}
}

// Routes returns the path patterns this handler serves.
func (h *ArtistHandler) Routes() []string {
	return []string{"/api/artist"}
}

// ServeHTTP handles the artist lookup.
func (h *ArtistHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	artistName := r.URL.Query().Get("artist")
	if artistName == "" {
		writeError(w, http.StatusBadRequest, map[string]string{"error": "Artist name is required"})
		return
	}

	query := url.Values{}
	query.Set("method", "artist.getinfo")
	query.Set("artist", artistName)
	query.Set("api_key", h.apiKey)
	query.Set("format", "json")
	upstream := fmt.Sprintf("%s?%s", h.upstreamURL, query.Encode())

	req, err := http.NewRequestWithContext(r.Context(), http.MethodGet, upstream, nil)
	if err != nil {
		h.logger.Error("failed to build upstream request", "artist", artistName, "error", err)
		writeError(w, http.StatusInternalServerError, map[string]string{
			"error":   "Failed to fetch from Last.fm",
			"details": err.Error(),
		})
		return
	}

	resp, err := h.httpClient.Do(req)
	if err != nil {
		h.logger.Warn("upstream fetch failed", "artist", artistName, "error", err)
		writeError(w, http.StatusInternalServerError, map[string]string{
			"error":   "Failed to fetch from Last.fm",
			"details": err.Error(),
		})
		return
	}
	defer resp.Body.Close()

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(resp.StatusCode)
	if _, err := io.Copy(w, resp.Body); err != nil {
		h.logger.Warn("failed to relay upstream body", "artist", artistName, "error", err)
	}
}

func writeError(w http.ResponseWriter, status int, payload map[string]string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(payload)
}
