// package artists resolves third-party artist metadata
//
// Two interchangeable strategies implement [Gateway]: [DirectGateway] calls
// the provider with the API key in the query string, [ProxiedGateway] calls
// the same-origin wavebeat proxy which holds the key server-side. Artist
// enrichment is non-critical, so every failure mode collapses to a nil
// result plus a logged diagnostic; callers never see an error.
package artists

import (
	"context"
	"encoding/json"
	"net/http"

	"golang.org/x/time/rate"
)

// Gateway resolves artist metadata by name.
type Gateway interface {
	// GetArtistInfo returns metadata for the named artist, or nil when the
	// artist is unknown or the fetch failed. The two are indistinguishable.
	GetArtistInfo(ctx context.Context, artistName string) *ArtistInfo

	// Name returns the strategy name for logging.
	Name() string
}

// ArtistInfo is the normalized artist metadata projection.
type ArtistInfo struct {
	Name      string
	MBID      string
	URL       string
	Listeners string
	Playcount string
	Summary   string
	Tags      []string
	Similar   []string
}

// wireArtist mirrors the provider's artist.getinfo JSON shape.
type wireArtist struct {
	Artist *struct {
		Name  string `json:"name"`
		MBID  string `json:"mbid"`
		URL   string `json:"url"`
		Stats struct {
			Listeners string `json:"listeners"`
			Playcount string `json:"playcount"`
		} `json:"stats"`
		Bio struct {
			Summary string `json:"summary"`
		} `json:"bio"`
		Tags struct {
			Tag []struct {
				Name string `json:"name"`
			} `json:"tag"`
		} `json:"tags"`
		Similar struct {
			Artist []struct {
				Name string `json:"name"`
			} `json:"artist"`
		} `json:"similar"`
	} `json:"artist"`
	Error   any    `json:"error"`
	Message string `json:"message"`
}

// decodeArtist normalizes a provider response body into an ArtistInfo.
// Returns nil for error payloads, missing artist objects or malformed JSON.
func decodeArtist(body []byte) *ArtistInfo {
	var wire wireArtist
	if err := json.Unmarshal(body, &wire); err != nil {
		return nil
	}
	if wire.Error != nil || wire.Artist == nil {
		return nil
	}

	info := &ArtistInfo{
		Name:      wire.Artist.Name,
		MBID:      wire.Artist.MBID,
		URL:       wire.Artist.URL,
		Listeners: wire.Artist.Stats.Listeners,
		Playcount: wire.Artist.Stats.Playcount,
		Summary:   wire.Artist.Bio.Summary,
	}
	for _, tag := range wire.Artist.Tags.Tag {
		info.Tags = append(info.Tags, tag.Name)
	}
	for _, similar := range wire.Artist.Similar.Artist {
		info.Similar = append(info.Similar, similar.Name)
	}
	return info
}

// newLimiter builds the request limiter both strategies share. Last.fm asks
// clients to stay under a handful of requests per second.
func newLimiter() *rate.Limiter {
	return rate.NewLimiter(rate.Limit(4), 4)
}

func defaultClient(client *http.Client) *http.Client {
	if client == nil {
		return http.DefaultClient
	}
	return client
}
