package artists

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/Hardrivetech/wavebeat/internal/shared"
	tu "github.com/Hardrivetech/wavebeat/internal/testing"
)

const artistBody = `{"artist":{"name":"Daft Punk","mbid":"056e4f3e","url":"https://www.last.fm/music/Daft+Punk","stats":{"listeners":"5000000","playcount":"300000000"},"bio":{"summary":"French electronic duo."},"tags":{"tag":[{"name":"electronic"},{"name":"house"}]},"similar":{"artist":[{"name":"Justice"}]}}}`

func TestDirectGateway(t *testing.T) {
	ctx := context.Background()

	t.Run("Successful Lookup", func(t *testing.T) {
		var gotQuery map[string]string
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			q := r.URL.Query()
			gotQuery = map[string]string{
				"method":  q.Get("method"),
				"artist":  q.Get("artist"),
				"api_key": q.Get("api_key"),
				"format":  q.Get("format"),
			}
			w.WriteHeader(http.StatusOK)
			w.Write([]byte(artistBody))
		}))
		defer server.Close()

		g := NewDirectGateway(server.URL, "secret-key", nil, shared.NewLogger(nil))
		info := g.GetArtistInfo(ctx, "Daft Punk")

		if info == nil {
			t.Fatal("expected artist info")
		}
		if info.Name != "Daft Punk" {
			t.Errorf("expected name 'Daft Punk', got %q", info.Name)
		}
		if len(info.Tags) != 2 || info.Tags[0] != "electronic" {
			t.Errorf("expected tags, got %v", info.Tags)
		}
		if info.Listeners != "5000000" {
			t.Errorf("expected listeners stat, got %q", info.Listeners)
		}

		// The direct strategy carries the key and method in the query string.
		if gotQuery["method"] != "artist.getinfo" || gotQuery["format"] != "json" {
			t.Errorf("expected getinfo JSON request, got %v", gotQuery)
		}
		if gotQuery["api_key"] != "secret-key" {
			t.Errorf("expected api_key in query, got %v", gotQuery)
		}
		if gotQuery["artist"] != "Daft Punk" {
			t.Errorf("expected artist in query, got %v", gotQuery)
		}
	})

	t.Run("Non-200 Yields Nil", func(t *testing.T) {
		for _, status := range []int{http.StatusBadRequest, http.StatusForbidden, http.StatusInternalServerError} {
			server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(status)
				w.Write([]byte(`{"error":"nope"}`))
			}))

			g := NewDirectGateway(server.URL, "secret-key", nil, shared.NewLogger(nil))
			if info := g.GetArtistInfo(ctx, "Daft Punk"); info != nil {
				t.Errorf("status %d: expected nil, got %+v", status, info)
			}
			server.Close()
		}
	})

	t.Run("Network Fault Yields Nil", func(t *testing.T) {
		client := &http.Client{Transport: tu.NewMockRoundTripper(nil, errors.New("connection refused"))}
		g := NewDirectGateway("http://example.invalid", "secret-key", client, shared.NewLogger(nil))

		if info := g.GetArtistInfo(ctx, "Daft Punk"); info != nil {
			t.Errorf("expected nil, got %+v", info)
		}
	})

	t.Run("Malformed Body Yields Nil", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusOK)
			w.Write([]byte("not json"))
		}))
		defer server.Close()

		g := NewDirectGateway(server.URL, "secret-key", nil, shared.NewLogger(nil))
		if info := g.GetArtistInfo(ctx, "Daft Punk"); info != nil {
			t.Errorf("expected nil, got %+v", info)
		}
	})

	t.Run("Provider Error Payload Yields Nil", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusOK)
			w.Write([]byte(`{"error":6,"message":"The artist you supplied could not be found"}`))
		}))
		defer server.Close()

		g := NewDirectGateway(server.URL, "secret-key", nil, shared.NewLogger(nil))
		if info := g.GetArtistInfo(ctx, "zzz-unknown"); info != nil {
			t.Errorf("expected nil, got %+v", info)
		}
	})

	t.Run("Missing Key Yields Nil", func(t *testing.T) {
		g := NewDirectGateway("http://example.invalid", "", nil, shared.NewLogger(nil))
		if info := g.GetArtistInfo(ctx, "Daft Punk"); info != nil {
			t.Errorf("expected nil, got %+v", info)
		}
	})
}

func TestProxiedGateway(t *testing.T) {
	ctx := context.Background()

	t.Run("Successful Lookup", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if r.URL.Path != "/api/artist" {
				t.Errorf("expected path /api/artist, got %s", r.URL.Path)
			}
			if r.URL.Query().Get("api_key") != "" {
				t.Error("proxied requests must not carry the key")
			}
			if r.URL.Query().Get("artist") != "Daft Punk" {
				t.Errorf("expected artist param, got %q", r.URL.Query().Get("artist"))
			}
			w.WriteHeader(http.StatusOK)
			w.Write([]byte(artistBody))
		}))
		defer server.Close()

		g := NewProxiedGateway(server.URL, nil, shared.NewLogger(nil))
		info := g.GetArtistInfo(ctx, "Daft Punk")

		if info == nil {
			t.Fatal("expected artist info")
		}
		if info.Name != "Daft Punk" {
			t.Errorf("expected name 'Daft Punk', got %q", info.Name)
		}
	})

	t.Run("Trailing Slash Base URL", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if r.URL.Path != "/api/artist" {
				t.Errorf("expected path /api/artist, got %s", r.URL.Path)
			}
			w.WriteHeader(http.StatusOK)
			w.Write([]byte(artistBody))
		}))
		defer server.Close()

		g := NewProxiedGateway(server.URL+"/", nil, shared.NewLogger(nil))
		if info := g.GetArtistInfo(ctx, "Daft Punk"); info == nil {
			t.Fatal("expected artist info")
		}
	})

	t.Run("Non-200 Yields Nil", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusInternalServerError)
			w.Write([]byte(`{"error":"Failed to fetch from Last.fm","details":"timeout"}`))
		}))
		defer server.Close()

		g := NewProxiedGateway(server.URL, nil, shared.NewLogger(nil))
		if info := g.GetArtistInfo(ctx, "Daft Punk"); info != nil {
			t.Errorf("expected nil, got %+v", info)
		}
	})

	t.Run("Network Fault Yields Nil", func(t *testing.T) {
		client := &http.Client{Transport: tu.NewMockRoundTripper(nil, errors.New("connection refused"))}
		g := NewProxiedGateway("http://example.invalid", client, shared.NewLogger(nil))

		if info := g.GetArtistInfo(ctx, "Daft Punk"); info != nil {
			t.Errorf("expected nil, got %+v", info)
		}
	})

	t.Run("Empty Name Yields Nil", func(t *testing.T) {
		g := NewProxiedGateway("http://example.invalid", nil, shared.NewLogger(nil))
		if info := g.GetArtistInfo(ctx, ""); info != nil {
			t.Errorf("expected nil, got %+v", info)
		}
	})
}

func TestDecodeArtist(t *testing.T) {
	t.Run("Minimal Artist", func(t *testing.T) {
		info := decodeArtist([]byte(`{"artist":{"name":"Daft Punk"}}`))
		if info == nil || info.Name != "Daft Punk" {
			t.Errorf("expected name-only artist, got %+v", info)
		}
	})

	t.Run("Missing Artist Object", func(t *testing.T) {
		if info := decodeArtist([]byte(`{}`)); info != nil {
			t.Errorf("expected nil, got %+v", info)
		}
	})
}
