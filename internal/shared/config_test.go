package shared

import (
	"os"
	"path/filepath"
	"testing"
)

func TestConfig(t *testing.T) {
	t.Run("DefaultConfig", func(t *testing.T) {
		config := DefaultConfig()

		if config.Credentials.Lastfm.Strategy != StrategyProxied {
			t.Errorf("expected default strategy %q, got %q", StrategyProxied, config.Credentials.Lastfm.Strategy)
		}
		if config.Server.Port != 8080 {
			t.Errorf("expected default port 8080, got %d", config.Server.Port)
		}
		if config.Database.Path == "" {
			t.Error("expected default database path to be set")
		}
	})

	t.Run("LoadConfig", func(t *testing.T) {
		t.Run("Valid File", func(t *testing.T) {
			path := filepath.Join(t.TempDir(), "config.toml")
			content := `
[credentials.lastfm]
api_key = "abc123"
strategy = "direct"

[database]
path = "test.db"

[server]
host = "127.0.0.1"
port = 9090
`
			if err := os.WriteFile(path, []byte(content), 0644); err != nil {
				t.Fatalf("failed to write config: %v", err)
			}

			config, err := LoadConfig(path)
			if err != nil {
				t.Fatalf("expected no error, got %v", err)
			}
			if config.Credentials.Lastfm.APIKey != "abc123" {
				t.Errorf("expected api_key 'abc123', got %q", config.Credentials.Lastfm.APIKey)
			}
			if config.Credentials.Lastfm.Strategy != StrategyDirect {
				t.Errorf("expected strategy 'direct', got %q", config.Credentials.Lastfm.Strategy)
			}
			if config.Server.Port != 9090 {
				t.Errorf("expected port 9090, got %d", config.Server.Port)
			}
		})

		t.Run("Environment Overrides Key", func(t *testing.T) {
			path := filepath.Join(t.TempDir(), "config.toml")
			content := "[credentials.lastfm]\napi_key = \"from-file\"\n"
			if err := os.WriteFile(path, []byte(content), 0644); err != nil {
				t.Fatalf("failed to write config: %v", err)
			}

			t.Setenv("LASTFM_API_KEY", "from-env")

			config, err := LoadConfig(path)
			if err != nil {
				t.Fatalf("expected no error, got %v", err)
			}
			if config.Credentials.Lastfm.APIKey != "from-env" {
				t.Errorf("expected env key to win, got %q", config.Credentials.Lastfm.APIKey)
			}
		})

		t.Run("Missing File", func(t *testing.T) {
			if _, err := LoadConfig(filepath.Join(t.TempDir(), "nope.toml")); err == nil {
				t.Error("expected error for missing file")
			}
		})

		t.Run("Malformed File", func(t *testing.T) {
			path := filepath.Join(t.TempDir(), "bad.toml")
			if err := os.WriteFile(path, []byte("not [valid toml"), 0644); err != nil {
				t.Fatalf("failed to write config: %v", err)
			}

			if _, err := LoadConfig(path); err == nil {
				t.Error("expected error for malformed file")
			}
		})
	})

	t.Run("CreateConfigFile", func(t *testing.T) {
		t.Run("Creates File", func(t *testing.T) {
			path := filepath.Join(t.TempDir(), "config.toml")

			if err := CreateConfigFile(path); err != nil {
				t.Fatalf("expected no error, got %v", err)
			}

			if _, err := LoadConfig(path); err != nil {
				t.Errorf("created file should parse: %v", err)
			}
		})

		t.Run("Refuses To Overwrite", func(t *testing.T) {
			path := filepath.Join(t.TempDir(), "config.toml")
			if err := os.WriteFile(path, []byte("# existing"), 0644); err != nil {
				t.Fatalf("failed to write file: %v", err)
			}

			if err := CreateConfigFile(path); err == nil {
				t.Error("expected error when file exists")
			}
		})
	})
}
