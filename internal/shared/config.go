package shared

import (
	_ "embed"
	"fmt"
	"os"

	"github.com/BurntSushi/toml"
)

//go:embed config.example.toml
var exampleConf []byte

// GatewayStrategy selects how artist metadata is fetched.
const (
	StrategyDirect  = "direct"  // caller holds the provider key and calls the provider
	StrategyProxied = "proxied" // caller goes through the same-origin proxy
)

// Config represents the application configuration loaded from a TOML file.
type Config struct {
	Credentials CredentialsConfig `toml:"credentials"`
	Database    DatabaseConfig    `toml:"database"`
	Server      ServerConfig      `toml:"server"`
}

// CredentialsConfig contains provider credentials and gateway selection.
type CredentialsConfig struct {
	Lastfm LastfmConfig `toml:"lastfm"`
}

// LastfmConfig contains Last.fm API settings.
//
// APIKey may also be supplied through the LASTFM_API_KEY environment
// variable, which takes precedence over the file value.
type LastfmConfig struct {
	APIKey   string `toml:"api_key"`
	Strategy string `toml:"strategy"` // "direct" or "proxied"
	ProxyURL string `toml:"proxy_url"`
}

// DatabaseConfig contains document store settings.
type DatabaseConfig struct {
	Path         string `toml:"path"`
	MaxOpenConns int    `toml:"max_open_conns"`
	MaxIdleConns int    `toml:"max_idle_conns"`
}

// ServerConfig contains proxy server settings.
type ServerConfig struct {
	Host string `toml:"host"`
	Port int    `toml:"port"`
}

// LoadConfig reads and parses a TOML configuration file from the specified path.
//
// The provider API key is overridden by LASTFM_API_KEY when set, so the key
// never has to live in a checked-in file.
func LoadConfig(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	var config Config
	if err := toml.Unmarshal(data, &config); err != nil {
		return nil, fmt.Errorf("failed to parse config: %w", err)
	}

	if key := os.Getenv("LASTFM_API_KEY"); key != "" {
		config.Credentials.Lastfm.APIKey = key
	}

	return &config, nil
}

// DefaultConfig returns a Config with defaults loaded from the embedded example config.
func DefaultConfig() *Config {
	var config Config
	if err := toml.Unmarshal(exampleConf, &config); err != nil {
		panic(fmt.Sprintf("failed to parse embedded default config: %v", err))
	}
	if key := os.Getenv("LASTFM_API_KEY"); key != "" {
		config.Credentials.Lastfm.APIKey = key
	}
	return &config
}

// CreateConfigFile creates a config.toml file at the specified path using the embedded example config.
func CreateConfigFile(path string) error {
	if _, err := os.Stat(path); err == nil {
		return fmt.Errorf("config file already exists at %s", path)
	}

	if err := os.WriteFile(path, exampleConf, 0644); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}

	return nil
}
