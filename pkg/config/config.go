// Package config loads runtime configuration. Values come from an optional
// YAML file and are then overridden by environment variables, so the program
// runs with no configuration at all against the default catalog address.
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"net/url"
	"os"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

// DefaultPath is read when no explicit path is given. A missing file at the
// default path is not an error.
const DefaultPath = "~/.bgm.yaml"

// Config holds all runtime configuration.
type Config struct {
	Catalog CatalogConfig `yaml:"catalog"`
	Spotify SpotifyConfig `yaml:"spotify"`
	Log     LogConfig     `yaml:"log"`

	// ListenAddr is where `bgm serve` listens.
	ListenAddr string `yaml:"listen_addr"`
}

// CatalogConfig describes how to reach the music catalog.
type CatalogConfig struct {
	BaseURL      string        `yaml:"base_url"`
	Timeout      time.Duration `yaml:"timeout"`
	Token        string        `yaml:"token"`
	ClientID     string        `yaml:"client_id"`
	ClientSecret string        `yaml:"client_secret"`
	TokenURL     string        `yaml:"token_url"`
}

// SpotifyConfig enables reference-song lookups when both fields are set.
type SpotifyConfig struct {
	ClientID     string `yaml:"client_id"`
	ClientSecret string `yaml:"client_secret"`
}

// Enabled reports whether Spotify credentials were supplied.
func (s SpotifyConfig) Enabled() bool {
	return s.ClientID != "" && s.ClientSecret != ""
}

// LogConfig controls logrus output.
type LogConfig struct {
	Level  string `yaml:"level"`
	Format string `yaml:"format"`
}

// Default returns the configuration used when nothing is set.
func Default() *Config {
	return &Config{
		Catalog: CatalogConfig{
			BaseURL: "http://localhost:3000/api/music",
			Timeout: 10 * time.Second,
		},
		Log:        LogConfig{Level: "info", Format: "text"},
		ListenAddr: ":4000",
	}
}

// Load reads path (or DefaultPath when path is empty), applies environment
// overrides and validates the result.
func Load(path string) (*Config, error) {
	cfg := Default()

	explicit := path != ""
	if !explicit {
		path = DefaultPath
	}
	expanded, err := expandHome(path)
	if err != nil {
		return nil, err
	}
	data, err := os.ReadFile(expanded)
	switch {
	case err == nil:
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("parse %s: %w", expanded, err)
		}
	case errors.Is(err, fs.ErrNotExist) && !explicit:
	default:
		return nil, fmt.Errorf("read config: %w", err)
	}

	if err := applyEnv(cfg, os.Getenv); err != nil {
		return nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// applyEnv overrides cfg with any environment variable that is set.
func applyEnv(cfg *Config, getenv func(string) string) error {
	str := func(key string, dst *string) {
		if v := getenv(key); v != "" {
			*dst = v
		}
	}
	str("MUSIC_API_URL", &cfg.Catalog.BaseURL)
	str("MUSIC_API_TOKEN", &cfg.Catalog.Token)
	str("MUSIC_API_CLIENT_ID", &cfg.Catalog.ClientID)
	str("MUSIC_API_CLIENT_SECRET", &cfg.Catalog.ClientSecret)
	str("MUSIC_API_TOKEN_URL", &cfg.Catalog.TokenURL)
	str("SPOTIFY_CLIENT_ID", &cfg.Spotify.ClientID)
	str("SPOTIFY_CLIENT_SECRET", &cfg.Spotify.ClientSecret)
	str("LOG_LEVEL", &cfg.Log.Level)
	str("LOG_FORMAT", &cfg.Log.Format)
	str("LISTEN_ADDR", &cfg.ListenAddr)
	if v := getenv("MUSIC_API_TIMEOUT"); v != "" {
		d, err := time.ParseDuration(v)
		if err != nil {
			return fmt.Errorf("MUSIC_API_TIMEOUT: %w", err)
		}
		cfg.Catalog.Timeout = d
	}
	return nil
}

// Validate reports the first invalid setting.
func (c *Config) Validate() error {
	u, err := url.Parse(c.Catalog.BaseURL)
	if err != nil || (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
		return fmt.Errorf("catalog base_url %q must be an absolute http(s) URL", c.Catalog.BaseURL)
	}
	if c.Catalog.Timeout < 0 {
		return fmt.Errorf("catalog timeout must not be negative")
	}
	switch strings.ToLower(c.Log.Format) {
	case "text", "json":
	default:
		return fmt.Errorf("log format %q must be text or json", c.Log.Format)
	}
	return nil
}

func expandHome(path string) (string, error) {
	if !strings.HasPrefix(path, "~") {
		return path, nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return strings.Replace(path, "~", home, 1), nil
}
