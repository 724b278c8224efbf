// Package config provides configuration loading from YAML files.
package config

import (
	"os"
	"time"

	"github.com/cockroachdb/errors"
	"github.com/creasty/defaults"
	"github.com/go-playground/validator/v10"
	"gopkg.in/yaml.v3"
)

// Config represents the application configuration.
type Config struct {
	Model      ModelConfig      `yaml:"model"`
	Generation GenerationConfig `yaml:"generation"`
	Dataset    DatasetConfig    `yaml:"dataset"`
	Output     OutputConfig     `yaml:"output"`
	Pool       PoolConfig       `yaml:"pool"`
	Spotify    SpotifyConfig    `yaml:"spotify"`
}

// ModelConfig represents the chat model backend configuration.
type ModelConfig struct {
	APIKey  string `yaml:"api_key" validate:"required"`
	Name    string `yaml:"name" default:"gpt-4o" validate:"required"`
	BaseURL string `yaml:"base_url"`
}

// GenerationConfig represents conversation generation parameters.
type GenerationConfig struct {
	// TurnBudget caps the turns per conversation; 0 lets the selected
	// goal's target turn count decide.
	TurnBudget       int   `yaml:"turn_budget" default:"0" validate:"gte=0,lte=20"`
	Seed             int64 `yaml:"seed" default:"1"`
	TurnTimeoutSec   int   `yaml:"turn_timeout_sec" default:"120" validate:"gt=0,lte=600"`
	GoalTimeoutSec   int   `yaml:"goal_timeout_sec" default:"180" validate:"gt=0,lte=600"`
	UploadTimeoutSec int   `yaml:"upload_timeout_sec" default:"60" validate:"gt=0,lte=600"`
}

// TurnTimeout returns the per-turn call budget.
func (g GenerationConfig) TurnTimeout() time.Duration {
	return time.Duration(g.TurnTimeoutSec) * time.Second
}

// GoalTimeout returns the goal inference call budget.
func (g GenerationConfig) GoalTimeout() time.Duration {
	return time.Duration(g.GoalTimeoutSec) * time.Second
}

// UploadTimeout returns the per-artifact upload budget.
func (g GenerationConfig) UploadTimeout() time.Duration {
	return time.Duration(g.UploadTimeoutSec) * time.Second
}

// DatasetConfig represents the input dataset location.
type DatasetConfig struct {
	Dir          string `yaml:"dir" validate:"required"`
	ArtifactsDir string `yaml:"artifacts_dir"`
}

// OutputConfig represents where generated conversations are written.
type OutputConfig struct {
	Dir string `yaml:"dir" default:"output"`
}

// PoolConfig represents recommendation pool assembly.
type PoolConfig struct {
	// Size is the target pool size when providers are configured.
	Size int `yaml:"size" default:"10" validate:"gt=0,lte=100"`
	// Providers are tried in order; when empty, each user's pool track
	// IDs from the dataset are used directly.
	Providers []ProviderConfig `yaml:"providers"`
}

// ProviderConfig represents a single pool provider configuration.
type ProviderConfig struct {
	Type        string         `yaml:"type" validate:"required"`
	DisplayName string         `yaml:"display_name" validate:"required"`
	Settings    map[string]any `yaml:"settings" validate:"required"`
}

// SpotifyConfig represents Spotify API configuration. Only required when a
// spotify_playlist pool provider is configured.
type SpotifyConfig struct {
	ClientID     string `yaml:"client_id"`
	ClientSecret string `yaml:"client_secret"`
	Market       string `yaml:"market" validate:"omitempty,len=2" default:"JP"`
}

// Load loads configuration from a YAML file.
// Environment variables take precedence over file values for sensitive fields.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.Wrap(err, "failed to read config file")
	}

	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, errors.Wrap(err, "failed to parse config file")
	}

	// Override with environment variables
	cfg.overrideFromEnv()

	// Set defaults using creasty/defaults
	if err := defaults.Set(&cfg); err != nil {
		return nil, errors.Wrap(err, "failed to set defaults")
	}

	// Validate configuration
	if err := cfg.Validate(); err != nil {
		return nil, errors.Wrap(err, "config validation failed")
	}

	return &cfg, nil
}

// overrideFromEnv overrides config values with environment variables.
func (c *Config) overrideFromEnv() {
	if v := os.Getenv("OPENAI_API_KEY"); v != "" {
		c.Model.APIKey = v
	}
	if v := os.Getenv("OPENAI_BASE_URL"); v != "" {
		c.Model.BaseURL = v
	}
	if v := os.Getenv("SPOTIFY_CLIENT_ID"); v != "" {
		c.Spotify.ClientID = v
	}
	if v := os.Getenv("SPOTIFY_CLIENT_SECRET"); v != "" {
		c.Spotify.ClientSecret = v
	}
}

// Validate validates the configuration.
func (c *Config) Validate() error {
	validate := validator.New()
	if err := validate.Struct(c); err != nil {
		return errors.Wrap(err, "struct validation failed")
	}

	// Spotify credentials are only needed when a playlist provider is used.
	if c.usesSpotifyProvider() && (c.Spotify.ClientID == "" || c.Spotify.ClientSecret == "") {
		return errors.New("spotify_playlist provider configured but spotify credentials are missing")
	}

	return nil
}

func (c *Config) usesSpotifyProvider() bool {
	for _, p := range c.Pool.Providers {
		if p.Type == "spotify_playlist" {
			return true
		}
	}
	return false
}
