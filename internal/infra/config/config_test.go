package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const validYAML = `
model:
  api_key: test-api-key
  name: gpt-4o
generation:
  seed: 42
dataset:
  dir: testdata/dataset
`

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestLoad(t *testing.T) {
	cfg, err := Load(writeConfig(t, validYAML))
	require.NoError(t, err)

	assert.Equal(t, "test-api-key", cfg.Model.APIKey)
	assert.Equal(t, "gpt-4o", cfg.Model.Name)
	assert.Equal(t, int64(42), cfg.Generation.Seed)
	assert.Equal(t, "testdata/dataset", cfg.Dataset.Dir)

	// Defaults
	assert.Equal(t, 0, cfg.Generation.TurnBudget)
	assert.Equal(t, 120*time.Second, cfg.Generation.TurnTimeout())
	assert.Equal(t, 180*time.Second, cfg.Generation.GoalTimeout())
	assert.Equal(t, 60*time.Second, cfg.Generation.UploadTimeout())
	assert.Equal(t, "output", cfg.Output.Dir)
	assert.Equal(t, 10, cfg.Pool.Size)
	assert.Equal(t, "JP", cfg.Spotify.Market)
}

func TestLoad_EnvOverride(t *testing.T) {
	t.Setenv("OPENAI_API_KEY", "env-key")
	t.Setenv("OPENAI_BASE_URL", "https://proxy.example.com/v1")

	cfg, err := Load(writeConfig(t, validYAML))
	require.NoError(t, err)

	assert.Equal(t, "env-key", cfg.Model.APIKey)
	assert.Equal(t, "https://proxy.example.com/v1", cfg.Model.BaseURL)
}

func TestLoad_MissingFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "nope.yaml"))
	assert.Error(t, err)
}

func TestConfig_Validate(t *testing.T) {
	tests := []struct {
		name    string
		config  Config
		wantErr bool
		errMsg  string
	}{
		{
			name: "valid config",
			config: Config{
				Model:      ModelConfig{APIKey: "key", Name: "gpt-4o"},
				Generation: GenerationConfig{TurnTimeoutSec: 120, GoalTimeoutSec: 180, UploadTimeoutSec: 60},
				Dataset:    DatasetConfig{Dir: "data"},
				Pool:       PoolConfig{Size: 10},
				Spotify:    SpotifyConfig{Market: "JP"},
			},
			wantErr: false,
		},
		{
			name: "missing api key",
			config: Config{
				Model:      ModelConfig{Name: "gpt-4o"},
				Generation: GenerationConfig{TurnTimeoutSec: 120, GoalTimeoutSec: 180, UploadTimeoutSec: 60},
				Dataset:    DatasetConfig{Dir: "data"},
				Pool:       PoolConfig{Size: 10},
			},
			wantErr: true,
			errMsg:  "APIKey",
		},
		{
			name: "missing dataset dir",
			config: Config{
				Model:      ModelConfig{APIKey: "key", Name: "gpt-4o"},
				Generation: GenerationConfig{TurnTimeoutSec: 120, GoalTimeoutSec: 180, UploadTimeoutSec: 60},
				Pool:       PoolConfig{Size: 10},
			},
			wantErr: true,
			errMsg:  "Dir",
		},
		{
			name: "spotify provider without credentials",
			config: Config{
				Model:      ModelConfig{APIKey: "key", Name: "gpt-4o"},
				Generation: GenerationConfig{TurnTimeoutSec: 120, GoalTimeoutSec: 180, UploadTimeoutSec: 60},
				Dataset:    DatasetConfig{Dir: "data"},
				Pool: PoolConfig{
					Size: 10,
					Providers: []ProviderConfig{
						{
							Type:        "spotify_playlist",
							DisplayName: "Editorial playlist",
							Settings:    map[string]any{"playlist_url": "spotify:playlist:abc"},
						},
					},
				},
			},
			wantErr: true,
			errMsg:  "credentials",
		},
		{
			name: "turn budget out of range",
			config: Config{
				Model:      ModelConfig{APIKey: "key", Name: "gpt-4o"},
				Generation: GenerationConfig{TurnBudget: 50, TurnTimeoutSec: 120, GoalTimeoutSec: 180, UploadTimeoutSec: 60},
				Dataset:    DatasetConfig{Dir: "data"},
				Pool:       PoolConfig{Size: 10},
			},
			wantErr: true,
			errMsg:  "TurnBudget",
		},
		{
			name: "invalid market length",
			config: Config{
				Model:      ModelConfig{APIKey: "key", Name: "gpt-4o"},
				Generation: GenerationConfig{TurnTimeoutSec: 120, GoalTimeoutSec: 180, UploadTimeoutSec: 60},
				Dataset:    DatasetConfig{Dir: "data"},
				Pool:       PoolConfig{Size: 10},
				Spotify:    SpotifyConfig{Market: "JAPAN"},
			},
			wantErr: true,
			errMsg:  "Market",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.config.Validate()
			if tt.wantErr {
				require.Error(t, err)
				assert.Contains(t, err.Error(), tt.errMsg)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}
