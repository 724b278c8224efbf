package poolsource

import (
	"context"
	"os"

	"github.com/bytedance/sonic"
	"github.com/cockroachdb/errors"
	"github.com/creasty/defaults"
	"github.com/go-playground/validator/v10"
	"github.com/mitchellh/mapstructure"
	zlog "github.com/rs/zerolog/log"

	"github.com/osa030/duetgen/internal/domain/track"
)

type JSONProviderConfig struct {
	Path string `yaml:"path" mapstructure:"path" validate:"required"`
}

type jsonTrack struct {
	ID        string   `json:"id"`
	Title     string   `json:"title"`
	Artist    string   `json:"artist"`
	Album     string   `json:"album"`
	Tags      []string `json:"tags"`
	Lyrics    string   `json:"lyrics"`
	AudioPath string   `json:"audio_path"`
	ImagePath string   `json:"image_path"`
}

// JSONProvider serves candidates from a static JSON track list on disk.
// The file is read once at construction.
type JSONProvider struct {
	tracks []track.Track
	config *JSONProviderConfig
}

// NewJSONProvider creates a JSONProvider from decoded provider settings.
func NewJSONProvider(settings map[string]any) (*JSONProvider, error) {
	var config JSONProviderConfig
	if err := mapstructure.Decode(settings, &config); err != nil {
		return nil, errors.Wrap(err, "failed to decode settings")
	}
	if err := defaults.Set(&config); err != nil {
		return nil, errors.Wrap(err, "failed to set defaults")
	}
	if err := validator.New().Struct(config); err != nil {
		zlog.Error().Msgf("json provider validation failed: %v", err)
		return nil, errors.Wrap(err, "validation failed")
	}

	data, err := os.ReadFile(config.Path)
	if err != nil {
		return nil, errors.Wrap(err, "failed to read track list")
	}
	var records []jsonTrack
	if err := sonic.Unmarshal(data, &records); err != nil {
		return nil, errors.Wrap(err, "failed to parse track list")
	}
	tracks := make([]track.Track, 0, len(records))
	for _, r := range records {
		tracks = append(tracks, track.Track{
			ID:        r.ID,
			Title:     r.Title,
			Artist:    r.Artist,
			Album:     r.Album,
			Tags:      r.Tags,
			Lyrics:    r.Lyrics,
			AudioPath: r.AudioPath,
			ImagePath: r.ImagePath,
		})
	}
	zlog.Debug().Msgf("json provider loaded: path=%s tracks=%d", config.Path, len(tracks))

	return &JSONProvider{tracks: tracks, config: &config}, nil
}

// Fetch returns up to count tracks from the list, skipping excluded IDs.
func (p *JSONProvider) Fetch(_ context.Context, count int, excludeIDs map[string]bool) ([]track.Track, error) {
	if count <= 0 {
		return []track.Track{}, nil
	}
	out := make([]track.Track, 0, count)
	for _, t := range p.tracks {
		if excludeIDs[t.ID] {
			continue
		}
		out = append(out, t)
		if len(out) == count {
			break
		}
	}
	return out, nil
}

// Name returns the provider name.
func (p *JSONProvider) Name() string {
	return "json"
}
