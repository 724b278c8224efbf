package poolsource

import (
	"context"

	"github.com/cockroachdb/errors"
	"github.com/creasty/defaults"
	"github.com/go-playground/validator/v10"
	"github.com/mitchellh/mapstructure"
	zlog "github.com/rs/zerolog/log"

	"github.com/osa030/duetgen/internal/domain/track"
)

type SpotifyProviderConfig struct {
	PlaylistURL string `yaml:"playlist_url" mapstructure:"playlist_url" validate:"required"`
}

// SpotifyProvider samples pool candidates from a Spotify playlist.
// It keeps a small cache to avoid refetching when random sampling overlaps
// previously returned tracks.
type SpotifyProvider struct {
	spotify SpotifyClient
	cache   []track.Track
	config  *SpotifyProviderConfig
}

// NewSpotifyProvider creates a SpotifyProvider from decoded provider settings.
func NewSpotifyProvider(spotify SpotifyClient, settings map[string]any) (*SpotifyProvider, error) {
	if spotify == nil {
		return nil, errors.New("spotify client is required")
	}

	var config SpotifyProviderConfig
	if err := mapstructure.Decode(settings, &config); err != nil {
		return nil, errors.Wrap(err, "failed to decode settings")
	}
	if err := defaults.Set(&config); err != nil {
		return nil, errors.Wrap(err, "failed to set defaults")
	}
	if err := validator.New().Struct(config); err != nil {
		zlog.Error().Msgf("spotify provider validation failed: %v", err)
		return nil, errors.Wrap(err, "validation failed")
	}

	return &SpotifyProvider{
		spotify: spotify,
		cache:   make([]track.Track, 0),
		config:  &config,
	}, nil
}

// Fetch retrieves random tracks from the configured playlist, topping the
// cache up from the API when it cannot cover the request.
func (p *SpotifyProvider) Fetch(ctx context.Context, count int, excludeIDs map[string]bool) ([]track.Track, error) {
	if count <= 0 {
		return []track.Track{}, nil
	}

	available := make([]track.Track, 0, len(p.cache))
	for _, t := range p.cache {
		if !excludeIDs[t.ID] {
			available = append(available, t)
		}
	}

	if len(available) < count {
		fetched, err := p.spotify.GetPlaylistTracksRandom(ctx, p.config.PlaylistURL, count*2)
		if err != nil {
			return nil, errors.Wrap(err, "failed to get random tracks from playlist")
		}
		for _, t := range fetched {
			if excludeIDs[t.ID] || containsTrack(available, t.ID) {
				continue
			}
			available = append(available, t)
		}
	}

	if len(available) <= count {
		p.cache = nil
		return available, nil
	}
	p.cache = available[count:]
	return available[:count], nil
}

// Name returns the provider name.
func (p *SpotifyProvider) Name() string {
	return "spotify_playlist"
}

func containsTrack(tracks []track.Track, id string) bool {
	for _, t := range tracks {
		if t.ID == id {
			return true
		}
	}
	return false
}
