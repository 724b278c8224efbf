// Package poolsource assembles recommendation pools from configured providers.
package poolsource

import (
	"context"

	"github.com/cockroachdb/errors"
	zlog "github.com/rs/zerolog/log"

	"github.com/osa030/duetgen/internal/domain/track"
)

// Provider supplies candidate tracks for a conversation's recommendation pool.
// Different implementations source tracks through various strategies
// (dataset files, playlist sampling, etc.).
type Provider interface {
	// Fetch retrieves up to count candidate tracks, never returning a track
	// whose ID is in excludeIDs.
	Fetch(ctx context.Context, count int, excludeIDs map[string]bool) ([]track.Track, error)

	// Name returns the provider name (used in config).
	Name() string
}

// SpotifyClient defines the Spotify operations pool providers need.
type SpotifyClient interface {
	GetPlaylistTracksRandom(ctx context.Context, playlistURL string, count int) ([]track.Track, error)
}

// ProviderWithMetadata wraps a provider with its display name from config.
type ProviderWithMetadata struct {
	Provider    Provider
	DisplayName string
}

// Chain gathers candidates from every configured provider in order,
// deduplicating across providers.
type Chain struct {
	providers []ProviderWithMetadata
}

// NewChain creates a provider chain.
func NewChain(providers []ProviderWithMetadata) *Chain {
	return &Chain{providers: providers}
}

// Fetch collects up to count candidates across all providers. A failing
// provider is logged and skipped; the chain fails only when every provider
// came back empty.
func (c *Chain) Fetch(ctx context.Context, count int, excludeIDs map[string]bool) ([]track.Track, error) {
	var pool []track.Track
	seen := make(map[string]bool, len(excludeIDs))
	for id := range excludeIDs {
		seen[id] = true
	}

	for i, pm := range c.providers {
		if len(pool) >= count {
			break
		}
		zlog.Debug().Msgf("trying pool provider: index=%d total=%d name=%s type=%s",
			i+1, len(c.providers), pm.DisplayName, pm.Provider.Name())

		candidates, err := pm.Provider.Fetch(ctx, count-len(pool), seen)
		if err != nil {
			zlog.Warn().Msgf("pool provider failed, trying next: provider=%s error=%v", pm.DisplayName, err)
			continue
		}

		for _, t := range candidates {
			if seen[t.ID] {
				continue
			}
			seen[t.ID] = true
			pool = append(pool, t)
		}
		zlog.Info().Msgf("pool provider returned candidates: provider=%s count=%d total_so_far=%d",
			pm.DisplayName, len(candidates), len(pool))
	}

	if len(pool) == 0 {
		return nil, errors.New("all pool providers failed to return candidates")
	}
	if len(pool) > count {
		pool = pool[:count]
	}
	return pool, nil
}

// Name returns the chain name.
func (c *Chain) Name() string {
	return "provider_chain"
}
