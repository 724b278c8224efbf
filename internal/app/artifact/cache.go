// Package artifact manages media artifact uploads for one conversation.
package artifact

import (
	"context"
	"fmt"
	"os"
	"sync"
	"time"

	zlog "github.com/rs/zerolog/log"

	"github.com/osa030/duetgen/internal/domain/track"
	"github.com/osa030/duetgen/internal/infra/llm"
)

// Cache uploads track artifacts of one modality and remembers the handles
// for the lifetime of one orchestrator. Each key is written at most once;
// a cached handle is always consulted before any re-upload.
type Cache struct {
	uploader llm.Uploader
	basePath string
	modality track.Modality
	timeout  time.Duration

	mu      sync.Mutex
	handles map[string]*llm.MediaHandle
}

// NewCache creates an upload cache for the given modality.
func NewCache(uploader llm.Uploader, basePath string, modality track.Modality, timeout time.Duration) *Cache {
	if timeout <= 0 {
		timeout = 60 * time.Second
	}
	return &Cache{
		uploader: uploader,
		basePath: basePath,
		modality: modality,
		timeout:  timeout,
		handles:  make(map[string]*llm.MediaHandle),
	}
}

func (c *Cache) cacheKey(trackID string) string {
	return fmt.Sprintf("%s-%s", trackID, c.modality)
}

// Get returns the cached handle for a track, or nil when none was uploaded.
func (c *Cache) Get(trackID string) *llm.MediaHandle {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.handles[c.cacheKey(trackID)]
}

// Upload uploads the artifact at path for the given track, bounded by the
// cache's upload budget. Idempotent: a second call for the same track
// returns the cached handle without touching the uploader.
func (c *Cache) Upload(ctx context.Context, trackID, path string) (*llm.MediaHandle, error) {
	key := c.cacheKey(trackID)
	c.mu.Lock()
	if h, ok := c.handles[key]; ok {
		c.mu.Unlock()
		return h, nil
	}
	c.mu.Unlock()

	uploadCtx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()
	h, err := c.uploader.Upload(uploadCtx, path, c.modality)
	if err != nil {
		return nil, err
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	if existing, ok := c.handles[key]; ok {
		return existing, nil
	}
	c.handles[key] = h
	return h, nil
}

// BatchUpload uploads the artifacts of all tracks that carry one, returning
// handles keyed by track ID. Tracks without an artifact on disk are skipped;
// individual upload failures are logged and skipped, the batch continues.
func (c *Cache) BatchUpload(ctx context.Context, tracks []track.Track) map[string]*llm.MediaHandle {
	handles := make(map[string]*llm.MediaHandle)
	for _, t := range tracks {
		path := t.ArtifactPath(c.modality, c.basePath)
		if path == "" {
			continue
		}
		if _, err := os.Stat(path); err != nil {
			continue
		}
		h, err := c.Upload(ctx, t.ID, path)
		if err != nil {
			zlog.Warn().Msgf("artifact upload failed, skipping: track=%s modality=%s error=%v", t.ID, c.modality, err)
			continue
		}
		handles[t.ID] = h
	}
	return handles
}
