package artifact

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/cockroachdb/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/osa030/duetgen/internal/domain/track"
	"github.com/osa030/duetgen/internal/infra/llm"
)

// countingUploader records how many real uploads happened.
type countingUploader struct {
	uploads int
	fail    bool
}

func (u *countingUploader) Upload(_ context.Context, path string, modality track.Modality) (*llm.MediaHandle, error) {
	u.uploads++
	if u.fail {
		return nil, errors.New("upload failed")
	}
	return &llm.MediaHandle{URL: "handle://" + path, Modality: modality}, nil
}

func TestCache_WriteOnce(t *testing.T) {
	uploader := &countingUploader{}
	cache := NewCache(uploader, "", track.ModalityAudio, time.Second)

	first, err := cache.Upload(context.Background(), "t1", "/audio/t1.mp3")
	require.NoError(t, err)
	second, err := cache.Upload(context.Background(), "t1", "/audio/t1.mp3")
	require.NoError(t, err)

	assert.Same(t, first, second)
	assert.Equal(t, 1, uploader.uploads, "second call must hit the cache")
}

func TestCache_GetMiss(t *testing.T) {
	cache := NewCache(&countingUploader{}, "", track.ModalityImage, time.Second)
	assert.Nil(t, cache.Get("missing"))
}

func TestCache_KeysScopedByModality(t *testing.T) {
	uploader := &countingUploader{}
	audio := NewCache(uploader, "", track.ModalityAudio, time.Second)
	image := NewCache(uploader, "", track.ModalityImage, time.Second)

	_, err := audio.Upload(context.Background(), "t1", "/a/t1.mp3")
	require.NoError(t, err)
	_, err = image.Upload(context.Background(), "t1", "/i/t1.jpg")
	require.NoError(t, err)

	assert.Equal(t, 2, uploader.uploads)
	assert.Equal(t, track.ModalityAudio, audio.Get("t1").Modality)
	assert.Equal(t, track.ModalityImage, image.Get("t1").Modality)
}

func TestCache_BatchUpload(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "t1.mp3"), []byte("audio"), 0644))

	tracks := []track.Track{
		{ID: "t1", AudioPath: "t1.mp3"},
		{ID: "t2", AudioPath: "missing.mp3"}, // not on disk, skipped
		{ID: "t3"},                           // no artifact at all
	}

	uploader := &countingUploader{}
	cache := NewCache(uploader, dir, track.ModalityAudio, time.Second)

	handles := cache.BatchUpload(context.Background(), tracks)

	assert.Len(t, handles, 1)
	assert.Contains(t, handles, "t1")
	assert.Equal(t, 1, uploader.uploads)
}

func TestCache_BatchUploadContinuesOnFailure(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "t1.mp3"), []byte("a"), 0644))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "t2.mp3"), []byte("b"), 0644))

	uploader := &countingUploader{fail: true}
	cache := NewCache(uploader, dir, track.ModalityAudio, time.Second)

	handles := cache.BatchUpload(context.Background(), []track.Track{
		{ID: "t1", AudioPath: "t1.mp3"},
		{ID: "t2", AudioPath: "t2.mp3"},
	})

	assert.Empty(t, handles)
	assert.Equal(t, 2, uploader.uploads, "failures must not stop the batch")
}
