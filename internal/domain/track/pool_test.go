package track

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func sampleTracks() []Track {
	return []Track{
		{ID: "t1", Title: "Bohemian Rhapsody", Artist: "Queen"},
		{ID: "t2", Title: "Yesterday", Artist: "The Beatles"},
		{ID: "t3", Title: "Hotel California", Artist: "Eagles"},
	}
}

func TestPool_CopyOnWrite(t *testing.T) {
	original := sampleTracks()
	pool := NewPool(original)

	require.True(t, pool.Remove("t2"))

	// Original slice is untouched
	assert.Len(t, original, 3)
	assert.Equal(t, "t2", original[1].ID)

	// Pool reflects the removal
	assert.False(t, pool.Contains("t2"))
	assert.Equal(t, 2, pool.Len())
}

func TestPool_OrderPreserved(t *testing.T) {
	pool := NewPool(sampleTracks())
	pool.Remove("t2")

	ids := pool.IDs()
	assert.Equal(t, []string{"t1", "t3"}, ids, "relative order must survive removal")
}

func TestPool_NoReintroduction(t *testing.T) {
	pool := NewPool(sampleTracks())

	require.True(t, pool.Remove("t1"))
	assert.False(t, pool.Remove("t1"), "second removal of same ID must report false")
	assert.False(t, pool.Contains("t1"))

	_, ok := pool.Get("t1")
	assert.False(t, ok)
}

func TestPool_RemoveUnknownID(t *testing.T) {
	pool := NewPool(sampleTracks())

	assert.False(t, pool.Remove("missing"))
	assert.Equal(t, 3, pool.Len())
}

func TestPool_DuplicateIDsDropped(t *testing.T) {
	pool := NewPool([]Track{
		{ID: "t1", Title: "First"},
		{ID: "t1", Title: "Second"},
	})

	assert.Equal(t, 1, pool.Len())
	got, ok := pool.Get("t1")
	require.True(t, ok)
	assert.Equal(t, "First", got.Title)
}

func TestPool_Empty(t *testing.T) {
	pool := NewPool(sampleTracks())
	assert.False(t, pool.Empty())

	for _, id := range pool.IDs() {
		pool.Remove(id)
	}
	assert.True(t, pool.Empty())
	assert.Empty(t, pool.Tracks())
}

func TestTrack_ArtifactPath(t *testing.T) {
	tr := Track{ID: "t1", AudioPath: "snippets/t1.mp3", ImagePath: "/abs/t1.jpg"}

	assert.Equal(t, "/base/snippets/t1.mp3", tr.ArtifactPath(ModalityAudio, "/base"))
	assert.Equal(t, "/abs/t1.jpg", tr.ArtifactPath(ModalityImage, "/base"), "absolute paths are kept as-is")
	assert.Equal(t, "", (&Track{}).ArtifactPath(ModalityAudio, "/base"))
}

func TestTrack_PromptString(t *testing.T) {
	tr := Track{
		ID:     "t9",
		Title:  "Imagine",
		Artist: "John Lennon",
		Tags:   []string{"rock", "classic", "piano"},
		Lyrics: "Imagine there's no heaven",
	}

	tests := []struct {
		name     string
		opts     PromptOptions
		contains []string
		excludes []string
	}{
		{
			name:     "with track id",
			opts:     PromptOptions{IncludeID: true, MaxTags: 2},
			contains: []string{"track_id: t9", "- Artist: John Lennon", "rock, classic"},
			excludes: []string{"piano", "Begin of Lyrics"},
		},
		{
			name:     "without track id",
			opts:     PromptOptions{IncludeID: false, LyricChars: 10},
			contains: []string{"- Title: Imagine", "Imagine th...", "- Album: Unknown"},
			excludes: []string{"track_id"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := tr.PromptString(tt.opts)
			for _, want := range tt.contains {
				assert.Contains(t, got, want)
			}
			for _, not := range tt.excludes {
				assert.NotContains(t, got, not)
			}
		})
	}
}
