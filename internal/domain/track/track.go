// Package track provides the Track domain entity and the recommendation pool.
package track

import (
	"fmt"
	"path/filepath"
	"strings"
)

// Track represents a recommendable music track.
// Immutable once loaded from the dataset.
type Track struct {
	ID        string   // Track ID, unique within a pool
	Title     string   // Track title
	Artist    string   // Main artist name
	Album     string   // Album name (may be empty)
	Tags      []string // Descriptive tags (genre, mood, era)
	Lyrics    string   // Lyrics excerpt (may be empty)
	AudioPath string   // Path to an audio snippet (may be empty)
	ImagePath string   // Path to cover art (may be empty)
}

// Modality identifies a media artifact kind attached to a track.
type Modality string

const (
	ModalityAudio Modality = "audio"
	ModalityImage Modality = "image"
)

// ArtifactPath returns the path of the artifact for the given modality,
// resolved against basePath when relative. Returns an empty string when the
// track carries no artifact of that modality.
func (t *Track) ArtifactPath(modality Modality, basePath string) string {
	var p string
	switch modality {
	case ModalityAudio:
		p = t.AudioPath
	case ModalityImage:
		p = t.ImagePath
	}
	if p == "" || filepath.IsAbs(p) {
		return p
	}
	return filepath.Join(basePath, p)
}

// PromptOptions controls how a track is rendered for a model prompt.
type PromptOptions struct {
	IncludeID  bool   // Include the track ID line
	Title      string // Section title, defaults to "### TRACK:\n"
	LyricChars int    // Max lyrics characters, 0 disables lyrics
	MaxTags    int    // Max tags rendered, 0 means all
}

// PromptString renders the track metadata as a prompt section.
func (t *Track) PromptString(opts PromptOptions) string {
	title := opts.Title
	if title == "" {
		title = "### TRACK:\n"
	}

	var b strings.Builder
	b.WriteString(title)
	b.WriteString(fmt.Sprintf("- Title: %s", t.Title))
	if opts.IncludeID {
		b.WriteString(fmt.Sprintf(" track_id: %s", t.ID))
	}
	b.WriteString(fmt.Sprintf("\n- Artist: %s\n", t.Artist))
	album := t.Album
	if album == "" {
		album = "Unknown"
	}
	b.WriteString(fmt.Sprintf("- Album: %s\n", album))

	tags := t.Tags
	if opts.MaxTags > 0 && len(tags) > opts.MaxTags {
		tags = tags[:opts.MaxTags]
	}
	b.WriteString(fmt.Sprintf("- Tags: %s\n", strings.Join(tags, ", ")))

	if opts.LyricChars > 0 && t.Lyrics != "" {
		excerpt := t.Lyrics
		ellipsis := ""
		if len(excerpt) > opts.LyricChars {
			excerpt = excerpt[:opts.LyricChars]
			ellipsis = "..."
		}
		b.WriteString(fmt.Sprintf("Lyrics: --- Begin of Lyrics ---\n%s%s--- End of Lyrics ---\n", excerpt, ellipsis))
	}
	return b.String()
}
