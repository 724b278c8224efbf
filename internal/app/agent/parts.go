package agent

import (
	"github.com/osa030/duetgen/internal/domain/track"
	"github.com/osa030/duetgen/internal/infra/llm"
)

// Handles are uploaded artifact handles keyed by track ID, one map per
// modality.
type Handles struct {
	Audio map[string]*llm.MediaHandle
	Image map[string]*llm.MediaHandle
}

func (h Handles) audio(trackID string) *llm.MediaHandle {
	if h.Audio == nil {
		return nil
	}
	return h.Audio[trackID]
}

func (h Handles) image(trackID string) *llm.MediaHandle {
	if h.Image == nil {
		return nil
	}
	return h.Image[trackID]
}

// trackParts renders one track as content parts: its metadata text followed
// by any uploaded artifacts.
func trackParts(t track.Track, opts track.PromptOptions, handles Handles) []llm.Part {
	parts := []llm.Part{llm.TextPart(t.PromptString(opts))}
	if a := handles.audio(t.ID); a != nil {
		parts = append(parts, llm.TextPart("- audio: "), llm.MediaPart(a))
	}
	if img := handles.image(t.ID); img != nil {
		parts = append(parts, llm.TextPart("- image: "), llm.MediaPart(img))
	}
	return parts
}

// tracksParts renders a track list under a section title.
func tracksParts(title string, tracks []track.Track, opts track.PromptOptions, handles Handles) []llm.Part {
	parts := []llm.Part{llm.TextPart(title)}
	for _, t := range tracks {
		parts = append(parts, trackParts(t, opts, handles)...)
	}
	return parts
}

// promptText flattens parts into the text stored on interaction records.
func promptText(parts []llm.Part) string {
	out := ""
	for _, p := range parts {
		if p.Text != "" {
			if out != "" {
				out += "\n"
			}
			out += p.Text
		} else if p.Media != nil {
			out += "<" + string(p.Media.Modality) + ">"
		}
	}
	return out
}
