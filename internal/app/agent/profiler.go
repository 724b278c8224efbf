package agent

import (
	"context"
	"time"

	"github.com/osa030/duetgen/internal/app/extract"
	"github.com/osa030/duetgen/internal/app/prompt"
	"github.com/osa030/duetgen/internal/domain/profile"
	"github.com/osa030/duetgen/internal/domain/track"
	"github.com/osa030/duetgen/internal/domain/turn"
	"github.com/osa030/duetgen/internal/infra/llm"
)

// Profiler infers a listener's musical identity from demographics and the
// liked-track set with a single stateless model call.
type Profiler struct {
	gen     Generator
	timeout time.Duration
}

// NewProfiler creates a profiler. timeout bounds the model call.
func NewProfiler(gen Generator, timeout time.Duration) *Profiler {
	return &Profiler{gen: gen, timeout: timeout}
}

// Profile asks the model for the musical culture, top artist and top genre
// matching the given demographics and liked tracks. The tracks are attached
// to the call with their uploaded artifacts. Fields the model omits come back
// as "Unknown"; a complete extraction is marked successful.
func (p *Profiler) Profile(ctx context.Context, demo profile.Demographics, liked []track.Track, handles Handles) (profile.ListenerProfile, Interaction, error) {
	text, err := prompt.ProfileQuery.Format(map[string]string{
		"age_group":          demo.AgeGroup,
		"country":            demo.Country,
		"gender":             demo.Gender,
		"preferred_language": demo.PreferredLanguage,
	})
	if err != nil {
		return profile.ListenerProfile{}, Interaction{}, err
	}

	parts := []llm.Part{llm.TextPart(text)}
	if len(liked) > 0 {
		parts = append(parts, tracksParts("## LIKED TRACKS\n\n", liked,
			track.PromptOptions{LyricChars: 200}, handles)...)
	}

	reply, err := p.gen.Generate(ctx, "", parts, p.timeout)
	if err != nil {
		return profile.ListenerProfile{}, Interaction{}, err
	}
	rec := Interaction{Turn: "none", Type: "profiling", Prompt: promptText(parts), Response: reply.Text, Usage: reply.Usage}

	parsed := extract.Fields(reply.Text, prompt.ProfileQuery.ExpectedFields)
	prof := profile.New(demo,
		parsed["preferred_musical_culture"],
		parsed["top_1_artist"],
		parsed["top_1_genre"],
	)
	prof.Success = prompt.ProfileQuery.IsComplete(parsed)
	prof.Code = turn.CodeSuccess
	if !prof.Success {
		prof.Code = turn.CodeMalformed
	}
	return prof, rec, nil
}
