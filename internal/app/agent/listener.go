package agent

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/cockroachdb/errors"

	"github.com/osa030/duetgen/internal/app/extract"
	"github.com/osa030/duetgen/internal/app/prompt"
	"github.com/osa030/duetgen/internal/domain/goal"
	"github.com/osa030/duetgen/internal/domain/profile"
	"github.com/osa030/duetgen/internal/domain/track"
	"github.com/osa030/duetgen/internal/domain/turn"
	"github.com/osa030/duetgen/internal/infra/llm"
)

// Default values applied when extraction could not locate a field.
const (
	defaultThought = "Unknown thought"
	defaultMessage = "Unknown message"
)

// Listener simulates the music listener side of the conversation.
// Must be initialized exactly once before any turn request.
type Listener struct {
	turnTimeout time.Duration

	session ChatSession
	profile profile.ListenerProfile
	goal    goal.Goal
	handles Handles
	log     interactionLog
}

// NewListener creates a listener agent. turnTimeout bounds each model call.
func NewListener(turnTimeout time.Duration) *Listener {
	return &Listener{turnTimeout: turnTimeout}
}

// Initialize creates the model session and seeds it with the listener's
// persona and previously liked tracks. The acknowledgement reply is logged
// and discarded.
func (l *Listener) Initialize(
	ctx context.Context,
	starter SessionStarter,
	prof profile.ListenerProfile,
	g goal.Goal,
	liked []track.Track,
	handles Handles,
) error {
	system, err := prompt.ListenerSystem.Format(map[string]string{
		"listener_profile":  prof.PromptString(""),
		"conversation_goal": g.PromptString(""),
	})
	if err != nil {
		return err
	}

	l.session = starter.StartSession(system)
	l.profile = prof
	l.goal = g
	l.handles = handles
	l.log.add(Interaction{Turn: "none", Type: "system_initialization", Prompt: system, Response: "System initialized"})

	if len(liked) == 0 {
		return nil
	}

	setup, err := prompt.ListenerTurn0.Format(nil)
	if err != nil {
		return err
	}
	parts := tracksParts("## Your Previously Liked Tracks\n\n", liked,
		track.PromptOptions{IncludeID: true, LyricChars: 200}, handles)
	parts = append(parts, llm.TextPart(setup))

	reply, err := l.session.Send(ctx, parts, l.turnTimeout)
	if err != nil {
		return errors.Wrap(err, "listener session setup failed")
	}
	l.log.add(Interaction{Turn: "0", Type: "previously_liked_tracks", Prompt: promptText(parts), Response: reply.Text, Usage: reply.Usage})
	return nil
}

// OpeningTurn requests the listener's distinguished first turn. The message
// is expected to be a verbatim copy of one of the goal's initial query
// examples; the extractor merely retrieves whatever the model produced.
func (l *Listener) OpeningTurn(ctx context.Context) (turn.ListenerTurn, error) {
	if l.session == nil {
		return turn.ListenerTurn{}, errors.Wrap(ErrUninitialized, "listener")
	}

	examples := make([]string, 0, len(l.goal.InitialQueryExamples))
	for _, ex := range l.goal.InitialQueryExamples {
		examples = append(examples, fmt.Sprintf("- %q", ex))
	}
	text, err := prompt.ListenerFirstTurn.Format(map[string]string{
		"initial_query_examples": strings.Join(examples, "\n"),
		"listener_goal":          l.goal.ListenerGoal,
		"preferred_language":     l.profile.PreferredLanguage,
	})
	if err != nil {
		return turn.ListenerTurn{}, err
	}

	reply, err := l.session.Send(ctx, []llm.Part{llm.TextPart(text)}, l.turnTimeout)
	if err != nil {
		return turn.ListenerTurn{TurnNumber: 1, Prompt: text, Code: errorCode(err)}, err
	}
	l.log.add(Interaction{Turn: "1", Type: "initial_request", Prompt: text, Response: reply.Text, Usage: reply.Usage})

	parsed := extract.Fields(reply.Text, prompt.ListenerFirstTurn.ExpectedFields)
	return l.buildTurn(1, text, parsed, prompt.ListenerFirstTurn, reply, false), nil
}

// Reaction requests the listener's reaction to the given recommendation,
// becoming the listener turn paired in the next loop iteration.
func (l *Listener) Reaction(ctx context.Context, turnNum int, recommended track.Track, recsysMessage string) (turn.ListenerTurn, error) {
	if l.session == nil {
		return turn.ListenerTurn{}, errors.Wrap(ErrUninitialized, "listener")
	}

	text, err := prompt.ListenerReaction.Format(map[string]string{
		"turn_num":           fmt.Sprintf("%d", turnNum),
		"title":              recommended.Title,
		"artist":             recommended.Artist,
		"album":              recommended.Album,
		"recsys_message":     recsysMessage,
		"preferred_language": l.profile.PreferredLanguage,
	})
	if err != nil {
		return turn.ListenerTurn{}, err
	}

	parts := make([]llm.Part, 0, 3)
	if a := l.handles.audio(recommended.ID); a != nil {
		parts = append(parts, llm.MediaPart(a))
	}
	if img := l.handles.image(recommended.ID); img != nil {
		parts = append(parts, llm.MediaPart(img))
	}
	parts = append(parts, llm.TextPart(text))

	reply, err := l.session.Send(ctx, parts, l.turnTimeout)
	if err != nil {
		return turn.ListenerTurn{TurnNumber: turnNum, Prompt: text, Code: errorCode(err)}, err
	}
	l.log.add(Interaction{Turn: fmt.Sprintf("%d", turnNum), Type: "reaction", Prompt: text, Response: reply.Text, Usage: reply.Usage})

	parsed := extract.Fields(reply.Text, prompt.ListenerReaction.ExpectedFields)
	return l.buildTurn(turnNum, text, parsed, prompt.ListenerReaction, reply, true), nil
}

// Interactions returns the session's logged exchanges.
func (l *Listener) Interactions() []Interaction {
	return l.log.all()
}

// buildTurn maps extracted fields to a typed listener turn, applying named
// defaults for anything the extractor could not locate.
func (l *Listener) buildTurn(turnNum int, promptStr string, parsed map[string]string, tmpl prompt.Template, reply llm.Reply, withAssessment bool) turn.ListenerTurn {
	code := turn.CodeSuccess
	if !tmpl.IsComplete(parsed) {
		code = turn.CodeMalformed
	}

	t := turn.ListenerTurn{
		TurnNumber: turnNum,
		Prompt:     promptStr,
		Thought:    fieldOr(parsed, "thought", defaultThought),
		Message:    fieldOr(parsed, "message", defaultMessage),
		Success:    true,
		Code:       code,
		Usage:      reply.Usage,
	}
	if withAssessment {
		t.GoalProgressAssessment = strings.ToUpper(strings.TrimSpace(parsed["goal_progress_assessment"]))
	}
	return t
}

func fieldOr(parsed map[string]string, key, fallback string) string {
	if v, ok := parsed[key]; ok {
		return v
	}
	return fallback
}
