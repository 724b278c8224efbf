package agent

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/cockroachdb/errors"
	zlog "github.com/rs/zerolog/log"

	"github.com/osa030/duetgen/internal/app/extract"
	"github.com/osa030/duetgen/internal/app/prompt"
	"github.com/osa030/duetgen/internal/domain/profile"
	"github.com/osa030/duetgen/internal/domain/track"
	"github.com/osa030/duetgen/internal/domain/turn"
	"github.com/osa030/duetgen/internal/infra/llm"
)

// Recsys simulates the recommendation system side of the conversation.
// Must be initialized exactly once before any turn request.
type Recsys struct {
	turnTimeout time.Duration

	session ChatSession
	profile profile.ListenerProfile
	log     interactionLog
}

// NewRecsys creates a recommender agent. turnTimeout bounds each model call.
func NewRecsys(turnTimeout time.Duration) *Recsys {
	return &Recsys{turnTimeout: turnTimeout}
}

// Initialize creates the model session and seeds it with the listener
// profile and the full recommendation pool. The acknowledgement reply is
// logged and discarded.
func (r *Recsys) Initialize(
	ctx context.Context,
	starter SessionStarter,
	prof profile.ListenerProfile,
	pool *track.Pool,
	handles Handles,
) error {
	system, err := prompt.RecsysSystem.Format(nil)
	if err != nil {
		return err
	}
	r.session = starter.StartSession(system)
	r.profile = prof
	r.log.add(Interaction{Turn: "none", Type: "system_initialization", Prompt: system, Response: "System initialized"})

	part1, err := prompt.RecsysTurn0Part1.Format(map[string]string{
		"listener_profile": prof.PromptString(""),
	})
	if err != nil {
		return err
	}
	part2, err := prompt.RecsysTurn0Part2.Format(nil)
	if err != nil {
		return err
	}

	parts := []llm.Part{llm.TextPart(part1)}
	parts = append(parts, tracksParts("## RECOMMENDATION POOL\n\n", pool.Tracks(),
		track.PromptOptions{IncludeID: true, LyricChars: 200}, handles)...)
	parts = append(parts, llm.TextPart(part2))

	reply, err := r.session.Send(ctx, parts, r.turnTimeout)
	if err != nil {
		return errors.Wrap(err, "recsys session setup failed")
	}
	r.log.add(Interaction{Turn: "0", Type: "recommendation_pool", Prompt: promptText(parts), Response: reply.Text, Usage: reply.Usage})
	zlog.Debug().Msgf("recommendation pool seeded: tracks=%s", strings.Join(pool.IDs(), ", "))
	return nil
}

// Recommend requests one recommendation for the given turn. The extracted
// track_id is resolved against the available pool; when no member matches,
// the turn is returned failed with a nil track and the no-matching-track
// code, and the conversation may still continue.
func (r *Recsys) Recommend(
	ctx context.Context,
	turnNum int,
	conversation turn.Conversation,
	available *track.Pool,
	listenerMessage string,
) (turn.RecsysTurn, error) {
	if r.session == nil {
		return turn.RecsysTurn{}, errors.Wrap(ErrUninitialized, "recsys")
	}

	text, err := prompt.RecsysFollowingTurns.Format(map[string]string{
		"turn_num":           fmt.Sprintf("%d", turnNum),
		"used_track_ids":     strings.Join(conversation.UsedTrackIDs(), ", "),
		"listener_message":   listenerMessage,
		"preferred_language": r.profile.PreferredLanguage,
	})
	if err != nil {
		return turn.RecsysTurn{}, err
	}

	reply, err := r.session.Send(ctx, []llm.Part{llm.TextPart(text)}, r.turnTimeout)
	if err != nil {
		return turn.RecsysTurn{TurnNumber: turnNum, Prompt: text, Code: errorCode(err)}, err
	}
	r.log.add(Interaction{Turn: fmt.Sprintf("%d", turnNum), Type: "recommendation", Prompt: text, Response: reply.Text, Usage: reply.Usage})

	parsed := extract.Fields(reply.Text, prompt.RecsysFollowingTurns.ExpectedFields)
	trackID := parsed["track_id"]

	recommended, ok := available.Get(trackID)
	if !ok {
		zlog.Warn().Msgf("recsys named a track outside the available pool: turn=%d track_id=%q", turnNum, trackID)
		return turn.RecsysTurn{
			TurnNumber: turnNum,
			Prompt:     text,
			Thought:    "No match",
			Track:      nil,
			Message:    "No track found",
			Success:    false,
			Code:       turn.CodeNoMatchingTrack,
			Usage:      reply.Usage,
		}, nil
	}

	code := turn.CodeSuccess
	if !prompt.RecsysFollowingTurns.IsComplete(parsed) {
		code = turn.CodeMalformed
	}
	return turn.RecsysTurn{
		TurnNumber: turnNum,
		Prompt:     text,
		Thought:    fieldOr(parsed, "thought", defaultThought),
		Track:      &recommended,
		Message:    fieldOr(parsed, "message", defaultMessage),
		Success:    true,
		Code:       code,
		Usage:      reply.Usage,
	}, nil
}

// Interactions returns the session's logged exchanges.
func (r *Recsys) Interactions() []Interaction {
	return r.log.all()
}
