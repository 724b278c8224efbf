// Package turn provides the conversation turn entities.
package turn

import (
	"github.com/osa030/duetgen/internal/domain/track"
	"github.com/osa030/duetgen/internal/domain/usage"
)

// Outcome codes recorded on turn entities.
const (
	CodeSuccess         = "success"
	CodeTimeout         = "timeout"
	CodeNoMatchingTrack = "no_matching_track"
	CodeMalformed       = "malformed_extraction"
)

// Goal progress assessment labels the listener may report.
const (
	MovesTowardGoal       = "MOVES_TOWARD_GOAL"
	DoesNotMoveTowardGoal = "DOES_NOT_MOVE_TOWARD_GOAL"
)

// ListenerTurn is one listener utterance with its internal thought.
type ListenerTurn struct {
	TurnNumber             int
	Prompt                 string
	Thought                string
	GoalProgressAssessment string // Empty on the opening turn
	Message                string
	Success                bool
	Code                   string
	Usage                  usage.Record
}

// RecsysTurn is one recommender utterance, optionally carrying the
// recommended track. Track is nil when no pool member matched the
// model's reply.
type RecsysTurn struct {
	TurnNumber int
	Prompt     string
	Thought    string
	Track      *track.Track
	Message    string
	Success    bool
	Code       string
	Usage      usage.Record
}

// ConversationTurn pairs the listener turn produced to react to the previous
// recommendation (or the opening request, for turn 1) with the recsys turn
// produced during the same loop iteration.
type ConversationTurn struct {
	TurnNumber int
	Listener   ListenerTurn
	Recsys     RecsysTurn
}

// Conversation is the append-only ordered sequence of turns of one
// generated dialogue.
type Conversation []ConversationTurn

// UsedTrackIDs returns the IDs of all tracks referenced by non-nil recsys
// turns, in turn order.
func (c Conversation) UsedTrackIDs() []string {
	ids := make([]string, 0, len(c))
	for _, t := range c {
		if t.Recsys.Track != nil {
			ids = append(ids, t.Recsys.Track.ID)
		}
	}
	return ids
}
