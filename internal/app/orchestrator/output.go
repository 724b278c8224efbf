package orchestrator

import (
	"os"
	"path/filepath"

	"github.com/bytedance/sonic"
	"github.com/cockroachdb/errors"

	"github.com/osa030/duetgen/internal/domain/track"
)

// ProfilingRecord is the profiling.json artifact.
type ProfilingRecord struct {
	User    UserRecord     `json:"user"`
	Summary ProfileSummary `json:"summary"`
}

// UserRecord is the configured demographic input echoed into the artifacts.
type UserRecord struct {
	ID                string `json:"id"`
	AgeGroup          string `json:"age_group"`
	Country           string `json:"country"`
	Gender            string `json:"gender"`
	PreferredLanguage string `json:"preferred_language"`
}

// ProfileSummary is the model-inferred side of the listener profile.
type ProfileSummary struct {
	PreferredMusicalCulture string `json:"preferred_musical_culture"`
	Top1Artist              string `json:"top_1_artist"`
	Top1Genre               string `json:"top_1_genre"`
	Success                 bool   `json:"success"`
	Code                    string `json:"code"`
}

// GoalRecord is the conversation_goal.json artifact.
type GoalRecord struct {
	Goal     GoalSummary `json:"goal"`
	Examples []string    `json:"examples"`
}

// GoalSummary flattens the selected goal for serialization.
type GoalSummary struct {
	CategoryCode      string `json:"category_code"`
	Category          string `json:"category"`
	SpecificityCode   string `json:"specificity_code"`
	Specificity       string `json:"specificity"`
	ListenerGoal      string `json:"listener_goal"`
	ListenerExpertise string `json:"listener_expertise"`
	TargetTurnCount   int    `json:"target_turn_count"`
	Resolved          bool   `json:"resolved"`
}

// ChatRecord is the chat.json artifact: the ordered turn list.
type ChatRecord struct {
	ConversationID string     `json:"conversation_id"`
	Turns          []ChatTurn `json:"turns"`
}

// ChatTurn is one serialized conversation turn.
type ChatTurn struct {
	Turn     int          `json:"turn"`
	Listener ChatListener `json:"listener"`
	Recsys   ChatRecsys   `json:"recsys"`
}

// ChatListener is the listener half of a serialized turn.
type ChatListener struct {
	Thought                string `json:"thought"`
	GoalProgressAssessment string `json:"goal_progress_assessment,omitempty"`
	Message                string `json:"message"`
	Success                bool   `json:"success"`
	Code                   string `json:"code"`
}

// ChatRecsys is the recsys half of a serialized turn. Track is null when no
// pool member matched the model's reply.
type ChatRecsys struct {
	Thought string       `json:"thought"`
	Message string       `json:"message"`
	Track   *TrackRecord `json:"track"`
	Success bool         `json:"success"`
	Code    string       `json:"code"`
}

// TrackRecord is the recommended track's attributes as serialized.
type TrackRecord struct {
	ID     string   `json:"id"`
	Title  string   `json:"title"`
	Artist string   `json:"artist"`
	Album  string   `json:"album"`
	Tags   []string `json:"tags,omitempty"`
}

// goalExampleCount is how many initial query examples ship with the goal record.
const goalExampleCount = 2

// BuildProfiling maps a result to its profiling artifact.
func BuildProfiling(res *Result) ProfilingRecord {
	return ProfilingRecord{
		User: UserRecord{
			ID:                res.UserID,
			AgeGroup:          res.Profile.AgeGroup,
			Country:           res.Profile.Country,
			Gender:            res.Profile.Gender,
			PreferredLanguage: res.Profile.PreferredLanguage,
		},
		Summary: ProfileSummary{
			PreferredMusicalCulture: res.Profile.PreferredMusicalCulture,
			Top1Artist:              res.Profile.Top1Artist,
			Top1Genre:               res.Profile.Top1Genre,
			Success:                 res.Profile.Success,
			Code:                    res.Profile.Code,
		},
	}
}

// BuildGoal maps a result to its goal artifact.
func BuildGoal(res *Result) GoalRecord {
	examples := res.Goal.InitialQueryExamples
	if len(examples) > goalExampleCount {
		examples = examples[:goalExampleCount]
	}
	return GoalRecord{
		Goal: GoalSummary{
			CategoryCode:      string(res.Goal.CategoryCode),
			Category:          res.Goal.CategoryDescription,
			SpecificityCode:   string(res.Goal.SpecificityCode),
			Specificity:       res.Goal.SpecificityDescription,
			ListenerGoal:      res.Goal.ListenerGoal,
			ListenerExpertise: res.Goal.ListenerExpertise,
			TargetTurnCount:   res.Goal.TargetTurnCount,
			Resolved:          res.Goal.Resolved,
		},
		Examples: examples,
	}
}

// BuildChat maps a result to its chat artifact.
func BuildChat(res *Result) ChatRecord {
	rec := ChatRecord{
		ConversationID: res.ConversationID,
		Turns:          make([]ChatTurn, 0, len(res.Conversation)),
	}
	for _, t := range res.Conversation {
		rec.Turns = append(rec.Turns, ChatTurn{
			Turn: t.TurnNumber,
			Listener: ChatListener{
				Thought:                t.Listener.Thought,
				GoalProgressAssessment: t.Listener.GoalProgressAssessment,
				Message:                t.Listener.Message,
				Success:                t.Listener.Success,
				Code:                   t.Listener.Code,
			},
			Recsys: ChatRecsys{
				Thought: t.Recsys.Thought,
				Message: t.Recsys.Message,
				Track:   trackRecord(t.Recsys.Track),
				Success: t.Recsys.Success,
				Code:    t.Recsys.Code,
			},
		})
	}
	return rec
}

func trackRecord(t *track.Track) *TrackRecord {
	if t == nil {
		return nil
	}
	return &TrackRecord{
		ID:     t.ID,
		Title:  t.Title,
		Artist: t.Artist,
		Album:  t.Album,
		Tags:   t.Tags,
	}
}

// Writer persists a result's artifacts under one directory per conversation.
type Writer struct {
	dir string
}

// NewWriter creates a writer rooted at dir.
func NewWriter(dir string) *Writer {
	return &Writer{dir: dir}
}

// Write serializes the result into <dir>/<user>/<conversation-id>/:
// profiling.json, conversation_goal.json, chat.json, and interactions.json
// with the raw prompt/response log.
func (w *Writer) Write(res *Result) error {
	out := filepath.Join(w.dir, res.UserID, res.ConversationID)
	if err := os.MkdirAll(out, 0o755); err != nil {
		return errors.Wrap(err, "failed to create output directory")
	}

	files := map[string]any{
		"profiling.json":         BuildProfiling(res),
		"conversation_goal.json": BuildGoal(res),
		"chat.json":              BuildChat(res),
		"interactions.json":      res.Interactions,
	}
	for name, v := range files {
		data, err := sonic.ConfigDefault.MarshalIndent(v, "", "  ")
		if err != nil {
			return errors.Wrapf(err, "failed to marshal %s", name)
		}
		if err := os.WriteFile(filepath.Join(out, name), data, 0o644); err != nil {
			return errors.Wrapf(err, "failed to write %s", name)
		}
	}
	return nil
}
