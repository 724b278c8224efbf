package agent

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/osa030/duetgen/internal/domain/goal"
	"github.com/osa030/duetgen/internal/domain/profile"
	"github.com/osa030/duetgen/internal/domain/track"
	"github.com/osa030/duetgen/internal/domain/turn"
	"github.com/osa030/duetgen/internal/domain/usage"
	"github.com/osa030/duetgen/internal/infra/llm"
)

// fakeSession replays scripted replies and records every prompt it was sent.
type fakeSession struct {
	replies []llm.Reply
	err     error
	calls   [][]llm.Part
}

func (f *fakeSession) Send(_ context.Context, parts []llm.Part, _ time.Duration) (llm.Reply, error) {
	f.calls = append(f.calls, parts)
	if f.err != nil {
		return llm.Reply{}, f.err
	}
	if len(f.replies) == 0 {
		return llm.Reply{}, nil
	}
	r := f.replies[0]
	f.replies = f.replies[1:]
	return r, nil
}

type fakeStarter struct {
	system  string
	session *fakeSession
}

func (f *fakeStarter) StartSession(system string) ChatSession {
	f.system = system
	return f.session
}

// fakeGenerator answers stateless single-shot calls.
type fakeGenerator struct {
	reply     llm.Reply
	err       error
	lastParts []llm.Part
}

func (f *fakeGenerator) Generate(_ context.Context, _ string, parts []llm.Part, _ time.Duration) (llm.Reply, error) {
	f.lastParts = parts
	return f.reply, f.err
}

func testProfile() profile.ListenerProfile {
	return profile.New(profile.Demographics{
		AgeGroup:          "20s",
		Country:           "JP",
		Gender:            "female",
		PreferredLanguage: "Japanese",
	}, "J-Pop", "YOASOBI", "pop")
}

func testGoal(t *testing.T) goal.Goal {
	t.Helper()
	cat, err := goal.DefaultCatalog()
	require.NoError(t, err)
	g, err := cat.Lookup(goal.CategoryA, goal.SpecificityHH)
	require.NoError(t, err)
	return g
}

func testTracks() []track.Track {
	return []track.Track{
		{ID: "T1", Title: "First", Artist: "Alpha", Album: "One"},
		{ID: "T2", Title: "Second", Artist: "Beta", Album: "Two"},
	}
}

func initListener(t *testing.T, session *fakeSession) (*Listener, *fakeStarter) {
	t.Helper()
	l := NewListener(time.Second)
	starter := &fakeStarter{session: session}
	err := l.Initialize(context.Background(), starter, testProfile(), testGoal(t), nil, Handles{})
	require.NoError(t, err)
	return l, starter
}

func TestListener_Initialize(t *testing.T) {
	session := &fakeSession{replies: []llm.Reply{{Text: "understood"}}}
	l := NewListener(time.Second)
	starter := &fakeStarter{session: session}

	err := l.Initialize(context.Background(), starter, testProfile(), testGoal(t), testTracks(), Handles{})
	require.NoError(t, err)

	assert.Contains(t, starter.system, "YOASOBI")
	require.Len(t, session.calls, 1) // liked tracks context
	logs := l.Interactions()
	require.Len(t, logs, 2)
	assert.Equal(t, "system_initialization", logs[0].Type)
	assert.Equal(t, "previously_liked_tracks", logs[1].Type)
}

func TestListener_InitializeWithoutLikedTracks(t *testing.T) {
	session := &fakeSession{}
	l, _ := initListener(t, session)

	assert.Empty(t, session.calls)
	assert.Len(t, l.Interactions(), 1)
}

func TestListener_OpeningTurn(t *testing.T) {
	session := &fakeSession{replies: []llm.Reply{{
		Text:  "thought: Feeling like exploring\nmessage: Play me something new by my favorite artist",
		Usage: usage.Record{InputTextTokens: 10, OutputTokens: 4},
	}}}
	l, _ := initListener(t, session)

	got, err := l.OpeningTurn(context.Background())
	require.NoError(t, err)

	assert.Equal(t, 1, got.TurnNumber)
	assert.Equal(t, "Feeling like exploring", got.Thought)
	assert.Equal(t, "Play me something new by my favorite artist", got.Message)
	assert.Empty(t, got.GoalProgressAssessment)
	assert.True(t, got.Success)
	assert.Equal(t, turn.CodeSuccess, got.Code)
	assert.Equal(t, 10, got.Usage.InputTextTokens)
}

func TestListener_OpeningTurnUninitialized(t *testing.T) {
	l := NewListener(time.Second)
	_, err := l.OpeningTurn(context.Background())
	assert.ErrorIs(t, err, ErrUninitialized)
}

func TestListener_Reaction(t *testing.T) {
	session := &fakeSession{replies: []llm.Reply{{
		Text: "thought: This fits\ngoal_progress_assessment: moves_toward_goal\nmessage: I love it",
	}}}
	l, _ := initListener(t, session)

	audio := &llm.MediaHandle{URL: "data:audio/mpeg;base64,AA==", MIMEType: "audio/mpeg", Modality: track.ModalityAudio}
	l.handles = Handles{Audio: map[string]*llm.MediaHandle{"T1": audio}}

	got, err := l.Reaction(context.Background(), 2, testTracks()[0], "Here is one for you")
	require.NoError(t, err)

	assert.Equal(t, 2, got.TurnNumber)
	assert.Equal(t, turn.MovesTowardGoal, got.GoalProgressAssessment)
	assert.Equal(t, "I love it", got.Message)
	assert.Equal(t, turn.CodeSuccess, got.Code)

	// Audio handle travels with the reaction prompt.
	require.Len(t, session.calls, 1)
	var media int
	for _, p := range session.calls[0] {
		if p.Media != nil {
			media++
		}
	}
	assert.Equal(t, 1, media)
}

func TestListener_MalformedReplyFallsBackToDefaults(t *testing.T) {
	session := &fakeSession{replies: []llm.Reply{{Text: "rambling text with no labels"}}}
	l, _ := initListener(t, session)

	got, err := l.OpeningTurn(context.Background())
	require.NoError(t, err)

	assert.Equal(t, "Unknown thought", got.Thought)
	assert.Equal(t, "Unknown message", got.Message)
	assert.True(t, got.Success)
	assert.Equal(t, turn.CodeMalformed, got.Code)
}

// initRecsys initializes a recommender over the session; the session's first
// scripted reply is consumed as the pool acknowledgement.
func initRecsys(t *testing.T, session *fakeSession, pool *track.Pool) *Recsys {
	t.Helper()
	r := NewRecsys(time.Second)
	err := r.Initialize(context.Background(), &fakeStarter{session: session}, testProfile(), pool, Handles{})
	require.NoError(t, err)
	return r
}

func TestRecsys_Recommend(t *testing.T) {
	pool := track.NewPool(testTracks())
	session := &fakeSession{replies: []llm.Reply{
		{Text: "pool received"},
		{Text: "thought: Matches the request\ntrack_id: T2\nmessage: Try this one"},
	}}
	r := initRecsys(t, session, pool)

	conv := turn.Conversation{}
	got, err := r.Recommend(context.Background(), 1, conv, pool, "Play me something new")
	require.NoError(t, err)

	assert.True(t, got.Success)
	assert.Equal(t, turn.CodeSuccess, got.Code)
	require.NotNil(t, got.Track)
	assert.Equal(t, "T2", got.Track.ID)
	assert.Equal(t, "Try this one", got.Message)
}

func TestRecsys_RecommendNoMatchingTrack(t *testing.T) {
	pool := track.NewPool(testTracks())
	session := &fakeSession{replies: []llm.Reply{
		{Text: "pool received"},
		{Text: "thought: hmm\ntrack_id: T9\nmessage: here"},
	}}
	r := initRecsys(t, session, pool)

	got, err := r.Recommend(context.Background(), 3, turn.Conversation{}, pool, "anything")
	require.NoError(t, err)

	assert.False(t, got.Success)
	assert.Equal(t, turn.CodeNoMatchingTrack, got.Code)
	assert.Nil(t, got.Track)
	assert.Equal(t, 3, got.TurnNumber)
	// The pool is left untouched for the next turn.
	assert.Equal(t, 2, pool.Len())
}

func TestRecsys_RecommendExcludesUsedTracks(t *testing.T) {
	pool := track.NewPool(testTracks())
	session := &fakeSession{replies: []llm.Reply{
		{Text: "pool received"},
		{Text: "thought: ok\ntrack_id: T2\nmessage: next"},
	}}
	r := initRecsys(t, session, pool)

	first := testTracks()[0]
	conv := turn.Conversation{{
		TurnNumber: 1,
		Recsys:     turn.RecsysTurn{TurnNumber: 1, Track: &first, Success: true},
	}}
	_, err := r.Recommend(context.Background(), 2, conv, pool, "something else")
	require.NoError(t, err)

	require.Len(t, session.calls, 2)
	prompt := session.calls[1][0].Text
	assert.Contains(t, prompt, "T1")
}

func TestRecsys_RecommendTimeoutCode(t *testing.T) {
	pool := track.NewPool(testTracks())
	session := &fakeSession{replies: []llm.Reply{{Text: "pool received"}}}
	r := initRecsys(t, session, pool)

	session.err = llm.ErrTimeout
	got, err := r.Recommend(context.Background(), 1, turn.Conversation{}, pool, "anything")
	assert.ErrorIs(t, err, llm.ErrTimeout)

	assert.Equal(t, 1, got.TurnNumber)
	assert.False(t, got.Success)
	assert.Equal(t, turn.CodeTimeout, got.Code)
	assert.Nil(t, got.Track)
}

func TestRecsys_Uninitialized(t *testing.T) {
	r := NewRecsys(time.Second)
	_, err := r.Recommend(context.Background(), 1, turn.Conversation{}, track.NewPool(nil), "hi")
	assert.ErrorIs(t, err, ErrUninitialized)
}

func TestProfiler_Profile(t *testing.T) {
	tests := []struct {
		name        string
		response    string
		wantCulture string
		wantSuccess bool
		wantCode    string
	}{
		{
			name:        "complete extraction",
			response:    "preferred_musical_culture: J-Pop\ntop_1_artist: YOASOBI\ntop_1_genre: pop",
			wantCulture: "J-Pop",
			wantSuccess: true,
			wantCode:    turn.CodeSuccess,
		},
		{
			name:        "missing fields degrade to unknown",
			response:    "top_1_genre: pop",
			wantCulture: "Unknown",
			wantSuccess: false,
			wantCode:    turn.CodeMalformed,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			gen := &fakeGenerator{reply: llm.Reply{Text: tt.response}}
			p := NewProfiler(gen, time.Second)

			prof, rec, err := p.Profile(context.Background(), profile.Demographics{
				AgeGroup: "20s", Country: "JP", Gender: "female", PreferredLanguage: "Japanese",
			}, testTracks(), Handles{})
			require.NoError(t, err)

			assert.Equal(t, tt.wantCulture, prof.PreferredMusicalCulture)
			assert.Equal(t, tt.wantSuccess, prof.Success)
			assert.Equal(t, tt.wantCode, prof.Code)
			assert.Equal(t, "profiling", rec.Type)
		})
	}
}

func TestProfiler_ProfileSendsLikedTracks(t *testing.T) {
	gen := &fakeGenerator{reply: llm.Reply{Text: "preferred_musical_culture: J-Pop\ntop_1_artist: YOASOBI\ntop_1_genre: pop"}}
	p := NewProfiler(gen, time.Second)

	_, rec, err := p.Profile(context.Background(), profile.Demographics{
		AgeGroup: "20s", Country: "JP", Gender: "female", PreferredLanguage: "Japanese",
	}, testTracks(), Handles{})
	require.NoError(t, err)

	sent := promptText(gen.lastParts)
	assert.Contains(t, sent, "## LIKED TRACKS")
	assert.Contains(t, sent, "First")
	assert.Contains(t, sent, "Second")
	assert.Contains(t, rec.Prompt, "First")
}

func TestProfiler_ProfileWithoutLikedTracks(t *testing.T) {
	gen := &fakeGenerator{reply: llm.Reply{Text: "preferred_musical_culture: J-Pop\ntop_1_artist: YOASOBI\ntop_1_genre: pop"}}
	p := NewProfiler(gen, time.Second)

	_, _, err := p.Profile(context.Background(), profile.Demographics{
		AgeGroup: "20s", Country: "JP", Gender: "female", PreferredLanguage: "Japanese",
	}, nil, Handles{})
	require.NoError(t, err)

	assert.NotContains(t, promptText(gen.lastParts), "## LIKED TRACKS")
}

func TestGoalInferrer_Infer(t *testing.T) {
	cat, err := goal.DefaultCatalog()
	require.NoError(t, err)

	t.Run("resolves the model's pick", func(t *testing.T) {
		gen := &fakeGenerator{reply: llm.Reply{Text: "category_code: a\nspecificity_code: hh"}}
		inf := NewGoalInferrer(gen, cat, 42, time.Second)

		got, rec, err := inf.Infer(context.Background(), testTracks(), Handles{})
		require.NoError(t, err)

		assert.True(t, got.Resolved)
		assert.Equal(t, goal.CategoryA, got.CategoryCode)
		assert.Equal(t, goal.SpecificityHH, got.SpecificityCode)
		assert.Equal(t, "conversation_goal", rec.Type)
	})

	t.Run("candidate number picks from the sampled set", func(t *testing.T) {
		gen := &fakeGenerator{reply: llm.Reply{Text: "I pick conversation goal 2"}}
		inf := NewGoalInferrer(gen, cat, 42, time.Second)

		got, _, err := inf.Infer(context.Background(), testTracks(), Handles{})
		require.NoError(t, err)
		assert.True(t, got.Resolved)
	})

	t.Run("unparseable reply degrades to unknown", func(t *testing.T) {
		gen := &fakeGenerator{reply: llm.Reply{Text: "I could not decide"}}
		inf := NewGoalInferrer(gen, cat, 42, time.Second)

		got, _, err := inf.Infer(context.Background(), testTracks(), Handles{})
		require.NoError(t, err)

		assert.False(t, got.Resolved)
		assert.Equal(t, goal.CategoryUnknown, got.CategoryCode)
		assert.Equal(t, goal.Unknown().TargetTurnCount, got.TargetTurnCount)
	})
}
