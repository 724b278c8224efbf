package orchestrator

import (
	"context"
	"time"

	"github.com/cockroachdb/errors"
	"github.com/google/uuid"
	zlog "github.com/rs/zerolog/log"

	"github.com/osa030/duetgen/internal/app/agent"
	"github.com/osa030/duetgen/internal/app/artifact"
	"github.com/osa030/duetgen/internal/domain/goal"
	"github.com/osa030/duetgen/internal/domain/profile"
	"github.com/osa030/duetgen/internal/domain/track"
	"github.com/osa030/duetgen/internal/domain/turn"
	"github.com/osa030/duetgen/internal/domain/usage"
	"github.com/osa030/duetgen/internal/infra/llm"
)

// Errors
var (
	ErrEmptyPool = errors.New("recommendation pool is empty")
	ErrSpent     = errors.New("orchestrator already ran, create a new one per conversation")
)

// Backend bundles the stateless and session-based model capabilities an
// orchestrator consumes.
type Backend interface {
	agent.Generator
	agent.SessionStarter
}

type clientBackend struct {
	c *llm.Client
}

func (b clientBackend) Generate(ctx context.Context, system string, parts []llm.Part, timeout time.Duration) (llm.Reply, error) {
	return b.c.Generate(ctx, system, parts, timeout)
}

func (b clientBackend) StartSession(system string) agent.ChatSession {
	return b.c.NewSession(system)
}

// NewBackend adapts an llm.Client into the orchestrator's backend.
func NewBackend(c *llm.Client) Backend {
	return clientBackend{c: c}
}

// Config holds orchestration parameters for one conversation.
type Config struct {
	// TurnBudget caps the number of conversation turns. Zero means the
	// selected goal's target turn count decides.
	TurnBudget int
	// Seed drives goal candidate sampling.
	Seed int64

	TurnTimeout    time.Duration // Ordinary turn calls, default 120s
	GoalTimeout    time.Duration // Goal inference call, default 180s
	ProfileTimeout time.Duration // Profiling call, defaults to TurnTimeout
}

func (c *Config) applyDefaults() {
	if c.TurnTimeout <= 0 {
		c.TurnTimeout = 120 * time.Second
	}
	if c.GoalTimeout <= 0 {
		c.GoalTimeout = 180 * time.Second
	}
	if c.ProfileTimeout <= 0 {
		c.ProfileTimeout = c.TurnTimeout
	}
}

// Input is everything one conversation needs from the dataset.
type Input struct {
	UserID       string
	Demographics profile.Demographics
	Liked        []track.Track // Previously liked tracks, listener context
	Pool         []track.Track // Recommendation pool the recsys draws from
}

// Result is one fully generated conversation with its labels.
type Result struct {
	ConversationID string
	UserID         string
	Profile        profile.ListenerProfile
	Goal           goal.Goal
	Conversation   turn.Conversation
	Interactions   []agent.Interaction
	Usage          usage.Record
}

// Orchestrator generates one conversation. It is single-use: conversations
// are strictly sequential internally, and independent conversations run on
// independent orchestrators with their own pool, sessions and upload caches.
type Orchestrator struct {
	backend Backend
	audio   *artifact.Cache
	image   *artifact.Cache
	catalog *goal.Catalog
	config  Config

	state State
}

// New creates an orchestrator for one conversation. audio and image caches
// may be nil when the dataset carries no artifacts of that modality.
func New(backend Backend, audio, image *artifact.Cache, catalog *goal.Catalog, cfg Config) *Orchestrator {
	cfg.applyDefaults()
	return &Orchestrator{
		backend: backend,
		audio:   audio,
		image:   image,
		catalog: catalog,
		config:  cfg,
		state:   StateUninitialized,
	}
}

// State returns the orchestrator's current lifecycle state.
func (o *Orchestrator) State() State {
	return o.state
}

// Generate runs the full conversation lifecycle. On a turn-level failure the
// conversation generated so far is returned alongside the error; the caller
// decides whether to keep, retry or discard it.
func (o *Orchestrator) Generate(ctx context.Context, in Input) (*Result, error) {
	if o.state != StateUninitialized {
		return nil, errors.Wrapf(ErrSpent, "state %s", o.state)
	}
	if len(in.Pool) == 0 {
		return nil, errors.Wrapf(ErrEmptyPool, "user %s", in.UserID)
	}

	res := &Result{
		ConversationID: uuid.New().String(),
		UserID:         in.UserID,
	}
	zlog.Info().Msgf("generating conversation: id=%s user=%s pool=%d liked=%d",
		res.ConversationID, in.UserID, len(in.Pool), len(in.Liked))

	handles := o.uploadArtifacts(ctx, in)

	// UNINITIALIZED -> PROFILED
	profiler := agent.NewProfiler(o.backend, o.config.ProfileTimeout)
	prof, profRec, err := profiler.Profile(ctx, in.Demographics, in.Liked, handles)
	if err != nil {
		return res, errors.Wrap(err, "profiling failed")
	}
	res.Profile = prof
	res.Interactions = append(res.Interactions, profRec)
	o.state = StateProfiled

	// PROFILED -> GOAL_SET
	inferrer := agent.NewGoalInferrer(o.backend, o.catalog, o.config.Seed, o.config.GoalTimeout)
	g, goalRec, err := inferrer.Infer(ctx, in.Pool, handles)
	if err != nil {
		return res, errors.Wrap(err, "goal inference failed")
	}
	res.Goal = g
	res.Interactions = append(res.Interactions, goalRec)
	o.state = StateGoalSet
	zlog.Info().Msgf("conversation goal selected: category=%s specificity=%s resolved=%t",
		g.CategoryCode, g.SpecificityCode, g.Resolved)

	// GOAL_SET -> SESSIONS_READY
	listener := agent.NewListener(o.config.TurnTimeout)
	if err := listener.Initialize(ctx, o.backend, prof, g, in.Liked, handles); err != nil {
		return res, errors.Wrap(err, "listener initialization failed")
	}
	recsys := agent.NewRecsys(o.config.TurnTimeout)
	pool := track.NewPool(in.Pool)
	if err := recsys.Initialize(ctx, o.backend, prof, pool, handles); err != nil {
		return res, errors.Wrap(err, "recsys initialization failed")
	}
	o.state = StateSessionsReady

	// SESSIONS_READY -> TURN_LOOP
	listenerTurn, err := listener.OpeningTurn(ctx)
	if err != nil {
		return res, errors.Wrap(err, "opening turn failed")
	}
	o.state = StateTurnLoop

	budget := o.config.TurnBudget
	if budget <= 0 {
		budget = g.TargetTurnCount
	}

	err = o.runTurnLoop(ctx, res, listener, recsys, pool, listenerTurn, budget)

	res.Interactions = append(res.Interactions, listener.Interactions()...)
	res.Interactions = append(res.Interactions, recsys.Interactions()...)
	for _, rec := range res.Interactions {
		res.Usage = res.Usage.Add(rec.Usage)
	}

	if err != nil {
		return res, err
	}
	o.state = StateDone
	zlog.Info().Msgf("conversation done: id=%s turns=%d input_tokens=%d output_tokens=%d",
		res.ConversationID, len(res.Conversation), res.Usage.TotalInputTokens(), res.Usage.OutputTokens)
	return res, nil
}

// runTurnLoop generates turns until the budget is exhausted or the pool
// empties. Listener turns run one step ahead: turn k pairs the reaction to
// turn k-1's recommendation (the opening turn, for k=1) with the recsys turn
// of iteration k.
func (o *Orchestrator) runTurnLoop(
	ctx context.Context,
	res *Result,
	listener *agent.Listener,
	recsys *agent.Recsys,
	pool *track.Pool,
	listenerTurn turn.ListenerTurn,
	budget int,
) error {
	for turnNum := 1; turnNum <= budget; turnNum++ {
		if pool.Empty() {
			zlog.Info().Msgf("pool exhausted, ending conversation at turn %d", turnNum-1)
			return nil
		}

		recsysTurn, err := recsys.Recommend(ctx, turnNum, res.Conversation, pool, listenerTurn.Message)
		// A failed turn still carries its outcome code into the partial
		// conversation the caller receives.
		res.Conversation = append(res.Conversation, turn.ConversationTurn{
			TurnNumber: turnNum,
			Listener:   listenerTurn,
			Recsys:     recsysTurn,
		})
		if err != nil {
			return errors.Wrapf(err, "recommendation failed at turn %d", turnNum)
		}
		if recsysTurn.Track != nil {
			pool.Remove(recsysTurn.Track.ID)
		}

		// A reaction is only requested when there is a recommendation to
		// react to and another iteration will consume it.
		if turnNum < budget && recsysTurn.Track != nil && !pool.Empty() {
			listenerTurn, err = listener.Reaction(ctx, turnNum+1, *recsysTurn.Track, recsysTurn.Message)
			if err != nil {
				return errors.Wrapf(err, "listener reaction failed at turn %d", turnNum+1)
			}
		}
	}
	return nil
}

// uploadArtifacts uploads the audio and image artifacts of every track the
// conversation may reference. Uploads are cached per orchestrator; failures
// are logged inside the caches and the conversation proceeds text-only for
// the affected tracks.
func (o *Orchestrator) uploadArtifacts(ctx context.Context, in Input) agent.Handles {
	all := make([]track.Track, 0, len(in.Liked)+len(in.Pool))
	all = append(all, in.Liked...)
	all = append(all, in.Pool...)

	var handles agent.Handles
	if o.audio != nil {
		handles.Audio = o.audio.BatchUpload(ctx, all)
	}
	if o.image != nil {
		handles.Image = o.image.BatchUpload(ctx, all)
	}
	return handles
}
