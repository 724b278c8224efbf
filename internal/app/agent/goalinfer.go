package agent

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/osa030/duetgen/internal/app/extract"
	"github.com/osa030/duetgen/internal/app/prompt"
	"github.com/osa030/duetgen/internal/domain/goal"
	"github.com/osa030/duetgen/internal/domain/track"
	"github.com/osa030/duetgen/internal/infra/llm"
)

// goalsToSample is how many candidate goals are offered to the model.
const goalsToSample = 3

// GoalInferrer picks the conversation goal: it samples candidate goals from
// the catalog and asks the model which one best fits the listener's pool.
type GoalInferrer struct {
	gen     Generator
	catalog *goal.Catalog
	sampler *goal.Sampler
	timeout time.Duration
}

// NewGoalInferrer creates a goal inferrer over the given catalog. seed
// drives candidate sampling; equal seeds produce equal candidates.
func NewGoalInferrer(gen Generator, catalog *goal.Catalog, seed int64, timeout time.Duration) *GoalInferrer {
	return &GoalInferrer{
		gen:     gen,
		catalog: catalog,
		sampler: goal.NewSampler(catalog, seed),
		timeout: timeout,
	}
}

// Infer selects the conversation goal given the recommendation pool the
// conversation will draw from. When the model's choice cannot be resolved
// the unknown goal is returned instead of an error.
func (g *GoalInferrer) Infer(ctx context.Context, pool []track.Track, handles Handles) (goal.Goal, Interaction, error) {
	candidates, err := g.sampler.Sample(goalsToSample)
	if err != nil {
		return goal.Goal{}, Interaction{}, err
	}

	part1, err := prompt.GoalQueryPart1.Format(map[string]string{
		"number_of_conversation_goals": fmt.Sprintf("%d", goalsToSample),
	})
	if err != nil {
		return goal.Goal{}, Interaction{}, err
	}

	var templates strings.Builder
	for i, c := range candidates {
		templates.WriteString(c.PromptString(fmt.Sprintf("### Conversation goal %d\n", i+1)))
		templates.WriteString("\n")
	}
	part2, err := prompt.GoalQueryPart2.Format(map[string]string{
		"conversation_goal_templates": templates.String(),
	})
	if err != nil {
		return goal.Goal{}, Interaction{}, err
	}

	parts := []llm.Part{llm.TextPart(part1)}
	parts = append(parts, tracksParts("## RECOMMENDATION POOL\n\n", pool,
		track.PromptOptions{LyricChars: 200}, handles)...)
	parts = append(parts, llm.TextPart(part2))

	reply, err := g.gen.Generate(ctx, "", parts, g.timeout)
	if err != nil {
		return goal.Goal{}, Interaction{}, err
	}
	rec := Interaction{Turn: "none", Type: "conversation_goal", Prompt: promptText(parts), Response: reply.Text, Usage: reply.Usage}

	parsed := extract.Fields(reply.Text, prompt.GoalQueryPart2.ExpectedFields)
	chosen := g.catalog.Resolve(
		goal.CategoryCode(strings.ToUpper(parsed["category_code"])),
		goal.SpecificityCode(strings.ToUpper(parsed["specificity_code"])),
	)
	if !chosen.Resolved {
		// No usable codes; a bare candidate number in the reply still
		// identifies a pick (candidates are presented 1-based).
		if idx := extract.ChoiceIndex(reply.Text, len(candidates)); idx > 0 {
			chosen = candidates[idx-1]
		}
	}
	return chosen, rec, nil
}
