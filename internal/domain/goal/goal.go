// Package goal provides the conversation goal taxonomy, catalog, and sampler.
package goal

import "fmt"

// CategoryCode identifies a conversation goal category.
type CategoryCode string

// Category codes A through K. CodeUnknown is a sentinel, never a catalog key.
const (
	CategoryA       CategoryCode = "A"
	CategoryB       CategoryCode = "B"
	CategoryC       CategoryCode = "C"
	CategoryD       CategoryCode = "D"
	CategoryE       CategoryCode = "E"
	CategoryF       CategoryCode = "F"
	CategoryG       CategoryCode = "G"
	CategoryH       CategoryCode = "H"
	CategoryI       CategoryCode = "I"
	CategoryJ       CategoryCode = "J"
	CategoryK       CategoryCode = "K"
	CategoryUnknown CategoryCode = "UNKNOWN"
)

// SpecificityCode identifies how specific the goal and item criteria are.
type SpecificityCode string

const (
	SpecificityLL      SpecificityCode = "LL"
	SpecificityLH      SpecificityCode = "LH"
	SpecificityHL      SpecificityCode = "HL"
	SpecificityHH      SpecificityCode = "HH"
	SpecificityUnknown SpecificityCode = "UNKNOWN"
)

// SelectableCategories returns all category codes valid for catalog lookup.
func SelectableCategories() []CategoryCode {
	return []CategoryCode{
		CategoryA, CategoryB, CategoryC, CategoryD, CategoryE, CategoryF,
		CategoryG, CategoryH, CategoryI, CategoryJ, CategoryK,
	}
}

// SelectableSpecificities returns all specificity codes valid for catalog lookup.
func SelectableSpecificities() []SpecificityCode {
	return []SpecificityCode{SpecificityLL, SpecificityLH, SpecificityHL, SpecificityHH}
}

// Goal represents a conversation objective for one generated conversation.
// A Goal is either fully resolved from the catalog (Resolved is true and all
// fields are populated) or it is the canonical unknown sentinel. Partially
// resolved goals never exist.
type Goal struct {
	CategoryCode           CategoryCode
	CategoryDescription    string
	SpecificityCode        SpecificityCode
	SpecificityDescription string
	ListenerGoal           string
	ListenerExpertise      string
	InitialQueryExamples   []string
	IterationQueryExamples []string
	AchievedQueryExamples  []string
	TargetTurnCount        int
	Resolved               bool
}

// Unknown returns the canonical fallback goal used when sampling or parsing
// fails. It is the only way to construct an unresolved Goal.
func Unknown() Goal {
	return Goal{
		CategoryCode:           CategoryUnknown,
		CategoryDescription:    "Unknown",
		SpecificityCode:        SpecificityUnknown,
		SpecificityDescription: "Unknown",
		ListenerGoal:           "Unknown",
		ListenerExpertise:      "Unknown",
		InitialQueryExamples:   []string{"Unknown"},
		IterationQueryExamples: []string{"Unknown"},
		AchievedQueryExamples:  []string{"Unknown"},
		TargetTurnCount:        defaultTargetTurnCount,
		Resolved:               false,
	}
}

const defaultTargetTurnCount = 8

// PromptString renders the goal as a prompt section.
func (g Goal) PromptString(title string) string {
	if title == "" {
		title = "## Conversation Goal\n\n"
	}
	return fmt.Sprintf(
		"%s- Category: %s\n- Category Description: %s\n- Specificity: %s\n- Specificity Description: %s\n"+
			"- Listener goal: %s\n- Listener expertise: %s\n- Target turn count: %d\n"+
			"- Initial query example: %s\n- Iteration query example: %s\n- Achieved query example: %s",
		title, g.CategoryCode, g.CategoryDescription, g.SpecificityCode, g.SpecificityDescription,
		g.ListenerGoal, g.ListenerExpertise, g.TargetTurnCount,
		joinExamples(g.InitialQueryExamples), joinExamples(g.IterationQueryExamples), joinExamples(g.AchievedQueryExamples),
	)
}

func joinExamples(examples []string) string {
	out := ""
	for i, ex := range examples {
		if i > 0 {
			out += ", "
		}
		out += ex
	}
	return out
}
