// Package orchestrator drives one conversation through its turn loop.
package orchestrator

// State represents the orchestrator's position in the conversation lifecycle.
type State int

const (
	StateUninitialized State = iota // Nothing generated yet
	StateProfiled                   // Listener profile inferred
	StateGoalSet                    // Conversation goal selected
	StateSessionsReady              // Both agent sessions initialized
	StateTurnLoop                   // Turns are being generated
	StateDone                       // Conversation complete
)

// String returns the string representation of the state.
func (s State) String() string {
	switch s {
	case StateUninitialized:
		return "uninitialized"
	case StateProfiled:
		return "profiled"
	case StateGoalSet:
		return "goal_set"
	case StateSessionsReady:
		return "sessions_ready"
	case StateTurnLoop:
		return "turn_loop"
	case StateDone:
		return "done"
	default:
		return "unknown"
	}
}
