// Package agent provides the simulated listener and recommender sessions.
package agent

import (
	"context"
	"time"

	"github.com/cockroachdb/errors"

	"github.com/osa030/duetgen/internal/domain/turn"
	"github.com/osa030/duetgen/internal/domain/usage"
	"github.com/osa030/duetgen/internal/infra/llm"
)

// ErrUninitialized marks a turn requested before session setup.
// This is a programming error: fatal, never retried or silently recovered.
var ErrUninitialized = errors.New("agent session not initialized")

// errorCode maps a model-call failure to a turn outcome code. Only timeouts
// have a dedicated code; other failures leave the code empty.
func errorCode(err error) string {
	if errors.Is(err, llm.ErrTimeout) {
		return turn.CodeTimeout
	}
	return ""
}

// ChatSession is the stateful multi-turn model conversation an agent drives.
// Implemented by llm.Session.
type ChatSession interface {
	Send(ctx context.Context, parts []llm.Part, timeout time.Duration) (llm.Reply, error)
}

// SessionStarter creates chat sessions seeded with a system instruction.
type SessionStarter interface {
	StartSession(system string) ChatSession
}

// Generator performs stateless single-shot model calls.
// Implemented by llm.Client.
type Generator interface {
	Generate(ctx context.Context, system string, parts []llm.Part, timeout time.Duration) (llm.Reply, error)
}

// Interaction is one logged prompt/response exchange of a session, kept for
// downstream inspection of generated conversations.
type Interaction struct {
	Turn     string       `json:"turn"`
	Type     string       `json:"type"`
	Prompt   string       `json:"prompt"`
	Response string       `json:"response"`
	Usage    usage.Record `json:"token_usage"`
}

// interactionLog is an append-only list of exchanges.
type interactionLog struct {
	records []Interaction
}

func (l *interactionLog) add(rec Interaction) {
	l.records = append(l.records, rec)
}

func (l *interactionLog) all() []Interaction {
	out := make([]Interaction, len(l.records))
	copy(out, l.records)
	return out
}
