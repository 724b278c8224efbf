package llm

import (
	"context"
	"time"

	"github.com/cloudwego/eino/schema"
)

// Session is one stateful model conversation: an owned ordered log of
// exchanged messages plus the client handle. Each Send appends exactly two
// entries to the log, the outgoing user message and the model's reply.
// Not safe for concurrent use; turns within a conversation are sequential.
type Session struct {
	client  *Client
	history []*schema.Message
}

// Send issues one turn: the parts become a user message, the full history is
// sent to the model, and the reply is appended to the log. The call is
// bounded by timeout (client default when zero).
func (s *Session) Send(ctx context.Context, parts []Part, timeout time.Duration) (Reply, error) {
	msg := userMessage(parts)
	reply, err := s.client.generate(ctx, append(s.history, msg), timeout)
	if err != nil {
		return Reply{}, err
	}
	s.history = append(s.history, msg, schema.AssistantMessage(reply.Text, nil))
	return reply, nil
}

// Len returns the number of messages in the session log, the seeding system
// instruction included.
func (s *Session) Len() int {
	return len(s.history)
}
