// Package llm provides the chat model capability used by the simulated
// agents, backed by an eino chat model (OpenAI-compatible by default).
package llm

import (
	"context"
	"time"

	"github.com/cloudwego/eino-ext/components/model/openai"
	"github.com/cloudwego/eino/components/model"
	"github.com/cloudwego/eino/schema"
	"github.com/cockroachdb/errors"

	"github.com/osa030/duetgen/internal/domain/usage"
)

// ErrTimeout marks a model or upload call that exceeded its time budget.
// Call-local: the triggering turn is treated as absent, the conversation
// itself is not aborted here.
var ErrTimeout = errors.New("model call timed out")

// Part is one content part of a model request: either plain text or a
// previously uploaded media handle.
type Part struct {
	Text  string
	Media *MediaHandle
}

// TextPart creates a text content part.
func TextPart(text string) Part {
	return Part{Text: text}
}

// MediaPart creates a content part referencing an uploaded media handle.
func MediaPart(h *MediaHandle) Part {
	return Part{Media: h}
}

// Reply is the outcome of one model call.
type Reply struct {
	Text  string
	Usage usage.Record
}

// Config represents chat model configuration.
type Config struct {
	APIKey  string
	Model   string
	BaseURL string
}

// Client wraps an eino chat model with bounded-wait calls.
type Client struct {
	chatModel model.BaseChatModel
	timeout   time.Duration
}

// New creates a client backed by an OpenAI-compatible chat model.
func New(ctx context.Context, cfg Config, timeout time.Duration) (*Client, error) {
	if cfg.APIKey == "" {
		return nil, errors.New("model API key is required")
	}
	if cfg.Model == "" {
		return nil, errors.New("model name is required")
	}

	cm, err := openai.NewChatModel(ctx, &openai.ChatModelConfig{
		APIKey:  cfg.APIKey,
		Model:   cfg.Model,
		BaseURL: cfg.BaseURL,
	})
	if err != nil {
		return nil, errors.Wrap(err, "failed to create chat model")
	}
	return NewWithModel(cm, timeout), nil
}

// NewWithModel creates a client around an existing chat model.
// Used by tests to inject a fake model.
func NewWithModel(cm model.BaseChatModel, timeout time.Duration) *Client {
	if timeout <= 0 {
		timeout = 120 * time.Second
	}
	return &Client{chatModel: cm, timeout: timeout}
}

// Generate performs a stateless single-shot call: system instruction plus one
// user message built from parts. The call is bounded by the given timeout
// (the client default when zero); exceeding it returns ErrTimeout.
func (c *Client) Generate(ctx context.Context, system string, parts []Part, timeout time.Duration) (Reply, error) {
	messages := make([]*schema.Message, 0, 2)
	if system != "" {
		messages = append(messages, schema.SystemMessage(system))
	}
	messages = append(messages, userMessage(parts))
	return c.generate(ctx, messages, timeout)
}

// NewSession creates a stateful multi-turn session seeded with the given
// system instruction.
func (c *Client) NewSession(system string) *Session {
	s := &Session{client: c}
	if system != "" {
		s.history = append(s.history, schema.SystemMessage(system))
	}
	return s
}

func (c *Client) generate(ctx context.Context, messages []*schema.Message, timeout time.Duration) (Reply, error) {
	if timeout <= 0 {
		timeout = c.timeout
	}
	callCtx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	resp, err := c.chatModel.Generate(callCtx, messages)
	if err != nil {
		if errors.Is(callCtx.Err(), context.DeadlineExceeded) {
			return Reply{}, errors.Wrapf(ErrTimeout, "after %s", timeout)
		}
		return Reply{}, errors.Wrap(err, "model call failed")
	}
	return Reply{Text: resp.Content, Usage: extractUsage(resp)}, nil
}

// userMessage converts parts into a single user message. Plain text stays in
// Content; any media switches the message to multi-content parts.
func userMessage(parts []Part) *schema.Message {
	hasMedia := false
	for _, p := range parts {
		if p.Media != nil {
			hasMedia = true
			break
		}
	}

	if !hasMedia {
		text := ""
		for _, p := range parts {
			if p.Text != "" {
				if text != "" {
					text += "\n"
				}
				text += p.Text
			}
		}
		return schema.UserMessage(text)
	}

	content := make([]schema.ChatMessagePart, 0, len(parts))
	for _, p := range parts {
		switch {
		case p.Media != nil:
			content = append(content, p.Media.messagePart())
		case p.Text != "":
			content = append(content, schema.ChatMessagePart{
				Type: schema.ChatMessagePartTypeText,
				Text: p.Text,
			})
		}
	}
	return &schema.Message{Role: schema.User, MultiContent: content}
}

// extractUsage normalizes response usage metadata. Missing metadata yields
// the all-zero record. OpenAI-compatible backends report no per-modality
// breakdown, so prompt tokens are attributed to text.
func extractUsage(resp *schema.Message) usage.Record {
	if resp == nil || resp.ResponseMeta == nil || resp.ResponseMeta.Usage == nil {
		return usage.Record{}
	}
	u := resp.ResponseMeta.Usage
	return usage.FromDetails(u.PromptTokens, u.CompletionTokens, nil, nil)
}
