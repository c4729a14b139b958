package llm

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/anthropics/anthropic-sdk-go"
	"github.com/anthropics/anthropic-sdk-go/option"
	"github.com/legisai/legisai/internal/tools"
	"github.com/rs/zerolog/log"
)

// AnthropicModel talks to Claude, or a compatible provider, over the Messages API
type AnthropicModel struct {
	client    *anthropic.Client
	model     string
	maxTokens int
	timeout   time.Duration
}

var _ ChatModel = (*AnthropicModel)(nil)

// NewAnthropicModel creates the model; baseURL may be empty for the default endpoint.
func NewAnthropicModel(apiKey, model, baseURL string, maxTokens int, timeout time.Duration, extra ...option.RequestOption) *AnthropicModel {
	if model == "" {
		model = "claude-sonnet-4-5"
	}
	if maxTokens <= 0 {
		maxTokens = 4096
	}
	opts := []option.RequestOption{option.WithAPIKey(apiKey)}
	if baseURL != "" {
		opts = append(opts, option.WithBaseURL(baseURL))
	}
	opts = append(opts, extra...)
	return &AnthropicModel{
		client:    anthropic.NewClient(opts...),
		model:     model,
		maxTokens: maxTokens,
		timeout:   timeout,
	}
}

func (m *AnthropicModel) Name() string { return m.model }

func (m *AnthropicModel) NewSession(systemPrompt string) ChatSession {
	return &anthropicSession{model: m, system: systemPrompt, issued: map[string]bool{}}
}

type anthropicSession struct {
	model    *AnthropicModel
	system   string
	messages []anthropic.MessageParam
	// user content not yet sent; flushed as one message on the next call
	pending []anthropic.ContentBlockParamUnion
	// tool_use ids from the latest response
	issued map[string]bool
	// last tool catalog sent; history with tool blocks must keep declaring it
	toolParams []anthropic.ToolUnionUnionParam
}

func (s *anthropicSession) AppendUserMessage(text string) {
	s.pending = append(s.pending, anthropic.NewTextBlock(text))
}

func (s *anthropicSession) AppendToolResult(res tools.Result) {
	if s.issued[res.CallID] {
		s.pending = append(s.pending, anthropic.NewToolResultBlock(res.CallID, res.Text, res.Err != nil))
		return
	}
	s.pending = append(s.pending, anthropic.NewTextBlock(
		fmt.Sprintf("Result of %s (call %s):\n%s", res.Name, res.CallID, res.Text)))
}

func (s *anthropicSession) Reset() {
	s.messages = nil
	s.pending = nil
	s.issued = map[string]bool{}
	s.toolParams = nil
}

func (s *anthropicSession) Generate(ctx context.Context) (string, error) {
	resp, err := s.send(ctx, s.toolParams)
	if err != nil {
		return "", err
	}
	text, calls := splitContent(resp)
	if len(calls) > 0 {
		// a stray tool_use would need a tool_result; keep only the prose
		log.Debug().Int("tool_calls", len(calls)).Msg("ignoring tool calls on plain generate")
		if text == "" {
			text = "I could not produce an answer."
		}
		s.commit(anthropic.NewAssistantMessage(anthropic.NewTextBlock(text)), nil)
		return text, nil
	}
	s.commitReply(resp, text, nil)
	return text, nil
}

func (s *anthropicSession) GenerateWithTools(ctx context.Context, catalog []tools.Spec) (Reply, error) {
	s.toolParams = toolParams(catalog)
	resp, err := s.send(ctx, s.toolParams)
	if err != nil {
		return Reply{}, err
	}
	text, calls := splitContent(resp)
	s.commitReply(resp, text, calls)

	log.Debug().
		Str("stop_reason", string(resp.StopReason)).
		Str("text_preview", preview(text)).
		Int("tool_calls", len(calls)).
		Msg("model turn")
	return Reply{Text: text, ToolCalls: calls}, nil
}

// send flushes pending user content and calls the API. History is only
// modified by commit, so a failed call can be retried as-is.
func (s *anthropicSession) send(ctx context.Context, toolParams []anthropic.ToolUnionUnionParam) (*anthropic.Message, error) {
	if s.model.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, s.model.timeout)
		defer cancel()
	}

	messages := s.messages
	if len(s.pending) > 0 {
		messages = append(messages[:len(messages):len(messages)], anthropic.NewUserMessage(s.pending...))
	}

	params := anthropic.MessageNewParams{
		Model:     anthropic.F(anthropic.Model(s.model.model)),
		MaxTokens: anthropic.F(int64(s.model.maxTokens)),
		Messages:  anthropic.F(messages),
	}
	if len(toolParams) > 0 {
		params.Tools = anthropic.F(toolParams)
	}
	if s.system != "" {
		params.System = anthropic.F([]anthropic.TextBlockParam{
			anthropic.NewTextBlock(s.system),
		})
	}

	resp, err := s.model.client.Messages.New(ctx, params)
	if err != nil {
		return nil, err
	}
	s.messages = messages
	s.pending = nil
	return resp, nil
}

// emptyReplyText stands in for a reply without content. The API rejects
// assistant messages with no blocks or only blank text.
const emptyReplyText = "(no response)"

func (s *anthropicSession) commitReply(resp *anthropic.Message, text string, calls []tools.Call) {
	if len(calls) == 0 && strings.TrimSpace(text) == "" {
		s.commit(anthropic.NewAssistantMessage(anthropic.NewTextBlock(emptyReplyText)), nil)
		return
	}
	s.commit(resp.ToParam(), calls)
}

func (s *anthropicSession) commit(reply anthropic.MessageParam, calls []tools.Call) {
	s.messages = append(s.messages, reply)
	s.issued = make(map[string]bool, len(calls))
	for _, c := range calls {
		s.issued[c.ID] = true
	}
}

func splitContent(resp *anthropic.Message) (string, []tools.Call) {
	var (
		text  strings.Builder
		calls []tools.Call
	)
	for _, block := range resp.Content {
		switch b := block.AsUnion().(type) {
		case anthropic.TextBlock:
			text.WriteString(b.Text)
		case anthropic.ToolUseBlock:
			calls = append(calls, tools.Call{ID: b.ID, Name: b.Name, Args: b.Input})
		}
	}
	return text.String(), calls
}

func toolParams(catalog []tools.Spec) []anthropic.ToolUnionUnionParam {
	params := make([]anthropic.ToolUnionUnionParam, len(catalog))
	for i, spec := range catalog {
		params[i] = anthropic.ToolParam{
			Name:        anthropic.String(spec.Name),
			Description: anthropic.String(spec.Description),
			InputSchema: anthropic.F[interface{}](spec.Schema()),
		}
	}
	return params
}

func preview(s string) string {
	if len(s) > 80 {
		return s[:80]
	}
	return s
}
