// Package llm adapts chat-completion providers to the conversation surface
// the agent loop drives.
package llm

import (
	"context"

	"github.com/legisai/legisai/internal/tools"
)

// Reply is one model response: text, tool calls, or both
type Reply struct {
	Text      string
	ToolCalls []tools.Call
}

// ChatModel creates independent chat sessions
type ChatModel interface {
	NewSession(systemPrompt string) ChatSession
	Name() string
}

// ChatSession holds one conversation's provider-side history.
// Implementations are not safe for concurrent use.
type ChatSession interface {
	AppendUserMessage(text string)
	// AppendToolResult records the outcome of a call. Results for ids the
	// model did not issue (forced calls) are still delivered to it.
	AppendToolResult(res tools.Result)
	// Generate asks for a plain answer; tools are never called.
	Generate(ctx context.Context) (string, error)
	GenerateWithTools(ctx context.Context, catalog []tools.Spec) (Reply, error)
	Reset()
}
