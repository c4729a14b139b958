package agent

import (
	"github.com/cockroachdb/errors"
	"github.com/legisai/legisai/internal/tools"
)

type Role string

const (
	RoleUser      Role = "user"
	RoleAssistant Role = "assistant"
	RoleTool      Role = "tool"
)

// Message is one entry of a conversation. Assistant messages that issued
// tool calls carry them; tool messages carry the id of the call they answer.
type Message struct {
	Role       Role         `json:"role"`
	Content    string       `json:"content"`
	ToolCallID string       `json:"tool_call_id,omitempty"`
	ToolName   string       `json:"tool_name,omitempty"`
	ToolCalls  []tools.Call `json:"tool_calls,omitempty"`
}

// ErrOrphanToolResult is returned when a tool result does not answer the
// next outstanding call of the preceding assistant message.
var ErrOrphanToolResult = errors.New("tool result does not answer the next outstanding call")

// Conversation is the ordered message history of one session.
// Every tool message directly follows the assistant message that issued its
// call or an earlier result of the same batch, in call order.
type Conversation struct {
	messages []Message
	// calls of the last assistant message still awaiting a result
	outstanding []tools.Call
}

func (c *Conversation) AppendUser(text string) {
	c.outstanding = nil
	c.messages = append(c.messages, Message{Role: RoleUser, Content: text})
}

func (c *Conversation) AppendAssistant(text string, calls []tools.Call) {
	c.outstanding = append([]tools.Call(nil), calls...)
	c.messages = append(c.messages, Message{Role: RoleAssistant, Content: text, ToolCalls: c.outstanding})
}

func (c *Conversation) AppendToolResult(res tools.Result) error {
	if len(c.outstanding) == 0 || c.outstanding[0].ID != res.CallID {
		return errors.Wrapf(ErrOrphanToolResult, "call %q", res.CallID)
	}
	c.outstanding = c.outstanding[1:]
	c.messages = append(c.messages, Message{
		Role:       RoleTool,
		Content:    res.Text,
		ToolCallID: res.CallID,
		ToolName:   res.Name,
	})
	return nil
}

// Messages returns a copy of the history
func (c *Conversation) Messages() []Message {
	return append([]Message(nil), c.messages...)
}

func (c *Conversation) Len() int { return len(c.messages) }

// Outstanding returns the calls of the last assistant message that have no
// result yet.
func (c *Conversation) Outstanding() []tools.Call {
	return append([]tools.Call(nil), c.outstanding...)
}

func (c *Conversation) Reset() {
	c.messages = nil
	c.outstanding = nil
}
