package agent

import (
	"context"
	"fmt"
	"strings"

	"github.com/legisai/legisai/internal/llm"
)

const systemPrompt = `You are LegisAI, a research assistant for the United States Congress.

You answer questions about bills, resolutions, amendments, members, committees, nominations,
hearings and the Congressional Record using the Congress.gov tools available to you.

RULES:
1. Prefer tool data over memory for anything about the current or a recent congress
2. Cite bills by type and number (e.g. H.R. 1, S. 22) and members by full name
3. When a tool returns an error, adjust the arguments or try a different tool
4. Never invent bill numbers, vote counts or sponsor names
5. Keep answers concise and explain legislative status in plain language`

const tierAPrompt = `The data tools could not provide what is needed for this question.
Answer it from your general knowledge instead. Do not call any tools.

Question: %s`

const tierBPrompt = `Current congressional data could not be retrieved for this question.
Answer it from your general knowledge, following these rules:
- State how current your knowledge is (your training cutoff)
- Do not state bill numbers, vote counts or sponsor names you are not confident about
- Begin your reply with exactly this line: %s

Question: %s`

// Tier identifies a fallback response kind
type Tier string

const (
	TierNone Tier = ""
	TierA    Tier = "A"
	TierB    Tier = "B"
)

// Fallback produces degraded answers through the plain generate path. It
// never calls tools.
type Fallback struct {
	marker string
}

func NewFallback(marker string) Fallback {
	return Fallback{marker: marker}
}

func (f Fallback) Marker() string { return f.marker }

// Respond appends the tier's clarification prompt and asks for a plain answer.
// Model errors are returned unwrapped.
func (f Fallback) Respond(ctx context.Context, tier Tier, chat llm.ChatSession, conv *Conversation, query string) (string, error) {
	var prompt string
	switch tier {
	case TierB:
		prompt = fmt.Sprintf(tierBPrompt, f.marker, query)
	default:
		prompt = fmt.Sprintf(tierAPrompt, query)
	}

	conv.AppendUser(prompt)
	chat.AppendUserMessage(prompt)

	text, err := chat.Generate(ctx)
	if err != nil {
		return "", err
	}
	if tier == TierB {
		text = f.withMarker(text)
	}
	conv.AppendAssistant(text, nil)
	return text, nil
}

// withMarker guarantees the reply starts with the marker verbatim
func (f Fallback) withMarker(text string) string {
	trimmed := strings.TrimLeft(text, " \t\r\n")
	if f.marker == "" || strings.HasPrefix(trimmed, f.marker) {
		return trimmed
	}
	if trimmed == "" {
		return f.marker
	}
	return f.marker + "\n\n" + trimmed
}
