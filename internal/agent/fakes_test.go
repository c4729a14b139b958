package agent_test

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/legisai/legisai/internal/agent"
	"github.com/legisai/legisai/internal/llm"
	"github.com/legisai/legisai/internal/service"
	"github.com/legisai/legisai/internal/service/servicetest"
	"github.com/legisai/legisai/internal/telemetry"
	"github.com/legisai/legisai/internal/tools"
	"github.com/stretchr/testify/require"
)

const marker = "⚠️ Note: Unable to retrieve current data. This answer may be outdated."

// scriptedChat replays canned replies. Once the script runs out, next()
// supplies the reply for every further tool-enabled turn.
type scriptedChat struct {
	mu sync.Mutex

	script []llm.Reply
	next   func(turn int) llm.Reply
	plain  string

	toolsErr error
	plainErr error

	withTools int
	generate  int
	users     []string
	results   []tools.Result
	resets    int
}

func (c *scriptedChat) AppendUserMessage(text string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.users = append(c.users, text)
}

func (c *scriptedChat) AppendToolResult(res tools.Result) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.results = append(c.results, res)
}

func (c *scriptedChat) Generate(ctx context.Context) (string, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.generate++
	if c.plainErr != nil {
		return "", c.plainErr
	}
	if err := ctx.Err(); err != nil {
		return "", err
	}
	return c.plain, nil
}

func (c *scriptedChat) GenerateWithTools(ctx context.Context, _ []tools.Spec) (llm.Reply, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.withTools++
	if c.toolsErr != nil {
		return llm.Reply{}, c.toolsErr
	}
	if err := ctx.Err(); err != nil {
		return llm.Reply{}, err
	}
	if len(c.script) > 0 {
		r := c.script[0]
		c.script = c.script[1:]
		return r, nil
	}
	if c.next != nil {
		return c.next(c.withTools), nil
	}
	return llm.Reply{}, nil
}

func (c *scriptedChat) Reset() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.resets++
	c.users = nil
	c.results = nil
}

func (c *scriptedChat) counts() (withTools, generate int) {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.withTools, c.generate
}

type scriptedModel struct {
	chat *scriptedChat
}

func (m *scriptedModel) NewSession(string) llm.ChatSession { return m.chat }
func (m *scriptedModel) Name() string { return "scripted" }

type harness struct {
	chat     *scriptedChat
	congress *servicetest.FakeCongress
	rec      *telemetry.Recorder
	agent    *agent.Agent
}

func newHarness(t *testing.T, chat *scriptedChat, congress *servicetest.FakeCongress) *harness {
	t.Helper()
	if congress == nil {
		congress = &servicetest.FakeCongress{}
	}
	reg, err := tools.NewRegistry(congress)
	require.NoError(t, err)

	rec := telemetry.NewRecorder()
	a := agent.New(
		&scriptedModel{chat: chat},
		tools.NewDispatcher(reg, time.Second),
		reg.List(),
		service.NewKeywordForcer(119),
		rec,
		agent.Options{MaxTurns: 5, WarningMarker: marker},
	)
	return &harness{chat: chat, congress: congress, rec: rec, agent: a}
}

func call(id, name, args string) tools.Call {
	return tools.Call{ID: id, Name: name, Args: []byte(args)}
}
