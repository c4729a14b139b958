package agent_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/legisai/legisai/internal/agent"
	"github.com/legisai/legisai/internal/tools"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"
)

func TestSessionManager_Lifecycle(t *testing.T) {
	defer goleak.VerifyNone(t)

	h := newHarness(t, &scriptedChat{plain: "hi"}, nil)
	m := agent.NewSessionManager(h.agent, time.Hour)
	defer m.Close()

	s := m.Create()
	assert.Len(t, s.ID(), 36)
	assert.Equal(t, 1, m.Len())

	got, err := m.GetOrCreate(s.ID())
	require.NoError(t, err)
	assert.Same(t, s, got)

	fresh, err := m.GetOrCreate("")
	require.NoError(t, err)
	assert.NotEqual(t, s.ID(), fresh.ID())
	assert.Equal(t, 2, m.Len())

	_, err = m.Get("missing")
	assert.True(t, errors.Is(err, agent.ErrSessionNotFound))
	assert.True(t, errors.Is(m.Reset("missing"), agent.ErrSessionNotFound))

	_, err = s.ProcessQuery(context.Background(), "hello", false)
	require.NoError(t, err)
	require.NoError(t, m.Reset(s.ID()))
	assert.Empty(t, s.Messages())

	assert.True(t, m.Delete(fresh.ID()))
	assert.False(t, m.Delete(fresh.ID()))
	assert.Equal(t, 1, m.Len())
}

func TestSessionManager_SweepEvictsIdle(t *testing.T) {
	defer goleak.VerifyNone(t)

	h := newHarness(t, &scriptedChat{}, nil)
	m := agent.NewSessionManager(h.agent, time.Minute)
	defer m.Close()

	m.Create()
	m.Create()

	assert.Equal(t, 0, m.Sweep(time.Now()))
	assert.Equal(t, 2, m.Sweep(time.Now().Add(2*time.Minute)))
	assert.Equal(t, 0, m.Len())
}

func TestSessionManager_CloseIdempotent(t *testing.T) {
	defer goleak.VerifyNone(t)

	h := newHarness(t, &scriptedChat{}, nil)
	m := agent.NewSessionManager(h.agent, 10*time.Millisecond)
	m.Close()
	m.Close()

	noSweeper := agent.NewSessionManager(h.agent, 0)
	noSweeper.Close()
	assert.Equal(t, 0, noSweeper.Sweep(time.Now().Add(time.Hour)))
}

func TestConversation_Invariant(t *testing.T) {
	var c agent.Conversation
	c.AppendUser("q")

	err := c.AppendToolResult(tools.Result{CallID: "x"})
	assert.True(t, errors.Is(err, agent.ErrOrphanToolResult))

	c.AppendAssistant("", []tools.Call{{ID: "a"}, {ID: "b"}})
	assert.True(t, errors.Is(c.AppendToolResult(tools.Result{CallID: "b"}), agent.ErrOrphanToolResult))
	require.NoError(t, c.AppendToolResult(tools.Result{CallID: "a", Text: "1"}))
	assert.Len(t, c.Outstanding(), 1)
	require.NoError(t, c.AppendToolResult(tools.Result{CallID: "b", Text: "2"}))
	assert.Empty(t, c.Outstanding())
	assert.True(t, errors.Is(c.AppendToolResult(tools.Result{CallID: "b"}), agent.ErrOrphanToolResult))

	assert.Equal(t, 4, c.Len())
	c.Reset()
	assert.Equal(t, 0, c.Len())
}

func TestTurnBudget(t *testing.T) {
	b := agent.TurnBudget{Max: 2}
	assert.False(t, b.Exhausted())
	b.Count = 2
	assert.True(t, b.Exhausted())
	assert.Equal(t, "exhausted", agent.StateExhausted.String())
}
