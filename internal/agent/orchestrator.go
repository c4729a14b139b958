// Package agent runs the bounded tool-calling loop between the chat model
// and the Congress.gov tool catalog.
package agent

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"sync"
	"sync/atomic"
	"time"

	"github.com/cockroachdb/errors"
	"github.com/legisai/legisai/internal/llm"
	"github.com/legisai/legisai/internal/service"
	"github.com/legisai/legisai/internal/telemetry"
	"github.com/legisai/legisai/internal/tools"
	"github.com/rs/zerolog/log"
)

var (
	ErrProtocolAnomaly = errors.New("empty model output")
	ErrExhaustedTurns  = errors.New("turn budget exhausted")
)

const DefaultMaxTurns = 5

// State of the turn loop for one query
type State int

const (
	StateAwaitingModel State = iota
	StateExecutingTools
	StateDone
	StateExhausted
)

func (s State) String() string {
	switch s {
	case StateAwaitingModel:
		return "awaiting_model_response"
	case StateExecutingTools:
		return "executing_tools"
	case StateDone:
		return "done"
	case StateExhausted:
		return "exhausted"
	}
	return fmt.Sprintf("state(%d)", int(s))
}

// TurnBudget bounds the tool-enabled model turns of one query
type TurnBudget struct {
	Max   int
	Count int
}

func (b TurnBudget) Exhausted() bool { return b.Count >= b.Max }

// Forcer decides whether a direct answer must be replaced by a tool call
type Forcer interface {
	Decide(query string) service.Decision
}

// ToolDispatcher executes one tool call and returns its result text
type ToolDispatcher interface {
	Dispatch(ctx context.Context, name string, args json.RawMessage) (string, error)
}

// Options tune the loop
type Options struct {
	MaxTurns      int
	WarningMarker string
	SystemPrompt  string
}

// Agent holds what every session shares: the model, the frozen catalog,
// the dispatcher and the forcer.
type Agent struct {
	model        llm.ChatModel
	dispatcher   ToolDispatcher
	catalog      []tools.Spec
	forcer       Forcer
	sink         telemetry.Sink
	fallback     Fallback
	maxTurns     int
	systemPrompt string
}

func New(model llm.ChatModel, dispatcher ToolDispatcher, catalog []tools.Spec, forcer Forcer, sink telemetry.Sink, opts Options) *Agent {
	if opts.MaxTurns <= 0 {
		opts.MaxTurns = DefaultMaxTurns
	}
	if opts.SystemPrompt == "" {
		opts.SystemPrompt = systemPrompt
	}
	if sink == nil {
		sink = telemetry.Nop{}
	}
	return &Agent{
		model:        model,
		dispatcher:   dispatcher,
		catalog:      catalog,
		forcer:       forcer,
		sink:         sink,
		fallback:     NewFallback(opts.WarningMarker),
		maxTurns:     opts.MaxTurns,
		systemPrompt: opts.SystemPrompt,
	}
}

func (a *Agent) Catalog() []tools.Spec { return a.catalog }

func (a *Agent) ModelName() string { return a.model.Name() }

// NewSession starts an empty conversation
func (a *Agent) NewSession(id string) *Session {
	s := &Session{id: id, agent: a, chat: a.model.NewSession(a.systemPrompt)}
	s.touch()
	return s
}

// Outcome describes how a query was answered
type Outcome struct {
	Answer    string
	State     State
	Turns     int
	ToolsUsed []string
	Fallback  Tier
	Reason    string
}

func (o Outcome) Degraded() bool { return o.Fallback != TierNone }

// Session owns one conversation. Queries on a session run one at a time.
type Session struct {
	id    string
	agent *Agent

	mu   sync.Mutex
	chat llm.ChatSession
	conv Conversation

	lastUsed atomic.Int64
}

func (s *Session) ID() string { return s.id }

func (s *Session) touch() { s.lastUsed.Store(time.Now().UnixNano()) }

func (s *Session) LastUsed() time.Time { return time.Unix(0, s.lastUsed.Load()) }

// ProcessQuery answers text, using the tool loop when useTools is set.
func (s *Session) ProcessQuery(ctx context.Context, text string, useTools bool) (string, error) {
	out, err := s.Ask(ctx, text, useTools)
	return out.Answer, err
}

// Ask is ProcessQuery with the details of how the answer was reached.
func (s *Session) Ask(ctx context.Context, text string, useTools bool) (Outcome, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.touch()
	defer s.touch()

	if telemetry.CorrelationID(ctx) == "" {
		ctx = telemetry.WithCorrelationID(ctx, "")
	}
	start := time.Now()

	var (
		out Outcome
		err error
	)
	if useTools {
		out, err = s.loop(ctx, text)
	} else {
		out, err = s.direct(ctx, text)
	}
	if err != nil {
		s.closeOutstanding(err)
	}

	s.emit(ctx, telemetry.Event{
		Kind:       telemetry.KindQueryCompleted,
		Turn:       out.Turns,
		Success:    err == nil,
		Reason:     out.Reason,
		DurationMs: time.Since(start).Milliseconds(),
		Fields: map[string]any{
			"state":      out.State.String(),
			"fallback":   string(out.Fallback),
			"tools_used": out.ToolsUsed,
			"use_tools":  useTools,
		},
	})

	logEvent := log.Info()
	if err != nil {
		logEvent = log.Warn().Err(err)
	}
	logEvent.
		Str("session_id", s.id).
		Str("correlation_id", telemetry.CorrelationID(ctx)).
		Str("state", out.State.String()).
		Int("turns", out.Turns).
		Str("fallback", string(out.Fallback)).
		Dur("duration", time.Since(start)).
		Msg("query completed")
	return out, err
}

// Reset clears the conversation and the model-side history
func (s *Session) Reset() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.conv.Reset()
	s.chat.Reset()
	s.touch()
}

// Messages returns a snapshot of the conversation
func (s *Session) Messages() []Message {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.conv.Messages()
}

func (s *Session) direct(ctx context.Context, text string) (Outcome, error) {
	out := Outcome{State: StateAwaitingModel}
	s.conv.AppendUser(text)
	s.chat.AppendUserMessage(text)

	answer, err := s.chat.Generate(ctx)
	if err != nil {
		return out, err
	}
	s.conv.AppendAssistant(answer, nil)
	out.State = StateDone
	out.Answer = answer
	return out, nil
}

func (s *Session) loop(ctx context.Context, query string) (Outcome, error) {
	a := s.agent
	out := Outcome{State: StateAwaitingModel}
	budget := TurnBudget{Max: a.maxTurns}
	// tool results produced for this query; the forcer only runs before the first
	produced := 0
	forced := 0

	s.conv.AppendUser(query)
	s.chat.AppendUserMessage(query)

	for !budget.Exhausted() {
		if err := ctx.Err(); err != nil {
			return out, err
		}
		out.State = StateAwaitingModel
		turn := budget.Count + 1

		reply, err := s.chat.GenerateWithTools(ctx, a.catalog)
		if err != nil {
			return out, err
		}

		if len(reply.ToolCalls) == 0 {
			if strings.TrimSpace(reply.Text) == "" {
				s.turnSummary(ctx, turn, 0, 0, ErrProtocolAnomaly.Error())
				return s.exhausted(ctx, out, query, ErrProtocolAnomaly)
			}

			if produced == 0 && a.forcer != nil {
				d := a.forcer.Decide(query)
				s.emit(ctx, telemetry.Event{
					Kind:    telemetry.KindForcedTool,
					Turn:    turn,
					Tool:    d.ToolName,
					Success: d.Force,
					Reason:  d.Rationale,
				})
				if d.Force {
					forced++
					call := tools.Call{ID: fmt.Sprintf("forced-%d", forced), Name: d.ToolName, Args: d.Args}
					log.Info().
						Str("session_id", s.id).
						Str("tool", d.ToolName).
						Str("rationale", d.Rationale).
						Msg("forcing tool call over direct answer")

					out.State = StateExecutingTools
					s.conv.AppendAssistant(reply.Text, []tools.Call{call})
					res, err := s.execute(ctx, turn, call)
					if err != nil {
						return out, err
					}
					out.ToolsUsed = append(out.ToolsUsed, call.Name)
					produced++
					budget.Count++
					out.Turns = budget.Count
					s.turnSummary(ctx, turn, 1, failed(res), "forced")

					if res.Err != nil {
						return s.respondWithFallback(ctx, out, TierA, query, "forced tool call failed")
					}
					continue
				}
			}

			s.conv.AppendAssistant(reply.Text, nil)
			out.State = StateDone
			out.Answer = reply.Text
			return out, nil
		}

		out.State = StateExecutingTools
		s.conv.AppendAssistant(reply.Text, reply.ToolCalls)
		failures := 0
		for _, call := range reply.ToolCalls {
			res, err := s.execute(ctx, turn, call)
			if err != nil {
				return out, err
			}
			out.ToolsUsed = append(out.ToolsUsed, call.Name)
			produced++
			failures += failed(res)
		}
		budget.Count++
		out.Turns = budget.Count
		s.turnSummary(ctx, turn, len(reply.ToolCalls), failures, "")
	}

	return s.exhausted(ctx, out, query, ErrExhaustedTurns)
}

// execute dispatches one call and appends its result to both histories.
// Dispatch failures become error text; only cancellation is returned.
func (s *Session) execute(ctx context.Context, turn int, call tools.Call) (tools.Result, error) {
	s.emit(ctx, telemetry.Event{
		Kind:   telemetry.KindToolCallIssued,
		Turn:   turn,
		Tool:   call.Name,
		CallID: call.ID,
		Fields: map[string]any{"args": string(call.Args)},
	})

	start := time.Now()
	text, err := s.agent.dispatcher.Dispatch(ctx, call.Name, call.Args)
	if ctxErr := ctx.Err(); ctxErr != nil {
		return tools.Result{}, ctxErr
	}

	res := tools.Result{CallID: call.ID, Name: call.Name, Text: text, Err: err}
	if err != nil {
		res.Text = tools.ErrorText(err)
	}
	if appendErr := s.conv.AppendToolResult(res); appendErr != nil {
		return res, appendErr
	}
	s.chat.AppendToolResult(res)

	ev := telemetry.Event{
		Kind:       telemetry.KindToolCallResult,
		Turn:       turn,
		Tool:       call.Name,
		CallID:     call.ID,
		Success:    err == nil,
		DurationMs: time.Since(start).Milliseconds(),
		Fields:     map[string]any{"bytes": len(res.Text)},
	}
	if err != nil {
		ev.Reason = err.Error()
	}
	s.emit(ctx, ev)
	return res, nil
}

func (s *Session) exhausted(ctx context.Context, out Outcome, query string, cause error) (Outcome, error) {
	out.State = StateExhausted
	return s.respondWithFallback(ctx, out, TierB, query, cause.Error())
}

func (s *Session) respondWithFallback(ctx context.Context, out Outcome, tier Tier, query, reason string) (Outcome, error) {
	out.Reason = reason
	s.emit(ctx, telemetry.Event{
		Kind:   telemetry.KindFallback,
		Turn:   out.Turns,
		Reason: reason,
		Fields: map[string]any{"tier": string(tier)},
	})
	log.Warn().
		Str("session_id", s.id).
		Str("tier", string(tier)).
		Str("reason", reason).
		Msg("answering without tool data")

	answer, err := s.agent.fallback.Respond(ctx, tier, s.chat, &s.conv, query)
	if err != nil {
		return out, err
	}
	if tier == TierA {
		out.State = StateDone
	}
	out.Fallback = tier
	out.Answer = answer
	return out, nil
}

// closeOutstanding answers calls abandoned by an aborted query on the model
// side only, so the provider history stays well formed for the next query.
func (s *Session) closeOutstanding(cause error) {
	for _, c := range s.conv.Outstanding() {
		s.chat.AppendToolResult(tools.Result{
			CallID: c.ID,
			Name:   c.Name,
			Text:   tools.ErrorText(errors.Wrap(cause, "query aborted")),
			Err:    cause,
		})
	}
}

func (s *Session) turnSummary(ctx context.Context, turn, calls, failures int, reason string) {
	s.emit(ctx, telemetry.Event{
		Kind:    telemetry.KindTurnSummary,
		Turn:    turn,
		Success: failures == 0,
		Reason:  reason,
		Fields:  map[string]any{"tool_calls": calls, "failures": failures},
	})
}

func (s *Session) emit(ctx context.Context, ev telemetry.Event) {
	ev.Time = time.Now()
	ev.SessionID = s.id
	ev.CorrelationID = telemetry.CorrelationID(ctx)
	s.agent.sink.Record(ctx, ev)
}

func failed(res tools.Result) int {
	if res.Err != nil {
		return 1
	}
	return 0
}
