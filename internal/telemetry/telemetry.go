// Package telemetry records purely observational events emitted by the turn
// loop. Sinks never feed anything back into loop control: failures are
// logged and swallowed.
package telemetry

import (
	"context"
	"time"

	"github.com/google/uuid"
)

// Kind names an event type
type Kind string

const (
	KindToolCallIssued Kind = "tool_call_issued"
	KindToolCallResult Kind = "tool_call_result"
	KindForcedTool     Kind = "forced_tool_decision"
	KindTurnSummary    Kind = "turn_summary"
	KindFallback       Kind = "fallback_triggered"
	KindQueryCompleted Kind = "query_completed"
)

// Event is one structured telemetry record
type Event struct {
	Kind          Kind           `json:"kind"`
	Time          time.Time      `json:"time"`
	SessionID     string         `json:"session_id"`
	CorrelationID string         `json:"correlation_id"`
	Turn          int            `json:"turn"`
	Tool          string         `json:"tool,omitempty"`
	CallID        string         `json:"call_id,omitempty"`
	Success       bool           `json:"success"`
	Reason        string         `json:"reason,omitempty"`
	DurationMs    int64          `json:"duration_ms,omitempty"`
	Fields        map[string]any `json:"fields,omitempty"`
}

// Sink receives telemetry events
type Sink interface {
	Record(ctx context.Context, ev Event)
}

// Nop discards every event
type Nop struct{}

func (Nop) Record(context.Context, Event) {}

// Multi fans one event out to every sink in order
type Multi []Sink

func (m Multi) Record(ctx context.Context, ev Event) {
	for _, s := range m {
		s.Record(ctx, ev)
	}
}

type correlationKey struct{}

// WithCorrelationID returns a context carrying id, generating one when id is empty.
func WithCorrelationID(ctx context.Context, id string) context.Context {
	if id == "" {
		id = uuid.NewString()
	}
	return context.WithValue(ctx, correlationKey{}, id)
}

// CorrelationID returns the id attached by WithCorrelationID, or "".
func CorrelationID(ctx context.Context) string {
	id, _ := ctx.Value(correlationKey{}).(string)
	return id
}
