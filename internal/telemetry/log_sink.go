package telemetry

import (
	"context"

	"github.com/rs/zerolog/log"
)

// LogSink writes every event to the global zerolog logger
type LogSink struct {
	enabled bool
}

func NewLogSink(enabled bool) *LogSink {
	return &LogSink{enabled: enabled}
}

// Record emits one structured log line per event
func (s *LogSink) Record(_ context.Context, ev Event) {
	if !s.enabled {
		return
	}

	evt := log.Info().
		Str("event", string(ev.Kind)).
		Str("session_id", ev.SessionID).
		Str("correlation_id", ev.CorrelationID).
		Int("turn", ev.Turn).
		Bool("success", ev.Success)

	if ev.Tool != "" {
		evt = evt.Str("tool", ev.Tool)
	}
	if ev.CallID != "" {
		evt = evt.Str("call_id", ev.CallID)
	}
	if ev.Reason != "" {
		evt = evt.Str("reason", ev.Reason)
	}
	if ev.DurationMs > 0 {
		evt = evt.Int64("duration_ms", ev.DurationMs)
	}
	if len(ev.Fields) > 0 {
		evt = evt.Fields(ev.Fields)
	}
	evt.Msg("telemetry")
}
