package tools

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/cockroachdb/errors"
	"github.com/legisai/legisai/internal/telemetry"
	"github.com/rs/zerolog/log"
)

// Dispatcher executes tool calls against a frozen registry
type Dispatcher struct {
	registry *Registry
	timeout  time.Duration
}

// NewDispatcher creates a dispatcher; timeout <= 0 disables the per-call limit.
func NewDispatcher(registry *Registry, timeout time.Duration) *Dispatcher {
	return &Dispatcher{registry: registry, timeout: timeout}
}

func (d *Dispatcher) Registry() *Registry { return d.registry }

type outcome struct {
	value interface{}
	err   error
}

// Dispatch runs one call and returns the JSON text of its result.
// Recoverable failures come back as *UnknownToolError, *ArgumentParseError
// or *CollaboratorError; cancellation of ctx returns ctx.Err() and drops any
// result that arrives afterwards.
func (d *Dispatcher) Dispatch(ctx context.Context, name string, args json.RawMessage) (string, error) {
	start := time.Now()
	logger := log.With().
		Str("tool", name).
		Str("correlation_id", telemetry.CorrelationID(ctx)).
		Logger()

	tool, ok := d.registry.Lookup(name)
	if !ok {
		logger.Warn().Msg("unknown tool requested")
		return "", &UnknownToolError{Name: name}
	}

	run, err := tool.bind(args)
	if err != nil {
		logger.Warn().Err(err).RawJSON("args", safeJSON(args)).Msg("tool arguments rejected")
		return "", &ArgumentParseError{Tool: name, Err: err}
	}

	callCtx, cancel := ctx, context.CancelFunc(func() {})
	if d.timeout > 0 {
		callCtx, cancel = context.WithTimeout(ctx, d.timeout)
	}
	defer cancel()

	done := make(chan outcome, 1)
	go func() {
		defer func() {
			if r := recover(); r != nil {
				done <- outcome{err: errors.Newf("panic: %v", r)}
			}
		}()
		v, err := run(callCtx)
		done <- outcome{value: v, err: err}
	}()

	var res outcome
	select {
	case <-ctx.Done():
		logger.Info().Dur("duration", time.Since(start)).Msg("tool call abandoned")
		return "", ctx.Err()
	case <-callCtx.Done():
		if ctx.Err() != nil {
			return "", ctx.Err()
		}
		logger.Warn().Dur("timeout", d.timeout).Msg("tool call timed out")
		return "", &CollaboratorError{
			Tool: name,
			Err:  errors.Wrapf(context.DeadlineExceeded, "no response after %s", d.timeout),
		}
	case res = <-done:
	}

	if ctx.Err() != nil {
		return "", ctx.Err()
	}
	if res.err != nil {
		logger.Warn().Err(res.err).Dur("duration", time.Since(start)).Msg("tool call failed")
		return "", &CollaboratorError{Tool: name, Err: res.err}
	}

	b, err := json.Marshal(res.value)
	if err != nil {
		return "", &CollaboratorError{Tool: name, Err: fmt.Errorf("marshal result: %w", err)}
	}
	if string(b) == "null" {
		b = []byte("[]")
	}

	logger.Info().
		Dur("duration", time.Since(start)).
		Int("bytes", len(b)).
		Msg("tool call completed")
	return string(b), nil
}

// safeJSON keeps malformed model output from breaking the log line
func safeJSON(raw json.RawMessage) []byte {
	if json.Valid(raw) {
		return raw
	}
	b, _ := json.Marshal(string(raw))
	return b
}
