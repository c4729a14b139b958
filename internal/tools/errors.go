package tools

import (
	"fmt"

	"github.com/cockroachdb/errors"
)

var (
	ErrDuplicateTool  = errors.New("duplicate tool name")
	ErrRegistryFrozen = errors.New("registry is frozen")
)

// UnknownToolError is returned for a call naming a tool that is not registered
type UnknownToolError struct {
	Name string
}

func (e *UnknownToolError) Error() string {
	return fmt.Sprintf("unknown tool %q", e.Name)
}

// ArgumentParseError means the arguments were malformed JSON, carried unknown
// fields or failed validation.
type ArgumentParseError struct {
	Tool string
	Err  error
}

func (e *ArgumentParseError) Error() string {
	return fmt.Sprintf("invalid arguments for %s: %v", e.Tool, e.Err)
}

func (e *ArgumentParseError) Unwrap() error { return e.Err }

// CollaboratorError wraps a failure or timeout of the data source behind a tool
type CollaboratorError struct {
	Tool string
	Err  error
}

func (e *CollaboratorError) Error() string {
	return fmt.Sprintf("%s failed: %v", e.Tool, e.Err)
}

func (e *CollaboratorError) Unwrap() error { return e.Err }

// IsRecoverable reports whether err is a dispatch error the model should see
// as a tool result rather than one that aborts the query.
func IsRecoverable(err error) bool {
	var (
		unknown *UnknownToolError
		parse   *ArgumentParseError
		collab  *CollaboratorError
	)
	return errors.As(err, &unknown) || errors.As(err, &parse) || errors.As(err, &collab)
}

// ErrorText renders a dispatch error as tool result content.
func ErrorText(err error) string {
	if err == nil {
		return ""
	}
	return "Error: " + err.Error()
}
