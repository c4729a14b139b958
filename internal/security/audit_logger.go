package security

import (
	"crypto/sha256"
	"fmt"

	"github.com/rs/zerolog/log"
)

// AuditLogger logs chat requests with hashed message and key identifiers
type AuditLogger struct {
	enabled bool
}

func NewAuditLogger(enabled bool) *AuditLogger {
	return &AuditLogger{enabled: enabled}
}

// ChatAudit is one finished chat request
type ChatAudit struct {
	SessionID  string
	Message    string
	APIKey     string
	UseTools   bool
	Turns      int
	ToolsUsed  []string
	Fallback   string
	DurationMs int64
	Err        error
}

func (a *AuditLogger) LogChat(e ChatAudit) {
	if !a.enabled {
		return
	}

	evt := log.Info().
		Str("event", "chat_audit").
		Str("session_id", e.SessionID).
		Str("message_hash", hashStr(e.Message)[:16]).
		Bool("use_tools", e.UseTools).
		Int("turns", e.Turns).
		Strs("tools_used", e.ToolsUsed).
		Int64("execution_time_ms", e.DurationMs).
		Bool("success", e.Err == nil)

	if e.APIKey != "" {
		evt = evt.Str("api_key_hash", hashStr(e.APIKey)[:16])
	}
	if e.Fallback != "" {
		evt = evt.Str("fallback", e.Fallback)
	}
	if e.Err != nil {
		evt = evt.Str("error", e.Err.Error())
	}
	evt.Msg("audit")
}

// LogRejected records a message refused before it reached the model
func (a *AuditLogger) LogRejected(sessionID, message, apiKey, reason string) {
	if !a.enabled {
		return
	}
	log.Warn().
		Str("event", "chat_rejected").
		Str("session_id", sessionID).
		Str("message_hash", hashStr(message)[:16]).
		Str("api_key_hash", hashStr(apiKey)[:16]).
		Str("reason", reason).
		Msg("audit")
}

func hashStr(s string) string {
	h := sha256.Sum256([]byte(s))
	return fmt.Sprintf("%x", h)
}
