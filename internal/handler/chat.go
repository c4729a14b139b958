package handler

import (
	"context"
	"encoding/json"
	"net/http"
	"time"

	"github.com/cockroachdb/errors"
	"github.com/go-playground/validator/v10"
	"github.com/legisai/legisai/internal/agent"
	"github.com/legisai/legisai/internal/middleware"
	"github.com/legisai/legisai/internal/models"
	"github.com/legisai/legisai/internal/security"
)

var validate = validator.New()

// ChatHandler handles POST /api/v1/chat
type ChatHandler struct {
	sessions  *agent.SessionManager
	validator *security.PromptValidator
	pii       *security.PIIDetector // nil when detection is disabled
	audit     *security.AuditLogger
}

func NewChatHandler(
	sessions *agent.SessionManager,
	validator *security.PromptValidator,
	pii *security.PIIDetector,
	audit *security.AuditLogger,
) *ChatHandler {
	return &ChatHandler{
		sessions:  sessions,
		validator: validator,
		pii:       pii,
		audit:     audit,
	}
}

// Chat runs one user message through the session's turn loop
func (h *ChatHandler) Chat(w http.ResponseWriter, r *http.Request) {
	var req models.ChatRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		models.WriteError(w, http.StatusBadRequest, "invalid request body: "+err.Error())
		return
	}
	req.SetDefaults()
	if err := validate.Struct(&req); err != nil {
		models.WriteError(w, http.StatusBadRequest, "invalid request: "+err.Error())
		return
	}

	apiKey := middleware.APIKey(r.Context())

	if res := h.validator.Validate(req.Message); !res.Valid {
		h.audit.LogRejected(req.SessionID, req.Message, apiKey, res.Message)
		models.WriteError(w, http.StatusBadRequest, res.Message)
		return
	}
	if h.pii != nil {
		if found, kw := h.pii.Detect(req.Message); found {
			h.audit.LogRejected(req.SessionID, req.Message, apiKey, "pii: "+kw)
			models.WriteError(w, http.StatusBadRequest, "message contains sensitive information ("+kw+"); remove it and retry")
			return
		}
	}

	sess, err := h.sessions.GetOrCreate(req.SessionID)
	if err != nil {
		models.WriteError(w, http.StatusNotFound, err.Error())
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), time.Duration(req.Timeout)*time.Second)
	defer cancel()

	start := time.Now()
	out, err := sess.Ask(ctx, req.Message, *req.UseTools)
	h.audit.LogChat(security.ChatAudit{
		SessionID:  sess.ID(),
		Message:    req.Message,
		APIKey:     apiKey,
		UseTools:   *req.UseTools,
		Turns:      out.Turns,
		ToolsUsed:  out.ToolsUsed,
		Fallback:   string(out.Fallback),
		DurationMs: time.Since(start).Milliseconds(),
		Err:        err,
	})
	if err != nil {
		writeAgentError(w, sess.ID(), err)
		return
	}

	models.WriteJSON(w, http.StatusOK, models.ChatResponse{
		Status:    "success",
		SessionID: sess.ID(),
		Answer:    out.Answer,
		Degraded:  out.Degraded(),
		Fallback:  string(out.Fallback),
		Turns:     out.Turns,
		ToolsUsed: out.ToolsUsed,
	})
}

func writeAgentError(w http.ResponseWriter, sessionID string, err error) {
	code := http.StatusBadGateway
	msg := "language model request failed: " + err.Error()
	switch {
	case errors.Is(err, context.DeadlineExceeded):
		code = http.StatusGatewayTimeout
		msg = "request timed out"
	case errors.Is(err, context.Canceled):
		code = http.StatusServiceUnavailable
		msg = "request cancelled"
	}
	models.WriteJSON(w, code, models.ErrorResponse{
		Status:    "error",
		Message:   msg,
		Code:      code,
		SessionID: sessionID,
	})
}
