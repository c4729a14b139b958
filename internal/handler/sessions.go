package handler

import (
	"net/http"

	"github.com/cockroachdb/errors"
	"github.com/go-chi/chi/v5"
	"github.com/legisai/legisai/internal/agent"
	"github.com/legisai/legisai/internal/models"
)

// SessionHandler exposes session history and lifecycle
type SessionHandler struct {
	sessions *agent.SessionManager
}

func NewSessionHandler(sessions *agent.SessionManager) *SessionHandler {
	return &SessionHandler{sessions: sessions}
}

// Create handles POST /api/v1/sessions
func (h *SessionHandler) Create(w http.ResponseWriter, r *http.Request) {
	s := h.sessions.Create()
	models.WriteJSON(w, http.StatusCreated, models.SessionResponse{Status: "success", SessionID: s.ID()})
}

// Messages handles GET /api/v1/sessions/{id}/messages
func (h *SessionHandler) Messages(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	s, err := h.sessions.Get(id)
	if err != nil {
		writeSessionError(w, err)
		return
	}

	msgs := s.Messages()
	out := make([]models.MessageInfo, 0, len(msgs))
	for _, m := range msgs {
		info := models.MessageInfo{
			Role:       string(m.Role),
			Content:    m.Content,
			ToolCallID: m.ToolCallID,
			ToolName:   m.ToolName,
		}
		for _, c := range m.ToolCalls {
			info.ToolCalls = append(info.ToolCalls, models.ToolCallInfo{ID: c.ID, Name: c.Name, Arguments: string(c.Args)})
		}
		out = append(out, info)
	}
	models.WriteJSON(w, http.StatusOK, models.MessagesResponse{Status: "success", SessionID: id, Messages: out})
}

// Reset handles POST /api/v1/sessions/{id}/reset
func (h *SessionHandler) Reset(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	if err := h.sessions.Reset(id); err != nil {
		writeSessionError(w, err)
		return
	}
	models.WriteJSON(w, http.StatusOK, models.SessionResponse{Status: "success", SessionID: id})
}

// Delete handles DELETE /api/v1/sessions/{id}
func (h *SessionHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	if !h.sessions.Delete(id) {
		writeSessionError(w, errors.Wrapf(agent.ErrSessionNotFound, "id %q", id))
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func writeSessionError(w http.ResponseWriter, err error) {
	if errors.Is(err, agent.ErrSessionNotFound) {
		models.WriteError(w, http.StatusNotFound, err.Error())
		return
	}
	models.WriteError(w, http.StatusInternalServerError, err.Error())
}
