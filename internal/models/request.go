package models

// ChatRequest for POST /api/v1/chat
type ChatRequest struct {
	SessionID string `json:"session_id,omitempty" validate:"omitempty,max=64"`
	Message   string `json:"message" validate:"required"`
	UseTools  *bool  `json:"use_tools,omitempty"`
	// seconds, clamped by SetDefaults
	Timeout int `json:"timeout" validate:"min=10,max=600"`
}

func (r *ChatRequest) SetDefaults() {
	if r.UseTools == nil {
		useTools := true
		r.UseTools = &useTools
	}
	if r.Timeout == 0 {
		r.Timeout = 120
	}
	if r.Timeout < 10 {
		r.Timeout = 10
	}
	if r.Timeout > 600 {
		r.Timeout = 600
	}
}
