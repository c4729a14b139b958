package models

// HealthResponse is returned by GET /health
type HealthResponse struct {
	Status  string            `json:"status"`
	Version string            `json:"version"`
	Checks  map[string]string `json:"checks,omitempty"`
}

// ChatResponse is returned by POST /api/v1/chat
type ChatResponse struct {
	Status    string   `json:"status"`
	SessionID string   `json:"session_id"`
	Answer    string   `json:"answer"`
	Degraded  bool     `json:"degraded"`
	Fallback  string   `json:"fallback,omitempty"`
	Turns     int      `json:"turns"`
	ToolsUsed []string `json:"tools_used,omitempty"`
}

// ToolInfo describes one entry of the tool catalog
type ToolInfo struct {
	Name        string         `json:"name"`
	Description string         `json:"description"`
	Parameters  map[string]any `json:"parameters"`
}

// ToolsResponse is returned by GET /api/v1/tools
type ToolsResponse struct {
	Status string     `json:"status"`
	Tools  []ToolInfo `json:"tools"`
}

// SessionResponse is returned by session management endpoints
type SessionResponse struct {
	Status    string `json:"status"`
	SessionID string `json:"session_id"`
}

// ToolCallInfo is one tool call issued by the assistant
type ToolCallInfo struct {
	ID        string `json:"id"`
	Name      string `json:"name"`
	Arguments string `json:"arguments"`
}

// MessageInfo is one entry of a session's conversation
type MessageInfo struct {
	Role       string         `json:"role"`
	Content    string         `json:"content"`
	ToolCallID string         `json:"tool_call_id,omitempty"`
	ToolName   string         `json:"tool_name,omitempty"`
	ToolCalls  []ToolCallInfo `json:"tool_calls,omitempty"`
}

// MessagesResponse is returned by GET /api/v1/sessions/{id}/messages
type MessagesResponse struct {
	Status    string        `json:"status"`
	SessionID string        `json:"session_id"`
	Messages  []MessageInfo `json:"messages"`
}
