package gatesdk

import "time"

// ============================================================================
// Health
// ============================================================================

type HealthChecks struct {
	Database string `json:"database"`
	Keys     string `json:"keys,omitempty"`
}

type HealthResponse struct {
	Status  string        `json:"status"`
	Uptime  string        `json:"uptime"`
	Version string        `json:"version"`
	Checks  *HealthChecks `json:"checks,omitempty"`
}

// ============================================================================
// Channels
// ============================================================================

type ConfigureChannelRequest struct {
	Channel string            `json:"channel"`
	Config  map[string]string `json:"config"`
	UserID  string            `json:"user_id,omitempty"`
}

type ConfigureChannelResponse struct {
	Status  string `json:"status"`
	Channel string `json:"channel"`
}

// ChannelStatus is one entry of a channel listing. It never carries
// configuration.
type ChannelStatus struct {
	Status    string    `json:"status"`
	UpdatedAt time.Time `json:"updated_at"`
}

// ChannelsResponse maps channel name to its status.
type ChannelsResponse map[string]ChannelStatus

type FieldSpec struct {
	Key   string `json:"key"`
	Type  string `json:"type"`
	Label string `json:"label"`
}

type ChannelSpec struct {
	Name   string      `json:"name"`
	Title  string      `json:"title"`
	Detail string      `json:"detail"`
	Prompt string      `json:"prompt"`
	Fields []FieldSpec `json:"fields"`
}

type CatalogResponse struct {
	Channels []ChannelSpec `json:"channels"`
}

// ============================================================================
// Tools and resumption
// ============================================================================

type ToolRequest struct {
	Args      map[string]any `json:"args"`
	SessionID string         `json:"session_id,omitempty"`
	UserID    string         `json:"user_id,omitempty"`
}

// ToolResponse is either an executed result or a connection prompt.
type ToolResponse struct {
	Status string `json:"status"`
	Result any    `json:"result,omitempty"`

	RequiresConnection bool        `json:"requires_connection,omitempty"`
	Channel            string      `json:"channel,omitempty"`
	Prompt             string      `json:"prompt,omitempty"`
	Fields             []FieldSpec `json:"fields,omitempty"`
	ResumeToken        string      `json:"resume_token,omitempty"`

	ThreatLevel string `json:"threat_level"`
}

type ResumeRequest struct {
	ResumeToken string `json:"resume_token"`
}

// ConnectionDetail is the prompt of a still blocked resumption.
type ConnectionDetail struct {
	RequiresConnection bool        `json:"requires_connection"`
	Channel            string      `json:"channel"`
	Prompt             string      `json:"prompt"`
	Fields             []FieldSpec `json:"fields"`
}

type ResumeResponse struct {
	Status   string            `json:"status"`
	ToolName string            `json:"tool_name,omitempty"`
	Result   any               `json:"result,omitempty"`
	Detail   *ConnectionDetail `json:"detail,omitempty"`
}

// Status values.
const (
	StatusExecuted           = "executed"
	StatusRequiresConnection = "requires_connection"
	StatusStillBlocked       = "still_blocked"
	StatusConnected          = "connected"
)
