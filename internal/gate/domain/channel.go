package domain

import "time"

type ChannelStatus string

const (
	ChannelConnected    ChannelStatus = "connected"
	ChannelDisconnected ChannelStatus = "disconnected"
)

// ChannelCredential is one vault row. Config holds provider secrets and is
// only ever handed to the caller that asked for it.
type ChannelCredential struct {
	UserID    string
	Channel   string
	Status    ChannelStatus
	Config    map[string]string
	UpdatedAt time.Time
}

// ChannelStatusInfo is the listing view of a credential. It has no field
// that could carry configuration.
type ChannelStatusInfo struct {
	Status    ChannelStatus `json:"status"`
	UpdatedAt time.Time     `json:"updated_at"`
}

type FieldType string

const (
	FieldText     FieldType = "text"
	FieldPassword FieldType = "password"
	FieldTel      FieldType = "tel"
)

// FieldSpec describes one credential input the UI must collect.
type FieldSpec struct {
	Key   string    `json:"key"`
	Type  FieldType `json:"type"`
	Label string    `json:"label"`
}

// ChannelSpec is the static description of a channel.
type ChannelSpec struct {
	Name   string      `json:"name"`
	Title  string      `json:"title"`
	Detail string      `json:"detail"`
	Prompt string      `json:"prompt"`
	Fields []FieldSpec `json:"fields"`
}
