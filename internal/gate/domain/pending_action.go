package domain

import "time"

// PendingAction is an action parked until its channel is connected.
type PendingAction struct {
	UserID     string         `json:"user_id"`
	SessionID  string         `json:"session_id"`
	ActionName string         `json:"action_name"`
	Args       map[string]any `json:"args"`
	CreatedAt  time.Time      `json:"created_at"`
}
