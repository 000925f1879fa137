package domain

import "time"

// EventType chat domain event kind
type EventType string

const (
	// EventMessageAppended a message was stored
	EventMessageAppended EventType = "message_appended"
	// EventSessionCompleted staff closed a session
	EventSessionCompleted EventType = "session_completed"
	// EventSessionReopened staff reopened a session
	EventSessionReopened EventType = "session_reopened"
	// EventSessionStatus realtime notification for either toggle
	EventSessionStatus EventType = "session_status"
)

// ChatEvent what the analytics sink receives
type ChatEvent struct {
	Type      EventType `json:"type"`
	SessionID string    `json:"session_id"`
	Role      ActorRole `json:"role"`
	AccountID *string   `json:"account_id,omitempty"`
	MessageID string    `json:"message_id,omitempty"`
	At        time.Time `json:"at"`
}

// Notification realtime fan-out payload published on redis
type Notification struct {
	Type      EventType      `json:"type"`
	SessionID string         `json:"session_id"`
	Message   *Message       `json:"message,omitempty"`
	Status    *SessionStatus `json:"status,omitempty"`
}

// SessionChannel redis channel of one conversation
func SessionChannel(sessionID string) string {
	return "chat:session:" + sessionID
}

// StaffChannel redis channel every staff socket listens on
const StaffChannel = "chat:staff"
