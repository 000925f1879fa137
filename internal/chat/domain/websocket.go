package domain

// Action websocket action
type Action string

const (
	// NotifyMessage a message was appended to a watched session
	NotifyMessage Action = "notify_message"
	// NotifyStatus a watched session was completed or reopened
	NotifyStatus Action = "notify_status"
	// PushUnread periodic unread badge
	PushUnread Action = "unread_count"
	// PushTranscript periodic transcript of the watched session
	PushTranscript Action = "transcript"

	// SendMessage websocket action send_message
	SendMessage Action = "send_message"
	// ReadMessage websocket action read_message
	ReadMessage Action = "read_message"
)

// WSRequest websocket Request
type WSRequest struct {
	Action         string `json:"action"`
	SessionID      string `json:"session_id"`
	Content        string `json:"content"`
	IdempotencyKey string `json:"idempotency_key"`
}

// WSResponse websocket Response
type WSResponse struct {
	Action  string                 `json:"action"`
	Success bool                   `json:"success"`
	Payload map[string]interface{} `json:"payload,omitempty"`
	Error   string                 `json:"error,omitempty"`
}
