package domain

import "time"

// Account name and email of a storefront account
type Account struct {
	ID    string `json:"id"`
	Name  string `json:"name"`
	Email string `json:"email"`
}

// TranscriptEntry a message as one viewer sees it
type TranscriptEntry struct {
	Message
	IsRead   bool     `json:"is_read"`
	Author   *Account `json:"author,omitempty"`
	// OriginIP only filled on the staff view
	OriginIP *string  `json:"origin_ip,omitempty"`
}

// SessionSummary one inbox row
type SessionSummary struct {
	SessionID     string     `json:"session_id"`
	LastMessage   string     `json:"last_message"`
	LastMessageAt time.Time  `json:"last_message_at"`
	LastFromStaff bool       `json:"last_from_staff"`
	Customer      *Account   `json:"customer,omitempty"`
	IsCompleted   bool       `json:"is_completed"`
	CompletedAt   *time.Time `json:"completed_at,omitempty"`
	HasUnread     bool       `json:"has_unread"`
	MessageCount  int        `json:"message_count"`
}

// InboxFilter listInbox parameters, a nil ShowCompleted lists every session
type InboxFilter struct {
	Page          int
	PageSize      int
	ShowCompleted *bool
}

// Keep report whether a session with the given status passes the completion filter
func (f InboxFilter) Keep(completed bool) bool {
	if f.ShowCompleted == nil {
		return true
	}
	return *f.ShowCompleted == completed
}

// InboxPage one page of the staff inbox
type InboxPage struct {
	Sessions []SessionSummary `json:"sessions"`
	Total    int              `json:"total"`
	Page     int              `json:"page"`
	PageSize int              `json:"page_size"`
}
