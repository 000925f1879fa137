package domain

import (
	"fmt"
	"time"
	"unicode/utf8"

	errprocess "support_chat_service/pkg/err"
)

const (
	// MaxBodyLength message body upper bound, counted in characters
	MaxBodyLength = 1000
	// MaxSessionIDLength session keys longer than this are rejected
	MaxSessionIDLength = 255
)

// Message one entry in a session's conversation, immutable once stored
type Message struct {
	ID              string    `gorm:"primaryKey;type:varchar(36)" bson:"_id" json:"id"`
	SessionID       string    `gorm:"type:varchar(255);not null;index;index:idx_chat_messages_session_created,priority:1" bson:"session_id" json:"session_id"`
	AuthorAccountID *string   `gorm:"type:varchar(255);index" bson:"author_account_id,omitempty" json:"author_account_id,omitempty"`
	IsStaffAuthored bool      `gorm:"not null" bson:"is_staff_authored" json:"is_staff_authored"`
	Body            string    `gorm:"type:text;not null" bson:"body" json:"body"`
	// OriginIP abuse and audit only, never serialized with the message
	OriginIP        *string   `gorm:"type:varchar(64)" bson:"origin_ip,omitempty" json:"-"`
	CreatedAt       time.Time `gorm:"not null;index:idx_chat_messages_session_created,priority:2" bson:"created_at" json:"created_at"`
}

// TableName gorm table
func (Message) TableName() string {
	return "chat_messages"
}

// Role author role of the message
func (m Message) Role() ActorRole {
	return RoleOf(m.IsStaffAuthored)
}

// Before total order inside a session: (createdAt, id)
func (m Message) Before(o Message) bool {
	if m.CreatedAt.Equal(o.CreatedAt) {
		return m.ID < o.ID
	}
	return m.CreatedAt.Before(o.CreatedAt)
}

// ValidateBody body must hold 1..MaxBodyLength characters
func ValidateBody(body string) error {
	n := utf8.RuneCountInString(body)
	if n == 0 {
		return errprocess.Wrap(ErrValidation, "message body is empty")
	}
	if n > MaxBodyLength {
		return errprocess.Wrap(ErrValidation, fmt.Sprintf("message body has %d characters, limit is %d", n, MaxBodyLength))
	}
	return nil
}

// ValidateSessionID session keys are opaque but must be present and bounded
func ValidateSessionID(sessionID string) error {
	if sessionID == "" {
		return errprocess.Wrap(ErrValidation, "session id is required")
	}
	if len(sessionID) > MaxSessionIDLength {
		return errprocess.Wrap(ErrValidation, "session id is too long")
	}
	return nil
}

// View which end of a session a listing starts from
type View int

const (
	// HeadView oldest messages first, up to the limit
	HeadView View = iota
	// TailView the newest messages up to the limit, still returned oldest first
	TailView
)

// ListQuery listBySession parameters
type ListQuery struct {
	View  View
	Limit int
}
