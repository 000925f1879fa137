package domain

import "time"

// SessionStatus completion flag of one conversation, absent rows mean open
type SessionStatus struct {
	ID          string     `gorm:"primaryKey;type:varchar(36)" bson:"_id" json:"-"`
	SessionID   string     `gorm:"type:varchar(255);not null;uniqueIndex" bson:"session_id" json:"session_id"`
	IsCompleted bool       `gorm:"not null" bson:"is_completed" json:"is_completed"`
	CompletedAt *time.Time `bson:"completed_at,omitempty" json:"completed_at"`
	CompletedBy *string    `gorm:"type:varchar(255)" bson:"completed_by,omitempty" json:"completed_by"`
	CreatedAt   time.Time  `bson:"created_at" json:"-"`
	UpdatedAt   time.Time  `bson:"updated_at" json:"-"`
}

// TableName gorm table
func (SessionStatus) TableName() string {
	return "chat_sessions"
}

// OpenStatus the implicit status of a session nobody has toggled
func OpenStatus(sessionID string) SessionStatus {
	return SessionStatus{SessionID: sessionID}
}

// NewSessionStatus build the row setCompleted upserts, reopening clears the stamp
func NewSessionStatus(id, sessionID string, completed bool, by string, at time.Time) SessionStatus {
	s := SessionStatus{
		ID:          id,
		SessionID:   sessionID,
		IsCompleted: completed,
		CreatedAt:   at,
		UpdatedAt:   at,
	}
	if completed {
		s.CompletedAt = &at
		s.CompletedBy = &by
	}
	return s
}
