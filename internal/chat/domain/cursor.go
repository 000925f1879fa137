package domain

import "time"

// EpochZero last-read time of an actor who never read a session
var EpochZero = time.Unix(0, 0).UTC()

// ReadCursor last time one actor looked at a session
type ReadCursor struct {
	ID        string  `gorm:"primaryKey;type:varchar(36)" bson:"_id"`
	SessionID string  `gorm:"type:varchar(255);not null;uniqueIndex:uq_chat_read_cursors_actor,priority:1" bson:"session_id"`
	AccountID *string `gorm:"type:varchar(255)" bson:"account_id,omitempty"`
	// AccountKey is AccountID or "" so anonymous rows still collide on upsert
	AccountKey string    `gorm:"type:varchar(255);not null;uniqueIndex:uq_chat_read_cursors_actor,priority:3" bson:"account_key"`
	IsStaff    bool      `gorm:"column:is_staff_authored;not null;uniqueIndex:uq_chat_read_cursors_actor,priority:2" bson:"is_staff_authored"`
	LastReadAt time.Time `gorm:"not null" bson:"last_read_at"`
	CreatedAt  time.Time `bson:"created_at"`
	UpdatedAt  time.Time `bson:"updated_at"`
}

// TableName gorm table
func (ReadCursor) TableName() string {
	return "chat_read_cursors"
}

// NewReadCursor build the row markRead upserts
func NewReadCursor(id, sessionID string, key ActorKey, at time.Time) ReadCursor {
	return ReadCursor{
		ID:         id,
		SessionID:  sessionID,
		AccountID:  key.AccountID,
		AccountKey: key.AccountKey(),
		IsStaff:    key.Role.IsStaff(),
		LastReadAt: at,
		CreatedAt:  at,
		UpdatedAt:  at,
	}
}

// IsReadBy a message is read by an actor when it came from the other role
// and is not newer than the actor's cursor
func IsReadBy(m Message, reader ActorRole, lastReadAt time.Time) bool {
	return m.Role() != reader && !m.CreatedAt.After(lastReadAt)
}
