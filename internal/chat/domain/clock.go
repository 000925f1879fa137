package domain

import (
	"fmt"
	"time"

	"github.com/google/uuid"
)

// Now current time at the precision both postgres and mongo keep
func Now() time.Time {
	return time.Now().UTC().Truncate(time.Millisecond)
}

// NewID time ordered identifier, ties on createdAt still follow insertion order
func NewID() string {
	id, err := uuid.NewV7()
	if err != nil {
		panic(fmt.Sprintf("uuid v7: %v", err))
	}
	return id.String()
}
