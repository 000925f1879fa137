package domain

import (
	"errors"
	"os"
	"strings"
	"testing"
	"time"

	"support_chat_service/pkg/logger"

	"github.com/stretchr/testify/assert"
)

func TestMain(m *testing.M) {
	logger.SetNewNop()
	os.Exit(m.Run())
}

func TestValidateBody(t *testing.T) {
	tests := []struct {
		name    string
		body    string
		wantErr bool
	}{
		{"empty", "", true},
		{"one char", "a", false},
		{"exactly limit", strings.Repeat("a", MaxBodyLength), false},
		{"over limit", strings.Repeat("a", MaxBodyLength+1), true},
		{"arabic at limit", strings.Repeat("م", MaxBodyLength), false},
		{"arabic over limit", strings.Repeat("م", MaxBodyLength+1), true},
		{"whitespace only", "   ", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateBody(tt.body)
			if tt.wantErr {
				assert.True(t, errors.Is(err, ErrValidation))
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestValidateSessionID(t *testing.T) {
	assert.ErrorIs(t, ValidateSessionID(""), ErrValidation)
	assert.ErrorIs(t, ValidateSessionID(strings.Repeat("s", MaxSessionIDLength+1)), ErrValidation)
	assert.NoError(t, ValidateSessionID("session_1712345678_ab12cd"))
}

func TestActorRole(t *testing.T) {
	assert.Equal(t, RoleStaff, RoleCustomer.Other())
	assert.Equal(t, RoleCustomer, RoleStaff.Other())
	assert.True(t, RoleStaff.IsStaff())
	assert.Equal(t, RoleStaff, RoleOf(true))
	assert.False(t, ActorRole("admin").Valid())
}

func TestActorKey(t *testing.T) {
	assert.Equal(t, "", CustomerKey(nil).AccountKey())
	assert.Equal(t, "staff-1", StaffKey("staff-1").AccountKey())

	empty := ""
	assert.False(t, Identity{AccountID: &empty, IsStaff: true}.Privileged())
	assert.False(t, Identity{IsStaff: true}.Privileged())
}

func TestIsReadBy(t *testing.T) {
	t0 := time.Date(2025, 3, 1, 10, 0, 0, 0, time.UTC)
	customerMsg := Message{ID: "a", CreatedAt: t0}
	staffMsg := Message{ID: "b", IsStaffAuthored: true, CreatedAt: t0}

	assert.True(t, IsReadBy(customerMsg, RoleStaff, t0))
	assert.False(t, IsReadBy(customerMsg, RoleStaff, t0.Add(-time.Microsecond)))
	assert.False(t, IsReadBy(customerMsg, RoleCustomer, t0.Add(time.Hour)))
	assert.True(t, IsReadBy(staffMsg, RoleCustomer, t0.Add(time.Second)))
	assert.False(t, IsReadBy(staffMsg, RoleCustomer, EpochZero))
}

func TestMessageBefore(t *testing.T) {
	t0 := time.Date(2025, 3, 1, 10, 0, 0, 0, time.UTC)
	a := Message{ID: "01", CreatedAt: t0}
	b := Message{ID: "02", CreatedAt: t0}
	c := Message{ID: "00", CreatedAt: t0.Add(time.Microsecond)}

	assert.True(t, a.Before(b))
	assert.False(t, b.Before(a))
	assert.True(t, b.Before(c))
}

func TestNewSessionStatus(t *testing.T) {
	at := Now()
	closed := NewSessionStatus("id", "s1", true, "staff-1", at)
	assert.True(t, closed.IsCompleted)
	assert.Equal(t, at, *closed.CompletedAt)
	assert.Equal(t, "staff-1", *closed.CompletedBy)

	open := NewSessionStatus("id", "s1", false, "staff-1", at)
	assert.False(t, open.IsCompleted)
	assert.Nil(t, open.CompletedAt)
	assert.Nil(t, open.CompletedBy)
}

func TestInboxFilterKeep(t *testing.T) {
	yes, no := true, false
	assert.True(t, InboxFilter{}.Keep(true))
	assert.True(t, InboxFilter{ShowCompleted: &yes}.Keep(true))
	assert.False(t, InboxFilter{ShowCompleted: &yes}.Keep(false))
	assert.True(t, InboxFilter{ShowCompleted: &no}.Keep(false))
}

func TestNewIDOrdered(t *testing.T) {
	prev := NewID()
	for i := 0; i < 100; i++ {
		next := NewID()
		assert.Less(t, prev, next)
		prev = next
	}
}
