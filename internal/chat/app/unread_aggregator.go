package app

import (
	"context"
	"time"

	"support_chat_service/internal/chat/domain"
	"support_chat_service/internal/chat/repository"
)

// UnreadAggregator derives unread badges and per-message read flags from cursors and messages
type UnreadAggregator interface {
	// StaffUnreadCount sessions holding any customer message newer than this staff member's cursor
	StaffUnreadCount(ctx context.Context, staffAccountID string) (int, error)
	// StaffHasUnread the same predicate for a single session
	StaffHasUnread(ctx context.Context, sessionID, staffAccountID string) (bool, error)
	// CustomerUnreadCount sessions whose newest staff reply is newer than the customer's cursor.
	// Signed-in customers are counted over every session they wrote in, anonymous ones over sessionID only.
	CustomerUnreadCount(ctx context.Context, accountID *string, sessionID string) (int, error)
	// ReadFlags flag each message against the other role's cursor as seen by viewer
	ReadFlags(ctx context.Context, sessionID string, viewer domain.ActorKey, msgs []domain.Message) ([]domain.TranscriptEntry, error)
}

// recomputeAggregator full recompute on every call, O(sessions) queries
type recomputeAggregator struct {
	msgRepo    repository.MessageRepository
	cursorRepo repository.ReadCursorRepository
}

// NewUnreadAggregator create the full recompute UnreadAggregator
func NewUnreadAggregator(msgRepo repository.MessageRepository, cursorRepo repository.ReadCursorRepository) UnreadAggregator {
	return &recomputeAggregator{msgRepo: msgRepo, cursorRepo: cursorRepo}
}

func (a *recomputeAggregator) StaffUnreadCount(ctx context.Context, staffAccountID string) (int, error) {
	// 1. 列出所有有客人訊息的 session
	sessions, err := a.msgRepo.ListSessionIdentifiers(ctx, true)
	if err != nil {
		return 0, err
	}

	// 2. 逐一比對這位 staff 的 cursor
	count := 0
	for _, sessionID := range sessions {
		unread, err := a.StaffHasUnread(ctx, sessionID, staffAccountID)
		if err != nil {
			return 0, err
		}
		if unread {
			count++
		}
	}
	return count, nil
}

func (a *recomputeAggregator) StaffHasUnread(ctx context.Context, sessionID, staffAccountID string) (bool, error) {
	lastRead, err := a.cursorRepo.GetLastRead(ctx, sessionID, domain.StaffKey(staffAccountID))
	if err != nil {
		return false, err
	}
	return a.msgRepo.ExistsAfter(ctx, sessionID, domain.RoleCustomer, lastRead)
}

func (a *recomputeAggregator) CustomerUnreadCount(ctx context.Context, accountID *string, sessionID string) (int, error) {
	key := domain.CustomerKey(accountID)

	// 1. 找出要計算的 session
	var sessions []string
	switch {
	case accountID != nil && *accountID != "":
		ids, err := a.msgRepo.ListSessionsByAuthor(ctx, *accountID)
		if err != nil {
			return 0, err
		}
		sessions = ids
	case sessionID != "":
		key = domain.CustomerKey(nil)
		sessions = []string{sessionID}
	default:
		return 0, nil
	}

	// 2. 只看每個 session 最新的一則 staff 回覆
	count := 0
	for _, id := range sessions {
		latest, err := a.msgRepo.LatestByRole(ctx, id, domain.RoleStaff)
		if err != nil {
			return 0, err
		}
		if latest == nil {
			continue
		}
		lastRead, err := a.cursorRepo.GetLastRead(ctx, id, key)
		if err != nil {
			return 0, err
		}
		if latest.CreatedAt.After(lastRead) {
			count++
		}
	}
	return count, nil
}

func (a *recomputeAggregator) ReadFlags(ctx context.Context, sessionID string, viewer domain.ActorKey, msgs []domain.Message) ([]domain.TranscriptEntry, error) {
	// viewer 自己的 cursor 判斷對方的訊息, 對方最新的 cursor 判斷 viewer 這一側的訊息
	own, err := a.cursorRepo.GetLastRead(ctx, sessionID, viewer)
	if err != nil {
		return nil, err
	}
	other, err := a.cursorRepo.LatestForRole(ctx, sessionID, viewer.Role.Other())
	if err != nil {
		return nil, err
	}

	cursors := map[domain.ActorRole]time.Time{
		viewer.Role:         own,
		viewer.Role.Other(): other,
	}

	entries := make([]domain.TranscriptEntry, 0, len(msgs))
	for _, m := range msgs {
		reader := m.Role().Other()
		entries = append(entries, domain.TranscriptEntry{
			Message: m,
			IsRead:  domain.IsReadBy(m, reader, cursors[reader]),
		})
	}
	return entries, nil
}
