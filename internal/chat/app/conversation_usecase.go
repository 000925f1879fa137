package app

import (
	"context"
	"errors"
	"sort"
	"time"

	"support_chat_service/internal/chat/domain"
	"support_chat_service/internal/chat/repository"
	"support_chat_service/pkg/config"
	"support_chat_service/pkg/database"
	errprocess "support_chat_service/pkg/err"
	"support_chat_service/pkg/logger"

	"go.uber.org/zap"
)

const maxInboxPageSize = 100

// ConversationDeps collaborators of ConversationUseCase. Notifier, Events, Idempotency
// and Accounts are optional, a nil value turns the matching side effect off.
type ConversationDeps struct {
	Messages    repository.MessageRepository
	Cursors     repository.ReadCursorRepository
	Statuses    repository.SessionStatusRepository
	Accounts    repository.AccountRepository
	Unread      UnreadAggregator
	Notifier    repository.Notifier
	Events      repository.EventPublisher
	Idempotency database.RedisRepository[domain.Message]
}

// ConversationUseCase the only writer of messages, cursors and session statuses
type ConversationUseCase struct {
	msgRepo     repository.MessageRepository
	cursorRepo  repository.ReadCursorRepository
	statusRepo  repository.SessionStatusRepository
	accountRepo repository.AccountRepository
	unread      UnreadAggregator
	notifier    repository.Notifier
	events      repository.EventPublisher
	idem        database.RedisRepository[domain.Message]
	cfg         config.ChatConfig
	now         func() time.Time
}

// SendInput one message to append
type SendInput struct {
	SessionID string
	Caller    domain.Identity
	Body      string
	OriginIP  string
	// IdempotencyKey replays with the same key return the first message instead of appending again
	IdempotencyKey string
}

// NewConversationUseCase init conversation use case
func NewConversationUseCase(deps ConversationDeps, cfg config.ChatConfig) *ConversationUseCase {
	unread := deps.Unread
	if unread == nil {
		unread = NewUnreadAggregator(deps.Messages, deps.Cursors)
	}
	return &ConversationUseCase{
		msgRepo:     deps.Messages,
		cursorRepo:  deps.Cursors,
		statusRepo:  deps.Statuses,
		accountRepo: deps.Accounts,
		unread:      unread,
		notifier:    deps.Notifier,
		events:      deps.Events,
		idem:        deps.Idempotency,
		cfg:         cfg.WithDefaults(),
		now:         domain.Now,
	}
}

// SetClock replace the time source
func (uc *ConversationUseCase) SetClock(now func() time.Time) {
	uc.now = now
}

// Config effective chat settings
func (uc *ConversationUseCase) Config() config.ChatConfig {
	return uc.cfg
}

// SendAsCustomer no access check, whoever knows the session id may post to it.
// Completed sessions still accept customer messages.
func (uc *ConversationUseCase) SendAsCustomer(ctx context.Context, in SendInput) (*domain.Message, error) {
	if err := validateSend(in); err != nil {
		return nil, err
	}

	idemKey, replayed := uc.replay(ctx, domain.RoleCustomer, in)
	if replayed != nil {
		return replayed, nil
	}

	var author *string
	if !in.Caller.Anonymous() {
		author = in.Caller.AccountID
	}
	return uc.append(ctx, domain.RoleCustomer, author, in, idemKey)
}

// SendAsStaff reply into a session, rejected while the session is completed.
// A retry of a reply that was already stored returns it even after completion.
func (uc *ConversationUseCase) SendAsStaff(ctx context.Context, in SendInput) (*domain.Message, error) {
	// 1. 檢查 staff 權限
	if !in.Caller.Privileged() {
		return nil, errprocess.Wrap(domain.ErrForbidden, "staff privilege required to reply")
	}
	if err := validateSend(in); err != nil {
		return nil, err
	}

	// 2. 重送的請求直接回傳第一次的結果
	idemKey, replayed := uc.replay(ctx, domain.RoleStaff, in)
	if replayed != nil {
		return replayed, nil
	}

	// 3. 已完成的 session 不能再回覆
	status, err := uc.statusRepo.GetStatus(ctx, in.SessionID)
	if err != nil {
		return nil, err
	}
	if status.IsCompleted {
		return nil, errprocess.Wrap(domain.ErrSessionClosed, "session "+in.SessionID+" is completed")
	}

	return uc.append(ctx, domain.RoleStaff, in.Caller.AccountID, in, idemKey)
}

func validateSend(in SendInput) error {
	if err := domain.ValidateSessionID(in.SessionID); err != nil {
		return err
	}
	return domain.ValidateBody(in.Body)
}

// replay return the cache key of this send and the message an earlier send with the same key stored
func (uc *ConversationUseCase) replay(ctx context.Context, role domain.ActorRole, in SendInput) (string, *domain.Message) {
	if in.IdempotencyKey == "" || uc.idem == nil {
		return "", nil
	}

	key := in.SessionID + ":" + string(role) + ":" + in.IdempotencyKey
	cached, err := uc.idem.Get(ctx, key)
	if err == nil {
		logger.Log.Debug("idempotent replay", zap.String("session_id", in.SessionID), zap.String("message_id", cached.ID))
		return key, &cached
	}
	if !errors.Is(err, database.ErrCacheMiss) {
		logger.Log.Warn("idempotency lookup failed", zap.String("session_id", in.SessionID), zap.Error(err))
	}
	return key, nil
}

func (uc *ConversationUseCase) append(ctx context.Context, role domain.ActorRole, author *string, in SendInput, idemKey string) (*domain.Message, error) {
	msg := &domain.Message{
		ID:              domain.NewID(),
		SessionID:       in.SessionID,
		AuthorAccountID: author,
		IsStaffAuthored: role.IsStaff(),
		Body:            in.Body,
		CreatedAt:       uc.now(),
	}
	if in.OriginIP != "" {
		ip := in.OriginIP
		msg.OriginIP = &ip
	}

	// 1. 先用 SetNX 佔住 key, 同時送達的重複請求只有一個會寫入
	if idemKey != "" {
		reserved, err := uc.idem.SetNX(ctx, idemKey, *msg, uc.cfg.IdempotencyTTL)
		switch {
		case err != nil:
			logger.Log.Warn("idempotency reserve failed", zap.String("session_id", in.SessionID), zap.Error(err))
			idemKey = ""
		case !reserved:
			winner, err := uc.idem.Get(ctx, idemKey)
			if err == nil {
				return &winner, nil
			}
			logger.Log.Warn("idempotency reservation vanished", zap.String("session_id", in.SessionID), zap.Error(err))
			idemKey = ""
		}
	}

	// 2. 寫入訊息, 失敗時釋放 key 讓 client 可以重試
	if err := uc.msgRepo.Append(ctx, msg); err != nil {
		logger.Log.Error("append message failed", zap.String("session_id", in.SessionID), zap.Error(err))
		if idemKey != "" {
			if delErr := uc.idem.Del(ctx, idemKey); delErr != nil {
				logger.Log.Warn("idempotency release failed", zap.String("session_id", in.SessionID), zap.Error(delErr))
			}
		}
		return nil, err
	}

	uc.notify(ctx, domain.Notification{Type: domain.EventMessageAppended, SessionID: msg.SessionID, Message: msg})
	uc.publish(ctx, domain.ChatEvent{
		Type:      domain.EventMessageAppended,
		SessionID: msg.SessionID,
		Role:      role,
		AccountID: author,
		MessageID: msg.ID,
		At:        msg.CreatedAt,
	})
	return msg, nil
}

// MarkRead record now into the caller's cursor for role
func (uc *ConversationUseCase) MarkRead(ctx context.Context, sessionID string, role domain.ActorRole, caller domain.Identity) error {
	key, err := actorKeyFor(role, caller)
	if err != nil {
		return err
	}
	if err := domain.ValidateSessionID(sessionID); err != nil {
		return err
	}
	return uc.cursorRepo.MarkRead(ctx, sessionID, key, uc.now())
}

func actorKeyFor(role domain.ActorRole, caller domain.Identity) (domain.ActorKey, error) {
	switch role {
	case domain.RoleStaff:
		if !caller.Privileged() {
			return domain.ActorKey{}, errprocess.Wrap(domain.ErrForbidden, "staff privilege required")
		}
		return domain.StaffKey(*caller.AccountID), nil
	case domain.RoleCustomer:
		if caller.Anonymous() {
			return domain.CustomerKey(nil), nil
		}
		return domain.CustomerKey(caller.AccountID), nil
	default:
		return domain.ActorKey{}, errprocess.Wrap(domain.ErrValidation, "unknown role "+string(role))
	}
}

// MarkCompleted close or reopen a session, idempotent
func (uc *ConversationUseCase) MarkCompleted(ctx context.Context, sessionID string, completed bool, caller domain.Identity) (domain.SessionStatus, error) {
	if !caller.Privileged() {
		return domain.SessionStatus{}, errprocess.Wrap(domain.ErrForbidden, "staff privilege required to complete a session")
	}
	if err := domain.ValidateSessionID(sessionID); err != nil {
		return domain.SessionStatus{}, err
	}

	at := uc.now()
	status, err := uc.statusRepo.SetCompleted(ctx, sessionID, completed, *caller.AccountID, at)
	if err != nil {
		return domain.SessionStatus{}, err
	}
	logger.Log.Info("session completion changed",
		zap.String("session_id", sessionID),
		zap.Bool("completed", completed),
		zap.String("by", *caller.AccountID),
	)

	evt := domain.EventSessionReopened
	if completed {
		evt = domain.EventSessionCompleted
	}
	uc.notify(ctx, domain.Notification{Type: domain.EventSessionStatus, SessionID: sessionID, Status: &status})
	uc.publish(ctx, domain.ChatEvent{
		Type:      evt,
		SessionID: sessionID,
		Role:      domain.RoleStaff,
		AccountID: caller.AccountID,
		At:        at,
	})
	return status, nil
}

// GetSessionStatus read-only completion state for staff
func (uc *ConversationUseCase) GetSessionStatus(ctx context.Context, sessionID string, caller domain.Identity) (domain.SessionStatus, error) {
	if !caller.Privileged() {
		return domain.SessionStatus{}, errprocess.Wrap(domain.ErrForbidden, "staff privilege required")
	}
	if err := domain.ValidateSessionID(sessionID); err != nil {
		return domain.SessionStatus{}, err
	}
	return uc.statusRepo.GetStatus(ctx, sessionID)
}

// ListTranscript customer view: the oldest messages first with read receipts
func (uc *ConversationUseCase) ListTranscript(ctx context.Context, sessionID string, caller domain.Identity) ([]domain.TranscriptEntry, error) {
	if err := domain.ValidateSessionID(sessionID); err != nil {
		return nil, err
	}
	key, err := actorKeyFor(domain.RoleCustomer, caller)
	if err != nil {
		return nil, err
	}

	msgs, err := uc.msgRepo.ListBySession(ctx, sessionID, domain.ListQuery{View: domain.HeadView, Limit: uc.cfg.CustomerPageSize})
	if err != nil {
		return nil, err
	}
	return uc.unread.ReadFlags(ctx, sessionID, key, msgs)
}

// OpenSession staff view: advances the caller's cursor, then returns the newest messages oldest first
func (uc *ConversationUseCase) OpenSession(ctx context.Context, sessionID string, caller domain.Identity) ([]domain.TranscriptEntry, error) {
	key, err := actorKeyFor(domain.RoleStaff, caller)
	if err != nil {
		return nil, err
	}
	if err := domain.ValidateSessionID(sessionID); err != nil {
		return nil, err
	}

	// 1. 開啟即已讀
	if err := uc.cursorRepo.MarkRead(ctx, sessionID, key, uc.now()); err != nil {
		return nil, err
	}

	// 2. 取最新的訊息
	msgs, err := uc.msgRepo.ListBySession(ctx, sessionID, domain.ListQuery{View: domain.TailView, Limit: uc.cfg.StaffPageSize})
	if err != nil {
		return nil, err
	}
	entries, err := uc.unread.ReadFlags(ctx, sessionID, key, msgs)
	if err != nil {
		return nil, err
	}

	// 3. 補上作者資訊
	ids := make([]string, 0, len(entries))
	for _, e := range entries {
		if e.AuthorAccountID != nil {
			ids = append(ids, *e.AuthorAccountID)
		}
	}
	accounts := uc.lookupAccounts(ctx, ids)
	for i := range entries {
		if id := entries[i].AuthorAccountID; id != nil {
			if acc, ok := accounts[*id]; ok {
				entries[i].Author = &acc
			}
		}
		entries[i].OriginIP = entries[i].Message.OriginIP
	}
	return entries, nil
}

// ListInbox one summary per customer-bearing session, newest activity first
func (uc *ConversationUseCase) ListInbox(ctx context.Context, caller domain.Identity, filter domain.InboxFilter) (*domain.InboxPage, error) {
	if !caller.Privileged() {
		return nil, errprocess.Wrap(domain.ErrForbidden, "staff privilege required to list the inbox")
	}
	staffID := *caller.AccountID

	if filter.Page < 1 {
		filter.Page = 1
	}
	if filter.PageSize <= 0 {
		filter.PageSize = uc.cfg.InboxPageSize
	}
	if filter.PageSize > maxInboxPageSize {
		filter.PageSize = maxInboxPageSize
	}

	// 1. 所有有客人訊息的 session 及其狀態
	sessionIDs, err := uc.msgRepo.ListSessionIdentifiers(ctx, true)
	if err != nil {
		return nil, err
	}
	statuses, err := uc.statusRepo.ListStatuses(ctx, sessionIDs)
	if err != nil {
		return nil, err
	}

	// 2. 依完成狀態過濾, 取最後一則訊息排序
	summaries := make([]domain.SessionSummary, 0, len(sessionIDs))
	for _, id := range sessionIDs {
		status, ok := statuses[id]
		if !ok {
			status = domain.OpenStatus(id)
		}
		if !filter.Keep(status.IsCompleted) {
			continue
		}

		latest, err := uc.msgRepo.LatestInSession(ctx, id)
		if err != nil {
			return nil, err
		}
		if latest == nil {
			continue
		}
		summaries = append(summaries, domain.SessionSummary{
			SessionID:     id,
			LastMessage:   latest.Body,
			LastMessageAt: latest.CreatedAt,
			LastFromStaff: latest.IsStaffAuthored,
			IsCompleted:   status.IsCompleted,
			CompletedAt:   status.CompletedAt,
		})
	}
	sort.SliceStable(summaries, func(i, j int) bool {
		if summaries[i].LastMessageAt.Equal(summaries[j].LastMessageAt) {
			return summaries[i].SessionID < summaries[j].SessionID
		}
		return summaries[i].LastMessageAt.After(summaries[j].LastMessageAt)
	})

	page := &domain.InboxPage{
		Sessions: []domain.SessionSummary{},
		Total:    len(summaries),
		Page:     filter.Page,
		PageSize: filter.PageSize,
	}
	start := (filter.Page - 1) * filter.PageSize
	if start >= len(summaries) {
		return page, nil
	}
	end := start + filter.PageSize
	if end > len(summaries) {
		end = len(summaries)
	}
	rows := summaries[start:end]

	// 3. 只替這一頁補上未讀, 筆數與客人資訊
	customerOf := make(map[string]string, len(rows))
	ids := make([]string, 0, len(rows))
	for i := range rows {
		sessionID := rows[i].SessionID
		if rows[i].HasUnread, err = uc.unread.StaffHasUnread(ctx, sessionID, staffID); err != nil {
			return nil, err
		}
		if rows[i].MessageCount, err = uc.msgRepo.CountBySession(ctx, sessionID); err != nil {
			return nil, err
		}
		acc, err := uc.msgRepo.LatestCustomerAccount(ctx, sessionID)
		if err != nil {
			return nil, err
		}
		if acc != nil {
			customerOf[sessionID] = *acc
			ids = append(ids, *acc)
		}
	}
	accounts := uc.lookupAccounts(ctx, ids)
	for i := range rows {
		if accID, ok := customerOf[rows[i].SessionID]; ok {
			acc, found := accounts[accID]
			if !found {
				acc = domain.Account{ID: accID}
			}
			rows[i].Customer = &acc
		}
	}

	page.Sessions = rows
	return page, nil
}

// CustomerUnreadCount badge for the storefront, see UnreadAggregator.CustomerUnreadCount
func (uc *ConversationUseCase) CustomerUnreadCount(ctx context.Context, caller domain.Identity, sessionID string) (int, error) {
	var accountID *string
	if !caller.Anonymous() {
		accountID = caller.AccountID
	}
	return uc.unread.CustomerUnreadCount(ctx, accountID, sessionID)
}

// StaffUnreadCount badge for the back office
func (uc *ConversationUseCase) StaffUnreadCount(ctx context.Context, caller domain.Identity) (int, error) {
	if !caller.Privileged() {
		return 0, errprocess.Wrap(domain.ErrForbidden, "staff privilege required")
	}
	return uc.unread.StaffUnreadCount(ctx, *caller.AccountID)
}

func (uc *ConversationUseCase) lookupAccounts(ctx context.Context, ids []string) map[string]domain.Account {
	if uc.accountRepo == nil || len(ids) == 0 {
		return map[string]domain.Account{}
	}
	accounts, err := uc.accountRepo.FindByIDs(ctx, dedupe(ids))
	if err != nil {
		logger.Log.Warn("account lookup failed", zap.Error(err))
		return map[string]domain.Account{}
	}
	return accounts
}

func (uc *ConversationUseCase) notify(ctx context.Context, n domain.Notification) {
	if uc.notifier == nil {
		return
	}
	for _, channel := range []string{domain.SessionChannel(n.SessionID), domain.StaffChannel} {
		if err := uc.notifier.Publish(ctx, channel, n); err != nil {
			logger.Log.Warn("notify failed", zap.String("channel", channel), zap.Error(err))
		}
	}
}

func (uc *ConversationUseCase) publish(ctx context.Context, evt domain.ChatEvent) {
	if uc.events == nil {
		return
	}
	if err := uc.events.Publish(ctx, evt); err != nil {
		logger.Log.Warn("publish chat event failed", zap.String("type", string(evt.Type)), zap.String("session_id", evt.SessionID), zap.Error(err))
	}
}

func dedupe(ids []string) []string {
	seen := make(map[string]struct{}, len(ids))
	out := make([]string, 0, len(ids))
	for _, id := range ids {
		if _, ok := seen[id]; ok {
			continue
		}
		seen[id] = struct{}{}
		out = append(out, id)
	}
	return out
}
