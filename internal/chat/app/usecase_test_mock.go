package app

import (
	"context"
	"time"

	"support_chat_service/internal/chat/domain"

	"github.com/stretchr/testify/mock"
)

// MockMessageRepository Mock MessageRepository
type MockMessageRepository struct {
	mock.Mock
}

// Append mock append message
func (m *MockMessageRepository) Append(ctx context.Context, msg *domain.Message) error {
	args := m.Called(ctx, msg)
	return args.Error(0)
}

// ListBySession mock list session messages
func (m *MockMessageRepository) ListBySession(ctx context.Context, sessionID string, q domain.ListQuery) ([]domain.Message, error) {
	args := m.Called(ctx, sessionID, q)
	if args.Get(0) != nil {
		return args.Get(0).([]domain.Message), args.Error(1)
	}
	return nil, args.Error(1)
}

// ListSessionIdentifiers mock list session ids
func (m *MockMessageRepository) ListSessionIdentifiers(ctx context.Context, onlyCustomerAuthored bool) ([]string, error) {
	args := m.Called(ctx, onlyCustomerAuthored)
	if args.Get(0) != nil {
		return args.Get(0).([]string), args.Error(1)
	}
	return nil, args.Error(1)
}

// ListSessionsByAuthor mock list sessions by author
func (m *MockMessageRepository) ListSessionsByAuthor(ctx context.Context, accountID string) ([]string, error) {
	args := m.Called(ctx, accountID)
	if args.Get(0) != nil {
		return args.Get(0).([]string), args.Error(1)
	}
	return nil, args.Error(1)
}

// LatestInSession mock newest message
func (m *MockMessageRepository) LatestInSession(ctx context.Context, sessionID string) (*domain.Message, error) {
	args := m.Called(ctx, sessionID)
	if args.Get(0) != nil {
		return args.Get(0).(*domain.Message), args.Error(1)
	}
	return nil, args.Error(1)
}

// LatestByRole mock newest message by role
func (m *MockMessageRepository) LatestByRole(ctx context.Context, sessionID string, role domain.ActorRole) (*domain.Message, error) {
	args := m.Called(ctx, sessionID, role)
	if args.Get(0) != nil {
		return args.Get(0).(*domain.Message), args.Error(1)
	}
	return nil, args.Error(1)
}

// ExistsAfter mock exists after
func (m *MockMessageRepository) ExistsAfter(ctx context.Context, sessionID string, role domain.ActorRole, after time.Time) (bool, error) {
	args := m.Called(ctx, sessionID, role, after)
	return args.Bool(0), args.Error(1)
}

// LatestCustomerAccount mock customer account of a session
func (m *MockMessageRepository) LatestCustomerAccount(ctx context.Context, sessionID string) (*string, error) {
	args := m.Called(ctx, sessionID)
	if args.Get(0) != nil {
		return args.Get(0).(*string), args.Error(1)
	}
	return nil, args.Error(1)
}

// CountBySession mock count messages
func (m *MockMessageRepository) CountBySession(ctx context.Context, sessionID string) (int, error) {
	args := m.Called(ctx, sessionID)
	return args.Int(0), args.Error(1)
}

// MockReadCursorRepository Mock ReadCursorRepository
type MockReadCursorRepository struct {
	mock.Mock
}

// GetLastRead mock get cursor
func (m *MockReadCursorRepository) GetLastRead(ctx context.Context, sessionID string, key domain.ActorKey) (time.Time, error) {
	args := m.Called(ctx, sessionID, key)
	return args.Get(0).(time.Time), args.Error(1)
}

// MarkRead mock upsert cursor
func (m *MockReadCursorRepository) MarkRead(ctx context.Context, sessionID string, key domain.ActorKey, at time.Time) error {
	args := m.Called(ctx, sessionID, key, at)
	return args.Error(0)
}

// LatestForRole mock newest cursor of a role
func (m *MockReadCursorRepository) LatestForRole(ctx context.Context, sessionID string, role domain.ActorRole) (time.Time, error) {
	args := m.Called(ctx, sessionID, role)
	return args.Get(0).(time.Time), args.Error(1)
}

// MockSessionStatusRepository Mock SessionStatusRepository
type MockSessionStatusRepository struct {
	mock.Mock
}

// GetStatus mock get status
func (m *MockSessionStatusRepository) GetStatus(ctx context.Context, sessionID string) (domain.SessionStatus, error) {
	args := m.Called(ctx, sessionID)
	return args.Get(0).(domain.SessionStatus), args.Error(1)
}

// SetCompleted mock upsert status
func (m *MockSessionStatusRepository) SetCompleted(ctx context.Context, sessionID string, completed bool, by string, at time.Time) (domain.SessionStatus, error) {
	args := m.Called(ctx, sessionID, completed, by, at)
	return args.Get(0).(domain.SessionStatus), args.Error(1)
}

// ListStatuses mock list statuses
func (m *MockSessionStatusRepository) ListStatuses(ctx context.Context, sessionIDs []string) (map[string]domain.SessionStatus, error) {
	args := m.Called(ctx, sessionIDs)
	if args.Get(0) != nil {
		return args.Get(0).(map[string]domain.SessionStatus), args.Error(1)
	}
	return nil, args.Error(1)
}

// MockAccountRepository Mock AccountRepository
type MockAccountRepository struct {
	mock.Mock
}

// FindByIDs mock account lookup
func (m *MockAccountRepository) FindByIDs(ctx context.Context, ids []string) (map[string]domain.Account, error) {
	args := m.Called(ctx, ids)
	if args.Get(0) != nil {
		return args.Get(0).(map[string]domain.Account), args.Error(1)
	}
	return nil, args.Error(1)
}

// MockUnreadAggregator Mock UnreadAggregator
type MockUnreadAggregator struct {
	mock.Mock
}

// StaffUnreadCount mock staff badge
func (m *MockUnreadAggregator) StaffUnreadCount(ctx context.Context, staffAccountID string) (int, error) {
	args := m.Called(ctx, staffAccountID)
	return args.Int(0), args.Error(1)
}

// StaffHasUnread mock staff unread flag
func (m *MockUnreadAggregator) StaffHasUnread(ctx context.Context, sessionID, staffAccountID string) (bool, error) {
	args := m.Called(ctx, sessionID, staffAccountID)
	return args.Bool(0), args.Error(1)
}

// CustomerUnreadCount mock customer badge
func (m *MockUnreadAggregator) CustomerUnreadCount(ctx context.Context, accountID *string, sessionID string) (int, error) {
	args := m.Called(ctx, accountID, sessionID)
	return args.Int(0), args.Error(1)
}

// ReadFlags mock read flags
func (m *MockUnreadAggregator) ReadFlags(ctx context.Context, sessionID string, viewer domain.ActorKey, msgs []domain.Message) ([]domain.TranscriptEntry, error) {
	args := m.Called(ctx, sessionID, viewer, msgs)
	if args.Get(0) != nil {
		return args.Get(0).([]domain.TranscriptEntry), args.Error(1)
	}
	return nil, args.Error(1)
}

// MockNotifier Mock Notifier
type MockNotifier struct {
	mock.Mock
}

// Publish mock publisher
func (m *MockNotifier) Publish(ctx context.Context, channel string, n domain.Notification) error {
	args := m.Called(ctx, channel, n)
	return args.Error(0)
}

// Subscribe mock subscriber
func (m *MockNotifier) Subscribe(ctx context.Context, channels []string, handler func(domain.Notification)) error {
	args := m.Called(ctx, channels, handler)
	return args.Error(0)
}

// MockEventPublisher Mock EventPublisher
type MockEventPublisher struct {
	mock.Mock
}

// Publish mock publish event
func (m *MockEventPublisher) Publish(ctx context.Context, evt domain.ChatEvent) error {
	args := m.Called(ctx, evt)
	return args.Error(0)
}

// Close mock close
func (m *MockEventPublisher) Close() error {
	args := m.Called()
	return args.Error(0)
}

// MockMessageCache Mock RedisRepository[domain.Message]
type MockMessageCache struct {
	mock.Mock
}

// SetNX mock set if absent
func (m *MockMessageCache) SetNX(ctx context.Context, key string, value domain.Message, ttl time.Duration) (bool, error) {
	args := m.Called(ctx, key, value, ttl)
	return args.Bool(0), args.Error(1)
}

// Get mock get
func (m *MockMessageCache) Get(ctx context.Context, key string) (domain.Message, error) {
	args := m.Called(ctx, key)
	return args.Get(0).(domain.Message), args.Error(1)
}

// Del mock del
func (m *MockMessageCache) Del(ctx context.Context, key string) error {
	args := m.Called(ctx, key)
	return args.Error(0)
}
