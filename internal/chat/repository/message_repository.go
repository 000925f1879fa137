package repository

import (
	"context"
	"errors"
	"time"

	"support_chat_service/internal/chat/domain"

	"gorm.io/gorm"
)

// MessageRepository append-only log of chat messages
type MessageRepository interface {
	Append(ctx context.Context, msg *domain.Message) error
	// ListBySession returns messages ordered by (createdAt, id), the view picks which end the limit keeps
	ListBySession(ctx context.Context, sessionID string, q domain.ListQuery) ([]domain.Message, error)
	// ListSessionIdentifiers distinct session keys seen in the log
	ListSessionIdentifiers(ctx context.Context, onlyCustomerAuthored bool) ([]string, error)
	// ListSessionsByAuthor sessions an account wrote customer messages in
	ListSessionsByAuthor(ctx context.Context, accountID string) ([]string, error)
	// LatestInSession newest message of the session, nil when empty
	LatestInSession(ctx context.Context, sessionID string) (*domain.Message, error)
	// LatestByRole newest message of the session written by role, nil when none
	LatestByRole(ctx context.Context, sessionID string, role domain.ActorRole) (*domain.Message, error)
	// ExistsAfter report whether role wrote anything in the session after the given time
	ExistsAfter(ctx context.Context, sessionID string, role domain.ActorRole, after time.Time) (bool, error)
	// LatestCustomerAccount account of the newest signed-in customer message, nil for anonymous sessions
	LatestCustomerAccount(ctx context.Context, sessionID string) (*string, error)
	CountBySession(ctx context.Context, sessionID string) (int, error)
}

type gormMessageRepository struct {
	db *gorm.DB
}

// NewGormMessageRepository create a MessageRepository on a relational store
func NewGormMessageRepository(db *gorm.DB) MessageRepository {
	return &gormMessageRepository{db: db}
}

func (r *gormMessageRepository) Append(ctx context.Context, msg *domain.Message) error {
	return r.db.WithContext(ctx).Create(msg).Error
}

func (r *gormMessageRepository) ListBySession(ctx context.Context, sessionID string, q domain.ListQuery) ([]domain.Message, error) {
	var msgs []domain.Message

	tx := r.db.WithContext(ctx).Where("session_id = ?", sessionID)
	if q.View == domain.TailView {
		tx = tx.Order("created_at DESC").Order("id DESC")
	} else {
		tx = tx.Order("created_at ASC").Order("id ASC")
	}
	if q.Limit > 0 {
		tx = tx.Limit(q.Limit)
	}
	if err := tx.Find(&msgs).Error; err != nil {
		return nil, err
	}

	if q.View == domain.TailView {
		reverse(msgs)
	}
	return msgs, nil
}

func (r *gormMessageRepository) ListSessionIdentifiers(ctx context.Context, onlyCustomerAuthored bool) ([]string, error) {
	var ids []string

	tx := r.db.WithContext(ctx).Model(&domain.Message{})
	if onlyCustomerAuthored {
		tx = tx.Where("is_staff_authored = ?", false)
	}
	err := tx.Distinct("session_id").Order("session_id").Pluck("session_id", &ids).Error
	return ids, err
}

func (r *gormMessageRepository) ListSessionsByAuthor(ctx context.Context, accountID string) ([]string, error) {
	var ids []string
	err := r.db.WithContext(ctx).Model(&domain.Message{}).
		Where("author_account_id = ? AND is_staff_authored = ?", accountID, false).
		Distinct("session_id").Order("session_id").
		Pluck("session_id", &ids).Error
	return ids, err
}

func (r *gormMessageRepository) LatestInSession(ctx context.Context, sessionID string) (*domain.Message, error) {
	return r.latest(r.db.WithContext(ctx).Where("session_id = ?", sessionID))
}

func (r *gormMessageRepository) LatestByRole(ctx context.Context, sessionID string, role domain.ActorRole) (*domain.Message, error) {
	return r.latest(r.db.WithContext(ctx).Where("session_id = ? AND is_staff_authored = ?", sessionID, role.IsStaff()))
}

func (r *gormMessageRepository) latest(tx *gorm.DB) (*domain.Message, error) {
	var msg domain.Message
	err := tx.Order("created_at DESC").Order("id DESC").Take(&msg).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &msg, nil
}

func (r *gormMessageRepository) ExistsAfter(ctx context.Context, sessionID string, role domain.ActorRole, after time.Time) (bool, error) {
	var n int64
	err := r.db.WithContext(ctx).Model(&domain.Message{}).
		Where("session_id = ? AND is_staff_authored = ? AND created_at > ?", sessionID, role.IsStaff(), after).
		Count(&n).Error
	return n > 0, err
}

func (r *gormMessageRepository) LatestCustomerAccount(ctx context.Context, sessionID string) (*string, error) {
	msg, err := r.latest(r.db.WithContext(ctx).
		Where("session_id = ? AND is_staff_authored = ? AND author_account_id IS NOT NULL", sessionID, false))
	if err != nil || msg == nil {
		return nil, err
	}
	return msg.AuthorAccountID, nil
}

func (r *gormMessageRepository) CountBySession(ctx context.Context, sessionID string) (int, error) {
	var n int64
	err := r.db.WithContext(ctx).Model(&domain.Message{}).Where("session_id = ?", sessionID).Count(&n).Error
	return int(n), err
}

func reverse(msgs []domain.Message) {
	for i, j := 0, len(msgs)-1; i < j; i, j = i+1, j-1 {
		msgs[i], msgs[j] = msgs[j], msgs[i]
	}
}
