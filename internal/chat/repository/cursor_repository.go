package repository

import (
	"context"
	"errors"
	"time"

	"support_chat_service/internal/chat/domain"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// ReadCursorRepository per (session, actor) last-read timestamps
type ReadCursorRepository interface {
	// GetLastRead returns domain.EpochZero when the actor never read the session
	GetLastRead(ctx context.Context, sessionID string, key domain.ActorKey) (time.Time, error)
	// MarkRead upsert, overwrites lastReadAt unconditionally
	MarkRead(ctx context.Context, sessionID string, key domain.ActorKey, at time.Time) error
	// LatestForRole newest cursor any actor of role holds on the session
	LatestForRole(ctx context.Context, sessionID string, role domain.ActorRole) (time.Time, error)
}

type gormReadCursorRepository struct {
	db *gorm.DB
}

// NewGormReadCursorRepository create a ReadCursorRepository on a relational store
func NewGormReadCursorRepository(db *gorm.DB) ReadCursorRepository {
	return &gormReadCursorRepository{db: db}
}

func (r *gormReadCursorRepository) GetLastRead(ctx context.Context, sessionID string, key domain.ActorKey) (time.Time, error) {
	var c domain.ReadCursor
	err := r.db.WithContext(ctx).
		Where("session_id = ? AND is_staff_authored = ? AND account_key = ?", sessionID, key.Role.IsStaff(), key.AccountKey()).
		Take(&c).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return domain.EpochZero, nil
	}
	if err != nil {
		return domain.EpochZero, err
	}
	return c.LastReadAt.UTC(), nil
}

func (r *gormReadCursorRepository) MarkRead(ctx context.Context, sessionID string, key domain.ActorKey, at time.Time) error {
	row := domain.NewReadCursor(domain.NewID(), sessionID, key, at)

	return r.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns: []clause.Column{
			{Name: "session_id"},
			{Name: "is_staff_authored"},
			{Name: "account_key"},
		},
		DoUpdates: clause.AssignmentColumns([]string{"last_read_at", "updated_at"}),
	}).Create(&row).Error
}

func (r *gormReadCursorRepository) LatestForRole(ctx context.Context, sessionID string, role domain.ActorRole) (time.Time, error) {
	var c domain.ReadCursor
	err := r.db.WithContext(ctx).
		Where("session_id = ? AND is_staff_authored = ?", sessionID, role.IsStaff()).
		Order("last_read_at DESC").
		Take(&c).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return domain.EpochZero, nil
	}
	if err != nil {
		return domain.EpochZero, err
	}
	return c.LastReadAt.UTC(), nil
}
