package repository

import (
	"context"
	"errors"
	"time"

	"support_chat_service/internal/chat/domain"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// SessionStatusRepository per-session completion flag
type SessionStatusRepository interface {
	// GetStatus returns domain.OpenStatus when nobody toggled the session
	GetStatus(ctx context.Context, sessionID string) (domain.SessionStatus, error)
	// SetCompleted upsert, stamps completedAt/completedBy or clears them
	SetCompleted(ctx context.Context, sessionID string, completed bool, by string, at time.Time) (domain.SessionStatus, error)
	// ListStatuses statuses of the given sessions, untouched sessions are absent from the map
	ListStatuses(ctx context.Context, sessionIDs []string) (map[string]domain.SessionStatus, error)
}

type gormSessionStatusRepository struct {
	db *gorm.DB
}

// NewGormSessionStatusRepository create a SessionStatusRepository on a relational store
func NewGormSessionStatusRepository(db *gorm.DB) SessionStatusRepository {
	return &gormSessionStatusRepository{db: db}
}

func (r *gormSessionStatusRepository) GetStatus(ctx context.Context, sessionID string) (domain.SessionStatus, error) {
	var s domain.SessionStatus
	err := r.db.WithContext(ctx).Where("session_id = ?", sessionID).Take(&s).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return domain.OpenStatus(sessionID), nil
	}
	return s, err
}

func (r *gormSessionStatusRepository) SetCompleted(ctx context.Context, sessionID string, completed bool, by string, at time.Time) (domain.SessionStatus, error) {
	row := domain.NewSessionStatus(domain.NewID(), sessionID, completed, by, at)

	// upsert 之後讀回實際存下的那一列, update 時 id 與 created_at 沿用舊值
	var stored domain.SessionStatus
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		err := tx.Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "session_id"}},
			DoUpdates: clause.AssignmentColumns([]string{"is_completed", "completed_at", "completed_by", "updated_at"}),
		}).Create(&row).Error
		if err != nil {
			return err
		}
		return tx.Where("session_id = ?", sessionID).Take(&stored).Error
	})
	if err != nil {
		return domain.SessionStatus{}, err
	}
	return stored, nil
}

func (r *gormSessionStatusRepository) ListStatuses(ctx context.Context, sessionIDs []string) (map[string]domain.SessionStatus, error) {
	out := make(map[string]domain.SessionStatus, len(sessionIDs))
	if len(sessionIDs) == 0 {
		return out, nil
	}

	var rows []domain.SessionStatus
	if err := r.db.WithContext(ctx).Where("session_id IN ?", sessionIDs).Find(&rows).Error; err != nil {
		return nil, err
	}
	for _, s := range rows {
		out[s.SessionID] = s
	}
	return out, nil
}
