package repository

import (
	"context"
	"errors"
	"time"

	"support_chat_service/internal/chat/domain"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

type mongoSessionStatusRepository struct {
	coll *mongo.Collection
}

// NewMongoSessionStatusRepository create a SessionStatusRepository on mongo
func NewMongoSessionStatusRepository(db *mongo.Database) SessionStatusRepository {
	return &mongoSessionStatusRepository{
		coll: db.Collection(domain.SessionStatus{}.TableName()),
	}
}

func (r *mongoSessionStatusRepository) GetStatus(ctx context.Context, sessionID string) (domain.SessionStatus, error) {
	var s domain.SessionStatus
	err := r.coll.FindOne(ctx, bson.M{"session_id": sessionID}).Decode(&s)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return domain.OpenStatus(sessionID), nil
	}
	return s, err
}

func (r *mongoSessionStatusRepository) SetCompleted(ctx context.Context, sessionID string, completed bool, by string, at time.Time) (domain.SessionStatus, error) {
	row := domain.NewSessionStatus(domain.NewID(), sessionID, completed, by, at)

	update := bson.M{
		"$set": bson.M{
			"is_completed": row.IsCompleted,
			"completed_at": row.CompletedAt,
			"completed_by": row.CompletedBy,
			"updated_at":   at,
		},
		"$setOnInsert": bson.M{
			"_id":        row.ID,
			"created_at": at,
		},
	}
	opts := options.FindOneAndUpdate().SetUpsert(true).SetReturnDocument(options.After)

	var stored domain.SessionStatus
	if err := r.coll.FindOneAndUpdate(ctx, bson.M{"session_id": sessionID}, update, opts).Decode(&stored); err != nil {
		return domain.SessionStatus{}, err
	}
	return stored, nil
}

func (r *mongoSessionStatusRepository) ListStatuses(ctx context.Context, sessionIDs []string) (map[string]domain.SessionStatus, error) {
	out := make(map[string]domain.SessionStatus, len(sessionIDs))
	if len(sessionIDs) == 0 {
		return out, nil
	}

	cur, err := r.coll.Find(ctx, bson.M{"session_id": bson.M{"$in": sessionIDs}})
	if err != nil {
		return nil, err
	}
	var rows []domain.SessionStatus
	if err := cur.All(ctx, &rows); err != nil {
		return nil, err
	}
	for _, s := range rows {
		out[s.SessionID] = s
	}
	return out, nil
}
