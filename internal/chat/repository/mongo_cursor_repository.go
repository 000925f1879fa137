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

type mongoReadCursorRepository struct {
	coll *mongo.Collection
}

// NewMongoReadCursorRepository create a ReadCursorRepository on mongo
func NewMongoReadCursorRepository(db *mongo.Database) ReadCursorRepository {
	return &mongoReadCursorRepository{
		coll: db.Collection(domain.ReadCursor{}.TableName()),
	}
}

func cursorFilter(sessionID string, key domain.ActorKey) bson.M {
	return bson.M{
		"session_id":        sessionID,
		"is_staff_authored": key.Role.IsStaff(),
		"account_key":       key.AccountKey(),
	}
}

func (r *mongoReadCursorRepository) GetLastRead(ctx context.Context, sessionID string, key domain.ActorKey) (time.Time, error) {
	var c domain.ReadCursor
	err := r.coll.FindOne(ctx, cursorFilter(sessionID, key)).Decode(&c)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return domain.EpochZero, nil
	}
	if err != nil {
		return domain.EpochZero, err
	}
	return c.LastReadAt.UTC(), nil
}

// MarkRead 單一 UpdateOne upsert, 不先查再寫
func (r *mongoReadCursorRepository) MarkRead(ctx context.Context, sessionID string, key domain.ActorKey, at time.Time) error {
	update := bson.M{
		"$set": bson.M{
			"last_read_at": at,
			"updated_at":   at,
		},
		"$setOnInsert": bson.M{
			"_id":        domain.NewID(),
			"account_id": key.AccountID,
			"created_at": at,
		},
	}
	_, err := r.coll.UpdateOne(ctx, cursorFilter(sessionID, key), update, options.Update().SetUpsert(true))
	return err
}

func (r *mongoReadCursorRepository) LatestForRole(ctx context.Context, sessionID string, role domain.ActorRole) (time.Time, error) {
	opts := options.FindOne().SetSort(bson.D{{Key: "last_read_at", Value: -1}})

	var c domain.ReadCursor
	err := r.coll.FindOne(ctx, bson.M{"session_id": sessionID, "is_staff_authored": role.IsStaff()}, opts).Decode(&c)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return domain.EpochZero, nil
	}
	if err != nil {
		return domain.EpochZero, err
	}
	return c.LastReadAt.UTC(), nil
}
