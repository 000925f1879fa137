package repository

import (
	"context"

	"support_chat_service/internal/chat/domain"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"gorm.io/gorm"
)

// Migrate create or update the chat tables
func Migrate(db *gorm.DB) error {
	return db.AutoMigrate(&domain.Message{}, &domain.ReadCursor{}, &domain.SessionStatus{})
}

// EnsureMongoIndexes create the indexes the mongo store relies on, the unique ones back the upserts
func EnsureMongoIndexes(ctx context.Context, db *mongo.Database) error {
	indexes := map[string][]mongo.IndexModel{
		domain.Message{}.TableName(): {
			{Keys: bson.D{{Key: "session_id", Value: 1}, {Key: "created_at", Value: 1}}},
			{Keys: bson.D{{Key: "author_account_id", Value: 1}}},
		},
		domain.ReadCursor{}.TableName(): {
			{
				Keys:    bson.D{{Key: "session_id", Value: 1}, {Key: "is_staff_authored", Value: 1}, {Key: "account_key", Value: 1}},
				Options: options.Index().SetUnique(true),
			},
		},
		domain.SessionStatus{}.TableName(): {
			{Keys: bson.D{{Key: "session_id", Value: 1}}, Options: options.Index().SetUnique(true)},
		},
	}

	for coll, models := range indexes {
		if _, err := db.Collection(coll).Indexes().CreateMany(ctx, models); err != nil {
			return err
		}
	}
	return nil
}
