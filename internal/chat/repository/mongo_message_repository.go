package repository

import (
	"context"
	"errors"
	"sort"
	"time"

	"support_chat_service/internal/chat/domain"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

type mongoMessageRepository struct {
	coll *mongo.Collection
}

// NewMongoMessageRepository create a MessageRepository on mongo
func NewMongoMessageRepository(db *mongo.Database) MessageRepository {
	return &mongoMessageRepository{
		coll: db.Collection(domain.Message{}.TableName()),
	}
}

func (r *mongoMessageRepository) Append(ctx context.Context, msg *domain.Message) error {
	_, err := r.coll.InsertOne(ctx, msg)
	return err
}

func (r *mongoMessageRepository) ListBySession(ctx context.Context, sessionID string, q domain.ListQuery) ([]domain.Message, error) {
	dir := 1
	if q.View == domain.TailView {
		dir = -1
	}
	opts := options.Find().SetSort(bson.D{{Key: "created_at", Value: dir}, {Key: "_id", Value: dir}})
	if q.Limit > 0 {
		opts.SetLimit(int64(q.Limit))
	}

	cur, err := r.coll.Find(ctx, bson.M{"session_id": sessionID}, opts)
	if err != nil {
		return nil, err
	}
	msgs := []domain.Message{}
	if err := cur.All(ctx, &msgs); err != nil {
		return nil, err
	}

	if q.View == domain.TailView {
		reverse(msgs)
	}
	return msgs, nil
}

func (r *mongoMessageRepository) ListSessionIdentifiers(ctx context.Context, onlyCustomerAuthored bool) ([]string, error) {
	filter := bson.M{}
	if onlyCustomerAuthored {
		filter["is_staff_authored"] = false
	}
	return r.distinctSessions(ctx, filter)
}

func (r *mongoMessageRepository) ListSessionsByAuthor(ctx context.Context, accountID string) ([]string, error) {
	return r.distinctSessions(ctx, bson.M{"author_account_id": accountID, "is_staff_authored": false})
}

func (r *mongoMessageRepository) distinctSessions(ctx context.Context, filter bson.M) ([]string, error) {
	raw, err := r.coll.Distinct(ctx, "session_id", filter)
	if err != nil {
		return nil, err
	}
	ids := make([]string, 0, len(raw))
	for _, v := range raw {
		if s, ok := v.(string); ok {
			ids = append(ids, s)
		}
	}
	sort.Strings(ids)
	return ids, nil
}

func (r *mongoMessageRepository) LatestInSession(ctx context.Context, sessionID string) (*domain.Message, error) {
	return r.latest(ctx, bson.M{"session_id": sessionID})
}

func (r *mongoMessageRepository) LatestByRole(ctx context.Context, sessionID string, role domain.ActorRole) (*domain.Message, error) {
	return r.latest(ctx, bson.M{"session_id": sessionID, "is_staff_authored": role.IsStaff()})
}

func (r *mongoMessageRepository) latest(ctx context.Context, filter bson.M) (*domain.Message, error) {
	opts := options.FindOne().SetSort(bson.D{{Key: "created_at", Value: -1}, {Key: "_id", Value: -1}})

	var msg domain.Message
	err := r.coll.FindOne(ctx, filter, opts).Decode(&msg)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &msg, nil
}

func (r *mongoMessageRepository) ExistsAfter(ctx context.Context, sessionID string, role domain.ActorRole, after time.Time) (bool, error) {
	n, err := r.coll.CountDocuments(ctx, bson.M{
		"session_id":        sessionID,
		"is_staff_authored": role.IsStaff(),
		"created_at":        bson.M{"$gt": after},
	}, options.Count().SetLimit(1))
	return n > 0, err
}

func (r *mongoMessageRepository) LatestCustomerAccount(ctx context.Context, sessionID string) (*string, error) {
	msg, err := r.latest(ctx, bson.M{
		"session_id":        sessionID,
		"is_staff_authored": false,
		"author_account_id": bson.M{"$exists": true, "$ne": nil},
	})
	if err != nil || msg == nil {
		return nil, err
	}
	return msg.AuthorAccountID, nil
}

func (r *mongoMessageRepository) CountBySession(ctx context.Context, sessionID string) (int, error) {
	n, err := r.coll.CountDocuments(ctx, bson.M{"session_id": sessionID})
	return int(n), err
}
