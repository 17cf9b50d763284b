package mongo

import (
	"context"
	"time"

	"github.com/google/uuid"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

type ChatMessageRepo interface {
	SaveMessage(ctx context.Context, msg *ChatMessage) error
	GetHistory(ctx context.Context, userID uint64, sessionID string, limit int) ([]*ChatMessage, error)
	ListSessions(ctx context.Context, userID uint64, limit int) ([]*ChatSession, error)
	DeleteSession(ctx context.Context, userID uint64, sessionID string) (int64, error)
}

type chatMessageRepoImpl struct {
	col *mongo.Collection
}

func NewChatMessageRepo(db *mongo.Database) ChatMessageRepo {
	return &chatMessageRepoImpl{
		col: db.Collection(chatMessageCollection),
	}
}

func (s *chatMessageRepoImpl) SaveMessage(ctx context.Context, msg *ChatMessage) error {
	if msg.ID == "" {
		msg.ID = uuid.NewString()
	}
	if msg.CreatedAt.IsZero() {
		msg.CreatedAt = time.Now()
	}
	_, err := s.col.InsertOne(ctx, msg)
	return err
}

// GetHistory 拉取最近 limit 条，返回时从旧到新；sessionID 为空时不区分会话
func (s *chatMessageRepoImpl) GetHistory(ctx context.Context, userID uint64, sessionID string, limit int) ([]*ChatMessage, error) {
	if limit <= 0 {
		limit = 20
	}

	filter := bson.M{"user_id": userID}
	if sessionID != "" {
		filter["session_id"] = sessionID
	}
	findOptions := options.Find().
		SetSort(bson.D{
			{Key: "created_at", Value: -1},
			{Key: "_id", Value: -1},
		}).
		SetLimit(int64(limit))

	cursor, err := s.col.Find(ctx, filter, findOptions)
	if err != nil {
		return nil, err
	}
	defer func() {
		_ = cursor.Close(ctx)
	}()

	messages := make([]*ChatMessage, 0)
	if err = cursor.All(ctx, &messages); err != nil {
		return nil, err
	}

	for i, j := 0, len(messages)-1; i < j; i, j = i+1, j-1 {
		messages[i], messages[j] = messages[j], messages[i]
	}
	return messages, nil
}

// ListSessions 按最后一条消息时间倒序
func (s *chatMessageRepoImpl) ListSessions(ctx context.Context, userID uint64, limit int) ([]*ChatSession, error) {
	pipeline := mongo.Pipeline{
		{{Key: "$match", Value: bson.M{"user_id": userID}}},
		{{Key: "$sort", Value: bson.D{{Key: "created_at", Value: 1}}}},
		{{Key: "$group", Value: bson.M{
			"_id":           "$session_id",
			"last_message":  bson.M{"$last": "$content"},
			"message_count": bson.M{"$sum": 1},
			"updated_at":    bson.M{"$max": "$created_at"},
		}}},
		{{Key: "$sort", Value: bson.D{{Key: "updated_at", Value: -1}}}},
		{{Key: "$limit", Value: limit}},
	}

	cursor, err := s.col.Aggregate(ctx, pipeline)
	if err != nil {
		return nil, err
	}
	defer func() {
		_ = cursor.Close(ctx)
	}()

	sessions := make([]*ChatSession, 0)
	if err = cursor.All(ctx, &sessions); err != nil {
		return nil, err
	}
	return sessions, nil
}

func (s *chatMessageRepoImpl) DeleteSession(ctx context.Context, userID uint64, sessionID string) (int64, error) {
	result, err := s.col.DeleteMany(ctx, bson.M{"user_id": userID, "session_id": sessionID})
	if err != nil {
		return 0, err
	}
	return result.DeletedCount, nil
}
