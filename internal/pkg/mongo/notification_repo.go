package mongo

import (
	"context"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

type NotificationRepo interface {
	Create(ctx context.Context, n *Notification) (bool, error)
	List(ctx context.Context, recipientID uint64, skip, limit int64) ([]*Notification, error)
	CountUnread(ctx context.Context, recipientID uint64) (int64, error)
	FindByIDs(ctx context.Context, ids []primitive.ObjectID) ([]*Notification, error)
	MarkRead(ctx context.Context, recipientID uint64, ids []primitive.ObjectID) (int64, error)
	MarkAllRead(ctx context.Context, recipientID uint64) (int64, error)
}

type notificationRepoImpl struct {
	col *mongo.Collection
}

func NewNotificationRepo(db *mongo.Database) NotificationRepo {
	return &notificationRepoImpl{
		col: db.Collection(notificationCollection),
	}
}

// Create 带 EventID 时以 upsert 写入，同一事件重复写入返回 false
func (s *notificationRepoImpl) Create(ctx context.Context, n *Notification) (bool, error) {
	if n.CreatedAt.IsZero() {
		n.CreatedAt = time.Now()
	}
	if n.EventID == "" {
		res, err := s.col.InsertOne(ctx, n)
		if err != nil {
			return false, err
		}
		if id, ok := res.InsertedID.(primitive.ObjectID); ok {
			n.ID = id
		}
		return true, nil
	}

	doc := bson.M{
		"recipient_id": n.RecipientID,
		"actor_id":     n.ActorID,
		"type":         n.Type,
		"target_type":  n.TargetType,
		"target_id":    n.TargetID,
		"message":      n.Message,
		"is_read":      n.IsRead,
		"created_at":   n.CreatedAt,
	}
	res, err := s.col.UpdateOne(ctx,
		bson.M{"event_id": n.EventID},
		bson.M{"$setOnInsert": doc},
		options.Update().SetUpsert(true),
	)
	if err != nil {
		// 并发 upsert 同一事件时由唯一索引兜底
		if mongo.IsDuplicateKeyError(err) {
			return false, nil
		}
		return false, err
	}
	if res.UpsertedID == nil {
		return false, nil
	}
	if id, ok := res.UpsertedID.(primitive.ObjectID); ok {
		n.ID = id
	}
	return true, nil
}

// List 按时间倒序分页
func (s *notificationRepoImpl) List(ctx context.Context, recipientID uint64, skip, limit int64) ([]*Notification, error) {
	opts := options.Find().
		SetSort(bson.D{{Key: "created_at", Value: -1}, {Key: "_id", Value: -1}}).
		SetSkip(skip).
		SetLimit(limit)
	return s.find(ctx, bson.M{"recipient_id": recipientID}, opts)
}

func (s *notificationRepoImpl) CountUnread(ctx context.Context, recipientID uint64) (int64, error) {
	return s.col.CountDocuments(ctx, bson.M{"recipient_id": recipientID, "is_read": false})
}

func (s *notificationRepoImpl) FindByIDs(ctx context.Context, ids []primitive.ObjectID) ([]*Notification, error) {
	if len(ids) == 0 {
		return []*Notification{}, nil
	}
	return s.find(ctx, bson.M{"_id": bson.M{"$in": ids}})
}

// MarkRead 只更新属于 recipientID 的通知
func (s *notificationRepoImpl) MarkRead(ctx context.Context, recipientID uint64, ids []primitive.ObjectID) (int64, error) {
	if len(ids) == 0 {
		return 0, nil
	}
	filter := bson.M{"_id": bson.M{"$in": ids}, "recipient_id": recipientID, "is_read": false}
	result, err := s.col.UpdateMany(ctx, filter, bson.M{"$set": bson.M{"is_read": true}})
	if err != nil {
		return 0, err
	}
	return result.ModifiedCount, nil
}

func (s *notificationRepoImpl) MarkAllRead(ctx context.Context, recipientID uint64) (int64, error) {
	filter := bson.M{"recipient_id": recipientID, "is_read": false}
	result, err := s.col.UpdateMany(ctx, filter, bson.M{"$set": bson.M{"is_read": true}})
	if err != nil {
		return 0, err
	}
	return result.ModifiedCount, nil
}

func (s *notificationRepoImpl) find(ctx context.Context, filter bson.M, opts ...*options.FindOptions) ([]*Notification, error) {
	cursor, err := s.col.Find(ctx, filter, opts...)
	if err != nil {
		return nil, err
	}
	defer func() {
		_ = cursor.Close(ctx)
	}()

	list := make([]*Notification, 0)
	if err = cursor.All(ctx, &list); err != nil {
		return nil, err
	}
	return list, nil
}
