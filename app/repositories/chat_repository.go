package repositories

import (
	"context"
	"time"

	"github.com/lekhanhduy0411/tiemlen/app/models"
	"github.com/lekhanhduy0411/tiemlen/pkg/mongodb"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// ChatRepository handles the chatmessages collection.
type ChatRepository struct{}

func NewChatRepository() *ChatRepository {
	return &ChatRepository{}
}

func (r *ChatRepository) col() *mongo.Collection {
	return mongodb.Collection(mongodb.ColChatMessages)
}

func (r *ChatRepository) Insert(ctx context.Context, msg *models.ChatMessage) error {
	now := time.Now()
	msg.CreatedAt = now
	msg.UpdatedAt = now

	res, err := r.col().InsertOne(ctx, msg)
	if err != nil {
		return wrapErr(err)
	}
	msg.ID = res.InsertedID.(primitive.ObjectID)
	return nil
}

// History returns the conversation between two users in both directions,
// oldest-first, capped at limit messages.
func (r *ChatRepository) History(ctx context.Context, a, b primitive.ObjectID, limit int) ([]models.ChatMessage, error) {
	filter := bson.M{"$or": bson.A{
		bson.M{"sender": a, "receiver": b},
		bson.M{"sender": b, "receiver": a},
	}}

	cur, err := r.col().Find(ctx, filter, options.Find().
		SetSort(bson.D{{Key: "createdAt", Value: 1}}).
		SetLimit(int64(limit)))
	if err != nil {
		return nil, wrapErr(err)
	}

	msgs := []models.ChatMessage{}
	if err := cur.All(ctx, &msgs); err != nil {
		return nil, wrapErr(err)
	}
	return msgs, nil
}

// MarkRead flags everything the counterpart sent to the reader as read.
func (r *ChatRepository) MarkRead(ctx context.Context, reader, counterpart primitive.ObjectID) error {
	_, err := r.col().UpdateMany(ctx,
		bson.M{"sender": counterpart, "receiver": reader, "isRead": false},
		bson.M{"$set": bson.M{"isRead": true, "updatedAt": time.Now()}},
	)
	return wrapErr(err)
}

// Conversations groups the viewer's messages by counterpart and returns one
// row per conversation: the latest message, its date, and the viewer's
// unread count. Sorted most-recent-first.
func (r *ChatRepository) Conversations(ctx context.Context, viewer primitive.ObjectID) ([]models.Conversation, error) {
	pipeline := mongo.Pipeline{
		{{Key: "$match", Value: bson.M{"$or": bson.A{
			bson.M{"sender": viewer},
			bson.M{"receiver": viewer},
		}}}},
		{{Key: "$sort", Value: bson.D{{Key: "createdAt", Value: -1}}}},
		{{Key: "$addFields", Value: bson.M{
			"counterpart": bson.M{"$cond": bson.A{
				bson.M{"$eq": bson.A{"$sender", viewer}},
				"$receiver",
				"$sender",
			}},
		}}},
		{{Key: "$group", Value: bson.M{
			"_id":         "$counterpart",
			"lastMessage": bson.M{"$first": "$message"},
			"lastDate":    bson.M{"$first": "$createdAt"},
			"unreadCount": bson.M{"$sum": bson.M{"$cond": bson.A{
				bson.M{"$and": bson.A{
					bson.M{"$eq": bson.A{"$receiver", viewer}},
					bson.M{"$eq": bson.A{"$isRead", false}},
				}},
				1,
				0,
			}}},
		}}},
		{{Key: "$lookup", Value: bson.M{
			"from":         mongodb.ColUsers,
			"localField":   "_id",
			"foreignField": "_id",
			"as":           "user",
		}}},
		{{Key: "$unwind", Value: "$user"}},
		{{Key: "$project", Value: bson.M{
			"_id": 0,
			"user": bson.M{
				"_id":      "$user._id",
				"fullName": "$user.fullName",
				"email":    "$user.email",
				"avatar":   "$user.avatar",
				"role":     "$user.role",
			},
			"lastMessage": 1,
			"lastDate":    1,
			"unreadCount": 1,
		}}},
		{{Key: "$sort", Value: bson.D{{Key: "lastDate", Value: -1}}}},
	}

	cur, err := r.col().Aggregate(ctx, pipeline)
	if err != nil {
		return nil, wrapErr(err)
	}

	convs := []models.Conversation{}
	if err := cur.All(ctx, &convs); err != nil {
		return nil, wrapErr(err)
	}
	return convs, nil
}
