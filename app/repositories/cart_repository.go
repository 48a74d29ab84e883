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

// CartRepository handles the carts collection. One cart per user, enforced
// by a unique index on the user field.
type CartRepository struct{}

func NewCartRepository() *CartRepository {
	return &CartRepository{}
}

func (r *CartRepository) col() *mongo.Collection {
	return mongodb.Collection(mongodb.ColCarts)
}

func (r *CartRepository) FindByUser(ctx context.Context, userID primitive.ObjectID) (models.Cart, error) {
	var cart models.Cart
	err := r.col().FindOne(ctx, bson.M{"user": userID}).Decode(&cart)
	return cart, wrapErr(err)
}

// Save upserts the user's cart document, writing items and the recomputed
// total in one shot.
func (r *CartRepository) Save(ctx context.Context, cart *models.Cart) error {
	now := time.Now()
	cart.UpdatedAt = now
	if cart.Items == nil {
		cart.Items = []models.CartItem{}
	}
	cart.RecalcTotal()

	res, err := r.col().UpdateOne(ctx,
		bson.M{"user": cart.User},
		bson.M{
			"$set": bson.M{
				"items":       cart.Items,
				"totalAmount": cart.TotalAmount,
				"updatedAt":   cart.UpdatedAt,
			},
			"$setOnInsert": bson.M{
				"user":      cart.User,
				"createdAt": now,
			},
		},
		options.Update().SetUpsert(true),
	)
	if err != nil {
		return wrapErr(err)
	}
	if id, ok := res.UpsertedID.(primitive.ObjectID); ok {
		cart.ID = id
		cart.CreatedAt = now
	}
	return nil
}

// Clear empties the user's cart. Missing cart is not an error; the result
// is the same either way.
func (r *CartRepository) Clear(ctx context.Context, userID primitive.ObjectID) error {
	_, err := r.col().UpdateOne(ctx,
		bson.M{"user": userID},
		bson.M{"$set": bson.M{
			"items":       []models.CartItem{},
			"totalAmount": 0.0,
			"updatedAt":   time.Now(),
		}},
	)
	return wrapErr(err)
}
