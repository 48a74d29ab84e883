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

// ReviewRepository handles the reviews collection. The compound unique
// index on (user, product, order) turns a duplicate review into ErrDuplicate.
type ReviewRepository struct{}

func NewReviewRepository() *ReviewRepository {
	return &ReviewRepository{}
}

func (r *ReviewRepository) col() *mongo.Collection {
	return mongodb.Collection(mongodb.ColReviews)
}

func (r *ReviewRepository) Create(ctx context.Context, review *models.Review) error {
	now := time.Now()
	review.CreatedAt = now
	review.UpdatedAt = now

	res, err := r.col().InsertOne(ctx, review)
	if err != nil {
		return wrapErr(err)
	}
	review.ID = res.InsertedID.(primitive.ObjectID)
	return nil
}

func (r *ReviewRepository) FindByID(ctx context.Context, id primitive.ObjectID) (models.Review, error) {
	var review models.Review
	err := r.col().FindOne(ctx, bson.M{"_id": id}).Decode(&review)
	return review, wrapErr(err)
}

// ApprovedByProduct returns the approved reviews for one product,
// newest-first. Also the input for recomputing the product rating.
func (r *ReviewRepository) ApprovedByProduct(ctx context.Context, productID primitive.ObjectID) ([]models.Review, error) {
	cur, err := r.col().Find(ctx,
		bson.M{"product": productID, "isApproved": true},
		options.Find().SetSort(bson.D{{Key: "createdAt", Value: -1}}))
	if err != nil {
		return nil, wrapErr(err)
	}

	reviews := []models.Review{}
	if err := cur.All(ctx, &reviews); err != nil {
		return nil, wrapErr(err)
	}
	return reviews, nil
}

// List returns all reviews newest-first with pagination, for moderation.
func (r *ReviewRepository) List(ctx context.Context, page, limit int) ([]models.Review, int64, error) {
	total, err := r.col().CountDocuments(ctx, bson.M{})
	if err != nil {
		return nil, 0, wrapErr(err)
	}

	opts := options.Find().
		SetSort(bson.D{{Key: "createdAt", Value: -1}}).
		SetSkip(int64((page - 1) * limit)).
		SetLimit(int64(limit))

	cur, err := r.col().Find(ctx, bson.M{}, opts)
	if err != nil {
		return nil, 0, wrapErr(err)
	}

	reviews := []models.Review{}
	if err := cur.All(ctx, &reviews); err != nil {
		return nil, 0, wrapErr(err)
	}
	return reviews, total, nil
}

func (r *ReviewRepository) Delete(ctx context.Context, id primitive.ObjectID) error {
	res, err := r.col().DeleteOne(ctx, bson.M{"_id": id})
	if err != nil {
		return wrapErr(err)
	}
	if res.DeletedCount == 0 {
		return ErrNotFound
	}
	return nil
}
