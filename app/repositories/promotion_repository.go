package repositories

import (
	"context"
	"strings"
	"time"

	"github.com/lekhanhduy0411/tiemlen/app/models"
	"github.com/lekhanhduy0411/tiemlen/pkg/mongodb"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// PromotionRepository handles the promotions collection. Codes are stored
// uppercase and looked up uppercase.
type PromotionRepository struct{}

func NewPromotionRepository() *PromotionRepository {
	return &PromotionRepository{}
}

func (r *PromotionRepository) col() *mongo.Collection {
	return mongodb.Collection(mongodb.ColPromotions)
}

func (r *PromotionRepository) FindByID(ctx context.Context, id primitive.ObjectID) (models.Promotion, error) {
	var promo models.Promotion
	err := r.col().FindOne(ctx, bson.M{"_id": id}).Decode(&promo)
	return promo, wrapErr(err)
}

func (r *PromotionRepository) FindByCode(ctx context.Context, code string) (models.Promotion, error) {
	var promo models.Promotion
	err := r.col().FindOne(ctx, bson.M{"code": strings.ToUpper(code)}).Decode(&promo)
	return promo, wrapErr(err)
}

// ListAll returns every promotion newest-first, for the back office.
func (r *PromotionRepository) ListAll(ctx context.Context) ([]models.Promotion, error) {
	return r.find(ctx, bson.M{})
}

// ListActive returns promotions currently inside their validity window,
// for the storefront banner.
func (r *PromotionRepository) ListActive(ctx context.Context, now time.Time) ([]models.Promotion, error) {
	return r.find(ctx, bson.M{
		"isActive":  true,
		"startDate": bson.M{"$lte": now},
		"endDate":   bson.M{"$gte": now},
	})
}

func (r *PromotionRepository) find(ctx context.Context, filter bson.M) ([]models.Promotion, error) {
	cur, err := r.col().Find(ctx, filter,
		options.Find().SetSort(bson.D{{Key: "createdAt", Value: -1}}))
	if err != nil {
		return nil, wrapErr(err)
	}

	promos := []models.Promotion{}
	if err := cur.All(ctx, &promos); err != nil {
		return nil, wrapErr(err)
	}
	return promos, nil
}

func (r *PromotionRepository) Create(ctx context.Context, promo *models.Promotion) error {
	now := time.Now()
	promo.CreatedAt = now
	promo.UpdatedAt = now
	promo.Code = strings.ToUpper(promo.Code)

	res, err := r.col().InsertOne(ctx, promo)
	if err != nil {
		return wrapErr(err)
	}
	promo.ID = res.InsertedID.(primitive.ObjectID)
	return nil
}

func (r *PromotionRepository) UpdateFields(ctx context.Context, id primitive.ObjectID, fields bson.M) (models.Promotion, error) {
	if code, ok := fields["code"].(string); ok {
		fields["code"] = strings.ToUpper(code)
	}
	fields["updatedAt"] = time.Now()

	var promo models.Promotion
	err := r.col().FindOneAndUpdate(ctx,
		bson.M{"_id": id},
		bson.M{"$set": fields},
		options.FindOneAndUpdate().SetReturnDocument(options.After),
	).Decode(&promo)
	return promo, wrapErr(err)
}

func (r *PromotionRepository) Delete(ctx context.Context, id primitive.ObjectID) error {
	res, err := r.col().DeleteOne(ctx, bson.M{"_id": id})
	if err != nil {
		return wrapErr(err)
	}
	if res.DeletedCount == 0 {
		return ErrNotFound
	}
	return nil
}

// IncrementUsage bumps usedCount by one, but only while the usage limit
// (when set) still has room. ErrNotFound means the code is exhausted or
// gone; two racing orders cannot both take the last slot.
func (r *PromotionRepository) IncrementUsage(ctx context.Context, code string) error {
	filter := bson.M{
		"code": strings.ToUpper(code),
		"$or": bson.A{
			bson.M{"usageLimit": bson.M{"$lte": 0}},
			bson.M{"$expr": bson.M{"$lt": bson.A{"$usedCount", "$usageLimit"}}},
		},
	}

	res, err := r.col().UpdateOne(ctx, filter, bson.M{
		"$inc": bson.M{"usedCount": 1},
		"$set": bson.M{"updatedAt": time.Now()},
	})
	if err != nil {
		return wrapErr(err)
	}
	if res.MatchedCount == 0 {
		return ErrNotFound
	}
	return nil
}

// DecrementUsage returns one usage slot, used when a placement fails after
// the code was already counted.
func (r *PromotionRepository) DecrementUsage(ctx context.Context, code string) error {
	_, err := r.col().UpdateOne(ctx,
		bson.M{"code": strings.ToUpper(code), "usedCount": bson.M{"$gt": 0}},
		bson.M{
			"$inc": bson.M{"usedCount": -1},
			"$set": bson.M{"updatedAt": time.Now()},
		},
	)
	return wrapErr(err)
}
