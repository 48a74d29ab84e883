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

// ProductFilter captures the storefront listing query surface.
type ProductFilter struct {
	Page       int
	Limit      int
	Search     string
	Category   *primitive.ObjectID
	MinPrice   *float64
	MaxPrice   *float64
	Sort       string // "", price_asc, price_desc, rating, name, newest, popular
	ActiveOnly bool
}

// ProductRepository handles the products collection.
type ProductRepository struct{}

func NewProductRepository() *ProductRepository {
	return &ProductRepository{}
}

func (r *ProductRepository) col() *mongo.Collection {
	return mongodb.Collection(mongodb.ColProducts)
}

func (r *ProductRepository) FindByID(ctx context.Context, id primitive.ObjectID) (models.Product, error) {
	var p models.Product
	err := r.col().FindOne(ctx, bson.M{"_id": id}).Decode(&p)
	return p, wrapErr(err)
}

func (r *ProductRepository) FindBySlug(ctx context.Context, slug string) (models.Product, error) {
	var p models.Product
	err := r.col().FindOne(ctx, bson.M{"slug": slug}).Decode(&p)
	return p, wrapErr(err)
}

// Search runs the filtered, sorted, paginated storefront listing.
func (r *ProductRepository) Search(ctx context.Context, f ProductFilter) ([]models.Product, int64, error) {
	filter := bson.M{}
	if f.ActiveOnly {
		filter["isActive"] = true
	}
	if f.Category != nil {
		filter["category"] = *f.Category
	}
	if f.Search != "" {
		rx := primitive.Regex{Pattern: f.Search, Options: "i"}
		filter["$or"] = bson.A{
			bson.M{"name": rx},
			bson.M{"description": rx},
		}
	}
	if f.MinPrice != nil || f.MaxPrice != nil {
		price := bson.M{}
		if f.MinPrice != nil {
			price["$gte"] = *f.MinPrice
		}
		if f.MaxPrice != nil {
			price["$lte"] = *f.MaxPrice
		}
		filter["price"] = price
	}

	total, err := r.col().CountDocuments(ctx, filter)
	if err != nil {
		return nil, 0, wrapErr(err)
	}

	skip := int64((f.Page - 1) * f.Limit)
	opts := options.Find().
		SetSort(sortSpec(f.Sort)).
		SetSkip(skip).
		SetLimit(int64(f.Limit))

	cur, err := r.col().Find(ctx, filter, opts)
	if err != nil {
		return nil, 0, wrapErr(err)
	}

	products := []models.Product{}
	if err := cur.All(ctx, &products); err != nil {
		return nil, 0, wrapErr(err)
	}
	return products, total, nil
}

func sortSpec(sort string) bson.D {
	switch sort {
	case "price", "price_asc":
		return bson.D{{Key: "price", Value: 1}}
	case "-price", "price_desc":
		return bson.D{{Key: "price", Value: -1}}
	case "rating", "-rating":
		return bson.D{{Key: "rating", Value: -1}}
	case "name":
		return bson.D{{Key: "name", Value: 1}}
	case "popular":
		return bson.D{{Key: "sold", Value: -1}}
	default:
		return bson.D{{Key: "createdAt", Value: -1}}
	}
}

// FindFeatured returns up to limit featured active products, newest first.
func (r *ProductRepository) FindFeatured(ctx context.Context, limit int) ([]models.Product, error) {
	opts := options.Find().
		SetSort(bson.D{{Key: "createdAt", Value: -1}}).
		SetLimit(int64(limit))

	cur, err := r.col().Find(ctx, bson.M{"isActive": true, "featured": true}, opts)
	if err != nil {
		return nil, wrapErr(err)
	}

	products := []models.Product{}
	if err := cur.All(ctx, &products); err != nil {
		return nil, wrapErr(err)
	}
	return products, nil
}

// TopSold returns the best sellers for the revenue dashboard.
func (r *ProductRepository) TopSold(ctx context.Context, limit int) ([]models.Product, error) {
	opts := options.Find().
		SetSort(bson.D{{Key: "sold", Value: -1}}).
		SetLimit(int64(limit)).
		SetProjection(bson.M{"name": 1, "sold": 1, "price": 1, "images": 1})

	cur, err := r.col().Find(ctx, bson.M{"isActive": true}, opts)
	if err != nil {
		return nil, wrapErr(err)
	}

	products := []models.Product{}
	if err := cur.All(ctx, &products); err != nil {
		return nil, wrapErr(err)
	}
	return products, nil
}

func (r *ProductRepository) Count(ctx context.Context) (int64, error) {
	n, err := r.col().CountDocuments(ctx, bson.M{})
	return n, wrapErr(err)
}

func (r *ProductRepository) Create(ctx context.Context, p *models.Product) error {
	now := time.Now()
	p.CreatedAt = now
	p.UpdatedAt = now
	p.Slug = models.Slugify(p.Name)
	if p.Images == nil {
		p.Images = []string{}
	}
	if p.Tags == nil {
		p.Tags = []string{}
	}

	res, err := r.col().InsertOne(ctx, p)
	if err != nil {
		return wrapErr(err)
	}
	p.ID = res.InsertedID.(primitive.ObjectID)
	return nil
}

// UpdateFields applies a partial update; a name change regenerates the slug.
func (r *ProductRepository) UpdateFields(ctx context.Context, id primitive.ObjectID, fields bson.M) (models.Product, error) {
	if name, ok := fields["name"].(string); ok {
		fields["slug"] = models.Slugify(name)
	}
	fields["updatedAt"] = time.Now()

	var p models.Product
	err := r.col().FindOneAndUpdate(ctx,
		bson.M{"_id": id},
		bson.M{"$set": fields},
		options.FindOneAndUpdate().SetReturnDocument(options.After),
	).Decode(&p)
	return p, wrapErr(err)
}

func (r *ProductRepository) Delete(ctx context.Context, id primitive.ObjectID) error {
	res, err := r.col().DeleteOne(ctx, bson.M{"_id": id})
	if err != nil {
		return wrapErr(err)
	}
	if res.DeletedCount == 0 {
		return ErrNotFound
	}
	return nil
}

// ReserveStock atomically decrements stock and increments sold, but only
// when enough stock remains. ErrNotFound here means "insufficient stock or
// unknown product" — the filter did not match.
func (r *ProductRepository) ReserveStock(ctx context.Context, id primitive.ObjectID, qty int) error {
	res, err := r.col().UpdateOne(ctx,
		bson.M{"_id": id, "stock": bson.M{"$gte": qty}},
		bson.M{
			"$inc": bson.M{"stock": -qty, "sold": qty},
			"$set": bson.M{"updatedAt": time.Now()},
		},
	)
	if err != nil {
		return wrapErr(err)
	}
	if res.MatchedCount == 0 {
		return ErrNotFound
	}
	return nil
}

// ReleaseStock reverses a reservation: restores stock and reduces sold.
// Used both for order cancellation and for compensating a failed placement.
func (r *ProductRepository) ReleaseStock(ctx context.Context, id primitive.ObjectID, qty int) error {
	_, err := r.col().UpdateOne(ctx,
		bson.M{"_id": id},
		bson.M{
			"$inc": bson.M{"stock": qty, "sold": -qty},
			"$set": bson.M{"updatedAt": time.Now()},
		},
	)
	return wrapErr(err)
}

// SetRating writes the recomputed review aggregate back onto the product.
func (r *ProductRepository) SetRating(ctx context.Context, id primitive.ObjectID, rating float64, numReviews int) error {
	_, err := r.col().UpdateOne(ctx,
		bson.M{"_id": id},
		bson.M{"$set": bson.M{
			"rating":     rating,
			"numReviews": numReviews,
			"updatedAt":  time.Now(),
		}},
	)
	return wrapErr(err)
}
