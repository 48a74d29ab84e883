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

// CategoryRepository handles the categories collection.
type CategoryRepository struct{}

func NewCategoryRepository() *CategoryRepository {
	return &CategoryRepository{}
}

func (r *CategoryRepository) col() *mongo.Collection {
	return mongodb.Collection(mongodb.ColCategories)
}

func (r *CategoryRepository) FindByID(ctx context.Context, id primitive.ObjectID) (models.Category, error) {
	var cat models.Category
	err := r.col().FindOne(ctx, bson.M{"_id": id}).Decode(&cat)
	return cat, wrapErr(err)
}

// ListActive returns active categories sorted by name, the storefront order.
func (r *CategoryRepository) ListActive(ctx context.Context) ([]models.Category, error) {
	cur, err := r.col().Find(ctx, bson.M{"isActive": true},
		options.Find().SetSort(bson.D{{Key: "name", Value: 1}}))
	if err != nil {
		return nil, wrapErr(err)
	}

	cats := []models.Category{}
	if err := cur.All(ctx, &cats); err != nil {
		return nil, wrapErr(err)
	}
	return cats, nil
}

// ListAll returns every category newest-first, for the back office.
func (r *CategoryRepository) ListAll(ctx context.Context) ([]models.Category, error) {
	cur, err := r.col().Find(ctx, bson.M{},
		options.Find().SetSort(bson.D{{Key: "createdAt", Value: -1}}))
	if err != nil {
		return nil, wrapErr(err)
	}

	cats := []models.Category{}
	if err := cur.All(ctx, &cats); err != nil {
		return nil, wrapErr(err)
	}
	return cats, nil
}

func (r *CategoryRepository) Create(ctx context.Context, cat *models.Category) error {
	now := time.Now()
	cat.CreatedAt = now
	cat.UpdatedAt = now
	cat.Slug = models.Slugify(cat.Name)

	res, err := r.col().InsertOne(ctx, cat)
	if err != nil {
		return wrapErr(err)
	}
	cat.ID = res.InsertedID.(primitive.ObjectID)
	return nil
}

// UpdateFields applies a partial update; when the name changes the slug is
// regenerated with it.
func (r *CategoryRepository) UpdateFields(ctx context.Context, id primitive.ObjectID, fields bson.M) (models.Category, error) {
	if name, ok := fields["name"].(string); ok {
		fields["slug"] = models.Slugify(name)
	}
	fields["updatedAt"] = time.Now()

	var cat models.Category
	err := r.col().FindOneAndUpdate(ctx,
		bson.M{"_id": id},
		bson.M{"$set": fields},
		options.FindOneAndUpdate().SetReturnDocument(options.After),
	).Decode(&cat)
	return cat, wrapErr(err)
}

func (r *CategoryRepository) Delete(ctx context.Context, id primitive.ObjectID) error {
	_, err := r.col().DeleteOne(ctx, bson.M{"_id": id})
	return wrapErr(err)
}

// RefsByIDs loads trimmed projections for product population, keyed by ID.
func (r *CategoryRepository) RefsByIDs(ctx context.Context, ids []primitive.ObjectID) (map[primitive.ObjectID]models.CategoryRef, error) {
	refs := map[primitive.ObjectID]models.CategoryRef{}
	if len(ids) == 0 {
		return refs, nil
	}

	cur, err := r.col().Find(ctx, bson.M{"_id": bson.M{"$in": ids}},
		options.Find().SetProjection(bson.M{"name": 1, "slug": 1}))
	if err != nil {
		return nil, wrapErr(err)
	}

	var cats []models.CategoryRef
	if err := cur.All(ctx, &cats); err != nil {
		return nil, wrapErr(err)
	}
	for _, c := range cats {
		refs[c.ID] = c
	}
	return refs, nil
}
