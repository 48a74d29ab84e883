// Package repositories implements the MongoDB data access layer. Each
// repository owns one collection; business rules live in app/services.
package repositories

import (
	"context"
	"errors"
	"time"

	"github.com/lekhanhduy0411/tiemlen/app/models"
	"github.com/lekhanhduy0411/tiemlen/pkg/mongodb"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// ErrNotFound is returned when a document does not exist.
var ErrNotFound = errors.New("repositories: not found")

// ErrDuplicate is returned when a unique index rejects a write.
var ErrDuplicate = errors.New("repositories: duplicate key")

// wrapErr maps driver errors onto the repository sentinels.
func wrapErr(err error) error {
	switch {
	case err == nil:
		return nil
	case errors.Is(err, mongo.ErrNoDocuments):
		return ErrNotFound
	case mongo.IsDuplicateKeyError(err):
		return ErrDuplicate
	default:
		return err
	}
}

// UserRepository handles the users collection.
type UserRepository struct{}

func NewUserRepository() *UserRepository {
	return &UserRepository{}
}

func (r *UserRepository) col() *mongo.Collection {
	return mongodb.Collection(mongodb.ColUsers)
}

func (r *UserRepository) FindByEmail(ctx context.Context, email string) (models.User, error) {
	var user models.User
	err := r.col().FindOne(ctx, bson.M{"email": email}).Decode(&user)
	return user, wrapErr(err)
}

func (r *UserRepository) FindByID(ctx context.Context, id primitive.ObjectID) (models.User, error) {
	var user models.User
	err := r.col().FindOne(ctx, bson.M{"_id": id}).Decode(&user)
	return user, wrapErr(err)
}

func (r *UserRepository) Create(ctx context.Context, user *models.User) error {
	now := time.Now()
	user.CreatedAt = now
	user.UpdatedAt = now

	res, err := r.col().InsertOne(ctx, user)
	if err != nil {
		return wrapErr(err)
	}
	user.ID = res.InsertedID.(primitive.ObjectID)
	return nil
}

// UpdateFields applies a partial update and returns the fresh document.
func (r *UserRepository) UpdateFields(ctx context.Context, id primitive.ObjectID, fields bson.M) (models.User, error) {
	fields["updatedAt"] = time.Now()

	var user models.User
	err := r.col().FindOneAndUpdate(ctx,
		bson.M{"_id": id},
		bson.M{"$set": fields},
		options.FindOneAndUpdate().SetReturnDocument(options.After),
	).Decode(&user)
	return user, wrapErr(err)
}

func (r *UserRepository) Delete(ctx context.Context, id primitive.ObjectID) error {
	res, err := r.col().DeleteOne(ctx, bson.M{"_id": id})
	if err != nil {
		return wrapErr(err)
	}
	if res.DeletedCount == 0 {
		return ErrNotFound
	}
	return nil
}

// List returns users newest-first with skip/limit pagination.
func (r *UserRepository) List(ctx context.Context, page, limit int) ([]models.User, int64, error) {
	skip := int64((page - 1) * limit)

	total, err := r.col().CountDocuments(ctx, bson.M{})
	if err != nil {
		return nil, 0, wrapErr(err)
	}

	opts := options.Find().
		SetSort(bson.D{{Key: "createdAt", Value: -1}}).
		SetSkip(skip).
		SetLimit(int64(limit))

	cur, err := r.col().Find(ctx, bson.M{}, opts)
	if err != nil {
		return nil, 0, wrapErr(err)
	}

	users := []models.User{}
	if err := cur.All(ctx, &users); err != nil {
		return nil, 0, wrapErr(err)
	}
	return users, total, nil
}

func (r *UserRepository) CountCustomers(ctx context.Context) (int64, error) {
	n, err := r.col().CountDocuments(ctx, bson.M{"role": models.RoleCustomer})
	return n, wrapErr(err)
}

// RefsByIDs loads the trimmed projections for the given IDs, keyed by ID.
func (r *UserRepository) RefsByIDs(ctx context.Context, ids []primitive.ObjectID) (map[primitive.ObjectID]models.UserRef, error) {
	refs := map[primitive.ObjectID]models.UserRef{}
	if len(ids) == 0 {
		return refs, nil
	}

	cur, err := r.col().Find(ctx, bson.M{"_id": bson.M{"$in": ids}},
		options.Find().SetProjection(bson.M{
			"fullName": 1, "email": 1, "avatar": 1, "role": 1,
		}))
	if err != nil {
		return nil, wrapErr(err)
	}

	var users []models.UserRef
	if err := cur.All(ctx, &users); err != nil {
		return nil, wrapErr(err)
	}
	for _, u := range users {
		refs[u.ID] = u
	}
	return refs, nil
}
