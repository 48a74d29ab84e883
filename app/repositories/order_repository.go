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

// MonthRevenue is one bucket of the monthly revenue aggregation.
type MonthRevenue struct {
	Year    int     `bson:"year" json:"year"`
	Month   int     `bson:"month" json:"month"`
	Revenue float64 `bson:"revenue" json:"revenue"`
	Orders  int     `bson:"orders" json:"orders"`
}

// OrderRepository handles the orders collection.
type OrderRepository struct{}

func NewOrderRepository() *OrderRepository {
	return &OrderRepository{}
}

func (r *OrderRepository) col() *mongo.Collection {
	return mongodb.Collection(mongodb.ColOrders)
}

func (r *OrderRepository) Create(ctx context.Context, order *models.Order) error {
	now := time.Now()
	order.CreatedAt = now
	order.UpdatedAt = now

	res, err := r.col().InsertOne(ctx, order)
	if err != nil {
		return wrapErr(err)
	}
	order.ID = res.InsertedID.(primitive.ObjectID)
	return nil
}

func (r *OrderRepository) FindByID(ctx context.Context, id primitive.ObjectID) (models.Order, error) {
	var order models.Order
	err := r.col().FindOne(ctx, bson.M{"_id": id}).Decode(&order)
	return order, wrapErr(err)
}

// FindByUser returns one user's orders newest-first with pagination.
func (r *OrderRepository) FindByUser(ctx context.Context, userID primitive.ObjectID, page, limit int) ([]models.Order, int64, error) {
	return r.list(ctx, bson.M{"user": userID}, page, limit)
}

// List returns all orders newest-first, optionally filtered by status.
func (r *OrderRepository) List(ctx context.Context, status string, page, limit int) ([]models.Order, int64, error) {
	filter := bson.M{}
	if status != "" {
		filter["status"] = status
	}
	return r.list(ctx, filter, page, limit)
}

func (r *OrderRepository) list(ctx context.Context, filter bson.M, page, limit int) ([]models.Order, int64, error) {
	total, err := r.col().CountDocuments(ctx, filter)
	if err != nil {
		return nil, 0, wrapErr(err)
	}

	opts := options.Find().
		SetSort(bson.D{{Key: "createdAt", Value: -1}}).
		SetSkip(int64((page - 1) * limit)).
		SetLimit(int64(limit))

	cur, err := r.col().Find(ctx, filter, opts)
	if err != nil {
		return nil, 0, wrapErr(err)
	}

	orders := []models.Order{}
	if err := cur.All(ctx, &orders); err != nil {
		return nil, 0, wrapErr(err)
	}
	return orders, total, nil
}

// Recent returns the latest orders for the dashboard feed.
func (r *OrderRepository) Recent(ctx context.Context, limit int) ([]models.Order, error) {
	opts := options.Find().
		SetSort(bson.D{{Key: "createdAt", Value: -1}}).
		SetLimit(int64(limit))

	cur, err := r.col().Find(ctx, bson.M{}, opts)
	if err != nil {
		return nil, wrapErr(err)
	}

	orders := []models.Order{}
	if err := cur.All(ctx, &orders); err != nil {
		return nil, wrapErr(err)
	}
	return orders, nil
}

// UpdateStatus writes the new status plus any side-effect fields (paidAt,
// deliveredAt) and returns the fresh document. Transition legality is the
// service layer's job.
func (r *OrderRepository) UpdateStatus(ctx context.Context, id primitive.ObjectID, status string, extra bson.M) (models.Order, error) {
	set := bson.M{"status": status, "updatedAt": time.Now()}
	for k, v := range extra {
		set[k] = v
	}

	var order models.Order
	err := r.col().FindOneAndUpdate(ctx,
		bson.M{"_id": id},
		bson.M{"$set": set},
		options.FindOneAndUpdate().SetReturnDocument(options.After),
	).Decode(&order)
	return order, wrapErr(err)
}

func (r *OrderRepository) Count(ctx context.Context) (int64, error) {
	n, err := r.col().CountDocuments(ctx, bson.M{})
	return n, wrapErr(err)
}

func (r *OrderRepository) CountByStatus(ctx context.Context, status string) (int64, error) {
	n, err := r.col().CountDocuments(ctx, bson.M{"status": status})
	return n, wrapErr(err)
}

// RevenueTotal sums net revenue over delivered orders. Cancelled and
// in-flight orders never count.
func (r *OrderRepository) RevenueTotal(ctx context.Context) (float64, error) {
	pipeline := mongo.Pipeline{
		{{Key: "$match", Value: bson.M{"status": models.StatusDelivered}}},
		{{Key: "$group", Value: bson.M{
			"_id":     nil,
			"revenue": bson.M{"$sum": "$totalAmount"},
		}}},
	}

	cur, err := r.col().Aggregate(ctx, pipeline)
	if err != nil {
		return 0, wrapErr(err)
	}

	var rows []struct {
		Revenue float64 `bson:"revenue"`
	}
	if err := cur.All(ctx, &rows); err != nil {
		return 0, wrapErr(err)
	}
	if len(rows) == 0 {
		return 0, nil
	}
	return rows[0].Revenue, nil
}

// MonthlyRevenue buckets delivered-order revenue by calendar month since
// the given cutoff, oldest bucket first.
func (r *OrderRepository) MonthlyRevenue(ctx context.Context, since time.Time) ([]MonthRevenue, error) {
	pipeline := mongo.Pipeline{
		{{Key: "$match", Value: bson.M{
			"status":    models.StatusDelivered,
			"createdAt": bson.M{"$gte": since},
		}}},
		{{Key: "$group", Value: bson.M{
			"_id": bson.M{
				"year":  bson.M{"$year": "$createdAt"},
				"month": bson.M{"$month": "$createdAt"},
			},
			"revenue": bson.M{"$sum": "$totalAmount"},
			"orders":  bson.M{"$sum": 1},
		}}},
		{{Key: "$sort", Value: bson.D{
			{Key: "_id.year", Value: 1},
			{Key: "_id.month", Value: 1},
		}}},
		{{Key: "$project", Value: bson.M{
			"_id":     0,
			"year":    "$_id.year",
			"month":   "$_id.month",
			"revenue": 1,
			"orders":  1,
		}}},
	}

	cur, err := r.col().Aggregate(ctx, pipeline)
	if err != nil {
		return nil, wrapErr(err)
	}

	rows := []MonthRevenue{}
	if err := cur.All(ctx, &rows); err != nil {
		return nil, wrapErr(err)
	}
	return rows, nil
}
